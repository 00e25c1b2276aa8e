/*
 * coredbg
 *
 * Copyright 2024 The coredbg authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package value

import (
	"fmt"

	"github.com/clruntim/coredbg/dbgerr"
	"github.com/clruntim/coredbg/runtimehelper"
)

/*
arrayValue renders an SZARRAY/ARRAY value. Arrays are reference types:
per spec.md §4.2 their member expansion is deferred until rendering
time, after acquiring a strong handle so the backing array survives a
runtime Continue between construction and rendering.
*/
type arrayValue struct {
	rv       runtimehelper.Value
	resolver ClassDescriptorResolver
	handles  runtimehelper.StrongHandleCreator
	depth    int
	typeName string
}

func newArrayValue(rv runtimehelper.Value, resolver ClassDescriptorResolver, handles runtimehelper.StrongHandleCreator, depth int) (*arrayValue, error) {
	held := rv
	if handles != nil {
		promoted, err := runtimehelper.CreateStrongHandle(handles, rv)
		if err != nil {
			return nil, err
		}
		held = promoted
	}

	return &arrayValue{
		rv:       held,
		resolver: resolver,
		handles:  handles,
		depth:    depth,
		typeName: arrayTypeName(rv),
	}, nil
}

/*
arrayTypeName renders the array's signature via runtimehelper when the
handle carries one, falling back to a generic name otherwise - arrays
have no owning module to resolve CLASS/VALUETYPE tokens against, so
only signatures built entirely from primitive/SZARRAY bytes resolve.
*/
func arrayTypeName(rv runtimehelper.Value) string {
	sig := rv.Signature()
	if len(sig) == 0 {
		return "System.Array"
	}
	if s, _, err := runtimehelper.TypeStringFromSignature(sig, nil); err == nil {
		return s
	}
	return "System.Array"
}

func (v *arrayValue) Kind() Kind { return KindArray }

func (v *arrayValue) PopulateType(n *Node) {
	n.Type = v.typeName
}

func (v *arrayValue) PopulateValue(n *Node) {
	n.Value = ""
}

func (v *arrayValue) PopulateMembers(n *Node, coordinator PropertyEvaluator) ([]Member, bool, error) {
	ai, ok := v.rv.(ArrayInfo)
	if !ok {
		return nil, false, dbgerr.New(dbgerr.KindUnresolvable, "value.arrayValue.PopulateMembers", "value does not expose array info")
	}

	length := ai.Length()
	members := make([]Member, 0, length)

	for i := 0; i < length; i++ {
		elem, err := ai.Element(i)
		if err != nil {
			return nil, false, dbgerr.Wrap(dbgerr.KindUnresolvable, "value.arrayValue.PopulateMembers", err)
		}

		name := fmt.Sprintf("[%d]", i)

		child, err := New(elem, v.resolver, v.handles, v.depth-1)
		if err != nil {
			child = &errorValue{message: err.Error()}
		}

		members = append(members, Member{Node: &Node{Name: name}, Value: child})
	}

	return members, true, nil
}
