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
tombstoneHashCode marks a removed entry in a HashSet<T>/Dictionary<K,V>
whose slot has not yet been compacted; spec.md §4.2 requires rendering
to skip these.
*/
const tombstoneHashCode = -1

/*
builtinListValue renders a List<T>. Lists are reference types, so
member construction is deferred to PopulateMembers like classValue's
reference-type path.
*/
type builtinListValue struct {
	desc     ClassDescriptor
	li       ListInfo
	resolver ClassDescriptorResolver
	handles  runtimehelper.StrongHandleCreator
	depth    int
}

func newBuiltinListValue(rv runtimehelper.Value, desc ClassDescriptor, resolver ClassDescriptorResolver, handles runtimehelper.StrongHandleCreator, depth int) (*builtinListValue, error) {
	li, ok := rv.(ListInfo)
	if !ok {
		return nil, dbgerr.New(dbgerr.KindUnresolvable, "value.newBuiltinListValue", "value does not expose list info")
	}
	return &builtinListValue{desc: desc, li: li, resolver: resolver, handles: handles, depth: depth}, nil
}

func (v *builtinListValue) Kind() Kind { return KindBuiltinList }

func (v *builtinListValue) PopulateType(n *Node) { n.Type = v.desc.TypeName() }

func (v *builtinListValue) PopulateValue(n *Node) { n.Value = "" }

func (v *builtinListValue) PopulateMembers(n *Node, coordinator PropertyEvaluator) ([]Member, bool, error) {
	entries, err := v.li.Entries()
	if err != nil {
		return nil, false, dbgerr.Wrap(dbgerr.KindUnresolvable, "value.builtinListValue.PopulateMembers", err)
	}

	members := make([]Member, 0, len(entries))
	for i, e := range entries {
		members = append(members, v.memberFor(fmt.Sprintf("[%d]", i), e.Val))
	}
	return members, true, nil
}

func (v *builtinListValue) memberFor(name string, rv runtimehelper.Value) Member {
	child, err := New(rv, v.resolver, v.handles, v.depth-1)
	if err != nil {
		child = &errorValue{message: err.Error()}
	}
	return Member{Node: &Node{Name: name}, Value: child}
}

/*
builtinSetValue renders a HashSet<T>, filtering tombstoned entries.
*/
type builtinSetValue struct {
	desc     ClassDescriptor
	si       SetInfo
	resolver ClassDescriptorResolver
	handles  runtimehelper.StrongHandleCreator
	depth    int
}

func newBuiltinSetValue(rv runtimehelper.Value, desc ClassDescriptor, resolver ClassDescriptorResolver, handles runtimehelper.StrongHandleCreator, depth int) (*builtinSetValue, error) {
	si, ok := rv.(SetInfo)
	if !ok {
		return nil, dbgerr.New(dbgerr.KindUnresolvable, "value.newBuiltinSetValue", "value does not expose set info")
	}
	return &builtinSetValue{desc: desc, si: si, resolver: resolver, handles: handles, depth: depth}, nil
}

func (v *builtinSetValue) Kind() Kind { return KindBuiltinSet }

func (v *builtinSetValue) PopulateType(n *Node) { n.Type = v.desc.TypeName() }

func (v *builtinSetValue) PopulateValue(n *Node) { n.Value = "" }

func (v *builtinSetValue) PopulateMembers(n *Node, coordinator PropertyEvaluator) ([]Member, bool, error) {
	entries, err := v.si.Entries()
	if err != nil {
		return nil, false, dbgerr.Wrap(dbgerr.KindUnresolvable, "value.builtinSetValue.PopulateMembers", err)
	}

	members := make([]Member, 0, len(entries))
	i := 0
	for _, e := range entries {
		if e.HashCode == tombstoneHashCode {
			continue
		}
		child, err := New(e.Val, v.resolver, v.handles, v.depth-1)
		if err != nil {
			child = &errorValue{message: err.Error()}
		}
		members = append(members, Member{Node: &Node{Name: fmt.Sprintf("[%d]", i)}, Value: child})
		i++
	}
	return members, true, nil
}

/*
builtinDictValue renders a Dictionary<K,V>, filtering tombstoned
entries and rendering each surviving entry as a Key/Value pair.
*/
type builtinDictValue struct {
	desc     ClassDescriptor
	di       DictInfo
	resolver ClassDescriptorResolver
	handles  runtimehelper.StrongHandleCreator
	depth    int
}

func newBuiltinDictValue(rv runtimehelper.Value, desc ClassDescriptor, resolver ClassDescriptorResolver, handles runtimehelper.StrongHandleCreator, depth int) (*builtinDictValue, error) {
	di, ok := rv.(DictInfo)
	if !ok {
		return nil, dbgerr.New(dbgerr.KindUnresolvable, "value.newBuiltinDictValue", "value does not expose dict info")
	}
	return &builtinDictValue{desc: desc, di: di, resolver: resolver, handles: handles, depth: depth}, nil
}

func (v *builtinDictValue) Kind() Kind { return KindBuiltinDict }

func (v *builtinDictValue) PopulateType(n *Node) { n.Type = v.desc.TypeName() }

func (v *builtinDictValue) PopulateValue(n *Node) { n.Value = "" }

func (v *builtinDictValue) PopulateMembers(n *Node, coordinator PropertyEvaluator) ([]Member, bool, error) {
	entries, err := v.di.Entries()
	if err != nil {
		return nil, false, dbgerr.Wrap(dbgerr.KindUnresolvable, "value.builtinDictValue.PopulateMembers", err)
	}

	members := make([]Member, 0, len(entries)*2)
	i := 0
	for _, e := range entries {
		if e.HashCode == tombstoneHashCode {
			continue
		}
		prefix := fmt.Sprintf("[%d]", i)

		keyChild, err := New(e.Key, v.resolver, v.handles, v.depth-1)
		if err != nil {
			keyChild = &errorValue{message: err.Error()}
		}
		valChild, err := New(e.Val, v.resolver, v.handles, v.depth-1)
		if err != nil {
			valChild = &errorValue{message: err.Error()}
		}

		members = append(members,
			Member{Node: &Node{Name: prefix + ".Key"}, Value: keyChild},
			Member{Node: &Node{Name: prefix + ".Value"}, Value: valChild},
		)
		i++
	}
	return members, true, nil
}
