/*
 * coredbg
 *
 * Copyright 2024 The coredbg authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package frame

import (
	"fmt"

	"github.com/clruntim/coredbg/runtimehelper"
	"github.com/clruntim/coredbg/value"
)

/*
Capture builds a Frame from an IL-frame handle and its pre-parsed slot
table, per spec.md §4.3. A local or argument whose value fails to
construct becomes an inline error member rather than aborting the rest
of frame capture.
*/
func Capture(il ILFrame, slots SlotTable, importer runtimehelper.MetadataImporter, resolver value.ClassDescriptorResolver, handles runtimehelper.StrongHandleCreator, depth int) *Frame {
	f := &Frame{
		IsStatic:     il.IsStatic(),
		ClassToken:   il.ClassToken(),
		Module:       il.Module(),
		rawLocals:    make(map[string]runtimehelper.Value),
		rawArguments: make(map[string]runtimehelper.Value),
	}

	for _, l := range slots.Locals() {
		if l.Hidden {
			continue
		}

		name := l.Name
		if name == "" {
			name = fmt.Sprintf("variable_%d", l.Slot)
		}

		rv, err := il.LocalValue(l.Slot)
		f.Locals = append(f.Locals, buildMember(name, rv, err, resolver, handles, depth))
		if err == nil {
			f.rawLocals[name] = rv
		}
	}

	ordinal := 0

	if !f.IsStatic {
		rv, ok := il.This()
		if ok {
			f.Arguments = append(f.Arguments, buildMember("this", rv, nil, resolver, handles, depth))
			f.rawArguments["this"] = rv
		}
	}

	for ; ordinal < il.ArgumentCount(); ordinal++ {
		name, ok := runtimehelper.ParamName(importer, il.MethodToken(), ordinal)
		if !ok {
			name = fmt.Sprintf("method_argument%d", ordinal)
		}

		rv, err := il.ArgumentValue(ordinal)
		f.Arguments = append(f.Arguments, buildMember(name, rv, err, resolver, handles, depth))
		if err == nil {
			f.rawArguments[name] = rv
		}
	}

	return f
}

/*
buildMember constructs the value.Member for one local or argument,
turning either a capture-time error or a value-construction error into
an inline error node.
*/
func buildMember(name string, rv runtimehelper.Value, err error, resolver value.ClassDescriptorResolver, handles runtimehelper.StrongHandleCreator, depth int) value.Member {
	if err != nil {
		return errorMember(name, err)
	}

	v, verr := value.New(rv, resolver, handles, depth)
	if verr != nil {
		return errorMember(name, verr)
	}

	return value.Member{Node: &value.Node{Name: name}, Value: v}
}

func errorMember(name string, err error) value.Member {
	return value.Member{Node: &value.Node{Name: name}, Value: value.NewErrorValue(err.Error())}
}
