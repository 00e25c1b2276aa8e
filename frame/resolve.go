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
	"github.com/clruntim/coredbg/dbgerr"
	"github.com/clruntim/coredbg/runtimehelper"
	"github.com/clruntim/coredbg/value"
)

/*
Resolve looks up an identifier by the three ordered searches of
spec.md §4.3: (a) locals by name, (b) arguments by name ("this"
reserved for non-static methods), (c) members of the enclosing class -
a field whose name matches directly, then a field matching
"<name>k__BackingField" (an auto-implemented property's compiler-
generated backing field), then a property with a getter invoked
through the coordinator. Static members resolve with no "this" present;
a non-static member resolved from a static frame is an error.
*/
func Resolve(f *Frame, members ClassMembers, coordinator value.PropertyEvaluator, name string) (runtimehelper.Value, error) {
	if rv, ok := f.rawLocals[name]; ok {
		return rv, nil
	}

	if rv, ok := f.rawArguments[name]; ok {
		return rv, nil
	}

	if members == nil {
		return nil, dbgerr.New(dbgerr.KindUnresolvable, "frame.Resolve", "identifier not found: "+name)
	}

	if rv, ok := members.FieldByName(name); ok {
		return checkedMember(f, members.IsFieldStatic(name), rv, nil)
	}

	backingField := name + "k__BackingField"
	if rv, ok := members.FieldByName(backingField); ok {
		return checkedMember(f, members.IsFieldStatic(backingField), rv, nil)
	}

	if getterToken, ok := members.PropertyGetterByName(name); ok {
		if members.IsPropertyStatic(name) {
			result, err := coordinator.InvokeGetter(getterToken, nil, f.Module)
			return result, err
		}

		this, ok := f.rawArguments["this"]
		if !ok {
			return nil, dbgerr.New(dbgerr.KindUnresolvable, "frame.Resolve",
				"non-static member "+name+" requires this, but frame is static")
		}

		return coordinator.InvokeGetter(getterToken, this, f.Module)
	}

	return nil, dbgerr.New(dbgerr.KindUnresolvable, "frame.Resolve", "identifier not found: "+name)
}

/*
checkedMember enforces that a non-static field access has a "this" in
scope; static fields never need one.
*/
func checkedMember(f *Frame, static bool, rv runtimehelper.Value, err error) (runtimehelper.Value, error) {
	if err != nil {
		return nil, err
	}
	if static {
		return rv, nil
	}
	if _, ok := f.rawArguments["this"]; !ok {
		return nil, dbgerr.New(dbgerr.KindUnresolvable, "frame.Resolve", "non-static member requires this, but frame is static")
	}
	return rv, nil
}
