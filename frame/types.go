/*
 * coredbg
 *
 * Copyright 2024 The coredbg authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

/*
Package frame captures a single managed stack frame: its locals and
arguments, rendered for the snapshot, and indexed for the three-tier
identifier resolution the expression evaluator needs (locals,
arguments, then enclosing-class members).
*/
package frame

import (
	"github.com/clruntim/coredbg/runtimehelper"
	"github.com/clruntim/coredbg/value"
)

/*
LocalVariable is one entry of a method's pre-parsed local-variable
slot table, supplied by the symbol reader.
*/
type LocalVariable struct {
	Slot   int
	Name   string
	Hidden bool
}

/*
SlotTable is the local-variable table for one method.
*/
type SlotTable interface {
	Locals() []LocalVariable
}

/*
ILFrame is the narrow capability frame needs from the managed IL
frame handle: enough to enumerate locals, arguments, and the enclosing
method/class identity. A concrete runtime adapter implements this.
*/
type ILFrame interface {
	IsStatic() bool
	MethodToken() uint32
	ClassToken() uint32
	Module() runtimehelper.Module

	LocalValue(slot int) (runtimehelper.Value, error)

	ArgumentCount() int
	ArgumentValue(ordinal int) (runtimehelper.Value, error)

	/*
		This returns the synthetic first argument of a non-static
		method. ok is false for static methods.
	*/
	This() (runtimehelper.Value, bool)
}

/*
ClassMembers is the capability frame needs to resolve an identifier
against the enclosing class: fields (including compiler-generated
auto-property backing fields) and properties with a getter.
*/
type ClassMembers interface {
	FieldByName(name string) (runtimehelper.Value, bool)
	IsFieldStatic(name string) bool
	PropertyGetterByName(name string) (getterToken uint32, ok bool)
	IsPropertyStatic(name string) bool
}

/*
Frame is a captured stack frame: the rendering-ready member lists for
the snapshot (Locals/Arguments, each a value.Member ready for BFS
expansion) plus a raw index used by identifier resolution.
*/
type Frame struct {
	IsStatic   bool
	ClassToken uint32
	Module     runtimehelper.Module

	Locals    []value.Member
	Arguments []value.Member

	rawLocals    map[string]runtimehelper.Value
	rawArguments map[string]runtimehelper.Value
}

/*
RawLocal returns the uncaptured runtime value backing a named local,
for callers (the expression evaluator) that need to keep resolving
member access against it rather than the already-rendered Locals.
*/
func (f *Frame) RawLocal(name string) (runtimehelper.Value, bool) {
	rv, ok := f.rawLocals[name]
	return rv, ok
}

/*
RawArgument returns the uncaptured runtime value backing a named
argument (including the synthetic "this").
*/
func (f *Frame) RawArgument(name string) (runtimehelper.Value, bool) {
	rv, ok := f.rawArguments[name]
	return rv, ok
}
