/*
 * coredbg
 *
 * Copyright 2024 The coredbg authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package demo

import (
	"strconv"

	"github.com/clruntim/coredbg/dbgerr"
	"github.com/clruntim/coredbg/frame"
	"github.com/clruntim/coredbg/runtimehelper"
)

/*
Value is the demo's only runtimehelper.Value shape: a boxed int32. It
implements value.ValueTexter directly, so the rendered snapshot shows
the real counter rather than a type-only placeholder.
*/
type Value struct {
	i int64
}

func (v *Value) ElementType() runtimehelper.ElementType           { return runtimehelper.ElementI4 }
func (v *Value) IsReference() bool                                { return false }
func (v *Value) IsNull() bool                                     { return false }
func (v *Value) Dereference() (runtimehelper.Value, bool, error)  { return nil, false, nil }
func (v *Value) Unbox() (runtimehelper.Value, error)              { return v, nil }
func (v *Value) ClassInfo() (runtimehelper.Module, uint32, bool)  { return nil, 0, false }
func (v *Value) Signature() []byte                                { return nil }
func (v *Value) AsInt64() (int64, bool)                           { return v.i, true }
func (v *Value) AsFloat64() (float64, bool)                       { return float64(v.i), true }
func (v *Value) AsBool() (bool, bool)                             { return v.i != 0, true }
func (v *Value) ValueText() string                                { return strconv.FormatInt(v.i, 10) }

/*
Module is the demo's one loaded module.
*/
type Module struct{}

func (Module) ShortName() string                             { return "Program" }
func (Module) MetadataImport() runtimehelper.MetadataImporter { return Importer{} }

/*
Importer resolves nothing - the demo has no field/property/typeref
tokens to resolve since it has no classes.
*/
type Importer struct{}

func (Importer) TypeDefName(uint32) (string, error) { return "", notFound("TypeDefName") }
func (Importer) TypeRefName(uint32) (string, error) { return "", notFound("TypeRefName") }
func (Importer) FieldName(uint32) (string, error)   { return "", notFound("FieldName") }
func (Importer) ParamName(uint32, int) (string, bool) {
	return "", false
}

func notFound(op string) error {
	return dbgerr.New(dbgerr.KindNotFound, "demo.Importer."+op, "the demo program has no metadata tokens")
}

/*
ilFrame is the demo's frame.ILFrame and frame.SlotTable: a single
static method, no arguments, one local ("counter").
*/
type ilFrame struct {
	counter *Value
}

func (f *ilFrame) IsStatic() bool               { return true }
func (f *ilFrame) MethodToken() uint32          { return MethodToken }
func (f *ilFrame) ClassToken() uint32           { return 0 }
func (f *ilFrame) Module() runtimehelper.Module { return Module{} }

func (f *ilFrame) LocalValue(slot int) (runtimehelper.Value, error) {
	if slot == 0 {
		return f.counter, nil
	}
	return nil, dbgerr.New(dbgerr.KindNotFound, "demo.ilFrame.LocalValue", "no such local slot")
}

func (f *ilFrame) ArgumentCount() int { return 0 }
func (f *ilFrame) ArgumentValue(ordinal int) (runtimehelper.Value, error) {
	return nil, dbgerr.New(dbgerr.KindNotFound, "demo.ilFrame.ArgumentValue", "the demo method takes no arguments")
}
func (f *ilFrame) This() (runtimehelper.Value, bool) { return nil, false }

func (f *ilFrame) Locals() []frame.LocalVariable {
	return []frame.LocalVariable{{Slot: 0, Name: "counter"}}
}

/*
RawFrame is the demo's snapshot.RawFrame: always managed, always the
same location.
*/
type RawFrame struct {
	il *ilFrame
}

func (f *RawFrame) HasManagedFunction() bool { return true }
func (f *RawFrame) MethodName() string       { return "Program.Main" }
func (f *RawFrame) Location() (string, int)  { return DefaultPath, DefaultLine }
func (f *RawFrame) IL() (frame.ILFrame, frame.SlotTable, bool) {
	return f.il, f.il, true
}
