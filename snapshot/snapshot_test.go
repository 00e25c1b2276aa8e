/*
 * coredbg
 *
 * Copyright 2024 The coredbg authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clruntim/coredbg/breakpoint"
	"github.com/clruntim/coredbg/frame"
	"github.com/clruntim/coredbg/runtimehelper"
	"github.com/clruntim/coredbg/symbols"
)

type fakeValue struct {
	i int64
}

func (v *fakeValue) ElementType() runtimehelper.ElementType                 { return runtimehelper.ElementI4 }
func (v *fakeValue) IsReference() bool                                     { return false }
func (v *fakeValue) IsNull() bool                                          { return false }
func (v *fakeValue) Dereference() (runtimehelper.Value, bool, error)       { return nil, false, nil }
func (v *fakeValue) Unbox() (runtimehelper.Value, error)                   { return v, nil }
func (v *fakeValue) ClassInfo() (runtimehelper.Module, uint32, bool)       { return nil, 0, false }
func (v *fakeValue) Signature() []byte                                     { return nil }
func (v *fakeValue) AsInt64() (int64, bool)                                { return v.i, true }
func (v *fakeValue) AsFloat64() (float64, bool)                            { return float64(v.i), true }
func (v *fakeValue) AsBool() (bool, bool)                                  { return v.i != 0, true }
func (v *fakeValue) ValueText() string                                    { return ""}

type fakeILFrame struct {
	locals map[int]runtimehelper.Value
}

func (f *fakeILFrame) IsStatic() bool               { return true }
func (f *fakeILFrame) MethodToken() uint32          { return 1 }
func (f *fakeILFrame) ClassToken() uint32           { return 2 }
func (f *fakeILFrame) Module() runtimehelper.Module { return fakeModule{} }
func (f *fakeILFrame) LocalValue(slot int) (runtimehelper.Value, error) {
	return f.locals[slot], nil
}
func (f *fakeILFrame) ArgumentCount() int                                  { return 0 }
func (f *fakeILFrame) ArgumentValue(int) (runtimehelper.Value, error)      { return nil, nil }
func (f *fakeILFrame) This() (runtimehelper.Value, bool)                  { return nil, false }

type fakeModule struct{}

func (fakeModule) ShortName() string                            { return "Program" }
func (fakeModule) MetadataImport() runtimehelper.MetadataImporter { return fakeImporter{} }

type fakeImporter struct{}

func (fakeImporter) TypeDefName(uint32) (string, error)   { return "", nil }
func (fakeImporter) TypeRefName(uint32) (string, error)   { return "", nil }
func (fakeImporter) FieldName(uint32) (string, error)     { return "", nil }
func (fakeImporter) ParamName(uint32, int) (string, bool) { return "", false }

type fakeSlots struct{ locals []frame.LocalVariable }

func (s *fakeSlots) Locals() []frame.LocalVariable { return s.locals }

type fakeRawFrame struct {
	managed bool
	name    string
	path    string
	line    int
	il      *fakeILFrame
	slots   *fakeSlots
}

func (r *fakeRawFrame) HasManagedFunction() bool { return r.managed }
func (r *fakeRawFrame) MethodName() string       { return r.name }
func (r *fakeRawFrame) Location() (string, int)  { return r.path, r.line }
func (r *fakeRawFrame) IL() (frame.ILFrame, frame.SlotTable, bool) {
	if r.il == nil {
		return nil, nil, false
	}
	return r.il, r.slots, true
}

type fakeWalker struct{ raws []RawFrame }

func (w *fakeWalker) Walk() ([]RawFrame, error) { return w.raws, nil }

type fakeMembers struct{}

func (fakeMembers) FieldByName(string) (runtimehelper.Value, bool) { return nil, false }
func (fakeMembers) IsFieldStatic(string) bool                      { return false }
func (fakeMembers) PropertyGetterByName(string) (uint32, bool)     { return 0, false }
func (fakeMembers) IsPropertyStatic(string) bool                   { return false }

type fakeMembersResolver struct{}

func (fakeMembersResolver) ClassMembers(*frame.Frame) (frame.ClassMembers, error) {
	return fakeMembers{}, nil
}

func oneFrameWalker(x int64) *fakeWalker {
	il := &fakeILFrame{locals: map[int]runtimehelper.Value{0: &fakeValue{i: x}}}
	slots := &fakeSlots{locals: []frame.LocalVariable{{Slot: 0, Name: "x"}}}
	return &fakeWalker{raws: []RawFrame{&fakeRawFrame{
		managed: true, name: "Program.Main", path: "/src/Program.cs", line: 10,
		il: il, slots: slots,
	}}}
}

func newAssembler(w *fakeWalker) *Assembler {
	return New(w, fakeMembersResolver{}, nil, nil, nil, 3, 65536, true)
}

func testBreakpoint(condition string, exprs []string) *breakpoint.Breakpoint {
	return &breakpoint.Breakpoint{
		ID:          "bp1",
		Path:        "/src/Program.cs",
		Line:        10,
		Active:      true,
		Condition:   condition,
		Expressions: exprs,
		Resolved: &symbols.ResolvedLocation{
			Method:        &symbols.MethodDebugInfo{Token: 1},
			EffectiveLine: 10,
		},
	}
}

func TestAssembleEmitsSnapshotWhenConditionTrue(t *testing.T) {
	a := newAssembler(oneFrameWalker(5))
	snaps, err := a.Assemble([]*breakpoint.Breakpoint{testBreakpoint("x > 3", nil)})
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "bp1", snaps[0].ID)
	assert.Equal(t, 10, snaps[0].Location.Line)
	require.Len(t, snaps[0].StackFrames, 1)
	assert.Equal(t, "Program.Main", snaps[0].StackFrames[0].MethodName)
}

func TestAssembleEmitsNothingWhenConditionFalse(t *testing.T) {
	a := newAssembler(oneFrameWalker(1))
	snaps, err := a.Assemble([]*breakpoint.Breakpoint{testBreakpoint("x > 3", nil)})
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestAssembleEvaluatesCaptureExpressions(t *testing.T) {
	a := newAssembler(oneFrameWalker(5))
	snaps, err := a.Assemble([]*breakpoint.Breakpoint{testBreakpoint("", []string{"x"})})
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	require.Len(t, snaps[0].EvaluatedExpressions, 1)
	assert.Equal(t, "x", snaps[0].EvaluatedExpressions[0].Name)
	assert.Empty(t, snaps[0].EvaluatedExpressions[0].Status)
}

func TestAssembleUndebuggableFrameRendersEmpty(t *testing.T) {
	w := oneFrameWalker(5)
	w.raws = append(w.raws, &fakeRawFrame{managed: false})

	a := newAssembler(w)
	snaps, err := a.Assemble([]*breakpoint.Breakpoint{testBreakpoint("", nil)})
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	require.Len(t, snaps[0].StackFrames, 2)
	assert.Equal(t, "<undebuggable code>", snaps[0].StackFrames[1].MethodName)
}
