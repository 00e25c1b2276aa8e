package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clruntim/coredbg/runtimehelper"
)

type fakeVal struct {
	et   runtimehelper.ElementType
	text string
}

func (f *fakeVal) ElementType() runtimehelper.ElementType { return f.et }
func (f *fakeVal) IsReference() bool                      { return false }
func (f *fakeVal) IsNull() bool                           { return false }
func (f *fakeVal) Dereference() (runtimehelper.Value, bool, error) {
	return nil, false, nil
}
func (f *fakeVal) Unbox() (runtimehelper.Value, error) { return f, nil }
func (f *fakeVal) ClassInfo() (runtimehelper.Module, uint32, bool) {
	return nil, 0, false
}
func (f *fakeVal) Signature() []byte { return nil }
func (f *fakeVal) ValueText() string { return f.text }

type fakeILFrame struct {
	isStatic bool
	locals   map[int]*fakeVal
	args     map[int]*fakeVal
	this     *fakeVal
	argCount int
}

func (f *fakeILFrame) IsStatic() bool                { return f.isStatic }
func (f *fakeILFrame) MethodToken() uint32           { return 1 }
func (f *fakeILFrame) ClassToken() uint32            { return 2 }
func (f *fakeILFrame) Module() runtimehelper.Module  { return nil }
func (f *fakeILFrame) LocalValue(slot int) (runtimehelper.Value, error) {
	return f.locals[slot], nil
}
func (f *fakeILFrame) ArgumentCount() int { return f.argCount }
func (f *fakeILFrame) ArgumentValue(ordinal int) (runtimehelper.Value, error) {
	return f.args[ordinal], nil
}
func (f *fakeILFrame) This() (runtimehelper.Value, bool) {
	if f.this == nil {
		return nil, false
	}
	return f.this, true
}

type fakeSlots struct {
	locals []LocalVariable
}

func (s *fakeSlots) Locals() []LocalVariable { return s.locals }

type fakeImporter struct{}

func (fakeImporter) TypeDefName(uint32) (string, error)        { return "", nil }
func (fakeImporter) TypeRefName(uint32) (string, error)        { return "", nil }
func (fakeImporter) FieldName(uint32) (string, error)          { return "", nil }
func (fakeImporter) ParamName(uint32, int) (string, bool)      { return "argName", true }

func TestCaptureStaticMethodNoThis(t *testing.T) {
	il := &fakeILFrame{
		isStatic: true,
		locals: map[int]*fakeVal{
			0: {et: runtimehelper.ElementI4, text: "10"},
		},
		argCount: 1,
		args: map[int]*fakeVal{
			0: {et: runtimehelper.ElementI4, text: "20"},
		},
	}
	slots := &fakeSlots{locals: []LocalVariable{{Slot: 0, Name: "x"}}}

	f := Capture(il, slots, fakeImporter{}, nil, nil, 3)

	require.Len(t, f.Locals, 1)
	assert.Equal(t, "x", f.Locals[0].Node.Name)

	require.Len(t, f.Arguments, 1)
	assert.Equal(t, "argName", f.Arguments[0].Node.Name)

	_, hasThis := f.rawArguments["this"]
	assert.False(t, hasThis)
}

func TestCaptureNonStaticPrependsThis(t *testing.T) {
	il := &fakeILFrame{
		isStatic: false,
		this:     &fakeVal{et: runtimehelper.ElementClass},
		argCount: 0,
	}
	slots := &fakeSlots{}

	f := Capture(il, slots, fakeImporter{}, nil, nil, 3)

	require.Len(t, f.Arguments, 1)
	assert.Equal(t, "this", f.Arguments[0].Node.Name)
}

func TestCaptureUnnamedSlotDefaultsName(t *testing.T) {
	il := &fakeILFrame{
		isStatic: true,
		locals: map[int]*fakeVal{
			3: {et: runtimehelper.ElementI4, text: "1"},
		},
	}
	slots := &fakeSlots{locals: []LocalVariable{{Slot: 3, Name: ""}}}

	f := Capture(il, slots, fakeImporter{}, nil, nil, 3)

	require.Len(t, f.Locals, 1)
	assert.Equal(t, "variable_3", f.Locals[0].Node.Name)
}

func TestCaptureHiddenSlotSkipped(t *testing.T) {
	il := &fakeILFrame{isStatic: true}
	slots := &fakeSlots{locals: []LocalVariable{{Slot: 0, Name: "hidden", Hidden: true}}}

	f := Capture(il, slots, fakeImporter{}, nil, nil, 3)

	assert.Empty(t, f.Locals)
}

type fakeMembers struct {
	fields     map[string]runtimehelper.Value
	staticFlds map[string]bool
	getters    map[string]uint32
	staticProp map[string]bool
}

func (m *fakeMembers) FieldByName(name string) (runtimehelper.Value, bool) {
	v, ok := m.fields[name]
	return v, ok
}
func (m *fakeMembers) IsFieldStatic(name string) bool { return m.staticFlds[name] }
func (m *fakeMembers) PropertyGetterByName(name string) (uint32, bool) {
	tok, ok := m.getters[name]
	return tok, ok
}
func (m *fakeMembers) IsPropertyStatic(name string) bool { return m.staticProp[name] }

func TestResolveLocalBeforeClassMember(t *testing.T) {
	il := &fakeILFrame{isStatic: true, locals: map[int]*fakeVal{0: {et: runtimehelper.ElementI4, text: "1"}}}
	slots := &fakeSlots{locals: []LocalVariable{{Slot: 0, Name: "x"}}}
	f := Capture(il, slots, fakeImporter{}, nil, nil, 3)

	members := &fakeMembers{fields: map[string]runtimehelper.Value{"x": &fakeVal{et: runtimehelper.ElementI4, text: "99"}}}

	rv, err := Resolve(f, members, nil, "x")
	require.NoError(t, err)
	assert.Equal(t, "1", rv.(*fakeVal).text)
}

func TestResolveBackingFieldFallback(t *testing.T) {
	f := &Frame{rawLocals: map[string]runtimehelper.Value{}, rawArguments: map[string]runtimehelper.Value{"this": &fakeVal{}}}
	members := &fakeMembers{
		fields:     map[string]runtimehelper.Value{"Namek__BackingField": &fakeVal{text: "value"}},
		staticFlds: map[string]bool{},
	}

	rv, err := Resolve(f, members, nil, "Name")
	require.NoError(t, err)
	assert.Equal(t, "value", rv.(*fakeVal).text)
}

func TestResolveNonStaticMemberFromStaticFrameFails(t *testing.T) {
	f := &Frame{rawLocals: map[string]runtimehelper.Value{}, rawArguments: map[string]runtimehelper.Value{}}
	members := &fakeMembers{fields: map[string]runtimehelper.Value{"f": &fakeVal{}}}

	_, err := Resolve(f, members, nil, "f")
	assert.Error(t, err)
}
