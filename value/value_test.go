package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clruntim/coredbg/runtimehelper"
)

/*
fakeValue is a minimal runtimehelper.Value double used across this
package's tests. Tests attach the extra capability interfaces (by
embedding fakeValue in a wrapper, or implementing them directly on
fakeValue) as needed.
*/
type fakeValue struct {
	et        runtimehelper.ElementType
	reference bool
	null      bool
	module    runtimehelper.Module
	token     uint32
	hasClass  bool
	text      string
}

func (f *fakeValue) ElementType() runtimehelper.ElementType { return f.et }
func (f *fakeValue) IsReference() bool                      { return f.reference }
func (f *fakeValue) IsNull() bool                            { return f.null }
func (f *fakeValue) Dereference() (runtimehelper.Value, bool, error) {
	return nil, false, nil
}
func (f *fakeValue) Unbox() (runtimehelper.Value, error) { return f, nil }
func (f *fakeValue) ClassInfo() (runtimehelper.Module, uint32, bool) {
	return f.module, f.token, f.hasClass
}
func (f *fakeValue) Signature() []byte { return nil }
func (f *fakeValue) ValueText() string { return f.text }

func TestNewPrimitive(t *testing.T) {
	rv := &fakeValue{et: runtimehelper.ElementI4, text: "42"}

	v, err := New(rv, nil, nil, 5)
	require.NoError(t, err)
	assert.Equal(t, KindPrimitive, v.Kind())

	n := &Node{}
	v.PopulateType(n)
	v.PopulateValue(n)
	assert.Equal(t, "System.Int32", n.Type)
	assert.Equal(t, "42", n.Value)
}

func TestNewString(t *testing.T) {
	rv := &fakeValue{et: runtimehelper.ElementString, text: "hello"}

	v, err := New(rv, nil, nil, 5)
	require.NoError(t, err)
	assert.Equal(t, KindString, v.Kind())

	n := &Node{}
	v.PopulateType(n)
	v.PopulateValue(n)
	assert.Equal(t, "System.String", n.Type)
	assert.Equal(t, "hello", n.Value)
}

func TestNewNullReference(t *testing.T) {
	rv := &fakeValue{et: runtimehelper.ElementClass, reference: true, null: true}

	v, err := New(rv, nil, nil, 5)
	require.NoError(t, err)
	assert.Equal(t, KindNull, v.Kind())
}

func TestRenderEnumValueExactMatch(t *testing.T) {
	constants := []EnumConstant{{Name: "Red", Value: 1}, {Name: "Green", Value: 2}}
	assert.Equal(t, "Red", renderEnumValue(1, constants))
}

func TestRenderEnumValueFlagComposition(t *testing.T) {
	constants := []EnumConstant{
		{Name: "None", Value: 0},
		{Name: "Read", Value: 1},
		{Name: "Write", Value: 2},
		{Name: "ReadWrite", Value: 3},
		{Name: "Execute", Value: 4},
	}

	// Largest bitmask (ReadWrite=3) must be preferred over Read|Write.
	assert.Equal(t, "ReadWrite", renderEnumValue(3, constants))
	assert.Equal(t, "ReadWrite | Execute", renderEnumValue(7, constants))
}

func TestRenderEnumValueZero(t *testing.T) {
	constants := []EnumConstant{{Name: "None", Value: 0}, {Name: "Read", Value: 1}}
	assert.Equal(t, "None", renderEnumValue(0, constants))
}

func TestRenderEnumValueLeftoverBits(t *testing.T) {
	constants := []EnumConstant{{Name: "Read", Value: 1}}
	assert.Equal(t, "Read | 0x4", renderEnumValue(5, constants))
}

/*
arrayFake implements both runtimehelper.Value and value.ArrayInfo to
exercise the Array dispatch and BFS expansion path end to end.
*/
type arrayFake struct {
	fakeValue
	elems []runtimehelper.Value
}

func (a *arrayFake) Length() int { return len(a.elems) }
func (a *arrayFake) Element(i int) (runtimehelper.Value, error) {
	return a.elems[i], nil
}

type noopHandles struct{}

func (noopHandles) CreateStrongHandle(v runtimehelper.Value) (runtimehelper.Value, error) {
	return v, nil
}

func TestArrayExpansion(t *testing.T) {
	arr := &arrayFake{
		fakeValue: fakeValue{et: runtimehelper.ElementSZArray, reference: true},
		elems: []runtimehelper.Value{
			&fakeValue{et: runtimehelper.ElementI4, text: "1"},
			&fakeValue{et: runtimehelper.ElementI4, text: "2"},
		},
	}

	v, err := New(arr, nil, noopHandles{}, 3)
	require.NoError(t, err)
	assert.Equal(t, KindArray, v.Kind())

	root := Member{Node: &Node{Name: "arr"}, Value: v}
	Expand(root, 3, nil, nil)

	require.Len(t, root.Node.Members, 2)
	assert.Equal(t, "1", root.Node.Members[0].Value)
	assert.Equal(t, "2", root.Node.Members[1].Value)
}

func TestExpandDepthLimit(t *testing.T) {
	arr := &arrayFake{
		fakeValue: fakeValue{et: runtimehelper.ElementSZArray, reference: true},
		elems: []runtimehelper.Value{
			&fakeValue{et: runtimehelper.ElementI4, text: "1"},
		},
	}

	v, err := New(arr, nil, noopHandles{}, 3)
	require.NoError(t, err)

	root := Member{Node: &Node{Name: "arr"}, Value: v}
	Expand(root, 0, nil, nil)

	assert.Equal(t, StatusDepthLimitReached, root.Node.Status)
	assert.Nil(t, root.Node.Members)
}

func TestExpandBudgetAbort(t *testing.T) {
	arr := &arrayFake{
		fakeValue: fakeValue{et: runtimehelper.ElementSZArray, reference: true},
		elems: []runtimehelper.Value{
			&fakeValue{et: runtimehelper.ElementI4, text: "1"},
			&fakeValue{et: runtimehelper.ElementI4, text: "2"},
		},
	}

	v, err := New(arr, nil, noopHandles{}, 3)
	require.NoError(t, err)

	root := Member{Node: &Node{Name: "arr"}, Value: v}

	calls := 0
	Expand(root, 3, nil, func() bool {
		calls++
		return calls > 1
	})

	// The root itself renders (first dequeue allowed) but its children
	// never get dequeued once the budget trips.
	assert.Equal(t, "System.Array", root.Node.Type)
	assert.Empty(t, root.Node.Members[0].Value)
	assert.Empty(t, root.Node.Members[1].Value)
}
