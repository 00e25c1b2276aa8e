package runtimehelper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clruntim/coredbg/dbgerr"
)

type fakeRefValue struct {
	et   ElementType
	ref  bool
	null bool
	next *fakeRefValue
}

func (f *fakeRefValue) ElementType() ElementType { return f.et }
func (f *fakeRefValue) IsReference() bool         { return f.ref }
func (f *fakeRefValue) IsNull() bool              { return f.null }
func (f *fakeRefValue) Dereference() (Value, bool, error) {
	if f.next == nil {
		return nil, false, nil
	}
	return f.next, true, nil
}
func (f *fakeRefValue) Unbox() (Value, error)                      { return f, nil }
func (f *fakeRefValue) ClassInfo() (Module, uint32, bool)           { return nil, 0, false }
func (f *fakeRefValue) Signature() []byte                          { return nil }

func TestDereferenceFollowsChainToValue(t *testing.T) {
	inner := &fakeRefValue{et: ElementI4}
	outer := &fakeRefValue{et: ElementClass, ref: true, next: inner}

	result, isNull, err := Dereference(outer)
	require.NoError(t, err)
	assert.False(t, isNull)
	assert.Same(t, inner, result)
}

func TestDereferenceNullStopsImmediately(t *testing.T) {
	v := &fakeRefValue{et: ElementClass, ref: true, null: true}

	result, isNull, err := Dereference(v)
	require.NoError(t, err)
	assert.True(t, isNull)
	assert.Same(t, v, result)
}

func TestDereferenceTooManyIndirections(t *testing.T) {
	// Build a chain longer than MaxIndirections that never bottoms out.
	var head *fakeRefValue
	for i := 0; i < MaxIndirections+2; i++ {
		head = &fakeRefValue{et: ElementClass, ref: true, next: head}
	}

	_, _, err := Dereference(head)
	require.Error(t, err)
	assert.True(t, dbgerr.Is(err, dbgerr.KindTooManyIndirections))
}

type fakeImporter struct {
	typeDefs map[uint32]string
	typeRefs map[uint32]string
}

func (f *fakeImporter) TypeDefName(token uint32) (string, error) {
	if n, ok := f.typeDefs[token]; ok {
		return n, nil
	}
	return "", assertErr
}
func (f *fakeImporter) TypeRefName(token uint32) (string, error) {
	if n, ok := f.typeRefs[token]; ok {
		return n, nil
	}
	return "", assertErr
}
func (f *fakeImporter) FieldName(token uint32) (string, error) { return "", assertErr }
func (f *fakeImporter) ParamName(methodToken uint32, ordinal int) (string, bool) {
	return "", false
}

var assertErr = dbgerr.New(dbgerr.KindNotFound, "test", "not found")

func TestTypeStringFromSignaturePrimitive(t *testing.T) {
	s, n, err := TypeStringFromSignature([]byte{byte(ElementI4)}, nil)
	require.NoError(t, err)
	assert.Equal(t, "System.Int32", s)
	assert.Equal(t, 1, n)
}

func TestTypeStringFromSignatureSZArrayOfPrimitive(t *testing.T) {
	s, _, err := TypeStringFromSignature([]byte{byte(ElementSZArray), byte(ElementI4)}, nil)
	require.NoError(t, err)
	assert.Equal(t, "System.Int32[]", s)
}

func TestTypeStringFromSignatureClassToken(t *testing.T) {
	importer := &fakeImporter{typeDefs: map[uint32]string{0x42: "MyNamespace.MyClass"}}
	s, _, err := TypeStringFromSignature([]byte{byte(ElementClass), 0x42}, importer)
	require.NoError(t, err)
	assert.Equal(t, "MyNamespace.MyClass", s)
}

func TestTypeStringFromSignatureUnsupportedElement(t *testing.T) {
	_, _, err := TypeStringFromSignature([]byte{byte(ElementTypedByRef)}, nil)
	require.Error(t, err)
	assert.True(t, dbgerr.Is(err, dbgerr.KindNotImplemented))
}
