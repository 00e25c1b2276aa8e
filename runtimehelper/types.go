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
Package runtimehelper contains a thin capability layer over the managed
debugging runtime (the "ICorDebug*" family in the original implementation).
Nothing in this package talks to an actual CLR; it only defines the
narrow collaborator interfaces the rest of the core depends on, plus the
pure helper functions (dereference, unbox, signature parsing) that work
purely in terms of those interfaces.
*/
package runtimehelper

/*
ElementType mirrors the CLR's CorElementType enumeration closely enough
for signature decoding and value-kind dispatch. Not every named
element type is supported: one the signature parser or value factory
does not handle (TypedByRef, for example) is surfaced as
dbgerr.KindNotImplemented.
*/
type ElementType byte

/*
Element types recognized by this core.
*/
const (
	ElementVoid ElementType = iota
	ElementBoolean
	ElementChar
	ElementI1
	ElementU1
	ElementI2
	ElementU2
	ElementI4
	ElementU4
	ElementI8
	ElementU8
	ElementR4
	ElementR8
	ElementString
	ElementPtr
	ElementByRef
	ElementValueType
	ElementClass
	ElementVar
	ElementArray
	ElementGenericInst
	ElementTypedByRef
	ElementI
	ElementU
	ElementFnPtr
	ElementObject
	ElementSZArray
	ElementMVar
	ElementUnknown
)

/*
Value is a handle to a value living in the debuggee process. It is the
Go-side analog of ICorDebugValue: opaque, reference-counted by the
collaborator that created it, and queried through these narrow methods
rather than a concrete vendor type leaking into the core.
*/
type Value interface {

	/*
		ElementType returns the CLR element type of this value.
	*/
	ElementType() ElementType

	/*
		IsReference reports whether this value is a reference type
		(class, array, string, boxed value type) as opposed to a value
		type (struct, primitive, enum).
	*/
	IsReference() bool

	/*
		IsNull reports whether this value is a null reference. Only
		meaningful when IsReference() is true.
	*/
	IsNull() bool

	/*
		Dereference follows exactly one reference hop and returns the
		pointed-to value. Returns ok=false if this value is not a
		reference value at all (callers should stop looping in that case).
	*/
	Dereference() (next Value, ok bool, err error)

	/*
		Unbox returns the inner value of a boxed value type, or this
		value unchanged if it is not boxed.
	*/
	Unbox() (Value, error)

	/*
		ClassInfo returns the owning module and class token for
		class/valuetype/object values. ok is false for primitives,
		arrays, and strings.
	*/
	ClassInfo() (module Module, token uint32, ok bool)

	/*
		Signature returns the compressed metadata signature bytes
		describing this value's static type, when known.
	*/
	Signature() []byte
}

/*
Module is a loaded module in the debuggee.
*/
type Module interface {

	/*
		ShortName returns the module's short display name (e.g. the
		assembly file name without path or extension).
	*/
	ShortName() string

	/*
		MetadataImport returns the metadata importer for this module.
	*/
	MetadataImport() MetadataImporter
}

/*
MetadataImporter resolves metadata tokens to names, the collaborator
behind IMetaDataImport.
*/
type MetadataImporter interface {

	/*
		TypeDefName resolves a typedef token to its fully qualified
		type name.
	*/
	TypeDefName(token uint32) (string, error)

	/*
		TypeRefName resolves a typeref token to its fully qualified
		type name.
	*/
	TypeRefName(token uint32) (string, error)

	/*
		FieldName resolves a field token to its declared name.
	*/
	FieldName(token uint32) (string, error)

	/*
		ParamName resolves a method-parameter token to its declared
		name, given its ordinal position.
	*/
	ParamName(methodToken uint32, ordinal int) (string, bool)
}

/*
StrongHandleCreator promotes a transient value to one which survives a
runtime Continue call (the collaborator behind
ICorDebugHeapValue2::CreateHandle).
*/
type StrongHandleCreator interface {
	CreateStrongHandle(v Value) (Value, error)
}
