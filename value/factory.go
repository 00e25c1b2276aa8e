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
	"strings"

	"github.com/krotik/common/stringutil"

	"github.com/clruntim/coredbg/dbgerr"
	"github.com/clruntim/coredbg/runtimehelper"
)

/*
primitiveWrapperNames lists the class names that must render as
Primitive<T> rather than Class, per spec.md §4.2.
*/
var primitiveWrapperNames = []string{
	"System.Boolean", "System.Byte", "System.SByte",
	"System.Int16", "System.UInt16", "System.Int32", "System.UInt32",
	"System.Int64", "System.UInt64", "System.Single", "System.Double",
	"System.Char", "System.IntPtr", "System.UIntPtr",
}

/*
New creates a Value for a runtime handle at the given creation depth.
Dispatch is by element type first, then - for CLASS/VALUETYPE/OBJECT -
by the resolved class's base-class or type name. handles is used to
promote reference-typed class values to a strong heap handle before
their member expansion is deferred; it may be nil for value types,
which never need one.
*/
func New(rv runtimehelper.Value, resolver ClassDescriptorResolver, handles runtimehelper.StrongHandleCreator, depth int) (Value, error) {
	if rv.IsReference() && rv.IsNull() {
		return &nullValue{}, nil
	}

	switch rv.ElementType() {

	case runtimehelper.ElementBoolean, runtimehelper.ElementChar,
		runtimehelper.ElementI1, runtimehelper.ElementU1,
		runtimehelper.ElementI2, runtimehelper.ElementU2,
		runtimehelper.ElementI4, runtimehelper.ElementU4,
		runtimehelper.ElementI8, runtimehelper.ElementU8,
		runtimehelper.ElementR4, runtimehelper.ElementR8,
		runtimehelper.ElementI, runtimehelper.ElementU:
		return newPrimitiveValue(rv), nil

	case runtimehelper.ElementString:
		return newStringValue(rv), nil

	case runtimehelper.ElementSZArray, runtimehelper.ElementArray:
		return newArrayValue(rv, resolver, handles, depth)

	case runtimehelper.ElementClass, runtimehelper.ElementValueType, runtimehelper.ElementObject:
		return newClassLikeValue(rv, resolver, handles, depth)
	}

	return nil, dbgerr.New(dbgerr.KindNotImplemented, "value.New",
		"unsupported element type for value construction")
}

/*
newClassLikeValue resolves the class descriptor for a CLASS/VALUETYPE/
OBJECT handle and branches to Enum, one of the built-in collection
shapes, a primitive wrapper, or a plain Class, per spec.md §4.2.
*/
func newClassLikeValue(rv runtimehelper.Value, resolver ClassDescriptorResolver, handles runtimehelper.StrongHandleCreator, depth int) (Value, error) {
	module, token, ok := rv.ClassInfo()
	if !ok {
		return nil, dbgerr.New(dbgerr.KindUnresolvable, "value.newClassLikeValue", "value has no class info")
	}

	desc, err := resolver.Describe(module, token)
	if err != nil {
		return nil, dbgerr.Wrap(dbgerr.KindUnresolvable, "value.newClassLikeValue", err)
	}

	if desc.BaseClassName() == "System.Enum" {
		return newEnumValue(rv, desc)
	}

	typeName := desc.TypeName()

	if stringutil.IndexOf(typeName, primitiveWrapperNames) != -1 {
		return newPrimitiveValueFromWrapper(rv, desc), nil
	}

	switch {
	case strings.HasPrefix(typeName, "System.Collections.Generic.List<"):
		return newBuiltinListValue(rv, desc, resolver, handles, depth)
	case strings.HasPrefix(typeName, "System.Collections.Generic.HashSet<"):
		return newBuiltinSetValue(rv, desc, resolver, handles, depth)
	case strings.HasPrefix(typeName, "System.Collections.Generic.Dictionary<"):
		return newBuiltinDictValue(rv, desc, resolver, handles, depth)
	}

	return newClassValue(rv, desc, resolver, handles, depth)
}
