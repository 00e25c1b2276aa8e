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
	"fmt"

	"github.com/clruntim/coredbg/runtimehelper"
)

/*
primitiveValue renders a bare primitive element type (int, bool, char,
float, ...) as Primitive<T>.
*/
type primitiveValue struct {
	rv       runtimehelper.Value
	typeName string
}

func newPrimitiveValue(rv runtimehelper.Value) *primitiveValue {
	return &primitiveValue{rv: rv, typeName: elementTypeDisplayName(rv.ElementType())}
}

/*
newPrimitiveValueFromWrapper builds a Primitive<T> for a boxed wrapper
value (e.g. a boxed System.Int32 living on the heap) whose type name
comes from the resolved class descriptor rather than the element type.
*/
func newPrimitiveValueFromWrapper(rv runtimehelper.Value, desc ClassDescriptor) *primitiveValue {
	return &primitiveValue{rv: rv, typeName: desc.TypeName()}
}

func (v *primitiveValue) Kind() Kind { return KindPrimitive }

func (v *primitiveValue) PopulateType(n *Node) {
	n.Type = v.typeName
}

func (v *primitiveValue) PopulateValue(n *Node) {
	n.Value = formatPrimitive(v.rv)
}

func (v *primitiveValue) PopulateMembers(n *Node, coordinator PropertyEvaluator) ([]Member, bool, error) {
	return nil, false, nil
}

/*
elementTypeDisplayName gives a best-effort canonical name for a
primitive element type, used when no class descriptor is available
(unboxed primitives never have one).
*/
func elementTypeDisplayName(et runtimehelper.ElementType) string {
	switch et {
	case runtimehelper.ElementBoolean:
		return "System.Boolean"
	case runtimehelper.ElementChar:
		return "System.Char"
	case runtimehelper.ElementI1:
		return "System.SByte"
	case runtimehelper.ElementU1:
		return "System.Byte"
	case runtimehelper.ElementI2:
		return "System.Int16"
	case runtimehelper.ElementU2:
		return "System.UInt16"
	case runtimehelper.ElementI4:
		return "System.Int32"
	case runtimehelper.ElementU4:
		return "System.UInt32"
	case runtimehelper.ElementI8:
		return "System.Int64"
	case runtimehelper.ElementU8:
		return "System.UInt64"
	case runtimehelper.ElementR4:
		return "System.Single"
	case runtimehelper.ElementR8:
		return "System.Double"
	case runtimehelper.ElementI:
		return "System.IntPtr"
	case runtimehelper.ElementU:
		return "System.UIntPtr"
	}
	return "System.Object"
}

/*
formatPrimitive renders a primitive's textual value. Concrete runtime
adapters carry the actual bits behind runtimehelper.Value; this core
has no CLR to read them from, so it renders through ValueTexter when
the handle implements it, falling back to a type-only placeholder
("<TypeName>") otherwise.
*/
func formatPrimitive(rv runtimehelper.Value) string {
	if vt, ok := rv.(ValueTexter); ok {
		return vt.ValueText()
	}
	return fmt.Sprintf("<%s>", elementTypeDisplayName(rv.ElementType()))
}
