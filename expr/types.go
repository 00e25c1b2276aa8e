/*
 * coredbg
 *
 * Copyright 2024 The coredbg authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package expr

import (
	"github.com/clruntim/coredbg/runtimehelper"
)

/*
StaticType is the {cor-element-type, type-name, generic-arguments[]}
signature every compiled evaluator carries, per spec.md §4.4.
TypeName is empty for the built-in numeric/bool/char/string element
types, where ElementType alone is enough to drive promotion and
equality rules.
*/
type StaticType struct {
	ElementType runtimehelper.ElementType
	TypeName    string
	GenericArgs []string
}

func (t StaticType) isNumeric() bool {
	switch t.ElementType {
	case runtimehelper.ElementI1, runtimehelper.ElementU1,
		runtimehelper.ElementI2, runtimehelper.ElementU2,
		runtimehelper.ElementChar,
		runtimehelper.ElementI4, runtimehelper.ElementU4,
		runtimehelper.ElementI8, runtimehelper.ElementU8,
		runtimehelper.ElementR4, runtimehelper.ElementR8,
		runtimehelper.ElementI, runtimehelper.ElementU:
		return true
	}
	return false
}

func (t StaticType) isIntegral() bool {
	return t.isNumeric() && t.ElementType != runtimehelper.ElementR4 && t.ElementType != runtimehelper.ElementR8
}

func (t StaticType) isFloating() bool {
	return t.ElementType == runtimehelper.ElementR4 || t.ElementType == runtimehelper.ElementR8
}

func (t StaticType) isBoolean() bool {
	return t.ElementType == runtimehelper.ElementBoolean
}

func (t StaticType) isReference() bool {
	switch t.ElementType {
	case runtimehelper.ElementString, runtimehelper.ElementClass, runtimehelper.ElementObject,
		runtimehelper.ElementArray, runtimehelper.ElementSZArray:
		return true
	}
	return false
}

/*
Evaluator is a compiled expression node bound to a frame: it carries a
static type known at compile time and produces a runtime value when
asked to evaluate, calling into the coordinator for any property getter
or method invocation it needs along the way.
*/
type Evaluator interface {

	/*
		Static returns this evaluator's compile-time type signature.
	*/
	Static() StaticType

	/*
		Eval produces the runtime value of this expression. A property
		getter or method call checks the CompileContext it was compiled
		with (a call is not permitted inside a breakpoint condition when
		method-calls-in-conditions is disabled); Eval returns
		dbgerr.KindEvaluationRequiresMethodCall without invoking anything
		if it is not.
	*/
	Eval() (runtimehelper.Value, error)
}
