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
	"github.com/clruntim/coredbg/dbgerr"
	"github.com/clruntim/coredbg/runtimehelper"
)

/*
promote implements spec.md §4.4's numeric promotion: byte/short widen
to int, a mixed int/long pair widens to long, any floating operand
widens the whole operation to float/double (double wins over float).
*/
func promote(a, b StaticType) StaticType {
	if a.isFloating() || b.isFloating() {
		if a.ElementType == runtimehelper.ElementR8 || b.ElementType == runtimehelper.ElementR8 {
			return StaticType{ElementType: runtimehelper.ElementR8}
		}
		return StaticType{ElementType: runtimehelper.ElementR4}
	}
	if a.ElementType == runtimehelper.ElementI8 || b.ElementType == runtimehelper.ElementI8 ||
		a.ElementType == runtimehelper.ElementU8 || b.ElementType == runtimehelper.ElementU8 {
		return StaticType{ElementType: runtimehelper.ElementI8}
	}
	return StaticType{ElementType: runtimehelper.ElementI4}
}

func numericOf(rv runtimehelper.Value) (Numeric, error) {
	n, ok := rv.(Numeric)
	if !ok {
		return nil, dbgerr.New(dbgerr.KindTypeMismatch, "expr.Eval", "operand is not numeric")
	}
	return n, nil
}

/*
evalArithmetic evaluates one of + - * / % on already-evaluated numeric
operands, widened per result.
*/
func evalArithmetic(op string, l, r runtimehelper.Value, result StaticType) (runtimehelper.Value, error) {
	ln, err := numericOf(l)
	if err != nil {
		return nil, err
	}
	rn, err := numericOf(r)
	if err != nil {
		return nil, err
	}

	if result.isFloating() {
		a, _ := ln.AsFloat64()
		b, _ := rn.AsFloat64()
		var v float64
		switch op {
		case "+":
			v = a + b
		case "-":
			v = a - b
		case "*":
			v = a * b
		case "/":
			v = a / b
		default:
			return nil, dbgerr.New(dbgerr.KindNotImplemented, "expr.Eval", "unsupported float operator "+op)
		}
		return floatLit(v, result.ElementType == runtimehelper.ElementR8), nil
	}

	a, _ := ln.AsInt64()
	b, _ := rn.AsInt64()
	var v int64
	switch op {
	case "+":
		v = a + b
	case "-":
		v = a - b
	case "*":
		v = a * b
	case "/":
		if b == 0 {
			return nil, dbgerr.New(dbgerr.KindTypeMismatch, "expr.Eval", "division by zero")
		}
		v = a / b
	case "%":
		if b == 0 {
			return nil, dbgerr.New(dbgerr.KindTypeMismatch, "expr.Eval", "division by zero")
		}
		v = a % b
	default:
		return nil, dbgerr.New(dbgerr.KindNotImplemented, "expr.Eval", "unsupported integer operator "+op)
	}
	if result.ElementType == runtimehelper.ElementI8 {
		return longLit(v), nil
	}
	return intLit(v), nil
}

func evalBitwise(op string, l, r runtimehelper.Value, result StaticType) (runtimehelper.Value, error) {
	ln, err := numericOf(l)
	if err != nil {
		return nil, err
	}
	rn, err := numericOf(r)
	if err != nil {
		return nil, err
	}
	a, _ := ln.AsInt64()
	b, _ := rn.AsInt64()
	var v int64
	switch op {
	case "&":
		v = a & b
	case "|":
		v = a | b
	case "^":
		v = a ^ b
	default:
		return nil, dbgerr.New(dbgerr.KindNotImplemented, "expr.Eval", "unsupported bitwise operator "+op)
	}
	if result.ElementType == runtimehelper.ElementI8 {
		return longLit(v), nil
	}
	return intLit(v), nil
}

func evalShift(op string, l, r runtimehelper.Value, leftType StaticType) (runtimehelper.Value, error) {
	ln, err := numericOf(l)
	if err != nil {
		return nil, err
	}
	rn, err := numericOf(r)
	if err != nil {
		return nil, err
	}
	a, _ := ln.AsInt64()
	shift, _ := rn.AsInt64()
	var v int64
	switch op {
	case "<<":
		v = a << uint(shift&63)
	case ">>":
		v = a >> uint(shift&63)
	case ">>>":
		v = int64(uint64(a) >> uint(shift&63))
	default:
		return nil, dbgerr.New(dbgerr.KindNotImplemented, "expr.Eval", "unsupported shift operator "+op)
	}
	if leftType.ElementType == runtimehelper.ElementI8 {
		return longLit(v), nil
	}
	return intLit(v), nil
}

func evalRelational(op string, l, r runtimehelper.Value, operand StaticType) (runtimehelper.Value, error) {
	ln, err := numericOf(l)
	if err != nil {
		return nil, err
	}
	rn, err := numericOf(r)
	if err != nil {
		return nil, err
	}

	var cmp int
	if operand.isFloating() {
		a, _ := ln.AsFloat64()
		b, _ := rn.AsFloat64()
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	} else {
		a, _ := ln.AsInt64()
		b, _ := rn.AsInt64()
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	}

	switch op {
	case "<":
		return boolLit(cmp < 0), nil
	case ">":
		return boolLit(cmp > 0), nil
	case "<=":
		return boolLit(cmp <= 0), nil
	case ">=":
		return boolLit(cmp >= 0), nil
	}
	return nil, dbgerr.New(dbgerr.KindNotImplemented, "expr.Eval", "unsupported relational operator "+op)
}

/*
evalEquality implements ==/!= . Numeric operands compare by value after
promotion; reference-typed operands (including one side being the
literal null) are equal only when both are null. There is no
reference-identity model, so two non-null references never compare
equal.
*/
func evalEquality(op string, l, r runtimehelper.Value, lt, rt StaticType) (runtimehelper.Value, error) {
	equal := false

	switch {
	case lt.isNumeric() && rt.isNumeric():
		ln, err := numericOf(l)
		if err != nil {
			return nil, err
		}
		rn, err := numericOf(r)
		if err != nil {
			return nil, err
		}
		if lt.isFloating() || rt.isFloating() {
			a, _ := ln.AsFloat64()
			b, _ := rn.AsFloat64()
			equal = a == b
		} else {
			a, _ := ln.AsInt64()
			b, _ := rn.AsInt64()
			equal = a == b
		}
	case lt.isBoolean() && rt.isBoolean():
		a, _ := numericAsBool(l)
		b, _ := numericAsBool(r)
		equal = a == b
	default:
		equal = l.IsNull() == r.IsNull() && (l.IsNull() || r.IsNull())
	}

	if op == "!=" {
		equal = !equal
	}
	return boolLit(equal), nil
}

func numericAsBool(rv runtimehelper.Value) (bool, bool) {
	n, ok := rv.(Numeric)
	if !ok {
		return false, false
	}
	return n.AsBool()
}

func evalUnary(op string, operand runtimehelper.Value, t StaticType) (runtimehelper.Value, error) {
	switch op {
	case "!":
		b, ok := numericAsBool(operand)
		if !ok {
			return nil, dbgerr.New(dbgerr.KindTypeMismatch, "expr.Eval", "! requires a boolean operand")
		}
		return boolLit(!b), nil
	case "-":
		n, err := numericOf(operand)
		if err != nil {
			return nil, err
		}
		if t.isFloating() {
			f, _ := n.AsFloat64()
			return floatLit(-f, t.ElementType == runtimehelper.ElementR8), nil
		}
		i, _ := n.AsInt64()
		if t.ElementType == runtimehelper.ElementI8 {
			return longLit(-i), nil
		}
		return intLit(-i), nil
	case "+":
		return operand, nil
	case "~":
		n, err := numericOf(operand)
		if err != nil {
			return nil, err
		}
		i, _ := n.AsInt64()
		if t.ElementType == runtimehelper.ElementI8 {
			return longLit(^i), nil
		}
		return intLit(^i), nil
	}
	return nil, dbgerr.New(dbgerr.KindNotImplemented, "expr.Eval", "unsupported unary operator "+op)
}
