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
	"strconv"
	"strings"

	"github.com/clruntim/coredbg/runtimehelper"
)

/*
Numeric is the optional capability a runtimehelper.Value implements so
the evaluator can read its payload back out for arithmetic and
comparisons, mirroring the value package's capability-interface
pattern (ArrayInfo, EnumInfo, ...): a concrete runtime adapter's
primitive values implement it the same way litValue does here for
synthesized literals.
*/
type Numeric interface {
	AsInt64() (int64, bool)
	AsFloat64() (float64, bool)
	AsBool() (bool, bool)
}

/*
litValue is the runtime value synthesized for a literal or for the
result of an arithmetic/comparison operation performed entirely inside
the evaluator (no debuggee round-trip needed).
*/
type litValue struct {
	et   runtimehelper.ElementType
	text string
	i    int64
	f    float64
	b    bool
	null bool
}

func (v *litValue) ElementType() runtimehelper.ElementType { return v.et }
func (v *litValue) IsReference() bool                      { return v.et == runtimehelper.ElementString }
func (v *litValue) IsNull() bool                            { return v.null }
func (v *litValue) Dereference() (runtimehelper.Value, bool, error) {
	return nil, false, nil
}
func (v *litValue) Unbox() (runtimehelper.Value, error)            { return v, nil }
func (v *litValue) ClassInfo() (runtimehelper.Module, uint32, bool) { return nil, 0, false }
func (v *litValue) Signature() []byte                               { return nil }
func (v *litValue) ValueText() string                               { return v.text }

func (v *litValue) AsInt64() (int64, bool) {
	if v.et == runtimehelper.ElementR4 || v.et == runtimehelper.ElementR8 || v.null {
		return 0, false
	}
	return v.i, true
}

func (v *litValue) AsFloat64() (float64, bool) {
	if v.null {
		return 0, false
	}
	if v.et == runtimehelper.ElementR4 || v.et == runtimehelper.ElementR8 {
		return v.f, true
	}
	return float64(v.i), true
}

func (v *litValue) AsBool() (bool, bool) {
	if v.et != runtimehelper.ElementBoolean {
		return false, false
	}
	return v.b, true
}

func intLit(i int64) *litValue {
	return &litValue{et: runtimehelper.ElementI4, text: strconv.FormatInt(i, 10), i: i}
}

func longLit(i int64) *litValue {
	return &litValue{et: runtimehelper.ElementI8, text: strconv.FormatInt(i, 10), i: i}
}

func floatLit(f float64, double bool) *litValue {
	et := runtimehelper.ElementR4
	if double {
		et = runtimehelper.ElementR8
	}
	return &litValue{et: et, text: strconv.FormatFloat(f, 'g', -1, 64), f: f}
}

func boolLit(b bool) *litValue {
	return &litValue{et: runtimehelper.ElementBoolean, text: strconv.FormatBool(b), b: b, i: boolToInt(b)}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func charLit(c byte) *litValue {
	return &litValue{et: runtimehelper.ElementChar, text: string(c), i: int64(c)}
}

func stringLit(s string) *litValue {
	return &litValue{et: runtimehelper.ElementString, text: s}
}

func nullLit() *litValue {
	return &litValue{et: runtimehelper.ElementClass, null: true}
}

/*
parseIntLiteral parses the lexer's integer-literal text (optional
0x/0 prefix, optional trailing L/l suffix already included in text)
into its numeric value and whether it carries the long suffix.
*/
func parseIntLiteral(text string) (int64, bool, error) {
	isLong := false
	if strings.HasSuffix(text, "L") || strings.HasSuffix(text, "l") {
		isLong = true
		text = text[:len(text)-1]
	}

	base := 10
	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		base = 16
		text = text[2:]
	case len(text) > 1 && text[0] == '0':
		base = 8
	}

	i, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		u, uerr := strconv.ParseUint(text, base, 64)
		if uerr != nil {
			return 0, false, err
		}
		return int64(u), isLong, nil
	}
	return i, isLong, nil
}

/*
parseFloatLiteral parses the lexer's float-literal text (a trailing
f/F/d/D suffix already included) into its numeric value and whether it
is double-precision (d/D suffix, or no suffix at all - C#'s default).
*/
func parseFloatLiteral(text string) (float64, bool, error) {
	double := true
	if n := len(text); n > 0 {
		switch text[n-1] {
		case 'f', 'F':
			double = false
			text = text[:n-1]
		case 'd', 'D':
			text = text[:n-1]
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	return f, double, err
}
