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
	"github.com/clruntim/coredbg/frame"
	"github.com/clruntim/coredbg/runtimehelper"
	"github.com/clruntim/coredbg/value"
)

/*
CompileContext binds a compilation to a captured frame, the class
members of its enclosing type, the collaborators needed to resolve and
invoke against live debuggee state, and the method-call-in-condition
policy. InCondition is set by the caller compiling a breakpoint's
condition (as opposed to a watch/capture expression); when true and
AllowMethodInCondition is false, any evaluator that would need a method
or property-getter call rejects with EvaluationRequiresMethodCall
instead of performing it.
*/
type CompileContext struct {
	Frame       *frame.Frame
	Members     frame.ClassMembers
	Resolver    value.ClassDescriptorResolver
	Coordinator value.PropertyEvaluator

	InCondition            bool
	AllowMethodInCondition bool
}

func (ctx CompileContext) methodCallAllowed() bool {
	return !ctx.InCondition || ctx.AllowMethodInCondition
}

/*
Compile binds an AST produced by Parse against ctx, producing an
evaluator with a static type signature. The condition of a breakpoint
must compile to Boolean; callers enforce that by checking
Static().ElementType == runtimehelper.ElementBoolean on the result.
*/
func Compile(ast *Node, ctx CompileContext) (Evaluator, error) {
	switch ast.Kind {
	case NodeIntLiteral:
		return compileIntLiteral(ast)
	case NodeFloatLiteral:
		return compileFloatLiteral(ast)
	case NodeCharLiteral:
		return constEvaluator(charLit(ast.Text[0])), nil
	case NodeStringLiteral:
		return constEvaluator(stringLit(ast.Text)), nil
	case NodeBoolLiteral:
		return constEvaluator(boolLit(ast.Text == "true")), nil
	case NodeNullLiteral:
		return constEvaluator(nullLit()), nil
	case NodeIdentifier:
		return compileIdentifier(ast, ctx)
	case NodeUnary:
		return compileUnary(ast, ctx)
	case NodeBinary:
		return compileBinary(ast, ctx)
	case NodeTernary:
		return compileTernary(ast, ctx)
	case NodeCast:
		return compileCast(ast, ctx)
	case NodeMember:
		return compileMember(ast, ctx)
	case NodeCall:
		return compileCall(ast, ctx)
	case NodeIndex:
		return compileIndex(ast, ctx)
	}
	return nil, dbgerr.New(dbgerr.KindNotImplemented, "expr.Compile", "unsupported AST node")
}

/*
funcEvaluator is the single Evaluator implementation every compiled
node shares (property-backed identifiers aside, which use
propertyEvaluator): a static type fixed at compile time plus a closure
that performs the actual evaluation.
*/
type funcEvaluator struct {
	static StaticType
	fn     func() (runtimehelper.Value, error)
}

func (e *funcEvaluator) Static() StaticType                  { return e.static }
func (e *funcEvaluator) Eval() (runtimehelper.Value, error) { return e.fn() }

func constEvaluator(v *litValue) Evaluator {
	return &funcEvaluator{static: StaticType{ElementType: v.et}, fn: func() (runtimehelper.Value, error) { return v, nil }}
}

func compileIntLiteral(ast *Node) (Evaluator, error) {
	i, isLong, err := parseIntLiteral(ast.Text)
	if err != nil {
		return nil, dbgerr.Wrap(dbgerr.KindUnresolvable, "expr.Compile", err)
	}
	if isLong {
		return constEvaluator(longLit(i)), nil
	}
	return constEvaluator(intLit(i)), nil
}

func compileFloatLiteral(ast *Node) (Evaluator, error) {
	f, double, err := parseFloatLiteral(ast.Text)
	if err != nil {
		return nil, dbgerr.Wrap(dbgerr.KindUnresolvable, "expr.Compile", err)
	}
	return constEvaluator(floatLit(f, double)), nil
}

/*
staticTypeOf derives a StaticType for an already-known runtime value,
resolving a class/valuetype's descriptor name through ctx.Resolver when
possible. Arrays and unresolvable class values still get a usable
element-type-only signature - member access on them fails later with a
clear error rather than compilation failing outright.
*/
func staticTypeOf(rv runtimehelper.Value, ctx CompileContext) StaticType {
	st := StaticType{ElementType: rv.ElementType()}
	module, token, ok := rv.ClassInfo()
	if !ok || ctx.Resolver == nil {
		return st
	}
	desc, err := ctx.Resolver.Describe(module, token)
	if err != nil {
		return st
	}
	st.TypeName = desc.TypeName()
	return st
}

func classDescriptorOf(rv runtimehelper.Value, ctx CompileContext) (value.ClassDescriptor, error) {
	module, token, ok := rv.ClassInfo()
	if !ok {
		return nil, dbgerr.New(dbgerr.KindTypeMismatch, "expr.Eval", "value has no class members")
	}
	if ctx.Resolver == nil {
		return nil, dbgerr.New(dbgerr.KindUnresolvable, "expr.Eval", "no class descriptor resolver configured")
	}
	return ctx.Resolver.Describe(module, token)
}

/*
compileIdentifier resolves a name through the same three-tier search as
frame.Resolve (locals, arguments, class members) but, unlike
frame.Resolve, does not eagerly invoke a property getter: a
property-backed identifier is compiled into an evaluator that performs
the getter call (subject to the method-call gate) only when Eval is
called.
*/
func compileIdentifier(ast *Node, ctx CompileContext) (Evaluator, error) {
	name := ast.Text

	if rv, ok := ctx.Frame.RawLocal(name); ok {
		return constEvaluator2(rv, staticTypeOf(rv, ctx)), nil
	}
	if rv, ok := ctx.Frame.RawArgument(name); ok {
		return constEvaluator2(rv, staticTypeOf(rv, ctx)), nil
	}

	if ctx.Members == nil {
		return nil, dbgerr.New(dbgerr.KindUnresolvable, "expr.Compile", "identifier not found: "+name)
	}

	if rv, ok := ctx.Members.FieldByName(name); ok {
		if err := checkMemberAccess(ctx, ctx.Members.IsFieldStatic(name)); err != nil {
			return nil, err
		}
		return constEvaluator2(rv, staticTypeOf(rv, ctx)), nil
	}

	backing := name + "k__BackingField"
	if rv, ok := ctx.Members.FieldByName(backing); ok {
		if err := checkMemberAccess(ctx, ctx.Members.IsFieldStatic(backing)); err != nil {
			return nil, err
		}
		return constEvaluator2(rv, staticTypeOf(rv, ctx)), nil
	}

	if getterToken, ok := ctx.Members.PropertyGetterByName(name); ok {
		static := ctx.Members.IsPropertyStatic(name)
		if err := checkMemberAccess(ctx, static); err != nil {
			return nil, err
		}
		var this runtimehelper.Value
		if !static {
			t, ok := ctx.Frame.RawArgument("this")
			if !ok {
				return nil, dbgerr.New(dbgerr.KindUnresolvable, "expr.Compile", "non-static member "+name+" requires this")
			}
			this = t
		}
		return compilePropertyGet(getterToken, this, ctx), nil
	}

	return nil, dbgerr.New(dbgerr.KindUnresolvable, "expr.Compile", "identifier not found: "+name)
}

func checkMemberAccess(ctx CompileContext, static bool) error {
	if static {
		return nil
	}
	if _, ok := ctx.Frame.RawArgument("this"); !ok {
		return dbgerr.New(dbgerr.KindUnresolvable, "expr.Compile", "non-static member requires this")
	}
	return nil
}

func constEvaluator2(rv runtimehelper.Value, st StaticType) Evaluator {
	return &funcEvaluator{static: st, fn: func() (runtimehelper.Value, error) { return rv, nil }}
}

/*
compilePropertyGet defers the getter invocation to Eval, gated by the
method-call policy; the evaluator's static type is unknown until the
first successful Eval, per the open design tradeoff recorded for this
component (there is no separate compile-time-only static type system in
this core, only already-captured frame values).
*/
func compilePropertyGet(getterToken uint32, this runtimehelper.Value, ctx CompileContext) Evaluator {
	e := &propertyEvaluator{getterToken: getterToken, this: this, ctx: ctx}
	return e
}

type propertyEvaluator struct {
	getterToken uint32
	this        runtimehelper.Value
	ctx         CompileContext

	resolved bool
	static   StaticType
}

func (e *propertyEvaluator) Static() StaticType { return e.static }

func (e *propertyEvaluator) Eval() (runtimehelper.Value, error) {
	if !e.ctx.methodCallAllowed() {
		return nil, dbgerr.New(dbgerr.KindEvaluationRequiresMethodCall, "expr.Eval", "condition requires a property getter call")
	}
	if e.ctx.Coordinator == nil {
		return nil, dbgerr.New(dbgerr.KindUnresolvable, "expr.Eval", "no eval coordinator configured")
	}
	rv, err := e.ctx.Coordinator.InvokeGetter(e.getterToken, e.this, e.ctx.Frame.Module)
	if err != nil {
		return nil, err
	}
	e.static = staticTypeOf(rv, e.ctx)
	e.resolved = true
	return rv, nil
}

func compileUnary(ast *Node, ctx CompileContext) (Evaluator, error) {
	operand, err := Compile(ast.Children[0], ctx)
	if err != nil {
		return nil, err
	}
	ot := operand.Static()

	var resultType StaticType
	switch ast.Op {
	case "!":
		resultType = StaticType{ElementType: runtimehelper.ElementBoolean}
	case "-", "+":
		resultType = promote(ot, ot)
	case "~":
		resultType = promote(ot, ot)
	default:
		return nil, dbgerr.New(dbgerr.KindNotImplemented, "expr.Compile", "unsupported unary operator "+ast.Op)
	}

	return &funcEvaluator{
		static: resultType,
		fn: func() (runtimehelper.Value, error) {
			v, err := operand.Eval()
			if err != nil {
				return nil, err
			}
			return evalUnary(ast.Op, v, ot)
		},
	}, nil
}

func compileBinary(ast *Node, ctx CompileContext) (Evaluator, error) {
	left, err := Compile(ast.Children[0], ctx)
	if err != nil {
		return nil, err
	}
	right, err := Compile(ast.Children[1], ctx)
	if err != nil {
		return nil, err
	}
	lt, rt := left.Static(), right.Static()

	switch ast.Op {
	case "&&", "||":
		return &funcEvaluator{
			static: StaticType{ElementType: runtimehelper.ElementBoolean},
			fn: func() (runtimehelper.Value, error) {
				lv, err := left.Eval()
				if err != nil {
					return nil, err
				}
				lb, ok := numericAsBool(lv)
				if !ok {
					return nil, dbgerr.New(dbgerr.KindTypeMismatch, "expr.Eval", "&&/|| require boolean operands")
				}
				if ast.Op == "&&" && !lb {
					return boolLit(false), nil
				}
				if ast.Op == "||" && lb {
					return boolLit(true), nil
				}
				rv, err := right.Eval()
				if err != nil {
					return nil, err
				}
				rb, ok := numericAsBool(rv)
				if !ok {
					return nil, dbgerr.New(dbgerr.KindTypeMismatch, "expr.Eval", "&&/|| require boolean operands")
				}
				return boolLit(rb), nil
			},
		}, nil

	case "==", "!=":
		return &funcEvaluator{
			static: StaticType{ElementType: runtimehelper.ElementBoolean},
			fn: func() (runtimehelper.Value, error) {
				lv, err := left.Eval()
				if err != nil {
					return nil, err
				}
				rv, err := right.Eval()
				if err != nil {
					return nil, err
				}
				return evalEquality(ast.Op, lv, rv, lt, rt)
			},
		}, nil

	case "<", ">", "<=", ">=":
		operandType := promote(lt, rt)
		return &funcEvaluator{
			static: StaticType{ElementType: runtimehelper.ElementBoolean},
			fn: func() (runtimehelper.Value, error) {
				lv, err := left.Eval()
				if err != nil {
					return nil, err
				}
				rv, err := right.Eval()
				if err != nil {
					return nil, err
				}
				return evalRelational(ast.Op, lv, rv, operandType)
			},
		}, nil

	case "&", "|", "^":
		resultType := promote(lt, rt)
		return &funcEvaluator{
			static: resultType,
			fn: func() (runtimehelper.Value, error) {
				lv, err := left.Eval()
				if err != nil {
					return nil, err
				}
				rv, err := right.Eval()
				if err != nil {
					return nil, err
				}
				return evalBitwise(ast.Op, lv, rv, resultType)
			},
		}, nil

	case "<<", ">>", ">>>":
		return &funcEvaluator{
			static: lt,
			fn: func() (runtimehelper.Value, error) {
				lv, err := left.Eval()
				if err != nil {
					return nil, err
				}
				rv, err := right.Eval()
				if err != nil {
					return nil, err
				}
				return evalShift(ast.Op, lv, rv, lt)
			},
		}, nil

	case "+", "-", "*", "/", "%":
		resultType := promote(lt, rt)
		return &funcEvaluator{
			static: resultType,
			fn: func() (runtimehelper.Value, error) {
				lv, err := left.Eval()
				if err != nil {
					return nil, err
				}
				rv, err := right.Eval()
				if err != nil {
					return nil, err
				}
				return evalArithmetic(ast.Op, lv, rv, resultType)
			},
		}, nil
	}

	return nil, dbgerr.New(dbgerr.KindNotImplemented, "expr.Compile", "unsupported binary operator "+ast.Op)
}

func compileTernary(ast *Node, ctx CompileContext) (Evaluator, error) {
	cond, err := Compile(ast.Children[0], ctx)
	if err != nil {
		return nil, err
	}
	if cond.Static().ElementType != runtimehelper.ElementBoolean {
		return nil, dbgerr.New(dbgerr.KindTypeMismatch, "expr.Compile", "ternary condition must be Boolean")
	}
	then, err := Compile(ast.Children[1], ctx)
	if err != nil {
		return nil, err
	}
	els, err := Compile(ast.Children[2], ctx)
	if err != nil {
		return nil, err
	}

	return &funcEvaluator{
		static: then.Static(),
		fn: func() (runtimehelper.Value, error) {
			cv, err := cond.Eval()
			if err != nil {
				return nil, err
			}
			b, ok := numericAsBool(cv)
			if !ok {
				return nil, dbgerr.New(dbgerr.KindTypeMismatch, "expr.Eval", "ternary condition must be Boolean")
			}
			if b {
				return then.Eval()
			}
			return els.Eval()
		},
	}, nil
}

/*
compileCast supports the numeric narrowing/widening casts; casting to a
class/interface name is accepted syntactically (the runtime value is
passed through unchanged with the new static type name attached) since
this core has no RTTI model to actually check it.
*/
func compileCast(ast *Node, ctx CompileContext) (Evaluator, error) {
	operand, err := Compile(ast.Children[0], ctx)
	if err != nil {
		return nil, err
	}

	target, isNumeric := numericCastTarget(ast.Text)
	if !isNumeric {
		return &funcEvaluator{
			static: StaticType{ElementType: runtimehelper.ElementClass, TypeName: ast.Text},
			fn:     operand.Eval,
		}, nil
	}

	return &funcEvaluator{
		static: target,
		fn: func() (runtimehelper.Value, error) {
			v, err := operand.Eval()
			if err != nil {
				return nil, err
			}
			n, err := numericOf(v)
			if err != nil {
				return nil, err
			}
			return castNumeric(n, target)
		},
	}, nil
}

func numericCastTarget(typeName string) (StaticType, bool) {
	switch typeName {
	case "byte":
		return StaticType{ElementType: runtimehelper.ElementU1}, true
	case "sbyte":
		return StaticType{ElementType: runtimehelper.ElementI1}, true
	case "short":
		return StaticType{ElementType: runtimehelper.ElementI2}, true
	case "ushort":
		return StaticType{ElementType: runtimehelper.ElementU2}, true
	case "int":
		return StaticType{ElementType: runtimehelper.ElementI4}, true
	case "uint":
		return StaticType{ElementType: runtimehelper.ElementU4}, true
	case "long":
		return StaticType{ElementType: runtimehelper.ElementI8}, true
	case "ulong":
		return StaticType{ElementType: runtimehelper.ElementU8}, true
	case "float":
		return StaticType{ElementType: runtimehelper.ElementR4}, true
	case "double":
		return StaticType{ElementType: runtimehelper.ElementR8}, true
	case "char":
		return StaticType{ElementType: runtimehelper.ElementChar}, true
	case "bool":
		return StaticType{ElementType: runtimehelper.ElementBoolean}, true
	}
	return StaticType{}, false
}

func castNumeric(n Numeric, target StaticType) (runtimehelper.Value, error) {
	if target.isFloating() {
		f, _ := n.AsFloat64()
		return floatLit(f, target.ElementType == runtimehelper.ElementR8), nil
	}
	i, _ := n.AsInt64()
	switch target.ElementType {
	case runtimehelper.ElementI8, runtimehelper.ElementU8:
		return longLit(i), nil
	case runtimehelper.ElementI1:
		return intLit(int64(int8(i))), nil
	case runtimehelper.ElementU1:
		return intLit(int64(uint8(i))), nil
	case runtimehelper.ElementI2:
		return intLit(int64(int16(i))), nil
	case runtimehelper.ElementU2, runtimehelper.ElementChar:
		return intLit(int64(uint16(i))), nil
	case runtimehelper.ElementBoolean:
		return boolLit(i != 0), nil
	}
	return intLit(int64(int32(i))), nil
}

/*
compileMember compiles field/property access. Each step re-binds
against the static type of its left-hand side, per spec.md §4.4.
*/
func compileMember(ast *Node, ctx CompileContext) (Evaluator, error) {
	receiver, err := Compile(ast.Children[0], ctx)
	if err != nil {
		return nil, err
	}

	name := ast.Text

	// The member is only bound at Eval, so the static type stays empty.
	return &funcEvaluator{
		static: StaticType{},
		fn: func() (runtimehelper.Value, error) {
			rv, err := receiver.Eval()
			if err != nil {
				return nil, err
			}
			desc, err := classDescriptorOf(rv, ctx)
			if err != nil {
				return nil, err
			}
			return evalMemberAccess(rv, desc, name, ctx)
		},
	}, nil
}

func evalMemberAccess(rv runtimehelper.Value, desc value.ClassDescriptor, name string, ctx CompileContext) (runtimehelper.Value, error) {
	for _, f := range desc.Fields() {
		if f.Name == name {
			return f.Value, nil
		}
	}
	backing := name + "k__BackingField"
	for _, f := range desc.Fields() {
		if f.Name == backing {
			return f.Value, nil
		}
	}
	for _, p := range desc.Properties() {
		if p.Name == name && p.GetterToken != 0 {
			if !ctx.methodCallAllowed() {
				return nil, dbgerr.New(dbgerr.KindEvaluationRequiresMethodCall, "expr.Eval", "condition requires a property getter call")
			}
			if ctx.Coordinator == nil {
				return nil, dbgerr.New(dbgerr.KindUnresolvable, "expr.Eval", "no eval coordinator configured")
			}
			module, _, _ := rv.ClassInfo()
			return ctx.Coordinator.InvokeGetter(p.GetterToken, rv, module)
		}
	}
	return nil, dbgerr.New(dbgerr.KindUnresolvable, "expr.Eval", "member not found: "+name)
}

/*
compileCall compiles a method invocation, always gated by the
method-call policy regardless of whether it has a receiver (a bare call
invokes a method on the enclosing class's "this"/static scope).
*/
func compileCall(ast *Node, ctx CompileContext) (Evaluator, error) {
	isMemberCall := ast.Op == "member"

	var receiver Evaluator
	var args []Evaluator
	var err error

	if isMemberCall {
		receiver, err = Compile(ast.Children[0], ctx)
		if err != nil {
			return nil, err
		}
		for _, a := range ast.Children[1:] {
			ae, err := Compile(a, ctx)
			if err != nil {
				return nil, err
			}
			args = append(args, ae)
		}
	} else {
		for _, a := range ast.Children {
			ae, err := Compile(a, ctx)
			if err != nil {
				return nil, err
			}
			args = append(args, ae)
		}
	}

	name := ast.Text

	return &funcEvaluator{
		static: StaticType{},
		fn: func() (runtimehelper.Value, error) {
			if !ctx.methodCallAllowed() {
				return nil, dbgerr.New(dbgerr.KindEvaluationRequiresMethodCall, "expr.Eval", "condition requires a method call")
			}

			argVals := make([]runtimehelper.Value, 0, len(args))
			for _, a := range args {
				v, err := a.Eval()
				if err != nil {
					return nil, err
				}
				argVals = append(argVals, v)
			}

			var rv runtimehelper.Value
			if isMemberCall {
				var err error
				rv, err = receiver.Eval()
				if err != nil {
					return nil, err
				}
			} else {
				t, ok := ctx.Frame.RawArgument("this")
				if !ok {
					return nil, dbgerr.New(dbgerr.KindUnresolvable, "expr.Eval", "no this for unqualified method call "+name)
				}
				rv = t
			}

			desc, err := classDescriptorOf(rv, ctx)
			if err != nil {
				return nil, err
			}
			for _, m := range desc.Methods() {
				if m.Name == name {
					if ctx.Coordinator == nil {
						return nil, dbgerr.New(dbgerr.KindUnresolvable, "expr.Eval", "no eval coordinator configured")
					}
					module, _, _ := rv.ClassInfo()
					this := rv
					if m.Static {
						this = nil
					}
					return ctx.Coordinator.InvokeMethod(m.Token, this, module, argVals)
				}
			}
			return nil, dbgerr.New(dbgerr.KindUnresolvable, "expr.Eval", "method not found: "+name)
		},
	}, nil
}

/*
compileIndex compiles array indexing through the ArrayInfo capability.
*/
func compileIndex(ast *Node, ctx CompileContext) (Evaluator, error) {
	receiver, err := Compile(ast.Children[0], ctx)
	if err != nil {
		return nil, err
	}
	index, err := Compile(ast.Children[1], ctx)
	if err != nil {
		return nil, err
	}

	return &funcEvaluator{
		static: StaticType{},
		fn: func() (runtimehelper.Value, error) {
			rv, err := receiver.Eval()
			if err != nil {
				return nil, err
			}
			arr, ok := rv.(value.ArrayInfo)
			if !ok {
				return nil, dbgerr.New(dbgerr.KindTypeMismatch, "expr.Eval", "indexing requires an array value")
			}
			iv, err := index.Eval()
			if err != nil {
				return nil, err
			}
			n, err := numericOf(iv)
			if err != nil {
				return nil, err
			}
			i, _ := n.AsInt64()
			if i < 0 || int(i) >= arr.Length() {
				return nil, dbgerr.New(dbgerr.KindTypeMismatch, "expr.Eval", "array index out of range")
			}
			return arr.Element(int(i))
		},
	}, nil
}
