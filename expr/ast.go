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

/*
NodeKind identifies the shape of one AST node.
*/
type NodeKind int

const (
	NodeIntLiteral NodeKind = iota
	NodeFloatLiteral
	NodeCharLiteral
	NodeStringLiteral
	NodeBoolLiteral
	NodeNullLiteral
	NodeIdentifier
	NodeUnary
	NodeBinary
	NodeTernary
	NodeCast
	NodeMember
	NodeCall
	NodeIndex
)

/*
Node is one parsed expression node. Op carries the operator text for
NodeUnary/NodeBinary ("+", "-", "==", ...); Text carries the literal
text, identifier/member name, or cast type name as appropriate; Children
carries operands (unary: 1, binary: 2, ternary: 3 [cond,then,else],
member/call: [receiver, ...args for call], index: [receiver, index],
cast: [operand]).
*/
type Node struct {
	Kind     NodeKind
	Op       string
	Text     string
	Children []*Node
}
