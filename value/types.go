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
Package value implements the polymorphic rendering of managed values
captured from the debuggee: primitives, strings, arrays, classes,
enums and the handful of built-in collection shapes the agent renders
specially (List<T>, HashSet<T>, Dictionary<K,V>). It also implements
the breadth-first expansion used to turn a captured value into the
tree of Node objects a snapshot carries.
*/
package value

import (
	"github.com/clruntim/coredbg/runtimehelper"
)

/*
Kind identifies which of the value shapes a Value implementation
represents. It exists mainly for BFS dispatch (the Null case stops
expansion) and for tests; rendering itself is driven by the Value
interface, not by switching on Kind.
*/
type Kind int

const (
	KindPrimitive Kind = iota
	KindString
	KindArray
	KindClass
	KindEnum
	KindBuiltinList
	KindBuiltinSet
	KindBuiltinDict
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	case KindClass:
		return "Class"
	case KindEnum:
		return "Enum"
	case KindBuiltinList:
		return "BuiltinList"
	case KindBuiltinSet:
		return "BuiltinSet"
	case KindBuiltinDict:
		return "BuiltinDict"
	case KindNull:
		return "Null"
	}
	return "Unknown"
}

/*
Status strings set on a Node by BFS expansion when a value could not
be rendered to completion. These are displayed to the client verbatim
rather than treated as errors - a partially rendered snapshot is still
useful.
*/
const (
	StatusDepthLimitReached = "Object evaluation limit reached"
)

/*
Node is the rendering target a Value populates: the language-agnostic
proto node the snapshot eventually serializes. A Node with a non-empty
Status was not fully rendered; a Node with nil Members but no Status
and an empty Value is a compound value whose members were never
requested (e.g. because the BFS queue ran out of budget first).
*/
type Node struct {
	Name    string
	Type    string
	Value   string
	Status  string
	Members []*Node
}

/*
Member pairs a Node with the Value driving it, so that BFS expansion
can keep walking after PopulateMembers returns. The Node is already
wired into the parent's Members slice; Value is only needed by the
traversal, never serialized.
*/
type Member struct {
	Node  *Node
	Value Value
}

/*
Value is the contract every value shape implements. Rendering a value
is always these three steps, performed in order by the BFS driver in
Expand: PopulateType once, then either PopulateMembers (compound) or
PopulateValue (leaf).
*/
type Value interface {

	/*
		Kind reports which value shape this is.
	*/
	Kind() Kind

	/*
		PopulateType writes this value's language-agnostic type string
		onto the target node.
	*/
	PopulateType(n *Node)

	/*
		PopulateValue writes a primitive's textual value onto the
		target node. Called only when PopulateMembers reported no
		members.
	*/
	PopulateValue(n *Node)

	/*
		PopulateMembers enumerates this value's children. hasMembers
		is false for leaves (primitives, strings, null) - callers must
		fall back to PopulateValue in that case rather than treat an
		empty member list as "no members", since an empty array is a
		compound value with zero children.
	*/
	PopulateMembers(n *Node, coordinator PropertyEvaluator) (members []Member, hasMembers bool, err error)
}

/*
PropertyEvaluator is the narrow capability the value package needs
from the eval coordinator (§4.6 of the concurrency model): invoking a
property getter on the debuggee and getting back the resulting runtime
value. Defined here rather than imported from a coordinator package to
keep value free of a dependency on the concurrency machinery; the
coordinator implements this interface.
*/
type PropertyEvaluator interface {
	InvokeGetter(getterToken uint32, this runtimehelper.Value, owner runtimehelper.Module) (runtimehelper.Value, error)

	/*
		InvokeMethod invokes a user method on the debuggee with the
		given argument values, this nil for a static method. Unlike
		InvokeGetter, a method invocation is never served from the
		static-member cache - it may have side effects, and repeat
		calls can carry different arguments.
	*/
	InvokeMethod(methodToken uint32, this runtimehelper.Value, owner runtimehelper.Module, args []runtimehelper.Value) (runtimehelper.Value, error)
}

/*
ClassDescriptor exposes the CLR-independent shape of a class or struct
needed for dispatch (§4.2: branch on base-class name) and for member
enumeration. A concrete runtime adapter resolves one of these from a
(module, token) pair; this core never talks to metadata directly.
*/
type ClassDescriptor interface {
	TypeName() string
	BaseClassName() string
	IsValueType() bool
	Fields() []FieldInfo
	Properties() []PropertyInfo
	Methods() []MethodInfo
}

/*
ClassDescriptorResolver resolves the ClassDescriptor for a class/struct
value, given its owning module and metadata token (as returned by
runtimehelper.Value.ClassInfo).
*/
type ClassDescriptorResolver interface {
	Describe(module runtimehelper.Module, token uint32) (ClassDescriptor, error)
}

/*
FieldInfo describes one field of a class or struct.
*/
type FieldInfo struct {
	Name   string
	Static bool
	Value  runtimehelper.Value
}

/*
PropertyInfo describes one property of a class or struct. GetterToken
is zero when the property has no getter (write-only properties are not
rendered).
*/
type PropertyInfo struct {
	Name        string
	GetterToken uint32
}

/*
ValueTexter is the optional capability a runtimehelper.Value implements
to supply the literal textual rendering of a primitive or string value.
A handle that does not implement it still renders (as a type-only
placeholder) rather than failing - the agent degrades gracefully when
a concrete runtime adapter has not wired literal rendering yet.
*/
type ValueTexter interface {
	ValueText() string
}

/*
MethodInfo describes one user-invocable method of a class or struct,
for the expression evaluator's method-call grammar.
*/
type MethodInfo struct {
	Name      string
	Token     uint32
	Static    bool
	ReturnType string
}

/*
ArrayInfo is the optional capability a runtimehelper.Value implements
when its element type is SZARRAY/ARRAY.
*/
type ArrayInfo interface {
	Length() int
	Element(i int) (runtimehelper.Value, error)
}

/*
EnumInfo is the optional capability a runtimehelper.Value implements
when its class derives from System.Enum.
*/
type EnumInfo interface {
	RawValue() int64
	Constants() []EnumConstant
}

/*
EnumConstant is one named constant of an enum type.
*/
type EnumConstant struct {
	Name  string
	Value int64
}

/*
CollectionEntry is one entry of a built-in list/set/dict collection.
Key is nil for list entries and set entries rendered without an
explicit key. HashCode is only meaningful for set/dict entries, where
-1 marks a tombstone (a removed entry whose slot has not been
compacted) that rendering must skip.
*/
type CollectionEntry struct {
	HashCode int32
	Key      runtimehelper.Value
	Val      runtimehelper.Value
}

/*
ListInfo is the optional capability a runtimehelper.Value implements
when its class is List<T>.
*/
type ListInfo interface {
	Entries() ([]CollectionEntry, error)
}

/*
SetInfo is the optional capability a runtimehelper.Value implements
when its class is HashSet<T>.
*/
type SetInfo interface {
	Entries() ([]CollectionEntry, error)
}

/*
DictInfo is the optional capability a runtimehelper.Value implements
when its class is Dictionary<K,V>.
*/
type DictInfo interface {
	Entries() ([]CollectionEntry, error)
}
