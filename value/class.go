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
	"github.com/clruntim/coredbg/dbgerr"
	"github.com/clruntim/coredbg/runtimehelper"
)

/*
classValue renders a plain class or struct: every field, plus every
property with a getter, as a child node.

Per spec.md §4.2, value types (structs) cannot have their bytes
re-acquired once the runtime resumes, so their members are built
eagerly at construction time, at creation-depth-1. Reference types
(classes) instead acquire a strong handle and defer member
construction until PopulateMembers actually runs, since a class
instance's backing storage survives independently of any one capture.
*/
type classValue struct {
	desc ClassDescriptor

	// Reference-type path: lazy.
	rv       runtimehelper.Value
	resolver ClassDescriptorResolver
	handles  runtimehelper.StrongHandleCreator
	depth    int

	// Value-type path: eager, built once at construction.
	eager      bool
	eagerMembs []Member
}

func newClassValue(rv runtimehelper.Value, desc ClassDescriptor, resolver ClassDescriptorResolver, handles runtimehelper.StrongHandleCreator, depth int) (*classValue, error) {
	if !desc.IsValueType() {
		held := rv
		if handles != nil {
			promoted, err := runtimehelper.CreateStrongHandle(handles, rv)
			if err != nil {
				return nil, err
			}
			held = promoted
		}
		return &classValue{desc: desc, rv: held, resolver: resolver, handles: handles, depth: depth}, nil
	}

	v := &classValue{desc: desc, eager: true}
	v.eagerMembs = buildClassMembers(desc, resolver, handles, depth-1)
	return v, nil
}

func (v *classValue) Kind() Kind { return KindClass }

func (v *classValue) PopulateType(n *Node) {
	n.Type = v.desc.TypeName()
}

func (v *classValue) PopulateValue(n *Node) {
	n.Value = ""
}

func (v *classValue) PopulateMembers(n *Node, coordinator PropertyEvaluator) ([]Member, bool, error) {
	if v.eager {
		return v.eagerMembs, true, nil
	}
	return buildClassMembers(v.desc, v.resolver, v.handles, v.depth-1), true, nil
}

/*
buildClassMembers constructs one Member per field and per readable
property. A field backing an auto-implemented property is canonicalized
to the property's name and rendered directly from the field's already-
captured value, rather than via a getter invocation; the property
variant that would otherwise render it is suppressed, per spec.md §3's
"field may be backing a property" rule. A field or property whose
value fails to construct becomes an inline error node rather than
aborting the rest of the class.
*/
func buildClassMembers(desc ClassDescriptor, resolver ClassDescriptorResolver, handles runtimehelper.StrongHandleCreator, childDepth int) []Member {
	backingOf := make(map[string]string, len(desc.Properties()))
	for _, p := range desc.Properties() {
		if p.GetterToken == 0 {
			continue
		}
		backingOf[p.Name+"k__BackingField"] = p.Name
	}

	members := make([]Member, 0, len(desc.Fields())+len(desc.Properties()))
	canonicalized := make(map[string]bool, len(backingOf))

	for _, f := range desc.Fields() {
		child, err := New(f.Value, resolver, handles, childDepth)
		if err != nil {
			child = &errorValue{message: err.Error()}
		}
		name := f.Name
		if propName, ok := backingOf[f.Name]; ok {
			name = propName
			canonicalized[propName] = true
		}
		members = append(members, Member{Node: &Node{Name: name}, Value: child})
	}

	for _, p := range desc.Properties() {
		if p.GetterToken == 0 || canonicalized[p.Name] {
			continue
		}
		members = append(members, Member{
			Node:  &Node{Name: p.Name},
			Value: &propertyValue{getterToken: p.GetterToken, resolver: resolver, handles: handles, depth: childDepth},
		})
	}

	return members
}

/*
propertyValue defers evaluating a property's getter until BFS actually
reaches it, since invoking a getter requires the eval coordinator and
should not happen for a property nobody renders.
*/
type propertyValue struct {
	getterToken uint32
	resolver    ClassDescriptorResolver
	handles     runtimehelper.StrongHandleCreator
	depth       int

	resolved bool
	inner    Value
}

func (v *propertyValue) Kind() Kind { return KindClass }

func (v *propertyValue) PopulateType(n *Node) {
	n.Type = "<property>"
}

func (v *propertyValue) PopulateValue(n *Node) {
	if v.resolved {
		v.inner.PopulateValue(n)
		return
	}
	n.Value = ""
}

func (v *propertyValue) PopulateMembers(n *Node, coordinator PropertyEvaluator) ([]Member, bool, error) {
	if coordinator == nil {
		return nil, false, dbgerr.New(dbgerr.KindEvaluationRequiresMethodCall, "value.propertyValue.PopulateMembers",
			"property getter invocation requires the eval coordinator")
	}

	result, err := coordinator.InvokeGetter(v.getterToken, nil, nil)
	if err != nil {
		return nil, false, dbgerr.Wrap(dbgerr.KindEvalException, "value.propertyValue.PopulateMembers", err)
	}

	inner, err := New(result, v.resolver, v.handles, v.depth)
	if err != nil {
		return nil, false, err
	}

	v.resolved = true
	v.inner = inner

	// PopulateType already ran against this placeholder before the
	// getter was invoked; now that the real value is known, overwrite
	// it with the resolved type.
	inner.PopulateType(n)

	return inner.PopulateMembers(n, coordinator)
}
