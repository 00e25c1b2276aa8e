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

import "github.com/clruntim/coredbg/runtimehelper"

/*
stringValue renders a System.String value.
*/
type stringValue struct {
	rv runtimehelper.Value
}

func newStringValue(rv runtimehelper.Value) *stringValue {
	return &stringValue{rv: rv}
}

func (v *stringValue) Kind() Kind { return KindString }

func (v *stringValue) PopulateType(n *Node) {
	n.Type = "System.String"
}

func (v *stringValue) PopulateValue(n *Node) {
	if vt, ok := v.rv.(ValueTexter); ok {
		n.Value = vt.ValueText()
		return
	}
	n.Value = ""
}

func (v *stringValue) PopulateMembers(n *Node, coordinator PropertyEvaluator) ([]Member, bool, error) {
	return nil, false, nil
}
