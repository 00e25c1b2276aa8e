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

/*
nullValue renders a null reference. Its declared type is unknown at
this point - spec.md §4.2's BFS description has the driver skip
expansion the moment it sees Kind() == KindNull, before PopulateType's
result would ever need a more specific name.
*/
type nullValue struct{}

func (v *nullValue) Kind() Kind { return KindNull }

func (v *nullValue) PopulateType(n *Node) {
	n.Type = "<null>"
}

func (v *nullValue) PopulateValue(n *Node) {
	n.Value = "null"
}

func (v *nullValue) PopulateMembers(n *Node, coordinator PropertyEvaluator) ([]Member, bool, error) {
	return nil, false, nil
}
