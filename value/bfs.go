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
queueItem is one entry of the BFS expansion queue: a {node, value,
level} tuple, per spec.md §4.2.
*/
type queueItem struct {
	member Member
	level  int
}

/*
Expand runs the breadth-first rendering traversal described in
spec.md §4.2 starting from root. maxDepth bounds how many levels deep
expansion goes before a node is marked with StatusDepthLimitReached
instead of being expanded further. overBudget is polled before every
dequeue; once it returns true, Expand returns immediately, leaving the
rest of the queue unexpanded rather than truncating mid-subtree - the
caller (the snapshot assembler) is expected to track a byte budget and
supply it here.
*/
func Expand(root Member, maxDepth int, coordinator PropertyEvaluator, overBudget func() bool) {
	queue := []queueItem{{member: root, level: 0}}

	for len(queue) > 0 {
		if overBudget != nil && overBudget() {
			return
		}

		item := queue[0]
		queue = queue[1:]

		n := item.member.Node
		v := item.member.Value

		v.PopulateType(n)

		if item.level >= maxDepth {
			n.Status = StatusDepthLimitReached
			continue
		}

		if v.Kind() == KindNull {
			continue
		}

		members, hasMembers, err := v.PopulateMembers(n, coordinator)
		if err != nil {
			n.Status = err.Error()
			continue
		}

		if !hasMembers {
			v.PopulateValue(n)
			continue
		}

		n.Members = make([]*Node, len(members))
		for i, m := range members {
			n.Members[i] = m.Node
			queue = append(queue, queueItem{member: m, level: item.level + 1})
		}
	}
}
