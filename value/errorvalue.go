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
errorValue is a leaf standing in for a member whose construction
failed. Per spec.md §4.3, such failures become an inline error string
on the member's node rather than aborting the whole compound value's
rendering; this type makes that rule uniform across arrays, classes
and collections instead of each caller special-casing it.
*/
type errorValue struct {
	message string
}

/*
NewErrorValue builds a leaf Value whose rendering is just an inline
error string, for callers outside this package that need the same
"failures become an inline error string" behavior (frame capture, for
one).
*/
func NewErrorValue(message string) Value {
	return &errorValue{message: message}
}

func (v *errorValue) Kind() Kind { return KindPrimitive }

func (v *errorValue) PopulateType(n *Node) {
	n.Type = "<error>"
	n.Status = v.message
}

func (v *errorValue) PopulateValue(n *Node) {}

func (v *errorValue) PopulateMembers(n *Node, coordinator PropertyEvaluator) ([]Member, bool, error) {
	return nil, false, nil
}
