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
	"fmt"
	"sort"
	"strings"

	"github.com/clruntim/coredbg/dbgerr"
	"github.com/clruntim/coredbg/runtimehelper"
)

/*
enumValue renders a System.Enum-derived value. Enums are value types:
their "members" (for the rare case a client asks to expand one) are
just their own raw value, so PopulateMembers always reports no
members - PopulateValue carries the whole rendering.
*/
type enumValue struct {
	desc ClassDescriptor
	raw  int64
	ei   EnumInfo
}

func newEnumValue(rv runtimehelper.Value, desc ClassDescriptor) (*enumValue, error) {
	ei, ok := rv.(EnumInfo)
	if !ok {
		return nil, dbgerr.New(dbgerr.KindUnresolvable, "value.newEnumValue", "value does not expose enum info")
	}
	return &enumValue{desc: desc, raw: ei.RawValue(), ei: ei}, nil
}

func (v *enumValue) Kind() Kind { return KindEnum }

func (v *enumValue) PopulateType(n *Node) {
	n.Type = v.desc.TypeName()
}

func (v *enumValue) PopulateValue(n *Node) {
	n.Value = renderEnumValue(v.raw, v.ei.Constants())
}

func (v *enumValue) PopulateMembers(n *Node, coordinator PropertyEvaluator) ([]Member, bool, error) {
	return nil, false, nil
}

/*
renderEnumValue implements the original implementation's dbg_enum.cc
search order: an exact match against a named constant first, then -
for flag-style enums - a greedy, largest-bitmask-first cover of the
raw bits by the remaining named constants. Constants whose value is
zero never participate in the bitmask cover (every value trivially
contains the empty set of bits); they only match the raw value 0
directly.
*/
func renderEnumValue(raw int64, constants []EnumConstant) string {
	for _, c := range constants {
		if c.Value == raw {
			return c.Name
		}
	}

	if raw == 0 {
		return fmt.Sprintf("%d", raw)
	}

	candidates := make([]EnumConstant, 0, len(constants))
	for _, c := range constants {
		if c.Value != 0 {
			candidates = append(candidates, c)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return bitCount(candidates[i].Value) > bitCount(candidates[j].Value)
	})

	var names []string
	remaining := raw

	for _, c := range candidates {
		if remaining&c.Value == c.Value {
			names = append(names, c.Name)
			remaining &^= c.Value
		}
	}

	if remaining != 0 {
		names = append(names, fmt.Sprintf("0x%x", remaining))
	}

	if len(names) == 0 {
		return fmt.Sprintf("%d", raw)
	}

	return strings.Join(names, " | ")
}

func bitCount(v int64) int {
	uv := uint64(v)
	count := 0
	for uv != 0 {
		count += int(uv & 1)
		uv >>= 1
	}
	return count
}
