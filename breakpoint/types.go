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
Package breakpoint holds the indexed collection of armed breakpoints:
resolving a (file, line) request against the parsed symbol tables,
arming a runtime handle for it, and matching a reported (method,
IL-offset) hit back against the armed set.
*/
package breakpoint

import (
	"github.com/clruntim/coredbg/symbols"
)

/*
RuntimeBreakpoint is the armed handle a concrete runtime adapter hands
back from Armer.Arm. The registry never inspects it beyond flipping its
active flag.
*/
type RuntimeBreakpoint interface {
	SetActive(active bool) error
}

/*
Armer is the collaborator that turns a resolved (method, IL-offset)
location into a live runtime breakpoint. A concrete implementation
enumerates the owning type's methods by name, filters by equal
signature pointer and virtual RVA to find the actual dispatch target,
obtains its IL-code handle, creates a function breakpoint at the
offset, and activates it.
*/
type Armer interface {
	Arm(method *symbols.MethodDebugInfo, ilOffset int) (RuntimeBreakpoint, error)
}

/*
Handler receives the breakpoints matched by a single reported hit,
outside the registry's lock. The cli package's coordinatingHandler
implements this, wrapping the eval coordinator's handshake around
snapshot capture.
*/
type Handler interface {
	HandleBreakpointHit(hits []*Breakpoint) error
}

/*
Breakpoint is one client-requested breakpoint, resolved and (if
active) armed against the debuggee.
*/
type Breakpoint struct {
	ID     string
	Path   string
	Line   int
	Active bool

	Condition   string
	Expressions []string

	LogPoint         bool
	LogLevel         string
	LogMessageFormat string

	Resolved *symbols.ResolvedLocation
	Runtime  RuntimeBreakpoint

	/*
		HitCount counts how many times this breakpoint has matched a
		reported hit, incremented by EvaluateAndPrintBreakpoint.
		ConditionErrorCount counts how many of those hits failed to
		evaluate their condition expression, incremented by the
		snapshot assembler. Both mirror breakpoint_collection.cc's
		per-breakpoint counters.
	*/
	HitCount            int64
	ConditionErrorCount int64
}
