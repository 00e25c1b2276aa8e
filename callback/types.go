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
Package callback implements the adapter around the runtime's managed
callback interface: the single entry point every runtime event arrives
through, dispatched by event name to a handful of routes the core cares
about. Every other event is a stub that just continues the debuggee.
*/
package callback

import (
	"github.com/clruntim/coredbg/breakpoint"
	"github.com/clruntim/coredbg/runtimehelper"
)

/*
BreakpointHandle is the narrow capability the Breakpoint route needs
from a raw breakpoint handle: the method/IL-offset it was armed at.
*/
type BreakpointHandle interface {
	MethodToken() uint32
	ILOffset() int
}

/*
Continuer is the capability to resume the debuggee, the thing every
route must call exactly once on its way out.
*/
type Continuer interface {
	Continue(outOfBand bool) error
}

/*
Registry is the capability callback needs from the breakpoint registry:
match a reported hit and hand it to a Handler (the coordinator), and
retry resolution of breakpoints that were tracked but never armed once
a module load makes their symbols available.
*/
type Registry interface {
	EvaluateAndPrintBreakpoint(methodToken uint32, ilOffset int, handler breakpoint.Handler) error
	ResolveUnresolved()
}

/*
EvalSignaler is the capability callback needs from the eval coordinator:
query the reentrancy guard and report evaluation completion/exception.
*/
type EvalSignaler interface {
	WaitingForEval() bool
	EvalComplete(result runtimehelper.Value)
	EvalException(err error)
}

/*
ModuleLoader ingests a newly loaded module's debug symbols. A concrete
adapter parses the module's portable PDB (an external format, out of
scope for this core) into a symbols.Document and adds it to the active
symbols.SymbolStore.
*/
type ModuleLoader interface {
	LoadModule(module runtimehelper.Module) error
}
