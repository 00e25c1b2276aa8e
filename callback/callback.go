/*
 * coredbg
 *
 * Copyright 2024 The coredbg authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package callback

import (
	"sync/atomic"

	"github.com/clruntim/coredbg/breakpoint"
	"github.com/clruntim/coredbg/dbglog"
	"github.com/clruntim/coredbg/runtimehelper"
)

/*
Callback is the runtime callback adapter: reference-counted the way a
COM object backing a vendor callback interface would be, dispatching
each event by name to a fixed route. Every route continues the
debuggee exactly once before returning.
*/
type Callback struct {
	refCount int32

	registry Registry
	eval     EvalSignaler
	handler  breakpoint.Handler
	modules  ModuleLoader
	log      dbglog.Logger
}

/*
New creates a Callback wired to its collaborators. handler is what
matched breakpoints are handed to - in practice an adapter around the
eval coordinator's ProcessBreakpoints.
*/
func New(registry Registry, eval EvalSignaler, handler breakpoint.Handler, modules ModuleLoader, log dbglog.Logger) *Callback {
	return &Callback{registry: registry, eval: eval, handler: handler, modules: modules, log: log}
}

/*
AddRef increments the reference count and returns the new value, the
Go-side analog of IUnknown::AddRef.
*/
func (c *Callback) AddRef() int32 {
	return atomic.AddInt32(&c.refCount, 1)
}

/*
Release decrements the reference count and returns the new value. A
concrete runtime adapter is expected to stop routing events through
this Callback once it reaches zero.
*/
func (c *Callback) Release() int32 {
	return atomic.AddInt32(&c.refCount, -1)
}

/*
RefCount returns the current reference count.
*/
func (c *Callback) RefCount() int32 {
	return atomic.LoadInt32(&c.refCount)
}

/*
knownInterfaces lists the callback interfaces this adapter actually
implements routes for; QueryInterface reports no support for anything
else so a concrete adapter knows to fall back to its own default
handling (or ignore the event entirely).
*/
var knownInterfaces = map[string]bool{
	"ICorDebugManagedCallback":  true,
	"ICorDebugManagedCallback2": true,
}

/*
QueryInterface reports whether this Callback implements the named
callback interface.
*/
func (c *Callback) QueryInterface(iid string) bool {
	return knownInterfaces[iid]
}

/*
Breakpoint handles a reported breakpoint hit. If a capture task is
already waiting on an evaluation, the hit is ignored (reentrancy guard)
since it would otherwise recurse into the property getter or method
call that eval is driving. Otherwise the handle's resolved location is
handed to the registry, which matches it against the armed set and
delegates to the handler (the coordinator).
*/
func (c *Callback) Breakpoint(thread Continuer, handle BreakpointHandle) error {
	defer func() { _ = thread.Continue(false) }()

	if c.eval.WaitingForEval() {
		return nil
	}

	if err := c.registry.EvaluateAndPrintBreakpoint(handle.MethodToken(), handle.ILOffset(), c.handler); err != nil {
		c.log.LogError("callback.Breakpoint", "BreakpointDispatch", err)
		return err
	}
	return nil
}

/*
Exception marks that an evaluation (if one is in flight) ended in an
exception, then continues the debuggee.
*/
func (c *Callback) Exception(thread Continuer, err error) error {
	defer func() { _ = thread.Continue(false) }()
	c.eval.EvalException(err)
	return nil
}

/*
EvalException is the runtime's dedicated "your eval raised" event,
reported separately from a plain Exception on some runtimes.
*/
func (c *Callback) EvalException(thread Continuer, err error) error {
	defer func() { _ = thread.Continue(false) }()
	c.eval.EvalException(err)
	return nil
}

/*
EvalComplete reports that a requested evaluation finished successfully.
*/
func (c *Callback) EvalComplete(thread Continuer, result runtimehelper.Value) error {
	defer func() { _ = thread.Continue(false) }()
	c.eval.EvalComplete(result)
	return nil
}

/*
LoadModule ingests a newly loaded module's debug symbols and continues.
A failure to parse symbols is logged but does not stop the debuggee -
the module simply has no breakpoint-resolvable locations. On success,
every breakpoint that was left unarmed by a prior resolution failure
gets one more resolution attempt, since the module just loaded may be
the one it was waiting on.
*/
func (c *Callback) LoadModule(thread Continuer, module runtimehelper.Module) error {
	defer func() { _ = thread.Continue(false) }()

	if c.modules == nil {
		return nil
	}
	if err := c.modules.LoadModule(module); err != nil {
		c.log.LogError("callback.LoadModule", "SymbolIngest", err)
		return nil
	}
	if c.registry != nil {
		c.registry.ResolveUnresolved()
	}
	return nil
}

/*
StubEvent handles every runtime event this core has no route for
(CreateThread, ExitThread, LoadClass, ...): it continues the thread out
of band and returns only that Continue call's error; it reports no
separate no-interface result.
*/
func (c *Callback) StubEvent(thread Continuer) error {
	return thread.Continue(true)
}
