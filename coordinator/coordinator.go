/*
 * coredbg
 *
 * Copyright 2024 The coredbg authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package coordinator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/clruntim/coredbg/dbgerr"
	"github.com/clruntim/coredbg/runtimehelper"
)

/*
Coordinator holds the shared state of the suspend/resume handshake: one
mutex, one condition variable broadcasting every state transition, and
the flags the teacher's interrogationState tracked as separate cond
variables - readyToCapture, callbackMayContinue, waitingForEval,
evalComplete/evalException. A single cond is enough here because every
waiter loops on its own predicate, the standard Go idiom for "wait
until condition X", rather than relying on a dedicated wakeup channel
per condition.
*/
type Coordinator struct {
	mu   sync.Mutex
	cond *sync.Cond

	requester EvalRequester
	timeout   time.Duration

	captureSem *semaphore.Weighted

	activeThreadID uint64

	readyToCapture      bool
	callbackMayContinue bool
	waitingForEval      bool
	evalComplete        bool
	evalException       bool
	evalTimedOut        bool

	evalResult runtimehelper.Value
	evalErr    error

	pendingCaptureErr error

	staticCacheClears int64

	staticMu    sync.Mutex
	staticCache map[staticCacheKey]runtimehelper.Value
}

/*
staticCacheKey identifies one static class member for the process-wide
static cache of spec.md §3: the owning module's short name (modules
are not guaranteed to be comparable as map keys themselves) paired with
the property's getter token, which is already unique within a module's
metadata.
*/
type staticCacheKey struct {
	module string
	token  uint32
}

/*
New creates a Coordinator that requests evaluations through requester
and gives up waiting for one after timeout.
*/
func New(requester EvalRequester, timeout time.Duration) *Coordinator {
	c := &Coordinator{
		requester:  requester,
		timeout:    timeout,
		captureSem: semaphore.NewWeighted(1),
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

/*
WaitingForEval reports whether a capture task is currently waiting on
an evaluation. The callback's Breakpoint route uses this as a
reentrancy guard: a breakpoint hit inside a getter being evaluated to
render a different breakpoint's snapshot must not recurse.
*/
func (c *Coordinator) WaitingForEval() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waitingForEval
}

/*
StaticCacheClears returns how many times a capture task has finished
and cleared the coordinator's static-field cache, for diagnostics.
*/
func (c *Coordinator) StaticCacheClears() int64 {
	return atomic.LoadInt64(&c.staticCacheClears)
}

/*
ProcessBreakpoints is called by the callback thread when a breakpoint
fires. It records the active thread, spawns one capture task running
capture, and blocks until the capture task (via WaitForEval or on
completion) releases the callback thread. The single-weight semaphore
enforces that at most one capture task runs at a time - the callback
thread being blocked here already precludes a second concurrent hit,
but the semaphore makes that invariant explicit rather than implicit
in the blocking.
*/
func (c *Coordinator) ProcessBreakpoints(ctx context.Context, threadID uint64, capture Capture) error {
	if err := c.captureSem.Acquire(ctx, 1); err != nil {
		return dbgerr.Wrap(dbgerr.KindIoError, "coordinator.ProcessBreakpoints", err)
	}

	c.mu.Lock()
	c.activeThreadID = threadID
	c.readyToCapture = true
	c.callbackMayContinue = false
	c.cond.Broadcast()
	c.mu.Unlock()

	go func() {
		defer c.captureSem.Release(1)
		err := capture(c)
		c.SignalFinishedPrintingVariable(err)
	}()

	c.mu.Lock()
	for !c.callbackMayContinue {
		c.cond.Wait()
	}
	err := c.pendingCaptureErr
	c.mu.Unlock()
	return err
}

/*
WaitForEval is called by a capture task whenever it needs the runtime
to actually execute code (a property getter, say). It sets
waiting-for-eval and callback-may-continue, wakes the callback thread
blocked in ProcessBreakpoints so it can return from its event handler
and let the runtime run, fires trigger to kick the evaluation off, then
blocks until EvalComplete/EvalException reports back or the configured
timeout elapses.
*/
func (c *Coordinator) WaitForEval(trigger func() error) (runtimehelper.Value, error) {
	c.mu.Lock()
	c.waitingForEval = true
	c.evalComplete = false
	c.evalException = false
	c.evalTimedOut = false
	c.callbackMayContinue = true
	c.cond.Broadcast()
	c.mu.Unlock()

	if trigger != nil {
		if err := trigger(); err != nil {
			c.mu.Lock()
			c.waitingForEval = false
			c.mu.Unlock()
			return nil, err
		}
	}

	timer := time.AfterFunc(c.timeout, func() {
		c.mu.Lock()
		c.evalTimedOut = true
		c.mu.Unlock()
		c.cond.Broadcast()
	})
	defer timer.Stop()

	c.mu.Lock()
	for !c.evalComplete && !c.evalException && !c.evalTimedOut {
		c.cond.Wait()
	}
	c.waitingForEval = false
	defer c.mu.Unlock()

	switch {
	case c.evalTimedOut:
		return nil, dbgerr.New(dbgerr.KindEvalNotComplete, "coordinator.WaitForEval",
			"evaluation did not complete within the configured timeout")
	case c.evalException:
		return nil, dbgerr.Wrap(dbgerr.KindEvalException, "coordinator.WaitForEval", c.evalErr)
	default:
		return c.evalResult, nil
	}
}

/*
EvalComplete is called by the callback route when the runtime reports
an evaluation finished successfully.
*/
func (c *Coordinator) EvalComplete(result runtimehelper.Value) {
	c.mu.Lock()
	c.evalResult = result
	c.evalComplete = true
	c.cond.Broadcast()
	c.mu.Unlock()
}

/*
EvalException is called by the callback route when the runtime reports
an evaluation raised an exception, or any other Exception event fires
while waiting for one.
*/
func (c *Coordinator) EvalException(err error) {
	c.mu.Lock()
	c.evalErr = err
	c.evalException = true
	c.cond.Broadcast()
	c.mu.Unlock()
}

/*
SignalFinishedPrintingVariable is called once by the capture task when
it finishes (successfully or not): it clears the static-field cache,
records the task's outcome, and releases the callback thread blocked
in ProcessBreakpoints.
*/
func (c *Coordinator) SignalFinishedPrintingVariable(err error) {
	c.staticMu.Lock()
	c.staticCache = nil
	c.staticMu.Unlock()

	c.mu.Lock()
	c.pendingCaptureErr = err
	c.readyToCapture = false
	c.callbackMayContinue = true
	atomic.AddInt64(&c.staticCacheClears, 1)
	c.cond.Broadcast()
	c.mu.Unlock()
}

/*
InvokeGetter implements value.PropertyEvaluator: it routes a property
getter call through WaitForEval, so a getter invoked while rendering a
snapshot value follows the exact same suspend/resume handshake as any
other evaluation. A static getter (this == nil, the convention the
frame/value rendering paths already use for static member access) is
additionally served from the process-wide static cache of spec.md §3:
the first capture of a given (module, getter) pair within a snapshot
evaluates it for real, every repeated capture of the same static member
before the snapshot completes reuses that result instead of
re-evaluating it.
*/
func (c *Coordinator) InvokeGetter(getterToken uint32, this runtimehelper.Value, owner runtimehelper.Module) (runtimehelper.Value, error) {
	if this != nil {
		return c.WaitForEval(func() error {
			return c.requester.RequestEval(getterToken, this, owner, nil)
		})
	}

	key := staticCacheKey{module: runtimehelper.ModuleShortName(owner), token: getterToken}

	c.staticMu.Lock()
	if v, ok := c.staticCache[key]; ok {
		c.staticMu.Unlock()
		return v, nil
	}
	c.staticMu.Unlock()

	v, err := c.WaitForEval(func() error {
		return c.requester.RequestEval(getterToken, this, owner, nil)
	})
	if err != nil {
		return nil, err
	}

	c.staticMu.Lock()
	if c.staticCache == nil {
		c.staticCache = make(map[staticCacheKey]runtimehelper.Value)
	}
	c.staticCache[key] = v
	c.staticMu.Unlock()

	return v, nil
}

/*
InvokeMethod implements value.PropertyEvaluator: it routes a method
call through WaitForEval exactly like InvokeGetter, but never consults
or populates the static cache - a method call can have side effects and
different calls with the same token may carry different arguments, so
nothing about it is safe to dedup across repeated captures.
*/
func (c *Coordinator) InvokeMethod(methodToken uint32, this runtimehelper.Value, owner runtimehelper.Module, args []runtimehelper.Value) (runtimehelper.Value, error) {
	return c.WaitForEval(func() error {
		return c.requester.RequestEval(methodToken, this, owner, args)
	})
}
