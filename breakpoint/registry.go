/*
 * coredbg
 *
 * Copyright 2024 The coredbg authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package breakpoint

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/krotik/common/errorutil"

	"github.com/clruntim/coredbg/dbgerr"
	"github.com/clruntim/coredbg/symbols"
	"github.com/clruntim/coredbg/transport"
	"github.com/clruntim/coredbg/wire"
)

/*
Registry is the mutex-guarded collection of breakpoints. Matches are
copied out under the lock, then acted on lock-free - the same shape
the rule engine this core was grown out of used for rule dispatch.
*/
type Registry struct {
	mu    sync.RWMutex
	store symbols.SymbolStore
	armer Armer

	breakpoints []*Breakpoint
}

/*
NewRegistry creates an empty registry resolving requests against store
and arming fresh breakpoints through armer.
*/
func NewRegistry(store symbols.SymbolStore, armer Armer) *Registry {
	return &Registry{store: store, armer: armer}
}

func normalizedPath(path string) string {
	return strings.ToLower(strings.ReplaceAll(path, "\\", "/"))
}

func (r *Registry) findByID(id string) *Breakpoint {
	for _, bp := range r.breakpoints {
		if bp.ID == id {
			return bp
		}
	}
	return nil
}

func (r *Registry) findByLocation(path string, line int) *Breakpoint {
	np := normalizedPath(path)
	for _, bp := range r.breakpoints {
		if normalizedPath(bp.Path) == np && bp.Line == line {
			return bp
		}
	}
	return nil
}

func (r *Registry) armedAt(resolved *symbols.ResolvedLocation) int {
	n := 0
	for _, bp := range r.breakpoints {
		if bp.Runtime != nil && bp.Resolved != nil &&
			bp.Resolved.Method.Token == resolved.Method.Token &&
			bp.Resolved.ILOffset == resolved.ILOffset {
			n++
		}
	}
	return n
}

/*
UpdateBreakpoint is the registry's only mutator. See spec §4.5 for the
lookup-by-id / reuse-by-location / resolve-and-arm decision tree.
*/
func (r *Registry) UpdateBreakpoint(req *wire.BreakpointRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if bp := r.findByID(req.ID); bp != nil {
		bp.Condition = req.Condition
		bp.Expressions = req.Expressions
		bp.LogPoint = req.LogPoint
		bp.LogLevel = req.LogLevel
		bp.LogMessageFormat = req.LogMessageFormat

		if bp.Active != req.Activated {
			bp.Active = req.Activated
			if bp.Runtime != nil {
				if err := bp.Runtime.SetActive(bp.Active); err != nil {
					return dbgerr.Wrap(dbgerr.KindIoError, "breakpoint.UpdateBreakpoint", err)
				}
			}
		}
		return nil
	}

	if !req.Activated {
		return nil
	}

	nb := &Breakpoint{
		ID:               req.ID,
		Path:             req.Location.Path,
		Line:             req.Location.Line,
		Active:           true,
		Condition:        req.Condition,
		Expressions:      req.Expressions,
		LogPoint:         req.LogPoint,
		LogLevel:         req.LogLevel,
		LogMessageFormat: req.LogMessageFormat,
	}

	if existing := r.findByLocation(req.Location.Path, req.Location.Line); existing != nil {
		nb.Resolved = existing.Resolved
		nb.Runtime = existing.Runtime
		r.breakpoints = append(r.breakpoints, nb)
		return nil
	}

	// A resolution failure leaves nb unarmed but tracked - it is still
	// appended below, and a later module load may resolve it via
	// ResolveUnresolved.
	err := r.resolveAndArm(nb)
	r.breakpoints = append(r.breakpoints, nb)
	return err
}

/*
resolveAndArm resolves nb's (path, line) against the symbol store and,
on success, arms and activates a runtime handle for it. nb.Resolved and
nb.Runtime are left nil on failure so the caller can keep nb tracked
for a later retry.
*/
func (r *Registry) resolveAndArm(nb *Breakpoint) error {
	resolved, err := symbols.Resolve(r.store, nb.Path, nb.Line)
	if err != nil {
		return err
	}

	errorutil.AssertTrue(r.armedAt(resolved) == 0,
		"at most one armed handle per resolved location")

	rt, err := r.armer.Arm(resolved.Method, resolved.ILOffset)
	if err != nil {
		return err
	}
	if err := rt.SetActive(true); err != nil {
		return dbgerr.Wrap(dbgerr.KindIoError, "breakpoint.resolveAndArm", err)
	}

	nb.Resolved = resolved
	nb.Runtime = rt
	return nil
}

/*
ResolveUnresolved retries resolution for every tracked breakpoint that
is active but was never armed - typically called after a module load
makes new symbols available. Breakpoints that still fail to resolve
stay tracked for a later retry.
*/
func (r *Registry) ResolveUnresolved() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, bp := range r.breakpoints {
		if bp.Active && bp.Resolved == nil {
			_ = r.resolveAndArm(bp)
		}
	}
}

/*
SyncBreakpoints blocks reading breakpoint requests off t, applying each
via UpdateBreakpoint, until a kill_server request arrives or the
transport itself fails (the peer closed the pipe, or sent a malformed
message). A single bad or prematurely-unresolvable breakpoint request
must not terminate the whole debug session, so UpdateBreakpoint's own
error is not propagated - the request is still tracked (see
UpdateBreakpoint / ResolveUnresolved), only not yet armed.
*/
func (r *Registry) SyncBreakpoints(t transport.Transport) error {
	for {
		line, err := t.Read()
		if err != nil {
			return err
		}

		req, err := wire.DecodeBreakpointRequest(line)
		if err != nil {
			return err
		}

		_ = r.UpdateBreakpoint(req)

		if req.KillServer {
			return nil
		}
	}
}

/*
EvaluateAndPrintBreakpoint selects, under the lock, every active
breakpoint resolved to (methodToken, ilOffset); outside the lock it
hands the matched list to handler. Returns immediately, doing nothing,
if nothing matched.
*/
func (r *Registry) EvaluateAndPrintBreakpoint(methodToken uint32, ilOffset int, handler Handler) error {
	r.mu.RLock()
	var hits []*Breakpoint
	for _, bp := range r.breakpoints {
		if bp.Active && bp.Resolved != nil &&
			bp.Resolved.Method.Token == methodToken &&
			bp.Resolved.ILOffset == ilOffset {
			atomic.AddInt64(&bp.HitCount, 1)
			hits = append(hits, bp)
		}
	}
	r.mu.RUnlock()

	if len(hits) == 0 {
		return nil
	}
	return handler.HandleBreakpointHit(hits)
}
