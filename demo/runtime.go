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
Package demo is a self-contained stand-in for a live CLR target: one
static method with a single incrementing local, driven by a ticker
instead of a real debuggee. It exists because serve/console need
something to drive end-to-end without ICorDebug interop (genuinely out
of scope for an idiomatic Go core - see SPEC_FULL.md §6.2), the same
role symbols.MemoryStore plays for symbol data. Every collaborator
interface the core defines (breakpoint.Armer, snapshot.StackWalker/
RawFrame, coordinator.EvalRequester, callback.ModuleLoader,
value.ClassDescriptorResolver, runtimehelper.StrongHandleCreator) is
implemented here exactly once, in the narrowest way that satisfies it.
*/
package demo

import (
	"context"
	"sync"
	"time"

	"github.com/clruntim/coredbg/breakpoint"
	"github.com/clruntim/coredbg/callback"
	"github.com/clruntim/coredbg/dbgerr"
	"github.com/clruntim/coredbg/frame"
	"github.com/clruntim/coredbg/runtimehelper"
	"github.com/clruntim/coredbg/snapshot"
	"github.com/clruntim/coredbg/symbols"
	"github.com/clruntim/coredbg/value"
)

/*
MethodToken identifies the demo's one method, Program.Main, in the
symbols fixture DefaultSymbols builds.
*/
const MethodToken uint32 = 1

/*
DefaultPath and DefaultLine are where the demo's one breakpointable
statement lives.
*/
const (
	DefaultPath = "/demo/Program.cs"
	DefaultLine = 5
)

/*
DefaultSymbols returns a symbols.MemoryStore describing the demo
method: one document, one method, one sequence point at DefaultLine,
one local ("counter").
*/
func DefaultSymbols() *symbols.MemoryStore {
	store := symbols.NewMemoryStore()
	store.Add(&symbols.Document{
		Path: DefaultPath,
		Methods: []*symbols.MethodDebugInfo{{
			Token:     MethodToken,
			FirstLine: 1,
			LastLine:  20,
			Points: []symbols.SequencePoint{
				{ILOffset: 0, StartLine: DefaultLine},
			},
			Slots: []frame.LocalVariable{{Slot: 0, Name: "counter"}},
		}},
	})
	return store
}

/*
Thread is the demo's Continuer: there is no real debuggee thread to
resume, so Continue does nothing and returns nil.
*/
type Thread struct{}

func (Thread) Continue(outOfBand bool) error { return nil }

/*
Handle is the demo's callback.BreakpointHandle / breakpoint.
RuntimeBreakpoint: one armed location, identified by method token and
IL offset, toggled active/inactive by the breakpoint registry.
*/
type Handle struct {
	token  uint32
	offset int
	active bool
}

func (h *Handle) MethodToken() uint32 { return h.token }
func (h *Handle) ILOffset() int       { return h.offset }

func (h *Handle) SetActive(active bool) error {
	h.active = active
	return nil
}

/*
Runtime is the demo debuggee: a module, a method, and one local whose
value increments every tick. Walk, Arm, and RequestEval are all safe
for concurrent use; Drive is the only goroutine that mutates
counter.
*/
type Runtime struct {
	mu      sync.Mutex
	counter int64
	armed   map[int]*Handle
}

/*
New creates an idle Runtime with no armed breakpoints.
*/
func New() *Runtime {
	return &Runtime{armed: make(map[int]*Handle)}
}

/*
Arm implements breakpoint.Armer. The demo has exactly one method, so
any resolved location arms the same counter-reading breakpoint; ilOffset
still distinguishes handles the way a real method with several sequence
points would.
*/
func (r *Runtime) Arm(method *symbols.MethodDebugInfo, ilOffset int) (breakpoint.RuntimeBreakpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := &Handle{token: method.Token, offset: ilOffset, active: true}
	r.armed[ilOffset] = h
	return h, nil
}

/*
Walk implements snapshot.StackWalker: the demo stack is always exactly
one static frame deep.
*/
func (r *Runtime) Walk() ([]snapshot.RawFrame, error) {
	r.mu.Lock()
	v := &Value{i: r.counter}
	r.mu.Unlock()

	return []snapshot.RawFrame{&RawFrame{il: &ilFrame{counter: v}}}, nil
}

/*
RequestEval implements coordinator.EvalRequester. The demo frame has no
properties or methods to evaluate, so any getter or method invocation
fails immediately - there is nothing for WaitForEval to wait on.
*/
func (r *Runtime) RequestEval(token uint32, this runtimehelper.Value, owner runtimehelper.Module, args []runtimehelper.Value) error {
	return dbgerr.New(dbgerr.KindNotImplemented, "demo.RequestEval", "the demo program has no properties or methods")
}

/*
LoadModule implements callback.ModuleLoader. The demo never loads
modules at runtime - its one document is seeded up front by
DefaultSymbols - so this is a no-op.
*/
func (r *Runtime) LoadModule(module runtimehelper.Module) error { return nil }

/*
CreateStrongHandle implements runtimehelper.StrongHandleCreator. The
demo's values are plain Go structs with no lifetime tied to a real
debuggee continuing, so a strong handle is just the value itself.
*/
func (r *Runtime) CreateStrongHandle(v runtimehelper.Value) (runtimehelper.Value, error) {
	return v, nil
}

/*
emptyMembers implements frame.ClassMembers with no fields and no
properties, for a method (like the demo's) with no enclosing class
state beyond its locals.
*/
type emptyMembers struct{}

func (emptyMembers) FieldByName(string) (runtimehelper.Value, bool) { return nil, false }
func (emptyMembers) IsFieldStatic(string) bool                      { return false }
func (emptyMembers) PropertyGetterByName(string) (uint32, bool)     { return 0, false }
func (emptyMembers) IsPropertyStatic(string) bool                   { return false }

/*
ClassMembers implements snapshot.ClassMembersResolver: the demo method
is static with no enclosing instance state, so every frame resolves to
the same empty member set.
*/
func (r *Runtime) ClassMembers(f *frame.Frame) (frame.ClassMembers, error) {
	return emptyMembers{}, nil
}

/*
Describe implements value.ClassDescriptorResolver. The demo program has
no classes - every local is a bare int32 - so this always fails; it
exists so the demo can be plugged in wherever a resolver is required
without the caller special-casing a nil resolver.
*/
func (r *Runtime) Describe(module runtimehelper.Module, token uint32) (value.ClassDescriptor, error) {
	return nil, dbgerr.New(dbgerr.KindNotFound, "demo.Describe", "the demo program has no classes")
}

/*
Drive ticks the demo program forward once per interval: increments the
counter and reports a hit on every breakpoint currently armed and
active, the same way a real loop body repeatedly passing through an
instrumented line would. It returns when ctx is done.
*/
func (r *Runtime) Drive(ctx context.Context, cb *callback.Callback, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.mu.Lock()
			r.counter++
			var hits []*Handle
			for _, h := range r.armed {
				if h.active {
					hits = append(hits, h)
				}
			}
			r.mu.Unlock()

			for _, h := range hits {
				_ = cb.Breakpoint(Thread{}, h)
			}
		}
	}
}
