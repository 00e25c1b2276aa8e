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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clruntim/coredbg/breakpoint"
	"github.com/clruntim/coredbg/dbglog"
	"github.com/clruntim/coredbg/runtimehelper"
)

type fakeContinuer struct {
	outOfBand []bool
}

func (c *fakeContinuer) Continue(outOfBand bool) error {
	c.outOfBand = append(c.outOfBand, outOfBand)
	return nil
}

type fakeHandle struct {
	token  uint32
	offset int
}

func (h *fakeHandle) MethodToken() uint32 { return h.token }
func (h *fakeHandle) ILOffset() int       { return h.offset }

type fakeRegistry struct {
	calls        int
	lastTok      uint32
	lastOff      int
	err          error
	resolveCalls int
}

func (r *fakeRegistry) EvaluateAndPrintBreakpoint(methodToken uint32, ilOffset int, handler breakpoint.Handler) error {
	r.calls++
	r.lastTok = methodToken
	r.lastOff = ilOffset
	return r.err
}

func (r *fakeRegistry) ResolveUnresolved() {
	r.resolveCalls++
}

type fakeEval struct {
	waiting       bool
	completeCalls int
	exceptionErr  error
}

func (e *fakeEval) WaitingForEval() bool                         { return e.waiting }
func (e *fakeEval) EvalComplete(result runtimehelper.Value)      { e.completeCalls++ }
func (e *fakeEval) EvalException(err error)                      { e.exceptionErr = err }

type fakeModuleLoader struct {
	loaded int
	err    error
}

func (m *fakeModuleLoader) LoadModule(module runtimehelper.Module) error {
	m.loaded++
	return m.err
}

func TestBreakpointDelegatesToRegistryAndContinues(t *testing.T) {
	reg := &fakeRegistry{}
	eval := &fakeEval{}
	cb := New(reg, eval, nil, nil, dbglog.NewNullLogger())

	thread := &fakeContinuer{}
	err := cb.Breakpoint(thread, &fakeHandle{token: 5, offset: 12})

	require.NoError(t, err)
	assert.Equal(t, 1, reg.calls)
	assert.Equal(t, uint32(5), reg.lastTok)
	assert.Equal(t, 12, reg.lastOff)
	assert.Equal(t, []bool{false}, thread.outOfBand)
}

func TestBreakpointIgnoredWhileWaitingForEval(t *testing.T) {
	reg := &fakeRegistry{}
	eval := &fakeEval{waiting: true}
	cb := New(reg, eval, nil, nil, dbglog.NewNullLogger())

	thread := &fakeContinuer{}
	err := cb.Breakpoint(thread, &fakeHandle{token: 5, offset: 12})

	require.NoError(t, err)
	assert.Equal(t, 0, reg.calls, "must not recurse into the registry while an eval is already in flight")
	assert.Equal(t, []bool{false}, thread.outOfBand, "must still continue the debuggee")
}

func TestEvalCompleteSignalsCoordinatorAndContinues(t *testing.T) {
	eval := &fakeEval{}
	cb := New(&fakeRegistry{}, eval, nil, nil, dbglog.NewNullLogger())

	thread := &fakeContinuer{}
	require.NoError(t, cb.EvalComplete(thread, nil))
	assert.Equal(t, 1, eval.completeCalls)
	assert.Equal(t, []bool{false}, thread.outOfBand)
}

func TestExceptionSignalsCoordinatorAndContinues(t *testing.T) {
	eval := &fakeEval{}
	cb := New(&fakeRegistry{}, eval, nil, nil, dbglog.NewNullLogger())

	thread := &fakeContinuer{}
	wantErr := errors.New("boom")
	require.NoError(t, cb.Exception(thread, wantErr))
	assert.Equal(t, wantErr, eval.exceptionErr)
}

func TestLoadModuleIngestsSymbols(t *testing.T) {
	modules := &fakeModuleLoader{}
	reg := &fakeRegistry{}
	cb := New(reg, &fakeEval{}, nil, modules, dbglog.NewNullLogger())

	thread := &fakeContinuer{}
	require.NoError(t, cb.LoadModule(thread, nil))
	assert.Equal(t, 1, modules.loaded)
	assert.Equal(t, []bool{false}, thread.outOfBand)
}

func TestLoadModuleRetriesUnresolvedBreakpoints(t *testing.T) {
	modules := &fakeModuleLoader{}
	reg := &fakeRegistry{}
	cb := New(reg, &fakeEval{}, nil, modules, dbglog.NewNullLogger())

	thread := &fakeContinuer{}
	require.NoError(t, cb.LoadModule(thread, nil))
	assert.Equal(t, 1, reg.resolveCalls, "a successful symbol load must retry breakpoints left unresolved")
}

func TestLoadModuleLogsButDoesNotFailOnBadSymbols(t *testing.T) {
	modules := &fakeModuleLoader{err: errors.New("bad pdb")}
	reg := &fakeRegistry{}
	cb := New(reg, &fakeEval{}, nil, modules, dbglog.NewNullLogger())

	thread := &fakeContinuer{}
	require.NoError(t, cb.LoadModule(thread, nil))
	assert.Equal(t, []bool{false}, thread.outOfBand)
	assert.Equal(t, 0, reg.resolveCalls, "a failed symbol load has nothing new to retry resolution against")
}

func TestStubEventContinuesOutOfBand(t *testing.T) {
	cb := New(&fakeRegistry{}, &fakeEval{}, nil, nil, dbglog.NewNullLogger())
	thread := &fakeContinuer{}
	require.NoError(t, cb.StubEvent(thread))
	assert.Equal(t, []bool{true}, thread.outOfBand)
}

func TestRefCounting(t *testing.T) {
	cb := New(&fakeRegistry{}, &fakeEval{}, nil, nil, dbglog.NewNullLogger())
	assert.Equal(t, int32(1), cb.AddRef())
	assert.Equal(t, int32(2), cb.AddRef())
	assert.Equal(t, int32(1), cb.Release())
	assert.Equal(t, int32(1), cb.RefCount())
}

func TestQueryInterfaceKnownAndUnknown(t *testing.T) {
	cb := New(&fakeRegistry{}, &fakeEval{}, nil, nil, dbglog.NewNullLogger())
	assert.True(t, cb.QueryInterface("ICorDebugManagedCallback"))
	assert.False(t, cb.QueryInterface("ICorDebugUnrelatedInterface"))
}
