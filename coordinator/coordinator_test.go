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
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clruntim/coredbg/dbgerr"
	"github.com/clruntim/coredbg/runtimehelper"
)

type fakeValue struct{ n int64 }

func (v *fakeValue) ElementType() runtimehelper.ElementType   { return runtimehelper.ElementI4 }
func (v *fakeValue) IsReference() bool                        { return false }
func (v *fakeValue) IsNull() bool                              { return false }
func (v *fakeValue) Dereference() (runtimehelper.Value, bool, error) { return nil, false, nil }
func (v *fakeValue) Unbox() (runtimehelper.Value, error)       { return v, nil }
func (v *fakeValue) ClassInfo() (runtimehelper.Module, uint32, bool) { return nil, 0, false }
func (v *fakeValue) Signature() []byte                         { return nil }

type fakeRequester struct {
	reply    runtimehelper.Value
	replyErr error
	delay    time.Duration
	never    bool
	coord    *Coordinator
	calls    int32
}

func (r *fakeRequester) RequestEval(getterToken uint32, this runtimehelper.Value, owner runtimehelper.Module, args []runtimehelper.Value) error {
	atomic.AddInt32(&r.calls, 1)
	if r.never {
		return nil
	}
	go func() {
		if r.delay > 0 {
			time.Sleep(r.delay)
		}
		if r.replyErr != nil {
			r.coord.EvalException(r.replyErr)
			return
		}
		r.coord.EvalComplete(r.reply)
	}()
	return nil
}

func TestProcessBreakpointsRunsCaptureAndReturns(t *testing.T) {
	c := New(&fakeRequester{}, time.Second)

	ran := false
	err := c.ProcessBreakpoints(context.Background(), 1, func(c *Coordinator) error {
		ran = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
}

func TestProcessBreakpointsPropagatesCaptureError(t *testing.T) {
	c := New(&fakeRequester{}, time.Second)

	wantErr := errors.New("boom")
	err := c.ProcessBreakpoints(context.Background(), 1, func(c *Coordinator) error {
		return wantErr
	})

	assert.Equal(t, wantErr, err)
}

func TestWaitForEvalReturnsRequesterResult(t *testing.T) {
	req := &fakeRequester{reply: &fakeValue{n: 42}}
	c := New(req, time.Second)
	req.coord = c

	var got runtimehelper.Value
	err := c.ProcessBreakpoints(context.Background(), 1, func(c *Coordinator) error {
		v, err := c.WaitForEval(func() error { return req.RequestEval(1, nil, nil, nil) })
		got = v
		return err
	})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.(*fakeValue).n)
}

func TestWaitForEvalSurfacesException(t *testing.T) {
	req := &fakeRequester{replyErr: errors.New("getter threw")}
	c := New(req, time.Second)
	req.coord = c

	err := c.ProcessBreakpoints(context.Background(), 1, func(c *Coordinator) error {
		_, err := c.WaitForEval(func() error { return req.RequestEval(1, nil, nil, nil) })
		return err
	})

	require.Error(t, err)
	assert.True(t, dbgerr.Is(err, dbgerr.KindEvalException))
}

func TestWaitForEvalTimesOut(t *testing.T) {
	req := &fakeRequester{never: true}
	c := New(req, 20*time.Millisecond)
	req.coord = c

	err := c.ProcessBreakpoints(context.Background(), 1, func(c *Coordinator) error {
		_, err := c.WaitForEval(func() error { return req.RequestEval(1, nil, nil, nil) })
		return err
	})

	require.Error(t, err)
	assert.True(t, dbgerr.Is(err, dbgerr.KindEvalNotComplete))
}

func TestWaitingForEvalReflectsCaptureState(t *testing.T) {
	req := &fakeRequester{reply: &fakeValue{n: 1}}
	c := New(req, time.Second)
	req.coord = c

	seenDuringEval := make(chan bool, 1)
	err := c.ProcessBreakpoints(context.Background(), 1, func(c *Coordinator) error {
		_, err := c.WaitForEval(func() error {
			seenDuringEval <- c.WaitingForEval()
			return req.RequestEval(1, nil, nil, nil)
		})
		return err
	})

	require.NoError(t, err)
	assert.True(t, <-seenDuringEval)
	assert.False(t, c.WaitingForEval())
}

func TestInvokeGetterRoutesThroughWaitForEval(t *testing.T) {
	req := &fakeRequester{reply: &fakeValue{n: 7}}
	c := New(req, time.Second)
	req.coord = c

	var got runtimehelper.Value
	err := c.ProcessBreakpoints(context.Background(), 1, func(c *Coordinator) error {
		v, err := c.InvokeGetter(1, nil, nil)
		got = v
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), got.(*fakeValue).n)
}

func TestStaticCacheClearsIncrementsPerCapture(t *testing.T) {
	c := New(&fakeRequester{}, time.Second)

	for i := 0; i < 3; i++ {
		require.NoError(t, c.ProcessBreakpoints(context.Background(), 1, func(c *Coordinator) error {
			return nil
		}))
	}

	assert.Equal(t, int64(3), c.StaticCacheClears())
}

func TestInvokeGetterCachesStaticMemberWithinOneCapture(t *testing.T) {
	req := &fakeRequester{reply: &fakeValue{n: 9}}
	c := New(req, time.Second)
	req.coord = c

	var first, second runtimehelper.Value
	err := c.ProcessBreakpoints(context.Background(), 1, func(c *Coordinator) error {
		v1, err := c.InvokeGetter(1, nil, nil)
		if err != nil {
			return err
		}
		v2, err := c.InvokeGetter(1, nil, nil)
		first, second = v1, v2
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&req.calls), "second static capture of the same member must come from the cache")
	assert.Same(t, first, second)
}

func TestInvokeGetterCacheClearsBetweenCaptures(t *testing.T) {
	req := &fakeRequester{reply: &fakeValue{n: 9}}
	c := New(req, time.Second)
	req.coord = c

	for i := 0; i < 2; i++ {
		err := c.ProcessBreakpoints(context.Background(), 1, func(c *Coordinator) error {
			_, err := c.InvokeGetter(1, nil, nil)
			return err
		})
		require.NoError(t, err)
	}

	assert.Equal(t, int32(2), atomic.LoadInt32(&req.calls), "a new capture must not reuse the previous capture's cache")
}

func TestInvokeGetterDoesNotCacheNonStaticGetter(t *testing.T) {
	req := &fakeRequester{reply: &fakeValue{n: 9}}
	c := New(req, time.Second)
	req.coord = c

	err := c.ProcessBreakpoints(context.Background(), 1, func(c *Coordinator) error {
		if _, err := c.InvokeGetter(1, &fakeValue{n: 1}, nil); err != nil {
			return err
		}
		_, err := c.InvokeGetter(1, &fakeValue{n: 1}, nil)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&req.calls), "an instance getter must never be served from the static cache")
}

func TestInvokeMethodNeverCaches(t *testing.T) {
	req := &fakeRequester{reply: &fakeValue{n: 3}}
	c := New(req, time.Second)
	req.coord = c

	err := c.ProcessBreakpoints(context.Background(), 1, func(c *Coordinator) error {
		if _, err := c.InvokeMethod(1, nil, nil, []runtimehelper.Value{&fakeValue{n: 1}}); err != nil {
			return err
		}
		_, err := c.InvokeMethod(1, nil, nil, []runtimehelper.Value{&fakeValue{n: 2}})
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&req.calls), "a method call must always hit the requester, never the static cache")
}
