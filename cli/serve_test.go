/*
 * coredbg
 *
 * Copyright 2024 The coredbg authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clruntim/coredbg/breakpoint"
	"github.com/clruntim/coredbg/coordinator"
	"github.com/clruntim/coredbg/dbgconfig"
	"github.com/clruntim/coredbg/demo"
	"github.com/clruntim/coredbg/snapshot"
	"github.com/clruntim/coredbg/symbols"
	"github.com/clruntim/coredbg/transport"
	"github.com/clruntim/coredbg/wire"
)

func TestServeEmitsSnapshotForArmedBreakpoint(t *testing.T) {
	pipe := filepath.Join(t.TempDir(), "coredbg.sock")

	cfg := dbgconfig.New()
	cfg.Set(dbgconfig.KeyPipePath, pipe)

	serveDemo = true
	defer func() { serveDemo = false }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveErr := make(chan error, 1)
	go func() { serveErr <- runServe(ctx, cfg) }()

	var conn transport.Transport
	require.Eventually(t, func() bool {
		c, err := transport.Dial(pipe)
		if err != nil {
			return false
		}
		conn = c
		return true
	}, time.Second, 10*time.Millisecond)
	defer conn.Close()

	req := &wire.BreakpointRequest{
		ID:        "bp1",
		Location:  wire.Location{Path: demo.DefaultPath, Line: demo.DefaultLine},
		Activated: true,
	}
	line, err := wire.EncodeBreakpointRequest(req)
	require.NoError(t, err)
	require.NoError(t, conn.Write(line))

	raw, err := conn.Read()
	require.NoError(t, err)

	snap, err := wire.DecodeSnapshot(raw)
	require.NoError(t, err)
	require.Equal(t, "bp1", snap.ID)
	require.Equal(t, demo.DefaultPath, snap.Location.Path)
	require.NotZero(t, snap.Sequence, "every snapshot must carry a stamped sequence number")
}

type recordingLogger struct {
	debugs []string
}

func (l *recordingLogger) LogError(op string, kind string, m ...interface{}) {}
func (l *recordingLogger) LogInfo(m ...interface{})                         {}
func (l *recordingLogger) LogDebug(m ...interface{}) {
	l.debugs = append(l.debugs, fmt.Sprint(m...))
}

type discardTransport struct{}

func (discardTransport) Read() ([]byte, error) { return nil, nil }
func (discardTransport) Write([]byte) error    { return nil }
func (discardTransport) Close() error          { return nil }

func TestHandleBreakpointHitLogsCorrelationID(t *testing.T) {
	rt := demo.New()

	log := &recordingLogger{}
	coord := coordinator.New(rt, time.Second)
	assembler := snapshot.New(rt, rt, rt, coord, rt, 10, 65536, false)
	handler := &coordinatingHandler{coord: coord, assembler: assembler, transport: discardTransport{}, threadID: 1, log: log}

	hits := []*breakpoint.Breakpoint{{
		ID:       "bp1",
		Path:     demo.DefaultPath,
		Active:   true,
		Resolved: &symbols.ResolvedLocation{EffectiveLine: demo.DefaultLine},
	}}

	require.NoError(t, handler.HandleBreakpointHit(hits))

	found := false
	for _, d := range log.debugs {
		if d == "breakpoint hit, correlation_id=bp1" {
			found = true
		}
	}
	assert.True(t, found, "expected a correlation_id log line for bp1, got %v", log.debugs)
}
