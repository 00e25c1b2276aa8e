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
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/clruntim/coredbg/breakpoint"
	"github.com/clruntim/coredbg/callback"
	"github.com/clruntim/coredbg/coordinator"
	"github.com/clruntim/coredbg/dbgconfig"
	"github.com/clruntim/coredbg/dbglog"
	"github.com/clruntim/coredbg/demo"
	"github.com/clruntim/coredbg/snapshot"
	"github.com/clruntim/coredbg/symbols"
	"github.com/clruntim/coredbg/transport"
)

var serveDemo bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the debugger agent, listening for breakpoint requests on its pipe",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runServe(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveDemo, "demo", false, "drive a simulated demo program instead of a live runtime target")
}

func newLogger(cfg *dbgconfig.Config) dbglog.Logger {
	log := dbglog.NewSlogLogger(os.Stderr, 256)
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Str(dbgconfig.KeyLogLevel))); err == nil {
		log.SetLevel(level)
	}
	return log
}

func loadSymbols(cfg *dbgconfig.Config) (*symbols.MemoryStore, error) {
	if fixture := cfg.Str(dbgconfig.KeySymbolsFixture); fixture != "" {
		f, err := os.Open(fixture)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		store := symbols.NewMemoryStore()
		if err := store.LoadJSON(f); err != nil {
			return nil, err
		}
		return store, nil
	}
	return demo.DefaultSymbols(), nil
}

/*
coordinatingHandler is the adapter callback.New's handler parameter
expects: it wraps the eval coordinator's suspend/resume handshake
around the actual capture-and-emit work, so a getter invoked while
assembling a snapshot follows the same ProcessBreakpoints/WaitForEval
protocol as any other evaluation.
*/
type coordinatingHandler struct {
	coord     *coordinator.Coordinator
	assembler *snapshot.Assembler
	transport transport.Transport
	threadID  uint64
	log       dbglog.Logger
}

func (h *coordinatingHandler) HandleBreakpointHit(hits []*breakpoint.Breakpoint) error {
	for _, bp := range hits {
		h.log.LogDebug("breakpoint hit, correlation_id=", bp.ID)
	}

	return h.coord.ProcessBreakpoints(context.Background(), h.threadID, func(*coordinator.Coordinator) error {
		snaps, err := h.assembler.Assemble(hits)
		if err != nil {
			h.log.LogError("cli.HandleBreakpointHit", "AssembleFailed", err)
			return err
		}
		if err := snapshot.Emit(h.transport, snaps); err != nil {
			h.log.LogError("cli.HandleBreakpointHit", "EmitFailed", err)
			return err
		}
		h.log.LogDebug("static cache clears so far: ", h.coord.StaticCacheClears())
		return nil
	})
}

func runServe(ctx context.Context, cfg *dbgconfig.Config) error {
	log := newLogger(cfg)

	store, err := loadSymbols(cfg)
	if err != nil {
		return err
	}

	rt := demo.New()
	registry := breakpoint.NewRegistry(store, rt)
	coord := coordinator.New(rt, cfg.Duration(dbgconfig.KeyEvalTimeout))
	assembler := snapshot.New(rt, rt, rt, coord, rt,
		cfg.Int(dbgconfig.KeyCaptureMaxDepth), cfg.Int(dbgconfig.KeyCaptureByteBudget),
		cfg.Bool(dbgconfig.KeyAllowMethodInCondition))

	listener, err := transport.Listen(cfg.Str(dbgconfig.KeyPipePath))
	if err != nil {
		return err
	}
	defer listener.Close()

	log.LogInfo("listening on ", cfg.Str(dbgconfig.KeyPipePath))
	conn, err := listener.Accept()
	if err != nil {
		return err
	}
	defer conn.Close()

	handler := &coordinatingHandler{coord: coord, assembler: assembler, transport: conn, threadID: 1, log: log}
	cb := callback.New(registry, coord, handler, rt, log)

	syncErr := make(chan error, 1)
	go func() { syncErr <- registry.SyncBreakpoints(conn) }()

	driveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if serveDemo {
		go rt.Drive(driveCtx, cb, 250*time.Millisecond)
	}

	return <-syncErr
}
