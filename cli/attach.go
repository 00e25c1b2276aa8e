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
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clruntim/coredbg/cli/console"
	"github.com/clruntim/coredbg/dbgconfig"
	"github.com/clruntim/coredbg/transport"
	"github.com/clruntim/coredbg/wire"
)

var attachBreakpoints []string

var attachCmd = &cobra.Command{
	Use:   "attach",
	Short: "Connect to a running agent, arm breakpoints, and print snapshots as they arrive",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runAttach(cfg)
	},
}

func init() {
	attachCmd.Flags().StringArrayVar(&attachBreakpoints, "break", nil, "path:line of a breakpoint to set (repeatable)")
}

/*
parseBreakLocation splits a "path:line" flag value the way the
teacher's tool flags parse colon-separated positional arguments.
*/
func parseBreakLocation(spec string) (wire.Location, error) {
	idx := strings.LastIndex(spec, ":")
	if idx <= 0 {
		return wire.Location{}, fmt.Errorf("invalid breakpoint location %q, want path:line", spec)
	}
	line, err := strconv.Atoi(spec[idx+1:])
	if err != nil {
		return wire.Location{}, fmt.Errorf("invalid breakpoint location %q, want path:line", spec)
	}
	return wire.Location{Path: spec[:idx], Line: line}, nil
}

func runAttach(cfg *dbgconfig.Config) error {
	conn, err := transport.Dial(cfg.Str(dbgconfig.KeyPipePath))
	if err != nil {
		return err
	}
	defer conn.Close()

	for i, spec := range attachBreakpoints {
		loc, err := parseBreakLocation(spec)
		if err != nil {
			return err
		}
		req := &wire.BreakpointRequest{
			ID:        fmt.Sprintf("bp%d", i+1),
			Location:  loc,
			Activated: true,
		}
		line, err := wire.EncodeBreakpointRequest(req)
		if err != nil {
			return err
		}
		if err := conn.Write(line); err != nil {
			return err
		}
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for {
		line, err := conn.Read()
		if err != nil {
			return err
		}
		snap, err := wire.DecodeSnapshot(line)
		if err != nil {
			return err
		}
		if err := console.DumpSnapshotJSON(out, snap); err != nil {
			return err
		}
		out.Flush()
	}
}
