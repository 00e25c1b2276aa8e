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
	"os"

	"github.com/spf13/cobra"

	"github.com/clruntim/coredbg/cli/console"
	"github.com/clruntim/coredbg/dbgconfig"
	"github.com/clruntim/coredbg/transport"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Connect to a running agent and drive it interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		conn, err := transport.Dial(cfg.Str(dbgconfig.KeyPipePath))
		if err != nil {
			return err
		}
		defer conn.Close()

		return console.New(conn, os.Stdout).Run()
	},
}
