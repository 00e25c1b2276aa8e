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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clruntim/coredbg/dbgconfig"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the debugger agent's version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), dbgconfig.ProductVersion)
		return nil
	},
}
