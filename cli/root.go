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
Package cli wires the debugger agent's cobra command tree: serve runs
the agent against a breakpoint pipe, attach drives one from the
command line, console runs the interactive REPL on top of attach, and
version prints the build identity. Configuration is layered the same
way the teacher's root command layers it - a config file (searched for
as $HOME/.coredbg.yaml if none is named with --config), environment
variables on top of the file, and the --pipe / --log-level flags on
top of both.
*/
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clruntim/coredbg/dbgconfig"
)

var cfgFile string

/*
RootCmd is the debugger agent's entry point.
*/
var RootCmd = &cobra.Command{
	Use:   "coredbg",
	Short: "A debugger agent for a managed CLR-hosted runtime",
	Long: `coredbg is a debugger agent that arms breakpoints, walks the
managed stack, and renders variable snapshots over a local pipe, for a
CLR-hosted runtime with no native debugger of its own.`,
}

/*
Execute runs RootCmd, exiting the process with a non-zero status on
failure.
*/
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.coredbg.yaml)")
	RootCmd.PersistentFlags().String("pipe", "", "path of the breakpoint/snapshot pipe (overrides config/default)")
	RootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	RootCmd.AddCommand(serveCmd, attachCmd, consoleCmd, versionCmd)
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".coredbg")
	}

	viper.SetEnvPrefix("COREDBG")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

/*
loadConfig builds a dbgconfig.Config from the config file named by
--config (or, failing that, the one initConfig found in the home
directory, if any) and applies the --pipe / --log-level overrides bound
on cmd, the same layering every subcommand needs before it can talk to
the agent.
*/
func loadConfig(cmd *cobra.Command) (*dbgconfig.Config, error) {
	cfg := dbgconfig.New()

	path := cfgFile
	if path == "" {
		path = viper.ConfigFileUsed()
	}
	if path != "" {
		if err := cfg.Load(path); err != nil {
			return nil, err
		}
	}

	if pipe, _ := cmd.Flags().GetString("pipe"); pipe != "" {
		cfg.Set(dbgconfig.KeyPipePath, pipe)
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Set(dbgconfig.KeyLogLevel, level)
	}

	return cfg, nil
}
