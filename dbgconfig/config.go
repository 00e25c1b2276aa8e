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
Package dbgconfig holds the runtime configuration of the debugger agent.
It wraps viper so that configuration can come from a file, environment
variables, or CLI flags, while still exposing the same small set of
typed accessors the teacher's config package offered.
*/
package dbgconfig

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

/*
Known configuration keys.
*/
const (
	KeyPipePath                = "pipe.path"
	KeyEvalTimeout             = "eval.timeout"
	KeyAllowPropertyEvaluation = "eval.allow-property-evaluation"
	KeyAllowMethodInCondition  = "eval.allow-method-in-condition"
	KeyCaptureMaxDepth         = "capture.max-depth"
	KeyCaptureByteBudget       = "capture.byte-budget"
	KeyLogLevel                = "log.level"
	KeyLogFormat               = "log.format"

	/*
		KeySymbolsFixture names a JSON document file (symbols.LoadJSON's
		shape) the serve command loads into a symbols.MemoryStore in
		place of the demo package's built-in symbols whenever it is set.
	*/
	KeySymbolsFixture = "symbols.fixture"
)

/*
ProductVersion is the current version of the debugger agent.
*/
const ProductVersion = "1.0.0"

/*
DefaultPipePath is used when no pipe path is configured.
*/
const DefaultPipePath = "/tmp/coredbg.sock"

/*
Config wraps a viper instance with typed accessors.
*/
type Config struct {
	v *viper.Viper
}

/*
New creates a new Config with the default values set.
*/
func New() *Config {
	v := viper.New()

	v.SetDefault(KeyPipePath, DefaultPipePath)
	v.SetDefault(KeyEvalTimeout, time.Minute)
	v.SetDefault(KeyAllowPropertyEvaluation, true)
	v.SetDefault(KeyAllowMethodInCondition, true)
	v.SetDefault(KeyCaptureMaxDepth, 5)
	v.SetDefault(KeyCaptureByteBudget, 65536)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "json")
	v.SetDefault(KeySymbolsFixture, "")

	v.SetEnvPrefix("COREDBG")
	v.AutomaticEnv()

	return &Config{v: v}
}

/*
Load reads a config file (if present) from the given path, merging it
on top of the defaults. A missing file is not an error.
*/
func (c *Config) Load(path string) error {
	if path == "" {
		return nil
	}
	c.v.SetConfigFile(path)
	if err := c.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

/*
Str reads a config value as a string value.
*/
func (c *Config) Str(key string) string {
	return c.v.GetString(key)
}

/*
Int reads a config value as an int value.
*/
func (c *Config) Int(key string) int {
	return c.v.GetInt(key)
}

/*
Bool reads a config value as a boolean value.
*/
func (c *Config) Bool(key string) bool {
	return c.v.GetBool(key)
}

/*
Duration reads a config value as a time.Duration value.
*/
func (c *Config) Duration(key string) time.Duration {
	return c.v.GetDuration(key)
}

/*
Set overrides a configuration value (used by CLI flag binding and
tests).
*/
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

/*
Viper exposes the underlying viper instance for advanced wiring (e.g.
cobra's BindPFlag).
*/
func (c *Config) Viper() *viper.Viper {
	return c.v
}
