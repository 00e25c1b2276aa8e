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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clruntim/coredbg/wire"
)

func TestParseBreakLocation(t *testing.T) {
	loc, err := parseBreakLocation("/demo/Program.cs:5")
	require.NoError(t, err)
	assert.Equal(t, wire.Location{Path: "/demo/Program.cs", Line: 5}, loc)
}

func TestParseBreakLocationWindowsPath(t *testing.T) {
	loc, err := parseBreakLocation(`C:\src\Program.cs:12`)
	require.NoError(t, err)
	assert.Equal(t, `C:\src\Program.cs`, loc.Path)
	assert.Equal(t, 12, loc.Line)
}

func TestParseBreakLocationRejectsMissingLine(t *testing.T) {
	_, err := parseBreakLocation("/demo/Program.cs")
	assert.Error(t, err)
}

func TestParseBreakLocationRejectsNonNumericLine(t *testing.T) {
	_, err := parseBreakLocation("/demo/Program.cs:abc")
	assert.Error(t, err)
}
