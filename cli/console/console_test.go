/*
 * coredbg
 *
 * Copyright 2024 The coredbg authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package console

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clruntim/coredbg/wire"
)

func TestParseLocation(t *testing.T) {
	loc, err := parseLocation("/demo/Program.cs:5")
	require.NoError(t, err)
	assert.Equal(t, wire.Location{Path: "/demo/Program.cs", Line: 5}, loc)
}

func TestParseLocationRejectsMissingColon(t *testing.T) {
	_, err := parseLocation("/demo/Program.cs")
	assert.Error(t, err)
}

func TestElideShortStringUnchanged(t *testing.T) {
	assert.Equal(t, "hello", elide("hello", 80))
}

func TestElideTruncatesLongString(t *testing.T) {
	s := elide("0123456789", 8)
	assert.Len(t, s, 8)
	assert.Equal(t, "01234...", s)
}

func TestPrintSnapshotRendersLocationAndFrames(t *testing.T) {
	var buf bytes.Buffer
	s := New(&discardTransport{}, &buf)

	s.printSnapshot(&wire.Snapshot{
		ID:       "bp1",
		Location: wire.ResolvedLocation{Path: "/demo/Program.cs", Line: 5},
		StackFrames: []wire.WireStackFrame{{
			MethodName: "Program.Main",
			Location:   wire.Location{Path: "/demo/Program.cs", Line: 5},
			Locals: []*wire.WireNode{
				{Name: "counter", Type: "Int32", Value: "3"},
			},
		}},
	})

	out := buf.String()
	assert.Contains(t, out, "bp1")
	assert.Contains(t, out, "Program.Main")
	assert.Contains(t, out, "counter")
	assert.Contains(t, out, "3")
}

type discardTransport struct{}

func (discardTransport) Read() ([]byte, error) { return nil, io.EOF }
func (discardTransport) Write([]byte) error    { return nil }
func (discardTransport) Close() error          { return nil }
