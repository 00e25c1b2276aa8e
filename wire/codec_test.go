/*
 * coredbg
 *
 * Copyright 2024 The coredbg authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSequenceIsMonotonic(t *testing.T) {
	a := NextSequence()
	b := NextSequence()
	c := NextSequence()

	assert.Less(t, a, b)
	assert.Less(t, b, c)
}

func TestSnapshotRoundTripsSequence(t *testing.T) {
	snap := &Snapshot{ID: "bp1", Sequence: NextSequence(), StackFrames: []WireStackFrame{}}

	line, err := EncodeSnapshot(snap)
	require.NoError(t, err)

	got, err := DecodeSnapshot(line)
	require.NoError(t, err)
	assert.Equal(t, snap.Sequence, got.Sequence)
	assert.Equal(t, "bp1", got.ID)
}
