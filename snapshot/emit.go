/*
 * coredbg
 *
 * Copyright 2024 The coredbg authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package snapshot

import (
	"github.com/clruntim/coredbg/transport"
	"github.com/clruntim/coredbg/wire"
)

/*
Emit encodes and writes each snapshot to t, in order. A snapshot
write failure aborts the remaining writes - the pipe is assumed dead at
that point, matching the same assumption transport.Transport.Read
makes on the read side.
*/
func Emit(t transport.Transport, snaps []*wire.Snapshot) error {
	for _, snap := range snaps {
		line, err := wire.EncodeSnapshot(snap)
		if err != nil {
			return err
		}
		if err := t.Write(line); err != nil {
			return err
		}
	}
	return nil
}
