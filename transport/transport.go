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
Package transport provides the narrow I/O collaborator the core reads
breakpoint requests from and writes snapshots to: a newline-delimited
byte stream, standing in for the named pipe + protobuf codec of the
original implementation (Windows named pipes and the vendor framing are
external collaborators, per SPEC_FULL.md §6.1). This mirrors the
teacher's `util.ECALImportLocator` pattern of wrapping an I/O concern
behind a small interface so the core never imports net/os directly.
*/
package transport

/*
Transport is the collaborator breakpoint.SyncBreakpoints reads from and
snapshot writes to. Read returns one newline-delimited message with the
trailing newline stripped; io.EOF (wrapped as dbgerr.KindIoError) signals
the peer closed the connection.
*/
type Transport interface {
	Read() ([]byte, error)
	Write(line []byte) error
	Close() error
}
