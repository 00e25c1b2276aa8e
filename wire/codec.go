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
	"encoding/json"
	"sync/atomic"

	"github.com/clruntim/coredbg/dbgerr"
)

/*
sequenceCounter backs NextSequence: one process-wide monotonic counter
shared by every Snapshot this agent sends.
*/
var sequenceCounter uint64

/*
NextSequence returns the next value in the process-wide outbound
message sequence, starting at 1. Safe for concurrent callers.
*/
func NextSequence() uint64 {
	return atomic.AddUint64(&sequenceCounter, 1)
}

/*
EncodeBreakpointRequest serializes a request as a single newline-
terminated JSON line, ready for transport.Transport.Write.
*/
func EncodeBreakpointRequest(req *BreakpointRequest) ([]byte, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, dbgerr.Wrap(dbgerr.KindIoError, "wire.EncodeBreakpointRequest", err)
	}
	return append(b, '\n'), nil
}

/*
DecodeBreakpointRequest parses one line read from a transport.Transport
back into a request.
*/
func DecodeBreakpointRequest(line []byte) (*BreakpointRequest, error) {
	var req BreakpointRequest
	if err := json.Unmarshal(line, &req); err != nil {
		return nil, dbgerr.Wrap(dbgerr.KindIoError, "wire.DecodeBreakpointRequest", err)
	}
	return &req, nil
}

/*
EncodeSnapshot serializes a snapshot as a single newline-terminated
JSON line.
*/
func EncodeSnapshot(snap *Snapshot) ([]byte, error) {
	b, err := json.Marshal(snap)
	if err != nil {
		return nil, dbgerr.Wrap(dbgerr.KindIoError, "wire.EncodeSnapshot", err)
	}
	return append(b, '\n'), nil
}

/*
DecodeSnapshot parses one line back into a snapshot. Mainly useful to
clients and to tests asserting on what the agent sent.
*/
func DecodeSnapshot(line []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(line, &snap); err != nil {
		return nil, dbgerr.Wrap(dbgerr.KindIoError, "wire.DecodeSnapshot", err)
	}
	return &snap, nil
}

/*
NodeFromValueNode converts a rendered value.Node tree into its wire
form. Defined here (rather than in value, to avoid value depending on
wire) since the conversion is pure serialization, not rendering.
*/
func NodeFromValueNode(name, typ, val, status string, members []*WireNode) *WireNode {
	return &WireNode{Name: name, Type: typ, Value: val, Status: status, Members: members}
}
