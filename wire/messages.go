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
Package wire defines the JSON message shapes exchanged over the pipe:
BreakpointRequest flows client-to-agent, Snapshot flows agent-to-client.
The exact protobuf framing and field tags of the original implementation
are an external, bit-exact concern out of scope here (see SPEC_FULL.md
§6.1); these are the semantically equivalent shapes, encoded with
encoding/json over a newline-delimited transport.Transport.
*/
package wire

/*
Location identifies a source position by file path and line.
*/
type Location struct {
	Path string `json:"path"`
	Line int    `json:"line"`
}

/*
BreakpointRequest is one client-to-agent message: set, update, or clear
a breakpoint, or ask the agent to shut down.
*/
type BreakpointRequest struct {
	ID               string   `json:"id"`
	Location         Location `json:"location"`
	Activated        bool     `json:"activated"`
	KillServer       bool     `json:"kill_server"`
	Condition        string   `json:"condition,omitempty"`
	Expressions      []string `json:"expressions,omitempty"`
	LogPoint         bool     `json:"log_point"`
	LogLevel         string   `json:"log_level,omitempty"`
	LogMessageFormat string   `json:"log_message_format,omitempty"`
}

/*
ResolvedLocation is the location a BreakpointRequest actually resolved
to, echoed back on the Snapshot since it can differ from the requested
line (the first non-hidden sequence point at or after it).
*/
type ResolvedLocation struct {
	Path string `json:"path"`
	Line int    `json:"line"`
}

/*
EvaluatedExpression is one watch expression's rendered result.
*/
type EvaluatedExpression struct {
	Name    string      `json:"name"`
	Type    string      `json:"type,omitempty"`
	Value   string      `json:"value,omitempty"`
	Status  string      `json:"status,omitempty"`
	Members []*WireNode `json:"members,omitempty"`
}

/*
WireNode is the serialized form of value.Node.
*/
type WireNode struct {
	Name    string      `json:"name"`
	Type    string      `json:"type,omitempty"`
	Value   string      `json:"value,omitempty"`
	Status  string      `json:"status,omitempty"`
	Members []*WireNode `json:"members,omitempty"`
}

/*
WireStackFrame is one captured frame in a Snapshot.
*/
type WireStackFrame struct {
	MethodName string      `json:"method_name"`
	Location   Location    `json:"location"`
	Locals     []*WireNode `json:"locals,omitempty"`
	Arguments  []*WireNode `json:"arguments,omitempty"`
}

/*
Snapshot is the agent-to-client message sent when an armed breakpoint
is hit (or a log point is passed). Sequence is a monotonically
increasing counter stamped by NextSequence, letting the transport
framer on the client side detect a dropped or reordered message; it
carries no debugger semantics of its own.
*/
type Snapshot struct {
	ID                   string                `json:"id"`
	Sequence             uint64                `json:"sequence"`
	Location             ResolvedLocation      `json:"location"`
	EvaluatedExpressions []EvaluatedExpression `json:"evaluated_expressions,omitempty"`
	StackFrames          []WireStackFrame      `json:"stack_frames"`
	LogPoint             bool                  `json:"log_point"`
	LogLevel             string                `json:"log_level,omitempty"`
	LogMessageFormat     string                `json:"log_message_format,omitempty"`
}
