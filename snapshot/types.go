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
Package snapshot assembles the wire.Snapshot for a breakpoint hit: walk
the managed stack, gate on the breakpoint's condition, evaluate its
capture expressions, and render everything breadth-first under a byte
budget that halves across non-top frames.
*/
package snapshot

import (
	"github.com/clruntim/coredbg/frame"
)

/*
RawFrame is one entry of the walked managed stack, before it has been
captured into a frame.Frame. HasManagedFunction is false for native
frames, which render as an empty "undebuggable code" frame and are
never captured.
*/
type RawFrame interface {
	HasManagedFunction() bool
	MethodName() string
	Location() (path string, line int)

	/*
		IL returns the narrow IL-frame handle and its slot table when
		process_il_frame is enabled for this frame; ok is false when
		only the method/location identity is available.
	*/
	IL() (il frame.ILFrame, slots frame.SlotTable, ok bool)
}

/*
StackWalker walks the managed call stack at a hit site, outermost frame
last, the order frame capture and rendering proceed in.
*/
type StackWalker interface {
	Walk() ([]RawFrame, error)
}

/*
ClassMembersResolver resolves the frame.ClassMembers of the class
enclosing a captured frame, needed by the expression compiler to
resolve bare identifiers against fields/properties.
*/
type ClassMembersResolver interface {
	ClassMembers(f *frame.Frame) (frame.ClassMembers, error)
}

