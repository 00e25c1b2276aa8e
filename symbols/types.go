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
Package symbols holds the document/method/sequence-point tables the
breakpoint registry resolves a (file, line) request against. Nothing
here reads a real portable-PDB; an adapter populates a SymbolStore at
module-load time the way debugger_callback.cc does in the original
implementation. MemoryStore is the in-memory reference implementation
used by tests and the console demo.
*/
package symbols

import (
	"github.com/clruntim/coredbg/frame"
)

/*
SequencePoint is one IL-offset/source-line correspondence within a
method, as emitted by the compiler's debug information.
*/
type SequencePoint struct {
	ILOffset  int
	StartLine int
	Hidden    bool
}

/*
MethodDebugInfo is the debug information the breakpoint registry needs
for one method: its defining token, its source-line span (supporting
nested delegate/lambda methods whose span falls inside an outer
method's), its sequence points in IL order, and its local-variable slot
table.
*/
type MethodDebugInfo struct {
	Token     uint32
	ModuleTok uint32
	FirstLine int
	LastLine  int
	Points    []SequencePoint
	Slots     []frame.LocalVariable
}

/*
Locals implements frame.SlotTable so a resolved MethodDebugInfo can be
handed directly to frame.Capture.
*/
func (m *MethodDebugInfo) Locals() []frame.LocalVariable { return m.Slots }

/*
Document is one source file's parsed debug information: its path (as
recorded by the compiler, not necessarily the path the client requests
with) and the methods defined in it.
*/
type Document struct {
	Path    string
	Methods []*MethodDebugInfo
}

/*
SymbolStore is the collaborator the breakpoint registry resolves
against: every document known for the currently loaded modules.
*/
type SymbolStore interface {
	Documents() []*Document
}
