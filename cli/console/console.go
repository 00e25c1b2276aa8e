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
Package console implements the interactive debugger REPL: a
line-edited prompt dispatching a handful of commands (break, delete,
list, continue, status, help, quit) to a running agent over a
transport.Transport, while a background goroutine prints every
snapshot the agent emits as it arrives.
*/
package console

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/clruntim/coredbg/transport"
	"github.com/clruntim/coredbg/wire"
)

/*
terminalWidth reports the current stdout terminal width, falling back
to a conservative default when stdout isn't a terminal (piped output,
tests) - value text longer than this is elided rather than wrapped.
*/
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

func elide(s string, width int) string {
	if width <= 3 || len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}

var (
	colorPrompt     = color.New(color.FgBlue, color.Bold)
	colorError      = color.New(color.FgRed, color.Bold)
	colorSuccess    = color.New(color.FgGreen)
	colorWarning    = color.New(color.FgYellow)
	colorHeader     = color.New(color.FgWhite, color.Bold, color.Underline)
	colorBreakpoint = color.New(color.FgRed, color.Bold)
	colorSourceFile = color.New(color.FgHiBlue)
	colorSourceLine = color.New(color.FgHiCyan)
	colorVarName    = color.New(color.FgHiGreen)
	colorVarType    = color.New(color.FgHiYellow)
	colorValue      = color.New(color.FgWhite, color.Bold)
)

/*
Session is one interactive console attached to a running agent.
*/
type Session struct {
	conn transport.Transport
	out  io.Writer

	mu          sync.Mutex
	nextID      int
	running     bool
	breakpoints []*wire.BreakpointRequest
}

/*
New creates a Session driving conn, writing command output to out.
*/
func New(conn transport.Transport, out io.Writer) *Session {
	return &Session{conn: conn, out: out, nextID: 1, running: true}
}

/*
Run starts the snapshot-printing goroutine and blocks in the
read-eval-print loop until the user quits or stdin is closed.
*/
func (s *Session) Run() error {
	go s.printSnapshots()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	colorSuccess.Fprintln(s.out, "Type 'help' for available commands.")

	var lastCmd string
	for s.running {
		input, err := line.Prompt(colorPrompt.Sprint("(coredbg) "))
		if err != nil {
			return nil
		}
		input = strings.TrimSpace(input)
		if input == "" {
			input = lastCmd
		}
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		lastCmd = input
		s.execute(input)
	}
	return nil
}

func (s *Session) execute(cmdline string) {
	parts := strings.Fields(cmdline)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "break", "b":
		s.cmdBreak(args)
	case "delete", "d":
		s.cmdDelete(args)
	case "list", "l":
		s.cmdList()
	case "continue", "c":
		s.cmdContinue()
	case "status":
		s.cmdStatus()
	case "help", "h", "?":
		s.cmdHelp()
	case "quit", "q", "exit":
		s.running = false
		colorSuccess.Fprintln(s.out, "Exiting console.")
	default:
		colorError.Fprintf(s.out, "Unknown command: %s. ", cmd)
		fmt.Fprintln(s.out, "Type 'help' for available commands.")
	}
}

func (s *Session) cmdBreak(args []string) {
	if len(args) != 1 {
		colorError.Fprintln(s.out, "usage: break path:line")
		return
	}
	loc, err := parseLocation(args[0])
	if err != nil {
		colorError.Fprintln(s.out, err)
		return
	}

	s.mu.Lock()
	id := fmt.Sprintf("bp%d", s.nextID)
	s.nextID++
	s.mu.Unlock()

	req := &wire.BreakpointRequest{ID: id, Location: loc, Activated: true}
	if err := s.send(req); err != nil {
		colorError.Fprintln(s.out, err)
		return
	}
	s.breakpoints = append(s.breakpoints, req)
	colorBreakpoint.Fprintf(s.out, "Breakpoint %s set at %s:%d\n", id, loc.Path, loc.Line)
}

func (s *Session) cmdDelete(args []string) {
	if len(args) != 1 {
		colorError.Fprintln(s.out, "usage: delete id")
		return
	}
	id := args[0]
	for i, bp := range s.breakpoints {
		if bp.ID == id {
			req := &wire.BreakpointRequest{ID: id, Location: bp.Location, Activated: false}
			if err := s.send(req); err != nil {
				colorError.Fprintln(s.out, err)
				return
			}
			s.breakpoints = append(s.breakpoints[:i], s.breakpoints[i+1:]...)
			colorSuccess.Fprintf(s.out, "Breakpoint %s cleared\n", id)
			return
		}
	}
	colorWarning.Fprintf(s.out, "No such breakpoint: %s\n", id)
}

func (s *Session) cmdList() {
	if len(s.breakpoints) == 0 {
		fmt.Fprintln(s.out, "No breakpoints set.")
		return
	}
	colorHeader.Fprintln(s.out, "Breakpoints:")
	for _, bp := range s.breakpoints {
		fmt.Fprintf(s.out, "  %s  %s:%d\n", bp.ID, bp.Location.Path, bp.Location.Line)
	}
}

func (s *Session) cmdContinue() {
	colorSuccess.Fprintln(s.out, "Waiting for the next breakpoint hit...")
}

func (s *Session) cmdStatus() {
	colorHeader.Fprintln(s.out, "Status:")
	fmt.Fprintf(s.out, "  %d breakpoint(s) armed\n", len(s.breakpoints))
}

func (s *Session) cmdHelp() {
	colorHeader.Fprintln(s.out, "Available commands:")
	fmt.Fprintln(s.out, "  break (b) path:line   arm a breakpoint")
	fmt.Fprintln(s.out, "  delete (d) id         clear a breakpoint")
	fmt.Fprintln(s.out, "  list (l)              list armed breakpoints")
	fmt.Fprintln(s.out, "  continue (c)          wait for the next hit")
	fmt.Fprintln(s.out, "  status                show the armed breakpoint count")
	fmt.Fprintln(s.out, "  help (h, ?)           show this help")
	fmt.Fprintln(s.out, "  quit (q, exit)        leave the console")
}

func (s *Session) send(req *wire.BreakpointRequest) error {
	line, err := wire.EncodeBreakpointRequest(req)
	if err != nil {
		return err
	}
	return s.conn.Write(line)
}

func parseLocation(spec string) (wire.Location, error) {
	idx := strings.LastIndex(spec, ":")
	if idx <= 0 {
		return wire.Location{}, fmt.Errorf("invalid location %q, want path:line", spec)
	}
	n, err := strconv.Atoi(spec[idx+1:])
	if err != nil {
		return wire.Location{}, fmt.Errorf("invalid location %q, want path:line", spec)
	}
	return wire.Location{Path: spec[:idx], Line: n}, nil
}

/*
printSnapshots reads every snapshot the agent emits and renders it,
for as long as the connection stays open. It runs for the lifetime of
the session, independent of what command is currently at the prompt.
*/
func (s *Session) printSnapshots() {
	for {
		line, err := s.conn.Read()
		if err != nil {
			return
		}
		snap, err := wire.DecodeSnapshot(line)
		if err != nil {
			continue
		}
		s.printSnapshot(snap)
	}
}

func (s *Session) printSnapshot(snap *wire.Snapshot) {
	colorBreakpoint.Fprintf(s.out, "\nBreakpoint %s hit at ", snap.ID)
	colorSourceFile.Fprint(s.out, snap.Location.Path)
	fmt.Fprint(s.out, ":")
	colorSourceLine.Fprintln(s.out, snap.Location.Line)

	for _, ev := range snap.EvaluatedExpressions {
		printNode(s.out, ev.Name, ev.Type, ev.Value, ev.Status, 1)
	}

	for _, f := range snap.StackFrames {
		fmt.Fprintf(s.out, "  at %s (%s:%d)\n", f.MethodName, f.Location.Path, f.Location.Line)
		for _, n := range f.Arguments {
			printWireNode(s.out, n, 2)
		}
		for _, n := range f.Locals {
			printWireNode(s.out, n, 2)
		}
	}
}

func printWireNode(out io.Writer, n *wire.WireNode, depth int) {
	printNode(out, n.Name, n.Type, n.Value, n.Status, depth)
	for _, m := range n.Members {
		printWireNode(out, m, depth+1)
	}
}

func printNode(out io.Writer, name, typ, value, status string, depth int) {
	indent := strings.Repeat("  ", depth)
	colorVarName.Fprintf(out, "%s%s", indent, name)
	if typ != "" {
		fmt.Fprint(out, " ")
		colorVarType.Fprintf(out, "(%s)", typ)
	}
	fmt.Fprint(out, " = ")
	if status != "" {
		colorWarning.Fprintln(out, status)
		return
	}
	width := terminalWidth() - 2*depth - len(name) - len(typ)
	colorValue.Fprintln(out, elide(value, width))
}

/*
DumpSnapshotJSON is used by non-interactive callers (attach) that want the raw wire shape instead of the colorized rendering.
*/
func DumpSnapshotJSON(out io.Writer, snap *wire.Snapshot) error {
	enc := json.NewEncoder(out)
	return enc.Encode(snap)
}
