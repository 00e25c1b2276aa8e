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
	"sync/atomic"

	"github.com/clruntim/coredbg/breakpoint"
	"github.com/clruntim/coredbg/dbgerr"
	"github.com/clruntim/coredbg/expr"
	"github.com/clruntim/coredbg/frame"
	"github.com/clruntim/coredbg/runtimehelper"
	"github.com/clruntim/coredbg/value"
	"github.com/clruntim/coredbg/wire"
)

/*
estimatedNodeBytes is the per-node byte estimate the budget tracker
charges against the remaining budget on every BFS dequeue. The real
implementation measures the actual serialized proto size (out of scope
here, see SPEC_FULL.md §6.1); this is a deliberately simple stand-in
that still produces the spec's halving-per-frame, abort-when-crossed
shape without computing a wire size that does not exist in this
encoding.
*/
const estimatedNodeBytes = 64

/*
Assembler builds wire.Snapshot values for the breakpoints matched by a
single hit: stack walk, condition gate, capture-expression evaluation,
then BFS rendering of everything under the byte budget.
*/
type Assembler struct {
	walker      StackWalker
	members     ClassMembersResolver
	resolver    value.ClassDescriptorResolver
	coordinator value.PropertyEvaluator
	handles     runtimehelper.StrongHandleCreator

	maxDepth               int
	byteBudget             int
	allowMethodInCondition bool
}

/*
New creates an Assembler. allowMethodInCondition mirrors
dbgconfig.KeyAllowMethodInCondition: whether a condition may invoke a
property getter.
*/
func New(walker StackWalker, members ClassMembersResolver, resolver value.ClassDescriptorResolver,
	coordinator value.PropertyEvaluator, handles runtimehelper.StrongHandleCreator,
	maxDepth, byteBudget int, allowMethodInCondition bool) *Assembler {
	return &Assembler{
		walker:                 walker,
		members:                members,
		resolver:               resolver,
		coordinator:            coordinator,
		handles:                handles,
		maxDepth:               maxDepth,
		byteBudget:             byteBudget,
		allowMethodInCondition: allowMethodInCondition,
	}
}

/*
budgetTracker is the overBudget predicate value.Expand polls before
every dequeue: it charges a fixed estimate per node visited and reports
over-budget once nothing remains, so the node that crosses the budget
is still admitted.
*/
type budgetTracker struct {
	remaining int
}

func (b *budgetTracker) overBudget() bool {
	if b.remaining <= 0 {
		return true
	}
	b.remaining -= estimatedNodeBytes
	return false
}

/*
Assemble builds one snapshot per breakpoint in hits that actually fires
(a false condition emits none), sharing a single stack walk across all
of them since they fired at the same physical hit.
*/
func (a *Assembler) Assemble(hits []*breakpoint.Breakpoint) ([]*wire.Snapshot, error) {
	raws, err := a.walker.Walk()
	if err != nil {
		return nil, err
	}

	var snaps []*wire.Snapshot
	for _, bp := range hits {
		snap, emit, err := a.assembleOne(bp, raws)
		if err != nil {
			return nil, err
		}
		if emit {
			snaps = append(snaps, snap)
		}
	}
	return snaps, nil
}

func (a *Assembler) captureFrame(raw RawFrame) (*frame.Frame, error) {
	il, slots, ok := raw.IL()
	if !ok {
		return nil, dbgerr.New(dbgerr.KindNotImplemented, "snapshot.captureFrame",
			"process_il_frame is disabled for this frame")
	}
	importer := il.Module().MetadataImport()
	return frame.Capture(il, slots, importer, a.resolver, a.handles, a.maxDepth), nil
}

func (a *Assembler) compileContext(f *frame.Frame, inCondition bool) (expr.CompileContext, error) {
	members, err := a.members.ClassMembers(f)
	if err != nil {
		return expr.CompileContext{}, err
	}
	return expr.CompileContext{
		Frame:                  f,
		Members:                members,
		Resolver:               a.resolver,
		Coordinator:            a.coordinator,
		InCondition:            inCondition,
		AllowMethodInCondition: a.allowMethodInCondition,
	}, nil
}

func (a *Assembler) assembleOne(bp *breakpoint.Breakpoint, raws []RawFrame) (*wire.Snapshot, bool, error) {
	if len(raws) == 0 {
		return nil, false, dbgerr.New(dbgerr.KindNotFound, "snapshot.assembleOne", "no stack frames at hit")
	}

	var top *frame.Frame
	captureTop := func() (*frame.Frame, error) {
		if top != nil {
			return top, nil
		}
		f, err := a.captureFrame(raws[0])
		if err != nil {
			return nil, err
		}
		top = f
		return f, nil
	}

	if bp.Condition != "" {
		if !raws[0].HasManagedFunction() {
			return nil, false, dbgerr.New(dbgerr.KindNotImplemented, "snapshot.assembleOne",
				"condition evaluation on native frames is not supported")
		}

		f, err := captureTop()
		if err != nil {
			return nil, false, err
		}
		ctx, err := a.compileContext(f, true)
		if err != nil {
			return nil, false, err
		}

		ok, err := evalCondition(bp.Condition, ctx)
		if err != nil {
			atomic.AddInt64(&bp.ConditionErrorCount, 1)
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
	}

	evaluated := make([]wire.EvaluatedExpression, 0, len(bp.Expressions))
	for _, src := range bp.Expressions {
		evaluated = append(evaluated, a.evaluateCaptureExpression(src, raws[0]))
	}

	frames := a.renderFrames(raws, top)

	return &wire.Snapshot{
		ID:                   bp.ID,
		Sequence:             wire.NextSequence(),
		Location:             wire.ResolvedLocation{Path: bp.Path, Line: bp.Resolved.EffectiveLine},
		EvaluatedExpressions: evaluated,
		StackFrames:          frames,
		LogPoint:             bp.LogPoint,
		LogLevel:             bp.LogLevel,
		LogMessageFormat:     bp.LogMessageFormat,
	}, true, nil
}

func evalCondition(src string, ctx expr.CompileContext) (bool, error) {
	ast, err := expr.Parse(src)
	if err != nil {
		return false, err
	}
	ev, err := expr.Compile(ast, ctx)
	if err != nil {
		return false, err
	}
	if ev.Static().ElementType != runtimehelper.ElementBoolean {
		return false, dbgerr.New(dbgerr.KindTypeMismatch, "snapshot.evalCondition",
			"condition must evaluate to a boolean")
	}
	rv, err := ev.Eval()
	if err != nil {
		return false, err
	}
	num, ok := rv.(expr.Numeric)
	if !ok {
		return false, dbgerr.New(dbgerr.KindTypeMismatch, "snapshot.evalCondition",
			"condition result is not a boolean value")
	}
	b, _ := num.AsBool()
	return b, nil
}

/*
evaluateCaptureExpression compiles and evaluates one watch expression
against a freshly captured frame - a fresh capture per expression,
since evaluating one (a property getter) may perturb frame state the
next compile depends on.
*/
func (a *Assembler) evaluateCaptureExpression(src string, raw RawFrame) wire.EvaluatedExpression {
	f, err := a.captureFrame(raw)
	if err != nil {
		return wire.EvaluatedExpression{Name: src, Status: err.Error()}
	}
	ctx, err := a.compileContext(f, false)
	if err != nil {
		return wire.EvaluatedExpression{Name: src, Status: err.Error()}
	}

	ast, err := expr.Parse(src)
	if err != nil {
		return wire.EvaluatedExpression{Name: src, Status: err.Error()}
	}
	ev, err := expr.Compile(ast, ctx)
	if err != nil {
		return wire.EvaluatedExpression{Name: src, Status: err.Error()}
	}
	rv, err := ev.Eval()
	if err != nil {
		return wire.EvaluatedExpression{Name: src, Status: err.Error()}
	}

	v, err := value.New(rv, a.resolver, a.handles, a.maxDepth)
	if err != nil {
		return wire.EvaluatedExpression{Name: src, Status: err.Error()}
	}

	root := value.Member{Node: &value.Node{Name: src}, Value: v}
	budget := &budgetTracker{remaining: a.byteBudget}
	value.Expand(root, a.maxDepth, a.coordinator, budget.overBudget)

	return wire.EvaluatedExpression{
		Name:    src,
		Type:    root.Node.Type,
		Value:   root.Node.Value,
		Status:  root.Node.Status,
		Members: nodesToWire(root.Node.Members),
	}
}

/*
renderFrames walks raws in order, emitting an empty "undebuggable code"
frame for native frames and BFS-expanding locals/arguments for managed
ones. The byte budget halves for every frame after the first, per
spec.md §4.8.
*/
func (a *Assembler) renderFrames(raws []RawFrame, top *frame.Frame) []wire.WireStackFrame {
	budget := &budgetTracker{remaining: a.byteBudget}
	frames := make([]wire.WireStackFrame, 0, len(raws))

	for i, raw := range raws {
		if i > 0 {
			budget.remaining /= 2
		}

		if !raw.HasManagedFunction() {
			frames = append(frames, wire.WireStackFrame{MethodName: "<undebuggable code>"})
			continue
		}

		f := top
		if i != 0 || f == nil {
			var err error
			f, err = a.captureFrame(raw)
			if err != nil {
				path, line := raw.Location()
				frames = append(frames, wire.WireStackFrame{
					MethodName: raw.MethodName(),
					Location:   wire.Location{Path: path, Line: line},
				})
				continue
			}
		}

		for _, m := range f.Locals {
			value.Expand(m, a.maxDepth, a.coordinator, budget.overBudget)
		}
		for _, m := range f.Arguments {
			value.Expand(m, a.maxDepth, a.coordinator, budget.overBudget)
		}

		path, line := raw.Location()
		frames = append(frames, wire.WireStackFrame{
			MethodName: raw.MethodName(),
			Location:   wire.Location{Path: path, Line: line},
			Locals:     membersToWire(f.Locals),
			Arguments:  membersToWire(f.Arguments),
		})
	}

	return frames
}

func membersToWire(members []value.Member) []*wire.WireNode {
	if len(members) == 0 {
		return nil
	}
	out := make([]*wire.WireNode, len(members))
	for i, m := range members {
		out[i] = nodeToWire(m.Node)
	}
	return out
}

func nodesToWire(nodes []*value.Node) []*wire.WireNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*wire.WireNode, len(nodes))
	for i, n := range nodes {
		out[i] = nodeToWire(n)
	}
	return out
}

func nodeToWire(n *value.Node) *wire.WireNode {
	if n == nil {
		return nil
	}
	return wire.NodeFromValueNode(n.Name, n.Type, n.Value, n.Status, nodesToWire(n.Members))
}
