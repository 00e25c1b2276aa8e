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
Package coordinator implements the suspend/resume handshake between the
single runtime callback thread and the capture tasks the coordinator
spawns, one per breakpoint hit. The callback thread never blocks on
anything but this coordinator; capture tasks never touch the runtime
directly, only request evaluations through it.
*/
package coordinator

import (
	"github.com/clruntim/coredbg/runtimehelper"
)

/*
EvalRequester starts an asynchronous property/method evaluation on the
debuggee. The runtime reports completion later, on the callback thread,
through EvalComplete or EvalException - RequestEval itself only kicks
the evaluation off and must not block. args carries the evaluated
argument values for a method call, nil for a property getter.
*/
type EvalRequester interface {
	RequestEval(token uint32, this runtimehelper.Value, owner runtimehelper.Module, args []runtimehelper.Value) error
}

/*
Capture is the work a capture task performs once it owns the debuggee:
it drives stack-frame capture and expression evaluation (§4.7/§4.8),
calling back into the Coordinator's WaitForEval whenever it needs the
runtime to actually run code.
*/
type Capture func(c *Coordinator) error
