/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package startStop provides a minimal start/stop/restart lifecycle wrapper around
// a long-running function, tracking uptime and the errors the function reported.
//
// It is used by the endpoint poller to own the background goroutine that advances
// an endpoint whenever its notifier channel fires, without hand-rolling goroutine
// bookkeeping at every call site.
package startStop

import (
	"context"
	"time"
)

// FuncStart runs until ctx is cancelled or it decides to exit on its own.
type FuncStart func(ctx context.Context) error

// FuncStop performs a bounded shutdown of whatever FuncStart set up.
type FuncStop func(ctx context.Context) error

// StartStop is a restartable supervisor for a single background function.
type StartStop interface {
	// Start launches the function in a new goroutine, stopping any previous
	// instance first. It returns immediately; asynchronous failures surface
	// through ErrorsLast / ErrorsList.
	Start(ctx context.Context) error

	// Stop cancels the running instance and waits for its FuncStop to finish.
	// It is idempotent: calling Stop on an already-stopped instance is a no-op.
	Stop(ctx context.Context) error

	// Restart is Stop followed by Start against the same functions.
	Restart(ctx context.Context) error

	// IsRunning reports whether the managed function is currently active.
	IsRunning() bool

	// Uptime reports how long the current run has been active, or zero if stopped.
	Uptime() time.Duration

	// ErrorsLast returns the most recently captured error, or nil.
	ErrorsLast() error

	// ErrorsList returns every error captured since the last successful Start.
	ErrorsList() []error
}

// New builds a StartStop around fn/stop. Either may be nil: calling Start/Stop
// against a nil function records an "invalid start/stop function" error instead
// of panicking.
func New(start FuncStart, stop FuncStop) StartStop {
	return &runner{
		start: start,
		stop:  stop,
	}
}
