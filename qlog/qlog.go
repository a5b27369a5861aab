/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

// Package qlog hands the endpoint poller, the connection drain loop and
// every FFI entry point a single process-wide structured logger, built on
// the repo's own logger package (itself a logrus wrapper with hooks to
// stdout/stderr/file/syslog). It exists so that the core's internal churn
// (transmit counts, timer ticks, callback dispatch) can be correlated with
// the ABI-surfaced last-error text by a host that embeds its own logs
// alongside this runtime's.
package qlog

import (
	"context"
	"sync"

	"github.com/nabbar/quincore/logger"
	loglvl "github.com/nabbar/quincore/logger/level"
)

var (
	once sync.Once
	inst logger.Logger
)

// L returns the process-wide logger, building it with logger.New on first
// use. SetLevel(loglvl.WarnLevel) is the default: per §2.1 the core logs at
// Debug/Trace for protocol churn and Warn/Error for conditions that also
// populate the last-error slot, so a quiet default keeps an embedding host's
// log stream focused on the latter unless it opts into more verbosity via L().SetLevel.
func L() logger.Logger {
	once.Do(func() {
		inst = logger.New(context.Background())
		inst.SetLevel(loglvl.WarnLevel)
	})
	return inst
}
