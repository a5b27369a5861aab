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

//go:build !manualpoll

package qendpoint

import (
	"context"

	"github.com/nabbar/quincore/handle"
	"github.com/nabbar/quincore/qlog"
)

// AttachPoller is called by every create_*_endpoint ABI entry point right
// after a handle is allocated. With the default build (no manualpoll
// tag), it starts a Poller immediately, matching libquiche-style hosts
// that never call poll themselves.
func AttachPoller(ep *handle.Shared[Endpoint]) *Poller {
	p := NewPoller(ep)
	if err := p.Start(context.Background()); err != nil {
		qlog.L().Error("endpoint poller failed to start", err)
	}
	return p
}

// notifyHostPollable is markPollable's auto-poll half (§4.5): the host
// never learns about individual pollable connections in this build, since
// the runtime drives polling itself. markPollable's notifier send, done
// before this is called, is the signal — the background Poller attached by
// AttachPoller wakes on it and services the connection on its own.
func notifyHostPollable(_ *Endpoint, _ uint64) {}
