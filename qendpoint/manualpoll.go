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

//go:build manualpoll

package qendpoint

import (
	"github.com/nabbar/quincore/callback"
	"github.com/nabbar/quincore/handle"
)

// AttachPoller is the manualpoll build's no-op: the host is expected to
// drive progress itself via the poll_endpoint ABI entry point, so no
// background goroutine is ever started for this endpoint.
func AttachPoller(_ *handle.Shared[Endpoint]) *Poller {
	return nil
}

// notifyHostPollable is markPollable's manual-poll half (§4.5): the host
// owns polling, so the only thing this build does is tell it which
// connection became pollable via the on_connection_pollable callback.
func notifyHostPollable(e *Endpoint, connID uint64) {
	if h, ok := e.conns[connID]; ok {
		callback.CallPollableConnection(h.Addr())
	}
}
