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

package ffi

import (
	"time"

	"github.com/nabbar/quincore/ffiio"
	"github.com/nabbar/quincore/ffiresult"
	"github.com/nabbar/quincore/handle"
	"github.com/nabbar/quincore/netaddr"
	"github.com/nabbar/quincore/qconn"
	"github.com/nabbar/quincore/qendpoint"
	"github.com/nabbar/quincore/quicerr"
)

// doConnectClient implements connect_client (§6 Connections): opens a
// client connection on epHandle's endpoint toward addr, using the
// endpoint's default client configuration, and reports both the new
// connection's handle and its 64-bit id back to the host.
func doConnectClient(epHandle handle.Addr, host ffiio.RefBytes, addr netaddr.Address, outConn ffiio.Out[handle.Addr], outConnID ffiio.Out[uint64]) ffiresult.Result {
	if epHandle.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("endpoint_handle"))
	}
	if host.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("host_bytes"))
	}
	if outConn.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("out_connection"))
	}
	if outConnID.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("out_connection_id"))
	}

	h, ok := handle.SharedFromAddr[qendpoint.Endpoint](epHandle)
	if !ok {
		return ffiresult.Context(quicerr.FFI("endpoint_handle"))
	}

	serverName := string(host.AsBytes(host.Len()))

	var connH *handle.Shared[qconn.Connection]
	err := h.MutAccess(func(e *qendpoint.Endpoint) error {
		var innerErr error
		connH, innerErr = e.Connect(addr, serverName, nil)
		return innerErr
	})
	if err != nil {
		return ffiresult.Context(err)
	}

	var id uint64
	_ = connH.RefAccess(func(c qconn.Connection) error {
		id = c.ID()
		return nil
	})

	outConn.Init(connH.Addr())
	outConnID.Init(id)

	return ffiresult.Context(nil)
}

// doPollConnection implements poll_connection (§6 Connections): the manual
// counterpart to the endpoint poller driving this same connection in the
// background. A connection the owning endpoint has already drained and
// forgotten reports Error rather than silently doing nothing, so the host
// learns to stop polling a handle it should be destroying instead (§8
// scenario: drain on close).
func doPollConnection(connHandle handle.Addr) ffiresult.Result {
	if connHandle.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("connection_handle"))
	}

	h, ok := handle.SharedFromAddr[qconn.Connection](connHandle)
	if !ok {
		return ffiresult.Context(quicerr.FFI("connection_handle"))
	}

	var drained bool
	err := h.MutAccess(func(c *qconn.Connection) error {
		if c.IsDrained() {
			drained = true
			return nil
		}
		c.Poll(time.Now())
		return nil
	})
	if err != nil {
		return ffiresult.Context(err)
	}
	if drained {
		return ffiresult.Context(quicerr.New("connection is drained and no longer reachable"))
	}

	return ffiresult.Context(nil)
}

// doDestroyConnection implements destroy_connection (§6 Lifecycle).
func doDestroyConnection(connHandle handle.Addr) ffiresult.Result {
	if connHandle.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("connection_handle"))
	}

	h, ok := handle.SharedFromAddr[qconn.Connection](connHandle)
	if !ok {
		return ffiresult.Context(quicerr.FFI("connection_handle"))
	}

	return ffiresult.Context(h.Dealloc(nil))
}
