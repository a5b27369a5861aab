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
	"context"
	"time"

	"github.com/nabbar/quincore/atomic"
	"github.com/nabbar/quincore/ffiio"
	"github.com/nabbar/quincore/ffiresult"
	"github.com/nabbar/quincore/handle"
	"github.com/nabbar/quincore/netaddr"
	"github.com/nabbar/quincore/qendpoint"
	"github.com/nabbar/quincore/quicerr"
	"github.com/nabbar/quincore/quicproto/memquic"
)

// pollers tracks the background Poller attached to every live endpoint
// handle, keyed by the endpoint's own address, so destroy_endpoint can stop
// it before releasing the handle. AttachPoller returns nil under the
// manualpoll build tag; a nil entry is simply never started or stopped.
var pollers = atomic.NewMapTyped[handle.Addr, *qendpoint.Poller]()

// doCreateServerEndpoint and doCreateClientEndpoint implement
// create_server_endpoint / create_client_endpoint (§6 Endpoints): resolve
// the configuration handle, build memquic's protocol-library endpoint
// around it, box it into a Shared handle with a fresh 8-bit id, attach the
// background poller and report both the id and the handle back.
func doCreateServerEndpoint(cfgHandle handle.Addr, outID ffiio.Out[uint8], outHandle ffiio.Out[handle.Addr]) ffiresult.Result {
	if cfgHandle.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("server_cfg_handle"))
	}
	if outID.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("out_endpoint_id"))
	}
	if outHandle.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("out_endpoint_handle"))
	}

	cfg, err := configFromHandle(cfgHandle)
	if err != nil {
		return ffiresult.Context(err)
	}

	h := qendpoint.NewHandle(memquic.NewServerEndpoint(cfg))
	pollers.Store(h.Addr(), qendpoint.AttachPoller(h))

	var id uint8
	_ = h.RefAccess(func(e qendpoint.Endpoint) error {
		id = e.ID()
		return nil
	})

	outID.Init(id)
	outHandle.Init(h.Addr())

	return ffiresult.Context(nil)
}

func doCreateClientEndpoint(cfgHandle handle.Addr, outID ffiio.Out[uint8], outHandle ffiio.Out[handle.Addr]) ffiresult.Result {
	if cfgHandle.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("client_cfg_handle"))
	}
	if outID.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("out_endpoint_id"))
	}
	if outHandle.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("out_endpoint_handle"))
	}

	cfg, err := configFromHandle(cfgHandle)
	if err != nil {
		return ffiresult.Context(err)
	}

	h := qendpoint.NewHandle(memquic.NewClientEndpoint())
	_ = h.MutAccess(func(e *qendpoint.Endpoint) error {
		e.SetDefaultClientConfig(cfg)
		return nil
	})
	pollers.Store(h.Addr(), qendpoint.AttachPoller(h))

	var id uint8
	_ = h.RefAccess(func(e qendpoint.Endpoint) error {
		id = e.ID()
		return nil
	})

	outID.Init(id)
	outHandle.Init(h.Addr())

	return ffiresult.Context(nil)
}

// doHandleDatagram implements handle_datagram (§6 Endpoints): feeds one
// inbound datagram into the endpoint and marks the resulting connection (new
// or existing) pollable so the poller picks it up on its next tick.
func doHandleDatagram(epHandle handle.Addr, data ffiio.RefBytes, from netaddr.Address) ffiresult.Result {
	if epHandle.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("endpoint_handle"))
	}
	if data.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("data"))
	}

	h, ok := handle.SharedFromAddr[qendpoint.Endpoint](epHandle)
	if !ok {
		return ffiresult.Context(quicerr.FFI("endpoint_handle"))
	}

	payload := append([]byte(nil), data.AsBytes(data.Len())...)

	err := h.MutAccess(func(e *qendpoint.Endpoint) error {
		_, err := e.HandleDatagram(payload, from)
		return err
	})

	return ffiresult.Context(err)
}

// doPollEndpoint implements poll_endpoint (§6 Endpoints). It is the
// manual-poll counterpart to the background Poller: under the manualpoll
// build tag the host is responsible for calling it on its own schedule, and
// it is harmless (if redundant) to also call it when the background poller
// is running.
func doPollEndpoint(epHandle handle.Addr) ffiresult.Result {
	if epHandle.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("endpoint_handle"))
	}

	h, ok := handle.SharedFromAddr[qendpoint.Endpoint](epHandle)
	if !ok {
		return ffiresult.Context(quicerr.FFI("endpoint_handle"))
	}

	err := h.MutAccess(func(e *qendpoint.Endpoint) error {
		_, _, pollErr := e.Poll(time.Now())
		return pollErr
	})

	return ffiresult.Context(err)
}

// doDestroyEndpoint implements destroy_endpoint (§6 Lifecycle): stops the
// attached poller, if any, before releasing the handle itself.
func doDestroyEndpoint(epHandle handle.Addr) ffiresult.Result {
	if epHandle.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("endpoint_handle"))
	}

	h, ok := handle.SharedFromAddr[qendpoint.Endpoint](epHandle)
	if !ok {
		return ffiresult.Context(quicerr.FFI("endpoint_handle"))
	}

	if p, ok := pollers.Load(epHandle); ok && p != nil {
		_ = p.Stop(context.Background())
	}
	pollers.Delete(epHandle)

	return ffiresult.Context(h.Dealloc(nil))
}
