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

// Package qendpoint wraps a quicproto.Endpoint with the ABI-facing
// bookkeeping the runtime core owns on top of it: the connection-handle
// table, inbound-datagram demultiplexing, and a supervised background
// poller (§4.6 ENDPOINT, §4.7 ENDPOINT POLLER).
package qendpoint

import (
	"sync/atomic"
	"time"

	"github.com/nabbar/quincore/callback"
	"github.com/nabbar/quincore/handle"
	"github.com/nabbar/quincore/netaddr"
	"github.com/nabbar/quincore/qconn"
	"github.com/nabbar/quincore/qlog"
	"github.com/nabbar/quincore/quicerr"
	"github.com/nabbar/quincore/quicproto"
)

// IOLoopBound caps how many connections a single Poll call services before
// returning, so one endpoint with many busy connections cannot starve the
// poller goroutine of its ability to check for shutdown.
const IOLoopBound = 160

// Endpoint is the T boxed by a *handle.Shared[Endpoint] exposed across the
// ABI. Like qconn.Connection, it takes no lock of its own: the enclosing
// Shared's mutex is the only synchronization, acquired by the FFI layer via
// RefAccess/MutAccess and by the poller via the non-blocking TryMutAccess so
// neither ever starves the other.
type Endpoint struct {
	id    uint8
	proto quicproto.Endpoint
	self  handle.Addr

	defaultClientCfg quicproto.ClientConfig

	conns        map[uint64]*handle.Shared[qconn.Connection]
	inbound      map[uint64]chan<- quicproto.ConnectionEvent
	pollable     map[uint64]struct{}
	pollableRing []uint64

	notifier chan struct{}
}

// New wraps proto. self is filled in by SetSelf once the owning Shared
// handle exists.
func New(proto quicproto.Endpoint) *Endpoint {
	return &Endpoint{
		proto:    proto,
		conns:    make(map[uint64]*handle.Shared[qconn.Connection]),
		inbound:  make(map[uint64]chan<- quicproto.ConnectionEvent),
		pollable: make(map[uint64]struct{}),
		notifier: make(chan struct{}, 1),
	}
}

func (e *Endpoint) SetSelf(addr handle.Addr) {
	e.self = addr
}

// ID returns the 8-bit endpoint id assigned at creation (§4.6), used to
// identify the endpoint in on_transmit callbacks and diagnostics.
func (e *Endpoint) ID() uint8 {
	return e.id
}

func (e *Endpoint) SetID(id uint8) {
	e.id = id
}

// nextID is a process-wide, wrapping 8-bit counter handing out the
// endpoint id create_server_endpoint/create_client_endpoint report back to
// the host. Wraparound is intentional: the id is a diagnostic label, not a
// uniqueness guarantee, and the ABI surface never has more than 256 live
// endpoints in practice.
var nextID uint32

func NextID() uint8 {
	return uint8(atomic.AddUint32(&nextID, 1))
}

// SetDefaultClientConfig records the configuration Connect uses by default
// when the host doesn't supply one explicitly.
func (e *Endpoint) SetDefaultClientConfig(cfg quicproto.ClientConfig) {
	e.defaultClientCfg = cfg
}

// Notifier exposes the channel the host (or the poller) can read from to
// learn "this endpoint has at least one connection that may have work".
func (e *Endpoint) Notifier() <-chan struct{} {
	return e.notifier
}

// markPollable queues connID for the next poll tick and notifies whichever
// side is responsible for actually polling it: the host, via the
// on_connection_pollable callback in manual-poll builds, or nobody in
// auto-poll builds, where the notifier send above already wakes this
// endpoint's own background poller (notifyHostPollable, §4.5).
func (e *Endpoint) markPollable(connID uint64) {
	if _, ok := e.pollable[connID]; !ok {
		e.pollable[connID] = struct{}{}
		e.pollableRing = append(e.pollableRing, connID)
	}

	select {
	case e.notifier <- struct{}{}:
	default:
	}

	notifyHostPollable(e, connID)
}

// Connect opens a client connection, registers it under a fresh connection
// handle and marks it pollable immediately so its initial CHLO gets sent on
// the next tick.
func (e *Endpoint) Connect(addr netaddr.Address, serverName string, cfg quicproto.ClientConfig) (*handle.Shared[qconn.Connection], error) {
	useCfg := cfg
	if useCfg == nil {
		useCfg = e.defaultClientCfg
	}

	if useCfg == nil {
		return nil, quicerr.New(quicproto.ErrNoDefaultClientConfig.Error())
	}

	connID, proto, err := e.proto.Connect(useCfg, addr, serverName)
	if err != nil {
		return nil, quicerr.New(err.Error())
	}

	return e.register(connID, proto), nil
}

func (e *Endpoint) register(connID uint64, proto quicproto.Connection) *handle.Shared[qconn.Connection] {
	wrapped := qconn.New(connID, proto, e.self)
	h := handle.NewShared[qconn.Connection](*wrapped)
	// SetSelf needs the handle's own address; patch it in via MutAccess so
	// every future access observes the filled-in value.
	_ = h.MutAccess(func(c *qconn.Connection) error {
		c.SetSelf(h.Addr())
		return nil
	})

	e.conns[connID] = h
	e.inbound[connID] = wrapped.Inbox()

	e.markPollable(connID)

	return h
}

// HandleDatagram feeds an inbound datagram into the protocol library and
// routes the result: a new connection gets registered and returned for the
// host to remember; an existing connection's event gets applied in place.
func (e *Endpoint) HandleDatagram(data []byte, from netaddr.Address) (newConn *handle.Shared[qconn.Connection], err error) {
	connID, isNew, ev, err := e.proto.HandleDatagram(data, from)
	if err != nil {
		return nil, quicerr.New(err.Error())
	}

	if isNew {
		adopter, ok := e.proto.(interface {
			AdoptServerConnection(id uint64) (quicproto.Connection, bool)
		})
		if !ok {
			return nil, quicerr.New("qendpoint: protocol library does not support server-side adoption")
		}

		proto, ok := adopter.AdoptServerConnection(connID)
		if !ok {
			return nil, quicerr.Newf("qendpoint: connection %d vanished before adoption", connID)
		}

		h := e.register(connID, proto)
		callback.CallNewConnection(e.self, h.Addr(), connID)
		return h, nil
	}

	// The forward edge is a weak-style lookup, not a lock acquisition: a
	// connection handle may be mid-access on another goroutine (a host
	// thread in read_stream/write_stream/poll_connection), and taking its
	// lock here — while the caller holds this endpoint's own lock — would
	// entangle the two and stall the whole endpoint behind one busy
	// connection. The event is handed off over its inbox channel instead,
	// which the connection drains for itself on its own next Poll.
	if _, ok := e.conns[connID]; !ok {
		return nil, quicerr.Newf("qendpoint: datagram for unknown connection %d", connID)
	}

	if ev != nil {
		if ch, ok := e.inbound[connID]; ok {
			select {
			case ch <- *ev:
			default:
				qlog.L().Warning("dropped inbound connection event, inbox full", nil)
			}
		}
	}

	e.markPollable(connID)

	return nil, nil
}

// Poll services up to IOLoopBound pollable connections: it drains one
// round of transmits and application events from each, forwards any
// structural endpoint events they raised, removes drained connections, and
// re-marks still-busy connections pollable for the next tick. again is true
// when the pollable ring held more than IOLoopBound entries, meaning the
// caller (the poller goroutine) should re-enter promptly instead of
// blocking on the notifier. err carries a panic recovered from inside a
// connection's own Poll (the first one observed this tick, if more than
// one panics) — it is never set merely because a connection's lock was
// busy, which is handled by re-marking it pollable instead.
func (e *Endpoint) Poll(now time.Time) (serviced int, again bool, err error) {
	ring := e.pollableRing
	e.pollableRing = nil
	for _, id := range ring {
		delete(e.pollable, id)
	}

	for i, connID := range ring {
		if i >= IOLoopBound {
			again = true
			for _, remaining := range ring[i:] {
				e.markPollable(remaining)
			}
			break
		}

		if _, ok := e.conns[connID]; !ok {
			continue
		}

		serviced++

		acquired, more, svcErr := e.servicePollable(connID, now)
		if svcErr != nil {
			qlog.L().Error("connection poll recovered from a panic", svcErr)
			if err == nil {
				err = svcErr
			}
		}

		if !acquired || more {
			e.markPollable(connID)
		}
	}

	if epT, ok := e.proto.PollTransmit(); ok {
		qlog.L().Debug("endpoint-level transmit pending without a connection to attribute it to", epT)
	}

	return serviced, again, err
}

// servicePollable drains one tick of work from connID via a non-blocking
// try-lock (§4.7: the poller backs off instead of stalling behind a host
// thread that holds the connection's lock). acquired is false only when
// the lock was busy; err is set only when TryMutAccess recovered a panic
// from inside the callback, which always implies acquired is also false —
// callers must check both rather than inferring a panic from !acquired
// alone. more reports whether the connection still has outstanding work
// once serviced (transmits, application events, or an endpoint event to
// forward), so the caller knows whether to re-mark it pollable.
func (e *Endpoint) servicePollable(connID uint64, now time.Time) (acquired, more bool, err error) {
	h, ok := e.conns[connID]
	if !ok {
		return true, false, nil
	}

	var (
		transmits, events int
		drained           bool
		epEvent           any
		hasEpEvent        bool
	)

	acquired, err = h.TryMutAccess(func(c *qconn.Connection) error {
		transmits, events = c.Poll(now)
		epEvent, hasEpEvent = c.PollEndpointEvent()
		drained = c.IsDrained()
		return nil
	})

	if err != nil || !acquired {
		return acquired, true, err
	}

	if hasEpEvent {
		if reciprocal := e.proto.HandleEvent(connID, epEvent); reciprocal != nil {
			if ch, ok := e.inbound[connID]; ok {
				select {
				case ch <- *reciprocal:
				default:
					qlog.L().Warning("dropped reciprocal connection event, inbox full", nil)
				}
			}
		}
	}

	if drained {
		delete(e.conns, connID)
		delete(e.inbound, connID)

		if forgetter, ok := e.proto.(interface{ Forget(id uint64) }); ok {
			forgetter.Forget(connID)
		}

		return true, false, nil
	}

	return true, transmits > 0 || events > 0 || hasEpEvent, nil
}

// NewHandle builds proto's wrapper and boxes it into a freshly allocated
// Shared handle, filling in the wrapper's self address once the handle
// exists. This is the constructor the FFI create_*_endpoint entry points
// call.
func NewHandle(proto quicproto.Endpoint) *handle.Shared[Endpoint] {
	ep := New(proto)
	ep.SetID(NextID())
	h := handle.NewShared[Endpoint](*ep)
	_ = h.MutAccess(func(e *Endpoint) error {
		e.SetSelf(h.Addr())
		return nil
	})
	return h
}
