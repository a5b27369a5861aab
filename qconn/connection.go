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

// Package qconn wraps a quicproto.Connection with the ABI-facing behavior
// the runtime core owns on top of it: bounded per-tick draining of
// transmits and application events, and dispatch of the latter onto the
// process-wide callback registry (§4.5 CONNECTION).
package qconn

import (
	"time"

	"github.com/nabbar/quincore/callback"
	"github.com/nabbar/quincore/handle"
	"github.com/nabbar/quincore/qlog"
	"github.com/nabbar/quincore/quicerr"
	"github.com/nabbar/quincore/quicproto"
)

// MaxTransmitsPerTick bounds how many datagrams and application events a
// single Poll call drains from the underlying protocol library, so one
// connection can never starve its endpoint's other connections within a
// single poller tick. It also sizes the inbound event channel below, so a
// burst of datagrams arriving between two ticks can queue up without the
// endpoint blocking on a full inbox.
const MaxTransmitsPerTick = 32

// Connection is the T boxed by a *handle.Shared[Connection] exposed across
// the ABI. All synchronization is the owning Shared's mutex: every method
// here assumes it is already called from inside a RefAccess/MutAccess
// closure and takes no lock of its own. The one exception is inbox: it is
// a channel precisely so the owning endpoint can hand this connection an
// event without acquiring this connection's lock (§9 design note on
// breaking the endpoint/connection lock cycle).
type Connection struct {
	id       uint64
	proto    quicproto.Connection
	self     handle.Addr
	endpoint handle.Addr
	inbox    chan quicproto.ConnectionEvent
}

// New wraps proto, identified by id, for an endpoint reachable at
// endpointAddr. self is filled in by SetSelf once the owning Shared handle
// exists, since the address isn't known until after NewShared runs.
func New(id uint64, proto quicproto.Connection, endpointAddr handle.Addr) *Connection {
	return &Connection{
		id:       id,
		proto:    proto,
		endpoint: endpointAddr,
		inbox:    make(chan quicproto.ConnectionEvent, MaxTransmitsPerTick),
	}
}

// Inbox returns the send-only end of the channel the owning endpoint
// enqueues inbound ConnectionEvents onto. It is a one-way back-edge: the
// endpoint never needs this connection's lock to reach it, only a map
// lookup that tolerates a missing entry.
func (c *Connection) Inbox() chan<- quicproto.ConnectionEvent {
	return c.inbox
}

// SetSelf records the address of the Shared handle boxing this connection,
// so callback dispatch can identify which connection an event came from.
func (c *Connection) SetSelf(addr handle.Addr) {
	c.self = addr
}

func (c *Connection) ID() uint64 {
	return c.id
}

func (c *Connection) Self() handle.Addr {
	return c.self
}

// HandleEvent applies a ConnectionEvent routed from the owning endpoint.
func (c *Connection) HandleEvent(ev quicproto.ConnectionEvent) {
	switch ev.Kind {
	case quicproto.ConnEventProto:
		c.proto.HandleEvent(ev.Proto)
	case quicproto.ConnEventClose:
		c.proto.Close(time.Now(), ev.CloseCode, ev.CloseReason)
	case quicproto.ConnEventPing:
		c.proto.Ping()
	}
}

// Poll advances the connection by one tick: it applies any due timeout,
// drains up to MaxTransmitsPerTick pending datagrams (dispatching each to
// the on_transmit callback), and drains up to MaxTransmitsPerTick
// application events (dispatching each to its corresponding callback).
// It returns the number of datagrams and application events processed,
// either of which being non-zero means this connection did useful work
// this tick.
func (c *Connection) Poll(now time.Time) (transmits int, events int) {
	c.drainInbox()

	if t := c.proto.PollTimeout(); t != nil && !now.Before(*t) {
		c.proto.HandleTimeout(now)
	}

	for i := 0; i < MaxTransmitsPerTick; i++ {
		tr, ok := c.proto.PollTransmit(now, 1)
		if !ok {
			break
		}

		transmits++
		if _, handled := callback.CallTransmit(c.endpoint, tr.Destination, tr.Payload); !handled {
			qlog.L().Warning("dropped outbound datagram, no on_transmit callback registered", nil)
		}
	}

	for i := 0; i < MaxTransmitsPerTick; i++ {
		ev, ok := c.proto.PollAppEvent()
		if !ok {
			break
		}

		events++
		c.dispatch(ev)
	}

	return transmits, events
}

// drainInbox applies any ConnectionEvents the owning endpoint queued onto
// inbox since this connection's last Poll, without either side ever having
// to hold the other's lock.
func (c *Connection) drainInbox() {
	for i := 0; i < MaxTransmitsPerTick; i++ {
		select {
		case ev := <-c.inbox:
			c.HandleEvent(ev)
		default:
			return
		}
	}
}

func (c *Connection) dispatch(ev quicproto.AppEvent) {
	switch ev.Kind {
	case quicproto.AppEventConnected:
		callback.CallConnected(c.self)
	case quicproto.AppEventHandshakeDataReady:
		callback.CallHandshakeData(c.self)
	case quicproto.AppEventConnectionLost:
		callback.CallConnectionLost(c.self, uint64(ev.Code), ev.Reason)
	case quicproto.AppEventStreamOpened:
		callback.CallStreamOpened(c.self, quicproto.EncodeStreamID(ev.StreamID), uint8(ev.Dir))
	case quicproto.AppEventStreamReadable:
		callback.CallStreamReadable(c.self, quicproto.EncodeStreamID(ev.StreamID))
	case quicproto.AppEventStreamWritable:
		callback.CallStreamWritable(c.self, quicproto.EncodeStreamID(ev.StreamID))
	case quicproto.AppEventStreamFinished:
		callback.CallStreamFinished(c.self, quicproto.EncodeStreamID(ev.StreamID))
	case quicproto.AppEventStreamStopped:
		callback.CallStreamStopped(c.self, quicproto.EncodeStreamID(ev.StreamID), uint64(ev.Code))
	case quicproto.AppEventStreamAvailable:
		callback.CallStreamAvailable(c.self, uint8(ev.Dir))
	case quicproto.AppEventDatagramReceived:
		callback.CallDatagramReceived(c.self, nil)
	}
}

// PollEndpointEvent drains one structural update meant for the owning
// endpoint, if any. Called by qendpoint after Poll to learn about updates
// such as new connection ids.
func (c *Connection) PollEndpointEvent() (any, bool) {
	return c.proto.PollEndpointEvents()
}

func (c *Connection) IsDrained() bool {
	return c.proto.IsDrained()
}

func (c *Connection) Close(code quicproto.VarInt, reason []byte) {
	c.proto.Close(time.Now(), code, reason)
}

func (c *Connection) AcceptStream(dir quicproto.Dir) (quicproto.StreamID, error) {
	return c.proto.AcceptStream(dir)
}

func (c *Connection) OpenStream(dir quicproto.Dir) (quicproto.StreamID, error) {
	return c.proto.OpenStream(dir)
}

// ReadStream copies the next available chunk of stream id into buf. ok is
// false when the stream has no data ready right now; the caller maps that
// to the ABI's BufferBlocked result, not an error.
func (c *Connection) ReadStream(id quicproto.StreamID, buf []byte) (n int, ok bool, err error) {
	rs, err := c.proto.RecvStream(id)
	if err != nil {
		return 0, false, quicerr.New(err.Error())
	}
	return rs.Read(buf)
}

func (c *Connection) WriteStream(id quicproto.StreamID, data []byte) (n int, err error) {
	ws, err := c.proto.SendStream(id)
	if err != nil {
		return 0, quicerr.New(err.Error())
	}
	n, err = ws.Write(data)
	if err != nil {
		return n, quicerr.New(err.Error())
	}
	return n, nil
}
