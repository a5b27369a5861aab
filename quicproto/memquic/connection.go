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

package memquic

import (
	"bytes"
	"sync"
	"time"

	"github.com/nabbar/quincore/netaddr"
	"github.com/nabbar/quincore/quicproto"
)

// Connection is memquic's quicproto.Connection implementation: a single
// simulated handshake plus an arbitrary number of multiplexed streams, with
// no retransmission or loss recovery (§9 design notes: this repo does not
// reimplement QUIC, it reference-implements just enough of it to drive the
// runtime core's own tests).
type Connection struct {
	mu sync.Mutex

	id       uint64
	peerID   uint64
	peerAddr netaddr.Address
	isServer bool

	established bool
	closing     bool

	serverName string

	pending   []quicproto.Transmit
	streamsFIFO []quicproto.StreamID

	streams      map[quicproto.StreamID]*stream
	acceptQueue  []quicproto.StreamID
	localNextBase [2]uint64

	appEvents []quicproto.AppEvent
}

func newConnection(id, peerID uint64, peerAddr netaddr.Address, isServer bool) *Connection {
	return &Connection{
		id:       id,
		peerID:   peerID,
		peerAddr: peerAddr,
		isServer: isServer,
		streams:  make(map[quicproto.StreamID]*stream),
	}
}

func (c *Connection) ID() uint64 {
	return c.id
}

// setPeer records the peer's connection id and observed address, learned
// from an inbound datagram's header. A client connection doesn't know its
// peer's id until the server's SHLO arrives.
func (c *Connection) setPeer(id uint64, addr netaddr.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.peerID = id
	c.peerAddr = addr
}

// HandleEvent applies a wire frame previously parsed by the owning
// Endpoint's HandleDatagram and routed here as a ConnectionEvent.Proto
// payload.
func (c *Connection) HandleEvent(proto any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch f := proto.(type) {
	case shloApplied:
		c.established = true
		c.appEvents = append(c.appEvents, quicproto.AppEvent{Kind: quicproto.AppEventConnected})

	case streamFrame:
		c.applyStreamFrame(f)

	case closeFrame:
		c.closing = true
		c.appEvents = append(c.appEvents, quicproto.AppEvent{
			Kind:   quicproto.AppEventConnectionLost,
			Reason: string(f.reason),
			Code:   f.code,
		})

	case pingFrame:
		// keepalive observed, nothing to surface to the application.
	}
}

// shloApplied and pingFrame are zero-size markers distinguishing a received
// SHLO/PING from the other proto payload types HandleEvent switches on.
type shloApplied struct{}
type pingFrame struct{}

func (c *Connection) applyStreamFrame(f streamFrame) {
	s, ok := c.streams[f.id]
	if !ok {
		s = &stream{id: f.id, dir: f.dir}
		c.streams[f.id] = s
		c.acceptQueue = append(c.acceptQueue, f.id)
		c.appEvents = append(c.appEvents, quicproto.AppEvent{
			Kind: quicproto.AppEventStreamOpened, StreamID: f.id, HasStreamID: true, Dir: f.dir,
		})
	}

	if len(f.data) > 0 {
		s.recv = append(s.recv, f.data)
		c.appEvents = append(c.appEvents, quicproto.AppEvent{
			Kind: quicproto.AppEventStreamReadable, StreamID: f.id, HasStreamID: true, Dir: f.dir,
		})
	}

	if f.fin {
		c.appEvents = append(c.appEvents, quicproto.AppEvent{
			Kind: quicproto.AppEventStreamFinished, StreamID: f.id, HasStreamID: true, Dir: f.dir,
		})
	}
}

func (c *Connection) Ping() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, quicproto.Transmit{
		Destination: c.peerAddr,
		Payload:     encodePing(c.peerID, c.id),
	})
}

func (c *Connection) Close(_ time.Time, code quicproto.VarInt, reason []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closing {
		return
	}

	c.closing = true
	c.pending = append(c.pending, quicproto.Transmit{
		Destination: c.peerAddr,
		Payload:     encodeClose(c.peerID, c.id, closeFrame{code: code, reason: reason}),
	})
}

func (c *Connection) PollTimeout() *time.Time {
	return nil
}

func (c *Connection) HandleTimeout(_ time.Time) {}

func (c *Connection) PollTransmit(_ time.Time, _ int) (quicproto.Transmit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pending) > 0 {
		t := c.pending[0]
		c.pending = c.pending[1:]
		return t, true
	}

	for len(c.streamsFIFO) > 0 {
		id := c.streamsFIFO[0]
		c.streamsFIFO = c.streamsFIFO[1:]

		s, ok := c.streams[id]
		if !ok || len(s.send) == 0 {
			continue
		}

		data := s.send
		s.send = nil

		return quicproto.Transmit{
			Destination: c.peerAddr,
			Payload: encodeStream(c.peerID, c.id, streamFrame{
				id: id, dir: s.dir, data: data,
			}),
		}, true
	}

	return quicproto.Transmit{}, false
}

func (c *Connection) PollEndpointEvents() (any, bool) {
	return nil, false
}

func (c *Connection) PollAppEvent() (quicproto.AppEvent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.appEvents) == 0 {
		return quicproto.AppEvent{}, false
	}

	ev := c.appEvents[0]
	c.appEvents = c.appEvents[1:]
	return ev, true
}

func (c *Connection) IsDrained() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closing && len(c.pending) == 0
}

func (c *Connection) AcceptStream(dir quicproto.Dir) (quicproto.StreamID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, id := range c.acceptQueue {
		if s, ok := c.streams[id]; ok && s.dir == dir {
			c.acceptQueue = append(c.acceptQueue[:i], c.acceptQueue[i+1:]...)
			return id, nil
		}
	}

	return 0, quicproto.ErrNoStreamToAccept
}

func (c *Connection) OpenStream(dir quicproto.Dir) (quicproto.StreamID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	base := c.localNextBase[dir]
	if base >= maxStreamsPerDir {
		return 0, quicproto.ErrStreamsExhausted
	}

	id := packStreamID(base, c.isServer, dir)
	c.localNextBase[dir]++
	c.streams[id] = &stream{id: id, dir: dir}

	return id, nil
}

func (c *Connection) RecvStream(id quicproto.StreamID) (quicproto.RecvStream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.streams[id]
	if !ok {
		return nil, quicproto.ErrNoStreamToAccept
	}

	return recvStream{s: s}, nil
}

func (c *Connection) SendStream(id quicproto.StreamID) (quicproto.SendStream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.streams[id]
	if !ok {
		return nil, quicproto.ErrNoStreamToAccept
	}

	return sendStream{s: s, c: c}, nil
}

func (c *Connection) markStreamPending(id quicproto.StreamID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.streamsFIFO = append(c.streamsFIFO, id)
}

// decodeBody parses the frame-specific body following a CHLO/SHLO/STREAM/
// CLOSE/PING header, returning the typed payload HandleEvent switches on.
func decodeBody(t frameType, r *bytes.Reader) (any, error) {
	switch t {
	case frameSHLO:
		return shloApplied{}, nil
	case frameStream:
		return decodeStream(r)
	case frameClose:
		return decodeClose(r)
	case framePing:
		return pingFrame{}, nil
	default:
		return nil, nil
	}
}
