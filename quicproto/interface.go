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

package quicproto

import (
	"errors"
	"time"

	"github.com/nabbar/quincore/netaddr"
)

// ErrNoDefaultClientConfig is returned by Endpoint.Connect when no default
// client configuration was ever set via SetDefaultClientConfig.
var ErrNoDefaultClientConfig = errors.New("quicproto: no default client config")

// ErrStreamsExhausted is returned by Connection.OpenStream when the
// direction's stream quota has been exhausted.
var ErrStreamsExhausted = errors.New("quicproto: streams exhausted in direction")

// ErrNoStreamToAccept is returned by Connection.AcceptStream when the
// protocol library's accept queue for the direction is empty.
var ErrNoStreamToAccept = errors.New("quicproto: no stream to accept")

// ErrBlocked names the "no data currently available" condition, which is
// not fatal. RecvStream.Read reports it through its ok result rather than
// returning this error.
var ErrBlocked = errors.New("quicproto: blocked")

// ClientConfig and ServerConfig are opaque handles to a collaborator TLS
// configuration; this core never inspects their contents, only threads them
// through to Endpoint.Connect/CreateServerEndpoint.
type ClientConfig any
type ServerConfig any

// Endpoint is the narrow interface this runtime needs from a QUIC endpoint
// state machine (§4.6).
type Endpoint interface {
	// PollTransmit drains one endpoint-level datagram (e.g. a stateless
	// reset), if any is pending.
	PollTransmit() (Transmit, bool)

	// HandleDatagram feeds an inbound datagram to the protocol library. It
	// either creates a brand new connection (isNew true, connID is the
	// new connection's id) or demultiplexes to an existing connection and
	// returns the ConnectionEvent that must be forwarded to it.
	HandleDatagram(data []byte, from netaddr.Address) (connID uint64, isNew bool, ev *ConnectionEvent, err error)

	// HandleEvent applies a structural EndpointEvent.Proto payload
	// previously raised by some connection, and indicates whether a
	// reciprocal ConnectionEvent must be routed back to that connection.
	HandleEvent(connID uint64, proto any) (reciprocal *ConnectionEvent)

	// Connect opens a client connection using cfg.
	Connect(cfg ClientConfig, addr netaddr.Address, serverName string) (connID uint64, conn Connection, err error)
}

// Connection is the narrow interface this runtime needs from a QUIC
// connection state machine (§4.5).
type Connection interface {
	ID() uint64

	// HandleEvent applies a ConnectionEvent.Proto payload routed from the
	// owning endpoint.
	HandleEvent(proto any)

	Ping()
	Close(now time.Time, code VarInt, reason []byte)

	PollTimeout() *time.Time
	HandleTimeout(now time.Time)

	// PollTransmit drains one pending outbound datagram, up to
	// maxDatagrams worth of work per call (the protocol library is free to
	// ignore maxDatagrams > 1 and always produce at most one).
	PollTransmit(now time.Time, maxDatagrams int) (Transmit, bool)

	// PollEndpointEvents drains one structural update destined for the
	// owning endpoint.
	PollEndpointEvents() (proto any, ok bool)

	// PollAppEvent drains one application-visible event.
	PollAppEvent() (AppEvent, bool)

	// IsDrained reports whether the connection has fully closed and may be
	// removed from the endpoint's maps.
	IsDrained() bool

	AcceptStream(dir Dir) (StreamID, error)
	OpenStream(dir Dir) (StreamID, error)

	RecvStream(id StreamID) (RecvStream, error)
	SendStream(id StreamID) (SendStream, error)
}

// RecvStream is a single stream's receive half.
type RecvStream interface {
	// Read copies at most len(buf) bytes of the next chunk into buf. A
	// nil error with n == 0 and ok == false (the blocked condition, via the
	// bool return) means no data is currently available.
	Read(buf []byte) (n int, ok bool, err error)
}

// SendStream is a single stream's send half.
type SendStream interface {
	// Write accepts as many of data's bytes as the stream's flow-control
	// window allows right now and returns how many were accepted.
	Write(data []byte) (n int, err error)
}
