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

// ConnectionEventKind discriminates the tagged union the endpoint routes to
// a connection's inbound channel (§3 DATA MODEL, ConnectionEvent).
type ConnectionEventKind uint8

const (
	// ConnEventProto carries a wire-derived update from the protocol
	// library, opaque to everything except the protocol library's own
	// HandleEvent.
	ConnEventProto ConnectionEventKind = iota
	// ConnEventClose asks the connection to begin closing with the given
	// code and reason.
	ConnEventClose
	// ConnEventPing asks the connection to emit a keepalive.
	ConnEventPing
)

// ConnectionEvent is the tagged union routed from the endpoint to a
// connection's inbound event channel.
type ConnectionEvent struct {
	Kind ConnectionEventKind

	Proto any

	CloseCode   VarInt
	CloseReason []byte
}

// EndpointEventKind discriminates the tagged union a connection routes back
// to its owning endpoint (§3 DATA MODEL, EndpointEvent).
type EndpointEventKind uint8

const (
	// EndpointEventProto carries a structural update (e.g. a new
	// connection-id announcement) from connection to endpoint.
	EndpointEventProto EndpointEventKind = iota
	// EndpointEventTransmit carries a datagram that must be sent.
	EndpointEventTransmit
)

// EndpointEvent is the tagged union a connection sends to its owning
// endpoint's event inbox.
type EndpointEvent struct {
	Kind EndpointEventKind

	Proto any
	Transmit Transmit
}
