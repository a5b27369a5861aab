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
	"fmt"
	"sync"

	"github.com/nabbar/quincore/netaddr"
	"github.com/nabbar/quincore/quicproto"
)

// Endpoint is memquic's quicproto.Endpoint implementation. It owns the
// connection-id namespace for every connection it has accepted or opened.
type Endpoint struct {
	mu sync.Mutex

	serverName string
	isServer   bool

	nextConnID uint64
	conns      map[uint64]*Connection
}

// NewServerEndpoint builds an Endpoint that accepts inbound CHLOs. cfg is
// accepted for interface symmetry with NewClientEndpoint / Connect and is
// not otherwise inspected here; the FFI layer is responsible for validating
// it against the certificates package before this point.
func NewServerEndpoint(_ quicproto.ServerConfig) *Endpoint {
	return &Endpoint{isServer: true, nextConnID: 1, conns: make(map[uint64]*Connection)}
}

// NewClientEndpoint builds an Endpoint that only ever originates
// connections via Connect.
func NewClientEndpoint() *Endpoint {
	return &Endpoint{nextConnID: 1, conns: make(map[uint64]*Connection)}
}

func (e *Endpoint) PollTransmit() (quicproto.Transmit, bool) {
	return quicproto.Transmit{}, false
}

func (e *Endpoint) HandleDatagram(data []byte, from netaddr.Address) (uint64, bool, *quicproto.ConnectionEvent, error) {
	r := bytes.NewReader(data)

	h, err := decodeHeader(r)
	if err != nil {
		return 0, false, nil, err
	}

	e.mu.Lock()

	if h.typ == frameCHLO {
		defer e.mu.Unlock()

		if h.destConnID != 0 {
			return 0, false, nil, fmt.Errorf("memquic: CHLO with non-zero dest conn id")
		}

		chlo, err := decodeCHLO(r)
		if err != nil {
			return 0, false, nil, err
		}

		id := e.nextConnID
		e.nextConnID++

		conn := newConnection(id, h.srcConnID, from, true)
		conn.serverName = chlo.serverName
		conn.established = true
		conn.pending = append(conn.pending, quicproto.Transmit{
			Destination: from,
			Payload:     encodeSHLO(h.srcConnID, id),
		})
		conn.appEvents = append(conn.appEvents, quicproto.AppEvent{Kind: quicproto.AppEventConnected})

		e.conns[id] = conn

		return id, true, nil, nil
	}

	conn, ok := e.conns[h.destConnID]
	e.mu.Unlock()

	if !ok {
		return 0, false, nil, fmt.Errorf("memquic: unknown connection %d", h.destConnID)
	}

	conn.setPeer(h.srcConnID, from)

	body, err := decodeBody(h.typ, r)
	if err != nil {
		return 0, false, nil, err
	}

	return conn.ID(), false, &quicproto.ConnectionEvent{Kind: quicproto.ConnEventProto, Proto: body}, nil
}

func (e *Endpoint) HandleEvent(_ uint64, _ any) *quicproto.ConnectionEvent {
	return nil
}

func (e *Endpoint) Connect(cfg quicproto.ClientConfig, addr netaddr.Address, serverName string) (uint64, quicproto.Connection, error) {
	if cfg == nil {
		return 0, nil, quicproto.ErrNoDefaultClientConfig
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextConnID
	e.nextConnID++

	conn := newConnection(id, 0, addr, false)
	conn.serverName = serverName
	conn.pending = append(conn.pending, quicproto.Transmit{
		Destination: addr,
		Payload:     encodeCHLO(0, id, serverName),
	})

	e.conns[id] = conn

	return id, conn, nil
}

// AdoptServerConnection registers a *Connection created internally by
// HandleDatagram (the isNew==true path) so subsequent datagrams addressed
// to its id resolve. The qendpoint wrapper calls this once it has finished
// wrapping the new connection id into its own bookkeeping.
func (e *Endpoint) AdoptServerConnection(id uint64) (quicproto.Connection, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.conns[id]
	return c, ok
}

// Forget removes a drained connection's bookkeeping from the endpoint.
func (e *Endpoint) Forget(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.conns, id)
}
