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

// Package quicproto declares the narrow collaborator interface this runtime
// needs from a QUIC protocol state machine library (Endpoint, Connection,
// StreamID, VarInt, Transmit, EndpointEvent, ConnectionEvent, RecvStream,
// SendStream) and nothing else: the actual protocol state machine — wire
// parsing, congestion control, loss recovery, TLS key schedule — is out of
// scope per the runtime's design (§1) and is treated as an external
// collaborator.
//
// Subpackage memquic provides a minimal, self-contained implementation of
// these interfaces: enough of a handshake/stream/close simulation to drive
// the endpoint/connection/poller/FFI core end to end in tests, without
// pulling in a full competing protocol stack. It is not a QUIC
// implementation and must never be mistaken for one.
package quicproto

import (
	"bytes"

	"github.com/quic-go/quic-go/quicvarint"
)

// Dir is a stream's directionality, encoded at the ABI as 0 (bidirectional)
// or 1 (unidirectional).
type Dir uint8

const (
	DirBidi Dir = 0
	DirUni  Dir = 1
)

func (d Dir) String() string {
	if d == DirUni {
		return "uni"
	}
	return "bidi"
}

// VarInt is QUIC's variable-length integer, used at the ABI only through its
// 64-bit representation (§ GLOSSARY). Encoding/decoding is delegated to
// quic-go's quicvarint, a real published implementation of the wire format,
// rather than hand-rolled.
type VarInt uint64

// AppendVarInt appends v's QUIC varint encoding to b.
func AppendVarInt(b []byte, v uint64) []byte {
	return quicvarint.Append(b, v)
}

// ReadVarInt decodes a single QUIC varint from the front of r, returning the
// value and the number of bytes consumed.
func ReadVarInt(r *bytes.Reader) (uint64, error) {
	return quicvarint.Read(r)
}
