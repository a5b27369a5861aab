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
	"bytes"
)

// StreamID identifies a unidirectional or bidirectional stream within a
// connection. It is the protocol library's native identifier type; the ABI
// never sees more of it than its 64-bit value (§ GLOSSARY).
type StreamID uint64

// EncodeStreamID produces the ABI's 64-bit wire representation of id via the
// QUIC varint format, so the same encoder used for transmit framing is also
// exercised for stream ids crossing the boundary.
func EncodeStreamID(id StreamID) uint64 {
	b := AppendVarInt(nil, uint64(id))
	v, _ := ReadVarInt(bytes.NewReader(b))
	return v
}

// DecodeStreamID is EncodeStreamID's inverse: every id this runtime ever
// hands to the host round-trips back through it unchanged (§8 round-trip
// laws).
func DecodeStreamID(v uint64) StreamID {
	return StreamID(v)
}
