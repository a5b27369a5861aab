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

// Package memquic is a minimal, self-contained simulation of a QUIC
// handshake and stream multiplexer: enough wire-shaped behavior to drive
// the runtime core's endpoint/connection/poller/FFI plumbing end to end
// with real (if not cryptographically real) traffic, rather than mocks
// alone (§3.1 DOMAIN STACK). It performs no cryptography and is not a QUIC
// implementation.
package memquic

import (
	"bytes"
	"fmt"

	"github.com/nabbar/quincore/quicproto"
)

type frameType byte

const (
	frameCHLO frameType = iota + 1
	frameSHLO
	frameStream
	frameClose
	framePing
)

// header is common to every simulated datagram: which local connection id
// the sender expects the receiver to demultiplex on (destConnID), and the
// id the sender uses for itself (srcConnID), mirroring real QUIC's
// destination/source connection id fields. destConnID 0 means "none yet",
// used only by the initial CHLO.
type header struct {
	typ         frameType
	destConnID  uint64
	srcConnID   uint64
}

func encodeHeader(h header) []byte {
	b := make([]byte, 0, 24)
	b = append(b, byte(h.typ))
	b = quicproto.AppendVarInt(b, h.destConnID)
	b = quicproto.AppendVarInt(b, h.srcConnID)
	return b
}

func decodeHeader(r *bytes.Reader) (header, error) {
	t, err := r.ReadByte()
	if err != nil {
		return header{}, fmt.Errorf("memquic: short header: %w", err)
	}

	dest, err := quicproto.ReadVarInt(r)
	if err != nil {
		return header{}, fmt.Errorf("memquic: bad dest conn id: %w", err)
	}

	src, err := quicproto.ReadVarInt(r)
	if err != nil {
		return header{}, fmt.Errorf("memquic: bad src conn id: %w", err)
	}

	return header{typ: frameType(t), destConnID: dest, srcConnID: src}, nil
}

// chloFrame is the client's handshake-initiation payload.
type chloFrame struct {
	serverName string
}

func encodeCHLO(destID, srcID uint64, serverName string) []byte {
	b := encodeHeader(header{typ: frameCHLO, destConnID: destID, srcConnID: srcID})
	b = quicproto.AppendVarInt(b, uint64(len(serverName)))
	b = append(b, serverName...)
	return b
}

func decodeCHLO(r *bytes.Reader) (chloFrame, error) {
	n, err := quicproto.ReadVarInt(r)
	if err != nil {
		return chloFrame{}, err
	}

	buf := make([]byte, n)
	if _, err = r.Read(buf); err != nil {
		return chloFrame{}, err
	}

	return chloFrame{serverName: string(buf)}, nil
}

func encodeSHLO(destID, srcID uint64) []byte {
	return encodeHeader(header{typ: frameSHLO, destConnID: destID, srcConnID: srcID})
}

// streamFrame carries one contiguous chunk of stream data.
type streamFrame struct {
	id   quicproto.StreamID
	dir  quicproto.Dir
	fin  bool
	data []byte
}

func encodeStream(destID, srcID uint64, f streamFrame) []byte {
	b := encodeHeader(header{typ: frameStream, destConnID: destID, srcConnID: srcID})
	b = quicproto.AppendVarInt(b, uint64(f.id))
	b = append(b, byte(f.dir))
	if f.fin {
		b = append(b, 1)
	} else {
		b = append(b, 0)
	}
	b = quicproto.AppendVarInt(b, uint64(len(f.data)))
	b = append(b, f.data...)
	return b
}

func decodeStream(r *bytes.Reader) (streamFrame, error) {
	id, err := quicproto.ReadVarInt(r)
	if err != nil {
		return streamFrame{}, err
	}

	dirB, err := r.ReadByte()
	if err != nil {
		return streamFrame{}, err
	}

	finB, err := r.ReadByte()
	if err != nil {
		return streamFrame{}, err
	}

	n, err := quicproto.ReadVarInt(r)
	if err != nil {
		return streamFrame{}, err
	}

	buf := make([]byte, n)
	if n > 0 {
		if _, err = r.Read(buf); err != nil {
			return streamFrame{}, err
		}
	}

	return streamFrame{
		id:   quicproto.DecodeStreamID(id),
		dir:  quicproto.Dir(dirB),
		fin:  finB == 1,
		data: buf,
	}, nil
}

// closeFrame asks the peer to drain its connection.
type closeFrame struct {
	code   quicproto.VarInt
	reason []byte
}

func encodeClose(destID, srcID uint64, f closeFrame) []byte {
	b := encodeHeader(header{typ: frameClose, destConnID: destID, srcConnID: srcID})
	b = quicproto.AppendVarInt(b, uint64(f.code))
	b = quicproto.AppendVarInt(b, uint64(len(f.reason)))
	b = append(b, f.reason...)
	return b
}

func decodeClose(r *bytes.Reader) (closeFrame, error) {
	code, err := quicproto.ReadVarInt(r)
	if err != nil {
		return closeFrame{}, err
	}

	n, err := quicproto.ReadVarInt(r)
	if err != nil {
		return closeFrame{}, err
	}

	buf := make([]byte, n)
	if n > 0 {
		if _, err = r.Read(buf); err != nil {
			return closeFrame{}, err
		}
	}

	return closeFrame{code: quicproto.VarInt(code), reason: buf}, nil
}

func encodePing(destID, srcID uint64) []byte {
	return encodeHeader(header{typ: framePing, destConnID: destID, srcConnID: srcID})
}

// streamID packing: the two low bits of the base-4 id space encode
// directionality in bit 0 (0 = bidi, 1 = uni) and initiator in bit 1
// (0 = client, 1 = server), so client- and server-initiated streams of the
// same directionality never collide.
func packStreamID(base uint64, serverInitiated bool, dir quicproto.Dir) quicproto.StreamID {
	var initBit uint64
	if serverInitiated {
		initBit = 1
	}
	return quicproto.StreamID(base*4 + initBit<<1 | uint64(dir))
}

func unpackStreamID(id quicproto.StreamID) (base uint64, serverInitiated bool, dir quicproto.Dir) {
	v := uint64(id)
	dir = quicproto.Dir(v & 1)
	serverInitiated = (v>>1)&1 == 1
	base = v / 4
	return
}
