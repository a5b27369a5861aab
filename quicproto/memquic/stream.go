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
	"github.com/nabbar/quincore/quicproto"
)

// maxStreamsPerDir bounds how many locally-initiated streams a direction may
// open before OpenStream starts returning ErrStreamsExhausted.
const maxStreamsPerDir = 128

type stream struct {
	id   quicproto.StreamID
	dir  quicproto.Dir
	recv [][]byte
	send []byte
}

// recvStream is the RecvStream half handed to the FFI layer for one stream.
type recvStream struct {
	s *stream
}

func (r recvStream) Read(buf []byte) (int, bool, error) {
	if len(r.s.recv) == 0 {
		return 0, false, nil
	}

	chunk := r.s.recv[0]
	n := copy(buf, chunk)

	if n == len(chunk) {
		r.s.recv = r.s.recv[1:]
	} else {
		r.s.recv[0] = chunk[n:]
	}

	return n, true, nil
}

// sendStream is the SendStream half handed to the FFI layer for one stream.
type sendStream struct {
	s *stream
	c *Connection
}

func (w sendStream) Write(data []byte) (int, error) {
	w.s.send = append(w.s.send, data...)
	w.c.markStreamPending(w.s.id)
	return len(data), nil
}
