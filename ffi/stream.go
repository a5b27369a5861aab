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

package ffi

import (
	"github.com/nabbar/quincore/ffiio"
	"github.com/nabbar/quincore/ffiresult"
	"github.com/nabbar/quincore/handle"
	"github.com/nabbar/quincore/qconn"
	"github.com/nabbar/quincore/quicerr"
	"github.com/nabbar/quincore/quicproto"
)

func resolveConnection(connHandle handle.Addr) (*handle.Shared[qconn.Connection], error) {
	if connHandle.IsNull() {
		return nil, quicerr.ArgumentNull("connection_handle")
	}
	h, ok := handle.SharedFromAddr[qconn.Connection](connHandle)
	if !ok {
		return nil, quicerr.FFI("connection_handle")
	}
	return h, nil
}

// doAcceptStream and doOpenStream implement accept_stream / open_stream
// (§6 Streams): both report the stream's 64-bit id via its varint wire
// encoding (quicproto.EncodeStreamID), matching every other id crossing
// this ABI.
func doAcceptStream(connHandle handle.Addr, dir uint8, outStreamID ffiio.Out[uint64]) ffiresult.Result {
	if outStreamID.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("out_stream_id"))
	}

	h, err := resolveConnection(connHandle)
	if err != nil {
		return ffiresult.Context(err)
	}

	var sid quicproto.StreamID
	err = h.MutAccess(func(c *qconn.Connection) error {
		var innerErr error
		sid, innerErr = c.AcceptStream(quicproto.Dir(dir))
		return innerErr
	})
	if err != nil {
		return ffiresult.Context(err)
	}

	outStreamID.Init(quicproto.EncodeStreamID(sid))
	return ffiresult.Context(nil)
}

func doOpenStream(connHandle handle.Addr, dir uint8, outStreamID ffiio.Out[uint64]) ffiresult.Result {
	if outStreamID.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("out_stream_id"))
	}

	h, err := resolveConnection(connHandle)
	if err != nil {
		return ffiresult.Context(err)
	}

	var sid quicproto.StreamID
	err = h.MutAccess(func(c *qconn.Connection) error {
		var innerErr error
		sid, innerErr = c.OpenStream(quicproto.Dir(dir))
		return innerErr
	})
	if err != nil {
		return ffiresult.Context(err)
	}

	outStreamID.Init(quicproto.EncodeStreamID(sid))
	return ffiresult.Context(nil)
}

// doReadStream implements read_stream (§6 Streams). A stream with nothing
// ready right now reports BufferBlocked, not Error: that is not a fatal
// condition (quicproto.RecvStream.Read's ok==false case).
func doReadStream(connHandle handle.Addr, streamID uint64, buf ffiio.OutBytes, outActualLen ffiio.Out[int32]) ffiresult.Result {
	if buf.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("buf_out"))
	}
	if outActualLen.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("out_actual_len"))
	}

	h, err := resolveConnection(connHandle)
	if err != nil {
		return ffiresult.Context(err)
	}

	sid := quicproto.DecodeStreamID(streamID)
	tmp := make([]byte, buf.Len())

	var (
		n       int
		blocked bool
	)
	err = h.MutAccess(func(c *qconn.Connection) error {
		var (
			innerErr error
			ok       bool
		)
		n, ok, innerErr = c.ReadStream(sid, tmp)
		blocked = !ok
		return innerErr
	})
	if err != nil {
		return ffiresult.Context(err)
	}
	if blocked {
		return ffiresult.Context(quicerr.BufferBlocked())
	}

	buf.InitBytes(tmp[:n])
	outActualLen.Init(int32(n))

	return ffiresult.Context(nil)
}

// doWriteStream implements write_stream (§6 Streams): accepts as many of
// the host's bytes as the stream's flow-control window allows right now and
// reports how many were actually consumed.
func doWriteStream(connHandle handle.Addr, streamID uint64, buf ffiio.RefBytes, outWritten ffiio.Out[int32]) ffiresult.Result {
	if buf.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("buf"))
	}
	if outWritten.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("out_written"))
	}

	h, err := resolveConnection(connHandle)
	if err != nil {
		return ffiresult.Context(err)
	}

	sid := quicproto.DecodeStreamID(streamID)
	data := buf.AsBytes(buf.Len())

	var n int
	err = h.MutAccess(func(c *qconn.Connection) error {
		var innerErr error
		n, innerErr = c.WriteStream(sid, data)
		return innerErr
	})
	if err != nil {
		return ffiresult.Context(err)
	}

	outWritten.Init(int32(n))
	return ffiresult.Context(nil)
}
