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
	"github.com/nabbar/quincore/quicerr"
)

// doLastError implements last_error (§6 Errors). Unlike every other do*
// function, it must not be wrapped in ffiresult.Catch: Catch clears the
// calling thread's last-error cell before running its body, which would
// erase the very error the host is asking about. It reads the cell through
// FromLastResult instead, which only observes it.
//
// actual_len always reports the reason's full length, even when buf is
// shorter: a BufferTooSmall result tells the host how large a buffer to
// retry with (§8 scenario: buffer too small).
func doLastError(buf ffiio.OutBytes, outActualLen ffiio.Out[int32]) ffiresult.Result {
	if buf.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("buf_out"))
	}
	if outActualLen.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("out_actual_len"))
	}

	return ffiresult.FromLastResult(func(err *quicerr.Error) ffiresult.Result {
		reason := ffiresult.Reason(err)
		outActualLen.Init(int32(len(reason)))

		if len(reason) > buf.Len() {
			buf.InitBytes([]byte(reason))
			return ffiresult.AsResult(ffiresult.BufferTooSmall)
		}

		buf.InitBytes([]byte(reason))
		return ffiresult.AsResult(ffiresult.Ok)
	})
}
