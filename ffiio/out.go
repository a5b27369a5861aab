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

package ffiio

import (
	"unsafe"
)

// Out represents a host-provided, uninitialized-but-valid-for-writes
// destination for a single value of T. There is deliberately no getter: a
// write-only adapter cannot be read back from, by convention, so a caller
// can never observe the host's uninitialized memory.
type Out[T any] struct {
	ptr *T
}

// NewOut wraps a raw pointer obtained from the C side. A nil ptr is allowed;
// IsNull will report it so the caller can reject it before use.
func NewOut[T any](ptr unsafe.Pointer) Out[T] {
	return Out[T]{ptr: (*T)(ptr)}
}

// IsNull reports whether the underlying destination pointer is nil.
func (o Out[T]) IsNull() bool {
	return o.ptr == nil
}

// Init performs a non-dropping write of value into the destination.
func (o Out[T]) Init(value T) {
	*o.ptr = value
}

// OutBytes is Out specialized for a raw byte destination plus a declared
// capacity, the shape every buf_out/buf_len pair in §6 takes.
type OutBytes struct {
	ptr unsafe.Pointer
	len int
}

// NewOutBytes wraps a raw (ptr, len) pair describing a host-owned byte
// buffer that this call may write into, up to len bytes.
func NewOutBytes(ptr unsafe.Pointer, length int) OutBytes {
	return OutBytes{ptr: ptr, len: length}
}

// IsNull reports whether the destination pointer is nil or its declared
// length is non-positive.
func (o OutBytes) IsNull() bool {
	return o.ptr == nil || o.len <= 0
}

// Len returns the destination's declared capacity.
func (o OutBytes) Len() int {
	return o.len
}

// InitBytes copies src into the destination. It copies at most Len(src)
// bytes and returns the number of bytes actually written, which is
// min(len(src), o.Len()); the caller is responsible for surfacing
// BufferTooSmall when the two differ.
func (o OutBytes) InitBytes(src []byte) int {
	dst := o.AsUninitBytes(o.len)
	n := copy(dst, src)
	return n
}

// AsUninitBytes exposes the destination as a write-only byte slice bounded
// by n (which must not exceed o.Len()). The returned slice aliases host
// memory: every write lands directly in the caller's buffer.
func (o OutBytes) AsUninitBytes(n int) []byte {
	if n > o.len {
		n = o.len
	}
	if n <= 0 || o.ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(o.ptr), n)
}
