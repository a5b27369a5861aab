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

// Ref is a read-only borrow of a single value of T at the ABI.
type Ref[T any] struct {
	ptr *T
}

// NewRef wraps a raw pointer obtained from the C side.
func NewRef[T any](ptr unsafe.Pointer) Ref[T] {
	return Ref[T]{ptr: (*T)(ptr)}
}

// IsNull reports whether the underlying pointer is nil.
func (r Ref[T]) IsNull() bool {
	return r.ptr == nil
}

// Get dereferences the borrow. Callers must check IsNull first.
func (r Ref[T]) Get() T {
	return *r.ptr
}

// RefBytes is Ref specialized for a read-only (ptr, len) byte buffer, the
// shape every data/len or buf/buf_len input argument in §6 takes.
type RefBytes struct {
	ptr unsafe.Pointer
	len int
}

// NewRefBytes wraps a raw (ptr, len) pair describing host-owned memory this
// call may only read from.
func NewRefBytes(ptr unsafe.Pointer, length int) RefBytes {
	return RefBytes{ptr: ptr, len: length}
}

// IsNull reports whether the pointer is nil; the declared length is not
// consulted. A zero-length buffer with a non-nil pointer is accepted by
// convention (an empty write/read is not the same contract violation as a
// missing buffer).
func (r RefBytes) IsNull() bool {
	return r.ptr == nil
}

// Len returns the declared length of the buffer.
func (r RefBytes) Len() int {
	return r.len
}

// AsBytes reconstitutes the borrow as a length-qualified byte slice. The
// returned slice aliases host memory and must not be retained past the
// lifetime of the FFI call that produced it.
func (r RefBytes) AsBytes(length int) []byte {
	if length > r.len {
		length = r.len
	}
	if length <= 0 || r.ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(r.ptr), length)
}
