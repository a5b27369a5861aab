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

// RefMut is a read-write borrow of a single value of T at the ABI.
type RefMut[T any] struct {
	ptr *T
}

// NewRefMut wraps a raw pointer obtained from the C side.
func NewRefMut[T any](ptr unsafe.Pointer) RefMut[T] {
	return RefMut[T]{ptr: (*T)(ptr)}
}

// IsNull reports whether the underlying pointer is nil.
func (r RefMut[T]) IsNull() bool {
	return r.ptr == nil
}

// Get dereferences the borrow.
func (r RefMut[T]) Get() T {
	return *r.ptr
}

// Set overwrites the borrowed value.
func (r RefMut[T]) Set(value T) {
	*r.ptr = value
}
