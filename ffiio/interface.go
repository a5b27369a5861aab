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

// Package ffiio models the three pointer shapes that cross the FFI boundary
// as plain Go values instead of raw unsafe.Pointer: Out (an uninitialized,
// write-only destination), Ref (a read-only borrow) and RefMut (a
// read-write borrow). None of the three own the memory they point at; they
// exist only to keep the null-check and byte-reconstitution logic in one
// place instead of scattered across every //export function.
package ffiio

// IsNull is implemented by every FFI pointer adapter so the dispatch layer
// in package ffi can uniformly reject a null argument before running an
// exported function's body.
type IsNull interface {
	IsNull() bool
}

// NeverNull is embedded by adapters around primitive integers and the
// address struct, which are passed by value and therefore can never be the
// FFI notion of "null".
type NeverNull struct{}

// IsNull always reports false for a NeverNull-embedding value.
func (NeverNull) IsNull() bool { return false }
