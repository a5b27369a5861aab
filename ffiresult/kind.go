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

// Package ffiresult is the FFI return-code and last-error plumbing every
// exported function in package ffi goes through: a fixed-width result kind,
// a per-OS-thread last-error cell, and the Catch wrapper that turns a Go
// panic into an Error result instead of a fatal crash across the cgo
// boundary.
package ffiresult

// Kind is the ABI's FFIResult discriminant. It is fixed-width (int32 at the
// C boundary) and intentionally small: detailed error information never
// crosses the ABI inline, it lives in the last-error cell (see LastError).
type Kind int32

const (
	// Ok indicates success.
	Ok Kind = 0
	// Error is the generic failure code; call LastError for the reason.
	Error Kind = 1
	// BufferTooSmall indicates the host-supplied buffer was shorter than
	// the data this call needed to write.
	BufferTooSmall Kind = 2
	// BufferBlocked indicates the operation would have blocked (e.g. a
	// stream read with nothing available yet); not fatal.
	BufferBlocked Kind = 3
	// ArgumentNull indicates a required pointer argument was null.
	ArgumentNull Kind = 4
)

func (k Kind) String() string {
	switch k {
	case Ok:
		return "Ok"
	case Error:
		return "Error"
	case BufferTooSmall:
		return "BufferTooSmall"
	case BufferBlocked:
		return "BufferBlocked"
	case ArgumentNull:
		return "ArgumentNull"
	default:
		return "Unknown"
	}
}

// Result is the fixed-layout struct returned across the ABI by every
// exported function: a single discriminant, nothing else.
type Result struct {
	Kind Kind
}

// AsResult wraps a Kind into the struct form handed back across the ABI.
func AsResult(k Kind) Result {
	return Result{Kind: k}
}
