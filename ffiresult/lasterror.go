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

package ffiresult

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/nabbar/quincore/quicerr"
)

// lastErrors is the sync.Map-backed emulation of per-OS-thread storage: one
// entry per calling thread id, holding at most one structured error.
var lastErrors sync.Map // map[int64]*quicerr.Error

// Context attaches err to the calling thread's last-error cell, replacing
// any prior content, and returns the ABI result that corresponds to it.
func Context(err error) Result {
	if err == nil {
		Clear()
		return AsResult(Ok)
	}

	qe := asQuicErr(err)
	lastErrors.Store(threadID(), qe)
	return kindOf(qe)
}

// Clear empties the calling thread's last-error cell, as done at the start
// of every Catch invocation.
func Clear() {
	lastErrors.Delete(threadID())
}

// current returns the calling thread's last-error, or nil if none is set.
func current() *quicerr.Error {
	v, ok := lastErrors.Load(threadID())
	if !ok {
		return nil
	}
	qe, _ := v.(*quicerr.Error)
	return qe
}

// FromLastResult invokes fn with an immutable view of the calling thread's
// current last-error (nil if none) and returns fn's result. It is used by
// the last_error FFI function to copy the reason bytes across the ABI
// without exposing the internal quicerr.Error type further than necessary.
func FromLastResult(fn func(err *quicerr.Error) Result) Result {
	return fn(current())
}

// Reason returns the human-readable text for err, or "" for a nil error —
// the empty string is itself a testable property: last_error called after
// an Ok result must return an empty reason.
func Reason(err *quicerr.Error) string {
	if err == nil {
		return ""
	}
	return err.Reason()
}

func asQuicErr(err error) *quicerr.Error {
	if qe, ok := err.(*quicerr.Error); ok {
		return qe
	}
	return quicerr.FromIO(err)
}

// kindOf maps a quicerr.Error onto the ABI's fixed result kind. Only the
// KindCode taxonomy variant preserves its exact code (BufferTooSmall,
// BufferBlocked, ArgumentNull); every other variant (Protocol, Io, Ffi)
// degrades to the generic Error code, with detail left in the last-error
// cell for last_error to retrieve.
func kindOf(qe *quicerr.Error) Result {
	if qe == nil {
		return AsResult(Ok)
	}

	if qe.Kind() != quicerr.KindCode {
		return AsResult(Error)
	}

	switch qe.GetCode() {
	case quicerr.CodeBufferTooSmall:
		return AsResult(BufferTooSmall)
	case quicerr.CodeBufferBlocked:
		return AsResult(BufferBlocked)
	case quicerr.CodeArgumentNull:
		return AsResult(ArgumentNull)
	default:
		return AsResult(Error)
	}
}

// Catch is the panic-catcher wrapper every exported FFI function in package
// ffi must use. It pins the calling goroutine to its OS thread (so the
// last-error cell keyed by threadID behaves like real thread-local storage
// for the duration of the call), clears any stale last-error, invokes body,
// and translates a panic into an Error result instead of letting it unwind
// across the cgo boundary, where it would be fatal to the whole process.
func Catch(body func() Result) (res Result) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	Clear()

	defer func() {
		if rec := recover(); rec != nil {
			msg := panicMessage(rec)
			res = Context(quicerr.FromIO(fmt.Errorf("internal panic with %s", msg)))
		}
	}()

	return body()
}

func panicMessage(rec any) string {
	if s, ok := rec.(string); ok {
		return s
	}
	if e, ok := rec.(error); ok {
		return e.Error()
	}
	return fmt.Sprintf("%v", rec)
}
