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

// Package quicerr is the internal error taxonomy for the endpoint runtime: a
// single CodeError-based type with a Kind discriminant, mapping cleanly onto
// the ABI's FFIResultKind at the FFI boundary.
package quicerr

import (
	"fmt"

	liberr "github.com/nabbar/quincore/errors"
)

// Kind distinguishes how an Error should be reflected onto the ABI.
type Kind uint8

const (
	// KindCode carries a result-kind directly (BufferBlocked, BufferTooSmall, ...).
	KindCode Kind = iota
	// KindProtocol comes from the protocol library (connection/transport error).
	KindProtocol
	// KindIO is a generic I/O or channel error.
	KindIO
	// KindFFI is an ABI-layer invariant violation (unknown handle, ...).
	KindFFI
)

const (
	CodeBufferTooSmall liberr.CodeError = iota + liberr.MinPkgQuicCore
	CodeBufferBlocked
	CodeArgumentNull
	CodeProtocol
	CodeIO
	CodeFFI
	CodeUnknownHandle
	CodeMissingCallback
)

func init() {
	liberr.RegisterIdFctMessage(CodeBufferTooSmall, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case CodeBufferTooSmall:
		return "the supplied buffer was too small"
	case CodeBufferBlocked:
		return "there is no data in the buffer to be read"
	case CodeArgumentNull:
		return "an argument was null"
	case CodeProtocol:
		return "protocol error"
	case CodeIO:
		return "i/o error"
	case CodeFFI:
		return "ffi invariant violation"
	case CodeUnknownHandle:
		return "handle not found"
	case CodeMissingCallback:
		return "callback slot not installed"
	}
	return ""
}

// Error is the taxonomy's concrete type: a CodeError-based liberr.Error
// decorated with a Kind so the FFI layer knows which FFIResultKind to return.
type Error struct {
	liberr.Error
	kind Kind
}

// Kind reports the result-kind this error should surface as.
func (e *Error) Kind() Kind {
	if e == nil {
		return KindCode
	}
	return e.kind
}

func newError(kind Kind, code liberr.CodeError, reason string, parent ...error) *Error {
	if reason == "" {
		reason = code.Message()
	}
	return &Error{Error: liberr.New(code.Uint16(), reason, parent...), kind: kind}
}

// New builds a KindProtocol error with the given reason text.
func New(reason string) *Error {
	return newError(KindProtocol, CodeProtocol, reason)
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// FromIO wraps a generic I/O/channel error into the taxonomy.
func FromIO(err error) *Error {
	if err == nil {
		return nil
	}
	return newError(KindIO, CodeIO, err.Error(), err)
}

// FromProto wraps a protocol-library error (code + reason) into the taxonomy.
func FromProto(code uint64, reason string) *Error {
	return newError(KindProtocol, CodeProtocol, fmt.Sprintf("protocol error %d: %s", code, reason))
}

// FFI builds a KindFFI invariant-violation error.
func FFI(reason string) *Error {
	return newError(KindFFI, CodeFFI, reason)
}

// ArgumentNull builds the well-known "argument was null" error, recording the
// argument's name as the reason per the null-argument contract. It is a
// KindCode error: the ABI result is ArgumentNull itself, not a generic Error,
// so the mapping in package ffiresult preserves it directly.
func ArgumentNull(argName string) *Error {
	return newError(KindCode, CodeArgumentNull, argName)
}

// BufferTooSmall builds a KindCode error carrying FFIResultKind BufferTooSmall.
func BufferTooSmall() *Error {
	return newError(KindCode, CodeBufferTooSmall, "")
}

// BufferBlocked builds a KindCode error carrying FFIResultKind BufferBlocked.
func BufferBlocked() *Error {
	return newError(KindCode, CodeBufferBlocked, "")
}

// Reason returns the human-readable text to store in the last-error slot.
func (e *Error) Reason() string {
	if e == nil || e.Error == nil {
		return ""
	}
	return e.Error.StringError()
}
