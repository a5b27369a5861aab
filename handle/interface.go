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

// Package handle gives the FFI boundary a single opaque, ABI-stable owner of
// a heap-allocated object: every Endpoint, Connection and TLS configuration
// object crossing the C ABI is boxed behind a Shared or Exclusive handle
// before its address (a runtime/cgo.Handle value) is handed to the host.
//
// Shared is the Arc<Mutex<T>> analogue: clonable, used concurrently from
// host-calling goroutines and the endpoint poller goroutine. Exclusive is the
// Box<Mutex<T>> analogue: a single owner, still lock-protected so a panic
// recovered mid-critical-section cannot leave the FFI contract in a torn
// state. Both flavors release their lock via defer on every exit path,
// including a recovered panic, which is this runtime's equivalent of
// clearing a poisoned mutex.
package handle

import (
	"runtime/cgo"
)

// IsNuller is implemented by every FFI-facing handle so the dispatch layer
// can reject a null argument before running the body of an exported function.
type IsNuller interface {
	IsNull() bool
}

// Addr is the opaque, ABI-stable pointer value handed across the C boundary.
// It round-trips through a C void* without violating cgo's pointer-passing
// rules because the only thing ever stored behind it is a cgo.Handle.
type Addr uintptr

// IsNull reports whether addr is the zero value, i.e. no handle was ever
// registered for it.
func (a Addr) IsNull() bool {
	return a == 0
}

func addrOf(h cgo.Handle) Addr {
	return Addr(h)
}

func (a Addr) handle() cgo.Handle {
	return cgo.Handle(a)
}
