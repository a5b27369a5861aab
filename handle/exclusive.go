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

package handle

import (
	"fmt"
	"runtime/cgo"
	"sync"

	"github.com/nabbar/quincore/quicerr"
)

// Exclusive is the Box<Mutex<T>>-equivalent handle: a single logical owner.
// It is still lock-protected, purely so a panic recovered mid-critical
// section cannot leave the FFI contract inconsistent. TLS server/client
// configuration objects are exposed to the ABI through Exclusive handles.
type Exclusive[T any] struct {
	mu   sync.Mutex
	addr Addr
	inn  T
}

// NewExclusive boxes inner and registers a cgo.Handle for it.
func NewExclusive[T any](inner T) *Exclusive[T] {
	e := &Exclusive[T]{inn: inner}
	e.addr = addrOf(cgo.NewHandle(e))
	return e
}

// Addr returns the opaque pointer value to hand across the ABI.
func (e *Exclusive[T]) Addr() Addr {
	if e == nil {
		return 0
	}
	return e.addr
}

// IsNull reports whether e is nil.
func (e *Exclusive[T]) IsNull() bool {
	return e == nil
}

// ExclusiveFromAddr resolves an Addr previously returned by NewExclusive.
func ExclusiveFromAddr[T any](a Addr) (e *Exclusive[T], ok bool) {
	if a.IsNull() {
		return nil, false
	}

	// cgo.Handle.Value panics on a deleted handle; report that as !ok.
	defer func() {
		if recover() != nil {
			e, ok = nil, false
		}
	}()

	v := a.handle().Value()
	e, ok = v.(*Exclusive[T])
	return e, ok
}

// RefAccess acquires the lock, invokes cb with a read-only borrow, and
// releases on every exit path including a recovered panic.
func (e *Exclusive[T]) RefAccess(cb func(inner T) error) (err error) {
	if e == nil {
		return quicerr.FFI("handle")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() {
		if rec := recover(); rec != nil {
			err = quicerr.FromIO(fmt.Errorf("recovered panic in RefAccess: %v", rec))
		}
	}()

	return cb(e.inn)
}

// MutAccess is RefAccess's mutable analogue.
func (e *Exclusive[T]) MutAccess(cb func(inner *T) error) (err error) {
	if e == nil {
		return quicerr.FFI("handle")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() {
		if rec := recover(); rec != nil {
			err = quicerr.FromIO(fmt.Errorf("recovered panic in MutAccess: %v", rec))
		}
	}()

	return cb(&e.inn)
}

// Dealloc consumes the handle, invoking cb with the inner value moved out
// before deleting the underlying cgo.Handle.
func (e *Exclusive[T]) Dealloc(cb func(inner T) error) (err error) {
	if e == nil {
		return quicerr.FFI("handle")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() {
		if rec := recover(); rec != nil {
			err = quicerr.FromIO(fmt.Errorf("recovered panic in Dealloc: %v", rec))
		}
	}()

	a := e.addr
	e.addr = 0
	if !a.IsNull() {
		a.handle().Delete()
	}

	if cb == nil {
		return nil
	}
	return cb(e.inn)
}
