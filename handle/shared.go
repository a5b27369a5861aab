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

// Shared is the Arc<Mutex<T>>-equivalent handle: clonable, safe for
// concurrent use from multiple host goroutines and from the endpoint
// poller goroutine. Endpoint and Connection are exposed to the ABI through
// Shared handles.
type Shared[T any] struct {
	mu   sync.Mutex
	addr Addr
	inn  T
}

// NewShared boxes inner, registers a cgo.Handle for it and returns the
// handle that owns it.
func NewShared[T any](inner T) *Shared[T] {
	s := &Shared[T]{inn: inner}
	s.addr = addrOf(cgo.NewHandle(s))
	return s
}

// Addr returns the opaque pointer value to hand across the ABI.
func (s *Shared[T]) Addr() Addr {
	if s == nil {
		return 0
	}
	return s.addr
}

// IsNull reports whether s is nil.
func (s *Shared[T]) IsNull() bool {
	return s == nil
}

// SharedFromAddr resolves an Addr previously returned by NewShared back into
// its *Shared[T]. A stale, already-deallocated, or mistyped address yields
// ok == false.
func SharedFromAddr[T any](a Addr) (s *Shared[T], ok bool) {
	if a.IsNull() {
		return nil, false
	}

	// cgo.Handle.Value panics on a deleted handle; report that as !ok.
	defer func() {
		if recover() != nil {
			s, ok = nil, false
		}
	}()

	v := a.handle().Value()
	s, ok = v.(*Shared[T])
	return s, ok
}

// RefAccess acquires the lock, invokes cb with a read-only borrow of the
// inner value, and releases the lock on every exit path, including a
// recovered panic. A panic recovered mid-critical-section surfaces as a
// quicerr I/O-kind error rather than re-propagating, which is this runtime's
// analogue of a cleared poisoned mutex: the handle remains usable afterwards.
func (s *Shared[T]) RefAccess(cb func(inner T) error) (err error) {
	if s == nil {
		return quicerr.FFI("handle")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if rec := recover(); rec != nil {
			err = quicerr.FromIO(fmt.Errorf("recovered panic in RefAccess: %v", rec))
		}
	}()

	return cb(s.inn)
}

// MutAccess is RefAccess's mutable analogue: cb receives a pointer to the
// inner value and may mutate it under lock.
func (s *Shared[T]) MutAccess(cb func(inner *T) error) (err error) {
	if s == nil {
		return quicerr.FFI("handle")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if rec := recover(); rec != nil {
			err = quicerr.FromIO(fmt.Errorf("recovered panic in MutAccess: %v", rec))
		}
	}()

	return cb(&s.inn)
}

// TryMutAccess is MutAccess but using a non-blocking lock attempt; ok is
// false if the lock was already held. Used by the endpoint poller so a host
// thread holding the lock is never starved by background polling.
func (s *Shared[T]) TryMutAccess(cb func(inner *T) error) (ok bool, err error) {
	if s == nil {
		return false, quicerr.FFI("handle")
	}

	if !s.mu.TryLock() {
		return false, nil
	}
	defer s.mu.Unlock()
	defer func() {
		if rec := recover(); rec != nil {
			err = quicerr.FromIO(fmt.Errorf("recovered panic in TryMutAccess: %v", rec))
		}
	}()

	return true, cb(&s.inn)
}

// Dealloc consumes the handle: it acquires the lock one last time, invokes
// cb with the inner value moved out, deletes the cgo.Handle, and marks the
// handle as deallocated. Resolving the former Addr through SharedFromAddr
// afterwards reports ok == false because the cgo.Handle has been deleted;
// the *Access methods of s itself do not check for deallocation.
func (s *Shared[T]) Dealloc(cb func(inner T) error) (err error) {
	if s == nil {
		return quicerr.FFI("handle")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if rec := recover(); rec != nil {
			err = quicerr.FromIO(fmt.Errorf("recovered panic in Dealloc: %v", rec))
		}
	}()

	a := s.addr
	s.addr = 0
	if !a.IsNull() {
		a.handle().Delete()
	}

	if cb == nil {
		return nil
	}
	return cb(s.inn)
}
