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

// Package callback is the process-wide registry backing the set_on_*
// family of ABI entry points (§4.8 CALLBACK REGISTRY). A host registers at
// most one function per slot; invoking a slot nobody registered is a no-op,
// not a crash, because an embedded runtime must never bring its host down
// for a configuration gap it can detect ahead of time.
package callback

import (
	"sync"

	"github.com/nabbar/quincore/atomic"
	"github.com/nabbar/quincore/qlog"
)

// Slot names one of the callback hooks the ABI exposes. Every slot
// is write-once-per-registration: a later SetX silently replaces an
// earlier one, matching the host's right to swap callbacks between runs.
type Slot string

const (
	OnNewConnection      Slot = "on_new_connection"
	OnConnected          Slot = "on_connected"
	OnHandshakeData      Slot = "on_handshake_data"
	OnConnectionLost     Slot = "on_connection_lost"
	OnStreamOpened       Slot = "on_stream_opened"
	OnStreamReadable     Slot = "on_stream_readable"
	OnStreamWritable     Slot = "on_stream_writable"
	OnStreamFinished     Slot = "on_stream_finished"
	OnStreamStopped      Slot = "on_stream_stopped"
	OnStreamAvailable    Slot = "on_stream_available"
	OnDatagramReceived   Slot = "on_datagram_received"
	OnTransmit           Slot = "on_transmit"
	OnPollableConnection Slot = "on_pollable_connection"
	OnLog                Slot = "on_log"
)

// all enumerates every slot this registry manages, used by Reset.
var all = []Slot{
	OnNewConnection, OnConnected, OnHandshakeData, OnConnectionLost, OnStreamOpened,
	OnStreamReadable, OnStreamWritable, OnStreamFinished, OnStreamStopped,
	OnStreamAvailable, OnDatagramReceived, OnTransmit, OnPollableConnection, OnLog,
}

var (
	once sync.Once
	reg  atomic.MapTyped[Slot, any]
)

func registry() atomic.MapTyped[Slot, any] {
	once.Do(func() {
		reg = atomic.NewMapTyped[Slot, any]()
	})
	return reg
}

// Set registers fn for slot, replacing whatever was registered before. A
// nil fn clears the slot, equivalent to Clear(slot).
func Set(slot Slot, fn any) {
	if fn == nil {
		registry().Delete(slot)
		return
	}
	registry().Store(slot, fn)
}

// Clear removes whatever is registered for slot, if anything.
func Clear(slot Slot) {
	registry().Delete(slot)
}

// Reset clears every slot; intended for test harnesses that need a clean
// registry between cases sharing the same process.
func Reset() {
	for _, s := range all {
		registry().Delete(s)
	}
}

// Get returns the function registered for slot, if any.
func Get(slot Slot) (any, bool) {
	return registry().Load(slot)
}

// warnMissing logs that slot was invoked with nothing registered. The
// typed Call* helpers in typed.go call this instead of propagating an
// error, matching the "degrade, don't crash" contract for an embedded
// runtime.
func warnMissing(slot Slot) {
	qlog.L().Warning("callback slot has no registered handler, ignoring", nil, string(slot))
}
