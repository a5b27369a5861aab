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

package callback

import (
	"github.com/nabbar/quincore/handle"
	"github.com/nabbar/quincore/netaddr"
)

// Each Func type below is the signature the ABI promises the host for one
// slot (§4.8). Handles cross this boundary as addresses, never as live Go
// pointers, same as every other FFI entry point.

type NewConnFunc func(endpoint handle.Addr, conn handle.Addr, connID uint64)
type PollableFunc func(conn handle.Addr)
type ConnFunc func(conn handle.Addr)
type ConnLostFunc func(conn handle.Addr, code uint64, reason string)
type StreamFunc func(conn handle.Addr, streamID uint64)
type StreamOpenedFunc func(conn handle.Addr, streamID uint64, dir uint8)
type StreamStoppedFunc func(conn handle.Addr, streamID uint64, code uint64)
type StreamAvailableFunc func(conn handle.Addr, dir uint8)
type DatagramFunc func(conn handle.Addr, data []byte)
type TransmitFunc func(endpoint handle.Addr, dest netaddr.Address, data []byte) bool
type LogFunc func(level uint8, message string)

func SetOnNewConnection(fn NewConnFunc) { Set(OnNewConnection, fn) }
func SetOnPollableConnection(fn PollableFunc) { Set(OnPollableConnection, fn) }
func SetOnConnected(fn ConnFunc)        { Set(OnConnected, fn) }
func SetOnHandshakeData(fn ConnFunc)    { Set(OnHandshakeData, fn) }
func SetOnConnectionLost(fn ConnLostFunc) { Set(OnConnectionLost, fn) }
func SetOnStreamOpened(fn StreamOpenedFunc) { Set(OnStreamOpened, fn) }
func SetOnStreamReadable(fn StreamFunc) { Set(OnStreamReadable, fn) }
func SetOnStreamWritable(fn StreamFunc) { Set(OnStreamWritable, fn) }
func SetOnStreamFinished(fn StreamFunc) { Set(OnStreamFinished, fn) }
func SetOnStreamStopped(fn StreamStoppedFunc) { Set(OnStreamStopped, fn) }
func SetOnStreamAvailable(fn StreamAvailableFunc) { Set(OnStreamAvailable, fn) }
func SetOnDatagramReceived(fn DatagramFunc) { Set(OnDatagramReceived, fn) }
func SetOnTransmit(fn TransmitFunc)     { Set(OnTransmit, fn) }
func SetOnLog(fn LogFunc)               { Set(OnLog, fn) }

func CallNewConnection(endpoint handle.Addr, conn handle.Addr, connID uint64) {
	if fn, ok := Get(OnNewConnection); ok {
		if f, ok := fn.(NewConnFunc); ok {
			f(endpoint, conn, connID)
			return
		}
	}
	warnMissing(OnNewConnection)
}

func CallPollableConnection(conn handle.Addr) {
	if fn, ok := Get(OnPollableConnection); ok {
		if f, ok := fn.(PollableFunc); ok {
			f(conn)
			return
		}
	}
	warnMissing(OnPollableConnection)
}

func CallConnected(conn handle.Addr) {
	if fn, ok := Get(OnConnected); ok {
		if f, ok := fn.(ConnFunc); ok {
			f(conn)
			return
		}
	}
	warnMissing(OnConnected)
}

func CallHandshakeData(conn handle.Addr) {
	if fn, ok := Get(OnHandshakeData); ok {
		if f, ok := fn.(ConnFunc); ok {
			f(conn)
			return
		}
	}
	warnMissing(OnHandshakeData)
}

func CallConnectionLost(conn handle.Addr, code uint64, reason string) {
	if fn, ok := Get(OnConnectionLost); ok {
		if f, ok := fn.(ConnLostFunc); ok {
			f(conn, code, reason)
			return
		}
	}
	warnMissing(OnConnectionLost)
}

func CallStreamOpened(conn handle.Addr, streamID uint64, dir uint8) {
	if fn, ok := Get(OnStreamOpened); ok {
		if f, ok := fn.(StreamOpenedFunc); ok {
			f(conn, streamID, dir)
			return
		}
	}
	warnMissing(OnStreamOpened)
}

func CallStreamReadable(conn handle.Addr, streamID uint64) {
	if fn, ok := Get(OnStreamReadable); ok {
		if f, ok := fn.(StreamFunc); ok {
			f(conn, streamID)
			return
		}
	}
	warnMissing(OnStreamReadable)
}

func CallStreamWritable(conn handle.Addr, streamID uint64) {
	if fn, ok := Get(OnStreamWritable); ok {
		if f, ok := fn.(StreamFunc); ok {
			f(conn, streamID)
			return
		}
	}
	warnMissing(OnStreamWritable)
}

func CallStreamFinished(conn handle.Addr, streamID uint64) {
	if fn, ok := Get(OnStreamFinished); ok {
		if f, ok := fn.(StreamFunc); ok {
			f(conn, streamID)
			return
		}
	}
	warnMissing(OnStreamFinished)
}

func CallStreamStopped(conn handle.Addr, streamID uint64, code uint64) {
	if fn, ok := Get(OnStreamStopped); ok {
		if f, ok := fn.(StreamStoppedFunc); ok {
			f(conn, streamID, code)
			return
		}
	}
	warnMissing(OnStreamStopped)
}

func CallStreamAvailable(conn handle.Addr, dir uint8) {
	if fn, ok := Get(OnStreamAvailable); ok {
		if f, ok := fn.(StreamAvailableFunc); ok {
			f(conn, dir)
			return
		}
	}
	warnMissing(OnStreamAvailable)
}

func CallDatagramReceived(conn handle.Addr, data []byte) {
	if fn, ok := Get(OnDatagramReceived); ok {
		if f, ok := fn.(DatagramFunc); ok {
			f(conn, data)
			return
		}
	}
	warnMissing(OnDatagramReceived)
}

// CallTransmit invokes the host's UDP-send hook, reporting whether a
// handler was registered at all (not whether the send itself succeeded;
// the host signals that through its own bool return).
func CallTransmit(endpoint handle.Addr, dest netaddr.Address, data []byte) (sent bool, handled bool) {
	if fn, ok := Get(OnTransmit); ok {
		if f, ok := fn.(TransmitFunc); ok {
			return f(endpoint, dest, data), true
		}
	}
	warnMissing(OnTransmit)
	return false, false
}

func CallLog(level uint8, message string) {
	if fn, ok := Get(OnLog); ok {
		if f, ok := fn.(LogFunc); ok {
			f(level, message)
			return
		}
	}
	// deliberately silent: logging to a missing log sink must not itself
	// try to log, or a host that never wires on_log would recurse here.
}
