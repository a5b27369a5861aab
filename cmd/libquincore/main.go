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

// Command libquincore is the cgo boundary itself: built with
// `go build -buildmode=c-shared` (or c-archive), it produces the actual
// loadable library a non-Go host links against. Every //export function
// here is a thin shim over package ffi's Catch-wrapped entry points (§6):
// it converts C argument shapes into ffiio adapters and handle.Addr
// values, calls into ffi, and converts the ffiresult.Result back into the
// FFIResult the header advertises. No protocol or FFI logic lives in this
// package; it exists purely so the cgo pointer-passing rules and the
// C-callable function-pointer trampolines for the callback registry have
// exactly one home.
package main

/*
#include <stdint.h>
#include <stdlib.h>

typedef struct { int32_t kind; } quincore_result_t;
typedef struct { uint16_t port; uint8_t address[4]; } quincore_addr_t;

typedef void (*quincore_on_new_connection_fn)(uintptr_t endpoint, uintptr_t conn, uint64_t conn_id);
typedef void (*quincore_on_pollable_fn)(uintptr_t conn);
typedef void (*quincore_on_conn_fn)(uintptr_t conn);
typedef void (*quincore_on_conn_lost_fn)(uintptr_t conn, uint64_t code, const char *reason, int32_t reason_len);
typedef void (*quincore_on_stream_fn)(uintptr_t conn, uint64_t stream_id);
typedef void (*quincore_on_stream_opened_fn)(uintptr_t conn, uint64_t stream_id, uint8_t dir);
typedef void (*quincore_on_stream_stopped_fn)(uintptr_t conn, uint64_t stream_id, uint64_t code);
typedef void (*quincore_on_stream_available_fn)(uintptr_t conn, uint8_t dir);
typedef void (*quincore_on_datagram_fn)(uintptr_t conn, const uint8_t *data, int32_t len);
typedef uint8_t (*quincore_on_transmit_fn)(uintptr_t endpoint, quincore_addr_t dest, const uint8_t *data, int32_t len);

// Go cannot invoke a bare C function pointer value; these trampolines give
// cgo a named call site for each callback shape so the pointer the host
// handed to a set_on_* call can actually be reached from Go.
static void quincore_call_new_connection(quincore_on_new_connection_fn fn, uintptr_t ep, uintptr_t conn, uint64_t id) { fn(ep, conn, id); }
static void quincore_call_pollable(quincore_on_pollable_fn fn, uintptr_t conn) { fn(conn); }
static void quincore_call_conn(quincore_on_conn_fn fn, uintptr_t conn) { fn(conn); }
static void quincore_call_conn_lost(quincore_on_conn_lost_fn fn, uintptr_t conn, uint64_t code, const char *reason, int32_t len) { fn(conn, code, reason, len); }
static void quincore_call_stream(quincore_on_stream_fn fn, uintptr_t conn, uint64_t id) { fn(conn, id); }
static void quincore_call_stream_opened(quincore_on_stream_opened_fn fn, uintptr_t conn, uint64_t id, uint8_t dir) { fn(conn, id, dir); }
static void quincore_call_stream_stopped(quincore_on_stream_stopped_fn fn, uintptr_t conn, uint64_t id, uint64_t code) { fn(conn, id, code); }
static void quincore_call_stream_available(quincore_on_stream_available_fn fn, uintptr_t conn, uint8_t dir) { fn(conn, dir); }
static void quincore_call_datagram(quincore_on_datagram_fn fn, uintptr_t conn, const uint8_t *data, int32_t len) { fn(conn, data, len); }
static uint8_t quincore_call_transmit(quincore_on_transmit_fn fn, uintptr_t endpoint, quincore_addr_t dest, const uint8_t *data, int32_t len) { return fn(endpoint, dest, data, len); }
*/
import "C"

import (
	"unsafe"

	"github.com/nabbar/quincore/callback"
	"github.com/nabbar/quincore/ffi"
	"github.com/nabbar/quincore/ffiio"
	"github.com/nabbar/quincore/ffiresult"
	"github.com/nabbar/quincore/handle"
	"github.com/nabbar/quincore/netaddr"
)

func main() {}

func toResult(r ffiresult.Result) C.quincore_result_t {
	return C.quincore_result_t{kind: C.int32_t(r.Kind)}
}

func toAddr(a C.quincore_addr_t) netaddr.Address {
	var out netaddr.Address
	out.Port = uint16(a.port)
	for i := 0; i < 4; i++ {
		out.Address[i] = byte(a.address[i])
	}
	return out
}

func fromAddr(a netaddr.Address) C.quincore_addr_t {
	var out C.quincore_addr_t
	out.port = C.uint16_t(a.Port)
	for i := 0; i < 4; i++ {
		out.address[i] = C.uint8_t(a.Address[i])
	}
	return out
}

//export quincore_create_server_config
func quincore_create_server_config(outHandle *C.uintptr_t, cert *C.uint8_t, certLen C.int32_t, key *C.uint8_t, keyLen C.int32_t) C.quincore_result_t {
	res := ffi.CreateServerConfig(
		ffiio.NewOut[handle.Addr](unsafe.Pointer(outHandle)),
		ffiio.NewRefBytes(unsafe.Pointer(cert), int(certLen)),
		ffiio.NewRefBytes(unsafe.Pointer(key), int(keyLen)),
	)
	return toResult(res)
}

//export quincore_create_client_config
func quincore_create_client_config(outHandle *C.uintptr_t, cert *C.uint8_t, certLen C.int32_t, key *C.uint8_t, keyLen C.int32_t) C.quincore_result_t {
	res := ffi.CreateClientConfig(
		ffiio.NewOut[handle.Addr](unsafe.Pointer(outHandle)),
		ffiio.NewRefBytes(unsafe.Pointer(cert), int(certLen)),
		ffiio.NewRefBytes(unsafe.Pointer(key), int(keyLen)),
	)
	return toResult(res)
}

//export quincore_destroy_config
func quincore_destroy_config(cfgHandle C.uintptr_t) C.quincore_result_t {
	return toResult(ffi.DestroyConfig(handle.Addr(cfgHandle)))
}

//export quincore_create_server_endpoint
func quincore_create_server_endpoint(cfgHandle C.uintptr_t, outID *C.uint8_t, outHandle *C.uintptr_t) C.quincore_result_t {
	res := ffi.CreateServerEndpoint(
		handle.Addr(cfgHandle),
		ffiio.NewOut[uint8](unsafe.Pointer(outID)),
		ffiio.NewOut[handle.Addr](unsafe.Pointer(outHandle)),
	)
	return toResult(res)
}

//export quincore_create_client_endpoint
func quincore_create_client_endpoint(cfgHandle C.uintptr_t, outID *C.uint8_t, outHandle *C.uintptr_t) C.quincore_result_t {
	res := ffi.CreateClientEndpoint(
		handle.Addr(cfgHandle),
		ffiio.NewOut[uint8](unsafe.Pointer(outID)),
		ffiio.NewOut[handle.Addr](unsafe.Pointer(outHandle)),
	)
	return toResult(res)
}

//export quincore_destroy_endpoint
func quincore_destroy_endpoint(epHandle C.uintptr_t) C.quincore_result_t {
	return toResult(ffi.DestroyEndpoint(handle.Addr(epHandle)))
}

//export quincore_handle_datagram
func quincore_handle_datagram(epHandle C.uintptr_t, data *C.uint8_t, length C.int32_t, from C.quincore_addr_t) C.quincore_result_t {
	res := ffi.HandleDatagram(
		handle.Addr(epHandle),
		ffiio.NewRefBytes(unsafe.Pointer(data), int(length)),
		toAddr(from),
	)
	return toResult(res)
}

//export quincore_poll_endpoint
func quincore_poll_endpoint(epHandle C.uintptr_t) C.quincore_result_t {
	return toResult(ffi.PollEndpoint(handle.Addr(epHandle)))
}

//export quincore_connect_client
func quincore_connect_client(epHandle C.uintptr_t, host *C.uint8_t, hostLen C.int32_t, addr C.quincore_addr_t, outConn *C.uintptr_t, outConnID *C.uint64_t) C.quincore_result_t {
	res := ffi.ConnectClient(
		handle.Addr(epHandle),
		ffiio.NewRefBytes(unsafe.Pointer(host), int(hostLen)),
		toAddr(addr),
		ffiio.NewOut[handle.Addr](unsafe.Pointer(outConn)),
		ffiio.NewOut[uint64](unsafe.Pointer(outConnID)),
	)
	return toResult(res)
}

//export quincore_poll_connection
func quincore_poll_connection(connHandle C.uintptr_t) C.quincore_result_t {
	return toResult(ffi.PollConnection(handle.Addr(connHandle)))
}

//export quincore_destroy_connection
func quincore_destroy_connection(connHandle C.uintptr_t) C.quincore_result_t {
	return toResult(ffi.DestroyConnection(handle.Addr(connHandle)))
}

//export quincore_accept_stream
func quincore_accept_stream(connHandle C.uintptr_t, dir C.uint8_t, outStreamID *C.uint64_t) C.quincore_result_t {
	res := ffi.AcceptStream(handle.Addr(connHandle), uint8(dir), ffiio.NewOut[uint64](unsafe.Pointer(outStreamID)))
	return toResult(res)
}

//export quincore_open_stream
func quincore_open_stream(connHandle C.uintptr_t, dir C.uint8_t, outStreamID *C.uint64_t) C.quincore_result_t {
	res := ffi.OpenStream(handle.Addr(connHandle), uint8(dir), ffiio.NewOut[uint64](unsafe.Pointer(outStreamID)))
	return toResult(res)
}

//export quincore_read_stream
func quincore_read_stream(connHandle C.uintptr_t, streamID C.uint64_t, bufOut *C.uint8_t, bufLen C.int32_t, outActualLen *C.int32_t) C.quincore_result_t {
	res := ffi.ReadStream(
		handle.Addr(connHandle),
		uint64(streamID),
		ffiio.NewOutBytes(unsafe.Pointer(bufOut), int(bufLen)),
		ffiio.NewOut[int32](unsafe.Pointer(outActualLen)),
	)
	return toResult(res)
}

//export quincore_write_stream
func quincore_write_stream(connHandle C.uintptr_t, streamID C.uint64_t, buf *C.uint8_t, bufLen C.int32_t, outWritten *C.int32_t) C.quincore_result_t {
	res := ffi.WriteStream(
		handle.Addr(connHandle),
		uint64(streamID),
		ffiio.NewRefBytes(unsafe.Pointer(buf), int(bufLen)),
		ffiio.NewOut[int32](unsafe.Pointer(outWritten)),
	)
	return toResult(res)
}

//export quincore_last_error
func quincore_last_error(bufOut *C.uint8_t, bufLen C.int32_t, outActualLen *C.int32_t) C.quincore_result_t {
	res := ffi.LastError(
		ffiio.NewOutBytes(unsafe.Pointer(bufOut), int(bufLen)),
		ffiio.NewOut[int32](unsafe.Pointer(outActualLen)),
	)
	return toResult(res)
}

//export quincore_set_on_new_connection
func quincore_set_on_new_connection(fn C.quincore_on_new_connection_fn) {
	if fn == nil {
		callback.Clear(callback.OnNewConnection)
		return
	}
	callback.SetOnNewConnection(func(endpoint, conn handle.Addr, connID uint64) {
		C.quincore_call_new_connection(fn, C.uintptr_t(endpoint), C.uintptr_t(conn), C.uint64_t(connID))
	})
}

//export quincore_set_on_pollable_connection
func quincore_set_on_pollable_connection(fn C.quincore_on_pollable_fn) {
	if fn == nil {
		callback.Clear(callback.OnPollableConnection)
		return
	}
	callback.SetOnPollableConnection(func(conn handle.Addr) {
		C.quincore_call_pollable(fn, C.uintptr_t(conn))
	})
}

//export quincore_set_on_connected
func quincore_set_on_connected(fn C.quincore_on_conn_fn) {
	if fn == nil {
		callback.Clear(callback.OnConnected)
		return
	}
	callback.SetOnConnected(func(conn handle.Addr) {
		C.quincore_call_conn(fn, C.uintptr_t(conn))
	})
}

//export quincore_set_on_connection_lost
func quincore_set_on_connection_lost(fn C.quincore_on_conn_lost_fn) {
	if fn == nil {
		callback.Clear(callback.OnConnectionLost)
		return
	}
	callback.SetOnConnectionLost(func(conn handle.Addr, code uint64, reason string) {
		cReason := C.CString(reason)
		defer C.free(unsafe.Pointer(cReason))
		C.quincore_call_conn_lost(fn, C.uintptr_t(conn), C.uint64_t(code), cReason, C.int32_t(len(reason)))
	})
}

//export quincore_set_on_stream_readable
func quincore_set_on_stream_readable(fn C.quincore_on_stream_fn) {
	if fn == nil {
		callback.Clear(callback.OnStreamReadable)
		return
	}
	callback.SetOnStreamReadable(func(conn handle.Addr, streamID uint64) {
		C.quincore_call_stream(fn, C.uintptr_t(conn), C.uint64_t(streamID))
	})
}

//export quincore_set_on_stream_writable
func quincore_set_on_stream_writable(fn C.quincore_on_stream_fn) {
	if fn == nil {
		callback.Clear(callback.OnStreamWritable)
		return
	}
	callback.SetOnStreamWritable(func(conn handle.Addr, streamID uint64) {
		C.quincore_call_stream(fn, C.uintptr_t(conn), C.uint64_t(streamID))
	})
}

//export quincore_set_on_stream_finished
func quincore_set_on_stream_finished(fn C.quincore_on_stream_fn) {
	if fn == nil {
		callback.Clear(callback.OnStreamFinished)
		return
	}
	callback.SetOnStreamFinished(func(conn handle.Addr, streamID uint64) {
		C.quincore_call_stream(fn, C.uintptr_t(conn), C.uint64_t(streamID))
	})
}

//export quincore_set_on_stream_opened
func quincore_set_on_stream_opened(fn C.quincore_on_stream_opened_fn) {
	if fn == nil {
		callback.Clear(callback.OnStreamOpened)
		return
	}
	callback.SetOnStreamOpened(func(conn handle.Addr, streamID uint64, dir uint8) {
		C.quincore_call_stream_opened(fn, C.uintptr_t(conn), C.uint64_t(streamID), C.uint8_t(dir))
	})
}

//export quincore_set_on_stream_stopped
func quincore_set_on_stream_stopped(fn C.quincore_on_stream_stopped_fn) {
	if fn == nil {
		callback.Clear(callback.OnStreamStopped)
		return
	}
	callback.SetOnStreamStopped(func(conn handle.Addr, streamID uint64, code uint64) {
		C.quincore_call_stream_stopped(fn, C.uintptr_t(conn), C.uint64_t(streamID), C.uint64_t(code))
	})
}

//export quincore_set_on_stream_available
func quincore_set_on_stream_available(fn C.quincore_on_stream_available_fn) {
	if fn == nil {
		callback.Clear(callback.OnStreamAvailable)
		return
	}
	callback.SetOnStreamAvailable(func(conn handle.Addr, dir uint8) {
		C.quincore_call_stream_available(fn, C.uintptr_t(conn), C.uint8_t(dir))
	})
}

//export quincore_set_on_datagram_received
func quincore_set_on_datagram_received(fn C.quincore_on_datagram_fn) {
	if fn == nil {
		callback.Clear(callback.OnDatagramReceived)
		return
	}
	callback.SetOnDatagramReceived(func(conn handle.Addr, data []byte) {
		var ptr *C.uint8_t
		if len(data) > 0 {
			ptr = (*C.uint8_t)(unsafe.Pointer(&data[0]))
		}
		C.quincore_call_datagram(fn, C.uintptr_t(conn), ptr, C.int32_t(len(data)))
	})
}

//export quincore_set_on_transmit
func quincore_set_on_transmit(fn C.quincore_on_transmit_fn) {
	if fn == nil {
		callback.Clear(callback.OnTransmit)
		return
	}
	callback.SetOnTransmit(func(endpoint handle.Addr, dest netaddr.Address, data []byte) bool {
		var ptr *C.uint8_t
		if len(data) > 0 {
			ptr = (*C.uint8_t)(unsafe.Pointer(&data[0]))
		}
		sent := C.quincore_call_transmit(fn, C.uintptr_t(endpoint), fromAddr(dest), ptr, C.int32_t(len(data)))
		return sent != 0
	})
}
