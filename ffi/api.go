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

package ffi

import (
	"github.com/nabbar/quincore/ffiio"
	"github.com/nabbar/quincore/ffiresult"
	"github.com/nabbar/quincore/handle"
	"github.com/nabbar/quincore/netaddr"
)

// This file is the boundary named in §4.3: every function below is the
// Catch-wrapped public counterpart of a do* function elsewhere in this
// package. cmd/libquincore's cgo-exported functions call these, never the
// do* functions directly, so a panic anywhere under a do* call is always
// translated into an Error result before it can reach the real ABI
// boundary. Keeping these separate from the do* bodies is also what lets
// this package's own tests exercise the do* functions directly, without
// paying for a panic recovery frame or a cgo build.

func CreateServerConfig(outHandle ffiio.Out[handle.Addr], cert ffiio.RefBytes, key ffiio.RefBytes) ffiresult.Result {
	return ffiresult.Catch(func() ffiresult.Result {
		return doCreateServerConfig(outHandle, cert, key)
	})
}

func CreateClientConfig(outHandle ffiio.Out[handle.Addr], cert ffiio.RefBytes, key ffiio.RefBytes) ffiresult.Result {
	return ffiresult.Catch(func() ffiresult.Result {
		return doCreateClientConfig(outHandle, cert, key)
	})
}

func DestroyConfig(cfgHandle handle.Addr) ffiresult.Result {
	return ffiresult.Catch(func() ffiresult.Result {
		return doDestroyConfig(cfgHandle)
	})
}

func CreateServerEndpoint(cfgHandle handle.Addr, outID ffiio.Out[uint8], outHandle ffiio.Out[handle.Addr]) ffiresult.Result {
	return ffiresult.Catch(func() ffiresult.Result {
		return doCreateServerEndpoint(cfgHandle, outID, outHandle)
	})
}

func CreateClientEndpoint(cfgHandle handle.Addr, outID ffiio.Out[uint8], outHandle ffiio.Out[handle.Addr]) ffiresult.Result {
	return ffiresult.Catch(func() ffiresult.Result {
		return doCreateClientEndpoint(cfgHandle, outID, outHandle)
	})
}

func HandleDatagram(epHandle handle.Addr, data ffiio.RefBytes, from netaddr.Address) ffiresult.Result {
	return ffiresult.Catch(func() ffiresult.Result {
		return doHandleDatagram(epHandle, data, from)
	})
}

func PollEndpoint(epHandle handle.Addr) ffiresult.Result {
	return ffiresult.Catch(func() ffiresult.Result {
		return doPollEndpoint(epHandle)
	})
}

func DestroyEndpoint(epHandle handle.Addr) ffiresult.Result {
	return ffiresult.Catch(func() ffiresult.Result {
		return doDestroyEndpoint(epHandle)
	})
}

func ConnectClient(epHandle handle.Addr, host ffiio.RefBytes, addr netaddr.Address, outConn ffiio.Out[handle.Addr], outConnID ffiio.Out[uint64]) ffiresult.Result {
	return ffiresult.Catch(func() ffiresult.Result {
		return doConnectClient(epHandle, host, addr, outConn, outConnID)
	})
}

func PollConnection(connHandle handle.Addr) ffiresult.Result {
	return ffiresult.Catch(func() ffiresult.Result {
		return doPollConnection(connHandle)
	})
}

func DestroyConnection(connHandle handle.Addr) ffiresult.Result {
	return ffiresult.Catch(func() ffiresult.Result {
		return doDestroyConnection(connHandle)
	})
}

func AcceptStream(connHandle handle.Addr, dir uint8, outStreamID ffiio.Out[uint64]) ffiresult.Result {
	return ffiresult.Catch(func() ffiresult.Result {
		return doAcceptStream(connHandle, dir, outStreamID)
	})
}

func OpenStream(connHandle handle.Addr, dir uint8, outStreamID ffiio.Out[uint64]) ffiresult.Result {
	return ffiresult.Catch(func() ffiresult.Result {
		return doOpenStream(connHandle, dir, outStreamID)
	})
}

func ReadStream(connHandle handle.Addr, streamID uint64, buf ffiio.OutBytes, outActualLen ffiio.Out[int32]) ffiresult.Result {
	return ffiresult.Catch(func() ffiresult.Result {
		return doReadStream(connHandle, streamID, buf, outActualLen)
	})
}

func WriteStream(connHandle handle.Addr, streamID uint64, buf ffiio.RefBytes, outWritten ffiio.Out[int32]) ffiresult.Result {
	return ffiresult.Catch(func() ffiresult.Result {
		return doWriteStream(connHandle, streamID, buf, outWritten)
	})
}

// LastError implements last_error (§6 Errors). It deliberately is NOT
// wrapped in ffiresult.Catch: see doLastError's comment for why clearing
// the last-error cell up front would defeat the whole point of the call.
func LastError(buf ffiio.OutBytes, outActualLen ffiio.Out[int32]) ffiresult.Result {
	return doLastError(buf, outActualLen)
}
