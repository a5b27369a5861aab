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

package quicproto

import (
	"github.com/nabbar/quincore/netaddr"
)

// Transmit is a datagram the protocol library has decided to send, along
// with its destination. The host is responsible for the actual UDP send;
// this core only carries the bytes and address to the on_transmit callback.
type Transmit struct {
	Destination netaddr.Address
	Payload     []byte
}

// AppEventKind discriminates the application-visible events a Connection's
// PollAppEvent yields, mapped 1:1 onto the callback table in §4.5.
type AppEventKind uint8

const (
	AppEventHandshakeDataReady AppEventKind = iota
	AppEventConnected
	AppEventConnectionLost
	AppEventStreamWritable
	AppEventStreamOpened
	AppEventDatagramReceived
	AppEventStreamReadable
	AppEventStreamAvailable
	AppEventStreamFinished
	AppEventStreamStopped
)

// AppEvent is the tagged union PollAppEvent produces. Not every field is
// meaningful for every Kind; see the table in §4.5 for which fields a given
// Kind populates.
type AppEvent struct {
	Kind AppEventKind

	StreamID    StreamID
	HasStreamID bool
	Dir         Dir

	Reason string
	Code   VarInt
}
