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

package quicerr_test

import (
	"errors"
	"fmt"

	"github.com/nabbar/quincore/quicerr"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Error taxonomy", func() {
	It("reports ArgumentNull errors with the argument name as reason", func() {
		e := quicerr.ArgumentNull("handle")
		Expect(e.Kind()).To(Equal(quicerr.KindCode))
		Expect(e.Reason()).To(Equal("handle"))
	})

	It("preserves a wrapped I/O error's message", func() {
		orig := errors.New("channel closed")
		e := quicerr.FromIO(orig)
		Expect(e.Kind()).To(Equal(quicerr.KindIO))
		Expect(e.Reason()).To(Equal("channel closed"))
	})

	It("formats protocol errors with their code", func() {
		e := quicerr.FromProto(7, "stream reset")
		Expect(e.Kind()).To(Equal(quicerr.KindProtocol))
		Expect(e.Reason()).To(Equal(fmt.Sprintf("protocol error %d: %s", 7, "stream reset")))
	})

	It("tags BufferTooSmall/BufferBlocked as KindCode", func() {
		Expect(quicerr.BufferTooSmall().Kind()).To(Equal(quicerr.KindCode))
		Expect(quicerr.BufferBlocked().Kind()).To(Equal(quicerr.KindCode))
	})

	It("returns an empty reason and KindCode for a nil error", func() {
		var e *quicerr.Error
		Expect(e.Reason()).To(Equal(""))
		Expect(e.Kind()).To(Equal(quicerr.KindCode))
	})
})
