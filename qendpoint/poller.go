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

package qendpoint

import (
	"context"
	"runtime"
	"time"

	"github.com/nabbar/quincore/handle"
	"github.com/nabbar/quincore/qlog"
	"github.com/nabbar/quincore/runner/startStop"
)

const (
	// pollerIdleWait bounds how long the poller waits on the notifier
	// before polling anyway, so a connection whose only pending work is a
	// timer (not a fresh datagram or a MarkPollable call) still gets
	// serviced.
	pollerIdleWait = 50 * time.Millisecond

	// pollerSpinBackoffAfter is how many consecutive empty ticks the
	// poller tolerates before concluding the endpoint is genuinely idle.
	pollerSpinBackoffAfter = 1000

	// pollerSpinBackoff is the extra sleep applied once
	// pollerSpinBackoffAfter is reached, so a long-idle endpoint's poller
	// goroutine backs off to a slower cadence instead of burning CPU on
	// pollerIdleWait-spaced wakeups indefinitely.
	pollerSpinBackoff = 20 * time.Millisecond
)

// Poller is the background goroutine that repeatedly calls one Endpoint's
// Poll, supervised by startStop so Start/Stop/Restart and crash-tracking
// come for free (§4.7 ENDPOINT POLLER).
type Poller struct {
	ep       *handle.Shared[Endpoint]
	notifier <-chan struct{}
	ss       startStop.StartStop
}

// NewPoller builds a Poller over ep. It does not start the background
// goroutine; call Start.
func NewPoller(ep *handle.Shared[Endpoint]) *Poller {
	p := &Poller{ep: ep}

	_ = ep.RefAccess(func(e Endpoint) error {
		p.notifier = e.Notifier()
		return nil
	})

	p.ss = startStop.New(p.run, p.shutdown)
	return p
}

func (p *Poller) Start(ctx context.Context) error   { return p.ss.Start(ctx) }
func (p *Poller) Stop(ctx context.Context) error    { return p.ss.Stop(ctx) }
func (p *Poller) Restart(ctx context.Context) error { return p.ss.Restart(ctx) }
func (p *Poller) IsRunning() bool                   { return p.ss.IsRunning() }
func (p *Poller) Uptime() time.Duration             { return p.ss.Uptime() }
func (p *Poller) ErrorsLast() error                 { return p.ss.ErrorsLast() }

func (p *Poller) run(ctx context.Context) error {
	spins := 0
	loopAgain := false

	for {
		if !loopAgain {
			select {
			case <-ctx.Done():
				return nil
			case <-p.notifier:
			case <-time.After(pollerIdleWait):
			}
		} else {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
		}

		var (
			serviced int
			again    bool
		)
		// A host FFI call may be holding the endpoint's lock (e.g.
		// handle_datagram); TryMutAccess backs off instead of blocking
		// the poller goroutine behind it (§4.7, §5 non-starvation).
		acquired, pollErr := p.ep.TryMutAccess(func(e *Endpoint) error {
			var epErr error
			serviced, again, epErr = e.Poll(time.Now())
			return epErr
		})
		if pollErr != nil {
			qlog.L().Error("endpoint poller recovered from a panic during poll", pollErr)
		}
		if !acquired {
			again = true
		}

		if again {
			loopAgain = true
			spins++
			// Re-entering without blocking could spin the CPU
			// indefinitely under sustained load. Every pass still makes
			// a lock attempt; every pollerSpinBackoffAfter-th spin sleeps
			// for pollerSpinBackoff, and the other spins yield via
			// runtime.Gosched so other goroutines run between ticks.
			if spins%pollerSpinBackoffAfter == 0 {
				time.Sleep(pollerSpinBackoff)
			} else {
				runtime.Gosched()
			}
			continue
		}

		loopAgain = false

		if serviced == 0 {
			spins++
			if spins > pollerSpinBackoffAfter {
				time.Sleep(pollerSpinBackoff)
			}
		} else {
			spins = 0
		}
	}
}

func (p *Poller) shutdown(_ context.Context) error {
	return nil
}
