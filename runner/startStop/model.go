/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

package startStop

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type runner struct {
	mu sync.Mutex

	start FuncStart
	stop  FuncStop

	cancel  context.CancelFunc
	done    chan struct{}
	running bool
	started time.Time

	errMu sync.Mutex
	errs  []error
}

func (r *runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		r.stopLocked(ctx)
	}

	r.errMu.Lock()
	r.errs = nil
	r.errMu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	r.cancel = cancel
	r.done = done
	r.running = true
	r.started = time.Now()

	go r.run(runCtx, done)

	return nil
}

func (r *runner) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer func() {
		if rec := recover(); rec != nil {
			r.recordError(fmt.Errorf("panic in start function: %v", rec))
		}
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	if r.start == nil {
		r.recordError(fmt.Errorf("invalid start function"))
		return
	}

	if err := r.start(ctx); err != nil {
		r.recordError(err)
	}
}

func (r *runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked(ctx)
	return nil
}

func (r *runner) stopLocked(ctx context.Context) {
	if !r.running && r.cancel == nil {
		return
	}

	cancel := r.cancel
	done := r.done
	r.cancel = nil

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	r.running = false

	r.callStop(ctx)
}

func (r *runner) callStop(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			r.recordError(fmt.Errorf("panic in stop function: %v", rec))
		}
	}()

	if r.stop == nil {
		r.recordError(fmt.Errorf("invalid stop function"))
		return
	}

	if err := r.stop(ctx); err != nil {
		r.recordError(err)
	}
}

func (r *runner) Restart(ctx context.Context) error {
	if err := r.Stop(ctx); err != nil {
		return err
	}
	return r.Start(ctx)
}

func (r *runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *runner) Uptime() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return 0
	}
	return time.Since(r.started)
}

func (r *runner) recordError(err error) {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *runner) ErrorsLast() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	if len(r.errs) == 0 {
		return nil
	}
	return r.errs[len(r.errs)-1]
}

func (r *runner) ErrorsList() []error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return append(make([]error, 0, len(r.errs)), r.errs...)
}
