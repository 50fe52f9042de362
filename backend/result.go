// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package backend

import (
	"context"
	"errors"
	"sync"

	"github.com/gogama/xhttp/message"
)

// ErrCancelled is the outcome of a Result cancelled before it produced
// a response or an error.
var ErrCancelled = errors.New("xhttp/backend: cancelled")

// A Producer starts the work behind a Result. It is called at most once,
// when the Result is first subscribed to, and reports the outcome
// through e, which may happen synchronously or from any goroutine.
//
// The returned teardown releases the resources of the work. It is
// called exactly once if the Result is cancelled before an outcome is
// delivered, and never otherwise. A nil teardown is allowed.
type Producer func(e *Emitter) (teardown func())

// An Emitter delivers the single outcome of a Result.
type Emitter struct {
	r *Result
}

// Next delivers a successful response and completes the Result. It
// returns false, and does nothing, if an outcome was already delivered
// or the Result was cancelled.
func (e *Emitter) Next(resp *message.Response) bool {
	return e.r.settle(resp, nil)
}

// Error delivers a failure. Transport failures should be reported as a
// *message.ResponseError so that the response remains inspectable. It
// returns false, and does nothing, if an outcome was already delivered
// or the Result was cancelled.
func (e *Emitter) Error(err error) bool {
	return e.r.settle(nil, err)
}

// Active reports whether the Result is still waiting for an outcome.
func (e *Emitter) Active() bool {
	return e.r.pending()
}

type resultState int

const (
	idle resultState = iota
	running
	settled
	cancelled
)

// A Result is a single-value, cancelable handle on an asynchronously
// produced response. Results are safe for concurrent use by multiple
// goroutines.
type Result struct {
	produce Producer

	mu        sync.Mutex
	state     resultState
	teardown  func()
	observers []observer
	done      chan struct{}
	resp      *message.Response
	err       error
}

type observer struct {
	onResponse func(*message.Response)
	onError    func(error)
}

// NewResult returns a Result whose outcome is produced by p.
func NewResult(p Producer) *Result {
	if p == nil {
		panic("xhttp/backend: nil producer")
	}
	return &Result{
		produce: p,
		done:    make(chan struct{}),
	}
}

// Subscribe registers callbacks for the outcome and starts the producer
// if it is not started yet. Exactly one of onResponse or onError is
// called, at most once, unless the subscription is cancelled first.
// Either callback may be nil. If the outcome is already known, the
// matching callback runs before Subscribe returns.
//
// Callbacks run on the goroutine that delivers the outcome, so they
// should not block.
//
// The returned cancel function cancels the whole Result, as Cancel
// does. It is safe to call more than once.
func (r *Result) Subscribe(onResponse func(*message.Response), onError func(error)) (cancel func()) {
	ob := observer{onResponse: onResponse, onError: onError}
	r.mu.Lock()
	switch r.state {
	case settled:
		resp, err := r.resp, r.err
		r.mu.Unlock()
		ob.call(resp, err)
		return func() {}
	case cancelled:
		r.mu.Unlock()
		return func() {}
	}
	r.observers = append(r.observers, ob)
	start := r.state == idle
	if start {
		r.state = running
	}
	r.mu.Unlock()
	if start {
		r.start()
	}
	return r.Cancel
}

// Start starts the producer without registering callbacks. It has no
// effect if the producer was already started.
func (r *Result) Start() {
	r.mu.Lock()
	if r.state != idle {
		r.mu.Unlock()
		return
	}
	r.state = running
	r.mu.Unlock()
	r.start()
}

func (r *Result) start() {
	td := r.produce(&Emitter{r: r})
	r.mu.Lock()
	if r.state == cancelled {
		// Cancelled while the producer was starting up.
		r.mu.Unlock()
		if td != nil {
			td()
		}
		return
	}
	if r.state == running {
		r.teardown = td
	}
	r.mu.Unlock()
}

// Cancel cancels the Result. If no outcome was delivered yet, the
// producer's teardown runs before Cancel returns, no callback is called
// afterwards, and the outcome becomes ErrCancelled. Otherwise Cancel
// does nothing.
func (r *Result) Cancel() {
	r.mu.Lock()
	if r.state == settled || r.state == cancelled {
		r.mu.Unlock()
		return
	}
	started := r.state == running
	r.state = cancelled
	r.err = ErrCancelled
	td := r.teardown
	r.teardown = nil
	r.observers = nil
	close(r.done)
	r.mu.Unlock()
	if started && td != nil {
		td()
	}
}

// Wait subscribes to the Result and blocks until its outcome is known or
// ctx is done. If ctx ends first, the Result is cancelled and ctx.Err()
// is returned.
func (r *Result) Wait(ctx context.Context) (*message.Response, error) {
	r.Start()
	select {
	case <-r.done:
		return r.Outcome()
	case <-ctx.Done():
		r.Cancel()
		// The outcome may have been delivered concurrently.
		if resp, err := r.Outcome(); err != ErrCancelled {
			return resp, err
		}
		return nil, ctx.Err()
	}
}

// Done returns a channel which is closed once the Result is settled or
// cancelled.
func (r *Result) Done() <-chan struct{} {
	return r.done
}

// Outcome returns the delivered response or error. Before the Result is
// done it returns nil, nil.
func (r *Result) Outcome() (*message.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resp, r.err
}

// Cancelled reports whether the Result was cancelled.
func (r *Result) Cancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == cancelled
}

func (r *Result) pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == idle || r.state == running
}

func (r *Result) settle(resp *message.Response, err error) bool {
	r.mu.Lock()
	if r.state != running {
		r.mu.Unlock()
		return false
	}
	r.state = settled
	r.resp, r.err = resp, err
	obs := r.observers
	r.observers = nil
	r.teardown = nil
	close(r.done)
	r.mu.Unlock()
	for _, ob := range obs {
		ob.call(resp, err)
	}
	return true
}

func (ob observer) call(resp *message.Response, err error) {
	if err != nil {
		if ob.onError != nil {
			ob.onError(err)
		}
		return
	}
	if ob.onResponse != nil {
		ob.onResponse(resp)
	}
}
