// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhttp

import (
	"context"
	"time"

	"github.com/gogama/xhttp/backend"
	"github.com/gogama/xhttp/message"
)

// An Exchange is the state of one request dispatched by a Client, as
// seen by event handlers.
//
// Handlers should treat the exported fields as read-only, except that
// BeforeDispatch handlers may change the request. Handlers may store
// their own data with SetValue.
type Exchange struct {
	// Request is the request being dispatched. It is never nil.
	Request *message.Request

	// Connection is the connection the backend created for the
	// request. It is nil until AfterConnect.
	Connection backend.Connection

	// Start is the time the connection was started, or the zero time
	// if it has not started.
	Start time.Time

	// End is the time the exchange reached its outcome, or the zero
	// time if it has not.
	End time.Time

	// Response is the response delivered by the connection, including
	// the response carried by a *message.ResponseError.
	Response *message.Response

	// Err is the error which ended the exchange, or nil. An exchange
	// cancelled before its outcome has backend.ErrCancelled.
	Err error

	data context.Context
}

// Status returns the status of the response, or 0 if there is none.
func (x *Exchange) Status() int {
	if x.Response == nil {
		return 0
	}

	return x.Response.Status
}

// Duration returns the duration of the exchange.
//
// If the connection has not started, the duration is zero. If the
// exchange has ended, it is End minus Start. Otherwise it is the time
// elapsed since Start.
func (x *Exchange) Duration() time.Duration {
	if !x.Started() {
		return 0
	} else if !x.Ended() {
		return time.Since(x.Start)
	}

	return x.End.Sub(x.Start)
}

// Started indicates whether the connection has started.
func (x *Exchange) Started() bool {
	return !x.Start.IsZero()
}

// Ended indicates whether the exchange has reached its outcome.
func (x *Exchange) Ended() bool {
	return !x.End.IsZero()
}

// SetValue allows event handlers to store arbitrary data in the
// exchange. The key must follow the rules of the key parameter of
// context.WithValue.
func (x *Exchange) SetValue(key, value interface{}) {
	ctx := x.data
	if ctx == nil {
		ctx = context.Background()
	}

	x.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this exchange for key,
// or nil if there is no value associated with key.
func (x *Exchange) Value(key interface{}) interface{} {
	ctx := x.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
