// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhttp

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to extend it with custom
// functionality.
type Event int

const (
	// BeforeDispatch identifies the event that occurs before a request
	// is handed to the backend.
	//
	// When Client fires BeforeDispatch, the exchange's request field
	// is set to the request that WILL BE dispatched after all
	// BeforeDispatch handlers have finished. Handlers may add headers
	// to the request or replace it.
	BeforeDispatch Event = iota
	// AfterConnect identifies the event that occurs after the backend
	// created a connection for the request.
	//
	// The connection has not started yet: it starts when the Result
	// returned by the Client is first subscribed to.
	AfterConnect
	// AfterResponse identifies the event that occurs after the
	// connection delivered a successful response.
	AfterResponse
	// AfterError identifies the event that occurs after the backend
	// refused the request or the connection delivered an error.
	//
	// When Client fires AfterError, the exchange's error field is set.
	// If the error carries a response, such as a non-2xx status, the
	// response field is set too.
	AfterError
	// AfterCancel identifies the event that occurs after the Result was
	// cancelled before delivering an outcome.
	AfterCancel
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeDispatch",
	"AfterConnect",
	"AfterResponse",
	"AfterError",
	"AfterCancel",
}

// Events returns a slice containing all events which can occur during
// an exchange, in the order in which they would occur. At most one of
// AfterResponse, AfterError and AfterCancel occurs in any exchange.
func Events() []Event {
	return []Event{
		BeforeDispatch,
		AfterConnect,
		AfterResponse,
		AfterError,
		AfterCancel,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
