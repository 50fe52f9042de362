// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package backend

import (
	"fmt"
	"net/http"

	"github.com/gogama/xhttp/message"
)

// A ReadyState is a stage in the lifecycle of a Connection.
type ReadyState int

const (
	Unsent ReadyState = iota
	Open
	HeadersReceived
	Loading
	Done
	Cancelled
)

var readyStateNames = []string{
	"Unsent",
	"Open",
	"HeadersReceived",
	"Loading",
	"Done",
	"Cancelled",
}

// String returns the name of the ready state.
func (s ReadyState) String() string {
	if s >= 0 && int(s) < len(readyStateNames) {
		return readyStateNames[s]
	}
	return fmt.Sprintf("ReadyState(%d)", int(s))
}

// Terminal reports whether no further transition can leave s.
func (s ReadyState) Terminal() bool {
	return s == Done || s == Cancelled
}

// A Backend creates connections using one specific transport.
//
// CreateConnection returns an error, without starting any transport
// operation, if the request cannot be carried by the backend.
// Implementations must be safe for concurrent use by multiple
// goroutines.
type Backend interface {
	CreateConnection(req *message.Request) (Connection, error)
}

// The BackendFunc type is an adapter to allow the use of ordinary
// functions as backends.
type BackendFunc func(req *message.Request) (Connection, error)

// CreateConnection calls f(req).
func (f BackendFunc) CreateConnection(req *message.Request) (Connection, error) {
	return f(req)
}

// A Connection is one in-flight request and its eventual response.
type Connection interface {
	// Request returns the request the connection carries.
	Request() *message.Request
	// ReadyState returns the current lifecycle stage.
	ReadyState() ReadyState
	// Response returns the handle on the response. Every call returns
	// the same Result.
	Response() *Result
}

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package. The network
// capabilities of the xhr and jsonp backends send requests through one.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	Do(r *http.Request) (*http.Response, error)
}
