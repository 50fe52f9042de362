// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonp

// A Finisher receives the payload of a JSONP callback.
type Finisher interface {
	Finished(data interface{})
}

// A Script is the native handle on one loaded script.
type Script interface {
	// URL returns the script URL, with the callback reference already
	// substituted.
	URL() string
	// SetListeners installs the load and error listeners. Passing nil
	// functions detaches them.
	SetListeners(onLoad func(), onError func(err error))
}

// A DOM is the document capability a Connection drives. It creates
// scripts, hands out request ids, and routes callbacks from scripts to
// the connections exposed under those ids.
//
// Implementations must be safe for concurrent use by multiple
// goroutines.
type DOM interface {
	// Build creates a detached script for url.
	Build(url string) Script
	// NextRequestID returns a request id never returned before.
	NextRequestID() string
	// RequestCallback returns the reference a script uses to call back
	// into the connection exposed under id.
	RequestCallback(id string) string
	// ExposeConnection makes conn reachable from scripts under id.
	ExposeConnection(id string, conn Finisher)
	// RemoveConnection makes the connection under id unreachable.
	RemoveConnection(id string)
	// Send attaches the script to the document, which starts loading
	// it. Exactly one listener is called once it has run, unless it is
	// cleaned up first.
	Send(script Script)
	// Cleanup removes the script from the document. Its listeners are
	// no longer called afterwards.
	Cleanup(script Script)
}
