// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

// A Native is a single-use native request object with the shape of the
// browser XMLHttpRequest.
//
// A Connection calls Open, the setters, SetListeners and Send in that
// order, then waits for exactly one of the listeners to be called. The
// response getters are only read from inside a listener. After Abort,
// a Native must not call its listeners.
//
// Listeners may be called from any goroutine.
type Native interface {
	// Open initializes the request.
	Open(method, url string)
	// SetWithCredentials sets whether cross-site requests carry
	// credentials such as cookies.
	SetWithCredentials(withCredentials bool)
	// SetRequestHeader adds a request header.
	SetRequestHeader(name, value string)
	// SetResponseType sets the response representation: "arraybuffer",
	// "blob", "json" or "text".
	SetResponseType(responseType string)
	// SetListeners installs the load and error listeners. Passing nil
	// functions detaches them.
	SetListeners(onLoad func(), onError func(err error))
	// Send starts the request with the given body, which is nil, a
	// string, a []byte, a *message.Blob or a *message.FormData.
	Send(body interface{})
	// Abort cancels the request.
	Abort()

	// Status returns the response status, or 0 if none was received.
	Status() int
	// StatusText returns the response status text.
	StatusText() string
	// Response returns the response body in the representation selected
	// by SetResponseType. The second result is false if the native
	// object has no response property, in which case ResponseText is
	// used instead.
	Response() (interface{}, bool)
	// ResponseText returns the response body as text.
	ResponseText() string
	// ResponseURL returns the final response URL. The second result is
	// false if the native object has no responseURL property.
	ResponseURL() (string, bool)
	// AllResponseHeaders returns the response headers as "Name: value"
	// lines.
	AllResponseHeaders() string
	// ResponseHeader returns the value of a single response header.
	ResponseHeader(name string) string
}

// A Builder builds a fresh Native for every connection.
type Builder interface {
	Build() Native
}

// The BuilderFunc type is an adapter to allow the use of ordinary
// functions as native builders.
type BuilderFunc func() Native

// Build calls f().
func (f BuilderFunc) Build() Native {
	return f()
}
