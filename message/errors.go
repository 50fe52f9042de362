// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package message

import "errors"

var (
	// ErrInvalidMethod is the cause of errors from ParseMethod and
	// NewRequest when the request method is not supported.
	ErrInvalidMethod = errors.New("xhttp/message: invalid request method")

	// ErrNotBlob is returned by Body.Blob when the body is neither a
	// *Blob nor a []byte.
	ErrNotBlob = errors.New("xhttp/message: the body isn't either a blob or an array buffer")

	// ErrMissingURL is returned by NewRequest when no URL is set.
	ErrMissingURL = errors.New("xhttp/message: request url is not set")

	// ErrInvalidParams is the cause of errors from NewRequest when the
	// query parameters given in RequestOptionsArgs have an unsupported
	// type.
	ErrInvalidParams = errors.New("xhttp/message: invalid type (for params use nil, string, " +
		"*search.Params, a map or a struct)")
)

// A ResponseError delivers a failed Response through an error channel.
//
// Backends report a non-2xx status and transport failures this way, so
// a caller can still read the status, headers and body of the failure.
type ResponseError struct {
	Response *Response
}

// Error returns the response description.
func (e *ResponseError) Error() string {
	return "xhttp: " + e.Response.String()
}

// Unwrap returns the underlying transport error if the response body
// holds one, as it does for responses of TypeError.
func (e *ResponseError) Unwrap() error {
	if err, ok := e.Response.Raw().(error); ok {
		return err
	}
	return nil
}

// AsResponse returns the Response carried by err, if err is or wraps a
// *ResponseError.
func AsResponse(err error) (*Response, bool) {
	var re *ResponseError
	if errors.As(err, &re) {
		return re.Response, true
	}
	return nil, false
}
