// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package message

import (
	"fmt"

	"github.com/gogama/xhttp/header"
)

// ResponseOptions is a set of response options from which a Response
// is built. Every zero-valued field (nil Status) is unset.
type ResponseOptions struct {
	Body       interface{}
	Status     *int
	Headers    *header.Headers
	StatusText string
	Type       ResponseType
	URL        string
}

// BaseResponseOptions returns the default response options: status
// 200, status text "Ok", type TypeDefault and empty headers.
func BaseResponseOptions() *ResponseOptions {
	return &ResponseOptions{
		Status:     Int(200),
		StatusText: "Ok",
		Type:       TypeDefault,
		Headers:    header.New(),
	}
}

// Merge returns new options taking each field from p when it is set and
// from o otherwise. Headers taken from o are copied.
func (o *ResponseOptions) Merge(p *ResponseOptions) *ResponseOptions {
	m := *o
	if o.Headers != nil {
		m.Headers = header.From(o.Headers)
	}
	if p == nil {
		return &m
	}
	if p.Body != nil {
		m.Body = p.Body
	}
	if p.Status != nil {
		m.Status = p.Status
	}
	if p.Headers != nil {
		m.Headers = p.Headers
	}
	if p.StatusText != "" {
		m.StatusText = p.StatusText
	}
	if p.Type != 0 {
		m.Type = p.Type
	}
	if p.URL != "" {
		m.URL = p.URL
	}
	return &m
}

// A Response is the result of one request.
type Response struct {
	Body

	// Type classifies how the response was obtained.
	Type ResponseType
	// OK reports whether Status was in the range 200-299 when the
	// response was built. It is not recomputed if Status changes.
	OK bool
	// URL is the URL the response came from.
	URL string
	// Status is the HTTP status code.
	Status int
	// StatusText is the HTTP status text.
	StatusText string
	// Headers holds the response headers. It may be nil.
	Headers *header.Headers
}

// NewResponse builds a Response from options.
func NewResponse(o *ResponseOptions) *Response {
	if o == nil {
		o = &ResponseOptions{}
	}
	r := &Response{
		Body:       NewBody(o.Body),
		Type:       o.Type,
		URL:        o.URL,
		StatusText: o.StatusText,
		Headers:    o.Headers,
	}
	if o.Status != nil {
		r.Status = *o.Status
	}
	r.OK = IsSuccess(r.Status)
	return r
}

// String describes the response status and URL.
func (r *Response) String() string {
	return fmt.Sprintf("Response with status: %d %s for URL: %s", r.Status, r.StatusText, r.URL)
}

// IsSuccess reports whether status is a 2xx status.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}

// Int returns a pointer to i, for setting ResponseOptions.Status.
func Int(i int) *int {
	return &i
}
