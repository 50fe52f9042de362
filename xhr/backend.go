// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

import (
	"github.com/gogama/xhttp/backend"
	"github.com/gogama/xhttp/message"
	"github.com/rs/zerolog"
)

// Backend creates XHR connections.
//
// The zero value is ready to use: it sends requests with a NetBuilder
// over http.DefaultClient, builds responses without base options, and
// applies no XSRF strategy.
type Backend struct {
	// Builder builds the Native of each connection. If nil, a
	// NetBuilder with default settings is used.
	Builder Builder
	// BaseResponseOptions, if non-nil, are merged under every response.
	BaseResponseOptions *message.ResponseOptions
	// XSRF, if non-nil, configures every request before its connection
	// is created.
	XSRF XSRFStrategy
	// Logger receives connection lifecycle events. If nil, nothing is
	// logged.
	Logger *zerolog.Logger
}

// NewBackend returns a backend with the given parts.
func NewBackend(builder Builder, baseResponseOptions *message.ResponseOptions, xsrf XSRFStrategy) *Backend {
	return &Backend{
		Builder:             builder,
		BaseResponseOptions: baseResponseOptions,
		XSRF:                xsrf,
	}
}

// CreateConnection applies the XSRF strategy to req and returns a new
// connection for it.
func (b *Backend) CreateConnection(req *message.Request) (backend.Connection, error) {
	if b.XSRF != nil {
		b.XSRF.ConfigureRequest(req)
	}
	c, err := newConnection(req, b.Builder, b.BaseResponseOptions, b.Logger)
	if err != nil {
		return nil, err
	}
	return c, nil
}
