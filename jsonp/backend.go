// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonp

import (
	"sync"

	"github.com/gogama/xhttp/backend"
	"github.com/gogama/xhttp/message"
	"github.com/rs/zerolog"
)

// Backend creates JSONP connections. The zero value loads scripts with
// a NetDOM of its own.
type Backend struct {
	// DOM loads the scripts. If nil, a NetDOM with default settings is
	// used.
	DOM DOM
	// BaseResponseOptions, if non-nil, are merged under every response.
	BaseResponseOptions *message.ResponseOptions
	// Logger receives connection lifecycle events. If nil, nothing is
	// logged.
	Logger *zerolog.Logger

	once       sync.Once
	defaultDOM DOM
}

// NewBackend returns a backend which loads scripts through dom.
func NewBackend(dom DOM, baseResponseOptions *message.ResponseOptions) *Backend {
	return &Backend{
		DOM:                 dom,
		BaseResponseOptions: baseResponseOptions,
	}
}

// CreateConnection returns a new connection for req. It fails with
// ErrWrongMethod if req is not a GET request.
func (b *Backend) CreateConnection(req *message.Request) (backend.Connection, error) {
	c, err := newConnection(req, b.dom(), b.BaseResponseOptions, b.Logger)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (b *Backend) dom() DOM {
	if b.DOM != nil {
		return b.DOM
	}
	b.once.Do(func() {
		b.defaultDOM = &NetDOM{Logger: b.Logger}
	})
	return b.defaultDOM
}
