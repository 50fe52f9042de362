// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonp

import (
	"errors"
	"strings"
	"sync"

	"github.com/gogama/xhttp/backend"
	"github.com/gogama/xhttp/message"
	"github.com/rs/zerolog"
)

var (
	// ErrWrongMethod is returned by NewConnection for a request whose
	// method is not GET.
	ErrWrongMethod = errors.New("JSONP requests must use GET request method")
	// ErrNoCallback is the body of the error response produced when a
	// script loads without calling back.
	ErrNoCallback = errors.New("JSONP injected script did not invoke callback")
)

// CallbackPlaceholder marks where the callback reference is substituted
// into a request URL.
const CallbackPlaceholder = "=JSONP_CALLBACK"

// A Connection carries one GET request over one script.
type Connection struct {
	request *message.Request
	dom     DOM
	base    *message.ResponseOptions
	logger  *zerolog.Logger
	result  *backend.Result

	mu       sync.Mutex
	state    backend.ReadyState
	id       string
	finished bool
	data     interface{}
}

// NewConnection creates a connection which loads req through dom.
// Responses are built from baseResponseOptions merged with the callback
// payload; baseResponseOptions may be nil.
func NewConnection(req *message.Request, dom DOM, baseResponseOptions *message.ResponseOptions) (*Connection, error) {
	return newConnection(req, dom, baseResponseOptions, nil)
}

func newConnection(req *message.Request, dom DOM, base *message.ResponseOptions, logger *zerolog.Logger) (*Connection, error) {
	if req.Method != message.Get {
		return nil, ErrWrongMethod
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	c := &Connection{
		request: req,
		dom:     dom,
		base:    base,
		logger:  logger,
		state:   backend.Unsent,
	}
	c.result = backend.NewResult(c.produce)
	return c, nil
}

// Request returns the request the connection carries.
func (c *Connection) Request() *message.Request {
	return c.request
}

// ReadyState returns the current lifecycle stage.
func (c *Connection) ReadyState() backend.ReadyState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Response returns the handle on the response.
func (c *Connection) Response() *backend.Result {
	return c.result
}

// Finished records the callback payload and removes the connection from
// the DOM. It is called by the loaded script. The payload is dropped if
// the connection was cancelled.
func (c *Connection) Finished(data interface{}) {
	c.mu.Lock()
	c.finished = true
	id := c.id
	if c.state != backend.Cancelled {
		c.data = data
	}
	c.mu.Unlock()
	c.dom.RemoveConnection(id)
}

// RewriteURL substitutes callback for the first CallbackPlaceholder in u
// which is followed by "&", or else for a placeholder ending u.
func RewriteURL(u, callback string) string {
	if i := strings.Index(u, CallbackPlaceholder+"&"); i > 0 {
		return u[:i] + "=" + callback + u[i+len(CallbackPlaceholder):]
	}
	if strings.HasSuffix(u, CallbackPlaceholder) {
		return strings.TrimSuffix(u, CallbackPlaceholder) + "=" + callback
	}
	return u
}

func (c *Connection) produce(e *backend.Emitter) func() {
	dom := c.dom

	c.mu.Lock()
	c.state = backend.Loading
	c.id = dom.NextRequestID()
	id := c.id
	c.mu.Unlock()

	dom.ExposeConnection(id, c)
	url := RewriteURL(c.request.URL, dom.RequestCallback(id))
	script := dom.Build(url)

	onLoad := func() {
		c.mu.Lock()
		if !c.finish() {
			c.mu.Unlock()
			return
		}
		finished, data := c.finished, c.data
		c.mu.Unlock()

		script.SetListeners(nil, nil)
		dom.Cleanup(script)
		if !finished {
			dom.RemoveConnection(id)
			c.logger.Debug().Str("url", url).Msg("jsonp: loaded without callback")
			resp := message.NewResponse(c.merge(&message.ResponseOptions{
				Body: ErrNoCallback,
				Type: message.TypeError,
				URL:  url,
			}))
			e.Error(&message.ResponseError{Response: resp})
			return
		}
		c.logger.Debug().Str("url", url).Msg("jsonp: load")
		e.Next(message.NewResponse(c.merge(&message.ResponseOptions{
			Body: data,
			URL:  url,
		})))
	}
	onError := func(err error) {
		c.mu.Lock()
		ok := c.finish()
		c.mu.Unlock()
		if !ok {
			return
		}

		script.SetListeners(nil, nil)
		dom.Cleanup(script)
		dom.RemoveConnection(id)
		c.logger.Debug().Err(err).Str("url", url).Msg("jsonp: error")
		resp := message.NewResponse(c.merge(&message.ResponseOptions{
			Body: err.Error(),
			Type: message.TypeError,
		}))
		e.Error(&message.ResponseError{Response: resp})
	}
	script.SetListeners(onLoad, onError)
	dom.Send(script)

	return func() {
		c.mu.Lock()
		if !c.state.Terminal() {
			c.state = backend.Cancelled
		}
		c.mu.Unlock()
		script.SetListeners(nil, nil)
		dom.Cleanup(script)
		dom.RemoveConnection(id)
		c.logger.Debug().Str("url", url).Msg("jsonp: cancelled")
	}
}

// finish moves the connection to Done and must be called with c.mu
// held. It returns false if the connection already reached a terminal
// state or its result was cancelled.
func (c *Connection) finish() bool {
	if c.state.Terminal() {
		return false
	}
	if c.result.Cancelled() {
		c.state = backend.Cancelled
		return false
	}
	c.state = backend.Done
	return true
}

func (c *Connection) merge(o *message.ResponseOptions) *message.ResponseOptions {
	if c.base == nil {
		return o
	}
	return c.base.Merge(o)
}
