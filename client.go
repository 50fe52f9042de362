// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhttp

import (
	"errors"
	"sync"
	"time"

	"github.com/gogama/xhttp/backend"
	"github.com/gogama/xhttp/jsonp"
	"github.com/gogama/xhttp/message"
	"github.com/gogama/xhttp/xhr"
)

// ErrInvalidArgument is returned by Client.Send for a value which is
// neither a URL string nor a *message.Request.
var ErrInvalidArgument = errors.New("xhttp: first argument must be a url string or *message.Request")

var emptyHandlers = HandlerGroup{}

// A Client builds requests from default and per-call options and
// dispatches them to a backend.
//
// Every dispatching method returns a cold *backend.Result: nothing is
// sent until the Result is first subscribed to or waited on, and
// cancelling the Result cancels the underlying connection. Errors that
// prevent a request from being built or a connection from being
// created are returned directly instead.
//
// The zero value for Client is a ready to use client which sends
// requests with an xhr.Backend over http.DefaultClient and uses
// message.BaseRequestOptions as its defaults. Client is safe for
// concurrent use by multiple goroutines as long as its fields are not
// changed.
type Client struct {
	// Backend creates the connections.
	//
	// If Backend is nil, a zero xhr.Backend is used, or a zero
	// jsonp.Backend for a client made by NewJSONP.
	Backend backend.Backend
	// Defaults are the request options every per-call option set is
	// merged into.
	//
	// If Defaults is nil, message.BaseRequestOptions is used.
	Defaults *message.RequestOptions
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during an exchange.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup

	getOnly bool
}

// New returns a client dispatching to b with the given defaults.
func New(b backend.Backend, defaults *message.RequestOptions) *Client {
	return &Client{
		Backend:  b,
		Defaults: defaults,
	}
}

// NewJSONP returns a client for a JSONP backend. It behaves like a
// client made by New, except that it rejects any request whose method
// is not GET with jsonp.ErrWrongMethod before dispatching it.
func NewJSONP(b backend.Backend, defaults *message.RequestOptions) *Client {
	c := New(b, defaults)
	c.getOnly = true
	return c
}

// Request builds a request for url from the client defaults and args,
// and dispatches it.
//
// The method and URL set in args take precedence over GET and url,
// which in turn take precedence over the defaults.
func (c *Client) Request(url string, args *message.RequestOptionsArgs) (*backend.Result, error) {
	return c.dispatchOptions(c.defaults(), message.Get, url, args)
}

// Send dispatches v, which is either a URL string, handled as by
// Request, or a *message.Request, handled as by Do, in which case args
// is ignored. Any other value fails with ErrInvalidArgument.
func (c *Client) Send(v interface{}, args *message.RequestOptionsArgs) (*backend.Result, error) {
	switch x := v.(type) {
	case string:
		return c.Request(x, args)
	case *message.Request:
		return c.Do(x)
	default:
		return nil, ErrInvalidArgument
	}
}

// Get dispatches a GET request for url.
func (c *Client) Get(url string, args *message.RequestOptionsArgs) (*backend.Result, error) {
	return c.dispatchOptions(c.defaults(), message.Get, url, args)
}

// Post dispatches a POST request for url with body.
func (c *Client) Post(url string, body interface{}, args *message.RequestOptionsArgs) (*backend.Result, error) {
	return c.dispatchOptions(c.withBody(body), message.Post, url, args)
}

// Put dispatches a PUT request for url with body.
func (c *Client) Put(url string, body interface{}, args *message.RequestOptionsArgs) (*backend.Result, error) {
	return c.dispatchOptions(c.withBody(body), message.Put, url, args)
}

// Delete dispatches a DELETE request for url.
func (c *Client) Delete(url string, args *message.RequestOptionsArgs) (*backend.Result, error) {
	return c.dispatchOptions(c.defaults(), message.Delete, url, args)
}

// Patch dispatches a PATCH request for url with body.
func (c *Client) Patch(url string, body interface{}, args *message.RequestOptionsArgs) (*backend.Result, error) {
	return c.dispatchOptions(c.withBody(body), message.Patch, url, args)
}

// Head dispatches a HEAD request for url.
func (c *Client) Head(url string, args *message.RequestOptionsArgs) (*backend.Result, error) {
	return c.dispatchOptions(c.defaults(), message.Head, url, args)
}

// Options dispatches an OPTIONS request for url.
func (c *Client) Options(url string, args *message.RequestOptionsArgs) (*backend.Result, error) {
	return c.dispatchOptions(c.defaults(), message.Options, url, args)
}

// Do dispatches a request which was already built.
//
// The BeforeDispatch and AfterConnect events fire before Do returns.
// The outcome events fire when the returned Result delivers its outcome
// or is cancelled.
func (c *Client) Do(req *message.Request) (*backend.Result, error) {
	if c.getOnly && req.Method != message.Get {
		return nil, jsonp.ErrWrongMethod
	}

	handlers := c.Handlers
	if handlers == nil {
		handlers = &emptyHandlers
	}

	x := &Exchange{Request: req}
	handlers.run(BeforeDispatch, x)

	conn, err := c.backend().CreateConnection(x.Request)
	if err != nil {
		x.Err = err
		x.End = time.Now()
		handlers.run(AfterError, x)
		return nil, err
	}
	x.Connection = conn
	handlers.run(AfterConnect, x)

	return backend.NewResult(func(e *backend.Emitter) func() {
		var mu sync.Mutex
		ended := false
		end := func() bool {
			mu.Lock()
			defer mu.Unlock()
			if ended {
				return false
			}
			ended = true
			x.End = time.Now()
			return true
		}

		x.Start = time.Now()
		cancel := conn.Response().Subscribe(
			func(resp *message.Response) {
				if !end() {
					return
				}
				x.Response = resp
				handlers.run(AfterResponse, x)
				e.Next(resp)
			},
			func(err error) {
				if !end() {
					return
				}
				x.Err = err
				if resp, ok := message.AsResponse(err); ok {
					x.Response = resp
				}
				handlers.run(AfterError, x)
				e.Error(err)
			},
		)
		return func() {
			cancel()
			if !end() {
				return
			}
			x.Err = backend.ErrCancelled
			handlers.run(AfterCancel, x)
		}
	}), nil
}

func (c *Client) dispatchOptions(base *message.RequestOptions, method message.Method, url string, args *message.RequestOptionsArgs) (*backend.Result, error) {
	req, err := message.NewRequest(base.Merge(callArgs(method, url, args)))
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// callArgs returns a copy of args whose method and URL default to
// method and url.
func callArgs(method message.Method, url string, args *message.RequestOptionsArgs) *message.RequestOptionsArgs {
	var a message.RequestOptionsArgs
	if args != nil {
		a = *args
	}
	if a.Method == 0 {
		a.Method = method
	}
	if a.URL == "" {
		a.URL = url
	}
	return &a
}

func (c *Client) defaults() *message.RequestOptions {
	if c.Defaults == nil {
		return message.BaseRequestOptions()
	}
	return c.Defaults
}

// withBody returns the defaults with body merged in. A body set in the
// per-call args takes precedence.
func (c *Client) withBody(body interface{}) *message.RequestOptions {
	return c.defaults().Merge(&message.RequestOptionsArgs{Body: body})
}

func (c *Client) backend() backend.Backend {
	if c.Backend != nil {
		return c.Backend
	}
	if c.getOnly {
		return &jsonp.Backend{}
	}
	return &xhr.Backend{}
}
