// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/gogama/xhttp/backend"
	"github.com/gogama/xhttp/header"
	"github.com/gogama/xhttp/message"
	"github.com/rs/zerolog"
)

// ErrUnsupportedResponseType is returned by NewConnection when the
// request asks for a response buffer representation the backend cannot
// produce.
var ErrUnsupportedResponseType = errors.New("xhttp/xhr: unsupported response content type")

// DefaultAccept is the Accept header added to requests which have none.
const DefaultAccept = "application/json, text/plain, */*"

var xssiPrefix = regexp.MustCompile(`^\)\]\}',?\n`)

// A Connection carries one request over one Native.
//
// The Native is built and the request sent when the connection's
// Result is first subscribed to. Cancelling the Result detaches the
// listeners and aborts the Native.
type Connection struct {
	request *message.Request
	builder Builder
	base    *message.ResponseOptions
	logger  *zerolog.Logger
	result  *backend.Result

	mu    sync.Mutex
	state backend.ReadyState
}

// NewConnection creates a connection which carries req over a Native
// from builder. Responses are built from baseResponseOptions merged with
// what the Native reports; baseResponseOptions may be nil.
func NewConnection(req *message.Request, builder Builder, baseResponseOptions *message.ResponseOptions) (*Connection, error) {
	return newConnection(req, builder, baseResponseOptions, nil)
}

func newConnection(req *message.Request, builder Builder, base *message.ResponseOptions, logger *zerolog.Logger) (*Connection, error) {
	if req.ResponseType < 0 || req.ResponseType > message.BufferBlob {
		return nil, ErrUnsupportedResponseType
	}
	if builder == nil {
		builder = &NetBuilder{}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	c := &Connection{
		request: req,
		builder: builder,
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

func (c *Connection) setState(s backend.ReadyState) {
	c.mu.Lock()
	if !c.state.Terminal() {
		c.state = s
	}
	c.mu.Unlock()
}

// finish moves the connection to Done. It returns false if the
// connection already reached a terminal state or its result was
// cancelled.
func (c *Connection) finish() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
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

func (c *Connection) produce(e *backend.Emitter) func() {
	req := c.request
	native := c.builder.Build()

	native.Open(strings.ToUpper(req.Method.String()), req.URL)
	c.setState(backend.Open)
	if req.WithCredentials != nil {
		native.SetWithCredentials(*req.WithCredentials)
	}

	body, err := req.GetBody()
	if err != nil {
		c.finish()
		native.Abort()
		e.Error(err)
		return nil
	}
	c.setDetectedContentType(body)
	if !req.Headers.Has("Accept") {
		req.Headers.Append("Accept", DefaultAccept)
	}
	req.Headers.ForEach(func(values []string, name string) {
		native.SetRequestHeader(name, strings.Join(values, ","))
	})
	if req.ResponseType != 0 {
		native.SetResponseType(req.ResponseType.String())
	}

	onLoad := func() {
		if !c.finish() {
			return
		}
		native.SetListeners(nil, nil)
		resp := c.loadResponse(native)
		c.logger.Debug().
			Str("method", req.Method.String()).
			Str("url", req.URL).
			Int("status", resp.Status).
			Msg("xhr: load")
		if resp.OK {
			e.Next(resp)
		} else {
			e.Error(&message.ResponseError{Response: resp})
		}
	}
	onError := func(err error) {
		if !c.finish() {
			return
		}
		native.SetListeners(nil, nil)
		c.logger.Debug().
			Err(err).
			Str("method", req.Method.String()).
			Str("url", req.URL).
			Msg("xhr: error")
		resp := message.NewResponse(c.merge(&message.ResponseOptions{
			Body:       err,
			Type:       message.TypeError,
			Status:     message.Int(native.Status()),
			StatusText: native.StatusText(),
		}))
		e.Error(&message.ResponseError{Response: resp})
	}
	native.SetListeners(onLoad, onError)

	native.Send(body)
	c.setState(backend.Loading)

	return func() {
		c.setState(backend.Cancelled)
		native.SetListeners(nil, nil)
		native.Abort()
		c.logger.Debug().
			Str("method", req.Method.String()).
			Str("url", req.URL).
			Msg("xhr: cancelled")
	}
}

// setDetectedContentType sets a Content-Type header matching the body
// classification, unless the request already has one.
func (c *Connection) setDetectedContentType(body interface{}) {
	req := c.request
	if req.Headers.Has("Content-Type") {
		return
	}
	switch req.ContentType {
	case message.ContentJSON:
		req.Headers.Set("Content-Type", "application/json")
	case message.ContentForm:
		req.Headers.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")
	case message.ContentText:
		req.Headers.Set("Content-Type", "text/plain")
	case message.ContentBlob:
		if b, ok := body.(*message.Blob); ok && b.Type != "" {
			req.Headers.Set("Content-Type", b.Type)
		}
	}
}

func (c *Connection) loadResponse(native Native) *message.Response {
	status := native.Status()
	if status == 1223 {
		status = 204
	}

	var body interface{}
	if status != 204 {
		if v, ok := native.Response(); ok {
			body = v
		} else {
			body = native.ResponseText()
		}
		if s, ok := body.(string); ok {
			body = xssiPrefix.ReplaceAllString(s, "")
		}
	}
	if status == 0 && present(body) {
		status = 200
	}

	statusText := native.StatusText()
	if statusText == "" {
		statusText = "OK"
	}

	return message.NewResponse(c.merge(&message.ResponseOptions{
		Body:       body,
		Status:     message.Int(status),
		Headers:    header.FromResponseHeaderString(native.AllResponseHeaders()),
		StatusText: statusText,
		URL:        c.responseURL(native),
	}))
}

func (c *Connection) responseURL(native Native) string {
	if u, ok := native.ResponseURL(); ok && u != "" {
		return u
	}
	if u := native.ResponseHeader("X-Request-URL"); u != "" {
		return u
	}
	return c.request.URL
}

func (c *Connection) merge(o *message.ResponseOptions) *message.ResponseOptions {
	if c.base == nil {
		return o
	}
	return c.base.Merge(o)
}

// present reports whether a response body counts as received.
func present(body interface{}) bool {
	switch b := body.(type) {
	case nil:
		return false
	case string:
		return b != ""
	default:
		return true
	}
}
