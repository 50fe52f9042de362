// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonp

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gogama/xhttp/backend"
	"github.com/gogama/xhttp/message"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteURL(t *testing.T) {
	testCases := []struct {
		url      string
		expected string
	}{
		{"/x?cb=JSONP_CALLBACK&y=1", "/x?cb=__req0&y=1"},
		{"/x?cb=JSONP_CALLBACK", "/x?cb=__req0"},
		{"/x?a=JSONP_CALLBACK&b=JSONP_CALLBACK&", "/x?a=__req0&b=JSONP_CALLBACK&"},
		{"/x?cb=other", "/x?cb=other"},
		{"=JSONP_CALLBACK&", "=JSONP_CALLBACK&"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.url, func(t *testing.T) {
			assert.Equal(t, testCase.expected, RewriteURL(testCase.url, "__req0"))
		})
	}
}

func TestConnection(t *testing.T) {
	t.Run("wrong method", testConnectionWrongMethod)
	t.Run("cold", testConnectionCold)
	t.Run("send", testConnectionSend)
	t.Run("finished", testConnectionFinished)
	t.Run("no callback", testConnectionNoCallback)
	t.Run("error", testConnectionError)
	t.Run("cancel", testConnectionCancel)
	t.Run("finished after cancel", testConnectionFinishedAfterCancel)
	t.Run("load while cancelling", testConnectionLoadWhileCancelling)
	t.Run("base headers not shared", testConnectionBaseHeadersNotShared)
}

func testConnectionWrongMethod(t *testing.T) {
	for _, m := range []message.Method{message.Post, message.Put, message.Delete, message.Head} {
		t.Run(m.String(), func(t *testing.T) {
			dom := newFakeDOM()
			c, err := NewConnection(newRequest(t, &message.RequestOptionsArgs{URL: "/x", Method: m}), dom, nil)
			assert.Nil(t, c)
			assert.Same(t, ErrWrongMethod, err)
			assert.Empty(t, dom.scripts)
		})
	}
}

func testConnectionCold(t *testing.T) {
	dom := newFakeDOM()
	c, err := NewConnection(newRequest(t, &message.RequestOptionsArgs{URL: "/x?cb=JSONP_CALLBACK"}), dom, nil)
	require.NoError(t, err)

	assert.Equal(t, backend.Unsent, c.ReadyState())
	assert.Empty(t, dom.scripts)
	assert.Equal(t, 0, dom.registry.Len())
}

func testConnectionSend(t *testing.T) {
	dom := newFakeDOM()
	c, err := NewConnection(newRequest(t, &message.RequestOptionsArgs{URL: "/x?cb=JSONP_CALLBACK&y=1"}), dom, nil)
	require.NoError(t, err)

	c.Response().Start()

	assert.Equal(t, backend.Loading, c.ReadyState())
	s := dom.last()
	require.NotNil(t, s)
	assert.Equal(t, "/x?cb=__req0&y=1", s.URL())
	assert.True(t, s.sent)
	f, ok := dom.registry.Lookup("__req0")
	require.True(t, ok)
	assert.Same(t, c, f)
}

func testConnectionFinished(t *testing.T) {
	dom := newFakeDOM()
	c, err := NewConnection(newRequest(t, &message.RequestOptionsArgs{URL: "/x?cb=JSONP_CALLBACK"}), dom, message.BaseResponseOptions())
	require.NoError(t, err)
	c.Response().Start()
	s := dom.last()

	f, ok := dom.registry.Lookup("__req0")
	require.True(t, ok)
	f.Finished(map[string]interface{}{"id": 1.0})
	assert.Equal(t, 0, dom.registry.Len())
	s.load()

	resp, err := c.Response().Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"id": 1.0}, resp.Raw())
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "/x?cb=__req0", resp.URL)
	assert.Equal(t, backend.Done, c.ReadyState())
	assert.True(t, s.cleaned)
}

func testConnectionNoCallback(t *testing.T) {
	dom := newFakeDOM()
	c, err := NewConnection(newRequest(t, &message.RequestOptionsArgs{URL: "/x?cb=JSONP_CALLBACK"}), dom, message.BaseResponseOptions())
	require.NoError(t, err)
	c.Response().Start()

	dom.last().load()

	_, err = c.Response().Wait(context.Background())
	resp, ok := message.AsResponse(err)
	require.True(t, ok)
	assert.Equal(t, message.TypeError, resp.Type)
	assert.Equal(t, "/x?cb=__req0", resp.URL)
	assert.True(t, errors.Is(err, ErrNoCallback))
	text, err := resp.Text()
	require.NoError(t, err)
	assert.Equal(t, "JSONP injected script did not invoke callback", text)
	assert.True(t, dom.last().cleaned)
	assert.Equal(t, 0, dom.registry.Len())
}

func testConnectionError(t *testing.T) {
	dom := newFakeDOM()
	c, err := NewConnection(newRequest(t, &message.RequestOptionsArgs{URL: "/x?cb=JSONP_CALLBACK"}), dom, message.BaseResponseOptions())
	require.NoError(t, err)
	c.Response().Start()

	dom.last().fail(errors.New("script failed"))

	_, err = c.Response().Wait(context.Background())
	resp, ok := message.AsResponse(err)
	require.True(t, ok)
	assert.Equal(t, message.TypeError, resp.Type)
	assert.Equal(t, "script failed", resp.Raw())
	text, err := resp.Text()
	require.NoError(t, err)
	assert.Equal(t, "script failed", text)
	assert.True(t, dom.last().cleaned)
	assert.Equal(t, backend.Done, c.ReadyState())
}

func testConnectionCancel(t *testing.T) {
	dom := newFakeDOM()
	c, err := NewConnection(newRequest(t, &message.RequestOptionsArgs{URL: "/x?cb=JSONP_CALLBACK"}), dom, nil)
	require.NoError(t, err)
	called := false
	cancel := c.Response().Subscribe(
		func(*message.Response) { called = true },
		func(error) { called = true },
	)
	s := dom.last()

	cancel()

	assert.Equal(t, backend.Cancelled, c.ReadyState())
	assert.True(t, s.cleaned)
	assert.True(t, s.detached)
	assert.Equal(t, 0, dom.registry.Len())
	s.forceLoad()
	assert.False(t, called)
}

func testConnectionFinishedAfterCancel(t *testing.T) {
	dom := newFakeDOM()
	c, err := NewConnection(newRequest(t, &message.RequestOptionsArgs{URL: "/x?cb=JSONP_CALLBACK"}), dom, nil)
	require.NoError(t, err)
	c.Response().Start()
	c.Response().Cancel()

	c.Finished("late")

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.True(t, c.finished)
	assert.Nil(t, c.data)
}

func testConnectionLoadWhileCancelling(t *testing.T) {
	dom := newFakeDOM()
	c, err := NewConnection(newRequest(t, &message.RequestOptionsArgs{URL: "/x?cb=JSONP_CALLBACK"}), dom, nil)
	require.NoError(t, err)
	c.Response().Start()
	orig := c.result
	// Cancelled, but the teardown has not run yet.
	c.result = backend.NewResult(func(*backend.Emitter) func() { return nil })
	c.result.Start()
	c.result.Cancel()

	c.Finished("data")
	dom.last().load()

	assert.Equal(t, backend.Cancelled, c.ReadyState())
	assert.False(t, dom.last().cleaned)
	resp, err := orig.Outcome()
	assert.Nil(t, resp)
	assert.NoError(t, err)
}

func testConnectionBaseHeadersNotShared(t *testing.T) {
	dom := newFakeDOM()
	base := message.BaseResponseOptions()
	load := func() *message.Response {
		c, err := NewConnection(newRequest(t, &message.RequestOptionsArgs{URL: "/x?cb=JSONP_CALLBACK"}), dom, base)
		require.NoError(t, err)
		c.Response().Start()
		c.Finished("ok")
		dom.last().load()
		resp, err := c.Response().Wait(context.Background())
		require.NoError(t, err)
		return resp
	}

	r1, r2 := load(), load()
	assert.NotSame(t, base.Headers, r1.Headers)
	r1.Headers.Set("X-Extra", "1")

	assert.False(t, base.Headers.Has("X-Extra"))
	assert.False(t, r2.Headers.Has("X-Extra"))
}

func newRequest(t *testing.T, args *message.RequestOptionsArgs) *message.Request {
	req, err := message.NewRequest(message.BaseRequestOptions().Merge(args))
	require.NoError(t, err)
	return req
}

type fakeDOM struct {
	registry *Registry

	mu      sync.Mutex
	scripts []*fakeScript
}

func newFakeDOM() *fakeDOM {
	return &fakeDOM{registry: NewRegistry()}
}

func (d *fakeDOM) Build(url string) Script {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := &fakeScript{url: url}
	d.scripts = append(d.scripts, s)
	return s
}

func (d *fakeDOM) NextRequestID() string { return d.registry.NextRequestID() }
func (d *fakeDOM) RequestCallback(id string) string { return id }
func (d *fakeDOM) ExposeConnection(id string, f Finisher) { d.registry.Expose(id, f) }
func (d *fakeDOM) RemoveConnection(id string) { d.registry.Remove(id) }
func (d *fakeDOM) Send(s Script) { s.(*fakeScript).sent = true }
func (d *fakeDOM) Cleanup(s Script) { s.(*fakeScript).cleaned = true }

func (d *fakeDOM) last() *fakeScript {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.scripts) == 0 {
		return nil
	}
	return d.scripts[len(d.scripts)-1]
}

type fakeScript struct {
	url         string
	onLoad      func()
	onError     func(error)
	onLoadSaved func()
	sent        bool
	cleaned     bool
	detached    bool
}

func (s *fakeScript) URL() string { return s.url }

func (s *fakeScript) SetListeners(onLoad func(), onError func(error)) {
	if onLoad == nil && onError == nil {
		s.detached = true
	} else {
		s.onLoadSaved = onLoad
	}
	s.onLoad, s.onError = onLoad, onError
}

func (s *fakeScript) load() {
	if s.onLoad != nil {
		s.onLoad()
	}
}

// forceLoad calls the load listener even if it was detached.
func (s *fakeScript) forceLoad() {
	if s.onLoadSaved != nil {
		s.onLoadSaved()
	}
}

func (s *fakeScript) fail(err error) {
	if s.onError != nil {
		s.onError(err)
	}
}
