// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package message

import (
	"errors"
	"net/url"
	"testing"

	"github.com/gogama/xhttp/header"
	"github.com/gogama/xhttp/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	for _, s := range []string{"get", "GET", "Get"} {
		m, err := ParseMethod(s)
		require.NoError(t, err)
		assert.Equal(t, Get, m)
	}
	m, err := ParseMethod("patch")
	require.NoError(t, err)
	assert.Equal(t, Patch, m)
	assert.Equal(t, "PATCH", m.String())

	_, err = ParseMethod("TRACE")
	assert.True(t, errors.Is(err, ErrInvalidMethod))
	assert.Contains(t, err.Error(), `"TRACE"`)
}

func TestNewRequest(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r, err := NewRequest(&RequestOptions{URL: "https://x"})
		require.NoError(t, err)
		assert.Equal(t, Get, r.Method)
		assert.Equal(t, "https://x", r.URL)
		assert.NotNil(t, r.Headers)
		assert.Equal(t, ContentNone, r.ContentType)
	})
	t.Run("missing url", func(t *testing.T) {
		_, err := NewRequest(&RequestOptions{})
		assert.Equal(t, ErrMissingURL, err)
	})
	t.Run("invalid method", func(t *testing.T) {
		_, err := NewRequest(&RequestOptions{URL: "/x", Method: Method(99)})
		assert.True(t, errors.Is(err, ErrInvalidMethod))
	})
	t.Run("headers copied", func(t *testing.T) {
		h := header.New()
		h.Set("X-A", "1")
		r, err := NewRequest(&RequestOptions{URL: "/x", Headers: h})
		require.NoError(t, err)
		r.Headers.Set("X-B", "2")
		assert.False(t, h.Has("X-B"))
		assert.Equal(t, "1", r.Headers.Get("x-a"))
	})
	t.Run("invalid params", func(t *testing.T) {
		o := NewRequestOptions(&RequestOptionsArgs{URL: "/x", Params: 12})
		_, err := NewRequest(o)
		assert.True(t, errors.Is(err, ErrInvalidParams))
	})
}

func TestRequestURLParams(t *testing.T) {
	testCases := []struct {
		url    string
		params string
		want   string
	}{
		{"/x", "a=1", "/x?a=1"},
		{"/x?b=2", "a=1", "/x?b=2&a=1"},
		{"/x?b=2&", "a=1", "/x?b=2&a=1"},
		{"/x?", "a=1", "/x?&a=1"},
		{"/x", "", "/x"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.url+"+"+testCase.params, func(t *testing.T) {
			r, err := NewRequest(&RequestOptions{URL: testCase.url, Params: search.Parse(testCase.params)})
			require.NoError(t, err)
			assert.Equal(t, testCase.want, r.URL)
		})
	}
}

func TestDetectContentType(t *testing.T) {
	testCases := []struct {
		name        string
		contentType string
		body        interface{}
		want        ContentType
	}{
		{"json header", "application/json", "x", ContentJSON},
		{"json header with charset", "Application/JSON; charset=utf-8", "x", ContentJSON},
		{"form header", "application/x-www-form-urlencoded", "a=1", ContentForm},
		{"multipart header", "multipart/form-data", nil, ContentFormData},
		{"text header", "text/plain", nil, ContentText},
		{"html header", "text/html", nil, ContentText},
		{"octet stream bytes", "application/octet-stream", []byte{1}, ContentArrayBuffer},
		{"octet stream blob", "application/octet-stream", &Blob{}, ContentBlob},
		{"unknown header falls back", "image/png", &Blob{}, ContentBlob},
		{"nil body", "", nil, ContentNone},
		{"params body", "", search.New(), ContentForm},
		{"form data body", "", NewFormData(), ContentFormData},
		{"blob body", "", &Blob{}, ContentBlob},
		{"bytes body", "", []byte("x"), ContentArrayBuffer},
		{"map body", "", map[string]int{"a": 1}, ContentJSON},
		{"struct body", "", struct{ A int }{1}, ContentJSON},
		{"slice body", "", []int{1}, ContentJSON},
		{"string body", "", "s", ContentText},
		{"number body", "", 3.5, ContentText},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			h := header.New()
			if testCase.contentType != "" {
				h.Set("Content-Type", testCase.contentType)
			}
			r, err := NewRequest(&RequestOptions{URL: "/x", Headers: h, Body: testCase.body})
			require.NoError(t, err)
			assert.Equal(t, testCase.want, r.ContentType)
		})
	}
}

func TestGetBody(t *testing.T) {
	mk := func(body interface{}) *Request {
		r, err := NewRequest(&RequestOptions{URL: "/x", Body: body})
		require.NoError(t, err)
		return r
	}
	v, err := mk(map[string]int{"a": 1}).GetBody()
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", v)

	v, err = mk(search.Parse("a=1")).GetBody()
	require.NoError(t, err)
	assert.Equal(t, "a=1", v)

	v, err = mk("text").GetBody()
	require.NoError(t, err)
	assert.Equal(t, "text", v)

	fd := NewFormData()
	v, err = mk(fd).GetBody()
	require.NoError(t, err)
	assert.Same(t, fd, v)

	blob := &Blob{Type: "image/gif"}
	v, err = mk(blob).GetBody()
	require.NoError(t, err)
	assert.Same(t, blob, v)

	v, err = mk([]byte{9}).GetBody()
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, v)

	v, err = mk(nil).GetBody()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestRequestOptionsMerge(t *testing.T) {
	t.Run("url merged into new options", func(t *testing.T) {
		o := NewRequestOptions(&RequestOptionsArgs{Method: Post})
		m := o.Merge(&RequestOptionsArgs{URL: "https://x"})
		assert.Equal(t, "https://x", m.URL)
		assert.Equal(t, Post, m.Method)
		assert.Equal(t, "", o.URL)
	})
	t.Run("empty merge keeps fields and copies headers", func(t *testing.T) {
		o := BaseRequestOptions()
		o.Headers.Set("X-A", "1")
		o.Body = "b"
		o.URL = "/u"
		o.Params = search.Parse("q=1")
		o.WithCredentials = Bool(true)
		o.ResponseType = BufferJSON
		m := o.Merge(&RequestOptionsArgs{})
		assert.Equal(t, o.Method, m.Method)
		assert.Equal(t, o.Body, m.Body)
		assert.Equal(t, o.URL, m.URL)
		assert.Same(t, o.Params, m.Params)
		assert.Equal(t, o.WithCredentials, m.WithCredentials)
		assert.Equal(t, o.ResponseType, m.ResponseType)
		assert.NotSame(t, o.Headers, m.Headers)
		assert.Equal(t, o.Headers.Keys(), m.Headers.Keys())
		m.Headers.Set("X-B", "2")
		assert.False(t, o.Headers.Has("X-B"))

		assert.Equal(t, o.URL, o.Merge(nil).URL)
	})
	t.Run("override headers used directly", func(t *testing.T) {
		h := header.New()
		m := BaseRequestOptions().Merge(&RequestOptionsArgs{Headers: h})
		assert.Same(t, h, m.Headers)
	})
	t.Run("override wins", func(t *testing.T) {
		o := &RequestOptions{Method: Get, URL: "/a", Body: "a", WithCredentials: Bool(true), ResponseType: BufferText}
		m := o.Merge(&RequestOptionsArgs{Method: Put, URL: "/b", Body: "b", WithCredentials: Bool(false), ResponseType: BufferBlob})
		assert.Equal(t, Put, m.Method)
		assert.Equal(t, "/b", m.URL)
		assert.Equal(t, "b", m.Body)
		assert.False(t, *m.WithCredentials)
		assert.Equal(t, BufferBlob, m.ResponseType)
	})
}

type structParams struct {
	Query string `url:"q"`
	Page  int    `url:"page"`
}

func TestMergeParams(t *testing.T) {
	base := &RequestOptions{Params: search.Parse("keep=1")}
	testCases := []struct {
		name   string
		params interface{}
		search interface{}
		want   string
	}{
		{"none", nil, nil, "keep=1"},
		{"empty string", "", nil, "keep=1"},
		{"string", "a=1&a=2", nil, "a=1&a=2"},
		{"params", search.Parse("p=1"), nil, "p=1"},
		{"search alias", nil, "s=1", "s=1"},
		{"params win over search", "p=1", "s=1", "p=1"},
		{"map of interface", map[string]interface{}{"b": []interface{}{"x", 1}, "a": 2, "c": nil, "d": map[string]int{"e": 1}}, nil,
			"a=2&b=x&b=1&c=null&d=%7B%22e%22:1%7D"},
		{"map of string", map[string]string{"z": "1", "y": "2"}, nil, "y=2&z=1"},
		{"url values", url.Values{"v": {"1", "2"}}, nil, "v=1&v=2"},
		{"struct", structParams{Query: "go", Page: 2}, nil, "page=2&q=go"},
		{"struct pointer", &structParams{Query: "go"}, nil, "page=0&q=go"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			m := base.Merge(&RequestOptionsArgs{Params: testCase.params, Search: testCase.search})
			require.NoError(t, m.err)
			assert.Equal(t, testCase.want, m.Params.String())
		})
	}
	t.Run("params are cloned", func(t *testing.T) {
		p := search.Parse("a=1")
		m := base.Merge(&RequestOptionsArgs{Params: p})
		m.Params.Append("a", "2")
		assert.Equal(t, "a=1", p.String())
	})
}

func TestArgsRoundTrip(t *testing.T) {
	o := BaseRequestOptions().Merge(&RequestOptionsArgs{URL: "/x", Params: "a=1"})
	m := BaseRequestOptions().Merge(o.Args())
	assert.Equal(t, "/x", m.URL)
	assert.Equal(t, "a=1", m.Params.String())
	assert.NotSame(t, o.Params, m.Params)
}
