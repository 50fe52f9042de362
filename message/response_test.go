// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package message

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogama/xhttp/header"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResponse(t *testing.T) {
	testCases := []struct {
		status int
		ok     bool
	}{
		{199, false},
		{200, true},
		{204, true},
		{299, true},
		{300, false},
		{404, false},
		{0, false},
	}
	for _, testCase := range testCases {
		t.Run(fmt.Sprint(testCase.status), func(t *testing.T) {
			r := NewResponse(&ResponseOptions{Status: Int(testCase.status)})
			assert.Equal(t, testCase.ok, r.OK)
		})
	}
	t.Run("ok not recomputed", func(t *testing.T) {
		r := NewResponse(&ResponseOptions{Status: Int(200)})
		r.Status = 500
		assert.True(t, r.OK)
	})
	t.Run("nil options", func(t *testing.T) {
		r := NewResponse(nil)
		assert.Equal(t, 0, r.Status)
		assert.False(t, r.OK)
	})
}

func TestResponseString(t *testing.T) {
	r := NewResponse(&ResponseOptions{Status: Int(404), StatusText: "Not Found", URL: "/x"})
	assert.Equal(t, "Response with status: 404 Not Found for URL: /x", r.String())
}

func TestResponseOptionsMerge(t *testing.T) {
	base := BaseResponseOptions()
	m := base.Merge(&ResponseOptions{Body: "b", URL: "/u"})
	assert.Equal(t, 200, *m.Status)
	assert.Equal(t, "Ok", m.StatusText)
	assert.Equal(t, TypeDefault, m.Type)
	assert.Equal(t, "b", m.Body)
	assert.Equal(t, "/u", m.URL)
	assert.Nil(t, base.Body)

	h := header.New()
	m = base.Merge(&ResponseOptions{Status: Int(0), Headers: h, StatusText: "x", Type: TypeError})
	assert.Equal(t, 0, *m.Status)
	assert.Same(t, h, m.Headers)
	assert.Equal(t, "x", m.StatusText)
	assert.Equal(t, TypeError, m.Type)

	assert.Equal(t, base.Status, base.Merge(nil).Status)

	m = base.Merge(&ResponseOptions{Body: "c"})
	assert.NotSame(t, base.Headers, m.Headers)
	m.Headers.Set("X-Extra", "1")
	assert.False(t, base.Headers.Has("X-Extra"))
	assert.NotSame(t, base.Headers, base.Merge(nil).Headers)
}

func TestResponseError(t *testing.T) {
	resp := NewResponse(&ResponseOptions{Status: Int(500), StatusText: "Boom", URL: "/x"})
	var err error = &ResponseError{Response: resp}
	assert.Equal(t, "xhttp: Response with status: 500 Boom for URL: /x", err.Error())
	got, ok := AsResponse(fmt.Errorf("wrapped: %w", err))
	require.True(t, ok)
	assert.Same(t, resp, got)
	assert.Nil(t, errors.Unwrap(err))

	cause := errors.New("network down")
	err = &ResponseError{Response: NewResponse(&ResponseOptions{Body: cause, Type: TypeError})}
	assert.True(t, errors.Is(err, cause))

	_, ok = AsResponse(cause)
	assert.False(t, ok)
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "", Method(0).String())
	assert.Equal(t, "Method(42)", Method(42).String())
	assert.Equal(t, "FORM_DATA", ContentFormData.String())
	assert.Equal(t, "arraybuffer", BufferArrayBuffer.String())
	assert.Equal(t, "Cors", TypeCORS.String())
}
