// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhttp

import (
	"testing"
	"time"

	"github.com/gogama/xhttp/message"

	"github.com/stretchr/testify/assert"
)

func TestExchange(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		x := &Exchange{}
		assert.Equal(t, 0, x.Status())
		x.Response = message.NewResponse(&message.ResponseOptions{Status: message.Int(418)})
		assert.Equal(t, 418, x.Status())
	})
	t.Run("duration", func(t *testing.T) {
		x := &Exchange{}
		assert.False(t, x.Started())
		assert.False(t, x.Ended())
		assert.Equal(t, time.Duration(0), x.Duration())

		x.Start = time.Now().Add(-time.Second)
		assert.True(t, x.Started())
		assert.GreaterOrEqual(t, int64(x.Duration()), int64(time.Second))

		x.End = x.Start.Add(250 * time.Millisecond)
		assert.True(t, x.Ended())
		assert.Equal(t, 250*time.Millisecond, x.Duration())
	})
	t.Run("values", func(t *testing.T) {
		type key string
		x := &Exchange{}
		assert.Nil(t, x.Value(key("a")))
		x.SetValue(key("a"), 1)
		x.SetValue(key("b"), "two")
		assert.Equal(t, 1, x.Value(key("a")))
		assert.Equal(t, "two", x.Value(key("b")))
		x.SetValue(key("a"), 3)
		assert.Equal(t, 3, x.Value(key("a")))
	})
}
