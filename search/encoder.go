// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package search

import "strings"

// An Encoder encodes the keys and values of Params during
// serialization. Implementations must be safe for concurrent use.
type Encoder interface {
	EncodeKey(k string) string
	EncodeValue(v string) string
}

// StandardEncoder is the default Encoder. It applies Standard to both
// keys and values.
var StandardEncoder Encoder = standardEncoder{}

type standardEncoder struct{}

func (standardEncoder) EncodeKey(k string) string   { return Standard(k) }
func (standardEncoder) EncodeValue(v string) string { return Standard(v) }

// readable undoes the escaping of characters which RFC 3986 allows
// unescaped in a query.
var readable = strings.NewReplacer(
	"%40", "@",
	"%3A", ":",
	"%24", "$",
	"%2C", ",",
	"%3B", ";",
	"%2B", "+",
	"%3D", "=",
	"%3F", "?",
	"%2F", "/",
)

// Standard escapes s like encodeURIComponent and then unescapes
// @ : $ , ; + = ? / so that the query string stays readable.
//
// Note that "=" and "?" survive unescaped in keys too, which makes a
// key containing "=" ambiguous when the string is parsed again.
func Standard(s string) string {
	return readable.Replace(EscapeComponent(s))
}

const upperhex = "0123456789ABCDEF"

// EscapeComponent escapes s exactly as JavaScript encodeURIComponent
// does: every byte of its UTF-8 form is percent-encoded except
// A-Z a-z 0-9 - _ . ! ~ * ' ( ).
func EscapeComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if shouldEscape(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldEscape(c) {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func shouldEscape(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return false
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return false
	}
	return true
}
