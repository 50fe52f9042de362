// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package header

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
)

// ErrNotImplemented is returned by Headers.Entries, which exists only
// so that the full header map surface is present.
var ErrNotImplemented = errors.New(`xhttp/header: "entries" method is not implemented on Headers`)

// Headers is a case-insensitive multi-value map of header fields.
//
// The zero value is an empty Headers ready to use. A nil *Headers
// behaves like an empty Headers for reads and Delete; as with a nil map,
// Append and Set panic on it. A Headers is not safe for concurrent
// mutation.
type Headers struct {
	// values maps lower-cased name to the list of raw values.
	values map[string][]string
	// names maps lower-cased name to the first-seen original name.
	names map[string]string
	// order holds lower-cased names in the order they were added.
	order []string
}

// New returns an empty Headers.
func New() *Headers {
	return &Headers{}
}

// From returns a copy of h. Every value of h is appended to the copy
// under its original-case name, so the copy never shares storage with
// h. A nil h produces an empty Headers.
func From(h *Headers) *Headers {
	c := New()
	if h == nil {
		return c
	}
	h.ForEach(func(values []string, name string) {
		for _, v := range values {
			c.Append(name, v)
		}
	})
	return c
}

// FromMap returns Headers built from a plain name to values mapping.
// Each entry replaces any previously added values for the same name
// (folding case), so {"A": ["1"], "a": ["2"]} keeps only one of them.
// Entries are visited in sorted name order.
func FromMap(m map[string][]string) *Headers {
	h := New()
	for _, name := range sortedKeys(m) {
		h.Delete(name)
		for _, v := range m[name] {
			h.Append(name, v)
		}
	}
	return h
}

// FromValues returns Headers built from a plain name to single value
// mapping, with the same rules as FromMap.
func FromValues(m map[string]string) *Headers {
	mm := make(map[string][]string, len(m))
	for k, v := range m {
		mm[k] = []string{v}
	}
	return FromMap(mm)
}

// FromHTTPHeader converts a net/http header map.
func FromHTTPHeader(hh http.Header) *Headers {
	return FromMap(hh)
}

// FromResponseHeaderString parses raw response header text of the form
// produced by XMLHttpRequest.getAllResponseHeaders: one "Name: value"
// field per line. The first colon on a line delimits the name and the
// value is trimmed. Lines without a name are skipped.
//
// A name that appears on more than one line keeps only the value from
// its last line, because each line is applied with Set.
func FromResponseHeaderString(raw string) *Headers {
	h := New()
	for _, line := range strings.Split(raw, "\n") {
		i := strings.IndexByte(line, ':')
		if i > 0 {
			h.Set(line[:i], strings.TrimSpace(line[i+1:]))
		}
	}
	return h
}

// Append adds value to the values of name.
func (h *Headers) Append(name, value string) {
	lc := strings.ToLower(name)
	if vs, ok := h.values[lc]; ok {
		h.values[lc] = append(vs, value)
		return
	}
	h.Set(name, value)
}

// Set replaces the values of name. With one value, name is set to that
// value. With several, they are joined with "," into a single value.
// With none, Set does nothing.
func (h *Headers) Set(name string, values ...string) {
	if len(values) == 0 {
		return
	}
	if h.values == nil {
		h.values = make(map[string][]string)
		h.names = make(map[string]string)
	}
	lc := strings.ToLower(name)
	if _, ok := h.values[lc]; !ok {
		h.order = append(h.order, lc)
	}
	h.values[lc] = []string{strings.Join(values, ",")}
	if _, ok := h.names[lc]; !ok {
		h.names[lc] = name
	}
}

// Get returns the first value of name, or "" if name is absent. Use Has
// to distinguish an absent name from an empty value.
func (h *Headers) Get(name string) string {
	vs := h.GetAll(name)
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// GetAll returns all values of name, or nil if name is absent. The
// returned slice aliases the internal storage and must not be changed.
func (h *Headers) GetAll(name string) []string {
	if h == nil {
		return nil
	}
	return h.values[strings.ToLower(name)]
}

// Has reports whether name is present.
func (h *Headers) Has(name string) bool {
	if h == nil {
		return false
	}
	_, ok := h.values[strings.ToLower(name)]
	return ok
}

// Delete removes name and all its values.
func (h *Headers) Delete(name string) {
	if h == nil {
		return
	}
	lc := strings.ToLower(name)
	if _, ok := h.values[lc]; !ok {
		return
	}
	delete(h.values, lc)
	delete(h.names, lc)
	for i, n := range h.order {
		if n == lc {
			h.order = append(h.order[:i:i], h.order[i+1:]...)
			break
		}
	}
}

// Keys returns the field names, in original case, in the order they
// were first added.
func (h *Headers) Keys() []string {
	if h == nil {
		return nil
	}
	keys := make([]string, len(h.order))
	for i, lc := range h.order {
		keys[i] = h.names[lc]
	}
	return keys
}

// Values returns the value lists of every field, in the same order as
// Keys.
func (h *Headers) Values() [][]string {
	if h == nil {
		return nil
	}
	values := make([][]string, len(h.order))
	for i, lc := range h.order {
		values[i] = h.values[lc]
	}
	return values
}

// ForEach calls fn once per field name, in the same order as Keys.
func (h *Headers) ForEach(fn func(values []string, name string)) {
	if h == nil {
		return
	}
	for _, lc := range h.order {
		fn(h.values[lc], h.names[lc])
	}
}

// Len returns the number of distinct field names.
func (h *Headers) Len() int {
	if h == nil {
		return 0
	}
	return len(h.order)
}

// Entries always fails with ErrNotImplemented.
func (h *Headers) Entries() ([][]string, error) {
	return nil, ErrNotImplemented
}

// HTTPHeader converts h to a net/http header map. Names are kept in
// their original case rather than canonicalized.
func (h *Headers) HTTPHeader() http.Header {
	hh := make(http.Header, h.Len())
	h.ForEach(func(values []string, name string) {
		hh[name] = append([]string(nil), values...)
	})
	return hh
}

// MarshalJSON serializes h as an object mapping each original-case name
// to its values, with every value split on ",".
func (h *Headers) MarshalJSON() ([]byte, error) {
	m := make(map[string][]string, h.Len())
	h.ForEach(func(values []string, name string) {
		var split []string
		for _, v := range values {
			split = append(split, strings.Split(v, ",")...)
		}
		m[name] = split
	})
	return json.Marshal(m)
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
