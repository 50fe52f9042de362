// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package search

import "strings"

// Params is an ordered multi-value map of query parameters.
//
// The zero value is empty and serializes with StandardEncoder. A Params
// is not safe for concurrent mutation.
type Params struct {
	values  map[string][]string
	keys    []string
	encoder Encoder
}

// New returns empty Params using StandardEncoder.
func New() *Params {
	return &Params{}
}

// Parse parses a raw query string (without the leading "?") using
// StandardEncoder for later serialization.
func Parse(raw string) *Params {
	return ParseWithEncoder(raw, nil)
}

// ParseWithEncoder parses a raw query string and attaches enc for
// later serialization. A nil enc means StandardEncoder.
//
// Pairs are separated by "&" and split on their first "=" only, so a
// value may itself contain "=". A pair without "=" has the empty
// value. Keys and values are stored as they appear in raw, without
// percent-decoding.
func ParseWithEncoder(raw string, enc Encoder) *Params {
	p := &Params{encoder: enc}
	if raw == "" {
		return p
	}
	for _, pair := range strings.Split(raw, "&") {
		key, val := pair, ""
		if i := strings.IndexByte(pair, '='); i >= 0 {
			key, val = pair[:i], pair[i+1:]
		}
		p.Append(key, val)
	}
	return p
}

// Encoder returns the encoder used by String.
func (p *Params) Encoder() Encoder {
	if p.encoder == nil {
		return StandardEncoder
	}
	return p.encoder
}

// Clone returns a deep copy of p sharing its encoder.
func (p *Params) Clone() *Params {
	c := &Params{encoder: p.encoder}
	c.AppendAll(p)
	return c
}

// Has reports whether key is present.
func (p *Params) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Get returns the first value of key. The second result is false if key
// is absent.
func (p *Params) Get(key string) (string, bool) {
	vs, ok := p.values[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// GetAll returns a copy of the values of key, or an empty slice if key
// is absent.
func (p *Params) GetAll(key string) []string {
	return append([]string{}, p.values[key]...)
}

// Keys returns the keys in insertion order.
func (p *Params) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Set replaces all values of key with the single value val.
func (p *Params) Set(key, val string) {
	p.put(key, []string{val})
}

// SetPtr is Set for an optional value: a nil val deletes key.
func (p *Params) SetPtr(key string, val *string) {
	if val == nil {
		p.Delete(key)
		return
	}
	p.Set(key, *val)
}

// Append adds val to the values of key.
func (p *Params) Append(key, val string) {
	p.put(key, append(p.values[key], val))
}

// AppendPtr is Append for an optional value: a nil val does nothing.
func (p *Params) AppendPtr(key string, val *string) {
	if val != nil {
		p.Append(key, *val)
	}
}

// Delete removes key and all its values.
func (p *Params) Delete(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i:i], p.keys[i+1:]...)
			break
		}
	}
}

// SetAll replaces, for every key in other, the values of that key in p
// with the first value other has for it.
//
// Given p = {x:[1,2,3], c:[8]} and other = {x:[4,5,6], y:[7]}, p becomes
// {x:[4], c:[8], y:[7]}.
func (p *Params) SetAll(other *Params) {
	for _, k := range other.keys {
		p.put(k, []string{other.values[k][0]})
	}
}

// AppendAll appends, for every key in other, all of other's values for
// that key to p's values, in order.
//
// Given p = {x:[1,2,3], c:[8]} and other = {x:[4,5,6], y:[7]}, p becomes
// {x:[1,2,3,4,5,6], c:[8], y:[7]}.
func (p *Params) AppendAll(other *Params) {
	for _, k := range other.keys {
		p.put(k, append(p.values[k], other.values[k]...))
	}
}

// ReplaceAll replaces, for every key in other, p's values for that key
// with a copy of all of other's values.
//
// Given p = {x:[1,2,3], c:[8]} and other = {x:[4,5,6], y:[7]}, p becomes
// {x:[4,5,6], c:[8], y:[7]}.
func (p *Params) ReplaceAll(other *Params) {
	for _, k := range other.keys {
		p.put(k, append([]string(nil), other.values[k]...))
	}
}

// String serializes p as "k=v" pairs joined with "&", keys in insertion
// order and each key's values in order.
func (p *Params) String() string {
	enc := p.Encoder()
	var b strings.Builder
	for _, k := range p.keys {
		ek := enc.EncodeKey(k)
		for _, v := range p.values[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(ek)
			b.WriteByte('=')
			b.WriteString(enc.EncodeValue(v))
		}
	}
	return b.String()
}

func (p *Params) put(key string, vs []string) {
	if p.values == nil {
		p.values = make(map[string][]string)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = vs
}
