// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonp

import (
	"strconv"
	"sync"
)

// A Registry maps request ids to the connections waiting for their
// callbacks. Ids are "__req0", "__req1" and so on, in the order they
// are handed out. The zero value is an empty registry ready to use.
type Registry struct {
	mu    sync.Mutex
	next  int
	conns map[string]Finisher
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NextRequestID returns a fresh request id.
func (r *Registry) NextRequestID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := "__req" + strconv.Itoa(r.next)
	r.next++
	return id
}

// Expose registers f under id, replacing any previous entry.
func (r *Registry) Expose(id string, f Finisher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conns == nil {
		r.conns = make(map[string]Finisher)
	}
	r.conns[id] = f
}

// Remove deletes the entry for id, if any.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
}

// Lookup returns the entry for id.
func (r *Registry) Lookup(id string) (Finisher, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.conns[id]
	return f, ok
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}
