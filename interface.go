// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhttp

import (
	"github.com/gogama/xhttp/backend"
	"github.com/gogama/xhttp/message"
)

// Doer is the interface that wraps the basic Do method.
//
// Do dispatches a built request and returns the handle on its response.
// Client implements the Doer interface, and any other Doer
// implementation must behave substantially the same as Client.Do.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Doer interface {
	Do(req *message.Request) (*backend.Result, error)
}

// Getter is the interface that wraps the basic Get method.
//
// Any Doer can be used to emulate a Getter via the Get function.
type Getter interface {
	Get(url string, args *message.RequestOptionsArgs) (*backend.Result, error)
}

// Header is the interface that wraps the basic Head method.
//
// Any Doer can be used to emulate a Header via the Head function.
type Header interface {
	Head(url string, args *message.RequestOptionsArgs) (*backend.Result, error)
}

// Poster is the interface that wraps the basic Post method.
//
// Any Doer can be used to emulate a Poster via the Post function.
type Poster interface {
	Post(url string, body interface{}, args *message.RequestOptionsArgs) (*backend.Result, error)
}

// Putter is the interface that wraps the basic Put method.
type Putter interface {
	Put(url string, body interface{}, args *message.RequestOptionsArgs) (*backend.Result, error)
}

// Deleter is the interface that wraps the basic Delete method.
type Deleter interface {
	Delete(url string, args *message.RequestOptionsArgs) (*backend.Result, error)
}

// Patcher is the interface that wraps the basic Patch method.
type Patcher interface {
	Patch(url string, body interface{}, args *message.RequestOptionsArgs) (*backend.Result, error)
}

// Executor is the interface that groups the basic Do, Get, Head, Post,
// Put, Delete and Patch methods.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Executor interface {
	Doer
	Getter
	Header
	Poster
	Putter
	Deleter
	Patcher
}

// Get uses the specified Doer to issue a GET to the specified URL.
// The request is built from message.BaseRequestOptions merged with
// args.
func Get(d Doer, url string, args *message.RequestOptionsArgs) (*backend.Result, error) {
	return do(d, nil, message.Get, url, args)
}

// Head uses the specified Doer to issue a HEAD to the specified URL.
func Head(d Doer, url string, args *message.RequestOptionsArgs) (*backend.Result, error) {
	return do(d, nil, message.Head, url, args)
}

// Post uses the specified Doer to issue a POST with body to the
// specified URL. A body set in args takes precedence.
func Post(d Doer, url string, body interface{}, args *message.RequestOptionsArgs) (*backend.Result, error) {
	return do(d, body, message.Post, url, args)
}

// Put uses the specified Doer to issue a PUT with body to the
// specified URL.
func Put(d Doer, url string, body interface{}, args *message.RequestOptionsArgs) (*backend.Result, error) {
	return do(d, body, message.Put, url, args)
}

// Delete uses the specified Doer to issue a DELETE to the specified URL.
func Delete(d Doer, url string, args *message.RequestOptionsArgs) (*backend.Result, error) {
	return do(d, nil, message.Delete, url, args)
}

// Patch uses the specified Doer to issue a PATCH with body to the
// specified URL.
func Patch(d Doer, url string, body interface{}, args *message.RequestOptionsArgs) (*backend.Result, error) {
	return do(d, body, message.Patch, url, args)
}

func do(d Doer, body interface{}, method message.Method, url string, args *message.RequestOptionsArgs) (*backend.Result, error) {
	base := message.BaseRequestOptions().Merge(&message.RequestOptionsArgs{Body: body})
	req, err := message.NewRequest(base.Merge(callArgs(method, url, args)))
	if err != nil {
		return nil, err
	}
	return d.Do(req)
}

// Inflate converts any non-nil Doer into an Executor. This may be
// helpful for interop across library boundaries, i.e. if code that only
// has access to a Doer needs to call a function that requires an
// Executor.
func Inflate(d Doer) Executor {
	if d == nil {
		panic("xhttp: nil doer")
	}

	if e, ok := d.(Executor); ok {
		return e
	}

	return inflated{d}
}

type inflated struct {
	doer Doer
}

func (i inflated) Do(req *message.Request) (*backend.Result, error) {
	return i.doer.Do(req)
}

func (i inflated) Get(url string, args *message.RequestOptionsArgs) (*backend.Result, error) {
	return Get(i.doer, url, args)
}

func (i inflated) Head(url string, args *message.RequestOptionsArgs) (*backend.Result, error) {
	return Head(i.doer, url, args)
}

func (i inflated) Post(url string, body interface{}, args *message.RequestOptionsArgs) (*backend.Result, error) {
	return Post(i.doer, url, body, args)
}

func (i inflated) Put(url string, body interface{}, args *message.RequestOptionsArgs) (*backend.Result, error) {
	return Put(i.doer, url, body, args)
}

func (i inflated) Delete(url string, args *message.RequestOptionsArgs) (*backend.Result, error) {
	return Delete(i.doer, url, args)
}

func (i inflated) Patch(url string, body interface{}, args *message.RequestOptionsArgs) (*backend.Result, error) {
	return Patch(i.doer, url, body, args)
}
