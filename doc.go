// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package xhttp provides a browser-style HTTP client: requests are built
from layered options, handed to a pluggable backend, and answered
through a cancellable, single-value Result.

Create a Client to begin making requests.

	client := &xhttp.Client{}
	res, err := client.Get("https://www.example.com/items", nil)
	...
	resp, err := res.Wait(ctx)
	...
	res, err = client.Post("https://www.example.com/items",
		map[string]string{"name": "gopher"}, nil)

Per-call options are merged into the client defaults, so headers or
query parameters shared by every request need to be set only once:

	defaults := message.BaseRequestOptions().Merge(&message.RequestOptionsArgs{
		Headers: header.FromValues(map[string]string{"Authorization": "Bearer t"}),
	})
	client := xhttp.New(xhr.NewBackend(&xhr.NetBuilder{HTTPDoer: doer},
		message.BaseResponseOptions(), nil), defaults)
	res, err := client.Get("https://www.example.com/search",
		&message.RequestOptionsArgs{Params: map[string]string{"q": "go"}})

Nothing is sent until the Result is subscribed to or waited on.
Cancelling the Result, or waiting with a context which ends first,
aborts the request.

A JSONP client fetches JSON from servers which only speak the JSONP
convention. It accepts GET requests only:

	client := xhttp.NewJSONP(jsonp.NewBackend(&jsonp.NetDOM{},
		message.BaseResponseOptions()), nil)
	res, err := client.Get("https://api.example.com/items?callback=JSONP_CALLBACK", nil)

To observe or extend the client's dispatch logic, install a handler into
the appropriate handler chain:

	handlers := &xhttp.HandlerGroup{}
	handlers.PushBack(xhttp.AfterResponse, xhttp.HandlerFunc(
		func(_ xhttp.Event, x *xhttp.Exchange) {
			log.Printf("%s %s: %d in %s", x.Request.Method, x.Request.URL,
				x.Status(), x.Duration())
		}))
	client := &xhttp.Client{Handlers: handlers}

Package xhttp provides basic interfaces for the client's methods (Doer,
Getter, Header, Poster, Putter, Deleter and Patcher); a combined
interface that composes them (Executor); and utility functions for
working with a Doer (Inflate, Get, Head, Post, Put, Delete and Patch).
*/
package xhttp
