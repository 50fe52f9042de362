// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package message contains the value types exchanged between an xhttp
client and its backends: Request, Response, the Body both of them hold,
and the layered option types RequestOptions and ResponseOptions from
which requests and responses are built.

Options are merged rather than mutated. A long-lived default is
combined with a per-call partial to produce a new RequestOptions,
which is turned into a Request:

	defaults := message.BaseRequestOptions()
	o := defaults.Merge(&message.RequestOptionsArgs{
		Method: message.Post,
		URL:    "https://example.com/items",
		Body:   map[string]interface{}{"name": "x"},
	})
	req, err := message.NewRequest(o)
	...

The request detects its ContentType from an explicit Content-Type header
or, failing that, from the Go type of its body. Backends send the value
returned by Request.GetBody, which is already converted to the wire
representation matching the content type.

A Body holds nil, a string, a []byte, a *Blob, a *FormData, a
*search.Params or any JSON-encodable Go value, and offers the Text, JSON,
ArrayBuffer and Blob views of it.
*/
package message
