// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package jsonp implements a backend which fetches JSON by loading a
script that calls back into the client, the JSONP convention.

The caller marks where the callback name goes with the placeholder
=JSONP_CALLBACK in the request URL:

	req, _ := message.NewRequest(message.BaseRequestOptions().Merge(
		&message.RequestOptionsArgs{URL: "https://api.example.com/items?callback=JSONP_CALLBACK"}))
	conn, err := jsonp.NewBackend(&jsonp.NetDOM{}, message.BaseResponseOptions()).CreateConnection(req)

When the connection starts, it registers itself under a fresh request id
and substitutes the callback reference for the placeholder. The script
is expected to call the registered connection's Finished method before
its load event fires; a script which loads without doing so fails the
connection with ErrNoCallback.

Only GET requests can be carried. NetDOM, the production DOM, downloads
the script over HTTP and evaluates the single callback invocation it
contains instead of running arbitrary JavaScript.
*/
package jsonp
