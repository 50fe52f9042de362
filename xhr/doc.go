// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package xhr implements a backend which carries requests over a native
request object shaped like the browser XMLHttpRequest.

The native object is a capability: a Builder produces one Native per
connection, and the Connection drives it through open, header setup,
send, and the final load or error event. NetBuilder is the production
Builder, which performs the exchange with a Go HTTP client:

	b := xhr.NewBackend(&xhr.NetBuilder{HTTPDoer: http.DefaultClient},
		message.BaseResponseOptions(), nil)
	conn, err := b.CreateConnection(req)
	...
	resp, err := conn.Response().Wait(ctx)

Before creating each connection the backend asks its XSRFStrategy, if
any, to add an anti-forgery header to the request. CookieXSRFStrategy
copies the XSRF-TOKEN cookie into the X-XSRF-TOKEN header.

The load handler normalizes the quirks of native request objects: the
legacy 1223 status becomes 204, status 0 becomes 200 when a body was
received, and a leading )]}' XSSI guard is stripped from text bodies.
Because the guard is recognized by its characters alone, a body that
genuinely begins with )]}' followed by a newline loses that prefix too.
*/
package xhr
