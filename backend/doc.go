// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package backend defines the contract between an xhttp client and the
transports that carry its requests.

A Backend turns a message.Request into a Connection. A Connection is a
single-use object which performs the transport operation for its request
and exposes the eventual message.Response through a Result.

A Result is cold: its producer, and so the transport operation, starts
when the first subscriber arrives. It delivers at most one terminal
outcome, either a response or an error, and it may be cancelled before
that outcome, which synchronously releases the transport resource:

	res := conn.Response()
	cancel := res.Subscribe(
		func(r *message.Response) { ... },
		func(err error) { ... },
	)
	...
	cancel() // no callback runs after this returns

For blocking use, Wait subscribes and waits, cancelling the result if
its context ends first:

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	resp, err := res.Wait(ctx)
*/
package backend
