// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package header contains Headers, a case-insensitive multi-value map of
HTTP header fields which remembers the case in which each field name
was first seen.

Headers behaves much like http.Header from net/http, with two
differences. Lookups never canonicalize the name, they only fold its
case, so the name is sent exactly as the caller first wrote it. And the
order in which field names were first added is preserved, so iteration
is deterministic.

	h := header.New()
	h.Append("Content-Type", "image/jpeg")
	h.Get("content-type") // "image/jpeg"

Response headers are usually parsed from the raw text returned by a
request capability:

	h := header.FromResponseHeaderString("Date: Fri, 20 Nov 2015\nX-A: 1\n")
*/
package header
