// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package search implements Params, an ordered multi-value store of
// URL query parameters with a pluggable Encoder.
//
// Unlike url.Values, Params remembers the order in which keys were
// added and keeps values exactly as they were parsed, without decoding
// them. Serialization goes through the Encoder, which by default is
// encodeURIComponent with the characters @ : $ , ; + = ? / left
// readable.
package search
