// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package message

import (
	"fmt"
	"strings"
)

// A Method is an HTTP request method. The zero value means the method
// is unset, which requests treat as Get.
type Method int

const (
	Get Method = iota + 1
	Post
	Put
	Delete
	Options
	Head
	Patch
	methodSentinel
)

var methodNames = [...]string{
	Get:     "GET",
	Post:    "POST",
	Put:     "PUT",
	Delete:  "DELETE",
	Options: "OPTIONS",
	Head:    "HEAD",
	Patch:   "PATCH",
}

// ParseMethod returns the Method named by s, ignoring case.
func ParseMethod(s string) (Method, error) {
	u := strings.ToUpper(s)
	for m := Get; m < methodSentinel; m++ {
		if methodNames[m] == u {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: the method %q is not supported", ErrInvalidMethod, s)
}

// Valid reports whether m is one of the defined methods.
func (m Method) Valid() bool {
	return m >= Get && m < methodSentinel
}

// String returns the upper-case method name, as sent on the wire.
func (m Method) String() string {
	if m.Valid() {
		return methodNames[m]
	}
	if m == 0 {
		return ""
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// A ContentType classifies the wire representation of a request body.
// It is derived when the request is built and is independent of the
// literal Content-Type header.
type ContentType int

const (
	ContentNone ContentType = iota
	ContentJSON
	ContentForm
	ContentFormData
	ContentText
	ContentBlob
	ContentArrayBuffer
)

var contentTypeNames = [...]string{
	ContentNone:        "NONE",
	ContentJSON:        "JSON",
	ContentForm:        "FORM",
	ContentFormData:    "FORM_DATA",
	ContentText:        "TEXT",
	ContentBlob:        "BLOB",
	ContentArrayBuffer: "ARRAY_BUFFER",
}

func (ct ContentType) String() string {
	if ct >= 0 && int(ct) < len(contentTypeNames) {
		return contentTypeNames[ct]
	}
	return fmt.Sprintf("ContentType(%d)", int(ct))
}

// A ResponseContentType tells a backend how the response buffer should
// be represented. The zero value leaves the choice to the backend.
type ResponseContentType int

const (
	BufferText ResponseContentType = iota + 1
	BufferJSON
	BufferArrayBuffer
	BufferBlob
)

func (rt ResponseContentType) String() string {
	switch rt {
	case 0:
		return ""
	case BufferText:
		return "text"
	case BufferJSON:
		return "json"
	case BufferArrayBuffer:
		return "arraybuffer"
	case BufferBlob:
		return "blob"
	default:
		return fmt.Sprintf("ResponseContentType(%d)", int(rt))
	}
}

// A ResponseType classifies how a response was obtained. The zero value
// means unset.
type ResponseType int

const (
	TypeBasic ResponseType = iota + 1
	TypeCORS
	TypeDefault
	TypeError
	TypeOpaque
)

func (t ResponseType) String() string {
	switch t {
	case 0:
		return ""
	case TypeBasic:
		return "Basic"
	case TypeCORS:
		return "Cors"
	case TypeDefault:
		return "Default"
	case TypeError:
		return "Error"
	case TypeOpaque:
		return "Opaque"
	default:
		return fmt.Sprintf("ResponseType(%d)", int(t))
	}
}
