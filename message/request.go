// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package message

import (
	"fmt"
	"strings"

	"github.com/gogama/xhttp/header"
	"github.com/gogama/xhttp/search"
)

// A Request is one logical request, built once from RequestOptions and
// then read by a backend to produce wire data.
//
// Backends may add headers to a Request they are about to send (for
// example an XSRF token or a default Accept header), but otherwise a
// Request should be treated as immutable.
type Request struct {
	Body

	// URL is the request URL, query parameters included.
	URL string
	// Method is the request method. It is always valid.
	Method Method
	// Headers holds the request headers. It is never nil and never
	// shared with the options the request was built from.
	Headers *header.Headers
	// ContentType is the wire classification of the body, detected
	// when the request was built.
	ContentType ContentType
	// WithCredentials, if non-nil, is applied by backends which support
	// credentialed cross-site requests.
	WithCredentials *bool
	// ResponseType selects the response buffer representation.
	ResponseType ResponseContentType
}

// NewRequest builds a Request from resolved options.
//
// Query parameters in o.Params are serialized and appended to o.URL:
// after "?" if the URL has no query yet, otherwise after "&" unless the
// URL already ends with "&". An unset method means Get. An invalid
// method fails with an error wrapping ErrInvalidMethod.
func NewRequest(o *RequestOptions) (*Request, error) {
	if o == nil {
		o = &RequestOptions{}
	}
	if o.err != nil {
		return nil, o.err
	}
	if o.URL == "" {
		return nil, ErrMissingURL
	}
	method := o.Method
	if method == 0 {
		method = Get
	} else if !method.Valid() {
		return nil, fmt.Errorf("%w: the method %s is not supported", ErrInvalidMethod, method)
	}
	r := &Request{
		Body:            NewBody(o.Body),
		URL:             appendParams(o.URL, o.Params),
		Method:          method,
		Headers:         header.From(o.Headers),
		WithCredentials: o.WithCredentials,
		ResponseType:    o.ResponseType,
	}
	r.ContentType = r.detectContentType()
	return r, nil
}

func appendParams(u string, p *search.Params) string {
	if p == nil {
		return u
	}
	query := p.String()
	if query == "" {
		return u
	}
	prefix := "?"
	if strings.Contains(u, "?") {
		prefix = "&"
		if strings.HasSuffix(u, "&") {
			prefix = ""
		}
	}
	return u + prefix + query
}

// detectContentType classifies the body, preferring an explicit
// Content-Type header. The media type is compared without its
// parameters and ignoring case.
func (r *Request) detectContentType() ContentType {
	switch mediaType(r.Headers.Get("Content-Type")) {
	case "application/json":
		return ContentJSON
	case "application/x-www-form-urlencoded":
		return ContentForm
	case "multipart/form-data":
		return ContentFormData
	case "text/plain", "text/html":
		return ContentText
	case "application/octet-stream":
		if _, ok := r.Raw().([]byte); ok {
			return ContentArrayBuffer
		}
		return ContentBlob
	default:
		return r.detectContentTypeFromBody()
	}
}

func (r *Request) detectContentTypeFromBody() ContentType {
	v := r.Raw()
	switch v.(type) {
	case nil:
		return ContentNone
	case *search.Params:
		return ContentForm
	case *FormData:
		return ContentFormData
	case *Blob:
		return ContentBlob
	case []byte:
		return ContentArrayBuffer
	}
	if isJSONValue(v) {
		return ContentJSON
	}
	return ContentText
}

func mediaType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// GetBody returns the body in the representation backends send for the
// request's ContentType: a string for JSON, form and text bodies, the
// *FormData itself for multipart bodies, a *Blob for blobs and a []byte
// for array buffers. A request without a body gives nil.
func (r *Request) GetBody() (interface{}, error) {
	switch r.ContentType {
	case ContentJSON, ContentForm, ContentText:
		return r.Text()
	case ContentFormData:
		return r.Raw(), nil
	case ContentBlob:
		return r.Blob()
	case ContentArrayBuffer:
		return r.ArrayBuffer()
	default:
		return nil, nil
	}
}
