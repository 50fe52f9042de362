// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package message

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"

	"github.com/gogama/xhttp/header"
	"github.com/gogama/xhttp/search"
	"github.com/google/go-querystring/query"
)

// RequestOptionsArgs is a partial set of request options, as passed by
// callers to a client or to RequestOptions.Merge. Every zero-valued
// field is unset.
type RequestOptionsArgs struct {
	// URL is the request URL, without the query parameters in Params.
	URL string
	// Method is the request method.
	Method Method
	// Headers are the request headers. When set, they replace the
	// headers of the options being merged into rather than being
	// combined with them.
	Headers *header.Headers
	// Body is the request body. See Body for the supported types.
	Body interface{}
	// Params are query parameters appended to URL. Params may be:
	//
	// • a *search.Params, which is cloned;
	//
	// • a raw query string, which is parsed;
	//
	// • a url.Values, map[string][]string, map[string]string or
	// map[string]interface{}, whose keys are added in sorted order;
	// slice values become repeated parameters and non-string scalars
	// are JSON encoded;
	//
	// • a struct or pointer to struct, encoded with go-querystring
	// using its `url` field tags.
	Params interface{}
	// Search is a deprecated alias for Params, used only when Params
	// is unset.
	Search interface{}
	// WithCredentials sets whether cross-site requests carry
	// credentials. Nil leaves the choice to the backend.
	WithCredentials *bool
	// ResponseType selects the response buffer representation.
	ResponseType ResponseContentType
}

// RequestOptions is a resolved set of request options from which a
// Request is built.
//
// A RequestOptions is a value: Merge returns a new instance and never
// changes the receiver.
type RequestOptions struct {
	Method          Method
	Headers         *header.Headers
	Body            interface{}
	URL             string
	Params          *search.Params
	WithCredentials *bool
	ResponseType    ResponseContentType

	// err records a failure to convert Params. It is reported by
	// NewRequest.
	err error
}

// NewRequestOptions resolves args into RequestOptions. A nil args
// produces empty options.
func NewRequestOptions(args *RequestOptionsArgs) *RequestOptions {
	o := &RequestOptions{}
	if args == nil {
		return o
	}
	o.Method = args.Method
	o.Headers = args.Headers
	o.Body = args.Body
	o.URL = args.URL
	o.WithCredentials = args.WithCredentials
	o.ResponseType = args.ResponseType
	o.Params, o.err = o.mergeParams(args.params())
	return o
}

// BaseRequestOptions returns the default request options: method Get
// and empty headers.
func BaseRequestOptions() *RequestOptions {
	return &RequestOptions{
		Method:  Get,
		Headers: header.New(),
	}
}

// Merge returns new options taking each field from args when it is set
// and from o otherwise.
//
// Headers are the exception to field-by-field copying: headers set in
// args are used as they are, and when unset the result gets a copy of
// o's headers, never o's own instance. Params set in args replace o's
// params; see RequestOptionsArgs.Params for their conversion.
func (o *RequestOptions) Merge(args *RequestOptionsArgs) *RequestOptions {
	if args == nil {
		args = &RequestOptionsArgs{}
	}
	m := &RequestOptions{
		Method:          o.Method,
		Body:            o.Body,
		URL:             o.URL,
		WithCredentials: o.WithCredentials,
		ResponseType:    o.ResponseType,
		err:             o.err,
	}
	if args.Method != 0 {
		m.Method = args.Method
	}
	if args.Headers != nil {
		m.Headers = args.Headers
	} else {
		m.Headers = header.From(o.Headers)
	}
	if args.Body != nil {
		m.Body = args.Body
	}
	if args.URL != "" {
		m.URL = args.URL
	}
	if args.WithCredentials != nil {
		m.WithCredentials = args.WithCredentials
	}
	if args.ResponseType != 0 {
		m.ResponseType = args.ResponseType
	}
	var err error
	m.Params, err = o.mergeParams(args.params())
	if err != nil && m.err == nil {
		m.err = err
	}
	return m
}

// Search returns Params. It exists for callers of the older name.
func (o *RequestOptions) Search() *search.Params {
	return o.Params
}

// Args converts o back into a partial, so that it can be merged into
// other options.
func (o *RequestOptions) Args() *RequestOptionsArgs {
	args := &RequestOptionsArgs{
		URL:             o.URL,
		Method:          o.Method,
		Headers:         o.Headers,
		Body:            o.Body,
		WithCredentials: o.WithCredentials,
		ResponseType:    o.ResponseType,
	}
	if o.Params != nil {
		args.Params = o.Params
	}
	return args
}

func (args *RequestOptionsArgs) params() interface{} {
	if !isZeroParams(args.Params) {
		return args.Params
	}
	return args.Search
}

func isZeroParams(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case *search.Params:
		return x == nil
	}
	return false
}

func (o *RequestOptions) mergeParams(v interface{}) (*search.Params, error) {
	if isZeroParams(v) {
		return o.Params, nil
	}
	switch x := v.(type) {
	case *search.Params:
		return x.Clone(), nil
	case string:
		return search.Parse(x), nil
	case url.Values:
		return paramsFromValues(x), nil
	case map[string][]string:
		return paramsFromValues(x), nil
	case map[string]string:
		p := search.New()
		for _, k := range sortedKeys(x) {
			p.Append(k, x[k])
		}
		return p, nil
	case map[string]interface{}:
		p := search.New()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := appendParam(p, k, x[k]); err != nil {
				return nil, err
			}
		}
		return p, nil
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Struct || (t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct) {
		vals, err := query.Values(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		return paramsFromValues(vals), nil
	}
	return nil, fmt.Errorf("%w: got %T", ErrInvalidParams, v)
}

// appendParam adds value under key. Slices add one parameter per
// element; strings are added as is and anything else is JSON encoded.
func appendParam(p *search.Params, key string, value interface{}) error {
	if value != nil {
		rv := reflect.ValueOf(value)
		if k := rv.Kind(); (k == reflect.Slice || k == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				if err := appendScalar(p, key, rv.Index(i).Interface()); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return appendScalar(p, key, value)
}

func appendScalar(p *search.Params, key string, value interface{}) error {
	if s, ok := value.(string); ok {
		p.Append(key, s)
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: key %q: %v", ErrInvalidParams, key, err)
	}
	p.Append(key, string(b))
	return nil
}

func paramsFromValues(vals map[string][]string) *search.Params {
	p := search.New()
	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range vals[k] {
			p.Append(k, v)
		}
	}
	return p
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Bool returns a pointer to b, for setting WithCredentials.
func Bool(b bool) *bool {
	return &b
}
