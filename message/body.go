// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package message

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/gogama/xhttp/search"
	"github.com/tidwall/gjson"
)

// A Blob is an immutable chunk of bytes with a MIME type.
type Blob struct {
	// Type is the MIME type of the data, or "" if unknown.
	Type string
	// Data is the content.
	Data []byte
}

// Size returns the length of the data.
func (b *Blob) Size() int {
	return len(b.Data)
}

// A FormField is one entry of FormData. If File is non-nil the field is
// a file upload named FileName, otherwise it is the text Value.
type FormField struct {
	Name     string
	Value    string
	FileName string
	File     *Blob
}

// FormData is an ordered list of multipart form fields. Backends send
// it untouched and encode it as multipart/form-data themselves.
type FormData struct {
	fields []FormField
}

// NewFormData returns empty FormData.
func NewFormData() *FormData {
	return &FormData{}
}

// Append adds a text field.
func (f *FormData) Append(name, value string) {
	f.fields = append(f.fields, FormField{Name: name, Value: value})
}

// AppendFile adds a file field.
func (f *FormData) AppendFile(name, fileName string, file *Blob) {
	f.fields = append(f.fields, FormField{Name: name, FileName: fileName, File: file})
}

// Fields returns the fields in the order they were added.
func (f *FormData) Fields() []FormField {
	return append([]FormField(nil), f.fields...)
}

// Body is the payload shared by Request and Response.
//
// A Body stores the value it was built from unchanged. Text, JSON,
// ArrayBuffer and Blob are conversions to a view of that value; none of
// them changes what is stored.
type Body struct {
	body interface{}
}

// NewBody returns a Body holding v.
func NewBody(v interface{}) Body {
	return Body{body: v}
}

// Raw returns the stored value.
func (b Body) Raw() interface{} {
	return b.body
}

// Text returns the text view of the body:
//
// • nil gives "";
//
// • a string is returned as is;
//
// • []byte and *Blob data are converted to a string;
//
// • *search.Params are serialized as a query string;
//
// • an error gives its message;
//
// • any other map, slice, array, struct, pointer or json.Marshaler is
// encoded as two-space indented JSON;
//
// • anything else is formatted with fmt.Sprint.
func (b Body) Text() (string, error) {
	switch x := b.body.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case *Blob:
		return string(x.Data), nil
	case *search.Params:
		return x.String(), nil
	case error:
		return x.Error(), nil
	}
	if isJSONValue(b.body) {
		return marshalIndent(b.body)
	}
	return fmt.Sprint(b.body), nil
}

// JSON decodes the JSON view of the body into v, which must be a
// non-nil pointer. Strings, []byte and *Blob data are parsed directly;
// other values are first converted with Text.
func (b Body) JSON(v interface{}) error {
	var data []byte
	switch x := b.body.(type) {
	case string:
		data = []byte(x)
	case []byte:
		data = x
	case *Blob:
		data = x.Data
	default:
		s, err := b.Text()
		if err != nil {
			return err
		}
		data = []byte(s)
	}
	return json.Unmarshal(data, v)
}

// ArrayBuffer returns the bytes view of the body. A []byte is returned
// as is; anything else is the UTF-8 encoding of Text.
func (b Body) ArrayBuffer() ([]byte, error) {
	if x, ok := b.body.([]byte); ok {
		return x, nil
	}
	s, err := b.Text()
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// Blob returns the blob view of the body. A *Blob is returned as is and
// a []byte is wrapped in an untyped Blob. Any other body fails with
// ErrNotBlob.
func (b Body) Blob() (*Blob, error) {
	switch x := b.body.(type) {
	case *Blob:
		return x, nil
	case []byte:
		return &Blob{Data: x}, nil
	default:
		return nil, ErrNotBlob
	}
}

// Path looks up a value in the JSON view of the body using gjson path
// syntax, for example "items.#.id". A body whose text view is not
// available gives a non-existent result.
func (b Body) Path(path string) gjson.Result {
	s, err := b.Text()
	if err != nil {
		return gjson.Result{}
	}
	return gjson.Get(s, path)
}

var jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()

// isJSONValue reports whether v is a structured value which should be
// sent as JSON.
func isJSONValue(v interface{}) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	if t.Implements(jsonMarshalerType) {
		return true
	}
	switch t.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Ptr, reflect.Interface:
		return true
	default:
		return false
	}
}

func marshalIndent(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}
