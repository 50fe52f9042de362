// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gogama/xhttp/backend"
	"github.com/gogama/xhttp/message"
	"github.com/rs/zerolog"
	"golang.org/x/net/http/httpguts"
)

// NetBuilder builds Natives which perform the exchange with an
// HTTPDoer. The zero value uses http.DefaultClient and no cookie jar.
type NetBuilder struct {
	// HTTPDoer sends the requests. If nil, http.DefaultClient is used.
	HTTPDoer backend.HTTPDoer
	// Jar, if non-nil, supplies and stores cookies for requests sent
	// with credentials. Leave it nil if HTTPDoer already has a jar.
	Jar http.CookieJar
	// Logger receives transport diagnostics. If nil, nothing is logged.
	Logger *zerolog.Logger
}

// Build returns a new Native.
func (b *NetBuilder) Build() Native {
	doer := b.HTTPDoer
	if doer == nil {
		doer = http.DefaultClient
	}
	logger := b.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &netNative{
		doer:   doer,
		jar:    b.Jar,
		logger: logger,
		header: make(http.Header),
	}
}

type netNative struct {
	doer   backend.HTTPDoer
	jar    http.CookieJar
	logger *zerolog.Logger

	mu              sync.Mutex
	method          string
	url             string
	header          http.Header
	headerErr       error
	withCredentials bool
	responseType    string
	onLoad          func()
	onError         func(error)
	cancel          context.CancelFunc
	aborted         bool

	status       int
	statusText   string
	respHeader   http.Header
	responseURL  string
	data         []byte
	hasResponse  bool
	responseBody interface{}
}

func (n *netNative) Open(method, url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.method, n.url = method, url
}

func (n *netNative) SetWithCredentials(withCredentials bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.withCredentials = withCredentials
}

func (n *netNative) SetRequestHeader(name, value string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !httpguts.ValidHeaderFieldName(name) {
		if n.headerErr == nil {
			n.headerErr = fmt.Errorf("xhttp/xhr: invalid header name %q", name)
		}
		return
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		if n.headerErr == nil {
			n.headerErr = fmt.Errorf("xhttp/xhr: invalid value for header %q", name)
		}
		return
	}
	n.header.Add(name, value)
}

func (n *netNative) SetResponseType(responseType string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.responseType = responseType
}

func (n *netNative) SetListeners(onLoad func(), onError func(err error)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onLoad, n.onError = onLoad, onError
}

func (n *netNative) Send(body interface{}) {
	n.mu.Lock()
	if n.aborted {
		n.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel
	req, err := n.newRequest(ctx, body)
	n.mu.Unlock()
	if err != nil {
		cancel()
		go n.fail(err)
		return
	}
	go func() {
		defer cancel()
		n.exchange(req)
	}()
}

func (n *netNative) newRequest(ctx context.Context, body interface{}) (*http.Request, error) {
	if n.headerErr != nil {
		return nil, n.headerErr
	}
	r, contentType, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, n.method, n.url, r)
	if err != nil {
		return nil, err
	}
	req.Header = n.header.Clone()
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	if n.withCredentials && n.jar != nil {
		for _, c := range n.jar.Cookies(req.URL) {
			req.AddCookie(c)
		}
	}
	return req, nil
}

// encodeBody returns a reader for the body and the content type a
// browser would derive from its type.
func encodeBody(body interface{}) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return strings.NewReader(b), "text/plain;charset=UTF-8", nil
	case []byte:
		return bytes.NewReader(b), "", nil
	case *message.Blob:
		return bytes.NewReader(b.Data), b.Type, nil
	case *message.FormData:
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for _, f := range b.Fields() {
			if err := writeField(w, f); err != nil {
				return nil, "", err
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", err
		}
		return &buf, w.FormDataContentType(), nil
	default:
		return nil, "", fmt.Errorf("xhttp/xhr: cannot send body of type %T", body)
	}
}

func writeField(w *multipart.Writer, f message.FormField) error {
	if f.File == nil {
		return w.WriteField(f.Name, f.Value)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Name, f.FileName))
	contentType := f.File.Type
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(f.File.Data)
	return err
}

func (n *netNative) exchange(req *http.Request) {
	resp, err := n.doer.Do(req)
	if err != nil {
		n.fail(err)
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		n.fail(err)
		return
	}

	n.mu.Lock()
	if n.aborted {
		n.mu.Unlock()
		return
	}
	if n.withCredentials && n.jar != nil {
		n.jar.SetCookies(req.URL, resp.Cookies())
	}
	n.status = resp.StatusCode
	n.statusText = strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" ")
	n.respHeader = resp.Header
	n.responseURL = req.URL.String()
	if resp.Request != nil && resp.Request.URL != nil {
		n.responseURL = resp.Request.URL.String()
	}
	n.data = data
	n.responseBody, n.hasResponse = decodeResponse(n.responseType, data, resp.Header.Get("Content-Type"))
	onLoad := n.onLoad
	n.mu.Unlock()

	n.logger.Debug().
		Str("method", req.Method).
		Str("url", n.responseURL).
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Msg("xhr/net: exchange complete")
	if onLoad != nil {
		onLoad()
	}
}

// decodeResponse converts response data to the representation selected
// by responseType.
func decodeResponse(responseType string, data []byte, contentType string) (interface{}, bool) {
	switch responseType {
	case "arraybuffer":
		return data, true
	case "blob":
		return &message.Blob{Type: contentType, Data: data}, true
	case "json":
		var v interface{}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, true
		}
		return v, true
	default:
		return string(data), true
	}
}

func (n *netNative) fail(err error) {
	n.mu.Lock()
	if n.aborted {
		n.mu.Unlock()
		return
	}
	onError := n.onError
	n.mu.Unlock()

	n.logger.Debug().Err(err).Str("url", n.url).Msg("xhr/net: exchange failed")
	if onError != nil {
		onError(err)
	}
}

func (n *netNative) Abort() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.aborted = true
	n.onLoad, n.onError = nil, nil
	if n.cancel != nil {
		n.cancel()
	}
}

func (n *netNative) Status() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.status
}

func (n *netNative) StatusText() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.statusText
}

func (n *netNative) Response() (interface{}, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.responseBody, n.hasResponse
}

func (n *netNative) ResponseText() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return string(n.data)
}

func (n *netNative) ResponseURL() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.responseURL, true
}

// AllResponseHeaders returns one "name: value" line per header, with
// lowercase names in sorted order and repeated values joined by ", ".
func (n *netNative) AllResponseHeaders() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	names := make([]string, 0, len(n.respHeader))
	for name := range n.respHeader {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		b.WriteString(strings.ToLower(name))
		b.WriteString(": ")
		b.WriteString(strings.Join(n.respHeader[name], ", "))
		b.WriteString("\r\n")
	}
	return b.String()
}

func (n *netNative) ResponseHeader(name string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return strings.Join(n.respHeader.Values(name), ", ")
}
