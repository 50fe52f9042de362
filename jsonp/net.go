// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gogama/xhttp/backend"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"golang.org/x/net/http/httpguts"
)

// CallbackHome is the prefix of the callback references handed out by
// NetDOM. The reference for request id "__req0" is
// "__xhttp_jsonp__.__req0.finished".
const CallbackHome = "__xhttp_jsonp__"

var (
	errNotCallback    = errors.New("xhttp/jsonp: script is not a callback invocation")
	errInvalidPayload = errors.New("xhttp/jsonp: callback payload is not valid JSON")
)

// NetDOM is a DOM which downloads scripts with an HTTPDoer.
//
// A downloaded script must consist of a single call of a callback
// reference with one JSON argument, such as
//
//	__xhttp_jsonp__.__req0.finished({"id":1});
//
// optionally preceded by a /**/ comment. NetDOM validates and decodes
// the argument, delivers it to the connection exposed under the
// referenced id, and then fires the load event. A script in any other
// shape fires the error event.
//
// The zero value uses http.DefaultClient and a registry of its own.
type NetDOM struct {
	// HTTPDoer downloads the scripts. If nil, http.DefaultClient is
	// used.
	HTTPDoer backend.HTTPDoer
	// Registry routes callbacks to connections. If nil, the NetDOM
	// creates its own on first use.
	Registry *Registry
	// Logger receives transport diagnostics. If nil, nothing is logged.
	Logger *zerolog.Logger

	once sync.Once
}

func (d *NetDOM) registry() *Registry {
	d.once.Do(func() {
		if d.Registry == nil {
			d.Registry = NewRegistry()
		}
	})
	return d.Registry
}

func (d *NetDOM) logger() *zerolog.Logger {
	if d.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return d.Logger
}

// Build returns a new script for url.
func (d *NetDOM) Build(url string) Script {
	return &netScript{url: url}
}

// NextRequestID returns a fresh id from the registry.
func (d *NetDOM) NextRequestID() string {
	return d.registry().NextRequestID()
}

// RequestCallback returns CallbackHome + "." + id + ".finished".
func (d *NetDOM) RequestCallback(id string) string {
	return CallbackHome + "." + id + ".finished"
}

// ExposeConnection registers conn under id.
func (d *NetDOM) ExposeConnection(id string, conn Finisher) {
	d.registry().Expose(id, conn)
}

// RemoveConnection deregisters id.
func (d *NetDOM) RemoveConnection(id string) {
	d.registry().Remove(id)
}

// Send starts downloading the script in a new goroutine.
func (d *NetDOM) Send(script Script) {
	s, ok := script.(*netScript)
	if !ok {
		panic(fmt.Sprintf("xhttp/jsonp: NetDOM cannot send a %T", script))
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	if s.removed {
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancel = cancel
	s.mu.Unlock()
	go func() {
		defer cancel()
		d.load(ctx, s)
	}()
}

// Cleanup stops the download of the script, if it is still running, and
// detaches its listeners.
func (d *NetDOM) Cleanup(script Script) {
	s, ok := script.(*netScript)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = true
	s.onLoad, s.onError = nil, nil
	if s.cancel != nil {
		s.cancel()
	}
}

func (d *NetDOM) load(ctx context.Context, s *netScript) {
	text, err := d.fetch(ctx, s.url)
	if err != nil {
		d.logger().Debug().Err(err).Str("url", s.url).Msg("jsonp/net: download failed")
		s.fireError(err)
		return
	}
	callee, payload, err := parseScript(text)
	if err != nil {
		s.fireError(err)
		return
	}
	var data interface{}
	if err = json.Unmarshal([]byte(payload), &data); err != nil {
		s.fireError(fmt.Errorf("xhttp/jsonp: decoding callback payload: %w", err))
		return
	}
	if id, ok := d.calleeID(callee); ok {
		if f, ok := d.registry().Lookup(id); ok && !s.isRemoved() {
			f.Finished(data)
		}
	} else {
		d.logger().Debug().Str("url", s.url).Str("callee", callee).Msg("jsonp/net: unknown callback")
	}
	s.fireLoad()
}

func (d *NetDOM) fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if !httpguts.ValidHostHeader(u.Host) {
		return "", fmt.Errorf("xhttp/jsonp: invalid host %q", u.Host)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "*/*")
	doer := d.HTTPDoer
	if doer == nil {
		doer = http.DefaultClient
	}
	resp, err := doer.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("xhttp/jsonp: loading script failed with status %s", resp.Status)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// calleeID extracts the request id from a callback reference handed out
// by RequestCallback.
func (d *NetDOM) calleeID(callee string) (string, bool) {
	prefix, suffix := CallbackHome+".", ".finished"
	if !strings.HasPrefix(callee, prefix) || !strings.HasSuffix(callee, suffix) {
		return "", false
	}
	id := callee[len(prefix) : len(callee)-len(suffix)]
	return id, id != ""
}

// parseScript splits a script of the form callee(payload) into its
// callee and its validated JSON payload.
func parseScript(text string) (callee, payload string, err error) {
	s := strings.TrimSpace(text)
	s = strings.TrimSpace(strings.TrimPrefix(s, "/**/"))
	s = strings.TrimSpace(strings.TrimSuffix(s, ";"))
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", "", errNotCallback
	}
	callee = strings.TrimSpace(s[:open])
	payload = strings.TrimSpace(s[open+1 : len(s)-1])
	if !gjson.Valid(payload) {
		return "", "", errInvalidPayload
	}
	return callee, payload, nil
}

type netScript struct {
	url string

	mu      sync.Mutex
	onLoad  func()
	onError func(error)
	cancel  context.CancelFunc
	removed bool
}

func (s *netScript) URL() string {
	return s.url
}

func (s *netScript) SetListeners(onLoad func(), onError func(err error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLoad, s.onError = onLoad, onError
}

func (s *netScript) isRemoved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removed
}

func (s *netScript) fireLoad() {
	s.mu.Lock()
	onLoad := s.onLoad
	s.mu.Unlock()
	if onLoad != nil {
		onLoad()
	}
}

func (s *netScript) fireError(err error) {
	s.mu.Lock()
	onError := s.onError
	s.mu.Unlock()
	if onError != nil {
		onError(err)
	}
}
