// Copyright 2021 The xhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

import (
	"net/http"
	"net/url"

	"github.com/gogama/xhttp/message"
)

// An XSRFStrategy prepares requests against cross-site request forgery
// before they are sent.
type XSRFStrategy interface {
	ConfigureRequest(req *message.Request)
}

// A CookieReader looks up cookies by name.
type CookieReader interface {
	Cookie(name string) (value string, ok bool)
}

// Default cookie and header names used by CookieXSRFStrategy.
const (
	DefaultXSRFCookieName = "XSRF-TOKEN"
	DefaultXSRFHeaderName = "X-XSRF-TOKEN"
)

// CookieXSRFStrategy copies the value of a cookie into a request header.
// Empty names mean DefaultXSRFCookieName and DefaultXSRFHeaderName.
type CookieXSRFStrategy struct {
	Cookies    CookieReader
	CookieName string
	HeaderName string
}

// NewCookieXSRFStrategy returns a strategy which reads cookieName from
// cookies and writes it to the headerName request header.
func NewCookieXSRFStrategy(cookies CookieReader, cookieName, headerName string) *CookieXSRFStrategy {
	return &CookieXSRFStrategy{
		Cookies:    cookies,
		CookieName: cookieName,
		HeaderName: headerName,
	}
}

// ConfigureRequest sets the header to the cookie value, replacing any
// existing value. Nothing happens if the cookie is missing or empty.
func (s *CookieXSRFStrategy) ConfigureRequest(req *message.Request) {
	if s.Cookies == nil {
		return
	}
	cookieName := s.CookieName
	if cookieName == "" {
		cookieName = DefaultXSRFCookieName
	}
	headerName := s.HeaderName
	if headerName == "" {
		headerName = DefaultXSRFHeaderName
	}
	if token, ok := s.Cookies.Cookie(cookieName); ok && token != "" {
		req.Headers.Set(headerName, token)
	}
}

// JarCookieReader reads the cookies a jar would send to URL.
type JarCookieReader struct {
	Jar http.CookieJar
	URL *url.URL
}

// Cookie returns the value of the first cookie named name.
func (r JarCookieReader) Cookie(name string) (string, bool) {
	if r.Jar == nil || r.URL == nil {
		return "", false
	}
	for _, c := range r.Jar.Cookies(r.URL) {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}
