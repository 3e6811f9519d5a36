package trial

import (
	"bytes"
	"net/http"
)

// Response is the part of an HTTP reply the success matchers look at.
type Response struct {
	StatusCode int
	Body       []byte
}

// Matcher decides whether a login response means the credentials worked.
type Matcher interface {
	Match(resp *Response) bool
}

// Chain applies matchers in order, short-circuiting on the first match.
type Chain struct {
	matchers []Matcher
}

// NewChain returns a chain of the given matchers.
func NewChain(matchers ...Matcher) *Chain {
	return &Chain{matchers: matchers}
}

// Apply reports whether any matcher accepts resp.
func (c *Chain) Apply(resp *Response) bool {
	for _, m := range c.matchers {
		if m.Match(resp) {
			return true
		}
	}
	return false
}

// KeywordMatcher matches bodies containing a keyword, ignoring case.
type KeywordMatcher struct {
	needle []byte
}

// NewKeywordMatcher creates a case-insensitive body keyword matcher.
func NewKeywordMatcher(keyword string) *KeywordMatcher {
	return &KeywordMatcher{needle: bytes.ToLower([]byte(keyword))}
}

func (m *KeywordMatcher) Match(resp *Response) bool {
	if len(m.needle) == 0 {
		return false
	}
	return bytes.Contains(bytes.ToLower(resp.Body), m.needle)
}

// StatusMatcher matches a fixed set of status codes.
type StatusMatcher struct {
	codes map[int]struct{}
}

// NewStatusMatcher creates a matcher for the given status codes.
func NewStatusMatcher(codes ...int) *StatusMatcher {
	m := &StatusMatcher{codes: make(map[int]struct{}, len(codes))}
	for _, code := range codes {
		m.codes[code] = struct{}{}
	}
	return m
}

// NewRedirectMatcher treats a redirect after the login POST as success.
func NewRedirectMatcher() *StatusMatcher {
	return NewStatusMatcher(http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther)
}

func (m *StatusMatcher) Match(resp *Response) bool {
	_, ok := m.codes[resp.StatusCode]
	return ok
}
