package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed API call at the point it is raised.
type Kind int

const (
	KindOther Kind = iota
	KindAccessDenied
	KindNotFound
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindAccessDenied:
		return "access-denied"
	case KindNotFound:
		return "not-found"
	case KindTransient:
		return "transient"
	default:
		return "other"
	}
}

// ErrUnauthorized is returned when the server rejects the login or does not
// hand out a session cookie.
var ErrUnauthorized = errors.New("unable to authorize with the server")

// APIError describes a failed request against the Rock API.
type APIError struct {
	Op         string // list, fetch, save, login
	URL        string
	StatusCode int // 0 for network errors
	Kind       Kind
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	}
	msg := fmt.Sprintf("%s %s: server returned %d %s", e.Op, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind carried by err, or KindOther if err is not an APIError.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindOther
}

// IsAccessDenied reports whether err is a 401/403 from the server.
func IsAccessDenied(err error) bool {
	return KindOf(err) == KindAccessDenied
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAccessDenied
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500:
		return KindTransient
	default:
		return KindOther
	}
}

// trimMessage keeps error bodies readable in logs.
func trimMessage(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
