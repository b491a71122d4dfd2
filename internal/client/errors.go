package client

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies a failed request for the caller.
type ErrorKind int

const (
	// KindNetwork means no response arrived: dial failures, timeouts, cancellation.
	KindNetwork ErrorKind = iota
	// KindAuth is a 401 from the server.
	KindAuth
	// KindValidation is any other 4xx; Message and Details come from the server.
	KindValidation
	// KindServer is a 5xx.
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// APIError is returned by every Client method that fails.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Code    string
	Message string
	Details []string
	TraceID string
	Err     error
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Status != 0 {
		fmt.Fprintf(&b, " %d", e.Status)
	}
	if e.Code != "" {
		b.WriteString(" " + e.Code)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if len(e.Details) > 0 {
		b.WriteString(" (" + strings.Join(e.Details, "; ") + ")")
	}
	if e.Err != nil && e.Message == "" {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or KindNetwork when err is not an *APIError.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindNetwork
}

// IsAuth reports whether err is a rejected or missing session.
func IsAuth(err error) bool {
	var apiErr *APIError
	return stderrors.As(err, &apiErr) && apiErr.Kind == KindAuth
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status >= 500:
		return KindServer
	default:
		return KindValidation
	}
}
