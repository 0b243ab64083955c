package domain

import (
	"errors"
	"fmt"
)

type Kind string

const (
	// KindMixedTransport: secure caller, insecure non-proxied backend. Refused before dispatch.
	KindMixedTransport Kind = "mixed_transport"
	// KindHTTPStatus: backend reachable, answered with a non-2xx status.
	KindHTTPStatus Kind = "http_status"
	// KindNetworkUnreachable: no response at all, or a body that is not valid JSON.
	KindNetworkUnreachable Kind = "network_unreachable"
	// KindAuthRequired: no identity present, no request attempted.
	KindAuthRequired Kind = "auth_required"
	// KindInvalidInput: arguments rejected locally, no request attempted.
	KindInvalidInput Kind = "invalid_input"
)

var (
	ErrMixedTransport     = &Error{Kind: KindMixedTransport}
	ErrHTTPStatus         = &Error{Kind: KindHTTPStatus}
	ErrNetworkUnreachable = &Error{Kind: KindNetworkUnreachable}
	ErrAuthRequired       = &Error{Kind: KindAuthRequired}
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}

	ErrSecretNotFound = errors.New("secret not found")
	ErrStateNotFound  = errors.New("state entry not found")
)

// Error is the only error shape that crosses the HTTP layer and the API façade.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	// Status is set for KindHTTPStatus only.
	Status int
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s %d", msg, e.Status)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind so callers can write errors.Is(err, domain.ErrAuthRequired).
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	if other.Kind != e.Kind {
		return false
	}
	return other.Status == 0 || other.Status == e.Status
}

func NewError(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

func StatusError(op string, status int, message string) *Error {
	return &Error{Kind: KindHTTPStatus, Op: op, Status: status, Message: message}
}

// KindOf returns the kind of a classified error, or "" for anything else.
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return ""
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Status
	}
	return 0
}
