package apperrors

import (
	"errors"
	"net/http"
)

// Kind is the closed set of failure categories surfaced by the enrollment service.
type Kind string

const (
	KindInvalidRequest     Kind = "invalid_request"
	KindUnauthorized       Kind = "unauthorized"
	KindCredentialIssuance Kind = "credential_issuance"
	KindProvisioning       Kind = "provisioning"
	KindRegistration       Kind = "registration"
	KindRegistry           Kind = "registry"
	KindNotFound           Kind = "not_found"
	KindPackaging          Kind = "packaging"
	KindDeclined           Kind = "declined"
	KindInternal           Kind = "internal_error"
)

// statusByKind is the only place a failure kind becomes an HTTP status.
var statusByKind = map[Kind]int{
	KindInvalidRequest:     http.StatusBadRequest,
	KindUnauthorized:       http.StatusUnauthorized,
	KindNotFound:           http.StatusNotFound,
	KindDeclined:           http.StatusNotAcceptable,
	KindCredentialIssuance: http.StatusInternalServerError,
	KindProvisioning:       http.StatusInternalServerError,
	KindRegistration:       http.StatusInternalServerError,
	KindRegistry:           http.StatusInternalServerError,
	KindPackaging:          http.StatusInternalServerError,
	KindInternal:           http.StatusInternalServerError,
}

// Error carries a Kind plus the operation that failed and the underlying cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Kind, so errors.Is(err, apperrors.NotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is comparisons.
var (
	InvalidRequest     = &Error{Kind: KindInvalidRequest}
	Unauthorized       = &Error{Kind: KindUnauthorized}
	CredentialIssuance = &Error{Kind: KindCredentialIssuance}
	Provisioning       = &Error{Kind: KindProvisioning}
	Registration       = &Error{Kind: KindRegistration}
	Registry           = &Error{Kind: KindRegistry}
	NotFound           = &Error{Kind: KindNotFound}
	Packaging          = &Error{Kind: KindPackaging}
	Declined           = &Error{Kind: KindDeclined}
)

func New(kind Kind, op, msg string) error {
	return &Error{Kind: kind, Op: op, Message: msg}
}

// Wrap attaches kind and op to err. Context cancellation and deadline errors
// remain reachable through errors.Is because the cause is kept.
func Wrap(err error, kind Kind, op, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Message: msg, Err: err}
}

// KindOf returns the kind of the outermost *Error in the chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps err to the status code exposed to HTTP callers.
func HTTPStatus(err error) int {
	if status, ok := statusByKind[KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the message that is safe to echo to a client.
// Only caller-input feedback is surfaced; everything else is generic.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindInvalidRequest && e.Message != "" {
		return e.Message
	}
	return ""
}
