package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies how a backend call failed.
type ErrorKind int

const (
	// KindTransport means no response was received at all.
	KindTransport ErrorKind = iota
	// KindStructured means the response body carried an {error: string}.
	KindStructured
	// KindStatus means a bare non-2xx status without a structured body.
	KindStatus
)

const transportMessage = "Network error or service is down."

// Error is the failure surface every upstream call returns. Message is
// already user-presentable; callers prefix it with the action that failed.
type Error struct {
	Kind    ErrorKind
	Status  int
	Service string
	Message string
}

func (e *Error) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("upstream %s: %s", e.Service, e.Message)
	}
	return "upstream: " + e.Message
}

// transportError wraps a request that never produced a response.
func transportError(service string) *Error {
	return &Error{Kind: KindTransport, Service: service, Message: transportMessage}
}

func statusError(service string, status int) *Error {
	return &Error{
		Kind:    KindStatus,
		Status:  status,
		Service: service,
		Message: fmt.Sprintf("%d %s", status, http.StatusText(status)),
	}
}

func structuredError(service string, status int, message string) *Error {
	return &Error{Kind: KindStructured, Status: status, Service: service, Message: message}
}

// AsError unwraps err into an *Error when possible.
func AsError(err error) (*Error, bool) {
	var ue *Error
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// StatusOf returns the HTTP status behind err, or 0 for transport failures
// and non-upstream errors.
func StatusOf(err error) int {
	if ue, ok := AsError(err); ok {
		return ue.Status
	}
	return 0
}

// UserMessage renders err as "Failed to <action>: <reason>." following the
// portal's error taxonomy. Non-upstream errors collapse to a generic line so
// internals never leak to the page.
func UserMessage(action string, err error) string {
	ue, ok := AsError(err)
	if !ok {
		return fmt.Sprintf("An unexpected error occurred while trying to %s.", action)
	}
	return fmt.Sprintf("Failed to %s: %s", action, ue.Message)
}
