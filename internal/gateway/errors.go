package gateway

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNetwork Kind = "network" // no response received
	KindAuth    Kind = "auth"    // 401, session invalidated
	KindBackend Kind = "backend" // non-success envelope or non-2xx
)

var (
	ErrNetwork = errors.New("gateway: network error")
	ErrAuth    = errors.New("gateway: not authenticated")
	ErrBackend = errors.New("gateway: backend error")
)

const networkMessage = "Network error. Please check your connection."

// Error is the uniform {status, message} shape every failed call is converted to.
// Status is 0 when nothing came back from the API.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s %d: %s", e.Kind, e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrAuth) and friends match on Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrAuth:
		return e.Kind == KindAuth
	case ErrBackend:
		return e.Kind == KindBackend
	}
	return false
}

// AsError extracts the gateway error from err, if any.
func AsError(err error) (*Error, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

func networkErr(err error) *Error {
	return &Error{Kind: KindNetwork, Message: networkMessage, Err: err}
}

func authErr(status int, msg string) *Error {
	if msg == "" {
		msg = "authentication required"
	}
	return &Error{Kind: KindAuth, Status: status, Message: msg}
}

func backendErr(status int, msg string) *Error {
	if msg == "" {
		msg = fmt.Sprintf("Request failed with status %d", status)
	}
	return &Error{Kind: KindBackend, Status: status, Message: msg}
}
