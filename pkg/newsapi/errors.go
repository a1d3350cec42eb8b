package newsapi

import (
	"errors"
	"fmt"
)

// Kind classifies a failure reported by the client.
type Kind int

const (
	KindTransport Kind = iota + 1
	KindBodyRead
	KindDeserialization
	KindURLConstruction
	KindApplicationRejected
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindBodyRead:
		return "body_read"
	case KindDeserialization:
		return "deserialization"
	case KindURLConstruction:
		return "url_construction"
	case KindApplicationRejected:
		return "application_rejected"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrTransport           = errors.New("newsapi: request failed")
	ErrBodyRead            = errors.New("newsapi: read response body failed")
	ErrDeserialization     = errors.New("newsapi: parse response failed")
	ErrURLConstruction     = errors.New("newsapi: build request url failed")
	ErrApplicationRejected = errors.New("newsapi: request rejected")
)

var kindSentinels = map[Kind]error{
	KindTransport:           ErrTransport,
	KindBodyRead:            ErrBodyRead,
	KindDeserialization:     ErrDeserialization,
	KindURLConstruction:     ErrURLConstruction,
	KindApplicationRejected: ErrApplicationRejected,
}

const (
	reasonUnknown        = "Unknown error"
	reasonAPIKeyDisabled = "Your API key has been disabled"

	codeAPIKeyDisable = "apiKeyDisable"
)

// Error is returned by every failing client operation.
type Error struct {
	Kind Kind
	// Reason is the human readable rejection text; set for KindApplicationRejected.
	Reason string
	// Code and Message echo the service payload for rejected requests.
	Code    string
	Message string
	// StatusCode is the HTTP status when a response was received.
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	sentinel := kindSentinels[e.Kind]
	msg := fmt.Sprintf("newsapi: %s", e.Kind)
	if sentinel != nil {
		msg = sentinel.Error()
	}
	switch {
	case e.Kind == KindApplicationRejected:
		return fmt.Sprintf("%s: %s", msg, e.Reason)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	default:
		return msg
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

func wrapErr(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// MapApplicationError converts the code of a rejected response into an
// ApplicationRejected error. An empty code means the payload carried none.
func MapApplicationError(code string) *Error {
	reason := reasonUnknown
	if code == codeAPIKeyDisable {
		reason = reasonAPIKeyDisabled
	}
	return &Error{Kind: KindApplicationRejected, Reason: reason, Code: code}
}
