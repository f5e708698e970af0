// Package errors defines the typed errors surfaced by acquisition, search and library calls.
// An Error carries a Kind for callers to branch on, an Op naming the remote call
// site, a user-facing Message and the underlying Cause for logs.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies an error.
type Kind string

const (
	KindConfiguration  Kind = "CONFIGURATION_ERROR"
	KindInvalidMagnet  Kind = "INVALID_MAGNET"
	KindInvalidRequest Kind = "INVALID_REQUEST"
	KindTransport      Kind = "TRANSPORT_ERROR"
	KindNoVideoFile    Kind = "NO_VIDEO_FILE"
	KindTimeout        Kind = "TIMEOUT"
	KindCanceled       Kind = "CANCELED"
	KindUnrecoverable  Kind = "UNRECOVERABLE"
)

// Call sites
const (
	OpInstantAvailability = "instant_availability"
	OpAddMagnet           = "add_magnet"
	OpSelectFiles         = "select_files"
	OpTorrentInfo         = "torrent_info"
	OpUnrestrict          = "unrestrict"
	OpSearch              = "search"
	OpListTorrents        = "list_torrents"
	OpDeleteTorrent       = "delete_torrent"
)

// Error is the typed error returned to callers. Message is safe to show to a
// user; Cause is only for logs.
type Error struct {
	Kind       Kind
	Op         string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Kind, and on Op when the target names one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Op == "" || t.Op == e.Op
}

// Sentinels for errors.Is
var (
	ErrConfiguration      = &Error{Kind: KindConfiguration}
	ErrInvalidMagnet      = &Error{Kind: KindInvalidMagnet}
	ErrInvalidRequest     = &Error{Kind: KindInvalidRequest}
	ErrNoVideoFile        = &Error{Kind: KindNoVideoFile}
	ErrTimeout            = &Error{Kind: KindTimeout}
	ErrCanceled           = &Error{Kind: KindCanceled}
	ErrUnrecoverable      = &Error{Kind: KindUnrecoverable}
	ErrTransport          = &Error{Kind: KindTransport}
	ErrRegistrationFailed = &Error{Kind: KindTransport, Op: OpAddMagnet}
	ErrSelectionFailed    = &Error{Kind: KindTransport, Op: OpSelectFiles}
	ErrUnrestrictFailed   = &Error{Kind: KindTransport, Op: OpUnrestrict}
	ErrSearchFailed       = &Error{Kind: KindTransport, Op: OpSearch}
)

// New creates a new Error
func New(kind Kind, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Cause: cause}
}

// NewConfigurationError reports missing or invalid configuration such as an absent token.
func NewConfigurationError(message string, cause error) *Error {
	return New(KindConfiguration, "", message, cause)
}

// NewInvalidMagnetError reports a magnet URI without a usable info-hash.
func NewInvalidMagnetError(magnet string) *Error {
	return New(KindInvalidMagnet, "", "invalid magnet link - could not extract hash", fmt.Errorf("no btih hash in %q", magnet))
}

func NewInvalidRequestError(message string) *Error {
	return New(KindInvalidRequest, "", message, nil)
}

// NewTransportError reports a failed remote call at op. statusCode is zero when
// no HTTP response was received.
func NewTransportError(op, message string, statusCode int, cause error) *Error {
	e := New(KindTransport, op, message, cause)
	e.StatusCode = statusCode
	return e
}

func NewNoVideoFileError() *Error {
	return New(KindNoVideoFile, "", "no video files found in torrent", nil)
}

func NewUnrecoverableError(message string, cause error) *Error {
	return New(KindUnrecoverable, "", message, cause)
}

// FromContext converts a context error into a TIMEOUT or CANCELED error, and
// returns nil for anything else.
func FromContext(op string, err error) *Error {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return New(KindTimeout, op, "operation timed out", err)
	case stderrors.Is(err, context.Canceled):
		return New(KindCanceled, op, "operation canceled", err)
	}
	return nil
}

// KindOf returns the Kind of err, or KindUnrecoverable for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnrecoverable
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if stderrors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "processing failed"
}

// HTTPStatus maps a Kind to the status code an API handler should answer with.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidMagnet, KindInvalidRequest:
		return http.StatusBadRequest
	case KindConfiguration:
		return http.StatusPreconditionFailed
	case KindNoVideoFile:
		return http.StatusUnprocessableEntity
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindCanceled:
		return 499
	case KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
