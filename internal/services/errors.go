package services

import (
	"errors"
	"net/url"

	"github.com/desertthunder/museekly/internal/shared"
)

const (
	NotFoundMessage     = "No lyrics found. Please check spelling or try another song."
	ServiceErrorMessage = "Failed to fetch lyrics. Please try again later."
)

// LookupError is a normalized lookup failure.
//
// Kind is one of [shared.ErrLyricsNotFound], [shared.ErrServiceFailure] or [shared.ErrTransport].
type LookupError struct {
	Kind       error
	Message    string
	StatusCode int   // zero for transport failures
	Err        error // underlying cause, if any
}

func (e *LookupError) Error() string { return e.Message }

func (e *LookupError) Unwrap() error { return e.Err }

// Is matches the error's kind sentinel.
func (e *LookupError) Is(target error) bool { return target == e.Kind }

func notFoundError(status int) *LookupError {
	return &LookupError{Kind: shared.ErrLyricsNotFound, Message: NotFoundMessage, StatusCode: status}
}

func serviceError(status int, cause error) *LookupError {
	return &LookupError{Kind: shared.ErrServiceFailure, Message: ServiceErrorMessage, StatusCode: status, Err: cause}
}

// transportError keeps the transport's own text, without the "Get <url>:" prefix that [http.Client] adds.
func transportError(err error) *LookupError {
	cause := err
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		cause = uerr.Err
	}
	return &LookupError{Kind: shared.ErrTransport, Message: cause.Error(), Err: err}
}
