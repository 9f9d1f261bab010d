package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a pipeline failure.
type ErrorKind string

const (
	KindInvalidURL          ErrorKind = "invalid_url"
	KindUpstreamUnavailable ErrorKind = "upstream_unavailable"
	KindQuotaExceeded       ErrorKind = "quota_exceeded"
	KindNoContentFound      ErrorKind = "no_content_found"
)

// ExtractionError is raised by a pipeline stage. The orchestrator recovers it
// by taking a fallback; only the final stage's error reaches the caller.
type ExtractionError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

// Sentinels for errors.Is. Matching is by Kind only.
var (
	ErrInvalidURL          = &ExtractionError{Kind: KindInvalidURL}
	ErrUpstreamUnavailable = &ExtractionError{Kind: KindUpstreamUnavailable}
	ErrQuotaExceeded       = &ExtractionError{Kind: KindQuotaExceeded}
	ErrNoContentFound      = &ExtractionError{Kind: KindNoContentFound}
)

func (e *ExtractionError) Error() string {
	msg := string(e.Kind)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is matches any ExtractionError of the same kind.
func (e *ExtractionError) Is(target error) bool {
	t, ok := target.(*ExtractionError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// InvalidURL reports a URL with no resolvable video ID.
func InvalidURL(url string) error {
	return &ExtractionError{Kind: KindInvalidURL, Reason: fmt.Sprintf("no video id in %q", url)}
}

// Upstream reports a non-quota failure of an external call.
func Upstream(reason string, err error) error {
	return &ExtractionError{Kind: KindUpstreamUnavailable, Reason: reason, Err: err}
}

// Quota reports a rate-limit or credential rejection.
func Quota(reason string) error {
	return &ExtractionError{Kind: KindQuotaExceeded, Reason: reason}
}

// NoContent reports an explicit absence such as a video without caption tracks.
func NoContent(reason string) error {
	return &ExtractionError{Kind: KindNoContentFound, Reason: reason}
}

// KindOf returns the kind of the first ExtractionError in err's chain, or "".
func KindOf(err error) ErrorKind {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return ""
}
