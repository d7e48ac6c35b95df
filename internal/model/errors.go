package model

import (
	"errors"
	"fmt"
)

// FetchError indicates that a page or result listing could not be retrieved:
// network failure, timeout, non-2xx status, or a blocking/challenge response
// from the search engine. It is reported to the caller, never swallowed; the
// caller decides retry policy.
type FetchError struct {
	URL        string
	StatusCode int
	Blocked    bool // challenge/CAPTCHA or rate-limit response
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Blocked:
		return fmt.Sprintf("fetch %s: blocked by challenge response (status %d)", e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ScoringError indicates that page content was malformed or empty and the
// rubric could not be evaluated. Recorded per keyword; the run continues.
type ScoringError struct {
	URL    string
	Reason string
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("score %s: %s", e.URL, e.Reason)
}

// IsBlocked reports whether err is a FetchError caused by a blocking or
// challenge response.
func IsBlocked(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Blocked
}
