package httplog

import (
	"errors"
	"net/http"
	"strconv"
)

// unknownStatus is logged when a call fails before a response exists.
const unknownStatus = "unknown"

// ErrNilResponse describes an inner transport that returned neither a
// response nor an error.
var ErrNilResponse = errors.New("httplog: inner transport returned nil response and nil error")

// Outcome is the result of one round trip: exactly one of Success or Failure.
type Outcome interface {
	// Status renders the status code for logging.
	Status() string
	isOutcome()
}

// Success is a round trip that produced a response. Any status code counts,
// interpreting it is the caller's business.
type Success struct {
	StatusCode int
}

// Failure is a round trip that produced an error. No status code is known.
type Failure struct {
	Err error
}

func (Success) isOutcome() {}
func (Failure) isOutcome() {}

// Status returns the decimal status code.
func (s Success) Status() string { return strconv.Itoa(s.StatusCode) }

// Status is always "unknown"; a failed call has no trustworthy response.
func (Failure) Status() string { return unknownStatus }

// NewOutcome classifies the return values of http.RoundTripper.RoundTrip.
// A non-nil error always wins, even if a response was returned alongside it.
func NewOutcome(resp *http.Response, err error) Outcome {
	switch {
	case err != nil:
		return Failure{Err: err}
	case resp == nil:
		return Failure{Err: ErrNilResponse}
	default:
		return Success{StatusCode: resp.StatusCode}
	}
}
