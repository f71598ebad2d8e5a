package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStatus   = errors.New("invalid notification status")
	ErrCommentsClosed  = errors.New("comments are closed for this player")
	ErrLoginRequired   = errors.New("login required")
	ErrBanned          = errors.New("user is banned")
	ErrEmailFormClosed = errors.New("email form is not enabled for this player")
	ErrAPIKeyMissing   = errors.New("geolocation api key is not configured")
	ErrMissingParent   = errors.New("parent comment not found")
)

// UpstreamError is a failure reported by a third-party endpoint. Status is
// the upstream HTTP status and is passed through to the client.
type UpstreamError struct {
	Status  int
	Code    string
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s (%d): %s", e.Code, e.Status, e.Message)
}

// StepError names the step of a multi-step write that failed. Steps that
// completed before it are kept.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
