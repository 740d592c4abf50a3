package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/jd-analyser/internal/analysis"
	"github.com/jonathan/jd-analyser/internal/types"
)

// Reasons reported for requests that never reach the analyser.
const (
	ReasonInvalidBody   = "invalid request body"
	ReasonBodyTooLarge  = "request body too large"
	ReasonUnsupportedCT = "unsupported content type"
)

// ErrBadRequest indicates the request body could not be decoded
type ErrBadRequest struct {
	Reason string
	Err    error
}

func (e *ErrBadRequest) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *ErrBadRequest) Unwrap() error {
	return e.Err
}

// ErrUnsupportedMediaType indicates a content type other than JSON or form data
type ErrUnsupportedMediaType struct {
	ContentType string
}

func (e *ErrUnsupportedMediaType) Error() string {
	return fmt.Sprintf("unsupported content type: %s", e.ContentType)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch err.(type) {
	case *ErrBadRequest:
		return http.StatusBadRequest
	case *ErrUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// OutcomeStatus maps an analysis outcome to a response status: rejected input
// is the client's fault, a failed analysis is an upstream failure.
func OutcomeStatus(o types.Outcome) int {
	switch {
	case o.Success:
		return http.StatusOK
	case analysis.IsRejection(o):
		return http.StatusBadRequest
	case analysis.IsMisconfigured(o):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}
