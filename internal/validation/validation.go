// Package validation decides whether a job description is worth sending to
// the model and checks inbound requests.
package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/jd-analyser/internal/types"
)

// MinLength is the shortest acceptable job description, in characters.
const MinLength = 11

// gateTag counts characters as runes.
var gateTag = fmt.Sprintf("required,min=%d", MinLength)

var validate = validator.New()

// IsAcceptable reports whether text is long enough to analyse. There is no
// upper bound.
func IsAcceptable(text string) bool {
	return validate.Var(text, gateTag) == nil
}

// RequestError describes the first failing field of a request.
type RequestError struct {
	Field string
	Tag   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Tag)
}

// ValidateRequest checks the struct tags of req.
func ValidateRequest(req *types.AnalyseRequest) error {
	if req == nil {
		return &RequestError{Field: "request", Tag: "required"}
	}
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &RequestError{Field: fieldErrs[0].Field(), Tag: fieldErrs[0].Tag()}
	}
	return fmt.Errorf("validation error: invalid request: %w", err)
}
