package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jd-analyser/internal/types"
)

func TestIsAcceptable(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "empty", input: "", want: false},
		{name: "ten characters", input: "Ten chars!", want: false},
		{name: "eleven characters", input: "Eleven char", want: true},
		{name: "sentence", input: "More than ten characters", want: true},
		{name: "very long", input: strings.Repeat("a", 10000), want: true},
		{name: "ten multibyte runes", input: "éééééééééé", want: false},
		{name: "eleven multibyte runes", input: "ééééééééééé", want: true},
		{name: "whitespace counts", input: "           ", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAcceptable(tt.input))
		})
	}
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&types.AnalyseRequest{JobDescription: "Go engineer", PrivacyAccepted: true}))
	assert.NoError(t, ValidateRequest(&types.AnalyseRequest{JobDescription: "short"}), "length is the gate's job")

	err := ValidateRequest(&types.AnalyseRequest{PrivacyAccepted: true})
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "JobDescription", reqErr.Field)
	assert.Equal(t, "required", reqErr.Tag)
	assert.Equal(t, "validation error: JobDescription - required", err.Error())
}

func TestValidateRequest_Nil(t *testing.T) {
	var reqErr *RequestError
	require.True(t, errors.As(ValidateRequest(nil), &reqErr))
	assert.Equal(t, "request", reqErr.Field)
}
