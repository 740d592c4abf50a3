package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyExtraction_MarshalsEmptyArrays(t *testing.T) {
	data, err := json.Marshal(EmptyExtraction())
	require.NoError(t, err)
	assert.JSONEq(t, `{"hardSkills":[],"softSkills":[],"resumeImprovements":[],"coverLetterSnippet":""}`, string(data))
}

func TestOutcome_JSONShape(t *testing.T) {
	failed, err := json.Marshal(Failed("invalid job description"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"data":null,"error":"invalid job description"}`, string(failed))

	ok, err := json.Marshal(Succeeded(EmptyExtraction()))
	require.NoError(t, err)
	assert.Contains(t, string(ok), `"success":true`)
	assert.NotContains(t, string(ok), `"error"`)
}
