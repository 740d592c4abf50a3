// Package sanitize normalizes untrusted extraction output from a model into
// a well-formed types.ExtractionResult with PII redacted from every string.
package sanitize

import (
	"github.com/jonathan/jd-analyser/internal/redact"
	"github.com/jonathan/jd-analyser/internal/types"
)

// Field names as they appear in the model's JSON output.
const (
	FieldHardSkills         = "hardSkills"
	FieldSoftSkills         = "softSkills"
	FieldResumeImprovements = "resumeImprovements"
	FieldCoverLetterSnippet = "coverLetterSnippet"
)

// Result converts a decoded JSON value into an ExtractionResult.
//
// raw is normally a map[string]any produced by encoding/json. Any other
// value (nil, a slice, a scalar) yields the all-empty result. The input is
// never modified.
func Result(raw any) types.ExtractionResult {
	obj, ok := raw.(map[string]any)
	if !ok {
		return types.EmptyExtraction()
	}
	return types.ExtractionResult{
		HardSkills:         stringList(obj[FieldHardSkills]),
		SoftSkills:         stringList(obj[FieldSoftSkills]),
		ResumeImprovements: stringList(obj[FieldResumeImprovements]),
		CoverLetterSnippet: text(obj[FieldCoverLetterSnippet]),
	}
}

// Extraction re-sanitizes an already typed result. Nil slices become empty.
func Extraction(in types.ExtractionResult) types.ExtractionResult {
	return types.ExtractionResult{
		HardSkills:         redactAll(in.HardSkills),
		SoftSkills:         redactAll(in.SoftSkills),
		ResumeImprovements: redactAll(in.ResumeImprovements),
		CoverLetterSnippet: redact.Redact(in.CoverLetterSnippet),
	}
}

// stringList handles one sequence field. Length and order are preserved;
// elements that are not strings become "".
func stringList(v any) []string {
	switch list := v.(type) {
	case []any:
		out := make([]string, len(list))
		for i, item := range list {
			out[i] = text(item)
		}
		return out
	case []string:
		return redactAll(list)
	default:
		return []string{}
	}
}

func redactAll(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = redact.Redact(s)
	}
	return out
}

// text handles the single string field.
func text(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return redact.Redact(s)
}
