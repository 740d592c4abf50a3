// Package types provides type definitions for structured data used throughout the jd-analyser system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ExtractionResult is the structured analysis of a job description.
// All four fields are always present; sequences are never nil once the
// value has been through sanitization.
type ExtractionResult struct {
	HardSkills         []string `json:"hardSkills"`
	SoftSkills         []string `json:"softSkills"`
	ResumeImprovements []string `json:"resumeImprovements"`
	CoverLetterSnippet string   `json:"coverLetterSnippet"`
}

// EmptyExtraction returns the all-empty result.
func EmptyExtraction() ExtractionResult {
	return ExtractionResult{
		HardSkills:         []string{},
		SoftSkills:         []string{},
		ResumeImprovements: []string{},
		CoverLetterSnippet: "",
	}
}
