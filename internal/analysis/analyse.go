package analysis

import (
	"context"
	"errors"
	"strings"

	"github.com/jonathan/jd-analyser/internal/llm"
	"github.com/jonathan/jd-analyser/internal/logging"
	"github.com/jonathan/jd-analyser/internal/types"
	"github.com/jonathan/jd-analyser/internal/validation"
)

// User-facing failure reasons of Analyse.
const (
	ReasonPrivacyNotAccepted = "privacy policy must be accepted"
	ReasonInvalidInput       = "invalid job description"
	ReasonAnalysisFailed     = "failed to analyze job description"
	// ReasonMisconfigured is followed by ": <VARIABLE>" and only reported
	// outside production.
	ReasonMisconfigured = "service misconfigured"
)

// Analyse is the entry point for callers holding a raw request. Input
// problems are reported as rejections. Outside production a configuration
// error names the missing variable; every other extraction error becomes the
// generic failure reason.
func (s *Service) Analyse(ctx context.Context, req types.AnalyseRequest) types.Outcome {
	if !req.PrivacyAccepted {
		return types.Failed(ReasonPrivacyNotAccepted)
	}

	req.JobDescription = strings.TrimSpace(req.JobDescription)
	if err := validation.ValidateRequest(&req); err != nil || !validation.IsAcceptable(req.JobDescription) {
		return types.Failed(ReasonInvalidInput)
	}

	result, err := s.Extract(ctx, req.JobDescription)
	if err != nil {
		var cfgErr *llm.ConfigurationError
		if errors.As(err, &cfgErr) {
			s.logger.WithField("request_id", logging.RequestID(ctx)).
				WithField("variable", cfgErr.Variable).
				Error("model provider is misconfigured")
			if !s.env.IsProduction() {
				return types.Failed(ReasonMisconfigured + ": " + cfgErr.Variable)
			}
		}
		return types.Failed(ReasonAnalysisFailed)
	}
	return types.Succeeded(result)
}

// IsRejection reports whether an Outcome failed because of the input rather
// than the analysis.
func IsRejection(o types.Outcome) bool {
	return !o.Success && (o.Error == ReasonPrivacyNotAccepted || o.Error == ReasonInvalidInput)
}

// IsMisconfigured reports whether an Outcome failed because the service
// itself is misconfigured.
func IsMisconfigured(o types.Outcome) bool {
	return !o.Success && strings.HasPrefix(o.Error, ReasonMisconfigured)
}
