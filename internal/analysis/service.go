// Package analysis turns a pasted job description into a sanitized
// ExtractionResult: redact, resolve the model, call it once under the
// extraction schema, parse and sanitize.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/jd-analyser/internal/config"
	"github.com/jonathan/jd-analyser/internal/llm"
	"github.com/jonathan/jd-analyser/internal/logging"
	"github.com/jonathan/jd-analyser/internal/prompts"
	"github.com/jonathan/jd-analyser/internal/redact"
	"github.com/jonathan/jd-analyser/internal/sanitize"
	"github.com/jonathan/jd-analyser/internal/schemas"
	"github.com/jonathan/jd-analyser/internal/types"
	embedded "github.com/jonathan/jd-analyser/schemas"
)

// ErrAnalysisFailed is the only failure Extract reports for provider,
// transport and parse problems. The cause is logged, never returned.
var ErrAnalysisFailed = errors.New("failed to analyze job description with AI")

// Service runs extractions. It is safe for concurrent use.
type Service struct {
	env     config.Env
	clients *llm.ClientFactory
	logger  *logrus.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithClientFactory shares a client factory between services.
func WithClientFactory(f *llm.ClientFactory) Option {
	return func(s *Service) {
		s.clients = f
	}
}

// NewService creates a Service for env.
func NewService(env config.Env, opts ...Option) *Service {
	s := &Service{env: env}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if s.clients == nil {
		s.clients = llm.NewClientFactory()
	}
	if s.env.RequestTimeout <= 0 {
		s.env.RequestTimeout = config.DefaultRequestTimeout
	}
	return s
}

// Extract analyses jobDescription with exactly one model call.
//
// A *llm.ConfigurationError is returned unchanged, before any network call.
// Every other failure is logged and reported as ErrAnalysisFailed. A blank
// model reply yields the empty result and no error.
func (s *Service) Extract(ctx context.Context, jobDescription string) (types.ExtractionResult, error) {
	requestID := logging.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	log := s.logger.WithFields(logrus.Fields{
		"request_id":  requestID,
		"input_chars": utf8.RuneCountInString(jobDescription),
	})

	if llm.IsOffline(s.env) {
		log.Info("serving canned extraction")
		return Canned(), nil
	}

	redacted := redact.Redact(jobDescription)

	cfg, err := llm.ResolveModelConfig(s.env)
	if err != nil {
		return types.ExtractionResult{}, err
	}
	log = log.WithFields(logrus.Fields{
		"provider": cfg.Provider,
		"model":    cfg.Model,
	})

	system, user, err := prompts.Extraction(redacted)
	if err != nil {
		return s.fail(log, "prompt", err)
	}

	client, err := s.clients.Get(cfg, s.env.RequestTimeout)
	if err != nil {
		return s.fail(log, "client", err)
	}

	log.Debug("calling model")
	completion, err := client.Complete(ctx, llm.ChatRequest{
		Model:      cfg.Model,
		System:     system,
		User:       user,
		SchemaName: embedded.JobExtractionName,
		Schema:     embedded.ProviderSchema(),
	})
	if err != nil {
		return s.fail(log, errorClass(err), err)
	}
	log = log.WithFields(logrus.Fields{
		"prompt_tokens":     completion.PromptTokens,
		"completion_tokens": completion.CompletionTokens,
	})

	content := strings.TrimSpace(completion.Content)
	if content == "" {
		log.Warn("model returned no content")
		return types.EmptyExtraction(), nil
	}

	cleaned := llm.CleanJSONBlock(content)
	var raw any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return s.fail(log, "invalid_json", err)
	}

	if err := schemas.ValidateExtraction(cleaned); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			log.WithField("fields", ve.Fields()).Warn("model output does not match extraction schema")
		} else {
			log.WithError(err).Warn("could not check model output against extraction schema")
		}
	}

	log.Info("extraction complete")
	return sanitize.Result(raw), nil
}

func (s *Service) fail(log *logrus.Entry, class string, err error) (types.ExtractionResult, error) {
	log.WithField("error_class", class).WithError(err).Error("analysis failed")
	return types.ExtractionResult{}, ErrAnalysisFailed
}

func errorClass(err error) string {
	var apiErr *llm.APIError
	switch {
	case errors.As(err, &apiErr):
		return "provider_error"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded), strings.Contains(err.Error(), "timeout"):
		return "timeout"
	default:
		return "transport"
	}
}
