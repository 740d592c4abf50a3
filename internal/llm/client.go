package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 4 << 20

// errNoChoices marks a well-formed response that carried no choices.
var errNoChoices = errors.New("provider response has no choices")

// Client is an abstraction over OpenAI-compatible providers.
type Client interface {
	// Complete sends one chat completion request. It never retries.
	Complete(ctx context.Context, req ChatRequest) (*Completion, error)
}

// ChatRequest is a single system+user exchange constrained to a JSON schema.
type ChatRequest struct {
	Model      string
	System     string
	User       string
	SchemaName string
	Schema     json.RawMessage // optional; nil sends no response_format
}

// Completion is the part of a provider response the analyser uses.
// Content is empty when the provider returned no message content.
type Completion struct {
	Content          string
	Model            string
	PromptTokens     int64
	CompletionTokens int64
}

// APIError is a provider-reported failure: a non-2xx status, or an "error"
// object in an otherwise successful response.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider http status %d", e.StatusCode)
	}
	return fmt.Sprintf("provider http status %d: %s", e.StatusCode, e.Message)
}

// ChatClient implements Client on the langchaingo OpenAI model, which also
// speaks to Ollama's /v1 endpoint. It is safe for concurrent use.
type ChatClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a ChatClient.
type Option func(*ChatClient)

// WithHTTPClient replaces the HTTP client. The timeout argument of
// NewChatClient is ignored when this is set.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *ChatClient) {
		c.httpClient = hc
	}
}

// NewChatClient creates a client for the provider rooted at baseURL
// (e.g. https://api.openai.com/v1).
func NewChatClient(baseURL, apiKey string, timeout time.Duration, opts ...Option) (*ChatClient, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid provider base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid provider base URL %q: must be an absolute http(s) URL", baseURL)
	}

	c := &ChatClient{
		baseURL:    strings.TrimRight(u.String(), "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	if _, err := c.model(""); err != nil {
		return nil, err
	}
	return c, nil
}

// BaseURL returns the normalized provider root.
func (c *ChatClient) BaseURL() string {
	return c.baseURL
}

// model builds the langchaingo model. Every setting is passed explicitly so
// OPENAI_* variables in the process environment never leak in.
func (c *ChatClient) model(name string, extra ...openai.Option) (*openai.LLM, error) {
	opts := []openai.Option{
		openai.WithToken(c.apiKey),
		openai.WithBaseURL(c.baseURL),
		openai.WithModel(name),
		openai.WithOrganization(""),
		openai.WithHTTPClient(guardedDoer{hc: c.httpClient}),
	}
	m, err := openai.New(append(opts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider model: %w", err)
	}
	return m, nil
}

// Complete implements Client.
func (c *ChatClient) Complete(ctx context.Context, req ChatRequest) (*Completion, error) {
	var extra []openai.Option
	if len(req.Schema) > 0 {
		format, err := schemaFormat(req.SchemaName, req.Schema)
		if err != nil {
			return nil, err
		}
		extra = append(extra, openai.WithResponseFormat(format))
	}

	m, err := c.model(req.Model, extra...)
	if err != nil {
		return nil, err
	}

	resp, err := m.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.System),
		llms.TextParts(llms.ChatMessageTypeHuman, req.User),
	})
	switch {
	case errors.Is(err, errNoChoices):
		return &Completion{Model: req.Model}, nil
	case err != nil:
		return nil, requestError(ctx, err)
	case len(resp.Choices) == 0:
		return &Completion{Model: req.Model}, nil
	}

	choice := resp.Choices[0]
	return &Completion{
		Content:          choice.Content,
		Model:            req.Model,
		PromptTokens:     usage(choice.GenerationInfo, "PromptTokens"),
		CompletionTokens: usage(choice.GenerationInfo, "CompletionTokens"),
	}, nil
}

// schemaFormat wraps schema as a strict json_schema response format.
func schemaFormat(name string, schema json.RawMessage) (*openai.ResponseFormat, error) {
	var prop openai.ResponseFormatJSONSchemaProperty
	if err := json.Unmarshal(schema, &prop); err != nil {
		return nil, fmt.Errorf("invalid response schema: %w", err)
	}
	return &openai.ResponseFormat{
		Type: "json_schema",
		JSONSchema: &openai.ResponseFormatJSONSchema{
			Name:   name,
			Strict: true,
			Schema: &prop,
		},
	}, nil
}

// requestError restores the caller's context error, which langchaingo
// replaces with a generic message.
func requestError(ctx context.Context, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return fmt.Errorf("provider request timeout: %w", ctxErr)
	case ctxErr != nil:
		return fmt.Errorf("provider request failed: %w", ctxErr)
	}
	return fmt.Errorf("provider request failed: %w", err)
}

func usage(info map[string]any, key string) int64 {
	switch v := info[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

// guardedDoer checks the raw provider response before langchaingo decodes it:
// non-2xx statuses and "error" objects become *APIError, and bodies that are
// not JSON or carry no choices are rejected with a plain error.
type guardedDoer struct {
	hc *http.Client
}

func (d guardedDoer) Do(req *http.Request) (*http.Response, error) {
	resp, err := d.hc.Do(req)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Type:       gjson.GetBytes(raw, "error.type").String(),
			Message:    gjson.GetBytes(raw, "error.message").String(),
		}
	}

	if !gjson.ValidBytes(raw) {
		return nil, errors.New("provider response is not valid JSON")
	}

	parsed := gjson.ParseBytes(raw)
	if e := parsed.Get("error"); e.Exists() && e.Type != gjson.Null {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Type:       e.Get("type").String(),
			Message:    e.Get("message").String(),
		}
	}
	if len(parsed.Get("choices").Array()) == 0 {
		return nil, errNoChoices
	}

	// langchaingo only accepts exactly 200.
	resp.StatusCode = http.StatusOK
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	resp.ContentLength = int64(len(raw))
	return resp, nil
}

var _ Client = (*ChatClient)(nil)
