package analysis

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/jonathan/jd-analyser/internal/config"
	"github.com/jonathan/jd-analyser/internal/llm"
	"github.com/jonathan/jd-analyser/internal/logging"
	"github.com/jonathan/jd-analyser/internal/types"
)

const jobDescription = "Senior Go engineer needed. Contact john@example.com or 555-123-4567. Kubernetes and Terraform required."

// fakeProvider records requests and replies with a fixed status and body.
type fakeProvider struct {
	server *httptest.Server
	calls  atomic.Int32
	body   atomic.Value // []byte of the last request
}

func newFakeProvider(t *testing.T, status int, reply string) *fakeProvider {
	t.Helper()
	fp := &fakeProvider{}
	fp.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fp.calls.Add(1)
		b, _ := io.ReadAll(r.Body)
		fp.body.Store(b)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(fp.server.Close)
	return fp
}

func (fp *fakeProvider) lastRequest() gjson.Result {
	b, _ := fp.body.Load().([]byte)
	return gjson.ParseBytes(b)
}

// redirect sends every request to target regardless of the requested host,
// so the fixed OpenAI base URL can be exercised against a fake.
type redirect struct {
	target *url.URL
}

func (r redirect) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = r.target.Scheme
	out.URL.Host = r.target.Host
	out.Host = r.target.Host
	return http.DefaultTransport.RoundTrip(out)
}

func chatReply(content string) string {
	return `{"model":"test","choices":[{"message":{"role":"assistant","content":` + quote(content) + `}}]}`
}

func quote(s string) string {
	var buf bytes.Buffer
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
	return buf.String()
}

func ollamaEnv(baseURL string) config.Env {
	return config.Env{
		DevProvider:    "ollama",
		OllamaBaseURL:  baseURL,
		LocalDevModel:  "mistral:latest",
		RequestTimeout: 5 * time.Second,
	}
}

func captureLogger() (*logrus.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger, _ := logging.NewWithOutput(&buf, "debug", "json")
	return logger, &buf
}

const piiContent = `{
	"hardSkills": ["Go", "Kubernetes john@example.com"],
	"softSkills": ["Teamwork (123) 456-7890"],
	"resumeImprovements": ["Quantify impact", "Mention Terraform", "See https://example.com"],
	"coverLetterSnippet": "  Reach me at jane@corp.com.  "
}`

func TestExtract_SanitizesModelOutput(t *testing.T) {
	fp := newFakeProvider(t, http.StatusOK, chatReply(piiContent))
	svc := NewService(ollamaEnv(fp.server.URL))

	got, err := svc.Extract(context.Background(), jobDescription)
	require.NoError(t, err)

	assert.Equal(t, types.ExtractionResult{
		HardSkills:         []string{"Go", "Kubernetes [email]"},
		SoftSkills:         []string{"Teamwork [phone]"},
		ResumeImprovements: []string{"Quantify impact", "Mention Terraform", "See [url]"},
		CoverLetterSnippet: "Reach me at [email].",
	}, got)
	assert.EqualValues(t, 1, fp.calls.Load())
}

func TestExtract_SendsRedactedTextToConfiguredModel(t *testing.T) {
	fp := newFakeProvider(t, http.StatusOK, chatReply(piiContent))
	svc := NewService(ollamaEnv(fp.server.URL))

	_, err := svc.Extract(context.Background(), jobDescription)
	require.NoError(t, err)

	req := fp.lastRequest()
	assert.Equal(t, "mistral:latest", req.Get("model").String())
	assert.Equal(t, "job_extraction", req.Get("response_format.json_schema.name").String())
	assert.True(t, req.Get("response_format.json_schema.strict").Bool())
	assert.Equal(t, "object", req.Get("response_format.json_schema.schema.type").String())

	user := req.Get("messages.1.content").String()
	assert.Contains(t, user, "Contact [email] or [phone].")
	assert.NotContains(t, user, "john@example.com")
	assert.NotContains(t, user, "555-123-4567")
	assert.Contains(t, req.Get("messages.0.content").String(), "analyses job descriptions ONLY")
}

func TestExtract_ProductionUsesOpenAIModel(t *testing.T) {
	fp := newFakeProvider(t, http.StatusOK, chatReply(piiContent))
	target, err := url.Parse(fp.server.URL)
	require.NoError(t, err)

	factory := llm.NewClientFactory(llm.WithHTTPClient(&http.Client{Transport: redirect{target: target}}))
	svc := NewService(config.Env{
		AppEnv:         "production",
		DevProvider:    "mock",
		OpenAIAPIKey:   "sk-prod",
		LocalDevModel:  "mistral:latest",
		RequestTimeout: 5 * time.Second,
	}, WithClientFactory(factory))

	_, err = svc.Extract(context.Background(), jobDescription)
	require.NoError(t, err)

	assert.EqualValues(t, 1, fp.calls.Load(), "mock provider is ignored in production")
	assert.Equal(t, "gpt-4o-mini", fp.lastRequest().Get("model").String())
}

func TestExtract_BlankContentIsEmptyResult(t *testing.T) {
	for _, reply := range []string{chatReply(""), chatReply("  \n  "), `{"choices":[]}`} {
		fp := newFakeProvider(t, http.StatusOK, reply)
		svc := NewService(ollamaEnv(fp.server.URL))

		got, err := svc.Extract(context.Background(), jobDescription)
		require.NoError(t, err, reply)
		assert.Equal(t, types.EmptyExtraction(), got, reply)
	}
}

func TestExtract_NonJSONContentFails(t *testing.T) {
	fp := newFakeProvider(t, http.StatusOK, chatReply("Sorry, I cannot help with that."))
	svc := NewService(ollamaEnv(fp.server.URL))

	_, err := svc.Extract(context.Background(), jobDescription)
	assert.ErrorIs(t, err, ErrAnalysisFailed)
	assert.Equal(t, "failed to analyze job description with AI", err.Error())
}

func TestExtract_FencedJSONIsAccepted(t *testing.T) {
	fp := newFakeProvider(t, http.StatusOK, chatReply("```json\n"+piiContent+"\n```"))
	svc := NewService(ollamaEnv(fp.server.URL))

	got, err := svc.Extract(context.Background(), jobDescription)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Kubernetes [email]"}, got.HardSkills)
}

func TestExtract_SchemaViolationOnlyWarns(t *testing.T) {
	fp := newFakeProvider(t, http.StatusOK, chatReply(`{"hardSkills":["Go"],"softSkills":null,"resumeImprovements":["one"]}`))
	logger, buf := captureLogger()
	svc := NewService(ollamaEnv(fp.server.URL), WithLogger(logger))

	got, err := svc.Extract(context.Background(), jobDescription)
	require.NoError(t, err)
	assert.Equal(t, types.ExtractionResult{
		HardSkills:         []string{"Go"},
		SoftSkills:         []string{},
		ResumeImprovements: []string{"one"},
		CoverLetterSnippet: "",
	}, got)
	assert.Contains(t, buf.String(), "does not match extraction schema")
}

func TestExtract_NonObjectJSONIsEmptyResult(t *testing.T) {
	fp := newFakeProvider(t, http.StatusOK, chatReply(`["Go", "Rust"]`))
	svc := NewService(ollamaEnv(fp.server.URL))

	got, err := svc.Extract(context.Background(), jobDescription)
	require.NoError(t, err)
	assert.Equal(t, types.EmptyExtraction(), got)
}

func TestExtract_ProviderErrorIsGenericAndLoggedWithoutInput(t *testing.T) {
	fp := newFakeProvider(t, http.StatusInternalServerError, `{"error":{"message":"model crashed","type":"server_error"}}`)
	logger, buf := captureLogger()
	svc := NewService(ollamaEnv(fp.server.URL), WithLogger(logger))

	ctx := logging.WithRequestID(context.Background(), "req-42")
	_, err := svc.Extract(ctx, jobDescription)
	require.ErrorIs(t, err, ErrAnalysisFailed)

	logs := buf.String()
	assert.Contains(t, logs, "analysis failed")
	assert.Contains(t, logs, `"error_class":"provider_error"`)
	assert.Contains(t, logs, `"request_id":"req-42"`)
	assert.Contains(t, logs, `"model":"mistral:latest"`)
	assert.NotContains(t, logs, "john@example.com")
	assert.NotContains(t, logs, "Senior Go engineer")
}

func TestExtract_UnreachableProviderFails(t *testing.T) {
	fp := newFakeProvider(t, http.StatusOK, "")
	addr := fp.server.URL
	fp.server.Close()

	svc := NewService(ollamaEnv(addr))
	_, err := svc.Extract(context.Background(), jobDescription)
	assert.ErrorIs(t, err, ErrAnalysisFailed)
}

func TestExtract_InvalidBaseURLFails(t *testing.T) {
	svc := NewService(ollamaEnv("not a url"))
	_, err := svc.Extract(context.Background(), jobDescription)
	assert.ErrorIs(t, err, ErrAnalysisFailed)
}

func TestExtract_ConfigurationErrorBeforeNetwork(t *testing.T) {
	fp := newFakeProvider(t, http.StatusOK, chatReply(piiContent))

	tests := []struct {
		name     string
		env      config.Env
		variable string
	}{
		{
			name:     "ollama without model",
			env:      config.Env{DevProvider: "ollama", OllamaBaseURL: fp.server.URL},
			variable: "LOCAL_DEV_AI_MODEL",
		},
		{
			name:     "openai without key",
			env:      config.Env{DevProvider: "openai"},
			variable: "OPENAI_API_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService(tt.env).Extract(context.Background(), jobDescription)
			require.Error(t, err)
			assert.False(t, errors.Is(err, ErrAnalysisFailed))

			var cfgErr *llm.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.variable, cfgErr.Variable)
		})
	}
	assert.EqualValues(t, 0, fp.calls.Load())
}

func TestExtract_OfflineModeServesCannedResult(t *testing.T) {
	fp := newFakeProvider(t, http.StatusOK, chatReply(piiContent))
	env := ollamaEnv(fp.server.URL)
	env.DevProvider = "mock"

	got, err := NewService(env).Extract(context.Background(), jobDescription)
	require.NoError(t, err)
	assert.Equal(t, Canned(), got)
	assert.EqualValues(t, 0, fp.calls.Load())

	env.ForceAIInDev = true
	_, err = NewService(env).Extract(context.Background(), jobDescription)
	require.NoError(t, err)
	assert.EqualValues(t, 1, fp.calls.Load())
}

func TestExtract_ReusesClientAcrossCalls(t *testing.T) {
	fp := newFakeProvider(t, http.StatusOK, chatReply(piiContent))
	factory := llm.NewClientFactory()
	svc := NewService(ollamaEnv(fp.server.URL), WithClientFactory(factory))

	for range 3 {
		_, err := svc.Extract(context.Background(), jobDescription)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, factory.Len())
	assert.EqualValues(t, 3, fp.calls.Load())
}

func TestCanned_ReturnsCopies(t *testing.T) {
	a := Canned()
	a.HardSkills[0] = "changed"
	assert.NotEqual(t, "changed", Canned().HardSkills[0])
	assert.Len(t, Canned().ResumeImprovements, 3)
}

func TestCanned_GoesThroughSanitizer(t *testing.T) {
	saved := canned
	t.Cleanup(func() { canned = saved })
	canned = types.ExtractionResult{
		HardSkills:         []string{"Go, ask jane@example.com"},
		ResumeImprovements: []string{"Call 555-123-4567"},
		CoverLetterSnippet: "Reach me at jane@example.com",
	}

	got := Canned()
	assert.Equal(t, []string{"Go, ask [email]"}, got.HardSkills)
	assert.Equal(t, []string{}, got.SoftSkills)
	assert.Equal(t, []string{"Call [phone]"}, got.ResumeImprovements)
	assert.Equal(t, "Reach me at [email]", got.CoverLetterSnippet)
	assert.Equal(t, "Go, ask jane@example.com", canned.HardSkills[0])
}
