package analysis

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jd-analyser/internal/config"
	"github.com/jonathan/jd-analyser/internal/types"
)

func TestAnalyse_Success(t *testing.T) {
	fp := newFakeProvider(t, http.StatusOK, chatReply(piiContent))
	svc := NewService(ollamaEnv(fp.server.URL))

	out := svc.Analyse(context.Background(), types.AnalyseRequest{
		JobDescription:  "  " + jobDescription + "  ",
		PrivacyAccepted: true,
	})

	require.True(t, out.Success)
	require.NotNil(t, out.Data)
	assert.Empty(t, out.Error)
	assert.Equal(t, "Reach me at [email].", out.Data.CoverLetterSnippet)
	assert.True(t, strings.HasSuffix(fp.lastRequest().Get("messages.1.content").String(), "Terraform required."))
}

func TestAnalyse_Rejections(t *testing.T) {
	fp := newFakeProvider(t, http.StatusOK, chatReply(piiContent))
	svc := NewService(ollamaEnv(fp.server.URL))

	tests := []struct {
		name   string
		req    types.AnalyseRequest
		reason string
	}{
		{
			name:   "privacy not accepted",
			req:    types.AnalyseRequest{JobDescription: jobDescription},
			reason: ReasonPrivacyNotAccepted,
		},
		{
			name:   "empty",
			req:    types.AnalyseRequest{PrivacyAccepted: true},
			reason: ReasonInvalidInput,
		},
		{
			name:   "ten characters",
			req:    types.AnalyseRequest{JobDescription: "Ten chars!", PrivacyAccepted: true},
			reason: ReasonInvalidInput,
		},
		{
			name:   "short after trimming",
			req:    types.AnalyseRequest{JobDescription: "     short      ", PrivacyAccepted: true},
			reason: ReasonInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := svc.Analyse(context.Background(), tt.req)
			assert.Equal(t, types.Failed(tt.reason), out)
			assert.True(t, IsRejection(out))
		})
	}
	assert.EqualValues(t, 0, fp.calls.Load())
}

func TestAnalyse_ConfigurationErrorNamesVariableOutsideProduction(t *testing.T) {
	logger, buf := captureLogger()
	svc := NewService(config.Env{DevProvider: "openai"}, WithLogger(logger))

	out := svc.Analyse(context.Background(), types.AnalyseRequest{JobDescription: jobDescription, PrivacyAccepted: true})

	assert.Equal(t, types.Failed("service misconfigured: OPENAI_API_KEY"), out)
	assert.True(t, IsMisconfigured(out))
	assert.False(t, IsRejection(out))
	assert.Contains(t, buf.String(), "model provider is misconfigured")
	assert.Contains(t, buf.String(), "OPENAI_API_KEY")
}

func TestAnalyse_ProductionWithoutKeyIsGenericFailure(t *testing.T) {
	logger, buf := captureLogger()
	svc := NewService(config.Env{AppEnv: config.Production, RequestTimeout: time.Second}, WithLogger(logger))

	out := svc.Analyse(context.Background(), types.AnalyseRequest{JobDescription: jobDescription, PrivacyAccepted: true})

	assert.Equal(t, types.Failed(ReasonAnalysisFailed), out)
	assert.False(t, IsMisconfigured(out))
	assert.Contains(t, buf.String(), `"error_class":"client"`)
}

func TestAnalyse_ProviderFailure(t *testing.T) {
	fp := newFakeProvider(t, http.StatusServiceUnavailable, `{"error":{"message":"overloaded"}}`)
	svc := NewService(ollamaEnv(fp.server.URL))

	out := svc.Analyse(context.Background(), types.AnalyseRequest{JobDescription: jobDescription, PrivacyAccepted: true})
	assert.Equal(t, types.Failed(ReasonAnalysisFailed), out)
	assert.False(t, IsMisconfigured(out))
	assert.NotContains(t, out.Error, "overloaded")
}
