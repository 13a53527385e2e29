package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hostmap/hostmap/internal/core"
	"github.com/hostmap/hostmap/internal/llm"
)

type stubCompleter struct {
	content string
	err     error
	lastReq *llm.Request
}

func (s *stubCompleter) Complete(_ context.Context, req *llm.Request) (*llm.Response, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Response{Content: s.content, FinishReason: "stop"}, nil
}

func TestModelExtractorParsesStructuredResponse(t *testing.T) {
	stub := &stubCompleter{content: `{
		"hostnames": [
			{"hostname": "WEB01", "confidence": "high", "justification": "named after Server: marker"},
			{"hostname": "db.example.com", "confidence": "medium", "justification": "FQDN in body"}
		],
		"issue_type": "outage"
	}`}

	e := &ModelExtractor{Client: stub, Model: "gpt-test", Temperature: 0.2}
	result, err := e.Extract(context.Background(), "WEB01 and db.example.com are unreachable")
	require.NoError(t, err)
	require.Equal(t, []string{"WEB01", "db.example.com"}, result.Names())
	require.Equal(t, core.ConfidenceHigh, result.Hostnames[0].Confidence)
	require.Equal(t, "outage", result.IssueType)

	require.NotNil(t, stub.lastReq.ResponseFormat)
	require.Equal(t, "json_schema", stub.lastReq.ResponseFormat.Type)
	require.NotNil(t, stub.lastReq.Temperature)
	require.InDelta(t, 0.2, *stub.lastReq.Temperature, 1e-9)
}

func TestModelExtractorEmptyListIsNotAnError(t *testing.T) {
	stub := &stubCompleter{content: `{"hostnames": [], "issue_type": ""}`}

	e := &ModelExtractor{Client: stub, Model: "gpt-test"}
	result, err := e.Extract(context.Background(), "no servers here")
	require.NoError(t, err)
	require.Empty(t, result.Hostnames)
}

func TestModelExtractorTransportFailureIsHardError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("connection refused")}

	e := &ModelExtractor{Client: stub, Model: "gpt-test"}
	_, err := e.Extract(context.Background(), "Server: WEB01 down")
	require.Error(t, err)
}

func TestModelExtractorMalformedResponseIsHardError(t *testing.T) {
	stub := &stubCompleter{content: `the model ignored the schema`}

	e := &ModelExtractor{Client: stub, Model: "gpt-test"}
	_, err := e.Extract(context.Background(), "Server: WEB01 down")
	require.Error(t, err)
}

func TestModelExtractorDeduplicatesHostnames(t *testing.T) {
	stub := &stubCompleter{content: `{
		"hostnames": [
			{"hostname": "WEB01", "confidence": "high", "justification": "a"},
			{"hostname": "WEB01", "confidence": "low", "justification": "b"}
		],
		"issue_type": "outage"
	}`}

	e := &ModelExtractor{Client: stub, Model: "gpt-test"}
	result, err := e.Extract(context.Background(), "WEB01 WEB01")
	require.NoError(t, err)
	require.Equal(t, []string{"WEB01"}, result.Names())
	require.Equal(t, core.ConfidenceHigh, result.Hostnames[0].Confidence)
}

func TestModelExtractorSkipsBlankTicket(t *testing.T) {
	stub := &stubCompleter{content: `unused`}

	e := &ModelExtractor{Client: stub, Model: "gpt-test"}
	result, err := e.Extract(context.Background(), "  ")
	require.NoError(t, err)
	require.Empty(t, result.Hostnames)
	require.Nil(t, stub.lastReq)
}
