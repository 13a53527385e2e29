package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hostmap/hostmap/internal/core"
	"github.com/hostmap/hostmap/internal/llm"
)

const extractionInstruction = `Extract ALL hostnames from the ticket text.

Hostname patterns to look for:
- Server names (e.g., WEB01, DB-PROD-01, APP-SERVER-03)
- Fully qualified domain names (e.g., server.company.com)
- Any identifier that represents a specific machine or server

For each hostname report a confidence tier (high, medium, low) and a short
justification. Also classify the ticket's issue type in one or two words
(e.g., outage, performance, access, hardware).

If no hostnames are found, return an empty list.`

// extractionSchema constrains the completion so a well-behaved provider can
// only return the shape the parser expects.
var extractionSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"hostnames", "issue_type"},
	"properties": map[string]any{
		"hostnames": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"hostname", "confidence", "justification"},
				"properties": map[string]any{
					"hostname":      map[string]any{"type": "string"},
					"confidence":    map[string]any{"type": "string", "enum": []string{"high", "medium", "low"}},
					"justification": map[string]any{"type": "string"},
				},
			},
		},
		"issue_type": map[string]any{"type": "string"},
	},
}

// Completer is the slice of the llm client the extractor needs.
type Completer interface {
	Complete(ctx context.Context, req *llm.Request) (*llm.Response, error)
}

// ModelExtractor asks a language model for a structured hostname list. The
// backing model may vary its output across identical inputs; that is an
// accepted property of the strategy, not a defect. Transport failures and
// unparsable payloads are hard per-ticket errors.
type ModelExtractor struct {
	Client      Completer
	Model       string
	Temperature float64
}

type modelExtractionPayload struct {
	Hostnames []core.HostnameCandidate `json:"hostnames"`
	IssueType string                   `json:"issue_type"`
}

// Extract sends the ticket text to the model and validates the structured
// response before use.
func (e *ModelExtractor) Extract(ctx context.Context, ticketText string) (*Extraction, error) {
	if e == nil || e.Client == nil {
		return nil, fmt.Errorf("model extractor is not configured")
	}
	if strings.TrimSpace(e.Model) == "" {
		return nil, fmt.Errorf("extraction model is required")
	}

	if strings.TrimSpace(ticketText) == "" {
		return &Extraction{}, nil
	}

	temperature := e.Temperature
	resp, err := e.Client.Complete(ctx, &llm.Request{
		Model: e.Model,
		Messages: []llm.Message{
			{Role: "system", Content: extractionInstruction},
			{Role: "user", Content: ticketText},
		},
		Temperature: &temperature,
		ResponseFormat: &llm.ResponseFormat{
			Type: "json_schema",
			JSONSchema: &llm.JSONSchema{
				Name:   "hostmap_extraction",
				Strict: true,
				Schema: extractionSchema,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return nil, fmt.Errorf("extraction returned no content")
	}

	var payload modelExtractionPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("parse extraction response: %w", err)
	}

	for i := range payload.Hostnames {
		payload.Hostnames[i].Hostname = strings.TrimSpace(payload.Hostnames[i].Hostname)
	}

	return &Extraction{
		Hostnames: dedupe(payload.Hostnames),
		IssueType: strings.TrimSpace(payload.IssueType),
	}, nil
}
