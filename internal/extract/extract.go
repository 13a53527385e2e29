// Package extract turns raw ticket text into candidate hostnames. Two
// interchangeable strategies exist: a deterministic marker scan and a
// model-backed extraction over an OpenAI-compatible endpoint. The pipeline
// depends only on the Extractor interface, never on a concrete strategy.
package extract

import (
	"context"

	"github.com/hostmap/hostmap/internal/core"
)

// Extraction is one ticket's extraction outcome. An empty Hostnames slice
// with a nil error means the ticket names no hosts, which is a valid result
// and not a failure.
type Extraction struct {
	Hostnames []core.HostnameCandidate `json:"hostnames"`
	IssueType string                   `json:"issue_type,omitempty"`
}

// Names returns the candidate hostname strings in extraction order.
func (e *Extraction) Names() []string {
	if e == nil || len(e.Hostnames) == 0 {
		return nil
	}
	names := make([]string, 0, len(e.Hostnames))
	for _, candidate := range e.Hostnames {
		names = append(names, candidate.Hostname)
	}
	return names
}

// Extractor is the interface both strategies implement. A non-nil error is
// a hard per-ticket failure: the caller must not run lookups for the ticket.
type Extractor interface {
	Extract(ctx context.Context, ticketText string) (*Extraction, error)
}

// dedupe keeps the first occurrence of each hostname, preserving order.
func dedupe(candidates []core.HostnameCandidate) []core.HostnameCandidate {
	seen := make(map[string]struct{}, len(candidates))
	result := make([]core.HostnameCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Hostname == "" {
			continue
		}
		if _, ok := seen[candidate.Hostname]; ok {
			continue
		}
		seen[candidate.Hostname] = struct{}{}
		result = append(result, candidate)
	}
	return result
}
