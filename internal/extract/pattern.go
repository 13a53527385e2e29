package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/hostmap/hostmap/internal/core"
)

// DefaultMarker is the literal token the pattern strategy scans for.
const DefaultMarker = "Server:"

// PatternExtractor finds hostnames written as `<marker> <token>` in ticket
// text. The marker match is case-insensitive; the token is the contiguous
// non-whitespace run that follows. Deterministic and offline: it cannot
// fail on ordinary text.
type PatternExtractor struct {
	Marker string

	once    sync.Once
	pattern *regexp.Regexp
	initErr error
}

// Extract scans the text and returns matches in order of appearance,
// trimmed and deduplicated by first occurrence.
func (e *PatternExtractor) Extract(_ context.Context, ticketText string) (*Extraction, error) {
	if e == nil {
		return nil, fmt.Errorf("pattern extractor is not configured")
	}

	e.once.Do(e.compile)
	if e.initErr != nil {
		return nil, e.initErr
	}

	if strings.TrimSpace(ticketText) == "" {
		return &Extraction{}, nil
	}

	matches := e.pattern.FindAllStringSubmatch(ticketText, -1)

	extraction := &Extraction{}
	for _, match := range matches {
		hostname := strings.TrimSpace(match[1])
		if hostname == "" {
			continue
		}
		extraction.Hostnames = append(extraction.Hostnames, core.HostnameCandidate{Hostname: hostname})
	}
	extraction.Hostnames = dedupe(extraction.Hostnames)
	return extraction, nil
}

func (e *PatternExtractor) compile() {
	marker := strings.TrimSpace(e.Marker)
	if marker == "" {
		marker = DefaultMarker
	}
	pattern, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(marker) + `\s*(\S+)`)
	if err != nil {
		e.initErr = fmt.Errorf("compile marker pattern: %w", err)
		return
	}
	e.pattern = pattern
}
