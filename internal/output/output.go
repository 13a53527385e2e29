// Package output renders resolution results as tables, JSON, or Markdown.
package output

import (
	"fmt"
	"strings"

	"github.com/hostmap/hostmap/internal/core"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Formatter renders ticket and batch results.
type Formatter interface {
	FormatTicket(result *core.TicketResult) (string, error)
	FormatBatch(result *core.BatchResult) (string, error)
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMarkdown):
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// NewFormatter returns a formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}

// section is a titled list rendered after the main table.
type section struct {
	Title string
	Lines []string
}

// orderedGroups returns the groups in first-seen order, falling back to an
// arbitrary but stable walk when the order slice is absent (decoded JSON).
func orderedGroups(groups map[string]*core.Group, order []string) []*core.Group {
	var out []*core.Group
	seen := map[string]bool{}

	for _, id := range order {
		if group, ok := groups[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, group)
		}
	}
	for id, group := range groups {
		if !seen[id] {
			out = append(out, group)
		}
	}
	return out
}

func errorSections(errs core.ErrorDetail) []section {
	var sections []section
	if len(errs.HostnamesNotFound) > 0 {
		sections = append(sections, section{Title: "Hostnames not found", Lines: errs.HostnamesNotFound})
	}
	if len(errs.SupportGroupsNotFound) > 0 {
		sections = append(sections, section{Title: "Support groups without contacts", Lines: errs.SupportGroupsNotFound})
	}
	if len(errs.Files) > 0 {
		sections = append(sections, section{Title: "File errors", Lines: errs.Files})
	}
	if len(errs.Other) > 0 {
		sections = append(sections, section{Title: "Errors", Lines: errs.Other})
	}
	return sections
}

func summaryLine(summary core.Summary) string {
	line := fmt.Sprintf("%d/%d hostnames grouped (%d%%)",
		summary.TotalHostnames-summary.NotFound, summary.TotalHostnames, summary.CoveragePercent)
	if summary.FilesProcessed > 0 {
		line = fmt.Sprintf("%d files, %s", summary.FilesProcessed, line)
	}
	return line
}
