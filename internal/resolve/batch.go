package resolve

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hostmap/hostmap/internal/core"
	"github.com/hostmap/hostmap/internal/extract"
)

// Aggregator resolves a batch of ticket files into one merged result.
// Every distinct hostname across the whole batch is resolved exactly once:
// extraction runs per file, the candidates are deduplicated globally, and
// only then does the lookup phase start. A failing file is recorded and
// skipped, never fatal to the batch.
type Aggregator struct {
	Extractor extract.Extractor
	Groups    *GroupResolver
	Contacts  *ContactResolver
	Clock     func() time.Time
}

// candidate is one distinct hostname with the issue tags collected from
// every ticket that mentioned it.
type candidate struct {
	hostname   string
	issueTypes []string
}

// Run expands inputs (literal files, directories, glob patterns) and
// resolves the combined ticket set.
func (a *Aggregator) Run(ctx context.Context, inputs []string) *core.BatchResult {
	result := &core.BatchResult{Groups: map[string]*core.Group{}}
	defer func() { result.CompletedAt = a.now() }()

	if a == nil || a.Extractor == nil || a.Groups == nil || a.Contacts == nil {
		result.Message = "resolution pipeline is not configured"
		result.Errors.Other = append(result.Errors.Other, "resolution pipeline is not configured")
		return result
	}
	if ctx == nil {
		ctx = context.Background()
	}

	files := a.expand(inputs, &result.Errors)
	candidates := a.collect(ctx, files, result)

	if len(candidates) == 0 {
		if result.Message == "" {
			result.Message = "no hostnames found in batch"
		}
		result.Summary.FilesProcessed = len(result.FilesProcessed)
		return result
	}

	g := newGrouper(a.Contacts)
	for _, c := range candidates {
		a.place(ctx, g, c, &result.Errors)
	}

	result.Groups = g.groups
	result.GroupOrder = g.order
	result.Errors.SupportGroupsNotFound = append(result.Errors.SupportGroupsNotFound, g.unresolvedGroups...)
	result.Summary = core.Summary{
		FilesProcessed:  len(result.FilesProcessed),
		TotalHostnames:  len(candidates),
		GroupedInto:     len(g.groups),
		NotFound:        len(result.Errors.HostnamesNotFound),
		CoveragePercent: core.CoveragePercent(len(candidates)-len(result.Errors.HostnamesNotFound), len(candidates)),
	}
	return result
}

// expand turns the input arguments into a flat ordered file list.
// Directories contribute their regular files sorted by name, glob patterns
// their sorted matches, and anything that resolves to nothing is a file
// error.
func (a *Aggregator) expand(inputs []string, errs *core.ErrorDetail) []string {
	var files []string
	seen := map[string]bool{}

	add := func(path string) {
		if seen[path] {
			return
		}
		seen[path] = true
		files = append(files, path)
	}

	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if info, err := os.Stat(input); err == nil {
			if !info.IsDir() {
				add(input)
				continue
			}
			entries, err := os.ReadDir(input)
			if err != nil {
				errs.Files = append(errs.Files, fmt.Sprintf("%s: %v", input, err))
				continue
			}
			for _, entry := range entries {
				if entry.Type().IsRegular() {
					add(filepath.Join(input, entry.Name()))
				}
			}
			continue
		}

		matches, err := filepath.Glob(input)
		if err != nil {
			errs.Files = append(errs.Files, fmt.Sprintf("%s: %v", input, err))
			continue
		}
		if len(matches) == 0 {
			errs.Files = append(errs.Files, fmt.Sprintf("%s: no files match", input))
			continue
		}
		sort.Strings(matches)
		for _, match := range matches {
			add(match)
		}
	}

	return files
}

// collect reads and extracts every file, deduplicating hostnames globally
// while unioning issue tags per hostname. First occurrence wins the
// ordering.
func (a *Aggregator) collect(ctx context.Context, files []string, result *core.BatchResult) []*candidate {
	var ordered []*candidate
	index := map[string]*candidate{}

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			result.Errors.Files = append(result.Errors.Files, fmt.Sprintf("%s: %v", path, err))
			continue
		}

		extraction, err := a.Extractor.Extract(ctx, string(data))
		if err != nil {
			result.Errors.Files = append(result.Errors.Files, fmt.Sprintf("%s: extraction failed: %v", path, err))
			continue
		}
		result.FilesProcessed = append(result.FilesProcessed, path)

		for _, hostname := range extraction.Names() {
			c, ok := index[hostname]
			if !ok {
				c = &candidate{hostname: hostname}
				index[hostname] = c
				ordered = append(ordered, c)
			}
			if extraction.IssueType != "" && !contains(c.issueTypes, extraction.IssueType) {
				c.issueTypes = append(c.issueTypes, extraction.IssueType)
			}
		}
	}

	return ordered
}

func (a *Aggregator) place(ctx context.Context, g *grouper, c *candidate, errs *core.ErrorDetail) {
	lookup, err := a.Groups.Resolve(ctx, c.hostname)
	if err != nil {
		errs.HostnamesNotFound = append(errs.HostnamesNotFound, c.hostname)
		errs.Other = append(errs.Other, fmt.Sprintf("%s: %v", c.hostname, err))
		return
	}

	if !lookup.Found || lookup.SupportGroup == "" {
		errs.HostnamesNotFound = append(errs.HostnamesNotFound, c.hostname)
		if lookup.Error != "" {
			errs.Other = append(errs.Other, fmt.Sprintf("%s: %s", c.hostname, lookup.Error))
		}
		return
	}

	g.placeTags(ctx, c.hostname, lookup.SupportGroup, c.issueTypes)
}

func (a *Aggregator) now() time.Time {
	if a != nil && a.Clock != nil {
		return a.Clock()
	}
	return time.Now().UTC()
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
