package resolve

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hostmap/hostmap/internal/core"
	"github.com/hostmap/hostmap/internal/core/cache"
	"github.com/hostmap/hostmap/internal/extract"
	"github.com/hostmap/hostmap/internal/source"
)

func writeTicket(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestAggregator(assets, contacts source.Source) *Aggregator {
	return &Aggregator{
		Extractor: &extract.PatternExtractor{},
		Groups:    assetResolver(assets, nil),
		Contacts:  contactResolver(contacts, nil),
		Clock:     func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestAggregatorResolvesSharedHostnameOnce(t *testing.T) {
	dir := t.TempDir()
	a := writeTicket(t, dir, "a.txt", "Server: WEB01 unreachable")
	b := writeTicket(t, dir, "b.txt", "Server: WEB01 still down\nServer: DB02 slow")

	assets := &countingSource{inner: &source.Static{Table: assetTable()}}
	agg := newTestAggregator(assets, &source.Static{Table: contactTable()})
	agg.Groups.Cache = cache.NewMemory(time.Hour)
	agg.Groups.UseCache = true

	result := agg.Run(context.Background(), []string{a, b})

	require.Equal(t, 2, result.Summary.FilesProcessed)
	require.Equal(t, 2, result.Summary.TotalHostnames)
	require.Equal(t, 2, result.Summary.GroupedInto)
	require.Equal(t, 100, result.Summary.CoveragePercent)
	require.True(t, result.Errors.Empty())

	// WEB01 appears in both tickets but is listed and resolved once.
	require.Equal(t, []string{"WEB01"}, result.Groups["NETOPS"].Hostnames)
	require.Equal(t, 2, assets.calls)
}

func TestAggregatorExpandsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTicket(t, dir, "one.txt", "Server: WEB01")
	writeTicket(t, dir, "two.txt", "Server: DB02")

	agg := newTestAggregator(&source.Static{Table: assetTable()}, &source.Static{Table: contactTable()})
	result := agg.Run(context.Background(), []string{dir})

	require.Equal(t, 2, result.Summary.FilesProcessed)
	require.Equal(t, 2, result.Summary.TotalHostnames)
}

func TestAggregatorExpandsGlob(t *testing.T) {
	dir := t.TempDir()
	writeTicket(t, dir, "ticket-1.txt", "Server: WEB01")
	writeTicket(t, dir, "ticket-2.txt", "Server: DB02")
	writeTicket(t, dir, "notes.md", "Server: GHOST99")

	agg := newTestAggregator(&source.Static{Table: assetTable()}, &source.Static{Table: contactTable()})
	result := agg.Run(context.Background(), []string{filepath.Join(dir, "ticket-*.txt")})

	require.Equal(t, 2, result.Summary.FilesProcessed)
	require.Empty(t, result.Errors.HostnamesNotFound)
}

func TestAggregatorUnresolvableInputIsFileError(t *testing.T) {
	dir := t.TempDir()
	a := writeTicket(t, dir, "a.txt", "Server: WEB01")

	agg := newTestAggregator(&source.Static{Table: assetTable()}, &source.Static{Table: contactTable()})
	result := agg.Run(context.Background(), []string{a, filepath.Join(dir, "missing-*.txt")})

	require.Equal(t, 1, result.Summary.FilesProcessed)
	require.Len(t, result.Errors.Files, 1)
	require.Contains(t, result.Errors.Files[0], "no files match")

	// The readable ticket still resolved.
	require.Equal(t, 1, result.Summary.GroupedInto)
}

func TestAggregatorMergesGroupsAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeTicket(t, dir, "a.txt", "Server: DB02")
	b := writeTicket(t, dir, "b.txt", "Server: DB03")

	assets := [][]string{
		{"hostname", "a", "b", "c", "d", "e", "support_group"},
		{"DB02", "", "", "", "", "", "DBTEAM"},
		{"DB03", "", "", "", "", "", "DBTEAM"},
	}
	contacts := &countingSource{inner: &source.Static{Table: contactTable()}}
	agg := newTestAggregator(&source.Static{Table: assets}, contacts)

	result := agg.Run(context.Background(), []string{a, b})

	require.Equal(t, []string{"DBTEAM"}, result.GroupOrder)
	require.Equal(t, []string{"DB02", "DB03"}, result.Groups["DBTEAM"].Hostnames)
	require.Equal(t, 1, contacts.calls)
}

func TestAggregatorUnionsIssueTags(t *testing.T) {
	dir := t.TempDir()
	a := writeTicket(t, dir, "a.txt", "outage ticket")
	b := writeTicket(t, dir, "b.txt", "disk ticket")

	extractions := map[string]*extract.Extraction{
		"outage ticket": {
			Hostnames: []core.HostnameCandidate{{Hostname: "DB02"}},
			IssueType: "outage",
		},
		"disk ticket": {
			Hostnames: []core.HostnameCandidate{{Hostname: "DB02"}},
			IssueType: "disk full",
		},
	}
	agg := newTestAggregator(&source.Static{Table: assetTable()}, &source.Static{Table: contactTable()})
	agg.Extractor = extractorFunc(func(_ context.Context, text string) (*extract.Extraction, error) {
		return extractions[text], nil
	})

	result := agg.Run(context.Background(), []string{a, b})

	require.Equal(t, []string{"DB02"}, result.Groups["DBTEAM"].Hostnames)
	require.ElementsMatch(t, []string{"outage", "disk full"}, result.Groups["DBTEAM"].IssueTypes)
}

func TestAggregatorCoverageRounding(t *testing.T) {
	dir := t.TempDir()

	var table [][]string
	table = append(table, []string{"hostname", "a", "b", "c", "d", "e", "support_group"})
	// 7 of 10 hostnames are known.
	known := []string{"H1", "H2", "H3", "H4", "H5", "H6", "H7"}
	for _, h := range known {
		table = append(table, []string{h, "", "", "", "", "", "NETOPS"})
	}

	ticket := "Server: H1\nServer: H2\nServer: H3\nServer: H4\nServer: H5\n" +
		"Server: H6\nServer: H7\nServer: X1\nServer: X2\nServer: X3"
	path := writeTicket(t, dir, "many.txt", ticket)

	agg := newTestAggregator(&source.Static{Table: table}, &source.Static{Table: contactTable()})
	result := agg.Run(context.Background(), []string{path})

	require.Equal(t, 10, result.Summary.TotalHostnames)
	require.Equal(t, 3, result.Summary.NotFound)
	require.Equal(t, 70, result.Summary.CoveragePercent)
}

func TestAggregatorEmptyBatch(t *testing.T) {
	agg := newTestAggregator(&source.Static{Table: assetTable()}, &source.Static{Table: contactTable()})

	result := agg.Run(context.Background(), nil)

	require.Equal(t, 0, result.Summary.TotalHostnames)
	require.Equal(t, 0, result.Summary.CoveragePercent)
	require.Equal(t, "no hostnames found in batch", result.Message)
}

// extractorFunc adapts a function to the extract.Extractor interface.
type extractorFunc func(ctx context.Context, text string) (*extract.Extraction, error)

func (f extractorFunc) Extract(ctx context.Context, text string) (*extract.Extraction, error) {
	return f(ctx, text)
}
