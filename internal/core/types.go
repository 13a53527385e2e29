package core

import "time"

// Confidence grades how certain the extractor is that a token names a real host.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// HostnameCandidate is one possible server identifier pulled from ticket text.
// Confidence and Justification are only populated by the model-backed
// extractor; the pattern extractor emits bare hostnames.
type HostnameCandidate struct {
	Hostname      string     `json:"hostname"`
	Confidence    Confidence `json:"confidence,omitempty"`
	Justification string     `json:"justification,omitempty"`
}

// SupportGroupLookup is the outcome of resolving one hostname to its owning
// support group. Source-access failures are carried in Error rather than
// raised, so one broken lookup never aborts a run.
type SupportGroupLookup struct {
	Hostname     string    `json:"hostname"`
	SupportGroup string    `json:"support_group,omitempty"`
	Found        bool      `json:"found"`
	Error        string    `json:"error,omitempty"`
	FromCache    bool      `json:"from_cache,omitempty"`
	ResolvedAt   time.Time `json:"resolved_at"`
}

// ContactBundle is the contact roster for one support group.
type ContactBundle struct {
	SupportGroup       string    `json:"support_group"`
	AppOwner           string    `json:"app_owner,omitempty"`
	EmailDistros       string    `json:"email_distros,omitempty"`
	IndividualContacts string    `json:"individual_contacts,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	Found              bool      `json:"found"`
	Error              string    `json:"error,omitempty"`
	FromCache          bool      `json:"from_cache,omitempty"`
	ResolvedAt         time.Time `json:"resolved_at"`
}

// Group collects the hostnames that resolved to one support group, the
// contact bundle fetched for it, and any issue-type tags the extractor
// attached to the tickets those hostnames came from. Hostnames keep
// insertion order; IssueTypes is a deduplicated ordered set.
type Group struct {
	SupportGroup     string        `json:"support_group"`
	Hostnames        []string      `json:"hostnames"`
	Contacts         ContactBundle `json:"contacts"`
	ContactsResolved bool          `json:"contact_lookup_successful"`
	IssueTypes       []string      `json:"issue_types,omitempty"`
}

// AddIssueType records a tag if it is non-empty and not already present.
func (g *Group) AddIssueType(tag string) {
	if g == nil || tag == "" {
		return
	}
	for _, existing := range g.IssueTypes {
		if existing == tag {
			return
		}
	}
	g.IssueTypes = append(g.IssueTypes, tag)
}

// Summary holds aggregate counts for a resolution run.
type Summary struct {
	FilesProcessed  int `json:"files_processed,omitempty"`
	TotalHostnames  int `json:"total_hostnames"`
	GroupedInto     int `json:"grouped_into"`
	NotFound        int `json:"not_found"`
	CoveragePercent int `json:"coverage_percent"`
}

// ErrorDetail tracks every non-fatal failure observed during a run.
type ErrorDetail struct {
	HostnamesNotFound     []string `json:"hostnames_not_found,omitempty"`
	SupportGroupsNotFound []string `json:"support_groups_not_found,omitempty"`
	Files                 []string `json:"file_errors,omitempty"`
	Other                 []string `json:"other_errors,omitempty"`
}

// Empty reports whether no failures were recorded.
func (e ErrorDetail) Empty() bool {
	return len(e.HostnamesNotFound) == 0 &&
		len(e.SupportGroupsNotFound) == 0 &&
		len(e.Files) == 0 &&
		len(e.Other) == 0
}

// TicketResult is the full outcome of resolving a single ticket.
// GroupOrder preserves the order groups were first formed in, since the
// Groups map has no iteration order of its own.
type TicketResult struct {
	Message     string            `json:"message,omitempty"`
	Summary     Summary           `json:"summary"`
	Groups      map[string]*Group `json:"groups"`
	GroupOrder  []string          `json:"-"`
	Errors      ErrorDetail       `json:"errors"`
	CompletedAt time.Time         `json:"completed_at"`
}

// BatchResult aggregates resolution across many ticket files. Hostnames are
// deduplicated across the whole batch before resolution, so each distinct
// hostname appears in at most one group exactly once.
type BatchResult struct {
	Message        string            `json:"message,omitempty"`
	Summary        Summary           `json:"summary"`
	FilesProcessed []string          `json:"files_processed"`
	Groups         map[string]*Group `json:"groups"`
	GroupOrder     []string          `json:"-"`
	Errors         ErrorDetail       `json:"errors"`
	CompletedAt    time.Time         `json:"completed_at"`
}

// CoveragePercent computes round(100 * grouped / total), defined as 0 when
// total is 0 so an empty run never divides by zero.
func CoveragePercent(grouped, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(grouped)/float64(total)*100 + 0.5)
}
