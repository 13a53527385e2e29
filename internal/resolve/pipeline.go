package resolve

import (
	"context"
	"fmt"
	"time"

	"github.com/hostmap/hostmap/internal/core"
	"github.com/hostmap/hostmap/internal/extract"
)

// Pipeline resolves one ticket: extraction, support-group lookup per
// hostname, and a contact lookup the first time each group is seen in the
// run. The per-run contact memoization is separate from and additional to
// the TTL cache inside the resolvers.
type Pipeline struct {
	Extractor extract.Extractor
	Groups    *GroupResolver
	Contacts  *ContactResolver
	Clock     func() time.Time
}

// Run resolves ticketText to grouped contacts. Failures never escape as
// errors: extraction failure short-circuits into the result's error
// section, and per-hostname problems are tracked while the rest of the
// ticket continues.
func (p *Pipeline) Run(ctx context.Context, ticketText string) *core.TicketResult {
	result := &core.TicketResult{Groups: map[string]*core.Group{}}
	defer func() { result.CompletedAt = p.now() }()

	if p == nil || p.Extractor == nil || p.Groups == nil || p.Contacts == nil {
		result.Message = "resolution pipeline is not configured"
		result.Errors.Other = append(result.Errors.Other, "resolution pipeline is not configured")
		return result
	}
	if ctx == nil {
		ctx = context.Background()
	}

	extraction, err := p.Extractor.Extract(ctx, ticketText)
	if err != nil {
		result.Message = "hostname extraction failed"
		result.Errors.Other = append(result.Errors.Other, err.Error())
		return result
	}

	names := extraction.Names()
	if len(names) == 0 {
		result.Message = "no hostnames found in ticket"
		return result
	}

	g := newGrouper(p.Contacts)
	for _, hostname := range names {
		p.place(ctx, g, hostname, extraction.IssueType, &result.Errors)
	}

	result.Groups = g.groups
	result.GroupOrder = g.order
	result.Errors.SupportGroupsNotFound = append(result.Errors.SupportGroupsNotFound, g.unresolvedGroups...)
	result.Summary = core.Summary{
		TotalHostnames:  len(names),
		GroupedInto:     len(g.groups),
		NotFound:        len(result.Errors.HostnamesNotFound),
		CoveragePercent: core.CoveragePercent(len(names)-len(result.Errors.HostnamesNotFound), len(names)),
	}
	return result
}

// place resolves one hostname into the grouper, tracking failures.
func (p *Pipeline) place(ctx context.Context, g *grouper, hostname, issueType string, errs *core.ErrorDetail) {
	lookup, err := p.Groups.Resolve(ctx, hostname)
	if err != nil {
		errs.HostnamesNotFound = append(errs.HostnamesNotFound, hostname)
		errs.Other = append(errs.Other, fmt.Sprintf("%s: %v", hostname, err))
		return
	}

	if !lookup.Found || lookup.SupportGroup == "" {
		errs.HostnamesNotFound = append(errs.HostnamesNotFound, hostname)
		if lookup.Error != "" {
			errs.Other = append(errs.Other, fmt.Sprintf("%s: %s", hostname, lookup.Error))
		}
		return
	}

	g.place(ctx, hostname, lookup.SupportGroup, issueType)
}

func (p *Pipeline) now() time.Time {
	if p != nil && p.Clock != nil {
		return p.Clock()
	}
	return time.Now().UTC()
}

// grouper accumulates hostnames into groups keyed by support group,
// fetching each group's contact bundle exactly once per run.
type grouper struct {
	contacts         *ContactResolver
	groups           map[string]*core.Group
	order            []string
	unresolvedGroups []string
}

func newGrouper(contacts *ContactResolver) *grouper {
	return &grouper{
		contacts: contacts,
		groups:   map[string]*core.Group{},
	}
}

// place appends hostname to its group, creating the group and fetching its
// contacts on first sight. A failed contact lookup still creates the group
// so the hostname is not silently lost.
func (g *grouper) place(ctx context.Context, hostname, supportGroup, issueType string) {
	group, ok := g.groups[supportGroup]
	if !ok {
		bundle := g.fetchContacts(ctx, supportGroup)
		group = &core.Group{
			SupportGroup:     supportGroup,
			Contacts:         *bundle,
			ContactsResolved: bundle.Found,
		}
		g.groups[supportGroup] = group
		g.order = append(g.order, supportGroup)

		if !bundle.Found {
			g.unresolvedGroups = append(g.unresolvedGroups, supportGroup)
		}
	}

	group.Hostnames = append(group.Hostnames, hostname)
	group.AddIssueType(issueType)
}

// placeTags is the batch variant: one hostname may carry tags from several
// tickets.
func (g *grouper) placeTags(ctx context.Context, hostname, supportGroup string, issueTypes []string) {
	if len(issueTypes) == 0 {
		g.place(ctx, hostname, supportGroup, "")
		return
	}
	g.place(ctx, hostname, supportGroup, issueTypes[0])
	group := g.groups[supportGroup]
	for _, tag := range issueTypes[1:] {
		group.AddIssueType(tag)
	}
}

func (g *grouper) fetchContacts(ctx context.Context, supportGroup string) *core.ContactBundle {
	bundle, err := g.contacts.Resolve(ctx, supportGroup)
	if err != nil {
		return &core.ContactBundle{SupportGroup: supportGroup, Error: err.Error()}
	}
	return bundle
}
