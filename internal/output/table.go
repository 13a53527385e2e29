package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/hostmap/hostmap/internal/core"
)

// TableFormatter renders results as an ASCII table.
type TableFormatter struct{}

// FormatTicket renders a ticket result as a table.
func (f *TableFormatter) FormatTicket(result *core.TicketResult) (string, error) {
	if result == nil {
		return "", nil
	}
	return f.render(result.Message, result.Groups, result.GroupOrder, result.Summary, result.Errors), nil
}

// FormatBatch renders a batch result as a table.
func (f *TableFormatter) FormatBatch(result *core.BatchResult) (string, error) {
	if result == nil {
		return "", nil
	}
	return f.render(result.Message, result.Groups, result.GroupOrder, result.Summary, result.Errors), nil
}

func (f *TableFormatter) render(message string, groups map[string]*core.Group, order []string, summary core.Summary, errs core.ErrorDetail) string {
	var sb strings.Builder

	if len(groups) == 0 && message != "" {
		sb.WriteString(message)
	} else {
		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Support Group", "Hostnames", "App Owner", "Email Distros", "Contacts", "Issue Types"})

		for _, group := range orderedGroups(groups, order) {
			if group == nil {
				continue
			}
			t.AppendRow(table.Row{
				group.SupportGroup,
				strings.Join(group.Hostnames, "\n"),
				group.Contacts.AppOwner,
				group.Contacts.EmailDistros,
				group.Contacts.IndividualContacts,
				strings.Join(group.IssueTypes, "\n"),
			})
		}

		if summary.TotalHostnames > 0 {
			t.AppendFooter(table.Row{"", summaryLine(summary), "", "", "", ""})
		}

		sb.WriteString(t.Render())
	}

	for _, s := range errorSections(errs) {
		sb.WriteString(fmt.Sprintf("\n\n%s:\n", s.Title))
		for _, line := range s.Lines {
			sb.WriteString(fmt.Sprintf("  - %s\n", line))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
