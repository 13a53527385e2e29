package output

import (
	"fmt"
	"strings"

	"github.com/hostmap/hostmap/internal/core"
)

// MarkdownFormatter renders results as a markdown table.
type MarkdownFormatter struct{}

// FormatTicket renders a ticket result as Markdown.
func (f *MarkdownFormatter) FormatTicket(result *core.TicketResult) (string, error) {
	if result == nil {
		return "", nil
	}
	return f.render(result.Message, result.Groups, result.GroupOrder, result.Summary, result.Errors), nil
}

// FormatBatch renders a batch result as Markdown.
func (f *MarkdownFormatter) FormatBatch(result *core.BatchResult) (string, error) {
	if result == nil {
		return "", nil
	}
	return f.render(result.Message, result.Groups, result.GroupOrder, result.Summary, result.Errors), nil
}

func (f *MarkdownFormatter) render(message string, groups map[string]*core.Group, order []string, summary core.Summary, errs core.ErrorDetail) string {
	var sb strings.Builder
	sb.WriteString("## Support group assignments\n\n")

	if len(groups) == 0 && message != "" {
		sb.WriteString(message)
		sb.WriteString("\n")
	} else {
		sb.WriteString("| Support Group | Hostnames | App Owner | Email Distros | Contacts | Issue Types |\n")
		sb.WriteString("|---------------|-----------|-----------|---------------|----------|-------------|\n")

		for _, group := range orderedGroups(groups, order) {
			if group == nil {
				continue
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
				escapeMarkdownCell(group.SupportGroup),
				escapeMarkdownCell(strings.Join(group.Hostnames, ", ")),
				escapeMarkdownCell(group.Contacts.AppOwner),
				escapeMarkdownCell(group.Contacts.EmailDistros),
				escapeMarkdownCell(group.Contacts.IndividualContacts),
				escapeMarkdownCell(strings.Join(group.IssueTypes, ", ")),
			))
		}

		if summary.TotalHostnames > 0 {
			sb.WriteString(fmt.Sprintf("\n**Coverage**: %s\n", summaryLine(summary)))
		}
	}

	for _, s := range errorSections(errs) {
		sb.WriteString(fmt.Sprintf("\n### %s\n\n", s.Title))
		for _, line := range s.Lines {
			sb.WriteString(fmt.Sprintf("- %s\n", escapeMarkdownCell(line)))
		}
	}

	return sb.String()
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
