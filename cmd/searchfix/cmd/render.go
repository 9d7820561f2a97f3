package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LindsayRex/searchfix/internal/remedy"
)

var (
	successColor = lipgloss.Color("#22C55E") // green
	partialColor = lipgloss.Color("#F59E0B") // amber
	failedColor  = lipgloss.Color("#EF4444") // red
	skipColor    = lipgloss.Color("#6B7280") // muted gray

	titleStyle  = lipgloss.NewStyle().Bold(true)
	detailStyle = lipgloss.NewStyle().Foreground(skipColor)

	statusStyles = map[remedy.Status]lipgloss.Style{
		remedy.Success:        lipgloss.NewStyle().Foreground(successColor),
		remedy.PartialSuccess: lipgloss.NewStyle().Foreground(partialColor),
		remedy.Failed:         lipgloss.NewStyle().Foreground(failedColor).Bold(true),
		remedy.Skipped:        lipgloss.NewStyle().Foreground(skipColor),
	}
)

// renderReport formats a remediation report for the terminal. It is one
// renderer over the report contract; the report itself is the output.
func renderReport(report remedy.Report) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Remediation report"))
	b.WriteString("\n")

	for _, res := range report.Stages {
		status := statusStyles[res.Status].Render(string(res.Status))
		fmt.Fprintf(&b, "  %-20s %s", res.Stage, status)
		if res.EscalationUsed {
			b.WriteString(statusStyles[remedy.PartialSuccess].Render(" [escalated]"))
		}
		b.WriteString("\n")
		if res.Detail != "" {
			fmt.Fprintf(&b, "    %s\n", detailStyle.Render(res.Detail))
		}
	}

	overall := statusStyles[report.Overall].Render(string(report.Overall))
	fmt.Fprintf(&b, "\n%s %s\n", titleStyle.Render("Overall:"), overall)

	if report.RestartRequired {
		b.WriteString(statusStyles[remedy.Failed].Render("A full OS restart is required to release held resources."))
		b.WriteString("\n")
	}
	return b.String()
}
