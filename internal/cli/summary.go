package cli

import (
	"fmt"
	"strings"
	"time"

	"work_hours_logger/internal/domain/worklog"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	skipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func statusStyle(status string) lipgloss.Style {
	switch worklog.RunStatus(status) {
	case worklog.RunCompleted:
		return okStyle
	case worklog.RunNoop:
		return skipStyle
	default:
		return failStyle
	}
}

func outcomeStyle(kind worklog.OutcomeKind) lipgloss.Style {
	switch kind {
	case worklog.OutcomeSubmitted:
		return okStyle
	case worklog.OutcomeSkipped:
		return skipStyle
	default:
		return failStyle
	}
}

// renderSummary formats a finished run for the terminal.
func renderSummary(report *worklog.RunReport) string {
	var b strings.Builder
	succeeded, total := report.Counts()

	b.WriteString(titleStyle.Render("Work Logger Summary") + "\n")
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + value + "\n")
	}
	row("Run", report.ID)
	row("Mode", report.Mode)
	row("Status", statusStyle(string(report.Status)).Render(string(report.Status)))
	if total > 0 {
		row("Days", fmt.Sprintf("%d/%d succeeded", succeeded, total))
	}
	if report.Ledger != nil {
		for _, e := range report.Ledger.Entries() {
			line := strings.ToLower(string(e.Outcome.Kind))
			if e.Outcome.Reason != "" {
				line += ": " + e.Outcome.Reason
			}
			row("  "+string(e.Day), outcomeStyle(e.Outcome.Kind).Render(line))
		}
	}
	if report.VerificationShot != "" {
		row("Screenshot", report.VerificationShot)
	}
	if report.ErrorShot != "" {
		row("Error shot", report.ErrorShot)
	}
	if report.Error != "" {
		row("Error", failStyle.Render(report.Error))
	}
	if d := report.Duration(); d > 0 {
		row("Duration", d.Round(time.Second).String())
	}
	row("Notified", fmt.Sprintf("%t", report.NotificationsSent))

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderPlainSummary is a single log line for the scheduler.
func renderPlainSummary(report *worklog.RunReport) string {
	succeeded, total := report.Counts()
	s := fmt.Sprintf("Run %s finished: %s, %d/%d day(s) succeeded", report.ID, report.Status, succeeded, total)
	if report.Error != "" {
		s += ", error: " + report.Error
	}
	return s
}
