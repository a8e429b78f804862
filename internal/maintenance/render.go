// SPDX-License-Identifier: MPL-2.0

package maintenance

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/easelstudio/easelboot/internal/validation"
)

// Status glyphs and styles for the rendered report. One line per item keeps
// the report scannable next to the repair menu.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// RenderReport renders a validation report as one styled line per item,
// preceded by an overall verdict. The validate command and the repair
// surface share this rendering.
func RenderReport(report validation.Report) string {
	var sb strings.Builder

	if report.OverallValid() {
		sb.WriteString(titleStyle.Render("Installation is valid"))
	} else {
		sb.WriteString(titleStyle.Render("Installation has problems"))
	}
	sb.WriteString("\n")

	for _, item := range report.Items() {
		sb.WriteString("  ")
		sb.WriteString(renderStatus(item.Status))
		sb.WriteString(" ")
		sb.WriteString(item.Name.String())
		if item.Detail != "" {
			sb.WriteString(detailStyle.Render("  " + item.Detail))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func renderStatus(status validation.Status) string {
	switch status {
	case validation.StatusOK:
		return okStyle.Render("✓")
	case validation.StatusWarning:
		return warningStyle.Render("!")
	case validation.StatusError:
		return errorStyle.Render("✗")
	case validation.StatusSkipped:
		return skippedStyle.Render("-")
	default:
		return "?"
	}
}
