package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ModelView renders the TUI model's view as a string.
func ModelView(m model) string {
	switch m.ActiveView {
	case ViewQuitting:
		return quittingView()
	case ViewDetail:
		return detailView(m)
	case ViewSectionList:
		return sectionListView(m)
	default:
		return sectionListView(m)
	}
}

func quittingView() string {
	return "Goodbye!\n"
}

func detailView(m model) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF"))
	header := headerStyle.Render(wrapText(m.detailTitle, max(m.width-4, 20)))

	tableBlock := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#555555")).
		Padding(1).
		Render(m.detail.View())

	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")).
		Render("Esc to go back, q to quit.")

	content := lipgloss.JoinVertical(lipgloss.Left, header, tableBlock, hint)
	contentLines := strings.Count(content, "\n") + 1
	if m.height > contentLines {
		content += strings.Repeat("\n", m.height-contentLines)
	}
	return content
}

func sectionListView(m model) string {
	sectionList := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#555555")).
		Padding(1).
		Render(m.list.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		sectionList,
	)
}
