package tui

import "github.com/charmbracelet/lipgloss"

var (
	accentColor    = lipgloss.Color("#f4a259")
	okColor        = lipgloss.Color("#7bd389")
	warnColor      = lipgloss.Color("#ffd166")
	badColor       = lipgloss.Color("#ef476f")
	mutedTextColor = lipgloss.Color("244")

	titleStyle          = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	sectionHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	helperStyle         = lipgloss.NewStyle().Foreground(mutedTextColor)
	errorStyle          = lipgloss.NewStyle().Foreground(badColor)
	successStyle        = lipgloss.NewStyle().Foreground(okColor)
	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8ecae6"))
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	systemLabelStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a3be8c"))
	systemMessageStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#a3be8c"))
	badgeStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(accentColor).Padding(0, 1)
	selectedChipStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	chipStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4")).Padding(0, 1)
	keyStyle            = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(warnColor).Padding(0, 1)
	keyDescStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	panelStyle          = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	helpBoxStyle        = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(0, 1)
)

func indicator(ok bool, warnOnly bool) string {
	switch {
	case ok:
		return lipgloss.NewStyle().Foreground(okColor).Render("●")
	case warnOnly:
		return lipgloss.NewStyle().Foreground(warnColor).Render("●")
	default:
		return lipgloss.NewStyle().Foreground(badColor).Render("●")
	}
}
