package stats

import "github.com/charmbracelet/lipgloss"

var (
	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")).
			Bold(true).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(22)

	valueStyle = lipgloss.NewStyle().Bold(true)

	dayOnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	dayOffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var weekdayLetters = [7]string{"S", "M", "T", "W", "T", "F", "S"}

func row(label string, value interface{}) string {
	return labelStyle.Render(label) + valueStyle.Render(fmtValue(value))
}
