package view

import "github.com/charmbracelet/lipgloss"

// Theme 界面配色，使用 ANSI 256 色
type Theme struct {
	Title       lipgloss.Color
	NormalText  lipgloss.Color
	FaintText   lipgloss.Color
	Focused     lipgloss.Color
	ErrorText   lipgloss.Color
	SuccessText lipgloss.Color
	BorderColor lipgloss.Color
}

// DefaultTheme 深色终端配色
var DefaultTheme = Theme{
	Title:       lipgloss.Color("213"),
	NormalText:  lipgloss.Color("252"),
	FaintText:   lipgloss.Color("243"),
	Focused:     lipgloss.Color("81"),
	ErrorText:   lipgloss.Color("203"),
	SuccessText: lipgloss.Color("114"),
	BorderColor: lipgloss.Color("238"),
}

type styles struct {
	frame       lipgloss.Style
	title       lipgloss.Style
	label       lipgloss.Style
	focused     lipgloss.Style
	fieldError  lipgloss.Style
	bannerError lipgloss.Style
	bannerOK    lipgloss.Style
	button      lipgloss.Style
	buttonOff   lipgloss.Style
	help        lipgloss.Style
}

func newStyles(theme Theme) styles {
	return styles{
		frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.BorderColor).
			Padding(1, 2),
		title:       lipgloss.NewStyle().Bold(true).Foreground(theme.Title).MarginBottom(1),
		label:       lipgloss.NewStyle().Foreground(theme.NormalText),
		focused:     lipgloss.NewStyle().Foreground(theme.Focused).Bold(true),
		fieldError:  lipgloss.NewStyle().Foreground(theme.ErrorText),
		bannerError: lipgloss.NewStyle().Foreground(theme.ErrorText).Bold(true),
		bannerOK:    lipgloss.NewStyle().Foreground(theme.SuccessText).Bold(true),
		button: lipgloss.NewStyle().
			Foreground(theme.NormalText).
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.Focused).
			Padding(0, 2),
		buttonOff: lipgloss.NewStyle().
			Foreground(theme.FaintText).
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.BorderColor).
			Padding(0, 2),
		help: lipgloss.NewStyle().Foreground(theme.FaintText).MarginTop(1),
	}
}
