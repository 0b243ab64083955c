package dashboard

import (
	"github.com/bnema/campus-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	section    lipgloss.Style
	heading    lipgloss.Style
	item       lipgloss.Style
	detail     lipgloss.Style
	empty      lipgloss.Style
	warning    lipgloss.Style
	figure     lipgloss.Style
	figureBox  lipgloss.Style
	tab        lipgloss.Style
	activeTab  lipgloss.Style
	help       lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
	live       lipgloss.Style
	upcoming   lipgloss.Style
	ended      lipgloss.Style
	priorities map[domain.Priority]lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		section:    lipgloss.NewStyle().MarginTop(1),
		heading:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		item:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		empty:      lipgloss.NewStyle().Faint(true),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		figure:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
		figureBox:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1),
		tab:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),
		activeTab:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("16")).Background(lipgloss.Color("39")).Padding(0, 1),
		help:       lipgloss.NewStyle().Faint(true).MarginTop(1),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		live:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		upcoming:   lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		ended:      lipgloss.NewStyle().Faint(true),
		priorities: map[domain.Priority]lipgloss.Style{
			domain.PriorityHigh:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
			domain.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			domain.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		},
	}
}

func (s styles) priority(p domain.Priority) lipgloss.Style {
	if style, ok := s.priorities[p]; ok {
		return style
	}
	return s.detail
}

func (s styles) liveStatus(status domain.LiveStatus) lipgloss.Style {
	switch status {
	case domain.LiveStatusLive:
		return s.live
	case domain.LiveStatusUpcoming:
		return s.upcoming
	default:
		return s.ended
	}
}
