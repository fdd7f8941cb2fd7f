package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"firestige.xyz/netsniff/internal/i18n"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF7DB")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Margin(0, 1)

	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m Model) View() string {
	l := m.labels

	header := fmt.Sprintf("%s  %s %s", l.Get(i18n.AppTitle), l.Get(i18n.Interface), m.iface)
	if m.opts.Filter != "" {
		header += fmt.Sprintf("  %s %s", l.Get(i18n.Filter), m.opts.Filter)
	}
	title := titleStyle.Render(header)

	packets := infoStyle.Render(l.Get(i18n.Packets) + "\n" + m.table.View())

	var dist []string
	for _, c := range m.counts {
		dist = append(dist, fmt.Sprintf("%-10s %d", c.Protocol, c.Count))
	}
	if len(dist) == 0 {
		dist = append(dist, "-")
	}
	stats := infoStyle.Render(l.Get(i18n.ProtocolDist) + "\n" + strings.Join(dist, "\n"))

	status := l.Get(i18n.Ready)
	if m.capturing {
		status = runningStyle.Render(l.Get(i18n.Sniffing))
	}
	if m.err != "" {
		status = errorStyle.Render(l.Get(i18n.Error) + ": " + m.err)
	}

	help := helpStyle.Render(fmt.Sprintf("s %s • x %s • c %s • l fa/en • q %s",
		l.Get(i18n.Start), l.Get(i18n.Stop), l.Get(i18n.Clear), l.Get(i18n.Quit)))

	body := lipgloss.JoinHorizontal(lipgloss.Top, packets, stats)
	align := lipgloss.Left
	if l.RightToLeft() {
		align = lipgloss.Right
	}
	return lipgloss.JoinVertical(align, title, body, status, help)
}
