// Package tui is the terminal front end of the `watch` command.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"firestige.xyz/netsniff/internal/core"
	"firestige.xyz/netsniff/internal/i18n"
	"firestige.xyz/netsniff/internal/netif"
	"firestige.xyz/netsniff/internal/store"
)

// Engine is the part of the capture controller the TUI polls.
type Engine interface {
	Interfaces() []netif.Interface
	Start(index int, filter string) error
	Stop()
	IsCapturing() bool
	Clear()
	DrainNew() []core.PacketRecord
	ProtocolCounts() []store.ProtocolCount
}

// Options configures a Model.
type Options struct {
	Index   int
	Filter  string
	Refresh time.Duration
	MaxRows int
}

type tickMsg time.Time

// Model shows the packet table, the protocol distribution and the capture
// status, refreshed on every tick.
type Model struct {
	engine Engine
	labels *i18n.Labels
	opts   Options

	iface     string
	table     table.Model
	rows      []table.Row
	seq       int
	counts    []store.ProtocolCount
	capturing bool
	err       string
}

// New builds the model. The capture is not started until the first key press
// or Init.
func New(engine Engine, labels *i18n.Labels, opts Options) Model {
	if opts.Refresh <= 0 {
		opts.Refresh = time.Second
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = store.DefaultMaxPackets
	}

	t := table.New(
		table.WithColumns(columns(labels)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := Model{engine: engine, labels: labels, opts: opts, table: t}
	if ifaces := engine.Interfaces(); opts.Index >= 0 && opts.Index < len(ifaces) {
		m.iface = ifaces[opts.Index].DisplayName
	}
	return m
}

func columns(labels *i18n.Labels) []table.Column {
	return []table.Column{
		{Title: labels.Get(i18n.ColNo), Width: 6},
		{Title: labels.Get(i18n.ColTime), Width: 12},
		{Title: labels.Get(i18n.ColSource), Width: 18},
		{Title: labels.Get(i18n.ColDestination), Width: 18},
		{Title: labels.Get(i18n.ColProtocol), Width: 8},
		{Title: labels.Get(i18n.ColLength), Width: 7},
		{Title: labels.Get(i18n.ColInfo), Width: 48},
	}
}

// Init starts the capture and the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(startCmd(m.engine, m.opts.Index, m.opts.Filter), m.tickCmd())
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.opts.Refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type startedMsg struct{ err error }

func startCmd(engine Engine, index int, filter string) tea.Cmd {
	return func() tea.Msg {
		return startedMsg{err: engine.Start(index, filter)}
	}
}

// Run starts the program and blocks until the user quits. The capture is
// stopped on exit.
func Run(engine Engine, labels *i18n.Labels, opts Options) error {
	_, err := tea.NewProgram(New(engine, labels, opts), tea.WithAltScreen()).Run()
	engine.Stop()
	return err
}
