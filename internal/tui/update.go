package tui

import (
	"errors"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"firestige.xyz/netsniff/internal/core"
	"firestige.xyz/netsniff/internal/i18n"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.engine.Stop()
			return m, tea.Quit
		case "s":
			if !m.capturing {
				return m, startCmd(m.engine, m.opts.Index, m.opts.Filter)
			}
			return m, nil
		case "x":
			m.engine.Stop()
			m.capturing = m.engine.IsCapturing()
			return m, nil
		case "c":
			m.engine.Clear()
			m.rows = nil
			m.seq = 0
			m.counts = nil
			m.table.SetRows(nil)
			return m, nil
		case "l":
			next := i18n.Persian
			if m.labels.Language() == i18n.Persian {
				next = i18n.English
			}
			_ = m.labels.SetLanguage(next)
			m.table.SetColumns(columns(m.labels))
			return m, nil
		}

	case startedMsg:
		m.err = ""
		if msg.err != nil {
			if errors.Is(msg.err, core.ErrInvalidInterface) {
				m.err = m.labels.Get(i18n.NoInterface)
			} else {
				m.err = m.labels.Get(i18n.StartFailed) + " " + msg.err.Error()
			}
		}
		m.capturing = m.engine.IsCapturing()
		return m, nil

	case tickMsg:
		m.refresh()
		return m, m.tickCmd()
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// refresh appends the records drained since the last tick and reloads the
// protocol distribution. Row numbers keep counting while old rows scroll out.
func (m *Model) refresh() {
	m.capturing = m.engine.IsCapturing()

	if fresh := m.engine.DrainNew(); len(fresh) > 0 {
		for _, rec := range fresh {
			m.seq++
			m.rows = append(m.rows, table.Row{
				strconv.Itoa(m.seq),
				rec.Time,
				rec.Source,
				rec.Destination,
				rec.Protocol,
				strconv.Itoa(rec.Length),
				rec.Info,
			})
		}
		if over := len(m.rows) - m.opts.MaxRows; over > 0 {
			m.rows = append([]table.Row(nil), m.rows[over:]...)
		}
		m.table.SetRows(m.rows)
		m.table.GotoBottom()
	}

	m.counts = m.engine.ProtocolCounts()
}
