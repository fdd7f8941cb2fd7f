package tui

import (
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/netsniff/internal/core"
	"firestige.xyz/netsniff/internal/i18n"
	"firestige.xyz/netsniff/internal/netif"
	"firestige.xyz/netsniff/internal/store"
)

type fakeEngine struct {
	startErr  error
	starts    int
	stops     int
	clears    int
	capturing bool
	pending   []core.PacketRecord
	counts    []store.ProtocolCount
}

func (f *fakeEngine) Interfaces() []netif.Interface {
	return []netif.Interface{{Name: "eth0", DisplayName: "Ethernet 0"}}
}

func (f *fakeEngine) Start(int, string) error {
	f.starts++
	if f.startErr != nil {
		return f.startErr
	}
	f.capturing = true
	return nil
}

func (f *fakeEngine) Stop() {
	f.stops++
	f.capturing = false
}

func (f *fakeEngine) IsCapturing() bool { return f.capturing }

func (f *fakeEngine) Clear() { f.clears++ }

func (f *fakeEngine) DrainNew() []core.PacketRecord {
	out := f.pending
	f.pending = nil
	return out
}

func (f *fakeEngine) ProtocolCounts() []store.ProtocolCount { return f.counts }

func newModel(t *testing.T, engine *fakeEngine, opts Options) Model {
	t.Helper()
	labels, err := i18n.New(i18n.English)
	require.NoError(t, err)
	return New(engine, labels, opts)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func records(n int) []core.PacketRecord {
	out := make([]core.PacketRecord, n)
	for i := range out {
		out[i] = core.PacketRecord{Time: "12:00:00.000", Source: fmt.Sprintf("10.0.0.%d", i), Protocol: "UDP", Length: 60}
	}
	return out
}

func TestStartMessage(t *testing.T) {
	engine := &fakeEngine{}
	m := newModel(t, engine, Options{})

	_, cmd := update(m, key("s"))
	require.NotNil(t, cmd)
	m, _ = update(m, cmd())

	assert.Equal(t, 1, engine.starts)
	assert.True(t, m.capturing)
	assert.Contains(t, m.View(), "Sniffing...")
	assert.Contains(t, m.View(), "Ethernet 0")
}

func TestStartErrors(t *testing.T) {
	engine := &fakeEngine{startErr: fmt.Errorf("%w: index 3", core.ErrInvalidInterface)}
	m := newModel(t, engine, Options{Index: 3})
	m, _ = update(m, startedMsg{err: engine.Start(3, "")})
	assert.Equal(t, "No network interface selected!", m.err)
	assert.False(t, m.capturing)

	m, _ = update(m, startedMsg{err: fmt.Errorf("%w: eth0: %w", core.ErrCaptureStartFailure, errors.New("permission denied"))})
	assert.Contains(t, m.err, "Failed to start sniffing:")
	assert.Contains(t, m.View(), "permission denied")
}

func TestTickAppendsAndNumbersRows(t *testing.T) {
	engine := &fakeEngine{capturing: true, pending: records(3), counts: []store.ProtocolCount{{Protocol: "UDP", Count: 3}}}
	m := newModel(t, engine, Options{MaxRows: 4})

	m, cmd := update(m, tickMsg{})
	assert.NotNil(t, cmd)
	require.Len(t, m.rows, 3)
	assert.Equal(t, "1", m.rows[0][0])

	engine.pending = records(3)
	m, _ = update(m, tickMsg{})
	require.Len(t, m.rows, 4)
	assert.Equal(t, "3", m.rows[0][0])
	assert.Equal(t, "6", m.rows[3][0])
	assert.Contains(t, m.View(), "UDP")
}

func TestStopClearQuit(t *testing.T) {
	engine := &fakeEngine{capturing: true, pending: records(2)}
	m := newModel(t, engine, Options{})
	m, _ = update(m, tickMsg{})

	m, _ = update(m, key("x"))
	assert.Equal(t, 1, engine.stops)
	assert.False(t, m.capturing)

	m, _ = update(m, key("c"))
	assert.Equal(t, 1, engine.clears)
	assert.Empty(t, m.rows)
	assert.Zero(t, m.seq)

	_, cmd := update(m, key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Equal(t, 2, engine.stops)
}

func TestLanguageToggle(t *testing.T) {
	m := newModel(t, &fakeEngine{}, Options{})
	m, _ = update(m, key("l"))

	assert.Equal(t, i18n.Persian, m.labels.Language())
	assert.Equal(t, "شماره", m.table.Columns()[0].Title)
	assert.Contains(t, m.View(), "آماده")

	m, _ = update(m, key("l"))
	assert.Equal(t, "No.", m.table.Columns()[0].Title)
}
