// Package tui provides the interactive scan progress view.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/macsweep/macsweep/internal/scan"
)

type progressMsg struct {
	path  string
	found int
}

type doneMsg struct {
	result *scan.Result
	err    error
}

// ScanModel is the bubbletea model driving one scan. The engine runs on
// its own goroutine; progress arrives through a buffered channel fed by a
// non-blocking callback, and a keypress cancels the context cooperatively.
type ScanModel struct {
	engine     *scan.Engine
	ctx        context.Context
	cancel     context.CancelFunc
	progressCh chan progressMsg

	spin       spinner.Model
	path       string
	found      int
	cancelling bool
	width      int

	result *scan.Result
	err    error
}

// NewScanModel wires the engine's progress callback to the model. The
// callback drops updates rather than blocking the scanning worker.
func NewScanModel(engine *scan.Engine, ctx context.Context, cancel context.CancelFunc) ScanModel {
	ch := make(chan progressMsg, 64)
	engine.SetProgress(func(path string, found int) {
		select {
		case ch <- progressMsg{path: path, found: found}:
		default:
		}
	})

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	return ScanModel{
		engine:     engine,
		ctx:        ctx,
		cancel:     cancel,
		progressCh: ch,
		spin:       sp,
		width:      80,
	}
}

// Result returns the finished scan result, if any.
func (m ScanModel) Result() (*scan.Result, error) {
	return m.result, m.err
}

func (m ScanModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.runScan(), m.waitProgress())
}

func (m ScanModel) runScan() tea.Cmd {
	return func() tea.Msg {
		res, err := m.engine.Scan(m.ctx)
		return doneMsg{result: res, err: err}
	}
}

func (m ScanModel) waitProgress() tea.Cmd {
	return func() tea.Msg {
		return <-m.progressCh
	}
}

func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			// Cooperative: the scan stops at its next checkpoint and the
			// doneMsg carries whatever was found so far.
			m.cancelling = true
			m.cancel()
		}
		return m, nil

	case progressMsg:
		m.path = msg.path
		m.found = msg.found
		return m, m.waitProgress()

	case doneMsg:
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}
