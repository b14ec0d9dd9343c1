package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RunWithSpinner runs a command behind a progress spinner, discarding
// the command's own output. Meant for long configure/build steps on an
// interactive terminal; non-interactive callers should use Run.
func (r *Runner) RunWithSpinner(ctx context.Context, message, dir, name string, args ...string) error {
	quiet := &Runner{
		stdout:      io.Discard,
		stderr:      io.Discard,
		env:         r.env,
		container:   r.container,
		logger:      r.logger,
		commandFunc: r.commandFunc,
	}

	done := make(chan error, 1)
	go func() {
		done <- quiet.Run(ctx, dir, name, args...)
	}()

	m := newSpinnerModel(message)
	p := tea.NewProgram(m, tea.WithOutput(r.stderr))

	go func() {
		_, _ = p.Run()
	}()

	err := <-done

	p.Send(spinnerDoneMsg{err: err})
	// Give the spinner a tick to render its final state
	time.Sleep(50 * time.Millisecond)
	p.Quit()

	return err
}

type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
}

type spinnerDoneMsg struct {
	err error
}

func newSpinnerModel(message string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &spinnerModel{
		spinner: s,
		message: message,
	}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return fmt.Sprintf("✗ %s\n", m.message)
		}
		return fmt.Sprintf("✓ %s\n", m.message)
	}
	return fmt.Sprintf("%s %s...", m.spinner.View(), m.message)
}
