package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type awaitResultMsg[T any] struct {
	value T
	err   error
}

// awaitModel keeps a spinner and the elapsed time on screen until one background call returns.
type awaitModel[T any] struct {
	spinner  spinner.Model
	label    string
	call     tea.Cmd
	now      func() time.Time
	started  time.Time
	value    T
	err      error
	finished bool
}

func newAwaitModel[T any](label string, call tea.Cmd, now func() time.Time) awaitModel[T] {
	return awaitModel[T]{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("63"))),
		),
		label:   label,
		call:    call,
		now:     now,
		started: now(),
	}
}

func (m awaitModel[T]) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.call)
}

func (m awaitModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case awaitResultMsg[T]:
		m.value, m.err, m.finished = msg.value, msg.err, true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m awaitModel[T]) View() string {
	if m.finished {
		return ""
	}
	elapsed := m.now().Sub(m.started).Round(100 * time.Millisecond)
	return fmt.Sprintf("%s %s (%s)", m.spinner.View(), m.label, elapsed)
}

// awaitWithSpinner runs call while a spinner labelled label is drawn on output, then returns its result.
func awaitWithSpinner[T any](ctx context.Context, output io.Writer, label string, call func(context.Context) (T, error)) (T, error) {
	var zero T

	model := newAwaitModel[T](label, func() tea.Msg {
		value, err := call(ctx)
		return awaitResultMsg[T]{value: value, err: err}
	}, time.Now)

	final, err := tea.NewProgram(model,
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	).Run()
	if err != nil {
		return zero, err
	}

	done, ok := final.(awaitModel[T])
	if !ok {
		return zero, fmt.Errorf("unexpected final model type %T", final)
	}
	return done.value, done.err
}
