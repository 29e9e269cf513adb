package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/phonebook/internal/errors"
	"github.com/Iron-Ham/phonebook/internal/watch"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
}

// New creates the watch view for path. The program stops when ctx is done.
func New(ctx context.Context, path string, opts ...tea.ProgramOption) *App {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	return &App{
		program: tea.NewProgram(NewModel(path), opts...),
	}
}

// Send delivers a snapshot to the running program. It blocks until the
// program reads it or has exited, so it is meant for the watcher goroutine.
func (a *App) Send(s watch.Snapshot) {
	a.program.Send(SnapshotMsg(s))
}

// Run starts the TUI and blocks until the user quits or ctx is done.
func (a *App) Run() error {
	_, err := a.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
