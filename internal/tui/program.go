package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/myterm/internal/engine"
	"github.com/cristianoliveira/myterm/internal/event"
	"golang.org/x/sync/errgroup"
)

// eventBuffer is the capacity of the input queue between the program and
// the engine.
const eventBuffer = 256

// Runner is the part of the engine the program drives.
type Runner interface {
	Run(ctx context.Context, events <-chan event.Event, surface engine.Surface) error
}

// Run starts the engine and a full-screen program and returns when either
// side ends. The engine closes the surface on exit, which quits the
// program; a program that ends first cancels the engine.
func Run(ctx context.Context, runner Runner, opts ...tea.ProgramOption) error {
	events := make(chan event.Event, eventBuffer)
	model := NewModel(events)
	options := append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	}, opts...)
	program := tea.NewProgram(model, options...)
	surface := NewSurface(program)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := runner.Run(gctx, events, surface)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})
	return g.Wait()
}
