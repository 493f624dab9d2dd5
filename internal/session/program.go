package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/envmatch/internal/logging"
	"github.com/muurk/envmatch/internal/store"
)

// Run starts the interactive session on the terminal and blocks until the
// user quits, ctx is cancelled, or an interrupt or terminate signal arrives.
func Run(ctx context.Context, s *store.Store, opts Options) error {
	if !s.IsInitialized() {
		return &store.Error{Kind: store.KindNotInitialized}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("Starting interactive session", zap.String("location", s.Location()))

	p := tea.NewProgram(New(s, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			logging.Info("Session stopped by signal")
			return nil
		}
		return fmt.Errorf("session error: %w", err)
	}

	logging.Info("Session ended")
	return nil
}
