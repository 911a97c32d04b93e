package hostmon

import (
	"context"
	"fmt"

	"github.com/larsks/joyled/internal/cli"
)

// Handler implements cli.CommandHandler for joymon
type Handler struct{}

// NewHandler creates a new joymon command handler
func NewHandler() *Handler {
	return &Handler{}
}

// Start runs a monitoring session with the given configuration
func (h *Handler) Start(ctx context.Context, config cli.Configurable) error {
	cfg, ok := config.(*Config)
	if !ok {
		return ErrInvalidConfig
	}

	monitor, err := NewMonitorWithDefaults(*cfg)
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}

	return monitor.Start(ctx)
}
