// Package joyled runs the joystick control loop as a daemon: it opens the
// configured ADC, indicator outputs and host link, attaches the optional
// MQTT, display and HTTP observers, and runs until its context ends.
package joyled

import (
	"context"
	"fmt"
	"log"

	"github.com/larsks/joyled/internal/analog"
	"github.com/larsks/joyled/internal/api"
	"github.com/larsks/joyled/internal/cli"
	"github.com/larsks/joyled/internal/controller"
	"github.com/larsks/joyled/internal/hostlink"
	"github.com/larsks/joyled/internal/httpserver"
	"github.com/larsks/joyled/internal/indicator"
	"github.com/larsks/joyled/internal/mqtt"
	"github.com/larsks/joyled/internal/telemetry"
)

// Handler implements the CLI handler for joyled
type Handler struct {
	// Link, when set, is used instead of opening the configured host link.
	Link *hostlink.Link

	// Snapshot receives every state change and sample. NewHandler creates
	// one; tests may read it while Start is running.
	Snapshot *telemetry.Snapshot
}

// NewHandler creates a new Handler instance
func NewHandler() *Handler {
	return &Handler{
		Snapshot: telemetry.NewSnapshot(),
	}
}

// Start implements the CommandHandler interface
func (h *Handler) Start(ctx context.Context, config cli.Configurable) error {
	cfg, ok := config.(*Config)
	if !ok {
		return ErrInvalidConfig
	}

	bank, err := indicator.OpenBank(cfg.Outputs, cfg.Polarity())
	if err != nil {
		return fmt.Errorf("failed to open outputs: %w", err)
	}
	outputs, err := indicator.NewDriver(bank, cfg.Polarity())
	if err != nil {
		bank.Close() //nolint:errcheck
		return fmt.Errorf("failed to initialize outputs: %w", err)
	}
	defer outputs.Close() //nolint:errcheck
	log.Printf("using outputs %s (%s)", outputs, cfg.Polarity())

	source, err := analog.Open(cfg.ADC)
	if err != nil {
		return fmt.Errorf("failed to open adc: %w", err)
	}
	defer source.Close() //nolint:errcheck
	log.Printf("using analog source %s", source)

	link := h.Link
	if link == nil {
		link, err = hostlink.Open(cfg.Host)
		if err != nil {
			return fmt.Errorf("failed to open host link: %w", err)
		}
	}
	defer link.Close() //nolint:errcheck
	log.Printf("using host link %s", link)

	snapshot := h.Snapshot
	if snapshot == nil {
		snapshot = telemetry.NewSnapshot()
	}
	observers := []controller.Observer{snapshot}

	if cfg.MQTT.ServerURL != "" {
		client, err := mqtt.NewClient(mqtt.Config{
			ServerURL: cfg.MQTT.ServerURL,
			ClientID:  cfg.MQTT.ClientID,
		})
		if err != nil {
			return fmt.Errorf("failed to create mqtt client: %w", err)
		}
		defer client.Disconnect(250)

		publisher := telemetry.NewMQTTPublisher(client, cfg.MQTT.TopicPrefix)
		defer publisher.Close()
		observers = append(observers, publisher)
	}

	if cfg.Display.Enabled {
		screen, err := telemetry.OpenDisplay(cfg.Display.DryRun)
		if err != nil {
			return err
		}
		defer screen.Close() //nolint:errcheck

		observer := telemetry.NewDisplayObserver(screen)
		defer observer.Close()
		observers = append(observers, observer)
	}

	loop := controller.New(link, link, source, outputs, controller.Options{
		SampleInterval: cfg.SampleInterval,
		PollInterval:   cfg.PollInterval,
		Observers:      observers,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serverErr := make(chan error, 1)
	if cfg.ListenPort != 0 {
		addr := httpserver.Address(cfg.ListenAddress, cfg.ListenPort)
		server := api.NewServer(snapshot)
		log.Printf("serving status api on %s", addr)
		go func() {
			err := httpserver.Serve(ctx, addr, server.Handler())
			if err != nil {
				cancel()
			}
			serverErr <- err
		}()
	} else {
		serverErr <- nil
	}

	loopErr := loop.Run(ctx)
	cancel()

	if err := <-serverErr; err != nil {
		return fmt.Errorf("status api failed: %w", err)
	}
	return loopErr
}
