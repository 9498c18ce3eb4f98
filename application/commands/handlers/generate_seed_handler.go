package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"revshare/application/commands"
	"revshare/application/ports"
	"revshare/domain/events"
	"revshare/domain/ingestion"
)

// GenerateSeedHandler handles seed script generation commands
type GenerateSeedHandler struct {
	dataset     *ingestion.Dataset
	fingerprint string
	generator   ports.SeedGenerator
	scripts     ports.ScriptWriter
	publisher   ports.EventPublisher
	now         func() time.Time
	logger      *zap.Logger
}

// NewGenerateSeedHandler creates a new generate seed handler. A nil
// clock falls back to time.Now.
func NewGenerateSeedHandler(
	dataset *ingestion.Dataset,
	fingerprint string,
	generator ports.SeedGenerator,
	scripts ports.ScriptWriter,
	publisher ports.EventPublisher,
	now func() time.Time,
	logger *zap.Logger,
) *GenerateSeedHandler {
	if now == nil {
		now = time.Now
	}
	return &GenerateSeedHandler{
		dataset:     dataset,
		fingerprint: fingerprint,
		generator:   generator,
		scripts:     scripts,
		publisher:   publisher,
		now:         now,
		logger:      logger,
	}
}

// Handle executes the generate seed command
func (h *GenerateSeedHandler) Handle(ctx context.Context, cmd commands.GenerateSeedCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}

	script, err := h.generator.Generate(ctx, h.dataset, h.fingerprint)
	if err != nil {
		return err
	}

	if err := h.scripts.Write(ctx, cmd.OutputPath, script.SQL); err != nil {
		return fmt.Errorf("failed to write seed script: %w", err)
	}

	event := events.NewSeedScriptGenerated(script.Fingerprint, cmd.OutputPath, script.StatementCount, h.now())
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish seed event", zap.Error(err))
	}

	h.logger.Info("Seed script generated",
		zap.Int("statements", script.StatementCount),
		zap.String("path", cmd.OutputPath),
	)

	return nil
}
