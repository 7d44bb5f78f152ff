package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"lexmatter/application/commands"
	"lexmatter/application/ports"
	"lexmatter/domain/config"
	"lexmatter/domain/core/entities"
	"lexmatter/domain/core/validators"
	pkgerrors "lexmatter/pkg/errors"
	"lexmatter/pkg/observability"
)

// CreateMatterHandler handles matter creation commands
type CreateMatterHandler struct {
	matterRepo ports.MatterRepository
	auditStore ports.AuditStore
	eventStore ports.EventStore
	validator  *validators.MatterValidator
	cfg        *config.DomainConfig
	collector  *observability.Collector
	logger     *zap.Logger
}

// NewCreateMatterHandler creates a new create matter handler
func NewCreateMatterHandler(
	matterRepo ports.MatterRepository,
	auditStore ports.AuditStore,
	eventStore ports.EventStore,
	cfg *config.DomainConfig,
	collector *observability.Collector,
	logger *zap.Logger,
) *CreateMatterHandler {
	return &CreateMatterHandler{
		matterRepo: matterRepo,
		auditStore: auditStore,
		eventStore: eventStore,
		validator:  validators.NewMatterValidatorWithConfig(cfg),
		cfg:        cfg,
		collector:  collector,
		logger:     logger,
	}
}

// Handle executes the create matter command and returns the new matter
func (h *CreateMatterHandler) Handle(ctx context.Context, cmd *commands.CreateMatterCommand) (*entities.Matter, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	if err := h.validator.ValidateNewMatter(cmd.Number, cmd.Title, cmd.Description, cmd.ClientName); err != nil {
		return nil, err
	}

	if h.cfg.RequireUniqueMatterNumbers {
		existing, err := h.matterRepo.GetByNumber(ctx, cmd.UserID, cmd.Number)
		if err != nil && !pkgerrors.IsNotFound(err) {
			return nil, fmt.Errorf("failed to check matter number: %w", err)
		}
		if existing != nil {
			return nil, pkgerrors.ErrDuplicateMatterNumber.WithDetail("number", cmd.Number)
		}
	}

	matter, err := entities.NewMatterWithConfig(cmd.UserID, cmd.Number, cmd.Title, cmd.Description, cmd.ClientName, h.cfg)
	if err != nil {
		return nil, err
	}

	if err := h.matterRepo.Save(ctx, matter); err != nil {
		return nil, fmt.Errorf("failed to save matter: %w", err)
	}

	if h.cfg.EnableAuditTrail {
		record, err := entities.NewMatterActivityRecord(matter.ID(), cmd.UserID, entities.MatterActivityCreated, time.Now())
		if err == nil {
			if err := h.auditStore.AppendMatterActivity(ctx, record); err != nil {
				h.logger.Error("Failed to append matter activity",
					zap.String("matterID", matter.ID().String()),
					zap.Error(err),
				)
			}
		}
	}

	if h.cfg.EnableOutboxPublish {
		if err := h.eventStore.SaveEvents(ctx, matter.GetUncommittedEvents()); err != nil {
			h.logger.Warn("Failed to store matter events", zap.Error(err))
		}
	}
	matter.MarkEventsAsCommitted()

	h.collector.MattersCreated.Inc()
	h.logger.Info("Matter created",
		zap.String("matterID", matter.ID().String()),
		zap.String("userID", cmd.UserID),
		zap.String("number", cmd.Number),
	)

	return matter, nil
}
