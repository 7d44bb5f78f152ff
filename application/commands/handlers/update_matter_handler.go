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
	"lexmatter/domain/core/valueobjects"
	pkgerrors "lexmatter/pkg/errors"
)

// UpdateMatterHandler handles matter metadata updates
type UpdateMatterHandler struct {
	matterRepo ports.MatterRepository
	auditStore ports.AuditStore
	eventStore ports.EventStore
	cfg        *config.DomainConfig
	logger     *zap.Logger
}

// NewUpdateMatterHandler creates a new update matter handler
func NewUpdateMatterHandler(
	matterRepo ports.MatterRepository,
	auditStore ports.AuditStore,
	eventStore ports.EventStore,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *UpdateMatterHandler {
	return &UpdateMatterHandler{
		matterRepo: matterRepo,
		auditStore: auditStore,
		eventStore: eventStore,
		cfg:        cfg,
		logger:     logger,
	}
}

// Handle executes the update matter command and returns the updated matter
func (h *UpdateMatterHandler) Handle(ctx context.Context, cmd *commands.UpdateMatterCommand) (*entities.Matter, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	matterID, err := valueobjects.NewMatterIDFromString(cmd.MatterID)
	if err != nil {
		return nil, fmt.Errorf("invalid matter ID: %w", err)
	}

	matter, err := h.matterRepo.GetByID(ctx, matterID)
	if err != nil {
		return nil, err
	}
	if matter.UserID() != cmd.UserID {
		return nil, pkgerrors.ErrUserNotAuthorized
	}

	if err := matter.UpdateWithConfig(cmd.Title, cmd.Description, cmd.ClientName, h.cfg); err != nil {
		return nil, err
	}

	if err := h.matterRepo.Save(ctx, matter); err != nil {
		return nil, fmt.Errorf("failed to save matter: %w", err)
	}

	if h.cfg.EnableAuditTrail {
		record, err := entities.NewMatterActivityRecord(matter.ID(), cmd.UserID, entities.MatterActivityUpdated, time.Now())
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

	return matter, nil
}
