package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"lexmatter/application/commands"
	"lexmatter/application/commands/bus"
	"lexmatter/application/ports"
	"lexmatter/domain/config"
	"lexmatter/domain/core/entities"
	"lexmatter/domain/core/validators"
	"lexmatter/domain/core/valueobjects"
	pkgerrors "lexmatter/pkg/errors"
)

// MatterLifecycleHandler handles archive, unarchive, delete and restore
// state changes on matters. It is registered on the command bus for
// ChangeMatterStateCommand.
type MatterLifecycleHandler struct {
	matterRepo   ports.MatterRepository
	documentRepo ports.DocumentRepository
	auditStore   ports.AuditStore
	eventStore   ports.EventStore
	validator    *validators.MatterValidator
	cfg          *config.DomainConfig
	logger       *zap.Logger
}

// NewMatterLifecycleHandler creates a new matter lifecycle handler
func NewMatterLifecycleHandler(
	matterRepo ports.MatterRepository,
	documentRepo ports.DocumentRepository,
	auditStore ports.AuditStore,
	eventStore ports.EventStore,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *MatterLifecycleHandler {
	return &MatterLifecycleHandler{
		matterRepo:   matterRepo,
		documentRepo: documentRepo,
		auditStore:   auditStore,
		eventStore:   eventStore,
		validator:    validators.NewMatterValidatorWithConfig(cfg),
		cfg:          cfg,
		logger:       logger,
	}
}

// Handle executes the state change command
func (h *MatterLifecycleHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, ok := c.(*commands.ChangeMatterStateCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", c)
	}

	matterID, err := valueobjects.NewMatterIDFromString(cmd.MatterID)
	if err != nil {
		return fmt.Errorf("invalid matter ID: %w", err)
	}

	matter, err := h.matterRepo.GetByID(ctx, matterID)
	if err != nil {
		return err
	}
	if matter.UserID() != cmd.UserID {
		return pkgerrors.ErrUserNotAuthorized
	}

	activity, err := h.applyAction(ctx, matter, cmd.Action)
	if err != nil {
		return err
	}

	if err := h.matterRepo.Save(ctx, matter); err != nil {
		return fmt.Errorf("failed to save matter: %w", err)
	}

	if h.cfg.EnableAuditTrail {
		record, recErr := entities.NewMatterActivityRecord(matter.ID(), cmd.UserID, activity, time.Now())
		if recErr == nil {
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

	h.logger.Info("Matter state changed",
		zap.String("matterID", matter.ID().String()),
		zap.String("action", string(cmd.Action)),
		zap.String("userID", cmd.UserID),
	)

	return nil
}

func (h *MatterLifecycleHandler) applyAction(ctx context.Context, matter *entities.Matter, action commands.MatterLifecycleAction) (entities.MatterActivity, error) {
	switch action {
	case commands.MatterActionArchive:
		checkedOut, err := h.documentRepo.CountCheckedOut(ctx, matter.ID())
		if err != nil {
			return "", fmt.Errorf("failed to count checked-out documents: %w", err)
		}
		if err := h.validator.ValidateArchivable(matter, checkedOut); err != nil {
			return "", err
		}
		return entities.MatterActivityArchived, matter.Archive()

	case commands.MatterActionUnarchive:
		return entities.MatterActivityUnarchived, matter.Unarchive()

	case commands.MatterActionDelete:
		checkedOut, err := h.documentRepo.CountCheckedOut(ctx, matter.ID())
		if err != nil {
			return "", fmt.Errorf("failed to count checked-out documents: %w", err)
		}
		if err := h.validator.ValidateDeletable(matter, checkedOut); err != nil {
			return "", err
		}
		return entities.MatterActivityDeleted, matter.SoftDelete()

	case commands.MatterActionRestore:
		return entities.MatterActivityRestored, matter.Restore()

	default:
		return "", fmt.Errorf("unknown matter action %q", action)
	}
}
