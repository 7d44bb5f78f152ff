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
	"lexmatter/domain/core/valueobjects"
	pkgerrors "lexmatter/pkg/errors"
)

// DocumentLifecycleHandler handles soft-delete and restore state changes on
// documents. It is registered on the command bus for
// ChangeDocumentStateCommand.
type DocumentLifecycleHandler struct {
	documentRepo ports.DocumentRepository
	matterRepo   ports.MatterRepository
	auditStore   ports.AuditStore
	eventStore   ports.EventStore
	cfg          *config.DomainConfig
	logger       *zap.Logger
}

// NewDocumentLifecycleHandler creates a new document lifecycle handler
func NewDocumentLifecycleHandler(
	documentRepo ports.DocumentRepository,
	matterRepo ports.MatterRepository,
	auditStore ports.AuditStore,
	eventStore ports.EventStore,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *DocumentLifecycleHandler {
	return &DocumentLifecycleHandler{
		documentRepo: documentRepo,
		matterRepo:   matterRepo,
		auditStore:   auditStore,
		eventStore:   eventStore,
		cfg:          cfg,
		logger:       logger,
	}
}

// Handle executes the state change command
func (h *DocumentLifecycleHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, ok := c.(*commands.ChangeDocumentStateCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", c)
	}

	documentID, err := valueobjects.NewDocumentIDFromString(cmd.DocumentID)
	if err != nil {
		return fmt.Errorf("invalid document ID: %w", err)
	}

	document, err := h.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}

	if err := h.authorize(ctx, document, cmd.UserID); err != nil {
		return err
	}

	var activity entities.DocumentActivity
	switch cmd.Action {
	case commands.DocumentActionDelete:
		activity = entities.DocumentActivityDeleted
		err = document.SoftDelete(cmd.UserID)
	case commands.DocumentActionRestore:
		activity = entities.DocumentActivityRestored
		err = document.Restore(cmd.UserID)
	default:
		return fmt.Errorf("unknown document action %q", cmd.Action)
	}
	if err != nil {
		return err
	}

	if err := h.documentRepo.Save(ctx, document); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	if h.cfg.EnableAuditTrail {
		record, recErr := entities.NewDocumentActivityRecord(document.ID(), document.MatterID(), cmd.UserID, activity, time.Now())
		if recErr == nil {
			if err := h.auditStore.AppendDocumentActivity(ctx, record); err != nil {
				h.logger.Error("Failed to append document activity",
					zap.String("documentID", document.ID().String()),
					zap.Error(err),
				)
			}
		}
	}

	if h.cfg.EnableOutboxPublish {
		if err := h.eventStore.SaveEvents(ctx, document.GetUncommittedEvents()); err != nil {
			h.logger.Warn("Failed to store document events", zap.Error(err))
		}
	}
	document.MarkEventsAsCommitted()

	return nil
}

// authorize checks the document's matter belongs to the acting user and is
// still writable. Documents of archived or deleted matters are read-only.
func (h *DocumentLifecycleHandler) authorize(ctx context.Context, document *entities.Document, userID string) error {
	matter, err := h.matterRepo.GetByID(ctx, document.MatterID())
	if err != nil {
		return err
	}
	if matter.UserID() != userID {
		return pkgerrors.ErrUserNotAuthorized
	}
	if matter.IsArchived() {
		return pkgerrors.ErrMatterArchived
	}
	if matter.IsDeleted() {
		return pkgerrors.ErrMatterDeleted
	}
	return nil
}
