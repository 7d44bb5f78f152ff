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

// CheckOutDocumentHandler handles checkout and checkout-cancel commands.
// It is registered on the command bus for both CheckOutDocumentCommand and
// CancelCheckOutCommand.
type CheckOutDocumentHandler struct {
	documentRepo ports.DocumentRepository
	matterRepo   ports.MatterRepository
	auditStore   ports.AuditStore
	eventStore   ports.EventStore
	cfg          *config.DomainConfig
	logger       *zap.Logger
}

// NewCheckOutDocumentHandler creates a new checkout handler
func NewCheckOutDocumentHandler(
	documentRepo ports.DocumentRepository,
	matterRepo ports.MatterRepository,
	auditStore ports.AuditStore,
	eventStore ports.EventStore,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *CheckOutDocumentHandler {
	return &CheckOutDocumentHandler{
		documentRepo: documentRepo,
		matterRepo:   matterRepo,
		auditStore:   auditStore,
		eventStore:   eventStore,
		cfg:          cfg,
		logger:       logger,
	}
}

// Handle executes a checkout or checkout-cancel command
func (h *CheckOutDocumentHandler) Handle(ctx context.Context, c bus.Command) error {
	switch cmd := c.(type) {
	case *commands.CheckOutDocumentCommand:
		return h.checkOut(ctx, cmd.DocumentID, cmd.UserID)
	case *commands.CancelCheckOutCommand:
		return h.cancel(ctx, cmd.DocumentID, cmd.UserID)
	default:
		return fmt.Errorf("unexpected command type %T", c)
	}
}

func (h *CheckOutDocumentHandler) checkOut(ctx context.Context, documentID, userID string) error {
	document, err := h.load(ctx, documentID, userID)
	if err != nil {
		return err
	}

	if err := document.CheckOut(userID); err != nil {
		return err
	}

	if err := h.documentRepo.Save(ctx, document); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	if h.cfg.EnableAuditTrail {
		record, recErr := entities.NewDocumentActivityRecord(document.ID(), document.MatterID(), userID, entities.DocumentActivityCheckedOut, time.Now())
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

func (h *CheckOutDocumentHandler) cancel(ctx context.Context, documentID, userID string) error {
	document, err := h.load(ctx, documentID, userID)
	if err != nil {
		return err
	}

	if err := document.CancelCheckOut(userID); err != nil {
		return err
	}

	if err := h.documentRepo.Save(ctx, document); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	return nil
}

func (h *CheckOutDocumentHandler) load(ctx context.Context, documentID, userID string) (*entities.Document, error) {
	id, err := valueobjects.NewDocumentIDFromString(documentID)
	if err != nil {
		return nil, fmt.Errorf("invalid document ID: %w", err)
	}

	document, err := h.documentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	matter, err := h.matterRepo.GetByID(ctx, document.MatterID())
	if err != nil {
		return nil, err
	}
	if matter.UserID() != userID {
		return nil, pkgerrors.ErrUserNotAuthorized
	}
	if matter.IsArchived() {
		return nil, pkgerrors.ErrMatterArchived
	}
	if matter.IsDeleted() {
		return nil, pkgerrors.ErrMatterDeleted
	}

	return document, nil
}
