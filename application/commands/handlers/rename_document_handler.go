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
	"lexmatter/domain/core/valueobjects"
	pkgerrors "lexmatter/pkg/errors"
)

// RenameDocumentHandler handles document rename commands
type RenameDocumentHandler struct {
	documentRepo ports.DocumentRepository
	matterRepo   ports.MatterRepository
	auditStore   ports.AuditStore
	eventStore   ports.EventStore
	validator    *validators.DocumentValidator
	cfg          *config.DomainConfig
	logger       *zap.Logger
}

// NewRenameDocumentHandler creates a new rename document handler
func NewRenameDocumentHandler(
	documentRepo ports.DocumentRepository,
	matterRepo ports.MatterRepository,
	auditStore ports.AuditStore,
	eventStore ports.EventStore,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *RenameDocumentHandler {
	return &RenameDocumentHandler{
		documentRepo: documentRepo,
		matterRepo:   matterRepo,
		auditStore:   auditStore,
		eventStore:   eventStore,
		validator:    validators.NewDocumentValidatorWithConfig(cfg),
		cfg:          cfg,
		logger:       logger,
	}
}

// Handle executes the rename document command and returns the updated document
func (h *RenameDocumentHandler) Handle(ctx context.Context, cmd *commands.RenameDocumentCommand) (*entities.Document, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	documentID, err := valueobjects.NewDocumentIDFromString(cmd.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("invalid document ID: %w", err)
	}

	document, err := h.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	matter, err := h.matterRepo.GetByID(ctx, document.MatterID())
	if err != nil {
		return nil, err
	}
	if matter.UserID() != cmd.UserID {
		return nil, pkgerrors.ErrUserNotAuthorized
	}
	// Documents of archived or deleted matters are read-only.
	if matter.IsArchived() {
		return nil, pkgerrors.ErrMatterArchived
	}
	if matter.IsDeleted() {
		return nil, pkgerrors.ErrMatterDeleted
	}

	fileName, err := valueobjects.NewFileNameWithConfig(cmd.FileName, h.cfg)
	if err != nil {
		return nil, err
	}

	// Renaming to the current name is a no-op
	if !document.FileName().Equals(fileName) {
		existingNames, err := h.documentRepo.FileNamesByMatterID(ctx, document.MatterID())
		if err != nil {
			return nil, fmt.Errorf("failed to list file names: %w", err)
		}
		if err := h.validator.ValidateFileNameUnique(fileName.String(), existingNames); err != nil {
			return nil, err
		}

		if err := document.Rename(fileName); err != nil {
			return nil, err
		}

		if err := h.documentRepo.Save(ctx, document); err != nil {
			return nil, fmt.Errorf("failed to save document: %w", err)
		}

		if h.cfg.EnableAuditTrail {
			record, recErr := entities.NewDocumentActivityRecord(document.ID(), document.MatterID(), cmd.UserID, entities.DocumentActivityUpdated, time.Now())
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
	}

	return document, nil
}
