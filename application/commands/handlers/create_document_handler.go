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
	"lexmatter/pkg/observability"
)

// CreateDocumentHandler handles document creation commands
type CreateDocumentHandler struct {
	matterRepo   ports.MatterRepository
	documentRepo ports.DocumentRepository
	auditStore   ports.AuditStore
	eventStore   ports.EventStore
	validator    *validators.DocumentValidator
	cfg          *config.DomainConfig
	collector    *observability.Collector
	logger       *zap.Logger
}

// NewCreateDocumentHandler creates a new create document handler
func NewCreateDocumentHandler(
	matterRepo ports.MatterRepository,
	documentRepo ports.DocumentRepository,
	auditStore ports.AuditStore,
	eventStore ports.EventStore,
	cfg *config.DomainConfig,
	collector *observability.Collector,
	logger *zap.Logger,
) *CreateDocumentHandler {
	return &CreateDocumentHandler{
		matterRepo:   matterRepo,
		documentRepo: documentRepo,
		auditStore:   auditStore,
		eventStore:   eventStore,
		validator:    validators.NewDocumentValidatorWithConfig(cfg),
		cfg:          cfg,
		collector:    collector,
		logger:       logger,
	}
}

// Handle executes the create document command and returns the new document
func (h *CreateDocumentHandler) Handle(ctx context.Context, cmd *commands.CreateDocumentCommand) (*entities.Document, error) {
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
	if err := matter.CanAcceptDocument(h.cfg); err != nil {
		return nil, err
	}

	fileName, err := valueobjects.NewFileNameWithConfig(cmd.FileName, h.cfg)
	if err != nil {
		return nil, err
	}

	if err := h.validator.ValidateFileSize(cmd.FileSize); err != nil {
		return nil, err
	}
	if err := h.validator.ValidateMimeType(cmd.MimeType); err != nil {
		return nil, err
	}

	existingNames, err := h.documentRepo.FileNamesByMatterID(ctx, matterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list file names: %w", err)
	}
	if err := h.validator.ValidateFileNameUnique(fileName.String(), existingNames); err != nil {
		return nil, err
	}

	var checksum valueobjects.Checksum
	if cmd.Checksum != "" {
		checksum, err = valueobjects.NewChecksumFromHex(cmd.Checksum)
		if err != nil {
			return nil, err
		}
	}

	document, err := entities.NewDocumentWithConfig(matterID, cmd.UserID, fileName, cmd.FileSize, checksum, cmd.MimeType, h.cfg)
	if err != nil {
		return nil, err
	}

	if err := h.documentRepo.Save(ctx, document); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	matter.IncrementDocumentCount()
	if err := h.matterRepo.Save(ctx, matter); err != nil {
		h.logger.Error("Failed to update matter document count",
			zap.String("matterID", matter.ID().String()),
			zap.Error(err),
		)
	}

	if h.cfg.EnableAuditTrail {
		record, recErr := entities.NewDocumentActivityRecord(document.ID(), matterID, cmd.UserID, entities.DocumentActivityCreated, time.Now())
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

	h.collector.DocumentsCreated.Inc()
	h.logger.Info("Document created",
		zap.String("documentID", document.ID().String()),
		zap.String("matterID", matterID.String()),
		zap.String("fileName", fileName.String()),
	)

	return document, nil
}
