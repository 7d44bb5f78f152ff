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

// CheckInDocumentHandler handles check-in commands. Check-in appends the
// next sequential revision and updates the document in one transaction.
type CheckInDocumentHandler struct {
	documentRepo ports.DocumentRepository
	matterRepo   ports.MatterRepository
	uowFactory   func() ports.UnitOfWork
	cfg          *config.DomainConfig
	logger       *zap.Logger
}

// NewCheckInDocumentHandler creates a new check-in handler
func NewCheckInDocumentHandler(
	documentRepo ports.DocumentRepository,
	matterRepo ports.MatterRepository,
	uowFactory func() ports.UnitOfWork,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *CheckInDocumentHandler {
	return &CheckInDocumentHandler{
		documentRepo: documentRepo,
		matterRepo:   matterRepo,
		uowFactory:   uowFactory,
		cfg:          cfg,
		logger:       logger,
	}
}

// Handle executes the check-in command and returns the new revision
func (h *CheckInDocumentHandler) Handle(ctx context.Context, cmd *commands.CheckInDocumentCommand) (*entities.Revision, error) {
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

	var checksum valueobjects.Checksum
	if cmd.Checksum != "" {
		checksum, err = valueobjects.NewChecksumFromHex(cmd.Checksum)
		if err != nil {
			return nil, err
		}
	}

	revision, err := document.CheckInWithConfig(cmd.UserID, cmd.FileSize, checksum, h.cfg)
	if err != nil {
		return nil, err
	}

	// Revision append, document update, audit entry and outbox entries
	// commit or fail together.
	uow := h.uowFactory()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := uow.RegisterDocument(document); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.RegisterRevision(revision); err != nil {
		uow.Rollback()
		return nil, err
	}

	if h.cfg.EnableAuditTrail {
		record, recErr := entities.NewDocumentActivityRecord(document.ID(), document.MatterID(), cmd.UserID, entities.DocumentActivityCheckedIn, time.Now())
		if recErr != nil {
			uow.Rollback()
			return nil, recErr
		}
		if err := uow.RegisterDocumentActivity(record); err != nil {
			uow.Rollback()
			return nil, err
		}
	}

	if h.cfg.EnableOutboxPublish {
		if err := uow.RegisterEvents(document.GetUncommittedEvents()); err != nil {
			uow.Rollback()
			return nil, err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit check-in: %w", err)
	}
	document.MarkEventsAsCommitted()

	h.logger.Info("Document checked in",
		zap.String("documentID", document.ID().String()),
		zap.Int("revision", revision.Number()),
		zap.String("userID", cmd.UserID),
	)

	return revision, nil
}
