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
	"lexmatter/domain/events"
	pkgerrors "lexmatter/pkg/errors"
	"lexmatter/pkg/observability"
)

// TransferResult describes a completed transfer
type TransferResult struct {
	TransferID     string
	Operation      events.TransferOperation
	DocumentID     valueobjects.DocumentID
	CopyDocumentID valueobjects.DocumentID
	SourceMatterID valueobjects.MatterID
	DestMatterID   valueobjects.MatterID
	OccurredAt     time.Time
}

// TransferDocumentHandler handles document transfer commands. A transfer
// re-homes a document (move) or creates an independent copy (copy) under the
// destination matter, and writes both sides of the audit pair in the same
// transaction as the document and matter updates.
type TransferDocumentHandler struct {
	documentRepo ports.DocumentRepository
	matterRepo   ports.MatterRepository
	uowFactory   func() ports.UnitOfWork
	lock         ports.DistributedLock
	validator    *validators.TransferValidator
	cfg          *config.DomainConfig
	collector    *observability.Collector
	logger       *zap.Logger
}

// NewTransferDocumentHandler creates a new transfer handler
func NewTransferDocumentHandler(
	documentRepo ports.DocumentRepository,
	matterRepo ports.MatterRepository,
	uowFactory func() ports.UnitOfWork,
	lock ports.DistributedLock,
	cfg *config.DomainConfig,
	collector *observability.Collector,
	logger *zap.Logger,
) *TransferDocumentHandler {
	return &TransferDocumentHandler{
		documentRepo: documentRepo,
		matterRepo:   matterRepo,
		uowFactory:   uowFactory,
		lock:         lock,
		validator:    validators.NewTransferValidatorWithConfig(cfg),
		cfg:          cfg,
		collector:    collector,
		logger:       logger,
	}
}

// Handle executes the transfer command and returns the transfer result
func (h *TransferDocumentHandler) Handle(ctx context.Context, cmd *commands.TransferDocumentCommand) (*TransferResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	documentID, err := valueobjects.NewDocumentIDFromString(cmd.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("invalid document ID: %w", err)
	}
	sourceID, err := valueobjects.NewMatterIDFromString(cmd.SourceMatterID)
	if err != nil {
		return nil, fmt.Errorf("invalid source matter ID: %w", err)
	}
	destID, err := valueobjects.NewMatterIDFromString(cmd.DestMatterID)
	if err != nil {
		return nil, fmt.Errorf("invalid destination matter ID: %w", err)
	}
	operation := events.TransferOperation(cmd.Operation)

	// One transfer per document at a time across all processes.
	release, err := h.lock.Acquire(ctx, "transfer:"+documentID.String(), h.cfg.TransferLockDuration)
	if err != nil {
		return nil, pkgerrors.ErrTransferLocked.WithCause(err)
	}
	defer release()

	document, err := h.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	source, err := h.matterRepo.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	dest, err := h.matterRepo.GetByID(ctx, destID)
	if err != nil {
		return nil, err
	}

	if source.UserID() != cmd.UserID || dest.UserID() != cmd.UserID {
		return nil, pkgerrors.ErrUserNotAuthorized
	}

	destFileNames, err := h.documentRepo.FileNamesByMatterID(ctx, destID)
	if err != nil {
		return nil, fmt.Errorf("failed to list destination file names: %w", err)
	}

	if err := h.validator.ValidateTransfer(document, source, dest, operation, destFileNames); err != nil {
		return nil, err
	}

	occurredAt := time.Now()
	var copyDoc *entities.Document

	switch operation {
	case events.TransferMove:
		if err := document.MoveToMatter(destID, cmd.UserID); err != nil {
			return nil, err
		}
		source.DecrementDocumentCount()
		dest.IncrementDocumentCount()

	case events.TransferCopy:
		copyDoc, err = document.CopyToMatter(destID, cmd.UserID)
		if err != nil {
			return nil, err
		}
		dest.IncrementDocumentCount()
	}

	var copyID valueobjects.DocumentID
	if copyDoc != nil {
		copyID = copyDoc.ID()
	}

	from, to, err := entities.NewTransferRecordPair(
		documentID, copyID, sourceID, destID,
		operation, document.FileName().String(), cmd.UserID, occurredAt,
	)
	if err != nil {
		return nil, err
	}

	// Document state, matter counters, both audit rows and outbox entries
	// land in a single transaction. A failed transfer leaves no trace.
	uow := h.uowFactory()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if operation == events.TransferMove {
		if err := uow.RegisterDocument(document); err != nil {
			uow.Rollback()
			return nil, err
		}
	} else {
		if err := uow.RegisterDocument(copyDoc); err != nil {
			uow.Rollback()
			return nil, err
		}
	}
	if err := uow.RegisterMatter(source); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.RegisterMatter(dest); err != nil {
		uow.Rollback()
		return nil, err
	}
	if h.cfg.EnableAuditTrail {
		if err := uow.RegisterTransferRecords(from, to); err != nil {
			uow.Rollback()
			return nil, err
		}
	}
	if h.cfg.EnableOutboxPublish {
		pending := document.GetUncommittedEvents()
		if copyDoc != nil {
			pending = append(pending, copyDoc.GetUncommittedEvents()...)
		}
		if err := uow.RegisterEvents(pending); err != nil {
			uow.Rollback()
			return nil, err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transfer: %w", err)
	}
	document.MarkEventsAsCommitted()
	if copyDoc != nil {
		copyDoc.MarkEventsAsCommitted()
	}

	h.collector.DocumentTransfers.WithLabelValues(string(operation)).Inc()
	h.logger.Info("Document transferred",
		zap.String("documentID", documentID.String()),
		zap.String("operation", string(operation)),
		zap.String("sourceMatterID", sourceID.String()),
		zap.String("destMatterID", destID.String()),
		zap.String("userID", cmd.UserID),
	)

	return &TransferResult{
		TransferID:     from.TransferID,
		Operation:      operation,
		DocumentID:     documentID,
		CopyDocumentID: copyID,
		SourceMatterID: sourceID,
		DestMatterID:   destID,
		OccurredAt:     occurredAt,
	}, nil
}
