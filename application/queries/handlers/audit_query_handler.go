package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"lexmatter/application/ports"
	"lexmatter/application/queries"
	"lexmatter/application/queries/bus"
	"lexmatter/domain/core/entities"
	"lexmatter/domain/core/valueobjects"
	pkgerrors "lexmatter/pkg/errors"
)

// AuditQueryHandler serves audit trail and transfer history queries. It is
// registered on the query bus for MatterAuditQuery, DocumentAuditQuery,
// MatterTransfersQuery and DocumentTransfersQuery.
type AuditQueryHandler struct {
	auditStore   ports.AuditStore
	matterRepo   ports.MatterRepository
	documentRepo ports.DocumentRepository
	logger       *zap.Logger
}

// NewAuditQueryHandler creates a new audit query handler
func NewAuditQueryHandler(
	auditStore ports.AuditStore,
	matterRepo ports.MatterRepository,
	documentRepo ports.DocumentRepository,
	logger *zap.Logger,
) *AuditQueryHandler {
	return &AuditQueryHandler{
		auditStore:   auditStore,
		matterRepo:   matterRepo,
		documentRepo: documentRepo,
		logger:       logger,
	}
}

// Handle dispatches on the concrete query type
func (h *AuditQueryHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	switch q := query.(type) {
	case queries.MatterAuditQuery:
		return h.matterAudit(ctx, q)
	case queries.DocumentAuditQuery:
		return h.documentAudit(ctx, q)
	case queries.MatterTransfersQuery:
		return h.matterTransfers(ctx, q)
	case queries.DocumentTransfersQuery:
		return h.documentTransfers(ctx, q)
	default:
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
}

func (h *AuditQueryHandler) matterAudit(ctx context.Context, q queries.MatterAuditQuery) (interface{}, error) {
	matterID, err := h.authorizeMatter(ctx, q.MatterID, q.UserID)
	if err != nil {
		return nil, err
	}

	filter := ports.ListFilter{
		Limit:  q.PageSize,
		Offset: (q.Page - 1) * q.PageSize,
	}
	records, err := h.auditStore.MatterActivity(ctx, matterID, filter)
	if err != nil {
		return nil, err
	}

	entries := make([]queries.ActivityEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, queries.NewMatterActivityEntry(record))
	}

	return &queries.ActivityTrailResult{Entries: entries, Page: q.Page, PageSize: q.PageSize}, nil
}

func (h *AuditQueryHandler) documentAudit(ctx context.Context, q queries.DocumentAuditQuery) (interface{}, error) {
	documentID, err := h.authorizeDocument(ctx, q.DocumentID, q.UserID)
	if err != nil {
		return nil, err
	}

	filter := ports.ListFilter{
		Limit:  q.PageSize,
		Offset: (q.Page - 1) * q.PageSize,
	}
	records, err := h.auditStore.DocumentActivity(ctx, documentID, filter)
	if err != nil {
		return nil, err
	}

	entries := make([]queries.ActivityEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, queries.NewDocumentActivityEntry(record))
	}

	return &queries.ActivityTrailResult{Entries: entries, Page: q.Page, PageSize: q.PageSize}, nil
}

func (h *AuditQueryHandler) matterTransfers(ctx context.Context, q queries.MatterTransfersQuery) (interface{}, error) {
	matterID, err := h.authorizeMatter(ctx, q.MatterID, q.UserID)
	if err != nil {
		return nil, err
	}

	filter := ports.ListFilter{
		Limit:  q.PageSize,
		Offset: (q.Page - 1) * q.PageSize,
	}
	records, err := h.auditStore.TransfersByMatter(ctx, matterID, entities.TransferDirection(q.Direction), filter)
	if err != nil {
		return nil, err
	}

	transfers := make([]queries.TransferEntry, 0, len(records))
	for _, record := range records {
		transfers = append(transfers, queries.NewTransferEntry(record))
	}

	return &queries.TransferHistoryResult{Transfers: transfers, Page: q.Page, PageSize: q.PageSize}, nil
}

func (h *AuditQueryHandler) documentTransfers(ctx context.Context, q queries.DocumentTransfersQuery) (interface{}, error) {
	documentID, err := h.authorizeDocument(ctx, q.DocumentID, q.UserID)
	if err != nil {
		return nil, err
	}

	filter := ports.ListFilter{
		Limit:  q.PageSize,
		Offset: (q.Page - 1) * q.PageSize,
	}
	records, err := h.auditStore.TransfersByDocument(ctx, documentID, filter)
	if err != nil {
		return nil, err
	}

	transfers := make([]queries.TransferEntry, 0, len(records))
	for _, record := range records {
		transfers = append(transfers, queries.NewTransferEntry(record))
	}

	return &queries.TransferHistoryResult{Transfers: transfers, Page: q.Page, PageSize: q.PageSize}, nil
}

func (h *AuditQueryHandler) authorizeMatter(ctx context.Context, matterID, userID string) (valueobjects.MatterID, error) {
	id, err := valueobjects.NewMatterIDFromString(matterID)
	if err != nil {
		return valueobjects.MatterID{}, fmt.Errorf("invalid matter ID: %w", err)
	}

	matter, err := h.matterRepo.GetByID(ctx, id)
	if err != nil {
		return valueobjects.MatterID{}, err
	}
	if matter.UserID() != userID {
		return valueobjects.MatterID{}, pkgerrors.ErrUserNotAuthorized
	}

	return id, nil
}

func (h *AuditQueryHandler) authorizeDocument(ctx context.Context, documentID, userID string) (valueobjects.DocumentID, error) {
	id, err := valueobjects.NewDocumentIDFromString(documentID)
	if err != nil {
		return valueobjects.DocumentID{}, fmt.Errorf("invalid document ID: %w", err)
	}

	document, err := h.documentRepo.GetByID(ctx, id)
	if err != nil {
		return valueobjects.DocumentID{}, err
	}

	matter, err := h.matterRepo.GetByID(ctx, document.MatterID())
	if err != nil {
		return valueobjects.DocumentID{}, err
	}
	if matter.UserID() != userID {
		return valueobjects.DocumentID{}, pkgerrors.ErrUserNotAuthorized
	}

	return id, nil
}
