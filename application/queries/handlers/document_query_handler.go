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
	"lexmatter/pkg/common"
	pkgerrors "lexmatter/pkg/errors"
)

// DocumentQueryHandler serves document read queries. It is registered on the
// query bus for GetDocumentQuery, ListDocumentsQuery and ListRevisionsQuery.
type DocumentQueryHandler struct {
	documentRepo ports.DocumentRepository
	matterRepo   ports.MatterRepository
	revisionRepo ports.RevisionRepository
	logger       *zap.Logger
}

// NewDocumentQueryHandler creates a new document query handler
func NewDocumentQueryHandler(
	documentRepo ports.DocumentRepository,
	matterRepo ports.MatterRepository,
	revisionRepo ports.RevisionRepository,
	logger *zap.Logger,
) *DocumentQueryHandler {
	return &DocumentQueryHandler{
		documentRepo: documentRepo,
		matterRepo:   matterRepo,
		revisionRepo: revisionRepo,
		logger:       logger,
	}
}

// Handle dispatches on the concrete query type
func (h *DocumentQueryHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	switch q := query.(type) {
	case queries.GetDocumentQuery:
		return h.getDocument(ctx, q)
	case queries.ListDocumentsQuery:
		return h.listDocuments(ctx, q)
	case queries.ListRevisionsQuery:
		return h.listRevisions(ctx, q)
	default:
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
}

func (h *DocumentQueryHandler) getDocument(ctx context.Context, q queries.GetDocumentQuery) (interface{}, error) {
	document, err := h.loadAuthorized(ctx, q.DocumentID, q.UserID)
	if err != nil {
		return nil, err
	}

	result := queries.NewDocumentResult(document)
	return &result, nil
}

func (h *DocumentQueryHandler) listDocuments(ctx context.Context, q queries.ListDocumentsQuery) (interface{}, error) {
	matterID, err := valueobjects.NewMatterIDFromString(q.MatterID)
	if err != nil {
		return nil, fmt.Errorf("invalid matter ID: %w", err)
	}

	matter, err := h.matterRepo.GetByID(ctx, matterID)
	if err != nil {
		return nil, err
	}
	if matter.UserID() != q.UserID {
		return nil, pkgerrors.ErrUserNotAuthorized
	}

	filter := ports.ListFilter{
		IncludeDeleted: q.IncludeDeleted,
		Query:          q.Query,
		OrderBy:        q.SortBy,
		OrderDesc:      q.SortDesc,
	}
	documents, err := h.documentRepo.GetByMatterID(ctx, matterID, filter)
	if err != nil {
		return nil, err
	}

	params := common.PaginationParams{Page: q.Page, PageSize: q.PageSize}
	start, end := params.PageSlice(len(documents))

	results := make([]queries.DocumentResult, 0, end-start)
	for _, document := range documents[start:end] {
		results = append(results, queries.NewDocumentResult(document))
	}

	return &queries.ListDocumentsResult{
		Documents:  results,
		TotalCount: len(documents),
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}

func (h *DocumentQueryHandler) listRevisions(ctx context.Context, q queries.ListRevisionsQuery) (interface{}, error) {
	document, err := h.loadAuthorized(ctx, q.DocumentID, q.UserID)
	if err != nil {
		return nil, err
	}

	revisions, err := h.revisionRepo.GetByDocumentID(ctx, document.ID())
	if err != nil {
		return nil, err
	}

	results := make([]queries.RevisionResult, 0, len(revisions))
	for _, revision := range revisions {
		results = append(results, queries.NewRevisionResult(revision))
	}

	return &queries.ListRevisionsResult{Revisions: results}, nil
}

func (h *DocumentQueryHandler) loadAuthorized(ctx context.Context, documentID, userID string) (*entities.Document, error) {
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

	return document, nil
}
