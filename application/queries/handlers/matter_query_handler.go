package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"lexmatter/application/ports"
	"lexmatter/application/queries"
	"lexmatter/application/queries/bus"
	"lexmatter/domain/core/valueobjects"
	"lexmatter/pkg/common"
	pkgerrors "lexmatter/pkg/errors"
)

// MatterQueryHandler serves matter read queries. It is registered on the
// query bus for GetMatterQuery and ListMattersQuery.
type MatterQueryHandler struct {
	matterRepo ports.MatterRepository
	logger     *zap.Logger
}

// NewMatterQueryHandler creates a new matter query handler
func NewMatterQueryHandler(matterRepo ports.MatterRepository, logger *zap.Logger) *MatterQueryHandler {
	return &MatterQueryHandler{
		matterRepo: matterRepo,
		logger:     logger,
	}
}

// Handle dispatches on the concrete query type
func (h *MatterQueryHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	switch q := query.(type) {
	case queries.GetMatterQuery:
		return h.getMatter(ctx, q)
	case queries.ListMattersQuery:
		return h.listMatters(ctx, q)
	default:
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
}

func (h *MatterQueryHandler) getMatter(ctx context.Context, q queries.GetMatterQuery) (interface{}, error) {
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

	result := queries.NewMatterResult(matter)
	return &result, nil
}

func (h *MatterQueryHandler) listMatters(ctx context.Context, q queries.ListMattersQuery) (interface{}, error) {
	filter := ports.ListFilter{
		IncludeArchived: q.IncludeArchived,
		IncludeDeleted:  q.IncludeDeleted,
		Query:           q.Query,
		OrderBy:         q.SortBy,
		OrderDesc:       q.SortDesc,
	}

	matters, err := h.matterRepo.GetByUserID(ctx, q.UserID, filter)
	if err != nil {
		return nil, err
	}

	params := common.PaginationParams{Page: q.Page, PageSize: q.PageSize}
	start, end := params.PageSlice(len(matters))

	results := make([]queries.MatterResult, 0, end-start)
	for _, matter := range matters[start:end] {
		results = append(results, queries.NewMatterResult(matter))
	}

	return &queries.ListMattersResult{
		Matters:    results,
		TotalCount: len(matters),
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}
