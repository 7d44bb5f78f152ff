package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"lexmatter/application/queries"
	querybus "lexmatter/application/queries/bus"
	"lexmatter/pkg/auth"
	"lexmatter/pkg/common"
	pkgerrors "lexmatter/pkg/errors"
)

// AuditHandler serves the activity and transfer trails
type AuditHandler struct {
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(queryBus *querybus.QueryBus, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		queryBus:     queryBus,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// MatterAudit handles GET /matters/{matterID}/audit
func (h *AuditHandler) MatterAudit(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := common.ExtractPaginationParams(r)
	result, err := h.queryBus.Ask(r.Context(), queries.MatterAuditQuery{
		UserID:   user.UserID,
		MatterID: pathParam(r, "matterID"),
		Page:     params.Page,
		PageSize: params.PageSize,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// DocumentAudit handles GET /documents/{documentID}/audit
func (h *AuditHandler) DocumentAudit(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := common.ExtractPaginationParams(r)
	result, err := h.queryBus.Ask(r.Context(), queries.DocumentAuditQuery{
		UserID:     user.UserID,
		DocumentID: pathParam(r, "documentID"),
		Page:       params.Page,
		PageSize:   params.PageSize,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// MatterTransfers handles GET /matters/{matterID}/transfers
func (h *AuditHandler) MatterTransfers(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := common.ExtractPaginationParams(r)
	result, err := h.queryBus.Ask(r.Context(), queries.MatterTransfersQuery{
		UserID:    user.UserID,
		MatterID:  pathParam(r, "matterID"),
		Direction: r.URL.Query().Get("direction"),
		Page:      params.Page,
		PageSize:  params.PageSize,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// DocumentTransfers handles GET /documents/{documentID}/transfers
func (h *AuditHandler) DocumentTransfers(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := common.ExtractPaginationParams(r)
	result, err := h.queryBus.Ask(r.Context(), queries.DocumentTransfersQuery{
		UserID:     user.UserID,
		DocumentID: pathParam(r, "documentID"),
		Page:       params.Page,
		PageSize:   params.PageSize,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
