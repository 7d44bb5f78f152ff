package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"lexmatter/application/commands"
	cmdhandlers "lexmatter/application/commands/handlers"
	"lexmatter/pkg/auth"
	"lexmatter/pkg/common"
	pkgerrors "lexmatter/pkg/errors"
	"lexmatter/pkg/observability"
	"lexmatter/pkg/utils"
)

// TransferHandler handles document transfer HTTP requests
type TransferHandler struct {
	transferHandler *cmdhandlers.TransferDocumentHandler
	errorHandler    *pkgerrors.ErrorHandler
	metrics         *observability.Metrics
	logger          *zap.Logger
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(
	transferHandler *cmdhandlers.TransferDocumentHandler,
	errorHandler *pkgerrors.ErrorHandler,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *TransferHandler {
	return &TransferHandler{
		transferHandler: transferHandler,
		errorHandler:    errorHandler,
		metrics:         metrics,
		logger:          logger,
	}
}

// TransferRequest represents the request body for moving or copying a
// document between matters
type TransferRequest struct {
	DocumentID     string `json:"documentId"`
	SourceMatterID string `json:"sourceMatterId"`
	DestMatterID   string `json:"destMatterId"`
	Operation      string `json:"operation"`
}

// TransferResponse represents the outcome of a transfer
type TransferResponse struct {
	TransferID     string `json:"transferId"`
	Operation      string `json:"operation"`
	DocumentID     string `json:"documentId"`
	CopyDocumentID string `json:"copyDocumentId,omitempty"`
	SourceMatterID string `json:"sourceMatterId"`
	DestMatterID   string `json:"destMatterId"`
	OccurredAt     string `json:"occurredAt"`
}

// Transfer handles POST /transfers
func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req TransferRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := &commands.TransferDocumentCommand{
		DocumentID:     req.DocumentID,
		SourceMatterID: req.SourceMatterID,
		DestMatterID:   req.DestMatterID,
		Operation:      req.Operation,
		UserID:         user.UserID,
	}
	if err := cmd.Validate(); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.transferHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.metrics.Count(r.Context(), "TransferFailed", 1, map[string]string{"operation": req.Operation})
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.metrics.Count(r.Context(), "TransferCompleted", 1, map[string]string{"operation": req.Operation})

	resp := TransferResponse{
		TransferID:     result.TransferID,
		Operation:      string(result.Operation),
		DocumentID:     result.DocumentID.String(),
		SourceMatterID: result.SourceMatterID.String(),
		DestMatterID:   result.DestMatterID.String(),
		OccurredAt:     utils.FormatRFC3339(result.OccurredAt),
	}
	if !result.CopyDocumentID.IsZero() {
		resp.CopyDocumentID = result.CopyDocumentID.String()
	}

	common.RespondJSON(w, http.StatusOK, resp)
}
