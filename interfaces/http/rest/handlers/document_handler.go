package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"lexmatter/application/commands"
	"lexmatter/application/commands/bus"
	cmdhandlers "lexmatter/application/commands/handlers"
	"lexmatter/application/queries"
	querybus "lexmatter/application/queries/bus"
	"lexmatter/pkg/auth"
	"lexmatter/pkg/common"
	pkgerrors "lexmatter/pkg/errors"
)

// DocumentHandler handles document-related HTTP requests
type DocumentHandler struct {
	createHandler  *cmdhandlers.CreateDocumentHandler
	renameHandler  *cmdhandlers.RenameDocumentHandler
	checkInHandler *cmdhandlers.CheckInDocumentHandler
	commandBus     *bus.CommandBus
	queryBus       *querybus.QueryBus
	errorHandler   *pkgerrors.ErrorHandler
	logger         *zap.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(
	createHandler *cmdhandlers.CreateDocumentHandler,
	renameHandler *cmdhandlers.RenameDocumentHandler,
	checkInHandler *cmdhandlers.CheckInDocumentHandler,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		createHandler:  createHandler,
		renameHandler:  renameHandler,
		checkInHandler: checkInHandler,
		commandBus:     commandBus,
		queryBus:       queryBus,
		errorHandler:   errorHandler,
		logger:         logger,
	}
}

// CreateDocumentRequest represents the request body for filing a document
type CreateDocumentRequest struct {
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	Checksum string `json:"checksum,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// RenameDocumentRequest represents the request body for renaming a document
type RenameDocumentRequest struct {
	FileName string `json:"fileName"`
}

// CheckInRequest represents the request body for checking a document in
type CheckInRequest struct {
	FileSize int64  `json:"fileSize"`
	Checksum string `json:"checksum,omitempty"`
}

// CreateDocument handles POST /matters/{matterID}/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateDocumentRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := &commands.CreateDocumentCommand{
		MatterID: pathParam(r, "matterID"),
		UserID:   user.UserID,
		FileName: req.FileName,
		FileSize: req.FileSize,
		Checksum: req.Checksum,
		MimeType: req.MimeType,
	}
	if err := cmd.Validate(); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, err.Error())
		return
	}

	document, err := h.createHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, queries.NewDocumentResult(document))
}

// GetDocument handles GET /documents/{documentID}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetDocumentQuery{
		UserID:     user.UserID,
		DocumentID: pathParam(r, "documentID"),
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// ListDocuments handles GET /matters/{matterID}/documents
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := common.ExtractPaginationParams(r)
	q := r.URL.Query()

	result, err := h.queryBus.Ask(r.Context(), queries.ListDocumentsQuery{
		UserID:         user.UserID,
		MatterID:       pathParam(r, "matterID"),
		Query:          q.Get("query"),
		IncludeDeleted: q.Get("includeDeleted") == "true",
		Page:           params.Page,
		PageSize:       params.PageSize,
		SortBy:         params.Sort,
		SortDesc:       params.Order == "desc",
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// ListRevisions handles GET /documents/{documentID}/revisions
func (h *DocumentHandler) ListRevisions(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListRevisionsQuery{
		UserID:     user.UserID,
		DocumentID: pathParam(r, "documentID"),
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// RenameDocument handles PUT /documents/{documentID}/name
func (h *DocumentHandler) RenameDocument(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req RenameDocumentRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := &commands.RenameDocumentCommand{
		DocumentID: pathParam(r, "documentID"),
		UserID:     user.UserID,
		FileName:   req.FileName,
	}
	if err := cmd.Validate(); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, err.Error())
		return
	}

	document, err := h.renameHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, queries.NewDocumentResult(document))
}

// CheckOutDocument handles POST /documents/{documentID}/checkout
func (h *DocumentHandler) CheckOutDocument(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	documentID := pathParam(r, "documentID")
	err = h.commandBus.Send(r.Context(), &commands.CheckOutDocumentCommand{
		DocumentID: documentID,
		UserID:     user.UserID,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"documentId":   documentID,
		"checkedOutBy": user.UserID,
	})
}

// CancelCheckOut handles DELETE /documents/{documentID}/checkout
func (h *DocumentHandler) CancelCheckOut(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	documentID := pathParam(r, "documentID")
	err = h.commandBus.Send(r.Context(), &commands.CancelCheckOutCommand{
		DocumentID: documentID,
		UserID:     user.UserID,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"documentId": documentID,
	})
}

// CheckInDocument handles POST /documents/{documentID}/checkin
func (h *DocumentHandler) CheckInDocument(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CheckInRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := &commands.CheckInDocumentCommand{
		DocumentID: pathParam(r, "documentID"),
		UserID:     user.UserID,
		FileSize:   req.FileSize,
		Checksum:   req.Checksum,
	}
	if err := cmd.Validate(); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, err.Error())
		return
	}

	revision, err := h.checkInHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, queries.NewRevisionResult(revision))
}

// DeleteDocument handles DELETE /documents/{documentID}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	h.changeState(w, r, commands.DocumentActionDelete)
}

// RestoreDocument handles POST /documents/{documentID}/restore
func (h *DocumentHandler) RestoreDocument(w http.ResponseWriter, r *http.Request) {
	h.changeState(w, r, commands.DocumentActionRestore)
}

func (h *DocumentHandler) changeState(w http.ResponseWriter, r *http.Request, action commands.DocumentLifecycleAction) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	documentID := pathParam(r, "documentID")
	err = h.commandBus.Send(r.Context(), &commands.ChangeDocumentStateCommand{
		DocumentID: documentID,
		UserID:     user.UserID,
		Action:     action,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"documentId": documentID,
		"action":     string(action),
	})
}
