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

const maxBodyBytes = 1 << 20

// MatterHandler handles matter-related HTTP requests
type MatterHandler struct {
	createHandler *cmdhandlers.CreateMatterHandler
	updateHandler *cmdhandlers.UpdateMatterHandler
	commandBus    *bus.CommandBus
	queryBus      *querybus.QueryBus
	errorHandler  *pkgerrors.ErrorHandler
	logger        *zap.Logger
}

// NewMatterHandler creates a new matter handler
func NewMatterHandler(
	createHandler *cmdhandlers.CreateMatterHandler,
	updateHandler *cmdhandlers.UpdateMatterHandler,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *MatterHandler {
	return &MatterHandler{
		createHandler: createHandler,
		updateHandler: updateHandler,
		commandBus:    commandBus,
		queryBus:      queryBus,
		errorHandler:  errorHandler,
		logger:        logger,
	}
}

// CreateMatterRequest represents the request body for opening a matter
type CreateMatterRequest struct {
	Number      string `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ClientName  string `json:"clientName,omitempty"`
}

// UpdateMatterRequest represents the request body for updating a matter
type UpdateMatterRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ClientName  string `json:"clientName,omitempty"`
}

// CreateMatter handles POST /matters
func (h *MatterHandler) CreateMatter(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateMatterRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := &commands.CreateMatterCommand{
		UserID:      user.UserID,
		Number:      req.Number,
		Title:       req.Title,
		Description: req.Description,
		ClientName:  req.ClientName,
	}
	if err := cmd.Validate(); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, err.Error())
		return
	}

	matter, err := h.createHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, queries.NewMatterResult(matter))
}

// GetMatter handles GET /matters/{matterID}
func (h *MatterHandler) GetMatter(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetMatterQuery{
		UserID:   user.UserID,
		MatterID: pathParam(r, "matterID"),
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// ListMatters handles GET /matters
func (h *MatterHandler) ListMatters(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := common.ExtractPaginationParams(r)
	q := r.URL.Query()

	result, err := h.queryBus.Ask(r.Context(), queries.ListMattersQuery{
		UserID:          user.UserID,
		Query:           q.Get("query"),
		IncludeArchived: q.Get("includeArchived") == "true",
		IncludeDeleted:  q.Get("includeDeleted") == "true",
		Page:            params.Page,
		PageSize:        params.PageSize,
		SortBy:          params.Sort,
		SortDesc:        params.Order == "desc",
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// UpdateMatter handles PUT /matters/{matterID}
func (h *MatterHandler) UpdateMatter(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req UpdateMatterRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := &commands.UpdateMatterCommand{
		MatterID:    pathParam(r, "matterID"),
		UserID:      user.UserID,
		Title:       req.Title,
		Description: req.Description,
		ClientName:  req.ClientName,
	}
	if err := cmd.Validate(); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, err.Error())
		return
	}

	matter, err := h.updateHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, queries.NewMatterResult(matter))
}

// ArchiveMatter handles POST /matters/{matterID}/archive
func (h *MatterHandler) ArchiveMatter(w http.ResponseWriter, r *http.Request) {
	h.changeState(w, r, commands.MatterActionArchive)
}

// UnarchiveMatter handles POST /matters/{matterID}/unarchive
func (h *MatterHandler) UnarchiveMatter(w http.ResponseWriter, r *http.Request) {
	h.changeState(w, r, commands.MatterActionUnarchive)
}

// DeleteMatter handles DELETE /matters/{matterID}
func (h *MatterHandler) DeleteMatter(w http.ResponseWriter, r *http.Request) {
	h.changeState(w, r, commands.MatterActionDelete)
}

// RestoreMatter handles POST /matters/{matterID}/restore
func (h *MatterHandler) RestoreMatter(w http.ResponseWriter, r *http.Request) {
	h.changeState(w, r, commands.MatterActionRestore)
}

func (h *MatterHandler) changeState(w http.ResponseWriter, r *http.Request, action commands.MatterLifecycleAction) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	err = h.commandBus.Send(r.Context(), &commands.ChangeMatterStateCommand{
		MatterID: pathParam(r, "matterID"),
		UserID:   user.UserID,
		Action:   action,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"matterId": pathParam(r, "matterID"),
		"action":   string(action),
	})
}
