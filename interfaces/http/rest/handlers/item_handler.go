package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"studyforge/application/commands"
	"studyforge/application/commands/bus"
	"studyforge/application/queries"
	querybus "studyforge/application/queries/bus"
	"studyforge/pkg/common"
	pkgerrors "studyforge/pkg/errors"
	"studyforge/pkg/utils"
)

const maxRequestBytes = 4 * 1024

// ItemHandler handles item endpoints
type ItemHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// CreateItemRequest is the create item request body
type CreateItemRequest struct {
	Category string `json:"category" validate:"required,min=1,max=64"`
}

// CreateItem handles POST /items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := common.ParseJSONBody(r, &req, maxRequestBytes); err != nil {
		common.RespondAppError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	now := time.Now()
	cmd := commands.CreateItemCommand{Category: req.Category, At: now}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}

	// Read the created item back through the query side
	result, err := h.queryBus.Ask(r.Context(), queries.GetItemQuery{ItemID: req.Category, At: now})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, result)
}

// GetItem handles GET /items/{itemID}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")

	result, err := h.queryBus.Ask(r.Context(), queries.GetItemQuery{ItemID: itemID, At: time.Now()})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// ListItems handles GET /items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListItemsQuery{At: time.Now()})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
