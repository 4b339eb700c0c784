package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/intent"
	"github.com/ayusman/mudra/internal/store"
)

// ActionHandler serves the action binding endpoints under /api/actions.
// A binding ties one intent type to one plugin action.
type ActionHandler struct {
	store  *store.Store
	routes *http.ServeMux
}

// NewActionHandler builds the handler and its route table.
func NewActionHandler(s *store.Store) *ActionHandler {
	h := &ActionHandler{store: s, routes: http.NewServeMux()}
	h.routes.HandleFunc("GET /api/actions", h.list)
	h.routes.HandleFunc("POST /api/actions", h.create)
	h.routes.HandleFunc("GET /api/actions/{id}", h.get)
	h.routes.HandleFunc("PUT /api/actions/{id}", h.update)
	h.routes.HandleFunc("DELETE /api/actions/{id}", h.delete)
	return h
}

// ServeHTTP satisfies http.Handler through the pattern routes.
func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.routes.ServeHTTP(w, r)
}

type createActionRequest struct {
	IntentType string          `json:"intent_type"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Config     json.RawMessage `json:"config"`
}

type updateActionRequest struct {
	IntentType string          `json:"intent_type"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Config     json.RawMessage `json:"config"`
	Enabled    *bool           `json:"enabled"`
}

type actionResponse struct {
	ID         string          `json:"id"`
	IntentType string          `json:"intent_type"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Config     json.RawMessage `json:"config"`
	Enabled    bool            `json:"enabled"`
	CreatedAt  string          `json:"created_at"`
}

type listActionsResponse struct {
	Actions []actionResponse `json:"actions"`
}

func toActionResponse(a *store.Action) actionResponse {
	config := a.Config
	if config == nil {
		config = json.RawMessage("{}")
	}
	return actionResponse{
		ID:         a.ID,
		IntentType: a.IntentType,
		PluginName: a.PluginName,
		ActionName: a.ActionName,
		Config:     config,
		Enabled:    a.Enabled,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
}

// load fetches the action for the request's id wildcard. On failure it
// writes the error response and reports false.
func (h *ActionHandler) load(w http.ResponseWriter, r *http.Request) (*store.Action, bool) {
	action, err := h.store.Actions().GetByID(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Action not found")
		} else {
			writeError(w, http.StatusInternalServerError, "Failed to get action")
		}
		return nil, false
	}
	return action, true
}

// intentFree checks that intentType parses and is not already bound to
// an action other than selfID. When it is not usable, it writes the
// response and reports false. A blank selfID means any binding blocks.
func (h *ActionHandler) intentFree(w http.ResponseWriter, intentType, selfID string) bool {
	if !intent.Type(intentType).Valid() {
		writeError(w, http.StatusBadRequest, "Unknown intent type")
		return false
	}
	existing, err := h.store.Actions().GetByIntentType(intentType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check existing action")
		return false
	}
	if existing != nil && existing.ID != selfID {
		writeError(w, http.StatusConflict, "Action already bound to this intent type")
		return false
	}
	return true
}

func (h *ActionHandler) list(w http.ResponseWriter, r *http.Request) {
	actions, err := h.store.Actions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list actions")
		return
	}

	response := listActionsResponse{
		Actions: make([]actionResponse, 0, len(actions)),
	}
	for _, a := range actions {
		response.Actions = append(response.Actions, toActionResponse(a))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *ActionHandler) get(w http.ResponseWriter, r *http.Request) {
	if action, ok := h.load(w, r); ok {
		writeJSON(w, http.StatusOK, toActionResponse(action))
	}
}

// create makes a new binding. New bindings start enabled.
func (h *ActionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createActionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	for _, field := range []struct{ value, name string }{
		{req.IntentType, "intent_type"},
		{req.PluginName, "plugin_name"},
		{req.ActionName, "action_name"},
	} {
		if field.value == "" {
			writeError(w, http.StatusBadRequest, field.name+" is required")
			return
		}
	}
	if !h.intentFree(w, req.IntentType, "") {
		return
	}

	config := req.Config
	if config == nil {
		config = json.RawMessage("{}")
	}

	action := &store.Action{
		ID:         uuid.New().String(),
		IntentType: req.IntentType,
		PluginName: req.PluginName,
		ActionName: req.ActionName,
		Config:     config,
		Enabled:    true,
	}
	if err := h.store.Actions().Create(action); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create action")
		return
	}

	writeJSON(w, http.StatusCreated, toActionResponse(action))
}

// update merges the provided fields into an existing binding. Rebinding
// must not stack two actions on one intent.
func (h *ActionHandler) update(w http.ResponseWriter, r *http.Request) {
	action, ok := h.load(w, r)
	if !ok {
		return
	}

	var req updateActionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.IntentType != "" {
		if !h.intentFree(w, req.IntentType, action.ID) {
			return
		}
		action.IntentType = req.IntentType
	}
	if req.PluginName != "" {
		action.PluginName = req.PluginName
	}
	if req.ActionName != "" {
		action.ActionName = req.ActionName
	}
	if req.Config != nil {
		action.Config = req.Config
	}
	if req.Enabled != nil {
		action.Enabled = *req.Enabled
	}

	if err := h.store.Actions().Update(action); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update action")
		return
	}

	writeJSON(w, http.StatusOK, toActionResponse(action))
}

func (h *ActionHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Actions().Delete(r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Action not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete action")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
