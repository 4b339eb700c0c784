package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/store"
)

// ProfileHandler serves the tuning profile endpoints under /api/profiles.
type ProfileHandler struct {
	store  *store.Store
	routes *http.ServeMux
}

// NewProfileHandler builds the handler and its route table.
func NewProfileHandler(s *store.Store) *ProfileHandler {
	h := &ProfileHandler{store: s, routes: http.NewServeMux()}
	h.routes.HandleFunc("GET /api/profiles", h.list)
	h.routes.HandleFunc("POST /api/profiles", h.create)
	h.routes.HandleFunc("GET /api/profiles/{id}", h.get)
	h.routes.HandleFunc("PUT /api/profiles/{id}", h.update)
	h.routes.HandleFunc("DELETE /api/profiles/{id}", h.delete)
	h.routes.HandleFunc("POST /api/profiles/{id}/activate", h.activate)
	return h
}

// ServeHTTP satisfies http.Handler through the pattern routes.
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.routes.ServeHTTP(w, r)
}

type createProfileRequest struct {
	Name   string          `json:"name"`
	Tuning json.RawMessage `json:"tuning"`
}

type updateProfileRequest struct {
	Name   string          `json:"name"`
	Tuning json.RawMessage `json:"tuning"`
}

type profileResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Tuning    json.RawMessage `json:"tuning"`
	Active    bool            `json:"active"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

type listProfilesResponse struct {
	Profiles []profileResponse `json:"profiles"`
}

func toProfileResponse(p *store.Profile) profileResponse {
	tuning := p.Tuning
	if len(tuning) == 0 {
		tuning = json.RawMessage("{}")
	}
	return profileResponse{
		ID:        p.ID,
		Name:      p.Name,
		Tuning:    tuning,
		Active:    p.Active,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

// validTuning reports whether doc parses as a tuning overlay document.
func validTuning(doc json.RawMessage) bool {
	scratch := config.DefaultTuning()
	return config.ApplyTuningJSON(&scratch, doc) == nil
}

// load fetches the profile for the request's id wildcard. On failure it
// writes the error response and reports false.
func (h *ProfileHandler) load(w http.ResponseWriter, r *http.Request) (*store.Profile, bool) {
	profile, err := h.store.Profiles().GetByID(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
		} else {
			writeError(w, http.StatusInternalServerError, "Failed to get profile")
		}
		return nil, false
	}
	return profile, true
}

// nameAvailable checks that no profile uses name yet. When the name is
// taken, or the lookup fails, it writes the response and reports false.
func (h *ProfileHandler) nameAvailable(w http.ResponseWriter, name string) bool {
	_, err := h.store.Profiles().GetByName(name)
	if err == nil {
		writeError(w, http.StatusConflict, "Profile name already in use")
		return false
	}
	if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "Failed to check profile name")
		return false
	}
	return true
}

func (h *ProfileHandler) list(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.Profiles().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list profiles")
		return
	}

	response := listProfilesResponse{
		Profiles: make([]profileResponse, 0, len(profiles)),
	}
	for _, p := range profiles {
		response.Profiles = append(response.Profiles, toProfileResponse(p))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request) {
	if profile, ok := h.load(w, r); ok {
		writeJSON(w, http.StatusOK, toProfileResponse(profile))
	}
}

// create makes a new profile. Profiles are created inactive; activation
// is a separate call.
func (h *ProfileHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if len(req.Tuning) > 0 && !validTuning(req.Tuning) {
		writeError(w, http.StatusBadRequest, "Invalid tuning document")
		return
	}
	if !h.nameAvailable(w, req.Name) {
		return
	}

	profile := &store.Profile{
		ID:     uuid.New().String(),
		Name:   req.Name,
		Tuning: req.Tuning,
	}
	if err := h.store.Profiles().Create(profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create profile")
		return
	}

	writeJSON(w, http.StatusCreated, toProfileResponse(profile))
}

// update merges the provided fields into an existing profile. A rename
// onto another profile's name is rejected, restating the current name
// is not.
func (h *ProfileHandler) update(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.load(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Name != "" && req.Name != profile.Name {
		if !h.nameAvailable(w, req.Name) {
			return
		}
		profile.Name = req.Name
	}
	if req.Tuning != nil {
		if !validTuning(req.Tuning) {
			writeError(w, http.StatusBadRequest, "Invalid tuning document")
			return
		}
		profile.Tuning = req.Tuning
	}

	if err := h.store.Profiles().Update(profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

// activate marks the profile active and deactivates all others.
func (h *ProfileHandler) activate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.Profiles().SetActive(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to activate profile")
		return
	}

	if profile, ok := h.load(w, r); ok {
		writeJSON(w, http.StatusOK, toProfileResponse(profile))
	}
}

func (h *ProfileHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Profiles().Delete(r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete profile")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
