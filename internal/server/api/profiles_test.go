package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/mudra/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "mudra-api-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestProfileHandler_List(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfileHandler(s)

	// Create a profile in the store
	profile := &store.Profile{
		ID:     "test-profile-1",
		Name:   "precise",
		Tuning: json.RawMessage(`{"grab_radius": 0.2}`),
	}
	if err := s.Profiles().Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	// Make a GET request to list profiles
	req := httptest.NewRequest(http.MethodGet, "/api/profiles", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	// Verify response
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	contentType := rec.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	var response listProfilesResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Profiles) != 1 {
		t.Errorf("expected 1 profile, got %d", len(response.Profiles))
	}

	if response.Profiles[0].ID != "test-profile-1" {
		t.Errorf("expected profile ID 'test-profile-1', got %q", response.Profiles[0].ID)
	}

	if response.Profiles[0].Name != "precise" {
		t.Errorf("expected profile name 'precise', got %q", response.Profiles[0].Name)
	}
}

func TestProfileHandler_Create(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfileHandler(s)

	// Create request body with a tuning overlay
	reqBody := createProfileRequest{
		Name:   "relaxed",
		Tuning: json.RawMessage(`{"smoother": {"alpha": 0.4}, "grab_radius": 0.3}`),
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	// Make a POST request to create the profile
	req := httptest.NewRequest(http.MethodPost, "/api/profiles", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	// Verify response
	if rec.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var response profileResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.ID == "" {
		t.Error("expected non-empty ID in response")
	}

	if response.Name != "relaxed" {
		t.Errorf("expected name 'relaxed', got %q", response.Name)
	}

	if response.Active {
		t.Error("expected new profile to be inactive")
	}

	// Verify the profile was persisted in the store
	created, err := s.Profiles().GetByID(response.ID)
	if err != nil {
		t.Fatalf("failed to get created profile: %v", err)
	}

	if created.Name != "relaxed" {
		t.Errorf("stored profile name mismatch: got %q, want 'relaxed'", created.Name)
	}
}

func TestProfileHandler_Create_InvalidJSON(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfileHandler(s)

	req := httptest.NewRequest(http.MethodPost, "/api/profiles", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestProfileHandler_Create_MissingName(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfileHandler(s)

	body, _ := json.Marshal(createProfileRequest{
		Tuning: json.RawMessage(`{}`),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/profiles", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestProfileHandler_Create_InvalidTuning(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfileHandler(s)

	// Tuning document with the wrong shape for a known key
	body := []byte(`{"name": "broken", "tuning": {"smoother": {"alpha": "fast"}}}`)

	req := httptest.NewRequest(http.MethodPost, "/api/profiles", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d: %s", http.StatusBadRequest, rec.Code, rec.Body.String())
	}
}

func TestProfileHandler_Create_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfileHandler(s)

	profile := &store.Profile{ID: "test-profile-1", Name: "precise"}
	if err := s.Profiles().Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	body, _ := json.Marshal(createProfileRequest{Name: "precise"})

	req := httptest.NewRequest(http.MethodPost, "/api/profiles", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestProfileHandler_Get(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfileHandler(s)

	profile := &store.Profile{
		ID:     "test-profile-1",
		Name:   "precise",
		Tuning: json.RawMessage(`{"grab_radius": 0.2}`),
	}
	if err := s.Profiles().Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/profiles/test-profile-1", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response profileResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.ID != "test-profile-1" {
		t.Errorf("expected ID 'test-profile-1', got %q", response.ID)
	}

	if response.Name != "precise" {
		t.Errorf("expected name 'precise', got %q", response.Name)
	}
}

func TestProfileHandler_Get_NotFound(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfileHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/profiles/non-existent", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestProfileHandler_Update(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfileHandler(s)

	profile := &store.Profile{
		ID:     "test-profile-1",
		Name:   "precise",
		Tuning: json.RawMessage(`{"grab_radius": 0.2}`),
	}
	if err := s.Profiles().Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	updateReq := updateProfileRequest{
		Name:   "precise-v2",
		Tuning: json.RawMessage(`{"grab_radius": 0.25}`),
	}
	body, _ := json.Marshal(updateReq)

	req := httptest.NewRequest(http.MethodPut, "/api/profiles/test-profile-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var response profileResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Name != "precise-v2" {
		t.Errorf("expected name 'precise-v2', got %q", response.Name)
	}

	// Verify the update was persisted
	updated, _ := s.Profiles().GetByID("test-profile-1")
	if updated.Name != "precise-v2" {
		t.Errorf("stored profile name not updated: got %q", updated.Name)
	}
}

func TestProfileHandler_Update_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfileHandler(s)

	for _, p := range []*store.Profile{
		{ID: "test-profile-1", Name: "precise"},
		{ID: "test-profile-2", Name: "relaxed"},
	} {
		if err := s.Profiles().Create(p); err != nil {
			t.Fatalf("failed to create profile %s: %v", p.ID, err)
		}
	}

	// Renaming onto another profile's name must fail
	body, _ := json.Marshal(updateProfileRequest{Name: "relaxed"})
	req := httptest.NewRequest(http.MethodPut, "/api/profiles/test-profile-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d: %s", http.StatusConflict, rec.Code, rec.Body.String())
	}

	// Restating a profile's own name is not a conflict
	body, _ = json.Marshal(updateProfileRequest{Name: "precise", Tuning: json.RawMessage(`{"grab_radius": 0.3}`)})
	req = httptest.NewRequest(http.MethodPut, "/api/profiles/test-profile-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestProfileHandler_Activate(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfileHandler(s)

	first := &store.Profile{ID: "test-profile-1", Name: "precise", Active: true}
	second := &store.Profile{ID: "test-profile-2", Name: "relaxed"}
	if err := s.Profiles().Create(first); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	if err := s.Profiles().Create(second); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/profiles/test-profile-2/activate", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var response profileResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !response.Active {
		t.Error("expected activated profile to be active in response")
	}

	// The previously active profile must be deactivated
	old, err := s.Profiles().GetByID("test-profile-1")
	if err != nil {
		t.Fatalf("failed to get profile: %v", err)
	}
	if old.Active {
		t.Error("expected previously active profile to be deactivated")
	}

	active, err := s.Profiles().GetActive()
	if err != nil {
		t.Fatalf("failed to get active profile: %v", err)
	}
	if active == nil || active.ID != "test-profile-2" {
		t.Errorf("expected active profile 'test-profile-2', got %+v", active)
	}
}

func TestProfileHandler_Activate_NotFound(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfileHandler(s)

	req := httptest.NewRequest(http.MethodPost, "/api/profiles/non-existent/activate", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestProfileHandler_Delete(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfileHandler(s)

	profile := &store.Profile{ID: "test-profile-1", Name: "precise"}
	if err := s.Profiles().Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/profiles/test-profile-1", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	// Verify the profile is deleted - GET should return 404
	req = httptest.NewRequest(http.MethodGet, "/api/profiles/test-profile-1", nil)
	rec = httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d after delete, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestProfileHandler_MethodNotAllowed(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfileHandler(s)

	// PATCH is not allowed on the collection endpoint
	req := httptest.NewRequest(http.MethodPatch, "/api/profiles", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}

	// GET is not allowed on the activation endpoint
	req = httptest.NewRequest(http.MethodGet, "/api/profiles/test-profile-1/activate", nil)
	rec = httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
