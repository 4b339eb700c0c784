package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/intent"
)

// fakeControl implements Control for handler tests without a camera or
// a running pipeline.
type fakeControl struct {
	mu       sync.Mutex
	status   app.Status
	enabled  bool
	frame    []byte
	listener func(app.IntentEvent)
}

func (f *fakeControl) Status() app.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeControl) SetEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = enabled
}

func (f *fakeControl) LatestFrame() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frame
}

func (f *fakeControl) AddIntentListener(fn func(app.IntentEvent)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listener = fn
}

func (f *fakeControl) publish(ev app.IntentEvent) {
	f.mu.Lock()
	fn := f.listener
	f.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

func (f *fakeControl) isEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled
}

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		contentType := rec.Header().Get("Content-Type")
		if contentType != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", contentType)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}

		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		methods := []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

		for _, method := range methods {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	})
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestServer_Status(t *testing.T) {
	ctrl := &fakeControl{status: app.Status{
		Running:   true,
		Enabled:   true,
		Mode:      "object",
		SessionID: "status-test",
		Grabbed:   "Terminal",
	}}
	s := New(Config{App: ctrl})

	t.Run("returns the pipeline snapshot", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var status app.Status
		if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if !status.Running || !status.Enabled {
			t.Errorf("expected running and enabled, got %+v", status)
		}

		if status.Mode != "object" {
			t.Errorf("expected mode 'object', got %q", status.Mode)
		}

		if status.Grabbed != "Terminal" {
			t.Errorf("expected grabbed 'Terminal', got %q", status.Grabbed)
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/status", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})

	t.Run("not registered without an app", func(t *testing.T) {
		bare := New(Config{})

		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		rec := httptest.NewRecorder()

		bare.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})
}

func TestServer_Control(t *testing.T) {
	ctrl := &fakeControl{}
	s := New(Config{App: ctrl})

	t.Run("enables gesture control", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/control", strings.NewReader(`{"enabled": true}`))
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		if !ctrl.isEnabled() {
			t.Error("expected control to be enabled")
		}

		var response map[string]bool
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !response["enabled"] {
			t.Error("expected enabled true in response")
		}
	})

	t.Run("disables gesture control", func(t *testing.T) {
		ctrl.SetEnabled(true)

		req := httptest.NewRequest(http.MethodPost, "/api/control", strings.NewReader(`{"enabled": false}`))
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		if ctrl.isEnabled() {
			t.Error("expected control to be disabled")
		}
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/control", strings.NewReader("invalid"))
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("only allows POST method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/control", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}

func TestStreamHandler(t *testing.T) {
	t.Run("streams published frames as MJPEG", func(t *testing.T) {
		ctrl := &fakeControl{frame: []byte("jpeg-payload")}
		h := NewStreamHandler(ctrl)

		ctx, cancel := context.WithCancel(context.Background())
		req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		done := make(chan struct{})
		go func() {
			h.ServeHTTP(rec, req)
			close(done)
		}()

		time.Sleep(150 * time.Millisecond)
		cancel()
		<-done

		if ct := rec.Header().Get("Content-Type"); ct != "multipart/x-mixed-replace; boundary=frame" {
			t.Errorf("unexpected Content-Type %q", ct)
		}

		body := rec.Body.String()
		if !strings.Contains(body, "--frame") {
			t.Error("expected multipart boundary in body")
		}
		if !strings.Contains(body, "Content-Type: image/jpeg") {
			t.Error("expected jpeg part header in body")
		}
		if !strings.Contains(body, "jpeg-payload") {
			t.Error("expected frame payload in body")
		}
	})

	t.Run("waits for the first published frame", func(t *testing.T) {
		ctrl := &fakeControl{}
		h := NewStreamHandler(ctrl)

		ctx, cancel := context.WithCancel(context.Background())
		req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		done := make(chan struct{})
		go func() {
			h.ServeHTTP(rec, req)
			close(done)
		}()

		time.Sleep(50 * time.Millisecond)
		cancel()
		<-done

		if body := rec.Body.String(); body != "" {
			t.Errorf("expected empty body before first frame, got %q", body)
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		h := NewStreamHandler(&fakeControl{})

		req := httptest.NewRequest(http.MethodPost, "/api/stream", nil)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}

func TestServer_StaticFiles(t *testing.T) {
	// Create a temporary directory with a static file
	tmpDir, err := os.MkdirTemp("", "mudra-server-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Create a test HTML file
	testContent := "<html><body>Hello, World!</body></html>"
	if err := os.WriteFile(filepath.Join(tmpDir, "index.html"), []byte(testContent), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	// Create a CSS file for testing direct file access
	cssContent := "body { color: red; }"
	if err := os.WriteFile(filepath.Join(tmpDir, "style.css"), []byte(cssContent), 0644); err != nil {
		t.Fatalf("failed to create test CSS file: %v", err)
	}

	s := New(Config{StaticDir: tmpDir})

	t.Run("serves index.html at root path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		if rec.Body.String() != testContent {
			t.Errorf("expected body %q, got %q", testContent, rec.Body.String())
		}
	})

	t.Run("serves static files from configured directory", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/style.css", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		if rec.Body.String() != cssContent {
			t.Errorf("expected body %q, got %q", cssContent, rec.Body.String())
		}
	})

	t.Run("returns 404 for non-existent static files", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nonexistent.html", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})
}

func TestServer_NoStaticDir(t *testing.T) {
	s := New(Config{})

	t.Run("root path returns 404 when no static dir configured", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})
}

func TestNew(t *testing.T) {
	t.Run("creates server with config", func(t *testing.T) {
		cfg := Config{StaticDir: "/some/path"}
		s := New(cfg)

		if s == nil {
			t.Fatal("expected non-nil server")
		}

		if s.config.StaticDir != cfg.StaticDir {
			t.Errorf("expected StaticDir %s, got %s", cfg.StaticDir, s.config.StaticDir)
		}
	})

	t.Run("server implements http.Handler", func(t *testing.T) {
		s := New(Config{})
		var _ http.Handler = s
	})
}

func TestIntentsHandler_Broadcast(t *testing.T) {
	ctrl := &fakeControl{}
	h := NewIntentsHandler(ctrl)

	ts := httptest.NewServer(h)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	// Wait for the server side to register the client
	deadline := time.Now().Add(time.Second)
	for {
		h.mu.RLock()
		n := len(h.clients)
		h.mu.RUnlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ctrl.publish(app.IntentEvent{
		SessionID: "ws-test",
		Gesture:   gesture.LabelFist,
		Intent:    intent.Intent{Type: intent.GrabObject, Confidence: 0.9},
		Time:      time.Now(),
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message error = %v", err)
	}

	var ev struct {
		SessionID string `json:"session_id"`
		Gesture   string `json:"gesture"`
		Intent    struct {
			Type       string  `json:"type"`
			Confidence float64 `json:"confidence"`
		} `json:"intent"`
	}
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatalf("failed to decode message: %v", err)
	}

	if ev.SessionID != "ws-test" {
		t.Errorf("session_id = %q, want ws-test", ev.SessionID)
	}
	if ev.Gesture != "fist" {
		t.Errorf("gesture = %q, want fist", ev.Gesture)
	}
	if ev.Intent.Type != "grab_object" {
		t.Errorf("intent type = %q, want grab_object", ev.Intent.Type)
	}
}

func TestIntentsHandler_DropsWithoutClients(t *testing.T) {
	ctrl := &fakeControl{}
	NewIntentsHandler(ctrl)

	// Publishing with no clients connected must not block the caller
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			ctrl.publish(app.IntentEvent{SessionID: "no-clients", Time: time.Now()})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publishing without clients blocked")
	}
}
