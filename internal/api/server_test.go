package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lednode/lednode/internal/button"
	"github.com/lednode/lednode/internal/command"
	"github.com/lednode/lednode/internal/device"
	"github.com/lednode/lednode/internal/effects"
	"github.com/lednode/lednode/internal/events"
	"github.com/lednode/lednode/internal/loop"
	"github.com/lednode/lednode/internal/palette"
	"github.com/lednode/lednode/internal/persist"
	"github.com/lednode/lednode/internal/render"
	"github.com/lednode/lednode/internal/strip"
)

// newTestServer wires a full core loop behind the API and serves it over
// httptest.
func newTestServer(t *testing.T, username, password string) *httptest.Server {
	t.Helper()

	state := &device.State{}
	pal := palette.New()
	store := persist.NewFile(filepath.Join(t.TempDir(), "palette.bin"))
	reg := effects.NewRegistry(8)
	bus := events.New()
	driver := strip.New(strip.Config{Driver: "noop", Count: 8}, nil)

	proc := command.NewProcessor(state, pal, store, reg, bus)
	nav := button.NewNavigator(state, pal, reg)
	sched := render.NewScheduler(state, pal, reg, driver, render.Config{FPS: 100, EffectBrightness: 128})

	l := loop.New(proc, nav, sched, state, bus, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(cancel)

	server := NewServer(&Options{
		AuthUsername: username,
		AuthPassword: password,
		Loop:         l,
		Effects:      reg,
	})

	ts := httptest.NewServer(server.GetMux())
	t.Cleanup(ts.Close)
	return ts
}

// doJSON sends a request with an optional JSON body and decodes the command
// envelope from the reply.
func doJSON(t *testing.T, method, url, body string) (int, command.Response) {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	var envelope command.Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("Failed to decode envelope from %s %s: %v", method, url, err)
	}
	return resp.StatusCode, envelope
}

func TestStatusForCode(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{command.ErrCodeInvalidColor, http.StatusBadRequest},
		{command.ErrCodeUnknownEffect, http.StatusBadRequest},
		{command.ErrCodeColorNotFound, http.StatusNotFound},
		{command.ErrCodePaletteFull, http.StatusConflict},
		{command.ErrCodeDuplicateColor, http.StatusConflict},
		{command.ErrCodeStorageFailure, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusForCode(tt.code); got != tt.status {
			t.Errorf("statusForCode(%q) = %d, want %d", tt.code, got, tt.status)
		}
	}
}

func TestSetColorEnvelope(t *testing.T) {
	ts := newTestServer(t, "", "")

	status, envelope := doJSON(t, http.MethodPut, ts.URL+"/api/color", `{"color":"FF8800","brightness":80}`)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if envelope.Kind != command.KindSetColor {
		t.Errorf("Got kind %s, want %s", envelope.Kind, command.KindSetColor)
	}
	if envelope.Error != "" {
		t.Errorf("Expected empty error, got %q", envelope.Error)
	}
	view, ok := envelope.Value.(map[string]any)
	if !ok {
		t.Fatalf("Value should be a state view, got %T", envelope.Value)
	}
	if view["mode"] != "color" || view["color"] != "FF8800" {
		t.Errorf("Unexpected state view: %v", view)
	}
	if view["scratch"] != true {
		t.Errorf("Unsaved color should land in the scratch slot: %v", view)
	}
}

func TestSetColorInvalidIsBadRequest(t *testing.T) {
	ts := newTestServer(t, "", "")

	status, envelope := doJSON(t, http.MethodPut, ts.URL+"/api/color", `{"color":"ZZZZZZ","brightness":50}`)
	if status != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", status)
	}
	if !strings.Contains(envelope.Error, command.ErrCodeInvalidColor) {
		t.Errorf("Got error %q, want %s", envelope.Error, command.ErrCodeInvalidColor)
	}
	if envelope.Value != nil {
		t.Errorf("Failed command should carry no value, got %v", envelope.Value)
	}
}

func TestPaletteLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t, "", "")

	// Save
	status, envelope := doJSON(t, http.MethodPost, ts.URL+"/api/palette", `{"color":"00FF00","brightness":70}`)
	if status != http.StatusOK {
		t.Fatalf("Expected 200 on save, got %d (error %q)", status, envelope.Error)
	}
	saved, _ := envelope.Value.(map[string]any)
	if saved["index"] != float64(0) {
		t.Errorf("First save should land at index 0, got %v", saved["index"])
	}

	// Saving the identical entry again conflicts
	status, envelope = doJSON(t, http.MethodPost, ts.URL+"/api/palette", `{"color":"00FF00","brightness":70}`)
	if status != http.StatusConflict {
		t.Errorf("Expected 409 on duplicate save, got %d", status)
	}
	if !strings.Contains(envelope.Error, command.ErrCodeDuplicateColor) {
		t.Errorf("Got error %q, want %s", envelope.Error, command.ErrCodeDuplicateColor)
	}

	// List
	status, envelope = doJSON(t, http.MethodGet, ts.URL+"/api/palette", "")
	if status != http.StatusOK {
		t.Fatalf("Expected 200 on list, got %d", status)
	}
	list, ok := envelope.Value.([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("Expected one saved color, got %v", envelope.Value)
	}

	// Delete an absent entry
	status, envelope = doJSON(t, http.MethodDelete, ts.URL+"/api/palette/123456/10", "")
	if status != http.StatusNotFound {
		t.Errorf("Expected 404 on absent delete, got %d", status)
	}
	if !strings.Contains(envelope.Error, command.ErrCodeColorNotFound) {
		t.Errorf("Got error %q, want %s", envelope.Error, command.ErrCodeColorNotFound)
	}

	// Delete the real entry
	status, envelope = doJSON(t, http.MethodDelete, ts.URL+"/api/palette/00FF00/70", "")
	if status != http.StatusOK {
		t.Fatalf("Expected 200 on delete, got %d (error %q)", status, envelope.Error)
	}
	remaining, ok := envelope.Value.([]any)
	if envelope.Value != nil && (!ok || len(remaining) != 0) {
		t.Errorf("Expected empty palette after delete, got %v", envelope.Value)
	}
}

func TestSetEffectAndState(t *testing.T) {
	ts := newTestServer(t, "", "")

	status, envelope := doJSON(t, http.MethodPut, ts.URL+"/api/effect", `{"effect":"theater_chase"}`)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d (error %q)", status, envelope.Error)
	}

	resp, err := http.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatalf("GET /api/state failed: %v", err)
	}
	defer resp.Body.Close()
	var view command.StateView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("Failed to decode state: %v", err)
	}
	if view.Mode != "effect" || view.Effect != "theater_chase" {
		t.Errorf("Unexpected state: %+v", view)
	}

	// Unknown effects are rejected with the command error code
	status, envelope = doJSON(t, http.MethodPut, ts.URL+"/api/effect", `{"effect":"Rainbow"}`)
	if status != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown effect, got %d", status)
	}
	if !strings.Contains(envelope.Error, command.ErrCodeUnknownEffect) {
		t.Errorf("Got error %q, want %s", envelope.Error, command.ErrCodeUnknownEffect)
	}
}

func TestListEffects(t *testing.T) {
	ts := newTestServer(t, "", "")

	resp, err := http.Get(ts.URL + "/api/effects")
	if err != nil {
		t.Fatalf("GET /api/effects failed: %v", err)
	}
	defer resp.Body.Close()

	var data EffectsData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		t.Fatalf("Failed to decode effects: %v", err)
	}
	if data.Count != 12 || len(data.Effects) != 12 {
		t.Fatalf("Expected 12 effects, got %d", data.Count)
	}
	if data.Effects[0].Name != "rainbow" {
		t.Errorf("First effect should be rainbow, got %s", data.Effects[0].Name)
	}
	for _, e := range data.Effects {
		if e.Frames <= 0 {
			t.Errorf("Effect %s has non-positive frame count %d", e.Name, e.Frames)
		}
	}
}

func TestBasicAuth(t *testing.T) {
	ts := newTestServer(t, "admin", "secret")

	// Health stays open
	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Health should not require auth, got %d", resp.StatusCode)
	}

	// State requires credentials
	resp, err = http.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatalf("GET /api/state failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 without credentials, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/state", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("admin:secret")))
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Authenticated GET /api/state failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 with credentials, got %d", resp.StatusCode)
	}

	req, _ = http.NewRequest(http.MethodGet, ts.URL+"/api/state", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("admin:wrong")))
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /api/state with bad credentials failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 with wrong credentials, got %d", resp.StatusCode)
	}
}
