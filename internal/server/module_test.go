package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matheus3301/teleclone/internal/gemini"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func TestModuleLifecycle(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"lol ok"}]}}]}`)
	}))
	defer provider.Close()

	dir := t.TempDir()
	p := Params{
		Addr:     "127.0.0.1:0",
		DBDriver: "sqlite",
		DBDSN:    filepath.Join(dir, "server.db"),
		LogPath:  filepath.Join(dir, "logs", "telecloned.log"),
		Gemini:   gemini.Config{APIKey: "test-key", BaseURL: provider.URL},
	}

	var srv *Server
	app := fxtest.New(t, Module(p), fx.Populate(&srv))
	app.RequireStart()
	defer app.RequireStop()

	base := "http://" + srv.Addr()

	resp, err := http.Get(base + "/api/me")
	if err != nil {
		t.Fatal(err)
	}
	var me map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&me)
	_ = resp.Body.Close()
	// Startup seeding ran, so the seeded local user comes back.
	if me["id"] != "me" || me["name"] != "Me" {
		t.Errorf("/api/me = %v, want seeded user", me)
	}

	resp, err = http.Post(base+"/api/gemini/chat", "application/json", strings.NewReader(`{"prompt":"hi"}`))
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || out["response"] != "lol ok" {
		t.Errorf("chat = %d %v", resp.StatusCode, out)
	}
}

func TestModuleRequiresAPIKey(t *testing.T) {
	dir := t.TempDir()
	p := Params{
		Addr:     "127.0.0.1:0",
		DBDriver: "sqlite",
		DBDSN:    filepath.Join(dir, "server.db"),
		LogPath:  filepath.Join(dir, "server.log"),
	}
	app := fx.New(Module(p), fx.NopLogger)
	if err := app.Start(context.Background()); err == nil {
		_ = app.Stop(context.Background())
		t.Fatal("Start() without GEMINI_API_KEY should fail")
	}
}
