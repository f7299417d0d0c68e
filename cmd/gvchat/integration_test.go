package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/csheth/goldenvalley/internal/tuitest"
)

type fakeBackend struct {
	mu      sync.Mutex
	prompts []string
	syncs   int
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Message        string `json:"message"`
			ConversationID string `json:"conversationId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, `{"error":"bad body"}`, http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		b.prompts = append(b.prompts, body.Message)
		b.mu.Unlock()
		writeJSON(w, map[string]string{"response": "pong from the assistant"})
	})
	mux.HandleFunc("POST /api/sync-trello", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.syncs++
		b.mu.Unlock()
		writeJSON(w, map[string]string{"message": "42 cards imported"})
	})
	mux.HandleFunc("GET /api/last-sync", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"lastSync": "2024-03-01T12:00:00Z"})
	})
	mux.HandleFunc("GET /api/debug/data", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"trelloConnected": true, "documentCount": 4})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestChatRoundTripThroughBackend(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pty harness requires a unix terminal")
	}
	if testing.Short() {
		t.Skip("builds and drives the binary")
	}

	backend := &fakeBackend{}
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "-no-alt-screen"},
		Dir:     cmdDir,
		Env:     []string{"GVD_API_URL=" + server.URL + "/api"},
		Width:   100,
		Height:  36,
		Steps: []tuitest.Step{
			{WaitFor: "Documents: 4 loaded"},
			{Input: tuitest.KeyCtrlO},
			{Delay: 200 * time.Millisecond, Input: tuitest.Type("3")},
			{Delay: 200 * time.Millisecond, Input: tuitest.KeyEsc},
			{Delay: 200 * time.Millisecond, Input: tuitest.Type("Draft a launch post")},
			{Delay: 200 * time.Millisecond, Input: tuitest.KeyEnter},
			{WaitFor: "pong from the assistant"},
			{Input: tuitest.KeyCtrlS},
			{WaitFor: "Sync successful: 42 cards imported"},
			{Input: tuitest.KeyCtrlC},
		},
		Timeout:        15 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	frame, ok := rec.FrameContaining("pong from the assistant")
	if !ok {
		t.Fatal("assistant reply never rendered")
	}
	for _, want := range []string{"Draft a launch post", "Trello: Connected"} {
		if !strings.Contains(frame.Plain, want) {
			t.Fatalf("frame missing %q:\n%s", want, frame.Plain)
		}
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if len(backend.prompts) != 1 {
		t.Fatalf("backend saw %d chat calls, want 1", len(backend.prompts))
	}
	wantPrompt := "user wants to generate a linkedin post\nDraft a launch post"
	if backend.prompts[0] != wantPrompt {
		t.Fatalf("prompt = %q, want %q", backend.prompts[0], wantPrompt)
	}
	if backend.syncs != 1 {
		t.Fatalf("sync calls = %d, want 1", backend.syncs)
	}
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "gvchat-integration")
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
