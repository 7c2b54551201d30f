package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/intellemagit/VoxChain/internal/config"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := New(config.OpenAIConfig{}, nil); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestTranscribeFile_MissingFile(t *testing.T) {
	tr, err := New(config.OpenAIConfig{APIKey: "sk-test"}, nil)
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}
	_, err = tr.TranscribeFile(context.Background(), "does-not-exist.mp3")
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound before any API call, got %v", err)
	}
}

func TestPostToAgent(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr, err := New(config.OpenAIConfig{APIKey: "sk-test", AgentAPIURL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}
	if err := tr.postToAgent(context.Background(), "hello"); err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if got["text"] != "hello" {
		t.Fatalf("expected transcript payload, got %v", got)
	}
}

func TestPostToAgent_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	tr, err := New(config.OpenAIConfig{APIKey: "sk-test", AgentAPIURL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}
	if err := tr.postToAgent(context.Background(), "hello"); err == nil {
		t.Fatalf("expected error on 502 response")
	}
}
