package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/sashabaranov/go-openai"

	"github.com/intellemagit/VoxChain/internal/config"
)

// ErrFileNotFound is returned before any API call when the audio file
// does not exist.
var ErrFileNotFound = errors.New("audio file not found")

// Transcriber turns recorded call audio into text via the Whisper API
// and optionally posts the transcript to a downstream agent endpoint.
type Transcriber struct {
	openai      *openai.Client
	agentAPIURL string
	httpClient  *http.Client
	log         *slog.Logger
}

func New(cfg config.OpenAIConfig, log *slog.Logger) (*Transcriber, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("transcribe: OPENAI_API_KEY is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Transcriber{
		openai:      openai.NewClient(cfg.APIKey),
		agentAPIURL: cfg.AgentAPIURL,
		httpClient:  http.DefaultClient,
		log:         log,
	}, nil
}

// TranscribeFile transcribes one audio file. Supported formats follow
// the Whisper API: mp3, mp4, mpeg, mpga, m4a, wav, webm.
func (t *Transcriber) TranscribeFile(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	resp, err := t.openai.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: path,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", path, err)
	}
	t.log.Info("transcription complete", "file", path, "chars", len(resp.Text))
	return resp.Text, nil
}

// TranscribeAndPost transcribes the file and forwards the transcript to
// the configured agent API. The transcript is returned either way; when
// no agent URL is configured the post is skipped.
func (t *Transcriber) TranscribeAndPost(ctx context.Context, path string) (string, error) {
	text, err := t.TranscribeFile(ctx, path)
	if err != nil {
		return "", err
	}
	if t.agentAPIURL == "" {
		t.log.Debug("AGENT_API_URL not set, skipping post to agent")
		return text, nil
	}
	if err := t.postToAgent(ctx, text); err != nil {
		return "", err
	}
	return text, nil
}

func (t *Transcriber) postToAgent(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("encode agent payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.agentAPIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build agent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post transcript to agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post transcript to agent: unexpected status %d", resp.StatusCode)
	}
	t.log.Info("transcript posted to agent", "status", resp.StatusCode)
	return nil
}
