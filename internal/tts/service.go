package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ServiceEngine synthesizes speech through the HTTP TTS service: a JSON
// request produces raw WAV bytes, written to a uniquely named file under
// the output directory. Service errors degrade to "no audio".
type ServiceEngine struct {
	baseURL string
	outDir  string
	client  *http.Client
	logger  *slog.Logger
}

func NewServiceEngine(baseURL, outDir string, timeout time.Duration, logger *slog.Logger) *ServiceEngine {
	return &ServiceEngine{
		baseURL: strings.TrimRight(baseURL, "/"),
		outDir:  outDir,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type synthesizeRequest struct {
	Text     string `json:"text"`
	LangCode string `json:"lang_code"`
}

func (e *ServiceEngine) Synthesize(ctx context.Context, text, langCode string) (string, error) {
	payload, err := json.Marshal(synthesizeRequest{Text: text, LangCode: langCode})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/synthesize", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		e.logWarn("tts request failed", "lang", langCode, "error", err.Error())
		return "", nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		e.logWarn("tts response read failed", "lang", langCode, "error", err.Error())
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		e.logWarn("tts service error", "lang", langCode, "status", resp.StatusCode, "body", strings.TrimSpace(string(body)))
		return "", nil
	}

	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create tts output dir %q: %w", e.outDir, err)
	}

	wavPath := filepath.Join(e.outDir, fmt.Sprintf("tts_%s_%s.wav", langCode, uuid.New().String()))
	if err := os.WriteFile(wavPath, body, 0o644); err != nil {
		return "", fmt.Errorf("write tts artifact %q: %w", wavPath, err)
	}
	return wavPath, nil
}

// Health probes the service ready endpoint.
func (e *ServiceEngine) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("tts health request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tts service not ready: status %d", resp.StatusCode)
	}
	return nil
}

func (e *ServiceEngine) logWarn(msg string, args ...any) {
	if e.logger == nil {
		return
	}
	e.logger.Warn(msg, args...)
}
