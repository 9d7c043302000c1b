// Package tts provides the speech-synthesis collaborators: a local piper
// subprocess engine and an HTTP service engine. Both return an empty path
// when they cannot produce audio; the pipeline treats that as
// skip-playback, never as a failure.
package tts

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// PiperEngine synthesizes speech by piping text through the piper binary.
// Voices are resolved per language code through the voice map; a language
// with no voice, or with missing model files, yields no audio.
type PiperEngine struct {
	bin      string
	voiceDir string
	outDir   string
	voices   map[string]string
	timeout  time.Duration
	logger   *slog.Logger
}

func NewPiperEngine(bin, voiceDir, outDir string, voices map[string]string, logger *slog.Logger) *PiperEngine {
	if bin == "" {
		bin = "piper"
	}
	return &PiperEngine{
		bin:      bin,
		voiceDir: voiceDir,
		outDir:   outDir,
		voices:   voices,
		timeout:  60 * time.Second,
		logger:   logger,
	}
}

func (e *PiperEngine) Synthesize(ctx context.Context, text, langCode string) (string, error) {
	modelPath, configPath, ok := e.voicePaths(langCode)
	if !ok {
		e.logWarn("no piper voice for language", "lang", langCode)
		return "", nil
	}

	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create tts output dir %q: %w", e.outDir, err)
	}

	stamp := time.Now().Format("20060102_150405")
	wavPath := filepath.Join(e.outDir, fmt.Sprintf("translation_%s_%s.wav", langCode, stamp))

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, e.bin, "-m", modelPath, "-c", configPath, "--output-file", wavPath)
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		e.logWarn("piper synthesis failed", "lang", langCode, "error", err.Error(), "stderr", strings.TrimSpace(stderr.String()))
		return "", nil
	}

	return wavPath, nil
}

// voicePaths maps a language code to on-disk model and config files.
func (e *PiperEngine) voicePaths(langCode string) (model, config string, ok bool) {
	name := e.voices[langCode]
	if name == "" {
		return "", "", false
	}
	model = filepath.Join(e.voiceDir, name+".onnx")
	config = filepath.Join(e.voiceDir, name+".onnx.json")
	if !fileExists(model) || !fileExists(config) {
		return "", "", false
	}
	return model, config, true
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (e *PiperEngine) logWarn(msg string, args ...any) {
	if e.logger == nil {
		return
	}
	e.logger.Warn(msg, args...)
}
