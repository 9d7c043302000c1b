// Package pipeline sequences one captured utterance through transcription,
// translation, synthesis, and playback as a single synchronous unit of
// work, reporting intermediate status on the panel.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Transcriber converts captured audio to text. Empty text means no speech
// was detected.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Translator converts text between language codes.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Synthesizer renders text to a WAV file and returns its path. An empty
// path means the synthesizer declined (for example no voice for the
// language); that is normal control flow, not a failure.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, langCode string) (string, error)
}

// Player plays one audio file to completion.
type Player interface {
	Play(ctx context.Context, audioPath string) error
}

// Display is the pipeline-facing subset of panel behavior.
type Display interface {
	Write(line1, line2 string)
	SetScrollText(text string)
	ClearScroll()
}

// Result carries the recognized and translated text of one utterance.
// Both empty signals "no speech detected", which is not an error.
type Result struct {
	RecognizedText string
	TranslatedText string
}

// Empty reports whether no speech was recognized.
func (r Result) Empty() bool {
	return r.RecognizedText == ""
}

// Pipeline wires the four collaborators behind their capability interfaces.
type Pipeline struct {
	transcriber Transcriber
	translator  Translator
	synthesizer Synthesizer
	player      Player
	display     Display
	logger      *slog.Logger
}

func New(transcriber Transcriber, translator Translator, synthesizer Synthesizer, player Player, disp Display, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		transcriber: transcriber,
		translator:  translator,
		synthesizer: synthesizer,
		player:      player,
		display:     disp,
		logger:      logger,
	}
}

// Process runs the full chain for one capture. Collaborator failures
// propagate unchanged; the only short-circuit is the empty-transcript
// case, which returns an empty Result and a nil error.
func (p *Pipeline) Process(ctx context.Context, audioPath, sourceLang, targetLang string) (Result, error) {
	p.display.Write("Transcribing...", "")

	text, err := p.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return Result{}, fmt.Errorf("transcribe %q: %w", audioPath, err)
	}
	text = strings.TrimSpace(text)

	if text == "" {
		p.logInfo("no speech detected", "audio", audioPath)
		p.display.ClearScroll()
		p.display.Write("No speech", "Try again")
		return Result{}, nil
	}
	p.logInfo("transcribed", "text", text, "source", sourceLang)

	p.display.Write("Translating...", "")
	translated, err := p.translator.Translate(ctx, text, sourceLang, targetLang)
	if err != nil {
		return Result{RecognizedText: text}, fmt.Errorf("translate %s to %s: %w", sourceLang, targetLang, err)
	}
	p.logInfo("translated", "text", translated, "target", targetLang)

	result := Result{RecognizedText: text, TranslatedText: translated}

	p.display.SetScrollText(translated)
	p.display.Write(DirectionHeader(sourceLang, targetLang), translated)

	wavPath, err := p.synthesizer.Synthesize(ctx, translated, targetLang)
	if err != nil {
		return result, fmt.Errorf("synthesize %s: %w", targetLang, err)
	}
	if wavPath == "" {
		p.logInfo("synthesis produced no audio, skipping playback", "target", targetLang)
		return result, nil
	}

	if err := p.player.Play(ctx, wavPath); err != nil {
		return result, fmt.Errorf("play %q: %w", wavPath, err)
	}

	return result, nil
}

// DirectionHeader is the compact "eng→ita" style panel header built from
// the first three characters of each language code.
func DirectionHeader(sourceLang, targetLang string) string {
	return shortCode(sourceLang) + "→" + shortCode(targetLang)
}

func shortCode(code string) string {
	if len(code) <= 3 {
		return code
	}
	return code[:3]
}

func (p *Pipeline) logInfo(msg string, args ...any) {
	if p.logger == nil {
		return
	}
	p.logger.Info(msg, args...)
}
