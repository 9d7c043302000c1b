package config

import (
	"fmt"
	"strings"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if strings.TrimSpace(cfg.Chip) == "" {
		return nil, fmt.Errorf("gpio_chip must not be empty")
	}

	pins := map[string]int{
		"pins.button_a":    cfg.Pins.ButtonA,
		"pins.button_b":    cfg.Pins.ButtonB,
		"pins.encoder_clk": cfg.Pins.EncoderCLK,
		"pins.encoder_dt":  cfg.Pins.EncoderDT,
		"pins.encoder_sw":  cfg.Pins.EncoderSW,
	}
	seen := make(map[int]string, len(pins))
	for _, name := range []string{"pins.button_a", "pins.button_b", "pins.encoder_clk", "pins.encoder_dt", "pins.encoder_sw"} {
		offset := pins[name]
		if offset < 0 {
			return nil, fmt.Errorf("%s must be >= 0", name)
		}
		if other, dup := seen[offset]; dup {
			return nil, fmt.Errorf("%s and %s share gpio offset %d", other, name, offset)
		}
		seen[offset] = name
	}

	if cfg.Input.DebounceMS <= 0 {
		return nil, fmt.Errorf("input.debounce_ms must be > 0")
	}
	if cfg.Input.PollMS <= 0 {
		return nil, fmt.Errorf("input.poll_ms must be > 0")
	}
	if cfg.Input.LongPressMS <= cfg.Input.DebounceMS {
		return nil, fmt.Errorf("input.long_press_ms must exceed input.debounce_ms")
	}

	if strings.TrimSpace(cfg.Audio.CaptureDevice) == "" {
		return nil, fmt.Errorf("audio.capture_device must not be empty")
	}
	if strings.TrimSpace(cfg.Audio.PlaybackDevice) == "" {
		return nil, fmt.Errorf("audio.playback_device must not be empty")
	}
	if cfg.Audio.Rate <= 0 {
		return nil, fmt.Errorf("audio.rate must be > 0")
	}
	if strings.TrimSpace(cfg.Audio.Format) == "" {
		return nil, fmt.Errorf("audio.format must not be empty")
	}
	if cfg.Audio.SinkHint != "" && cfg.Audio.PlaybackDevice != "pulse" {
		warnings = append(warnings, Warning{
			Message: "audio.sink_hint is ignored unless audio.playback_device is \"pulse\"",
		})
	}

	if cfg.Display.Cols <= 0 || cfg.Display.Rows <= 0 {
		return nil, fmt.Errorf("display.cols and display.rows must be > 0")
	}
	if cfg.Display.ScrollIntervalMS <= 0 {
		return nil, fmt.Errorf("display.scroll_interval_ms must be > 0")
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"services.asr_url", cfg.Services.ASRURL},
		{"services.mt_url", cfg.Services.MTURL},
	} {
		if strings.TrimSpace(field.value) == "" {
			return nil, fmt.Errorf("%s must not be empty", field.name)
		}
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.TTS.Backend))
	switch backend {
	case "piper":
		if strings.TrimSpace(cfg.TTS.PiperBin) == "" {
			return nil, fmt.Errorf("tts.piper_bin must not be empty when tts.backend=piper")
		}
		if strings.TrimSpace(cfg.TTS.VoiceDir) == "" {
			return nil, fmt.Errorf("tts.voice_dir must not be empty when tts.backend=piper")
		}
		if len(cfg.TTS.Voices) == 0 {
			warnings = append(warnings, Warning{
				Message: "tts.voices is empty; synthesis will be skipped for every language",
			})
		}
	case "service":
		if strings.TrimSpace(cfg.Services.TTSURL) == "" {
			return nil, fmt.Errorf("services.tts_url must not be empty when tts.backend=service")
		}
	default:
		return nil, fmt.Errorf("tts.backend must be one of: piper, service")
	}
	if strings.TrimSpace(cfg.TTS.OutDir) == "" {
		return nil, fmt.Errorf("tts.out_dir must not be empty")
	}

	if len(cfg.Languages) < 2 {
		return nil, fmt.Errorf("languages must list at least two entries")
	}
	codes := make(map[string]struct{}, len(cfg.Languages))
	for i, lang := range cfg.Languages {
		if strings.TrimSpace(lang.Name) == "" {
			return nil, fmt.Errorf("languages[%d].name must not be empty", i)
		}
		if strings.TrimSpace(lang.Code) == "" {
			return nil, fmt.Errorf("languages[%d].code must not be empty", i)
		}
		if _, dup := codes[lang.Code]; dup {
			warnings = append(warnings, Warning{
				Message: fmt.Sprintf("language code %q listed more than once", lang.Code),
			})
		}
		codes[lang.Code] = struct{}{}
	}

	if strings.TrimSpace(cfg.Recording.OutDir) == "" {
		return nil, fmt.Errorf("recording.out_dir must not be empty")
	}
	if cfg.Recording.StopGraceMS <= 0 {
		return nil, fmt.Errorf("recording.stop_grace_ms must be > 0")
	}

	return warnings, nil
}
