package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePathExplicitWins(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := ResolvePath("/etc/portavoce.yaml")
	require.NoError(t, err)
	require.Equal(t, "/etc/portavoce.yaml", path)
}

func TestResolvePathUsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/tmp/xdg", "portavoce", "config.yaml"), path)
}

func TestResolvePathHomeFallback(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/op")
	path, err := ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, "/home/op/.config/portavoce/config.yaml", path)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	loaded, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.False(t, loaded.Exists)
	require.Equal(t, Default(), loaded.Config)
	require.Len(t, loaded.Warnings, 1)
	require.Contains(t, loaded.Warnings[0].Message, "using defaults")
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
pins:
  button_a: 5
  button_b: 6
input:
  long_press_ms: 1500
audio:
  capture_device: plughw:2,0
languages:
  - {name: English, code: en}
  - {name: Italiano, code: it}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.True(t, loaded.Exists)
	require.Equal(t, 5, loaded.Config.Pins.ButtonA)
	require.Equal(t, 6, loaded.Config.Pins.ButtonB)
	require.Equal(t, 1500, loaded.Config.Input.LongPressMS)
	require.Equal(t, "plughw:2,0", loaded.Config.Audio.CaptureDevice)
	require.Len(t, loaded.Config.Languages, 2)
	// Untouched sections keep their defaults.
	require.Equal(t, Default().Display, loaded.Config.Display)
	require.Equal(t, Default().Pins.EncoderCLK, loaded.Config.Pins.EncoderCLK)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("buttons: nope\n"), 0o644))

	_, err := Load(path)
	require.ErrorContains(t, err, "parse config")
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Default(), loaded.Config)
}

func TestLoadValidationFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input:\n  debounce_ms: -1\n"), 0o644))

	_, err := Load(path)
	require.ErrorContains(t, err, "input.debounce_ms")
}

func TestValidateDefaultsAreClean(t *testing.T) {
	warnings, err := Validate(Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
}

func TestValidateDuplicatePins(t *testing.T) {
	cfg := Default()
	cfg.Pins.ButtonB = cfg.Pins.ButtonA
	_, err := Validate(cfg)
	require.ErrorContains(t, err, "share gpio offset")
}

func TestValidateLongPressMustExceedDebounce(t *testing.T) {
	cfg := Default()
	cfg.Input.LongPressMS = cfg.Input.DebounceMS
	_, err := Validate(cfg)
	require.ErrorContains(t, err, "long_press_ms")
}

func TestValidateNeedsTwoLanguages(t *testing.T) {
	cfg := Default()
	cfg.Languages = cfg.Languages[:1]
	_, err := Validate(cfg)
	require.ErrorContains(t, err, "at least two")
}

func TestValidateUnknownTTSBackend(t *testing.T) {
	cfg := Default()
	cfg.TTS.Backend = "espeak"
	_, err := Validate(cfg)
	require.ErrorContains(t, err, "tts.backend")
}

func TestValidatePiperBackendRequiresVoiceDir(t *testing.T) {
	cfg := Default()
	cfg.TTS.Backend = "piper"
	cfg.TTS.VoiceDir = ""
	_, err := Validate(cfg)
	require.ErrorContains(t, err, "voice_dir")
}

func TestValidateSinkHintWarnsOnAlsaPlayback(t *testing.T) {
	cfg := Default()
	cfg.Audio.PlaybackDevice = "plughw:1,0"
	cfg.Audio.SinkHint = "usb"
	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "sink_hint")
}

func TestValidateDuplicateLanguageCodeWarns(t *testing.T) {
	cfg := Default()
	cfg.Languages = append(cfg.Languages, Language{Name: "English (UK)", Code: "en"})
	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "en")
}
