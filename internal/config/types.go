// Package config resolves, parses, validates, and defaults portavoce
// configuration.
package config

// Config is the fully materialized runtime configuration.
type Config struct {
	Chip      string          `yaml:"gpio_chip"`
	Pins      PinsConfig      `yaml:"pins"`
	Input     InputConfig     `yaml:"input"`
	Audio     AudioConfig     `yaml:"audio"`
	Display   DisplayConfig   `yaml:"display"`
	Services  ServicesConfig  `yaml:"services"`
	TTS       TTSConfig       `yaml:"tts"`
	Languages []Language      `yaml:"languages"`
	Recording RecordingConfig `yaml:"recording"`
}

// PinsConfig assigns BCM offsets to the two talk buttons and the
// rotary encoder.
type PinsConfig struct {
	ButtonA    int `yaml:"button_a"`
	ButtonB    int `yaml:"button_b"`
	EncoderCLK int `yaml:"encoder_clk"`
	EncoderDT  int `yaml:"encoder_dt"`
	EncoderSW  int `yaml:"encoder_sw"`
}

// InputConfig controls debounce and polling cadence.
type InputConfig struct {
	DebounceMS  int `yaml:"debounce_ms"`
	PollMS      int `yaml:"poll_ms"`
	LongPressMS int `yaml:"long_press_ms"`
}

// AudioConfig controls capture and playback device selection.
type AudioConfig struct {
	CaptureDevice  string `yaml:"capture_device"`
	PlaybackDevice string `yaml:"playback_device"`
	SinkHint       string `yaml:"sink_hint"`
	Rate           int    `yaml:"rate"`
	Format         string `yaml:"format"`
}

// DisplayConfig controls the character LCD geometry and scrolling.
type DisplayConfig struct {
	Cols             int  `yaml:"cols"`
	Rows             int  `yaml:"rows"`
	ScrollIntervalMS int  `yaml:"scroll_interval_ms"`
	Console          bool `yaml:"console"`
}

// ServicesConfig points at the speech and translation backends.
type ServicesConfig struct {
	ASRURL      string `yaml:"asr_url"`
	MTURL       string `yaml:"mt_url"`
	TTSURL      string `yaml:"tts_url"`
	ModelServer string `yaml:"model_server"`
	Warmup      bool   `yaml:"warmup"`
}

// TTSConfig selects and configures the synthesis backend.
type TTSConfig struct {
	Backend  string            `yaml:"backend"`
	PiperBin string            `yaml:"piper_bin"`
	VoiceDir string            `yaml:"voice_dir"`
	Voices   map[string]string `yaml:"voices"`
	OutDir   string            `yaml:"out_dir"`
}

// Language is one selectable language with its display name and the
// code sent to the speech services.
type Language struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
}

// RecordingConfig controls where capture artifacts land.
type RecordingConfig struct {
	OutDir      string `yaml:"out_dir"`
	StopGraceMS int    `yaml:"stop_grace_ms"`
	Filename    string `yaml:"filename"`
}

// Warning is a non-fatal load/validation message.
type Warning struct {
	Message string
}
