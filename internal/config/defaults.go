package config

// Default returns the baseline configuration for a stock build of the
// device: buttons on BCM 17/27, encoder on 22/23/24, a 16x2 LCD, and
// speech services on localhost.
func Default() Config {
	return Config{
		Chip: "gpiochip0",
		Pins: PinsConfig{
			ButtonA:    17,
			ButtonB:    27,
			EncoderCLK: 22,
			EncoderDT:  23,
			EncoderSW:  24,
		},
		Input: InputConfig{
			DebounceMS:  30,
			PollMS:      10,
			LongPressMS: 2000,
		},
		Audio: AudioConfig{
			CaptureDevice:  "plughw:1,0",
			PlaybackDevice: "pulse",
			Rate:           16000,
			Format:         "S16_LE",
		},
		Display: DisplayConfig{
			Cols:             16,
			Rows:             2,
			ScrollIntervalMS: 400,
		},
		Services: ServicesConfig{
			ASRURL: "http://127.0.0.1:8001",
			MTURL:  "http://127.0.0.1:8002",
			TTSURL: "http://127.0.0.1:8003",
			Warmup: false,
		},
		TTS: TTSConfig{
			Backend:  "service",
			PiperBin: "piper",
			VoiceDir: "/opt/portavoce/voices",
			Voices: map[string]string{
				"en": "en_US-lessac-medium",
				"it": "it_IT-riccardo-x_low",
				"es": "es_ES-davefx-medium",
				"fr": "fr_FR-siwis-medium",
				"de": "de_DE-thorsten-medium",
			},
			OutDir: "/tmp/portavoce",
		},
		Languages: []Language{
			{Name: "English", Code: "en"},
			{Name: "Italiano", Code: "it"},
			{Name: "Espanol", Code: "es"},
			{Name: "Francais", Code: "fr"},
			{Name: "Deutsch", Code: "de"},
		},
		Recording: RecordingConfig{
			OutDir:      "/tmp/portavoce",
			StopGraceMS: 2000,
			Filename:    "speech.wav",
		},
	}
}
