// Package doctor runs runtime readiness diagnostics for config, tools,
// GPIO, audio, and the speech services.
package doctor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/emassari/portavoce/internal/audio"
	"github.com/emassari/portavoce/internal/config"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(ctx context.Context, cfg config.Loaded) Report {
	checks := []Check{}

	checks = append(checks, Check{
		Name:    "config",
		Pass:    true,
		Message: fmt.Sprintf("loaded %q", cfg.Path),
	})

	checks = append(checks, checkGPIOChip(cfg.Config.Chip))
	checks = append(checks, checkBinary("arecord", "audio capture"))
	checks = append(checks, checkBinary("aplay", "audio playback"))
	if strings.EqualFold(cfg.Config.TTS.Backend, "piper") {
		checks = append(checks, checkBinary(cfg.Config.TTS.PiperBin, "local synthesis"))
		checks = append(checks, checkDir(cfg.Config.TTS.VoiceDir, "tts.voice_dir"))
	}

	checks = append(checks, checkPulse(ctx))

	checks = append(checks, checkHTTPHealth("asr.ready", cfg.Config.Services.ASRURL))
	checks = append(checks, checkHTTPHealth("mt.ready", cfg.Config.Services.MTURL))
	if strings.EqualFold(cfg.Config.TTS.Backend, "service") {
		checks = append(checks, checkHTTPHealth("tts.ready", cfg.Config.Services.TTSURL))
	}

	if strings.TrimSpace(cfg.Config.Services.ModelServer) != "" {
		checks = append(checks, checkModelServer(ctx, cfg.Config.Services.ModelServer))
	}

	return Report{Checks: checks}
}

// checkGPIOChip validates the character device for the configured chip.
func checkGPIOChip(name string) Check {
	path := "/dev/" + name
	info, err := os.Stat(path)
	if err != nil {
		return Check{Name: "gpio.chip", Pass: false, Message: fmt.Sprintf("%s not found", path)}
	}
	if info.Mode()&os.ModeDevice == 0 {
		return Check{Name: "gpio.chip", Pass: false, Message: fmt.Sprintf("%s is not a device", path)}
	}
	return Check{Name: "gpio.chip", Pass: true, Message: fmt.Sprintf("found %s", path)}
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, role string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, role)}
}

// checkDir validates that a configured directory exists.
func checkDir(dir string, name string) Check {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("directory not found: %s", dir)}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("found %s", dir)}
}

// checkPulse verifies the Pulse server is reachable and has at least
// one input source.
func checkPulse(ctx context.Context) Check {
	sources, err := audio.ListSources(ctx)
	if err != nil {
		return Check{Name: "pulse", Pass: false, Message: err.Error()}
	}
	if len(sources) == 0 {
		return Check{Name: "pulse", Pass: false, Message: "no input sources"}
	}
	return Check{Name: "pulse", Pass: true, Message: fmt.Sprintf("%d input sources", len(sources))}
}

// checkHTTPHealth probes a service health endpoint.
func checkHTTPHealth(name, baseURL string) Check {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		return Check{Name: name, Pass: false, Message: "service URL is empty"}
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	url := strings.TrimRight(base, "/") + "/health"
	client := http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 256))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("HTTP %d from %s", resp.StatusCode, url)}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("ready at %s", url)}
}
