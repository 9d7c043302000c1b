// Package player plays synthesized WAV artifacts through aplay, routing
// output through PulseAudio when configured.
package player

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// SinkResolver matches a configured sink hint against live Pulse sinks.
type SinkResolver interface {
	ResolveSink(ctx context.Context, hint string) (string, error)
}

// SinkResolverFunc adapts a function to the SinkResolver interface.
type SinkResolverFunc func(ctx context.Context, hint string) (string, error)

func (f SinkResolverFunc) ResolveSink(ctx context.Context, hint string) (string, error) {
	return f(ctx, hint)
}

// Player shells out to aplay for playback. When the configured device is
// "pulse" the sink hint is resolved and exported via PULSE_SINK so Pulse
// routes the stream; for raw ALSA devices playback is wrapped in
// pasuspender when available so Pulse releases the hardware.
type Player struct {
	device   string
	sinkHint string
	resolver SinkResolver
	logger   *slog.Logger
	timeout  time.Duration

	lookPath func(file string) (string, error)
	run      func(ctx context.Context, name string, args, env []string) error
}

// Option configures a Player.
type Option func(*Player)

// WithSinkResolver sets the resolver used for "pulse" device routing.
func WithSinkResolver(r SinkResolver) Option {
	return func(p *Player) { p.resolver = r }
}

// WithTimeout bounds a single playback invocation.
func WithTimeout(d time.Duration) Option {
	return func(p *Player) { p.timeout = d }
}

// New builds a Player for the given ALSA device and Pulse sink hint.
func New(device, sinkHint string, logger *slog.Logger, opts ...Option) *Player {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p := &Player{
		device:   device,
		sinkHint: sinkHint,
		logger:   logger,
		timeout:  2 * time.Minute,
		lookPath: exec.LookPath,
		run:      runCommand,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play blocks until the WAV file has finished playing or ctx is
// cancelled.
func (p *Player) Play(ctx context.Context, wavPath string) error {
	if wavPath == "" {
		return nil
	}
	if _, err := os.Stat(wavPath); err != nil {
		return fmt.Errorf("playback artifact missing: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	name, args, env := p.command(ctx, wavPath)

	start := time.Now()
	if err := p.run(ctx, name, args, env); err != nil {
		return fmt.Errorf("aplay %s: %w", wavPath, err)
	}
	p.logger.Debug("playback finished",
		slog.String("path", wavPath),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// command builds the playback invocation for the configured device.
func (p *Player) command(ctx context.Context, wavPath string) (name string, args, env []string) {
	args = []string{"-D", p.device, wavPath}

	if p.device == "pulse" {
		sink, err := p.resolveSink(ctx)
		switch {
		case err != nil:
			p.logger.Warn("sink resolution failed, using default sink",
				slog.String("hint", p.sinkHint),
				slog.String("error", err.Error()))
		case sink != "":
			env = append(env, "PULSE_SINK="+sink)
		}
		return "aplay", args, env
	}

	// Direct ALSA device: suspend Pulse for the duration when possible
	// so aplay can open the hardware.
	if _, err := p.lookPath("pasuspender"); err == nil {
		return "pasuspender", append([]string{"--", "aplay"}, args...), nil
	}
	return "aplay", args, nil
}

func (p *Player) resolveSink(ctx context.Context) (string, error) {
	if p.resolver == nil || p.sinkHint == "" {
		return "", nil
	}
	return p.resolver.ResolveSink(ctx, p.sinkHint)
}

func runCommand(ctx context.Context, name string, args, env []string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)
	return cmd.Run()
}
