// Package recorder owns the push-to-talk capture session: one external
// arecord process whose lifecycle is start, graceful stop, and a forced
// kill fallback when the process ignores the stop signal.
package recorder

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// ErrWaitTimeout reports that a capture process did not exit within the
// graceful-stop window.
var ErrWaitTimeout = errors.New("capture process wait timed out")

// Params describes one capture launch.
type Params struct {
	Device     string
	Rate       int
	Format     string
	OutputPath string
}

// Process is the handle contract for a running capture subprocess.
type Process interface {
	// Interrupt sends the graceful stop signal.
	Interrupt() error
	// Wait blocks until exit or the timeout elapses, returning
	// ErrWaitTimeout in the latter case.
	Wait(timeout time.Duration) error
	// Kill force-terminates the process and reaps it unconditionally.
	Kill() error
}

// Launcher starts a capture process bound to an output path.
type Launcher interface {
	Launch(params Params) (Process, error)
}

// Session is the single recording session owned by the controller. It is
// Idle or Recording; Start and Stop are the only transitions and Stop
// always lands back in Idle no matter which exit path the process took.
type Session struct {
	launcher Launcher
	device   string
	rate     int
	format   string
	outDir   string
	filename string
	logger   *slog.Logger
	now      func() time.Time

	proc      Process
	startedAt time.Time
}

func NewSession(launcher Launcher, device string, rate int, format, outDir, filename string, logger *slog.Logger) *Session {
	if filename == "" {
		filename = "speech.wav"
	}
	return &Session{
		launcher: launcher,
		device:   device,
		rate:     rate,
		format:   format,
		outDir:   outDir,
		filename: filename,
		logger:   logger,
		now:      time.Now,
	}
}

// IsRecording reports whether a capture process is live.
func (s *Session) IsRecording() bool {
	return s.proc != nil
}

// WavPath returns the fixed capture output path.
func (s *Session) WavPath() string {
	return filepath.Join(s.outDir, s.filename)
}

// Start launches the capture process. Calling Start while already
// recording is a no-op.
func (s *Session) Start() error {
	if s.proc != nil {
		return nil
	}

	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return fmt.Errorf("create capture output dir %q: %w", s.outDir, err)
	}

	proc, err := s.launcher.Launch(Params{
		Device:     s.device,
		Rate:       s.rate,
		Format:     s.format,
		OutputPath: s.WavPath(),
	})
	if err != nil {
		return fmt.Errorf("start capture: %w", err)
	}

	s.proc = proc
	s.startedAt = s.now()
	s.logInfo("recording started", "path", s.WavPath())
	return nil
}

// Stop ends the capture: graceful interrupt, bounded wait, then force-kill
// with an unconditional reap. It returns the elapsed recording duration,
// or zero when the session was already Idle.
func (s *Session) Stop(timeout time.Duration) time.Duration {
	if s.proc == nil {
		return 0
	}

	if err := s.proc.Interrupt(); err != nil {
		s.logWarn("capture interrupt failed", "error", err.Error())
	}

	if err := s.proc.Wait(timeout); err != nil {
		if errors.Is(err, ErrWaitTimeout) {
			s.logWarn("capture process ignored stop signal, killing", "timeout", timeout.String())
			if killErr := s.proc.Kill(); killErr != nil {
				s.logWarn("capture kill failed", "error", killErr.Error())
			}
		} else {
			s.logWarn("capture process exited with error", "error", err.Error())
		}
	}

	duration := s.now().Sub(s.startedAt)
	s.proc = nil
	s.startedAt = time.Time{}
	s.logInfo("recording stopped", "duration_ms", duration.Milliseconds())
	return duration
}

func (s *Session) logInfo(msg string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Info(msg, args...)
}

func (s *Session) logWarn(msg string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(msg, args...)
}
