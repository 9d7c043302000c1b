// Package app wires configuration, hardware, and services into the
// portavoce commands.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/emassari/portavoce/internal/asr"
	"github.com/emassari/portavoce/internal/audio"
	"github.com/emassari/portavoce/internal/cli"
	"github.com/emassari/portavoce/internal/config"
	"github.com/emassari/portavoce/internal/controller"
	"github.com/emassari/portavoce/internal/display"
	"github.com/emassari/portavoce/internal/doctor"
	"github.com/emassari/portavoce/internal/gpio"
	"github.com/emassari/portavoce/internal/input"
	"github.com/emassari/portavoce/internal/logging"
	"github.com/emassari/portavoce/internal/mt"
	"github.com/emassari/portavoce/internal/pipeline"
	"github.com/emassari/portavoce/internal/player"
	"github.com/emassari/portavoce/internal/recorder"
	"github.com/emassari/portavoce/internal/selector"
	"github.com/emassari/portavoce/internal/tts"
	"github.com/emassari/portavoce/internal/version"
)

const serviceTimeout = 30 * time.Second

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("portavoce"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("portavoce"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		fmt.Fprintf(r.Stderr, "warning: %s\n", w.Message)
		logger.Warn("config warning", "message", w.Message)
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(ctx, cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandDevices:
		return r.commandDevices(ctx)
	case cli.CommandRun:
		return r.commandRun(ctx, cfgLoaded.Config, parsed.Console, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

func (r Runner) commandDevices(ctx context.Context) int {
	sources, err := audio.ListSources(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	sinks, err := audio.ListSinks(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(sources) == 0 && len(sinks) == 0 {
		fmt.Fprintln(r.Stdout, "no audio devices found")
		return 1
	}

	fmt.Fprintln(r.Stdout, "sources:")
	for _, source := range sources {
		defaultMark := " "
		if source.Default {
			defaultMark = "*"
		}
		availability := "yes"
		if !source.Available {
			availability = "no"
		}
		fmt.Fprintf(r.Stdout, "%s id=%s | description=%q | state=%s | available=%s\n",
			defaultMark, source.ID, source.Description, source.State, availability)
	}

	fmt.Fprintln(r.Stdout, "sinks:")
	for _, sink := range sinks {
		defaultMark := " "
		if sink.Default {
			defaultMark = "*"
		}
		fmt.Fprintf(r.Stdout, "%s id=%s | description=%q | state=%s\n",
			defaultMark, sink.ID, sink.Description, sink.State)
	}

	return 0
}

// commandRun assembles the device loop: GPIO lines (or console
// stand-ins), the display, the capture session, the speech services,
// and the controller that ties them together.
func (r Runner) commandRun(ctx context.Context, cfg config.Config, console bool, logger *slog.Logger) int {
	disp := display.New(
		display.NewConsoleScreen(r.Stdout),
		cfg.Display.Cols,
		cfg.Display.Rows,
		time.Duration(cfg.Display.ScrollIntervalMS)*time.Millisecond,
		logger,
	)

	lines, closeLines, err := r.openLines(cfg, console, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("gpio setup failed", "error", err.Error())
		return 1
	}
	defer closeLines()

	debounce := time.Duration(cfg.Input.DebounceMS) * time.Millisecond
	poll := time.Duration(cfg.Input.PollMS) * time.Millisecond
	longPress := time.Duration(cfg.Input.LongPressMS) * time.Millisecond

	// Pull-up wiring: a pressed button reads low.
	buttonA := input.NewButton(lines.buttonA, false, debounce)
	buttonB := input.NewButton(lines.buttonB, false, debounce)
	hold := input.NewLongPress(lines.encoderSW, false, debounce, longPress)
	sel := selector.New(lines.encoderCLK, lines.encoderDT, lines.encoderSW, disp, debounce, poll, logger)

	session := recorder.NewSession(
		recorder.NewArecordLauncher("arecord"),
		cfg.Audio.CaptureDevice,
		cfg.Audio.Rate,
		cfg.Audio.Format,
		cfg.Recording.OutDir,
		cfg.Recording.Filename,
		logger,
	)

	transcriber := asr.NewClient(cfg.Services.ASRURL, serviceTimeout, logger)
	translator := mt.NewClient(cfg.Services.MTURL, serviceTimeout, logger)
	synthesizer := r.buildSynthesizer(cfg, logger)
	speaker := player.New(
		cfg.Audio.PlaybackDevice,
		cfg.Audio.SinkHint,
		logger,
		player.WithSinkResolver(player.SinkResolverFunc(audio.ResolveSink)),
	)
	pipe := pipeline.New(transcriber, translator, synthesizer, speaker, disp, logger)

	if cfg.Services.Warmup {
		warmupServices(ctx, cfg, transcriber, translator, logger)
	}

	choices := make([]selector.Choice, 0, len(cfg.Languages))
	for _, lang := range cfg.Languages {
		choices = append(choices, selector.Choice{Name: lang.Name, Code: lang.Code})
	}

	ctrl := controller.New(controller.Config{
		ButtonA:      buttonA,
		ButtonB:      buttonB,
		LongPress:    hold,
		Selector:     sel,
		Recorder:     session,
		Pipeline:     pipe,
		Display:      disp,
		Choices:      choices,
		PollInterval: poll,
		StopGrace:    time.Duration(cfg.Recording.StopGraceMS) * time.Millisecond,
		Logger:       logger,
	})

	if err := ctrl.SelectLanguagesStartup(ctx); err != nil {
		if ctx.Err() != nil {
			return 0
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("startup selection failed", "error", err.Error())
		return 1
	}
	if err := ctrl.Run(ctx); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("run failed", "error", err.Error())
		return 1
	}
	return 0
}

func (r Runner) buildSynthesizer(cfg config.Config, logger *slog.Logger) pipeline.Synthesizer {
	if cfg.TTS.Backend == "piper" {
		return tts.NewPiperEngine(cfg.TTS.PiperBin, cfg.TTS.VoiceDir, cfg.TTS.OutDir, cfg.TTS.Voices, logger)
	}
	return tts.NewServiceEngine(cfg.Services.TTSURL, cfg.TTS.OutDir, serviceTimeout, logger)
}

// inputLines bundles the five device inputs behind LevelReaders.
type inputLines struct {
	buttonA    input.LevelReader
	buttonB    input.LevelReader
	encoderCLK input.LevelReader
	encoderDT  input.LevelReader
	encoderSW  input.LevelReader
}

// openLines requests the configured GPIO offsets. In console mode all
// lines read as idle high so the loop can run without hardware.
func (r Runner) openLines(cfg config.Config, console bool, logger *slog.Logger) (inputLines, func(), error) {
	if console || cfg.Display.Console {
		logger.Info("console mode: gpio inputs are inert")
		idle := input.LevelFunc(func() input.Level { return input.High })
		return inputLines{
			buttonA:    idle,
			buttonB:    idle,
			encoderCLK: idle,
			encoderDT:  idle,
			encoderSW:  idle,
		}, func() {}, nil
	}

	chip, err := gpio.OpenChip(cfg.Chip, logger)
	if err != nil {
		return inputLines{}, nil, err
	}

	lines := inputLines{}
	for _, req := range []struct {
		offset int
		dest   *input.LevelReader
	}{
		{cfg.Pins.ButtonA, &lines.buttonA},
		{cfg.Pins.ButtonB, &lines.buttonB},
		{cfg.Pins.EncoderCLK, &lines.encoderCLK},
		{cfg.Pins.EncoderDT, &lines.encoderDT},
		{cfg.Pins.EncoderSW, &lines.encoderSW},
	} {
		line, err := chip.RequestInput(req.offset)
		if err != nil {
			_ = chip.Close()
			return inputLines{}, nil, err
		}
		*req.dest = line
	}

	return lines, func() { _ = chip.Close() }, nil
}

// warmupServices pings the speech services once so first-use latency is
// paid at startup instead of on the first utterance.
func warmupServices(ctx context.Context, cfg config.Config, transcriber *asr.Client, translator *mt.Client, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := transcriber.Health(ctx); err != nil {
		logger.Warn("asr warmup failed", "error", err.Error())
	}
	if err := translator.Health(ctx); err != nil {
		logger.Warn("mt warmup failed", "error", err.Error())
	}
	if cfg.TTS.Backend == "service" {
		engine := tts.NewServiceEngine(cfg.Services.TTSURL, cfg.TTS.OutDir, serviceTimeout, logger)
		if err := engine.Health(ctx); err != nil {
			logger.Warn("tts warmup failed", "error", err.Error())
		}
	}
}
