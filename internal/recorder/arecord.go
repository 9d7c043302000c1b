package recorder

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"
)

// ArecordLauncher launches ALSA's arecord for WAV capture.
type ArecordLauncher struct {
	bin string
}

func NewArecordLauncher(bin string) *ArecordLauncher {
	if bin == "" {
		bin = "arecord"
	}
	return &ArecordLauncher{bin: bin}
}

func (l *ArecordLauncher) Launch(params Params) (Process, error) {
	cmd := exec.Command(l.bin, arecordArgs(params)...)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", l.bin, err)
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
		close(waitErr)
	}()

	return &osProcess{cmd: cmd, waitErr: waitErr}, nil
}

func arecordArgs(params Params) []string {
	return []string{
		"-D", params.Device,
		"-f", params.Format,
		"-c", "1",
		"-r", strconv.Itoa(params.Rate),
		"-t", "wav",
		params.OutputPath,
	}
}

// osProcess adapts one exec.Cmd to the Process contract. The single Wait
// goroutine owns reaping; Wait and Kill receive its result so the child is
// never left as a zombie on any exit path.
type osProcess struct {
	cmd     *exec.Cmd
	waitErr chan error
}

func (p *osProcess) Interrupt() error {
	return p.cmd.Process.Signal(os.Interrupt)
}

func (p *osProcess) Wait(timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-p.waitErr:
		return normalizeExit(err)
	case <-timer.C:
		return ErrWaitTimeout
	}
}

func (p *osProcess) Kill() error {
	if err := p.cmd.Process.Kill(); err != nil {
		return err
	}
	return normalizeExit(<-p.waitErr)
}

// normalizeExit drops exit-status errors: arecord stopped by a signal is
// the expected outcome, not a failure.
func normalizeExit(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}
