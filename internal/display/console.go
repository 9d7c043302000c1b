package display

import (
	"fmt"
	"io"
	"sync"
)

// ConsoleScreen renders panel rows to a writer. It stands in for the I2C
// panel during headless development and in tests.
type ConsoleScreen struct {
	mu   sync.Mutex
	out  io.Writer
	rows map[int]string
}

func NewConsoleScreen(out io.Writer) *ConsoleScreen {
	return &ConsoleScreen{out: out, rows: map[int]string{}}
}

func (s *ConsoleScreen) WriteLine(row int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[row] = text
	_, err := fmt.Fprintf(s.out, "[lcd:%d] %s\n", row, text)
	return err
}

func (s *ConsoleScreen) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = map[int]string{}
	_, err := fmt.Fprintln(s.out, "[lcd] clear")
	return err
}
