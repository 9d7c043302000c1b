package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNoArgsShowsHelp(t *testing.T) {
	parsed, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, CommandHelp, parsed.Command)
	require.True(t, parsed.ShowHelp)
}

func TestParseCommands(t *testing.T) {
	for _, cmd := range []Command{CommandRun, CommandDevices, CommandDoctor, CommandVersion} {
		parsed, err := Parse([]string{string(cmd)})
		require.NoError(t, err)
		require.Equal(t, cmd, parsed.Command)
		require.False(t, parsed.ShowHelp)
	}
}

func TestParseConfigFlag(t *testing.T) {
	parsed, err := Parse([]string{"--config", "/etc/pv.yaml", "run"})
	require.NoError(t, err)
	require.Equal(t, CommandRun, parsed.Command)
	require.Equal(t, "/etc/pv.yaml", parsed.ConfigPath)
}

func TestParseConfigFlagAfterCommand(t *testing.T) {
	parsed, err := Parse([]string{"run", "--config", "/etc/pv.yaml"})
	require.NoError(t, err)
	require.Equal(t, CommandRun, parsed.Command)
	require.Equal(t, "/etc/pv.yaml", parsed.ConfigPath)
}

func TestParseConsoleFlag(t *testing.T) {
	parsed, err := Parse([]string{"run", "--console"})
	require.NoError(t, err)
	require.True(t, parsed.Console)
}

func TestParseConfigRequiresPath(t *testing.T) {
	_, err := Parse([]string{"--config"})
	require.ErrorContains(t, err, "--config requires a path")
}

func TestParseUnknownFlag(t *testing.T) {
	_, err := Parse([]string{"--verbose"})
	require.ErrorContains(t, err, "unknown flag")
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse([]string{"translate"})
	require.ErrorContains(t, err, "unknown command")
}

func TestParseRejectsSecondCommand(t *testing.T) {
	_, err := Parse([]string{"run", "devices"})
	require.ErrorContains(t, err, "unexpected argument")
}

func TestParseVersionFlag(t *testing.T) {
	parsed, err := Parse([]string{"--version"})
	require.NoError(t, err)
	require.Equal(t, CommandVersion, parsed.Command)
	require.False(t, parsed.ShowHelp)
}

func TestHelpTextMentionsCommands(t *testing.T) {
	text := HelpText("portavoce")
	for _, want := range []string{"portavoce", "run", "devices", "doctor", "version", "--config", "--console"} {
		require.Contains(t, text, want)
	}
}
