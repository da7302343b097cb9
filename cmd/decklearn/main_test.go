package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/decklearn/internal/testutil"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantLevel slog.Level
	}{
		{
			name:      "debug mode enabled",
			debugMode: true,
			wantLevel: slog.LevelDebug,
		},
		{
			name:      "debug mode disabled",
			debugMode: false,
			wantLevel: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			logger := slog.Default()
			assert.NotNil(t, logger)
			assert.Equal(t, tt.wantLevel <= slog.LevelDebug, logger.Enabled(context.Background(), slog.LevelDebug))
		})
	}
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()

	assert.Equal(t, "decklearn", cmd.Use)
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"migrate", "deck", "study", "history", "stats"})

	deckCmd, _, err := cmd.Find([]string{"deck"})
	require.NoError(t, err)
	var deckNames []string
	for _, sub := range deckCmd.Commands() {
		deckNames = append(deckNames, sub.Name())
	}
	assert.ElementsMatch(t, []string{"create", "list", "delete", "import", "add"}, deckNames)
}

// execute runs the CLI with the config file written by setupEnvironment.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", testConfigPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

var testConfigPath string

func setupEnvironment(t *testing.T) string {
	t.Helper()
	color.NoColor = true
	dir := t.TempDir()
	testConfigPath = testutil.SetupTestConfig(t, dir)
	return dir
}

var deckIDPattern = regexp.MustCompile(`\(([0-9a-f-]{36})\)`)

func TestCommands_EndToEnd(t *testing.T) {
	dir := setupEnvironment(t)

	out, err := execute(t, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Migrated up")

	out, err = execute(t, "", "deck", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No decks yet.")

	deckFile := filepath.Join(dir, "capitals.yaml")
	require.NoError(t, os.WriteFile(deckFile, []byte(`title: Capitals
description: European capitals
cards:
  - question: France
    answer: Paris
  - question: Italy
    answer: Rome
`), 0o600))
	out, err = execute(t, "", "deck", "import", deckFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 cards into deck Capitals")
	match := deckIDPattern.FindStringSubmatch(out)
	require.Len(t, match, 2)
	deckID := match[1]

	out, err = execute(t, "", "deck", "add", deckID, "--question", "Spain", "--answer", "Madrid")
	require.NoError(t, err)
	assert.Contains(t, out, "Added card")

	out, err = execute(t, "", "deck", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Capitals")
	assert.Contains(t, out, deckID)

	out, err = execute(t, "f\n3\nf\n1\nf\n4\n", "study", deckID, "--mode", "fsrs")
	require.NoError(t, err)
	assert.Contains(t, out, "Studying Capitals")
	assert.Contains(t, out, "Session complete: 3 cards")
	assert.Contains(t, out, "Again: 1  Hard: 0  Good: 1  Easy: 1")

	// Every card was just reviewed, so nothing is due.
	out, err = execute(t, "", "study", deckID)
	require.NoError(t, err)
	assert.Contains(t, out, "No cards are due.")

	out, err = execute(t, "q\n", "study", deckID, "--mode", "manual", "--band", "any", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "[1/1] manual (Any, limit 1)")
	assert.Contains(t, out, "Session abandoned after 0 reviews.")

	out, err = execute(t, "", "history", deckID)
	require.NoError(t, err)
	assert.Contains(t, out, "fsrs")
	assert.Contains(t, out, "66.7%")

	out, err = execute(t, "", "stats", deckID)
	require.NoError(t, err)
	assert.Contains(t, out, "Reviews")
	assert.Contains(t, out, "Difficulty")
	assert.Contains(t, out, "Very Hard")

	out, err = execute(t, "", "deck", "delete", deckID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted deck "+deckID)

	_, err = execute(t, "", "history", deckID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deck not found")
}

func TestCommands_InvalidArguments(t *testing.T) {
	setupEnvironment(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "unknown migration direction",
			args:    []string{"migrate", "sideways"},
			wantErr: `invalid argument "sideways"`,
		},
		{
			name:    "study unknown deck",
			args:    []string{"study", "missing"},
			wantErr: "deck not found: missing",
		},
		{
			name:    "study with unknown mode",
			args:    []string{"study", "missing", "--mode", "cram"},
			wantErr: `unknown session mode "cram"`,
		},
		{
			name:    "study with invalid limit",
			args:    []string{"study", "missing", "--limit", "0"},
			wantErr: "limit must be a positive integer",
		},
		{
			name:    "stats with invalid month",
			args:    []string{"stats", "missing", "--month", "April"},
			wantErr: `invalid month "April"`,
		},
		{
			name:    "add empty card",
			args:    []string{"deck", "add", "missing", "--question", "France", "--answer", ""},
			wantErr: "invalid card: answer is a required field",
		},
		{
			name:    "delete unknown deck",
			args:    []string{"deck", "delete", "missing"},
			wantErr: "deck not found: missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
