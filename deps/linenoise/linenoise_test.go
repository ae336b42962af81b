package linenoise

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	ln := New()
	ln.AppendHistory("SET a b")
	ln.AppendHistory("GET a")
	require.NoError(t, ln.HistorySave(path))
	require.NoError(t, ln.Close())

	ln = New()
	defer ln.Close()
	require.NoError(t, ln.HistoryLoad(path))

	var buf bytes.Buffer
	_, err := ln.WriteHistory(&buf)
	require.NoError(t, err)
	assert.Equal(t, "SET a b\nGET a\n", buf.String())
}

func TestHistorySaveReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history")
	require.NoError(t, os.WriteFile(path, []byte("OLD\n"), 0600))

	ln := New()
	defer ln.Close()
	ln.AppendHistory("DEL a")
	require.NoError(t, ln.HistorySave(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "DEL a\n", string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestHistorySaveMissingDir(t *testing.T) {
	ln := New()
	defer ln.Close()
	assert.Error(t, ln.HistorySave(filepath.Join(t.TempDir(), "no", "history")))
}

func TestHistoryLoadMissing(t *testing.T) {
	ln := New()
	defer ln.Close()
	assert.Error(t, ln.HistoryLoad(filepath.Join(t.TempDir(), "nope")))
}

func TestClearScreen(t *testing.T) {
	var buf bytes.Buffer
	ln := &LineNoise{out: &buf}
	require.NoError(t, ln.ClearScreen())
	assert.Equal(t, "\x1b[H\x1b[2J", buf.String())
}
