package linenoise

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

// LineNoise is a line editor with in-memory history and optional
// completion of command names.
type LineNoise struct {
	*liner.State
	out io.Writer
}

func New() *LineNoise {
	ln := &LineNoise{State: liner.NewLiner(), out: os.Stdout}
	ln.SetCtrlCAborts(true)
	return ln
}

// HistoryLoad appends the lines of the file at path to the history.
func (ln *LineNoise) HistoryLoad(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = ln.ReadHistory(f)
	return err
}

// HistorySave replaces the file at path with the current history. The file
// is written next to path and renamed over it, so a failed save keeps the
// previous history.
func (ln *LineNoise) HistorySave(path string) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()
	if _, err = ln.WriteHistory(f); err != nil {
		return err
	}
	if err = f.Chmod(0644); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

func (ln *LineNoise) ClearScreen() error {
	_, err := fmt.Fprint(ln.out, "\x1b[H\x1b[2J")
	return err
}

// SetCommands completes the first word of a line against names, case
// insensitively.
func (ln *LineNoise) SetCommands(names []string) {
	ln.SetCompleter(func(line string) []string {
		if strings.ContainsRune(line, ' ') {
			return nil
		}
		var c []string
		for _, name := range names {
			if strings.HasPrefix(strings.ToLower(name), strings.ToLower(line)) {
				c = append(c, name)
			}
		}
		return c
	})
}
