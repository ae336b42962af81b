package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fzft/go-hashmap/hashfn"
	"github.com/fzft/go-hashmap/hashmap"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	HmcliHisFileEnv     = "HMCLI_HISTFILE"
	HmcliHisFileDefault = ".hmcli_history"
	HmcliRCFileEnv      = "HMCLI_RCFILE"
	HmcliRCFileDefault  = ".hmclirc"
)

type OutputMode uint8

const (
	OutputStandard OutputMode = iota
	OutputRaw
	OutputRESP
)

// Config holds the shell settings. Values from the preferences file are
// loaded first and become the flag defaults, so explicit flags win.
type Config struct {
	Capacity  int    `yaml:"capacity"`
	MaxMemory int64  `yaml:"max_memory"`
	Hash      string `yaml:"hash"`
	Raw       bool   `yaml:"raw"`
	NoRaw     bool   `yaml:"-"`
	RESP      bool   `yaml:"resp"`
	Pipe      bool   `yaml:"-"`
	Verbose   bool   `yaml:"verbose"`
	History   bool   `yaml:"history"`
}

func defaultConfig() Config {
	return Config{
		Capacity: hashmap.DefaultCapacity,
		Hash:     hashfn.Default,
		History:  true,
	}
}

func (c *Config) RegisterFlags(f *pflag.FlagSet) {
	f.IntVar(&c.Capacity, "capacity", c.Capacity, "initial number of slots, a power of two")
	f.Int64Var(&c.MaxMemory, "max-memory", c.MaxMemory, "byte budget of the table, 0 for no limit")
	f.StringVar(&c.Hash, "hash", c.Hash, "hash function: "+strings.Join(hashfn.Names(), ", "))
	f.BoolVar(&c.Raw, "raw", c.Raw, "use raw formatting for replies (default when STDOUT is not a tty)")
	f.BoolVar(&c.NoRaw, "no-raw", c.NoRaw, "force formatted output even when STDOUT is not a tty")
	f.BoolVar(&c.RESP, "resp", c.RESP, "write replies in RESP2 wire format")
	f.BoolVar(&c.Pipe, "pipe", c.Pipe, "read RESP encoded commands from STDIN")
	f.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "log table events at debug level")
	f.BoolVar(&c.History, "history", c.History, "keep line history in the history file")
}

func (c *Config) Validate() error {
	if _, ok := hashfn.ByName(c.Hash); !ok {
		return fmt.Errorf("unknown hash %q, want one of %s", c.Hash, strings.Join(hashfn.Names(), ", "))
	}
	if c.Capacity <= 0 || c.Capacity&(c.Capacity-1) != 0 {
		return fmt.Errorf("capacity %d must be a positive power of two", c.Capacity)
	}
	if c.MaxMemory < 0 {
		return fmt.Errorf("max-memory must not be negative")
	}
	if c.Raw && c.NoRaw {
		return fmt.Errorf("--raw and --no-raw are mutually exclusive")
	}
	return nil
}

// output picks the reply format. Raw is the default when stdout is not a
// terminal.
func (c *Config) output(stdoutTTY bool) OutputMode {
	switch {
	case c.RESP:
		return OutputRESP
	case c.Raw:
		return OutputRaw
	case c.NoRaw || stdoutTTY:
		return OutputStandard
	default:
		return OutputRaw
	}
}

func (c *Config) tableOptions(logger *zap.Logger) []hashmap.Option {
	return []hashmap.Option{
		hashmap.WithCapacity(c.Capacity),
		hashmap.WithMaxMemory(c.MaxMemory),
		hashmap.WithLogger(logger),
	}
}

// getDotfilePath resolves a per-user file: the envOverride variable wins,
// "/dev/null" disables the file, otherwise it sits in the home directory.
func getDotfilePath(envOverride, dotFilename string) string {
	switch path := os.Getenv(envOverride); path {
	case os.DevNull:
		return ""
	case "":
	default:
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, dotFilename)
}

// loadPreferences reads the YAML preferences file into c. A missing file is
// not an error.
func loadPreferences(path string, c *Config) error {
	if path == "" {
		return nil
	}
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(content, c); err != nil {
		return fmt.Errorf("preferences %s: %w", path, err)
	}
	return nil
}
