package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	c := defaultConfig()
	require.NoError(t, c.Validate())

	bad := []func(c *Config){
		func(c *Config) { c.Hash = "md5" },
		func(c *Config) { c.Capacity = 0 },
		func(c *Config) { c.Capacity = 24 },
		func(c *Config) { c.MaxMemory = -1 },
		func(c *Config) { c.Raw, c.NoRaw = true, true },
	}
	for i, mutate := range bad {
		c := defaultConfig()
		mutate(&c)
		assert.Error(t, c.Validate(), "case %d", i)
	}
}

func TestConfigOutput(t *testing.T) {
	c := defaultConfig()
	assert.Equal(t, OutputRaw, c.output(false))
	assert.Equal(t, OutputStandard, c.output(true))

	c.NoRaw = true
	assert.Equal(t, OutputStandard, c.output(false))

	c = defaultConfig()
	c.Raw = true
	assert.Equal(t, OutputRaw, c.output(true))

	c.RESP = true
	assert.Equal(t, OutputRESP, c.output(true))
}

func TestLoadPreferences(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".hmclirc")
	require.NoError(t, os.WriteFile(path, []byte("capacity: 64\nhash: fnv32a\nmax_memory: 4096\nhistory: false\n"), 0644))

	c := defaultConfig()
	require.NoError(t, loadPreferences(path, &c))
	assert.Equal(t, 64, c.Capacity)
	assert.Equal(t, "fnv32a", c.Hash)
	assert.Equal(t, int64(4096), c.MaxMemory)
	assert.False(t, c.History)

	// flags registered after loading use the file values as defaults and
	// explicit flags win
	fs := pflag.NewFlagSet("hmcli", pflag.ContinueOnError)
	c.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--capacity", "8"}))
	assert.Equal(t, 8, c.Capacity)
	assert.Equal(t, "fnv32a", c.Hash)

	c = defaultConfig()
	require.NoError(t, loadPreferences(filepath.Join(dir, "missing"), &c))
	assert.Equal(t, defaultConfig(), c)
	require.NoError(t, loadPreferences("", &c))

	require.NoError(t, os.WriteFile(path, []byte("capacity: [1"), 0644))
	assert.Error(t, loadPreferences(path, &c))
}

func TestGetDotfilePath(t *testing.T) {
	t.Setenv("HOME", "/home/u")
	t.Setenv(HmcliRCFileEnv, "")
	assert.Equal(t, "/home/u/.hmclirc", getDotfilePath(HmcliRCFileEnv, HmcliRCFileDefault))

	t.Setenv(HmcliRCFileEnv, "/etc/hmclirc")
	assert.Equal(t, "/etc/hmclirc", getDotfilePath(HmcliRCFileEnv, HmcliRCFileDefault))

	t.Setenv(HmcliRCFileEnv, "/dev/null")
	assert.Equal(t, "", getDotfilePath(HmcliRCFileEnv, HmcliRCFileDefault))

	t.Setenv(HmcliRCFileEnv, "")
	t.Setenv("HOME", "/home/u/")
	assert.Equal(t, "/home/u/.hmclirc", getDotfilePath(HmcliRCFileEnv, HmcliRCFileDefault))

	t.Setenv("HOME", "")
	assert.Equal(t, "", getDotfilePath(HmcliRCFileEnv, HmcliRCFileDefault))
}

func TestVersion(t *testing.T) {
	assert.Equal(t, HmcliVersion, version("unknown", "unknown"))
	assert.Equal(t, HmcliVersion, version("00000000", "0"))
	assert.Equal(t, HmcliVersion+" (git:1a2b3c4d)", version("1a2b3c4d", "0"))
	assert.Equal(t, HmcliVersion+" (git:1a2b3c4d-dirty)", version("1a2b3c4d", "1"))
}
