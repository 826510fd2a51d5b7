package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fromremote/internal/analyze"
	"fromremote/internal/gen"
)

func TestLoadWithViper_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, analyze.DefaultDirective, cfg.Directive)
	assert.Equal(t, gen.DefaultFilename, cfg.Output)
	assert.Equal(t, gen.DefaultHeader, cfg.Header)
	assert.Equal(t, 0, cfg.Workers)
	assert.True(t, cfg.Comments)
	assert.False(t, cfg.Log.JSON)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DefaultDebounceMs, cfg.Watch.DebounceMs)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	content := `
directive = "convert"
output = "convert_gen.go"
workers = 4

[log]
json = true
level = "debug"

[watch]
debounce_ms = 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(New(), path, "")
	require.NoError(t, err)

	assert.Equal(t, "convert", cfg.Directive)
	assert.Equal(t, "convert_gen.go", cfg.Output)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 50, cfg.Watch.DebounceMs)
	assert.Equal(t, gen.DefaultHeader, cfg.Header)
}

func TestLoad_FindsFileUpwards(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("workers = 2\n"), 0o600))

	assert.Equal(t, filepath.Join(root, FileName), FindFile(nested))

	cfg, err := Load(New(), "", nested)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load(New(), "", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, gen.DefaultFilename, cfg.Output)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.toml"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("FROMREMOTE_WORKERS", "3")
	t.Setenv("FROMREMOTE_LOG_LEVEL", "warn")

	cfg, err := Load(New(), "", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{Directive: "fromremote", Output: "x_gen.go"}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "negative workers", mutate: func(c *Config) { c.Workers = -1 }, wantErr: "workers"},
		{name: "negative debounce", mutate: func(c *Config) { c.Watch.DebounceMs = -5 }, wantErr: "debounce"},
		{name: "empty directive", mutate: func(c *Config) { c.Directive = "" }, wantErr: "directive"},
		{name: "directive with colon", mutate: func(c *Config) { c.Directive = "a:b" }, wantErr: "directive"},
		{name: "output with dir", mutate: func(c *Config) { c.Output = "sub/x.go" }, wantErr: "output"},
		{name: "output not go", mutate: func(c *Config) { c.Output = "x.txt" }, wantErr: "output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
