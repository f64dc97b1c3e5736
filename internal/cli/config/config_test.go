package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringP("dialect", "d", "", "")
	fs.StringP("output", "o", "", "")
	fs.Int("max-steps", 0, "")
	fs.Duration("timeout", 0, "")
	fs.StringSlice("extensions", nil, "")
	fs.Bool("strict", false, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	cfgPath := filepath.Join("testdata", "duckdb.yaml")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "duckdb", cfg.Dialect)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 50000, cfg.MaxSteps)
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth, "unset keys keep defaults")
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, []string{".sql", ".ddl"}, cfg.Extensions)
	assert.Equal(t, cfgPath, GetConfigFileUsed())
}

func TestLoadConfig_SearchesParents(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "leapparse.yml"), []byte("dialect: postgres\n"), 0o600))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, "leapparse.yml", filepath.Base(GetConfigFileUsed()))
}

func TestLoadConfig_Precedence(t *testing.T) {
	ResetConfig()
	cfgPath := filepath.Join("testdata", "duckdb.yaml")
	t.Setenv("LEAPPARSE_DIALECT", "postgres")
	t.Setenv("LEAPPARSE_MAX_STEPS", "123")
	t.Setenv("LEAPPARSE_TIMEOUT", "2m")
	t.Setenv("LEAPPARSE_EXTENSIONS", ".sql,.pgsql")

	t.Run("env overrides file", func(t *testing.T) {
		cfg, err := LoadConfig(cfgPath, newFlagSet(t))
		require.NoError(t, err)
		assert.Equal(t, "postgres", cfg.Dialect)
		assert.Equal(t, 123, cfg.MaxSteps)
		assert.Equal(t, 2*time.Minute, cfg.Timeout)
		assert.Equal(t, []string{".sql", ".pgsql"}, cfg.Extensions)
		assert.Equal(t, "json", cfg.Output, "file value without env override")
	})

	t.Run("explicit flags override env", func(t *testing.T) {
		fs := newFlagSet(t, "-d", "ANSI", "--max-steps=7", "--timeout=1s", "--extensions=tsql", "--strict")
		cfg, err := LoadConfig(cfgPath, fs)
		require.NoError(t, err)
		assert.Equal(t, "ansi", cfg.Dialect)
		assert.Equal(t, 7, cfg.MaxSteps)
		assert.Equal(t, time.Second, cfg.Timeout)
		assert.Equal(t, []string{".tsql"}, cfg.Extensions)
		assert.True(t, cfg.Strict)
	})
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name      string
		cfgFile   string
		env       map[string]string
		errSubstr string
	}{
		{
			name:      "missing explicit file",
			cfgFile:   filepath.Join("testdata", "nope.yaml"),
			errSubstr: "error reading config file",
		},
		{
			name:      "malformed yaml",
			cfgFile:   filepath.Join("testdata", "broken.yaml"),
			errSubstr: "error reading config file",
		},
		{
			name:      "unknown output mode",
			cfgFile:   filepath.Join("testdata", "invalid_output.yaml"),
			errSubstr: `output must be one of`,
		},
		{
			name:      "negative workers",
			env:       map[string]string{"LEAPPARSE_WORKERS": "-1"},
			errSubstr: "workers is out of range",
		},
		{
			name:      "bad log level",
			env:       map[string]string{"LEAPPARSE_LOG_LEVEL": "trace"},
			errSubstr: "log_level must be one of",
		},
		{
			name:      "bad duration",
			env:       map[string]string{"LEAPPARSE_TIMEOUT": "soon"},
			errSubstr: "unable to decode config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			cfgFile := tt.cfgFile
			if cfgFile != "" {
				abs, err := filepath.Abs(cfgFile)
				require.NoError(t, err)
				cfgFile = abs
			}
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig(cfgFile, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
			assert.Nil(t, GetCurrentConfig())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid default", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})

	t.Run("empty dialect", func(t *testing.T) {
		cfg := Default()
		cfg.Dialect = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dialect is required")
	})

	t.Run("extensions need a dot", func(t *testing.T) {
		cfg := Default()
		cfg.Extensions = []string{"sql"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must start with")
	})

	t.Run("no extensions", func(t *testing.T) {
		cfg := Default()
		cfg.Extensions = nil
		assert.Error(t, cfg.Validate())
	})
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), in)
	}
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "max_steps", toSnake("MaxSteps"))
	assert.Equal(t, "show_non_code", toSnake("ShowNonCode"))
	assert.Equal(t, "dialect", toSnake("Dialect"))
}
