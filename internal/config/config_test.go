package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoad(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "conf", "campuscms.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = ":9000"
	cfg.Session.Key = testKey
	cfg.Logging.Format = "console"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.NoError(t, loaded.Validate())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "campuscms.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  dsn: site.db\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "site.db", cfg.Database.DSN)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "uploads", cfg.Uploads.Dir)
}

func TestLoadMalformed(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "campuscms.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CAMPUSCMS_ADDR", "127.0.0.1:7000")
	t.Setenv("CAMPUSCMS_DSN", "file:test.db")
	t.Setenv("CAMPUSCMS_SESSION_KEY", testKey)
	t.Setenv("CAMPUSCMS_LOG_LEVEL", "debug")
	t.Setenv("CAMPUSCMS_UPLOAD_DIR", "/srv/uploads")
	t.Setenv("CAMPUSCMS_UPLOAD_MAX_BYTES", "2048")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, "file:test.db", cfg.Database.DSN)
	assert.Equal(t, testKey, cfg.Session.Key)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/srv/uploads", cfg.Uploads.Dir)
	assert.Equal(t, int64(2048), cfg.Uploads.MaxBytes)
}

func TestDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(".env", []byte("CAMPUSCMS_DSN=from-dotenv.db\nCAMPUSCMS_ADDR=:7777\n"), 0600))
	t.Setenv("CAMPUSCMS_ADDR", ":6666")
	t.Setenv("CAMPUSCMS_DSN", "")
	os.Unsetenv("CAMPUSCMS_DSN")

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":6666", cfg.Server.Addr)
	assert.Equal(t, "from-dotenv.db", cfg.Database.DSN)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Session.Key = testKey
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"short key", func(c *Config) { c.Session.Key = "short" }, "session key"},
		{"no dsn", func(c *Config) { c.Database.DSN = "" }, "dsn"},
		{"no addr", func(c *Config) { c.Server.Addr = "" }, "address"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging format"},
		{"bad ttl", func(c *Config) { c.Cache.SettingsTTL = "soon" }, "ttl"},
		{"no upload size", func(c *Config) { c.Uploads.MaxBytes = 0 }, "upload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), err.Error())
		})
	}
}

func TestSettingsTTL(t *testing.T) {
	cfg := DefaultConfig()
	d, err := cfg.SettingsTTL()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, d)

	cfg.Cache.SettingsTTL = ""
	d, err = cfg.SettingsTTL()
	require.NoError(t, err)
	assert.Zero(t, d)
}
