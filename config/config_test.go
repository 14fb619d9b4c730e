package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 10000*time.Minute, cfg.JWT.ExpireTime)
	assert.Equal(t, "http://localhost:3000/online", cfg.Invite.LinkBaseURL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowOrigins)
}

func TestLoadConfigFrom_YAMLKeepsUnsetDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9090"
database:
  driver: sqlite
  database: lobby.db
jwt:
  expireTime: 2h
invite:
  linkBaseURL: https://play.example.com/online
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := LoadConfigFrom(path)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "lobby.db", cfg.Database.Database)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, "https://play.example.com/online", cfg.Invite.LinkBaseURL)
	// 未在文件中出现的字段保持默认值
	assert.Equal(t, "lobby-server", cfg.JWT.Issuer)
	assert.Equal(t, "@hourly", cfg.Invite.ResyncSpec)
}

func TestLoadConfigFrom_InvalidYAMLFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [oops"), 0o600))

	cfg := LoadConfigFrom(path)
	assert.Equal(t, "8000", cfg.Server.Port)
}

func TestLoadConfigFrom_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("SERVER_ALLOW_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRE_TIME", "15m")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("REDIS_DB", "0")
	t.Setenv("LOG_CONSOLE", "true")
	t.Setenv("INVITE_LINK_BASE_URL", "http://game.test/online")

	cfg := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowOrigins)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 15*time.Minute, cfg.JWT.ExpireTime)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.True(t, cfg.Log.Console)
	assert.Equal(t, "http://game.test/online", cfg.Invite.LinkBaseURL)
}

func TestGetEnvHelpers_IgnoreMalformedValues(t *testing.T) {
	t.Setenv("LOBBY_TEST_INT", "abc")
	t.Setenv("LOBBY_TEST_BOOL", "maybe")
	t.Setenv("LOBBY_TEST_DURATION", "soon")

	assert.Equal(t, 5, getEnvInt("LOBBY_TEST_INT", 5))
	assert.True(t, getEnvBool("LOBBY_TEST_BOOL", true))
	assert.Equal(t, time.Second, getEnvDuration("LOBBY_TEST_DURATION", time.Second))
}
