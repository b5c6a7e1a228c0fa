package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		path := writeTempConfig(t, `{
			"port": 9090,
			"database_url": "postgres://localhost/interviews",
			"trigger_phrase": "stop now",
			"max_questions": 5
		}`)

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, "postgres://localhost/interviews", cfg.DatabaseURL)
		assert.Equal(t, "stop now", cfg.TriggerPhrase)
		assert.Equal(t, 5, cfg.MaxQuestions)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := LoadConfig("")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		path := writeTempConfig(t, `{not json`)
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &Config{Port: 8080, MaxQuestions: 10}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("port out of range", func(t *testing.T) {
		cfg := &Config{Port: 70000}
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative max questions", func(t *testing.T) {
		cfg := &Config{MaxQuestions: -1}
		assert.Error(t, cfg.Validate())
	})
}

func TestMergeWithDefaults(t *testing.T) {
	t.Run("empty fields filled", func(t *testing.T) {
		cfg := Config{}
		merged := cfg.MergeWithDefaults(Config{
			Port:        8080,
			DatabaseURL: "postgres://localhost/x",
			APIKey:      "key",
		})
		assert.Equal(t, 8080, merged.Port)
		assert.Equal(t, "postgres://localhost/x", merged.DatabaseURL)
		assert.Equal(t, "key", merged.APIKey)
	})

	t.Run("set fields win", func(t *testing.T) {
		cfg := Config{Port: 9999, APIKey: "mine"}
		merged := cfg.MergeWithDefaults(Config{Port: 8080, APIKey: "theirs"})
		assert.Equal(t, 9999, merged.Port)
		assert.Equal(t, "mine", merged.APIKey)
	})

	t.Run("trigger phrase defaults preserved", func(t *testing.T) {
		merged := (&Config{}).MergeWithDefaults(Config{})
		assert.Equal(t, DefaultTriggerPhrase, merged.TriggerPhrase)
		assert.Equal(t, DefaultTriggerReply, merged.TriggerReply)
		assert.Equal(t, 10, merged.MaxQuestions)
	})
}

func TestNewJWTConfig(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := NewJWTConfig()
		assert.Error(t, err)
	})

	t.Run("default expiration", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("JWT_EXPIRATION_HOURS", "")
		cfg, err := NewJWTConfig()
		require.NoError(t, err)
		assert.Equal(t, 24, cfg.ExpirationHours)
	})

	t.Run("invalid expiration", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("JWT_EXPIRATION_HOURS", "zero")
		_, err := NewJWTConfig()
		assert.Error(t, err)
	})
}

func TestPasswordConfig(t *testing.T) {
	t.Run("hash and verify round trip", func(t *testing.T) {
		t.Setenv("BCRYPT_COST", "10")
		cfg, err := NewPasswordConfig()
		require.NoError(t, err)

		hash, err := cfg.HashPassword("hunter2")
		require.NoError(t, err)
		assert.True(t, cfg.VerifyPassword("hunter2", hash))
		assert.False(t, cfg.VerifyPassword("hunter3", hash))
	})

	t.Run("cost out of range", func(t *testing.T) {
		t.Setenv("BCRYPT_COST", "4")
		_, err := NewPasswordConfig()
		assert.Error(t, err)
	})
}
