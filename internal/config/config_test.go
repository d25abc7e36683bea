package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestMustLoad(t *testing.T) {
	t.Run("Defaults fill missing keys", func(t *testing.T) {
		// Given: a config with only the log level
		path := writeConfig(t, "log-level: debug\n")

		// When: loading it
		conf := MustLoad(path)

		// Then: the rest comes from env-default tags
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, "X", conf.Game.FirstMark)
		assert.Equal(t, "O", conf.Game.OpponentMark)
		assert.Equal(t, 500*time.Millisecond, conf.Game.OpponentDelay)
	})

	t.Run("Game section", func(t *testing.T) {
		path := writeConfig(t, "game:\n  opponent-mark: X\n  opponent-delay: 2s\n")

		conf := MustLoad(path)

		assert.Equal(t, "X", conf.Game.OpponentMark)
		assert.Equal(t, 2*time.Second, conf.Game.OpponentDelay)
	})

	t.Run("Missing file panics", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
		})
	})
}
