package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("console logger", func(t *testing.T) {
		logger, err := New(false, false)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("json debug logger", func(t *testing.T) {
		logger, err := New(true, true)
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(-1)) // debug level enabled
	})
}

func TestTruncate(t *testing.T) {
	t.Run("short string unchanged", func(t *testing.T) {
		assert.Equal(t, "hello", Truncate("hello", 10))
	})

	t.Run("long string truncated", func(t *testing.T) {
		assert.Equal(t, "hel...", Truncate("hello world", 3))
	})

	t.Run("zero limit", func(t *testing.T) {
		assert.Equal(t, "", Truncate("hello", 0))
	})

	t.Run("multibyte runes", func(t *testing.T) {
		assert.Equal(t, "가나...", Truncate("가나다라마", 2))
	})
}
