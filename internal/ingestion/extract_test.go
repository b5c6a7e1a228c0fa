package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	t.Run("plain text passes through cleaned", func(t *testing.T) {
		out, err := ExtractText("Five years   of Go.\r\n\r\n\r\nBackend services.")
		require.NoError(t, err)
		assert.Equal(t, "Five years of Go.\n\nBackend services.", out)
	})

	t.Run("html tags stripped", func(t *testing.T) {
		html := `<!DOCTYPE html><html><head><style>p{color:red}</style></head>
			<body><nav>Home | About</nav>
			<h1>Backend Engineer</h1>
			<p>Build  reliable services.</p>
			<ul><li>Go</li><li>PostgreSQL</li></ul>
			<script>alert(1)</script>
			<footer>©2026</footer></body></html>`

		out, err := ExtractText(html)
		require.NoError(t, err)
		assert.Contains(t, out, "Backend Engineer")
		assert.Contains(t, out, "Build reliable services.")
		assert.Contains(t, out, "PostgreSQL")
		assert.NotContains(t, out, "alert(1)")
		assert.NotContains(t, out, "color:red")
		assert.NotContains(t, out, "Home | About")
	})

	t.Run("html without block elements falls back to full text", func(t *testing.T) {
		out, err := ExtractText(`<html><body><span>just a span</span></body></html>`)
		require.NoError(t, err)
		assert.Contains(t, out, "just a span")
	})
}

func TestCleanText(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", CleanText(""))
	})

	t.Run("collapses runs of blank lines", func(t *testing.T) {
		assert.Equal(t, "a\n\nb", CleanText("a\n\n\n\n\nb"))
	})

	t.Run("collapses intra-line whitespace", func(t *testing.T) {
		assert.Equal(t, "a b c", CleanText("a \t b   c"))
	})
}
