package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	t.Run("existing key", func(t *testing.T) {
		prompt, err := Get("termination")
		require.NoError(t, err)
		assert.Contains(t, prompt, "{{.Message}}")
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := Get("nonexistent")
		assert.Error(t, err)
	})
}

func TestFormat(t *testing.T) {
	t.Run("replaces placeholders", func(t *testing.T) {
		out := Format("Hello {{.Name}}, difficulty {{.Difficulty}}", map[string]string{
			"Name":       "Kim",
			"Difficulty": "2",
		})
		assert.Equal(t, "Hello Kim, difficulty 2", out)
	})

	t.Run("unknown placeholders left as-is", func(t *testing.T) {
		out := Format("{{.Known}} {{.Unknown}}", map[string]string{"Known": "x"})
		assert.Equal(t, "x {{.Unknown}}", out)
	})
}

func TestRender(t *testing.T) {
	t.Run("fills template from key", func(t *testing.T) {
		out, err := Render("termination", map[string]string{"Message": "thanks for coming in"})
		require.NoError(t, err)
		assert.Contains(t, out, "thanks for coming in")
		assert.NotContains(t, out, "{{.Message}}")
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := Render("nonexistent", nil)
		assert.Error(t, err)
	})
}

func TestPersonaPromptsCoverAllStyles(t *testing.T) {
	for _, key := range []string{"persona_standard", "persona_gentle", "persona_pressure"} {
		prompt, err := Get(key)
		require.NoError(t, err, key)
		// Every persona must demand the structured turn reply.
		assert.True(t, strings.Contains(prompt, "exemplary_answer"), key)
		assert.True(t, strings.Contains(prompt, "{{.Questions}}"), key)
	}
}
