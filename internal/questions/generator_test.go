package questions

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-simulator/internal/llm"
)

// fakeClient returns canned responses and records prompts.
type fakeClient struct {
	jsonResponse string
	textResponse string
	err          error
	lastPrompt   string
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.lastPrompt = prompt
	return f.textResponse, f.err
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.lastPrompt = prompt
	return f.jsonResponse, f.err
}

func (f *fakeClient) StartChat(_ string, _ llm.ModelTier) llm.Chat { return nil }

func (f *fakeClient) Close() error { return nil }

func TestGeneratorGenerate(t *testing.T) {
	materials := Materials{
		Resume:      "Five years of Go.",
		Corporate:   "TestCorp builds infra.",
		Recruitment: "Hiring backend engineers.",
		Job:         "Own the storage layer.",
	}

	t.Run("valid response", func(t *testing.T) {
		client := &fakeClient{jsonResponse: `["Why Go?", "Describe a production incident."]`}
		gen := NewGenerator(client, 2, nil)

		got, err := gen.Generate(context.Background(), materials, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"Why Go?", "Describe a production incident."}, got)

		// Prompt carries the materials and parameters.
		assert.Contains(t, client.lastPrompt, "Five years of Go.")
		assert.Contains(t, client.lastPrompt, "Own the storage layer.")
		assert.Contains(t, client.lastPrompt, "2")
	})

	t.Run("model error propagates", func(t *testing.T) {
		client := &fakeClient{err: fmt.Errorf("model overloaded")}
		gen := NewGenerator(client, 5, nil)

		_, err := gen.Generate(context.Background(), materials, 1)
		assert.ErrorContains(t, err, "model overloaded")
	})

	t.Run("malformed JSON rejected", func(t *testing.T) {
		client := &fakeClient{jsonResponse: `{"not": "a list"}`}
		gen := NewGenerator(client, 5, nil)

		_, err := gen.Generate(context.Background(), materials, 3)
		assert.ErrorContains(t, err, "invalid JSON")
	})

	t.Run("empty list rejected", func(t *testing.T) {
		client := &fakeClient{jsonResponse: `[]`}
		gen := NewGenerator(client, 5, nil)

		_, err := gen.Generate(context.Background(), materials, 1)
		assert.Error(t, err)
	})
}

func TestFinalFeedbackGenerator(t *testing.T) {
	turns := []Turn{
		{Question: "Why us?", Answer: "Mission.", Feedback: "Generic."},
		{Question: "Biggest weakness?", Answer: "Perfectionism.", Feedback: "Cliché."},
	}

	t.Run("formats transcript into prompt", func(t *testing.T) {
		client := &fakeClient{textResponse: "Lean no-hire."}
		gen := NewFinalFeedbackGenerator(client, nil)

		got, err := gen.Generate(context.Background(), turns)
		require.NoError(t, err)
		assert.Equal(t, "Lean no-hire.", got)
		assert.Contains(t, client.lastPrompt, "Q1: Why us?")
		assert.Contains(t, client.lastPrompt, "A2: Perfectionism.")
		assert.Contains(t, client.lastPrompt, "Feedback: Cliché.")
	})

	t.Run("empty transcript rejected", func(t *testing.T) {
		gen := NewFinalFeedbackGenerator(&fakeClient{}, nil)
		_, err := gen.Generate(context.Background(), nil)
		assert.Error(t, err)
	})

	t.Run("model error propagates", func(t *testing.T) {
		gen := NewFinalFeedbackGenerator(&fakeClient{err: fmt.Errorf("timeout")}, nil)
		_, err := gen.Generate(context.Background(), turns)
		assert.ErrorContains(t, err, "timeout")
	})
}
