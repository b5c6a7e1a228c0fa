// Package prompts holds the interviewer prompt templates, embedded at
// compile time and keyed by name in interview.json.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed interview.json
var promptFiles embed.FS

var load = sync.OnceValues(func() (map[string]string, error) {
	data, err := promptFiles.ReadFile("interview.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file: %w", err)
	}
	var prompts map[string]string
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file: %w", err)
	}
	return prompts, nil
})

// Get retrieves a prompt template by key.
func Get(key string) (string, error) {
	prompts, err := load()
	if err != nil {
		return "", err
	}
	prompt, exists := prompts[key]
	if !exists {
		return "", fmt.Errorf("prompt key %q not found", key)
	}
	return prompt, nil
}

// Format replaces placeholders in the form {{.Key}} with values from
// data. Placeholders without a matching entry are left untouched.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		placeholder := fmt.Sprintf("{{.%s}}", key)
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}

// Render looks up a prompt by key and fills its placeholders.
func Render(key string, data map[string]string) (string, error) {
	template, err := Get(key)
	if err != nil {
		return "", err
	}
	return Format(template, data), nil
}
