package inline

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeOptions_Extensions(t *testing.T) {
	defaults := []string{".jpg", ".jpeg", ".png", ".svg"}

	tests := []struct {
		name     string
		input    map[string]any
		expected []string
	}{
		{
			name:     "nil options",
			input:    nil,
			expected: defaults,
		},
		{
			name:     "missing exts",
			input:    map[string]any{"limit": 10},
			expected: defaults,
		},
		{
			name:     "empty list",
			input:    map[string]any{"exts": []any{}},
			expected: defaults,
		},
		{
			name:     "wrong type",
			input:    map[string]any{"exts": "png"},
			expected: defaults,
		},
		{
			name:     "only invalid entries",
			input:    map[string]any{"exts": []any{1, "", false}},
			expected: defaults,
		},
		{
			name:     "adds separator",
			input:    map[string]any{"exts": []any{"png", ".gif"}},
			expected: []string{".png", ".gif"},
		},
		{
			name:     "string slice",
			input:    map[string]any{"exts": []string{"woff2"}},
			expected: []string{".woff2"},
		},
		{
			name:     "drops non string entries",
			input:    map[string]any{"exts": []any{"webp", 42, ""}},
			expected: []string{".webp"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NormalizeOptions(tt.input)
			require.Equal(t, tt.expected, cfg.Extensions)
			require.NotEmpty(t, cfg.Extensions)
			for _, ext := range cfg.Extensions {
				require.True(t, strings.HasPrefix(ext, "."), ext)
			}
		})
	}
}

func TestNormalizeOptions_Limit(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]any
		expected int64
	}{
		{name: "missing", input: map[string]any{}, expected: 10240},
		{name: "false disables", input: map[string]any{"limit": false}, expected: 0},
		{name: "true uses default", input: map[string]any{"limit": true}, expected: 10240},
		{name: "numeric string", input: map[string]any{"limit": "2048"}, expected: 2048},
		{name: "padded numeric string", input: map[string]any{"limit": " 512 "}, expected: 512},
		{name: "empty string", input: map[string]any{"limit": ""}, expected: 0},
		{name: "garbage string", input: map[string]any{"limit": "lots"}, expected: 10240},
		{name: "null", input: map[string]any{"limit": nil}, expected: 0},
		{name: "int", input: map[string]any{"limit": 100}, expected: 100},
		{name: "int64", input: map[string]any{"limit": int64(4096)}, expected: 4096},
		{name: "float floors", input: map[string]any{"limit": 10.9}, expected: 10},
		{name: "negative clamps", input: map[string]any{"limit": -5}, expected: 0},
		{name: "NaN", input: map[string]any{"limit": math.NaN()}, expected: 10240},
		{name: "infinity", input: map[string]any{"limit": math.Inf(1)}, expected: 10240},
		{name: "unsupported type", input: map[string]any{"limit": []any{1}}, expected: 10240},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NormalizeOptions(tt.input)
			require.Equal(t, tt.expected, cfg.SizeLimitBytes)
			require.GreaterOrEqual(t, cfg.SizeLimitBytes, int64(0))
		})
	}
}

func TestNormalizeOptions_Encoding(t *testing.T) {
	require.Equal(t, "base64", NormalizeOptions(nil).DataURIEncoding)
	require.Equal(t, "base64", NormalizeOptions(map[string]any{"encoding": ""}).DataURIEncoding)
	require.Equal(t, "base64", NormalizeOptions(map[string]any{"encoding": 64}).DataURIEncoding)
	require.Equal(t, "hex", NormalizeOptions(map[string]any{"encoding": "hex"}).DataURIEncoding)
}

func TestNormalizeOptions_DefaultsNotShared(t *testing.T) {
	cfg := NormalizeOptions(nil)
	cfg.Extensions[0] = ".gif"

	require.Equal(t, "jpg", DefaultExtensions[0])
	require.Equal(t, ".jpg", NormalizeOptions(nil).Extensions[0])
}
