package inline

import (
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the size limit in bytes used when none is configured.
	DefaultLimit int64 = 10240
	// DefaultEncoding is the data URI payload encoding used when none is configured.
	DefaultEncoding = "base64"
)

// DefaultExtensions are claimed when the options do not supply a usable list.
var DefaultExtensions = []string{"jpg", "jpeg", "png", "svg"}

// Config is the normalized plugin configuration, it is not modified after NormalizeOptions returns.
type Config struct {
	// Extensions claimed by the plugin, each starting with "."
	Extensions []string
	// SizeLimitBytes is the largest file inlined, 0 disables inlining
	SizeLimitBytes int64
	// DataURIEncoding names the payload encoding written into the data URI
	DataURIEncoding string
}

// NormalizeOptions resolves loosely typed options, as decoded from YAML or JSON,
// against the defaults. Malformed values are replaced with defaults, it never fails.
func NormalizeOptions(raw map[string]any) Config {
	return Config{
		Extensions:      normalizeExtensions(raw["exts"]),
		SizeLimitBytes:  normalizeLimit(raw, "limit"),
		DataURIEncoding: normalizeEncoding(raw["encoding"]),
	}
}

func normalizeExtensions(v any) []string {
	var candidates []any

	switch exts := v.(type) {
	case []any:
		candidates = exts
	case []string:
		for _, ext := range exts {
			candidates = append(candidates, ext)
		}
	}

	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ext, ok := c.(string)
		if !ok || ext == "" {
			continue
		}
		out = append(out, dotted(ext))
	}

	if len(out) == 0 {
		for _, ext := range DefaultExtensions {
			out = append(out, dotted(ext))
		}
	}

	return out
}

func dotted(ext string) string {
	if strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

func normalizeLimit(raw map[string]any, key string) int64 {
	v, present := raw[key]
	if !present {
		return DefaultLimit
	}

	switch limit := v.(type) {
	case nil:
		return 0
	case bool:
		if limit {
			return DefaultLimit
		}
		return 0
	case int:
		return clampLimit(float64(limit))
	case int32:
		return clampLimit(float64(limit))
	case int64:
		if limit < 0 {
			return 0
		}
		return limit
	case uint:
		return clampLimit(float64(limit))
	case uint32:
		return int64(limit)
	case uint64:
		return clampLimit(float64(limit))
	case float32:
		return clampLimit(float64(limit))
	case float64:
		return clampLimit(limit)
	case string:
		s := strings.TrimSpace(limit)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return DefaultLimit
		}
		return clampLimit(f)
	default:
		return DefaultLimit
	}
}

func clampLimit(f float64) int64 {
	switch {
	case math.IsNaN(f), math.IsInf(f, 0):
		return DefaultLimit
	case f <= 0:
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	}
	return int64(math.Floor(f))
}

func normalizeEncoding(v any) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return DefaultEncoding
}
