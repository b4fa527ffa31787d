package inline

import (
	"mime"
	"path/filepath"
	"strings"
)

// extra types which are missing from the builtin table on some platforms
var extraTypes = map[string]string{
	".avif":  "image/avif",
	".bmp":   "image/bmp",
	".ico":   "image/vnd.microsoft.icon",
	".jpeg":  "image/jpeg",
	".jpg":   "image/jpeg",
	".mp3":   "audio/mpeg",
	".mp4":   "video/mp4",
	".otf":   "font/otf",
	".png":   "image/png",
	".svg":   "image/svg+xml",
	".ttf":   "font/ttf",
	".txt":   "text/plain",
	".wav":   "audio/wav",
	".webm":  "video/webm",
	".webp":  "image/webp",
	".woff":  "font/woff",
	".woff2": "font/woff2",
}

func init() {
	for ext, typ := range extraTypes {
		_ = mime.AddExtensionType(ext, typ)
	}
}

// MimeType returns the media type for name based on its extension without any
// parameters, or an empty string when the extension is unknown.
func MimeType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}

	typ := mime.TypeByExtension(ext)
	if typ == "" {
		return ""
	}

	mediaType, _, err := mime.ParseMediaType(typ)
	if err != nil {
		return ""
	}

	return mediaType
}
