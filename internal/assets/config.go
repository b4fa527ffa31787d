package assets

type Config struct {
	// Entry point glob pattern (e.g., "src/*.js")
	EntryPointGlob string
	// Output directory for built files
	OutputDir string
	// Path to metafile, empty skips writing it
	MetafilePath string
	// Public path prefixed to asset URLs in the output
	PublicPath string
	// Whether to minify output
	Minify bool
	// Whether to enable source maps
	SourceMap bool
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() Config {
	return Config{
		EntryPointGlob: "src/*.js",
		OutputDir:      "dist",
		MetafilePath:   "dist/meta.json",
		Minify:         true,
		SourceMap:      true,
	}
}
