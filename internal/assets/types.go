package assets

import (
	"sync"

	"github.com/evanw/esbuild/pkg/api"
)

type BuildMetadata struct {
	Inputs  map[string]InputInfo  `json:"inputs"`
	Outputs map[string]OutputInfo `json:"outputs"`
}

type InputInfo struct {
	Bytes int `json:"bytes"`
}

type OutputInfo struct {
	EntryPoint string       `json:"entryPoint"`
	Imports    []ImportInfo `json:"imports"`
	Bytes      int          `json:"bytes"`
}

type ImportInfo struct {
	Path string `json:"path"`
}

// Pipeline runs esbuild over the configured entry points with extra plugins
type Pipeline struct {
	config   Config
	plugins  []api.Plugin
	metadata *BuildMetadata
	mu       sync.RWMutex
}

// New creates a new asset pipeline with the given configuration and plugins
func New(config Config, plugins ...api.Plugin) *Pipeline {
	return &Pipeline{
		config:  config,
		plugins: plugins,
	}
}

// Metadata returns the metadata of the last successful build
func (p *Pipeline) Metadata() *BuildMetadata {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.metadata
}
