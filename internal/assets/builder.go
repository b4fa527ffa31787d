package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "github.com/wolfeidau/inlineassets/internal/assets"

// ErrNoEntryPoints is returned when the entry point glob matches nothing
var ErrNoEntryPoints = errors.New("no entry points found")

// ErrBuildFailed is returned when esbuild reports errors
var ErrBuildFailed = errors.New("esbuild failed with errors")

// Build runs esbuild with the configured settings and loads metadata
func (p *Pipeline) Build(ctx context.Context) (*BuildMetadata, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "assets.Build")
	defer span.End()

	logger := zerolog.Ctx(ctx)

	entryPoints, err := filepath.Glob(p.config.EntryPointGlob)
	if err != nil {
		return nil, err
	}

	if len(entryPoints) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoEntryPoints, p.config.EntryPointGlob)
	}

	span.SetAttributes(attribute.StringSlice("entrypoints", entryPoints))
	logger.Info().Strs("entrypoints", entryPoints).Msg("Building assets")

	result := api.Build(api.BuildOptions{
		EntryPoints:       entryPoints,
		Bundle:            true,
		Write:             true,
		Outdir:            p.config.OutputDir,
		PublicPath:        p.config.PublicPath,
		Format:            api.FormatESModule,
		MinifyWhitespace:  p.config.Minify,
		MinifyIdentifiers: p.config.Minify,
		MinifySyntax:      p.config.Minify,
		TreeShaking:       api.TreeShakingTrue,
		Sourcemap:         cond(p.config.SourceMap, api.SourceMapLinked, api.SourceMapNone),
		Metafile:          true,
		Plugins:           p.plugins,
	})

	for _, msg := range result.Warnings {
		logger.Warn().Str("plugin", msg.PluginName).Str("warning", msg.Text).Msg("Build warning")
	}

	if len(result.Errors) > 0 {
		for _, msg := range result.Errors {
			logger.Error().Str("plugin", msg.PluginName).Str("error", msg.Text).Msg("Build error")
		}
		span.SetStatus(codes.Error, ErrBuildFailed.Error())
		return nil, ErrBuildFailed
	}

	for _, file := range result.OutputFiles {
		logger.Info().Str("file", file.Path).Msg("Built file")
	}

	if p.config.MetafilePath != "" {
		if err := os.WriteFile(p.config.MetafilePath, []byte(result.Metafile), 0600); err != nil {
			return nil, err
		}
	}

	// Parse and cache metadata
	var metadata BuildMetadata
	if err := json.Unmarshal([]byte(result.Metafile), &metadata); err != nil {
		return nil, err
	}

	p.metadata = &metadata
	return &metadata, nil
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}
