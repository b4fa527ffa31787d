package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/inlineassets/internal/assets"
	"github.com/wolfeidau/inlineassets/internal/inline"
	"github.com/wolfeidau/inlineassets/internal/telemetry"
)

type BuildCmd struct {
	OptionsFlags `embed:""`

	Entry       string `help:"entry point glob" default:"src/*.js" env:"INLINEASSETS_ENTRY"`
	Outdir      string `help:"output directory for bundles and copied assets" default:"dist" type:"path" env:"INLINEASSETS_OUTDIR"`
	Metafile    string `help:"path to write the esbuild metafile, empty to skip" default:"" env:"INLINEASSETS_METAFILE"`
	Dev         bool   `help:"development build, assets are not copied into the output directory" default:"false" env:"INLINEASSETS_DEV"`
	Minify      bool   `help:"minify output" default:"true" negatable:"" env:"INLINEASSETS_MINIFY"`
	Sourcemap   bool   `help:"emit linked source maps" default:"false" env:"INLINEASSETS_SOURCEMAP"`
	Precompress bool   `help:"write a gzip sibling next to every copied asset" default:"false" env:"INLINEASSETS_PRECOMPRESS"`
	Concurrency int    `help:"maximum number of concurrent asset copies" default:"8" env:"INLINEASSETS_COPY_CONCURRENCY"`
	Telemetry   bool   `help:"export metrics and traces over OTLP" default:"false" env:"INLINEASSETS_TELEMETRY"`
}

func (b *BuildCmd) Run(ctx context.Context, globals *Globals) (err error) {
	ctx, log := setupLogger(ctx, globals)

	if b.Telemetry {
		shutdown, terr := telemetry.InitTelemetry(ctx, inline.PluginName, globals.Version)
		if terr != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", terr)
		}
		defer func() {
			if serr := shutdown(context.WithoutCancel(ctx)); serr != nil {
				log.Warn().Err(serr).Msg("Telemetry shutdown failed")
			}
		}()
	}

	f, cwd, err := b.load()
	if err != nil {
		return err
	}

	resolver := inline.New(f.Config(), inline.HostConfig{
		Cwd:             cwd,
		OutDir:          b.Outdir,
		Mount:           f.Mount,
		Dev:             b.Dev,
		Precompress:     b.Precompress,
		CopyConcurrency: b.Concurrency,
	}, inline.WithLogger(log))

	cfg := resolver.Config()
	log.Debug().
		Strs("exts", cfg.Extensions).
		Int64("limit", cfg.SizeLimitBytes).
		Str("encoding", cfg.DataURIEncoding).
		Bool("dev", b.Dev).
		Msg("Resolved options")

	pipeline := assets.New(assets.Config{
		EntryPointGlob: b.Entry,
		OutputDir:      b.Outdir,
		MetafilePath:   b.Metafile,
		Minify:         b.Minify,
		SourceMap:      b.Sourcemap,
	}, inline.Plugin(resolver))

	metadata, err := pipeline.Build(ctx)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	log.Info().Int("inputs", len(metadata.Inputs)).Int("outputs", len(metadata.Outputs)).Msg("Build complete")

	return nil
}
