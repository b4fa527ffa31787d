package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/wolfeidau/inlineassets/internal/inline"
)

type LoadCmd struct {
	OptionsFlags `embed:""`

	File   string `arg:"" help:"asset file to load" type:"existingfile"`
	Outdir string `help:"output directory for the copied asset" default:"dist" type:"path"`
	Dev    bool   `help:"development build, the asset is not copied" default:"true" negatable:""`

	out io.Writer `kong:"-"`
}

func (l *LoadCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, log := setupLogger(ctx, globals)

	f, cwd, err := l.load()
	if err != nil {
		return err
	}

	path, err := filepath.Abs(l.File)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", l.File, err)
	}

	resolver := inline.New(f.Config(), inline.HostConfig{
		Cwd:    cwd,
		OutDir: l.Outdir,
		Mount:  f.Mount,
		Dev:    l.Dev,
	}, inline.WithLogger(log))

	result, err := resolver.Load(ctx, inline.FileRequest{FilePath: path, FileExt: filepath.Ext(path)})
	if err != nil {
		return err
	}

	if err := resolver.Flush(); err != nil {
		log.Warn().Err(err).Msg("Asset copy failed")
	}

	outputs := map[string]any{
		"inlined": result.Inlined(),
		"outputs": map[string]string{".js": result.Module},
	}
	if result.Raw != nil {
		outputs["raw"] = map[string]any{
			"ext":      result.Raw.Ext,
			"encoding": result.Raw.Encoding,
			"bytes":    len(result.Raw.Contents),
		}
	}

	enc := json.NewEncoder(stdout(l.out))
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(outputs)
}
