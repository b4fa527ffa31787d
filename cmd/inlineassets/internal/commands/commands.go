package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/inlineassets/internal/inline"
	"github.com/wolfeidau/inlineassets/internal/logger"
)

type Globals struct {
	Debug   bool
	Version string
}

// OptionsFlags are shared by the commands which construct a resolver
type OptionsFlags struct {
	Options string `help:"path to a YAML options file (exts, limit, encoding, mount)" type:"path" env:"INLINEASSETS_OPTIONS"`
	Cwd     string `help:"project root web paths are relative to, defaults to the working directory" type:"path" env:"INLINEASSETS_CWD"`
}

// load reads the options file and resolves the project root
func (o *OptionsFlags) load() (inline.File, string, error) {
	f, err := inline.LoadFile(o.Options)
	if err != nil {
		return inline.File{}, "", err
	}

	cwd := o.Cwd
	if cwd == "" {
		cwd, err = os.Getwd()
		if err != nil {
			return inline.File{}, "", fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	return f, cwd, nil
}

func setupLogger(ctx context.Context, globals *Globals) (context.Context, zerolog.Logger) {
	log := logger.Setup(globals.Debug)
	return log.WithContext(ctx), log
}

func stdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
