package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/inlineassets/cmd/inlineassets/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Build   commands.BuildCmd   `cmd:"" help:"Bundle entry points, inlining small assets"`
		Load    commands.LoadCmd    `cmd:"" help:"Load a single asset and print the generated outputs"`
		Inspect commands.InspectCmd `cmd:"" help:"Decode a data URI"`
		Debug   bool                `help:"Enable debug mode." env:"INLINEASSETS_DEBUG"`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("inlineassets"),
		kong.Description("Inline small assets as data URIs while bundling with esbuild."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
