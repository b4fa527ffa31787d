package inline

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Plugin adapts the resolver to the esbuild plugin API. Claimed extensions are
// loaded as JS modules, pending copies are awaited when the build ends and
// reported as warnings.
func Plugin(r *Resolver) api.Plugin {
	reg := r.Registration()

	return api.Plugin{
		Name: reg.Name,
		Setup: func(build api.PluginBuild) {
			build.OnLoad(api.OnLoadOptions{Filter: extensionFilter(reg.Input), Namespace: "file"},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					result, err := r.Load(context.Background(), FileRequest{
						FilePath: args.Path,
						FileExt:  filepath.Ext(args.Path),
					})
					if err != nil {
						return api.OnLoadResult{}, err
					}

					contents := result.Module
					return api.OnLoadResult{
						PluginName: reg.Name,
						Contents:   &contents,
						Loader:     api.LoaderJS,
					}, nil
				})

			build.OnEnd(func(_ *api.BuildResult) (api.OnEndResult, error) {
				err := r.Flush()
				if err == nil {
					return api.OnEndResult{}, nil
				}

				return api.OnEndResult{Warnings: copyWarnings(reg.Name, err)}, nil
			})
		},
	}
}

func extensionFilter(exts []string) string {
	quoted := make([]string, 0, len(exts))
	for _, ext := range exts {
		quoted = append(quoted, regexp.QuoteMeta(ext))
	}
	return `(` + strings.Join(quoted, "|") + `)$`
}

func copyWarnings(name string, err error) []api.Message {
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}

	warnings := make([]api.Message, 0, len(errs))
	for _, e := range errs {
		warnings = append(warnings, api.Message{PluginName: name, Text: e.Error()})
	}
	return warnings
}
