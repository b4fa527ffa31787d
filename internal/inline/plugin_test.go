package inline

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/stretchr/testify/require"
)

func TestPlugin_Build(t *testing.T) {
	f := newFixture(t)

	small := bytes.Repeat([]byte{0x01}, 100)
	large := bytes.Repeat([]byte{0x02}, 20000)
	f.writeFile(t, "src/images/logo.png", small)
	f.writeFile(t, "src/images/hero.png", large)
	entry := f.writeFile(t, "src/index.js", []byte(`import logo from "./images/logo.png";
import hero from "./images/hero.png";
console.log(logo, hero);
`))

	r := f.resolver(pngConfig(), HostConfig{
		Mount: MountTable{{Prefix: "src/", Dir: "/static"}},
	})

	result := api.Build(api.BuildOptions{
		EntryPoints: []string{entry},
		Bundle:      true,
		Write:       false,
		Outdir:      f.outDir,
		Format:      api.FormatESModule,
		Plugins:     []api.Plugin{Plugin(r)},
	})
	require.Empty(t, result.Errors)
	require.Empty(t, result.Warnings)
	require.Len(t, result.OutputFiles, 1)

	out := string(result.OutputFiles[0].Contents)
	require.Contains(t, out, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(small))
	require.Contains(t, out, `"/static/images/hero.png"`)

	// the copy is awaited before the build returns
	copied, err := os.ReadFile(filepath.Join(f.outDir, "static", "images", "hero.png"))
	require.NoError(t, err)
	require.Equal(t, large, copied)
}

func TestPlugin_CopyFailureIsWarning(t *testing.T) {
	f := newFixture(t)
	f.writeFile(t, "hero.png", bytes.Repeat([]byte{0x02}, 100))
	entry := f.writeFile(t, "index.js", []byte(`import hero from "./hero.png"; console.log(hero);`))

	blocked := filepath.Join(f.outDir, "blocked")
	require.NoError(t, os.WriteFile(blocked, nil, 0600))
	f.outDir = blocked

	r := f.resolver(NormalizeOptions(map[string]any{"exts": []any{"png"}, "limit": false}), HostConfig{})

	result := api.Build(api.BuildOptions{
		EntryPoints: []string{entry},
		Bundle:      true,
		Write:       false,
		Outdir:      filepath.Join(f.cwd, "out"),
		Plugins:     []api.Plugin{Plugin(r)},
	})
	require.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 1)
	require.Equal(t, PluginName, result.Warnings[0].PluginName)
	require.Contains(t, result.Warnings[0].Text, "hero.png")
}

func TestPlugin_LoadErrorFailsBuild(t *testing.T) {
	f := newFixture(t)
	f.writeFile(t, "a.png", []byte("png"))
	entry := f.writeFile(t, "index.js", []byte(`import a from "./a.png"; console.log(a);`))

	r := f.resolver(NormalizeOptions(map[string]any{"exts": []any{"png"}, "encoding": "rot13"}), HostConfig{Dev: true})

	result := api.Build(api.BuildOptions{
		EntryPoints: []string{entry},
		Bundle:      true,
		Write:       false,
		Outdir:      filepath.Join(f.cwd, "out"),
		Plugins:     []api.Plugin{Plugin(r)},
	})
	require.NotEmpty(t, result.Errors)
	require.Contains(t, result.Errors[0].Text, "unsupported data URI encoding")
}

func TestExtensionFilter(t *testing.T) {
	filter := regexp.MustCompile(extensionFilter([]string{".png", ".svg"}))

	require.True(t, filter.MatchString("/a/logo.png"))
	require.True(t, filter.MatchString("/a/icon.svg"))
	require.False(t, filter.MatchString("/a/logo.png.js"))
	require.False(t, filter.MatchString("/a/logoxpng"))
}
