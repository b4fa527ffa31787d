package inline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func (f *fixture) emitter(host HostConfig) *Emitter {
	host.Cwd = f.cwd
	host.OutDir = f.outDir
	return NewEmitter(host, zerolog.Nop(), f.metrics)
}

func TestEmitter_WaitThenReuse(t *testing.T) {
	f := newFixture(t)
	first := f.writeFile(t, "first.png", []byte("one"))
	second := f.writeFile(t, "second.png", []byte("two"))

	e := f.emitter(HostConfig{})

	_, err := e.Emit(context.Background(), FileRequest{FilePath: first, FileExt: ".png"}, "first.png")
	require.NoError(t, err)
	require.NoError(t, e.Wait())

	_, err = e.Emit(context.Background(), FileRequest{FilePath: second, FileExt: ".png"}, "second.png")
	require.NoError(t, err)
	require.NoError(t, e.Wait())

	for name, want := range map[string]string{"first.png": "one", "second.png": "two"} {
		got, err := os.ReadFile(filepath.Join(f.outDir, name))
		require.NoError(t, err)
		require.Equal(t, want, string(got))
	}
}

func TestEmitter_EmitDoesNotWaitForCopySlots(t *testing.T) {
	f := newFixture(t)
	path := f.writeFile(t, "hero.png", []byte("hero"))

	e := f.emitter(HostConfig{CopyConcurrency: 1})

	// occupy every copy slot so the scheduled copy cannot start
	require.True(t, e.slots.TryAcquire(1))

	done := make(chan error, 1)
	go func() {
		_, err := e.Emit(context.Background(), FileRequest{FilePath: path, FileExt: ".png"}, "hero.png")
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Emit blocked on a busy copy slot")
	}

	_, err := os.Stat(filepath.Join(f.outDir, "hero.png"))
	require.ErrorIs(t, err, os.ErrNotExist)

	e.slots.Release(1)
	require.NoError(t, e.Wait())

	got, err := os.ReadFile(filepath.Join(f.outDir, "hero.png"))
	require.NoError(t, err)
	require.Equal(t, "hero", string(got))
}

func TestEmitter_ConcurrentPrecompressSameAsset(t *testing.T) {
	f := newFixture(t)
	data := bytes.Repeat([]byte("precompressed asset "), 5000)
	path := f.writeFile(t, "src/hero.png", data)

	e := f.emitter(HostConfig{Precompress: true, CopyConcurrency: 8})

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Emit(context.Background(), FileRequest{FilePath: path, FileExt: ".png"}, "static/hero.png")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.NoError(t, e.Wait())

	dest := filepath.Join(f.outDir, "static", "hero.png")

	copied, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, data, copied)

	gz, err := os.Open(dest + ".gz")
	require.NoError(t, err)
	defer gz.Close()

	zr, err := gzip.NewReader(gz)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(zr)
	require.NoError(t, err)
	require.Equal(t, data, buf.Bytes())

	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	for _, entry := range entries {
		require.False(t, strings.HasSuffix(entry.Name(), ".tmp"), entry.Name())
	}
	require.Len(t, entries, 2)

	info, err := os.Stat(dest)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}
