package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/inlineassets/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const defaultCopyConcurrency = 8

// textExtensions are read as UTF-8 text, everything else is passed through as binary
var textExtensions = []string{".css", ".html", ".js", ".map", ".mjs", ".json", ".svg", ".txt", ".xml"}

// FileRequest identifies one asset the build host asks the resolver to load.
type FileRequest struct {
	FilePath string
	FileExt  string
}

// RawAsset holds the passthrough content of an asset keyed by its extension.
type RawAsset struct {
	Ext      string
	Encoding string
	Contents []byte
}

// Emission is the result of emitting a passthrough asset.
type Emission struct {
	Module string
	Raw    RawAsset
}

// EncodingFor returns "utf-8" for text extensions and "binary" for the rest.
func EncodingFor(ext string) string {
	if slices.Contains(textExtensions, ext) {
		return "utf-8"
	}
	return "binary"
}

// ModuleStub returns an ES module which default exports value as a string literal.
func ModuleStub(value string) string {
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// a string always encodes
	_ = enc.Encode(value)

	return "export default " + string(bytes.TrimRight(buf.Bytes(), "\n")) + ";"
}

// Emitter produces passthrough module stubs and, outside of dev builds, copies
// assets into the output directory in the background.
type Emitter struct {
	host    HostConfig
	logger  zerolog.Logger
	metrics *telemetry.Metrics

	// sched guards group, held for reading while a copy is handed to the group
	sched sync.RWMutex
	group *errgroup.Group
	// slots bounds running copies, acquired inside the copy goroutine so Emit never waits on it
	slots *semaphore.Weighted

	mu   sync.Mutex
	errs []error
}

// NewEmitter creates an emitter for the given host configuration.
func NewEmitter(host HostConfig, logger zerolog.Logger, metrics *telemetry.Metrics) *Emitter {
	limit := host.CopyConcurrency
	if limit <= 0 {
		limit = defaultCopyConcurrency
	}

	return &Emitter{
		host:    host,
		logger:  logger,
		metrics: metrics,
		group:   new(errgroup.Group),
		slots:   semaphore.NewWeighted(int64(limit)),
	}
}

// Emit reads the asset for passthrough and schedules the output copy when this is not a dev build.
func (e *Emitter) Emit(ctx context.Context, req FileRequest, webPath string) (Emission, error) {
	if err := ctx.Err(); err != nil {
		return Emission{}, err
	}

	data, err := os.ReadFile(req.FilePath)
	if err != nil {
		return Emission{}, fmt.Errorf("read %s: %w", req.FilePath, err)
	}

	encoding := EncodingFor(req.FileExt)
	if encoding == "utf-8" {
		data = bytes.ToValidUTF8(data, []byte(string(utf8.RuneError)))
	}

	if !e.host.Dev {
		e.scheduleCopy(req.FilePath, e.destination(webPath))
	}

	return Emission{
		Module: ModuleStub(webPath),
		Raw: RawAsset{
			Ext:      req.FileExt,
			Encoding: encoding,
			Contents: data,
		},
	}, nil
}

func (e *Emitter) destination(webPath string) string {
	return filepath.FromSlash(path.Join(filepath.ToSlash(e.host.OutDir), webPath))
}

func (e *Emitter) scheduleCopy(src, dest string) {
	e.sched.RLock()
	defer e.sched.RUnlock()

	e.metrics.CopiesInFlight.Add(context.Background(), 1)

	e.group.Go(func() error {
		defer e.metrics.CopiesInFlight.Add(context.Background(), -1)

		// Acquire only fails on a cancelled context
		_ = e.slots.Acquire(context.Background(), 1)
		defer e.slots.Release(1)

		started := time.Now()
		err := e.copyFile(src, dest)
		attrs := metric.WithAttributes(attribute.String("ext", filepath.Ext(src)))
		e.metrics.CopyDuration.Record(context.Background(), float64(time.Since(started).Milliseconds()), attrs)

		if err != nil {
			e.metrics.CopyErrorsTotal.Add(context.Background(), 1, attrs)
			e.logger.Warn().Err(err).Str("src", src).Str("dest", dest).Msg("Copy failed")

			e.mu.Lock()
			e.errs = append(e.errs, err)
			e.mu.Unlock()
			return nil
		}

		e.metrics.CopiesTotal.Add(context.Background(), 1, attrs)
		e.logger.Debug().Str("src", src).Str("dest", dest).Msg("Copied file")
		return nil
	})
}

func (e *Emitter) copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	defer in.Close()

	out, err := createTemp(dest)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	defer os.Remove(out.Name())

	var w io.Writer = out
	var gz *os.File
	var zw *gzip.Writer
	if e.host.Precompress {
		gz, err = createTemp(dest + ".gz")
		if err != nil {
			out.Close()
			return fmt.Errorf("copy %s: %w", src, err)
		}
		defer os.Remove(gz.Name())

		zw = gzip.NewWriter(gz)
		w = io.MultiWriter(out, zw)
	}

	_, err = io.Copy(w, in)
	if zw != nil {
		err = errors.Join(err, zw.Close(), gz.Close())
	}
	err = errors.Join(err, out.Close())
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}

	// renames replace whole files so concurrent copies of one asset never interleave
	if err := os.Rename(out.Name(), dest); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if gz != nil {
		if err := os.Rename(gz.Name(), dest+".gz"); err != nil {
			return fmt.Errorf("copy %s: %w", src, err)
		}
	}

	return nil
}

// createTemp creates a temporary file next to dest with the permissions os.Create would use.
func createTemp(dest string) (*os.File, error) {
	f, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return nil, err
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	return f, nil
}

// Wait blocks until every scheduled copy has finished and returns their joined
// failures. The emitter can keep scheduling copies after Wait returns.
func (e *Emitter) Wait() error {
	e.sched.Lock()
	g := e.group
	e.group = new(errgroup.Group)
	e.sched.Unlock()

	_ = g.Wait()

	e.mu.Lock()
	errs := e.errs
	e.errs = nil
	e.mu.Unlock()

	return errors.Join(errs...)
}
