package inline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/inlineassets/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PluginName identifies the resolver to the build host.
const PluginName = "inlineassets"

// HostConfig carries what the build host knows about the current build.
type HostConfig struct {
	// Cwd is the project root that web paths are made relative to
	Cwd string
	// OutDir receives copies of passthrough assets in production builds
	OutDir string
	// Mount is the ordered prefix rewrite table
	Mount MountTable
	// Dev disables output copies
	Dev bool
	// Precompress writes a gzip sibling next to each copied asset
	Precompress bool
	// CopyConcurrency bounds the number of copies running at once
	CopyConcurrency int
}

// Registration describes the source extensions claimed and artifact kinds produced.
type Registration struct {
	Name   string
	Input  []string
	Output []string
}

// Result is the outcome of loading one asset. Raw is nil when the asset was inlined.
type Result struct {
	Module string
	Raw    *RawAsset
}

// Outputs returns the artifacts keyed by kind, ".js" is always present.
func (r Result) Outputs() map[string]string {
	out := map[string]string{".js": r.Module}
	if r.Raw != nil {
		out[r.Raw.Ext] = string(r.Raw.Contents)
	}
	return out
}

// Inlined reports whether the asset was embedded as a data URI.
func (r Result) Inlined() bool {
	return r.Raw == nil
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger, the global zerolog logger is used otherwise.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithMetrics sets the metric instruments, the global instruments are used otherwise.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// Resolver decides per asset between inlining and passthrough. It is safe for
// concurrent use by multiple loads.
type Resolver struct {
	config  Config
	host    HostConfig
	logger  zerolog.Logger
	metrics *telemetry.Metrics
	emitter *Emitter
}

// New creates a resolver from a normalized config and the host configuration.
func New(config Config, host HostConfig, opts ...Option) *Resolver {
	r := &Resolver{
		config: config,
		host:   host,
		logger: log.Logger,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.metrics == nil {
		r.metrics = telemetry.GetMetrics()
	}

	r.logger = r.logger.With().Str("plugin", PluginName).Logger()
	r.emitter = NewEmitter(host, r.logger, r.metrics)

	return r
}

// Config returns the normalized configuration.
func (r *Resolver) Config() Config {
	return r.config
}

// Registration returns the extensions this resolver claims and the artifacts it produces.
func (r *Resolver) Registration() Registration {
	input := append([]string(nil), r.config.Extensions...)
	return Registration{
		Name:   PluginName,
		Input:  input,
		Output: append([]string{".js"}, input...),
	}
}

// Load inlines the asset when it fits the size limit, otherwise it resolves the
// web path and emits a passthrough result.
func (r *Resolver) Load(ctx context.Context, req FileRequest) (Result, error) {
	if !filepath.IsAbs(req.FilePath) {
		return Result{}, fmt.Errorf("%w: %s", ErrRelativePath, req.FilePath)
	}

	if req.FileExt == "" {
		req.FileExt = filepath.Ext(req.FilePath)
	}

	attrs := metric.WithAttributes(attribute.String("ext", req.FileExt))

	uri, ok, err := TryInlineFile(ctx, req.FilePath, req.FilePath, r.config.SizeLimitBytes, r.config.DataURIEncoding)
	if err != nil {
		r.metrics.LoadErrorsTotal.Add(ctx, 1, attrs)
		return Result{}, err
	}

	if ok {
		r.metrics.AssetsInlinedTotal.Add(ctx, 1, attrs)
		r.metrics.InlinedBytesTotal.Add(ctx, int64(len(uri)), attrs)
		r.logger.Info().Str("file", req.FilePath).Msg("Inlined file")
		return Result{Module: ModuleStub(uri)}, nil
	}

	webPath := ToWebPath(req.FilePath, r.host.Cwd, r.host.Mount)

	emission, err := r.emitter.Emit(ctx, req, webPath)
	if err != nil {
		r.metrics.LoadErrorsTotal.Add(ctx, 1, attrs)
		return Result{}, err
	}

	r.metrics.AssetsPassthroughTotal.Add(ctx, 1, attrs)
	r.logger.Debug().Str("file", req.FilePath).Str("path", webPath).Msg("Passthrough file")

	return Result{Module: emission.Module, Raw: &emission.Raw}, nil
}

// Flush waits for background copies and returns their joined failures.
func (r *Resolver) Flush() error {
	return r.emitter.Wait()
}
