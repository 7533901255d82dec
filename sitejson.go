// Package sitejson converts trees of markdown documents into JSON:API
// files: one record per document, the resolved page tree and optional
// collated listings.
package sitejson

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"

	buildcmd "github.com/goliatone/go-sitejson/internal/commands/build"
	"github.com/goliatone/go-sitejson/internal/generator"
	"github.com/goliatone/go-sitejson/internal/logging"
	"github.com/goliatone/go-sitejson/internal/logging/console"
	"github.com/goliatone/go-sitejson/internal/logging/gologger"
	"github.com/goliatone/go-sitejson/pkg/interfaces"
)

// GeneratorService exports the build pipeline contract.
type GeneratorService = generator.Service

// Metrics receives build events. internal/metrics provides a Prometheus backed implementation.
type Metrics = generator.Metrics

// Option customises module wiring.
type Option func(*options)

type options struct {
	fs             afero.Fs
	loggerProvider interfaces.LoggerProvider
	parser         interfaces.MarkdownParser
	metrics        Metrics
	dryRun         bool
	hooks          []generator.DocumentHook
	navigation     NavigationBuilder
}

// WithFS sets the filesystem holding the input roots and the output directory. Defaults to the OS.
func WithFS(fs afero.Fs) Option {
	return func(o *options) { o.fs = fs }
}

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *options) { o.loggerProvider = provider }
}

// WithMarkdownParser replaces the goldmark renderer.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(o *options) { o.parser = parser }
}

// WithMetrics installs build metrics hooks.
func WithMetrics(metrics Metrics) Option {
	return func(o *options) { o.metrics = metrics }
}

// WithDryRun runs every step without writing files.
func WithDryRun(dryRun bool) Option {
	return func(o *options) { o.dryRun = dryRun }
}

// WithDocumentHook adds a hook that may rewrite every document before it is
// serialized and collated. Hooks run in the order they were added and may be
// called concurrently for different documents. A hook error fails the build.
func WithDocumentHook(hook func(*Document) error) Option {
	return func(o *options) {
		if hook != nil {
			o.hooks = append(o.hooks, hook)
		}
	}
}

// WithNavigationBuilder replaces the pages.yml/toc.yml loader. The builder is
// called once per root with the documents of that root.
func WithNavigationBuilder(builder NavigationBuilder) Option {
	return func(o *options) { o.navigation = builder }
}

// Module is the top level runtime façade.
type Module struct {
	generator generator.Service
	handler   *buildcmd.BuildHandler
}

// New validates cfg and wires the pipeline. Configuration errors surface here, before any input is read.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	provider := o.loggerProvider
	if provider == nil {
		var err error
		provider, err = newLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
	}

	svc, err := generator.NewService(generator.Config{Config: cfg, DryRun: o.dryRun}, generator.Dependencies{
		FS:      o.fs,
		Parser:  o.parser,
		Logger:  logging.GeneratorLogger(provider),
		Metrics: o.metrics,

		DocumentHooks: o.hooks,
		Navigation:    o.navigation,
	})
	if err != nil {
		return nil, err
	}

	handler, err := buildcmd.RegisterBuildCommand(nil, svc, provider)
	if err != nil {
		return nil, err
	}

	return &Module{
		generator: svc,
		handler:   handler,
	}, nil
}

// Generator exposes the underlying build service.
func (m *Module) Generator() GeneratorService {
	return m.generator
}

// BuildHandler exposes the build command handler for go-command registries.
func (m *Module) BuildHandler() *buildcmd.BuildHandler {
	return m.handler
}

// Build runs the pipeline over roots and returns the aggregated result,
// also when the build failed part way.
func (m *Module) Build(ctx context.Context, roots ...string) (*BuildResult, error) {
	var result *BuildResult
	err := m.handler.Execute(ctx, buildcmd.BuildCommand{
		Roots: roots,
		ResultCallback: func(env buildcmd.ResultEnvelope) {
			result = env.Result
		},
	})
	return result, err
}

func newLoggerProvider(cfg LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "":
		return nil, nil
	case "console":
		opts := console.Options{Writer: os.Stderr}
		if level := strings.TrimSpace(cfg.Level); level != "" {
			parsed, err := console.ParseLevel(level)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
			}
			opts.MinLevel = &parsed
		}
		return console.NewProvider(opts), nil
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoggingFormatInvalid, err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Provider)
	}
}
