package bootstrap

import (
	"fmt"

	"github.com/spf13/afero"

	sitejson "github.com/goliatone/go-sitejson"
	"github.com/goliatone/go-sitejson/internal/metrics"
	"github.com/goliatone/go-sitejson/pkg/interfaces"
)

// Options captures the inputs of a CLI bootstrap.
type Options struct {
	FS             afero.Fs
	Config         sitejson.Config
	DryRun         bool
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the sitejson module together with its metrics collector.
type Module struct {
	Module  *sitejson.Module
	Metrics *metrics.Metrics
}

// BuildModule constructs a module configured for CLI builds.
func BuildModule(opts Options) (*Module, error) {
	fs := opts.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}

	collector := metrics.New()
	moduleOpts := []sitejson.Option{
		sitejson.WithFS(fs),
		sitejson.WithMetrics(collector),
		sitejson.WithDryRun(opts.DryRun),
	}
	if opts.LoggerProvider != nil {
		moduleOpts = append(moduleOpts, sitejson.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := sitejson.New(opts.Config, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise sitejson module: %w", err)
	}
	return &Module{Module: module, Metrics: collector}, nil
}
