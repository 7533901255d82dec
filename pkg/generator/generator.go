// Package generator exposes the build pipeline for hosts that embed sitejson.
// Use NewService with Config and Dependencies to convert markdown roots into JSON:API files.
package generator

import internal "github.com/goliatone/go-sitejson/internal/generator"

type (
	Service      = internal.Service
	Config       = internal.Config
	Dependencies = internal.Dependencies
	Metrics      = internal.Metrics
	BuildResult  = internal.BuildResult
	RootResult   = internal.RootResult
	DocumentHook = internal.DocumentHook
)

// ErrDuplicateID is returned when two outputs of one build resolve to the same file.
var ErrDuplicateID = internal.ErrDuplicateID

// NewService validates cfg and wires the pipeline with the supplied dependencies.
func NewService(cfg Config, deps Dependencies) (Service, error) {
	return internal.NewService(cfg, deps)
}
