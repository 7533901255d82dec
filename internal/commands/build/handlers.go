package buildcmd

import (
	"context"
	"errors"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-sitejson/internal/commands"
	"github.com/goliatone/go-sitejson/internal/generator"
	"github.com/goliatone/go-sitejson/internal/logging"
	"github.com/goliatone/go-sitejson/pkg/interfaces"
)

const buildOperation = "sitejson.build"

// ErrServiceMissing is returned when the handler has no generator to run.
var ErrServiceMissing = errors.New("build command: generator service is nil")

var _ command.Commander[BuildCommand] = (*BuildHandler)(nil)

// BuildHandler runs generator builds through the shared command handler foundation.
type BuildHandler struct {
	inner *commands.Handler[BuildCommand]
}

// NewBuildHandler constructs a handler wired to the provided generator service.
func NewBuildHandler(service generator.Service, logger interfaces.Logger, opts ...commands.HandlerOption[BuildCommand]) *BuildHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg BuildCommand) error {
		if service == nil {
			return ErrServiceMissing
		}

		result, err := service.Build(ctx, normalizeRoots(msg.Roots))
		metadata := map[string]any{"operation": "build"}
		if result != nil {
			metadata["run_id"] = result.RunID
			metadata["documents"] = result.Documents
			metadata["files"] = len(result.Files)
		}
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Result:   result,
			Metadata: metadata,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[BuildCommand]{
		commands.WithLogger[BuildCommand](baseLogger),
		commands.WithOperation[BuildCommand](buildOperation),
		// Builds over large trees are bounded by the caller's context instead.
		commands.WithTimeout[BuildCommand](0),
		commands.WithMessageFields(func(msg BuildCommand) map[string]any {
			return map[string]any{
				"roots": len(msg.Roots),
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildCommand].
func (h *BuildHandler) Execute(ctx context.Context, msg BuildCommand) error {
	return h.inner.Execute(ctx, msg)
}

// normalizeRoots trims roots and drops repeats, keeping the first occurrence.
func normalizeRoots(values []string) []string {
	out := make([]string, 0, len(values))
	seen := map[string]struct{}{}
	for _, root := range values {
		trimmed := strings.TrimSpace(root)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func invokeCallback(cb ResultCallback, envelope ResultEnvelope) {
	if cb == nil {
		return
	}
	cb(envelope)
}
