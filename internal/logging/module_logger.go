package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-sitejson/pkg/interfaces"
)

const (
	rootModule       = "sitejson"
	markdownModule   = "sitejson.markdown"
	generatorModule  = "sitejson.generator"
	navigationModule = "sitejson.navigation"
)

const (
	fieldRoot       = "root"
	fieldSourcePath = "source_path"
	fieldDocumentID = "document_id"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module name is attached
// as a structured field so entries can be filtered per pipeline stage.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// MarkdownLogger returns the logger reserved for reading and rendering markdown.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// GeneratorLogger returns the logger reserved for the build pipeline.
func GeneratorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generatorModule)
}

// NavigationLogger returns the logger reserved for navigation tree builds.
func NavigationLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, navigationModule)
}

// WithDocumentContext enriches logger with the input root, source path and
// document id. Empty values are skipped.
func WithDocumentContext(logger interfaces.Logger, root, path, id string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(root); trimmed != "" {
		fields[fieldRoot] = trimmed
	}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldSourcePath] = trimmed
	}
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		fields[fieldDocumentID] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
