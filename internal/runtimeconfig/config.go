package runtimeconfig

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-sitejson/internal/collate"
	"github.com/goliatone/go-sitejson/internal/document"
	"github.com/goliatone/go-sitejson/internal/failures"
	"github.com/goliatone/go-sitejson/internal/jsonapi"
	"github.com/goliatone/go-sitejson/internal/markdown"
	"github.com/goliatone/go-sitejson/pkg/interfaces"
)

// ErrCollectionsDeprecated is returned when the removed collections option is set.
var ErrCollectionsDeprecated = errors.New("sitejson config: collections is no longer supported, use collate and paginate")

// ErrPaginateRequiresCollate guards pagination without a collation file.
var ErrPaginateRequiresCollate = errors.New("sitejson config: paginate requires collate to be enabled")

var ErrPageSizeInvalid = errors.New("sitejson config: pageSize must be at least 1 when paginating")
var ErrLoggingProviderUnknown = errors.New("sitejson config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("sitejson config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("sitejson config: logging format is invalid")

// Config is the typed build configuration. Keys follow the camelCase names
// used in configuration files.
type Config struct {
	ContentFolder          string                  `json:"contentFolder" yaml:"contentFolder" mapstructure:"contentFolder"`
	OutputDir              string                  `json:"outputDir" yaml:"outputDir" mapstructure:"outputDir"`
	ContentTypes           []string                `json:"contentTypes" yaml:"contentTypes" mapstructure:"contentTypes"`
	Attributes             []string                `json:"attributes" yaml:"attributes" mapstructure:"attributes"`
	References             []jsonapi.Relationship  `json:"references" yaml:"references" mapstructure:"references"`
	Type                   string                  `json:"type" yaml:"type" mapstructure:"type"`
	Collate                bool                    `json:"collate" yaml:"collate" mapstructure:"collate"`
	CollationFileName      string                  `json:"collationFileName" yaml:"collationFileName" mapstructure:"collationFileName"`
	Paginate               bool                    `json:"paginate" yaml:"paginate" mapstructure:"paginate"`
	PageSize               int                     `json:"pageSize" yaml:"pageSize" mapstructure:"pageSize"`
	PaginateSortBy         string                  `json:"paginateSortBy" yaml:"paginateSortBy" mapstructure:"paginateSortBy"`
	PaginateSortDescending bool                    `json:"paginateSortDescending" yaml:"paginateSortDescending" mapstructure:"paginateSortDescending"`
	Markdown               interfaces.ParseOptions `json:"markdown" yaml:"markdown" mapstructure:"markdown"`
	Workers                int                     `json:"workers" yaml:"workers" mapstructure:"workers"`
	Manifest               bool                    `json:"manifest" yaml:"manifest" mapstructure:"manifest"`
	Logging                LoggingConfig           `json:"logging" yaml:"logging" mapstructure:"logging"`

	// PaginateSortFunction orders collated documents. It takes precedence
	// over PaginateSortBy.
	PaginateSortFunction func(a, b *document.Document) bool `json:"-" yaml:"-" mapstructure:"-"`

	// Collections is only read to reject configurations written for the
	// removed option.
	Collections any `json:"collections,omitempty" yaml:"collections,omitempty" mapstructure:"collections"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string `json:"provider" yaml:"provider" mapstructure:"provider"`
	Level     string `json:"level" yaml:"level" mapstructure:"level"`
	Format    string `json:"format" yaml:"format" mapstructure:"format"`
	AddSource bool   `json:"add_source" yaml:"add_source" mapstructure:"add_source"`
}

// DefaultConfig returns the defaults every build starts from.
func DefaultConfig() Config {
	return Config{
		ContentFolder:     "content",
		OutputDir:         "dist",
		ContentTypes:      append([]string(nil), document.DefaultContentTypes...),
		Type:              jsonapi.DefaultType,
		CollationFileName: collate.DefaultFileName,
		PageSize:          collate.DefaultPageSize,
		Workers:           runtime.NumCPU(),
		// An empty provider keeps logging silent.
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate performs consistency checks. Every failure carries the
// configuration category.
func (cfg Config) Validate() error {
	if cfg.Collections != nil {
		return failures.WrapConfiguration(ErrCollectionsDeprecated, "collections")
	}
	if cfg.Paginate && !cfg.Collate {
		return failures.WrapConfiguration(ErrPaginateRequiresCollate, "paginate")
	}
	if cfg.Paginate && cfg.PageSize < 1 {
		return failures.WrapConfiguration(fmt.Errorf("%w: %d", ErrPageSizeInvalid, cfg.PageSize), "pageSize")
	}
	if err := document.ValidateContentTypes(cfg.ContentTypes); err != nil {
		return err
	}
	if err := markdown.ValidateOptions(cfg.Markdown); err != nil {
		return err
	}

	err := validation.ValidateStruct(&cfg,
		validation.Field(&cfg.ContentFolder, validation.Required, validation.By(relativePath)),
		validation.Field(&cfg.OutputDir, validation.Required),
		validation.Field(&cfg.Workers, validation.Min(0)),
		validation.Field(&cfg.CollationFileName, validation.When(cfg.Collate, validation.Required, validation.By(relativePath))),
		validation.Field(&cfg.References, validation.Each(validation.By(namedReference))),
	)
	if err != nil {
		return failures.WrapConfiguration(err, "invalid configuration")
	}

	if provider := normalizeProvider(cfg.Logging.Provider); provider != "" {
		if !isSupportedProvider(provider) {
			return failures.WrapConfiguration(fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider), "logging")
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return failures.WrapConfiguration(fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level), "logging")
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return failures.WrapConfiguration(fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format), "logging")
			}
		}
	}
	return nil
}

// SortFunction resolves the collation comparator: the programmatic function
// wins, then PaginateSortBy, otherwise discovery order is kept.
func (cfg Config) SortFunction() func(a, b *document.Document) bool {
	if cfg.PaginateSortFunction != nil {
		return cfg.PaginateSortFunction
	}
	if field := strings.TrimSpace(cfg.PaginateSortBy); field != "" {
		return collate.ByField[*document.Document](field, cfg.PaginateSortDescending)
	}
	return nil
}

// CollateConfig projects the collation options.
func (cfg Config) CollateConfig() collate.Config[*document.Document] {
	return collate.Config[*document.Document]{
		Enabled:  cfg.Collate,
		FileName: cfg.CollationFileName,
		Paginate: cfg.Paginate,
		PageSize: cfg.PageSize,
		Less:     cfg.SortFunction(),
	}
}

// ParseReferences accepts the loose form used in configuration files: a
// list whose entries are either a field name or a {name, type} map.
func ParseReferences(raw any) ([]jsonapi.Relationship, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		if names, isStrings := raw.([]string); isStrings {
			for _, name := range names {
				items = append(items, name)
			}
		} else {
			return nil, failures.Configuration("references must be a list, got %T", raw)
		}
	}

	out := make([]jsonapi.Relationship, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, jsonapi.Relationship{Name: v})
		case map[string]any:
			name, _ := v["name"].(string)
			typ, _ := v["type"].(string)
			out = append(out, jsonapi.Relationship{Name: name, Type: typ})
		case map[any]any:
			name, _ := v["name"].(string)
			typ, _ := v["type"].(string)
			out = append(out, jsonapi.Relationship{Name: name, Type: typ})
		default:
			return nil, failures.Configuration("references[%d]: unsupported value %T", i, item)
		}
	}
	return out, nil
}

func relativePath(value any) error {
	s, _ := value.(string)
	if strings.HasPrefix(s, "/") || strings.Contains(s, "..") {
		return validation.NewError("sitejson.config.path_invalid", "must be a relative path inside the output directory")
	}
	return nil
}

func namedReference(value any) error {
	ref, _ := value.(jsonapi.Relationship)
	if strings.TrimSpace(ref.Name) == "" {
		return validation.NewError("sitejson.config.reference_name_required", "reference name is required")
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
