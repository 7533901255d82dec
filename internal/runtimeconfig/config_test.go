package runtimeconfig_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-sitejson/internal/document"
	"github.com/goliatone/go-sitejson/internal/failures"
	"github.com/goliatone/go-sitejson/internal/jsonapi"
	"github.com/goliatone/go-sitejson/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.ContentFolder != "content" || cfg.PageSize != 10 || cfg.CollationFileName != "all.json" {
		t.Fatalf("unexpected defaults %#v", cfg)
	}
	if cfg.Logging.Provider != "" {
		t.Fatalf("expected logging to be off by default, got provider %q", cfg.Logging.Provider)
	}
}

func TestConfigValidate_RejectsCollections(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Collections = []any{map[string]any{"src": "blog"}}

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrCollectionsDeprecated) {
		t.Fatalf("expected ErrCollectionsDeprecated, got %v", err)
	}
	if !failures.IsConfiguration(err) {
		t.Fatalf("expected configuration category, got %v", err)
	}
}

func TestConfigValidate_PaginateRequiresCollate(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Paginate = true

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrPaginateRequiresCollate) {
		t.Fatalf("expected ErrPaginateRequiresCollate, got %v", err)
	}
}

func TestConfigValidate_PageSize(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Collate = true
	cfg.Paginate = true
	cfg.PageSize = 0

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrPageSizeInvalid) {
		t.Fatalf("expected ErrPageSizeInvalid, got %v", err)
	}
}

func TestConfigValidate_UnknownContentType(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.ContentTypes = []string{"html", "bogus"}

	err := cfg.Validate()
	if !failures.IsConfiguration(err) || !strings.Contains(err.Error(), "unknown content type: bogus") {
		t.Fatalf("expected unknown content type error, got %v", err)
	}
}

func TestConfigValidate_UnknownMarkdownExtension(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Markdown.Extensions = []string{"tables", "emoji"}

	if err := cfg.Validate(); !failures.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestConfigValidate_FieldRules(t *testing.T) {
	cases := map[string]func(*runtimeconfig.Config){
		"empty content folder":    func(c *runtimeconfig.Config) { c.ContentFolder = "" },
		"escaping content folder": func(c *runtimeconfig.Config) { c.ContentFolder = "../up" },
		"negative workers":        func(c *runtimeconfig.Config) { c.Workers = -1 },
		"unnamed reference":       func(c *runtimeconfig.Config) { c.References = []jsonapi.Relationship{{Type: "tags"}} },
		"empty collation file": func(c *runtimeconfig.Config) {
			c.Collate = true
			c.CollationFileName = ""
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			mutate(&cfg)
			if err := cfg.Validate(); !failures.IsConfiguration(err) {
				t.Fatalf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "syslog"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestSortFunctionPrecedence(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if cfg.SortFunction() != nil {
		t.Fatalf("expected discovery order by default")
	}

	a := &document.Document{ID: "a", FrontMatter: map[string]any{"order": 2}}
	b := &document.Document{ID: "b", FrontMatter: map[string]any{"order": 1}}

	cfg.PaginateSortBy = "order"
	if less := cfg.SortFunction(); !less(b, a) || less(a, b) {
		t.Fatalf("expected ascending order by field")
	}

	cfg.PaginateSortFunction = func(x, y *document.Document) bool { return x.ID < y.ID }
	if less := cfg.SortFunction(); !less(a, b) {
		t.Fatalf("expected programmatic comparator to win")
	}
}

func TestParseReferences(t *testing.T) {
	refs, err := runtimeconfig.ParseReferences([]any{"tag", map[string]any{"name": "profile", "type": "images"}})
	if err != nil {
		t.Fatalf("ParseReferences: %v", err)
	}
	if len(refs) != 2 || refs[0] != (jsonapi.Relationship{Name: "tag"}) || refs[1] != (jsonapi.Relationship{Name: "profile", Type: "images"}) {
		t.Fatalf("unexpected references %#v", refs)
	}

	if _, err := runtimeconfig.ParseReferences([]any{42}); !failures.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
