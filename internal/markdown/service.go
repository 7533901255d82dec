package markdown

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/goliatone/go-sitejson/internal/logging"
	"github.com/goliatone/go-sitejson/pkg/interfaces"
)

// Config controls how the Markdown service discovers and renders files.
type Config struct {
	Loader LoaderConfig
	Parser interfaces.ParseOptions
}

// Service pairs discovery with rendering for one build.
type Service struct {
	loader *Loader
	parser interfaces.MarkdownParser
	logger interfaces.Logger
}

// NewService constructs a Markdown service. When parser is nil a goldmark
// parser with cfg.Parser is created, which fails on unknown extensions.
func NewService(filesystem afero.Fs, cfg Config, parser interfaces.MarkdownParser, logger interfaces.Logger) (*Service, error) {
	if parser == nil {
		gp, err := NewGoldmarkParser(cfg.Parser)
		if err != nil {
			return nil, err
		}
		parser = gp
	}
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Service{
		loader: NewLoader(filesystem, cfg.Loader),
		parser: parser,
		logger: logger,
	}, nil
}

// Load reads and splits every Markdown document below root.
func (s *Service) Load(ctx context.Context, root string) ([]*Source, error) {
	sources, err := s.loader.LoadDirectory(ctx, root)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("markdown.sources.loaded", "root", root, "count", len(sources))
	return sources, nil
}

// Render converts a source body into HTML and its heading outline.
func (s *Service) Render(ctx context.Context, source *Source) (*interfaces.Rendered, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("markdown service: source is nil")
	}
	rendered, err := s.parser.Parse(source.Body)
	if err != nil {
		return nil, fmt.Errorf("markdown render %s: %w", source.Path, err)
	}
	return rendered, nil
}
