package markdown

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-sitejson/internal/failures"
	"github.com/goliatone/go-sitejson/pkg/interfaces"
)

// GoldmarkParser implements interfaces.MarkdownParser using the goldmark engine.
// The default engine is built once and shared; heading ids are tracked per call.
type GoldmarkParser struct {
	defaultOptions interfaces.ParseOptions
	engine         goldmark.Markdown
}

// NewGoldmarkParser constructs a parser for the supplied build-wide options.
// Unknown extension names are rejected.
func NewGoldmarkParser(defaults interfaces.ParseOptions) (*GoldmarkParser, error) {
	engine, err := newGoldmarkEngine(defaults)
	if err != nil {
		return nil, err
	}
	return &GoldmarkParser{
		defaultOptions: defaults,
		engine:         engine,
	}, nil
}

// Parse renders Markdown with the parser's default configuration.
func (p *GoldmarkParser) Parse(markdown []byte) (*interfaces.Rendered, error) {
	return render(p.engine, markdown, p.defaultOptions.HeaderIDPrefix)
}

func render(engine goldmark.Markdown, markdown []byte, idPrefix string) (*interfaces.Rendered, error) {
	pc := parser.NewContext(parser.WithIDs(newHeadingIDs(idPrefix)))
	doc := engine.Parser().Parse(text.NewReader(markdown), parser.WithContext(pc))

	var buf bytes.Buffer
	if err := engine.Renderer().Render(&buf, markdown, doc); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}

	return &interfaces.Rendered{
		HTML:     bytes.TrimRight(buf.Bytes(), " \t\r\n"),
		Headings: collectHeadings(doc, markdown),
	}, nil
}

// ValidateOptions reports unknown extension names as a configuration error.
func ValidateOptions(opts interfaces.ParseOptions) error {
	_, err := collectExtensions(opts.Extensions)
	return err
}

func newGoldmarkEngine(opts interfaces.ParseOptions) (goldmark.Markdown, error) {
	exts, err := collectExtensions(opts.Extensions)
	if err != nil {
		return nil, err
	}

	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
	}

	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	if len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}

	return goldmark.New(engineOptions...), nil
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

// ExtensionNames lists the recognised extension names in sorted order.
func ExtensionNames() []string {
	names := make([]string, 0, len(extensionRegistry))
	for name := range extensionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectExtensions(names []string) ([]goldmark.Extender, error) {
	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}

		ext, ok := extensionRegistry[key]
		if !ok {
			return nil, failures.Configuration("unknown markdown extension: %s (supported: %s)", name, strings.Join(ExtensionNames(), ", "))
		}

		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders, nil
}
