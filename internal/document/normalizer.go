package document

import (
	"context"
	"slices"
	"strings"

	"github.com/goliatone/go-sitejson/internal/failures"
	"github.com/goliatone/go-sitejson/internal/markdown"
	"github.com/goliatone/go-sitejson/pkg/interfaces"
)

// Content types select which derived fields are exposed as attributes.
const (
	TypeContent     = "content"
	TypeHTML        = "html"
	TypeDescription = "description"
	TypeTOC         = "toc"
)

// DescriptionLength caps derived descriptions, ellipsis included.
const DescriptionLength = 260

// DefaultContentTypes is used when no selection is configured.
var DefaultContentTypes = []string{TypeHTML, TypeContent}

var supportedContentTypes = []string{TypeContent, TypeHTML, TypeDescription, TypeTOC}

// Config configures a Normalizer.
type Config struct {
	ContentTypes []string
}

// Normalizer turns Markdown sources into canonical documents. It holds no
// per-document state and is safe for concurrent use.
type Normalizer struct {
	contentTypes []string
	renderer     Renderer
}

// Renderer renders a Markdown source.
type Renderer interface {
	Render(ctx context.Context, source *markdown.Source) (*interfaces.Rendered, error)
}

// ValidateContentTypes rejects values outside content, html, description and toc.
func ValidateContentTypes(types []string) error {
	for _, t := range types {
		if !slices.Contains(supportedContentTypes, t) {
			return failures.Configuration("unknown content type: %s", t)
		}
	}
	return nil
}

// NewNormalizer validates the content type selection up front so a bad
// configuration fails before any file is read.
func NewNormalizer(cfg Config, renderer Renderer) (*Normalizer, error) {
	types := cfg.ContentTypes
	if len(types) == 0 {
		types = DefaultContentTypes
	}
	if err := ValidateContentTypes(types); err != nil {
		return nil, err
	}
	if renderer == nil {
		return nil, failures.Configuration("document normalizer: renderer is required")
	}
	return &Normalizer{
		contentTypes: compactStrings(types),
		renderer:     renderer,
	}, nil
}

// ContentTypes returns the effective selection.
func (n *Normalizer) ContentTypes() []string {
	return slices.Clone(n.contentTypes)
}

// Selected reports whether contentType is part of the selection.
func (n *Normalizer) Selected(contentType string) bool {
	return slices.Contains(n.contentTypes, contentType)
}

// Normalize builds the canonical document for source. The derived id is
// returned on the document itself.
func (n *Normalizer) Normalize(ctx context.Context, source *markdown.Source) (*Document, error) {
	doc := &Document{
		Path:        source.Path,
		ID:          DefaultID(source.Path),
		Content:     string(source.Body),
		FrontMatter: source.FrontMatter,
		ModTime:     source.ModTime,
		Checksum:    source.Checksum,
	}
	if doc.FrontMatter == nil {
		doc.FrontMatter = map[string]any{}
	}
	if id, ok := stringifyID(doc.FrontMatter["id"]); ok {
		doc.ID = id
		doc.IDOverridden = true
	}
	if err := ValidateID(doc.ID); err != nil {
		return nil, failures.Parse(err, source.Path)
	}

	authored := hasAuthoredDescription(doc.FrontMatter)
	wantDescription := n.Selected(TypeDescription) && !authored
	if n.Selected(TypeHTML) || n.Selected(TypeTOC) || wantDescription {
		rendered, err := n.renderer.Render(ctx, source)
		if err != nil {
			return nil, failures.Parse(err, source.Path)
		}
		doc.HTML = string(rendered.HTML)
		doc.rendered = true
		if n.Selected(TypeTOC) {
			doc.TOC = rendered.Headings
			if doc.TOC == nil {
				doc.TOC = []interfaces.Heading{}
			}
		}
		if wantDescription {
			doc.Description = markdown.Truncate(markdown.PlainText(rendered.HTML), DescriptionLength)
		}
	}

	return doc, nil
}

// AttributeNames is the ordered union of the content type selection and the
// extra whitelisted front matter fields.
func AttributeNames(contentTypes []string, extra ...[]string) []string {
	names := compactStrings(contentTypes)
	for _, list := range extra {
		for _, name := range list {
			name = strings.TrimSpace(name)
			if name != "" && !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	return names
}

func hasAuthoredDescription(frontMatter map[string]any) bool {
	value, ok := frontMatter[TypeDescription]
	if !ok || value == nil {
		return false
	}
	if s, isString := value.(string); isString {
		return s != ""
	}
	return true
}

func compactStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
