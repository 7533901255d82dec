// Package navigation loads the authored page tree of an input root, resolves
// nested urls and serializes the result as a pages collection.
package navigation

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-sitejson/internal/document"
	"github.com/goliatone/go-sitejson/internal/failures"
	"github.com/goliatone/go-sitejson/internal/jsonapi"
	"github.com/goliatone/go-sitejson/internal/logging"
	"github.com/goliatone/go-sitejson/internal/markdown"
	"github.com/goliatone/go-sitejson/pkg/interfaces"
)

// CandidateFiles are probed in order; the first one present wins.
var CandidateFiles = []string{
	"pages.yml",
	"pages.yaml",
	"toc.yml",
	"toc.yaml",
	"pages.json",
	"toc.json",
}

// ResourceType is the singular type name of navigation records.
const ResourceType = "page"

//go:embed schema.json
var schemaSource []byte

const schemaURL = "sitejson://navigation.schema.json"

// Node is one entry of the page tree. Pages is nil when the entry has no
// children key and SkipTOC is nil when skip_toc was not authored.
type Node struct {
	Title   string
	URL     string
	SkipTOC *bool
	Pages   []Node
	Extra   map[string]any
}

// DefaultOutputName is used for trees that do not come from a file.
const DefaultOutputName = "pages.json"

// Tree is a decoded page tree with the root and the name of the file it came
// from.
type Tree struct {
	Root   string
	Source string
	Nodes  []Node
}

// OutputName is the file the serialized tree is written to: pages.json or
// toc.json depending on the source file name.
func (t *Tree) OutputName() string {
	if t.Source == "" {
		return DefaultOutputName
	}
	base := strings.TrimSuffix(t.Source, path.Ext(t.Source))
	return base + ".json"
}

// Origin names the tree in error messages.
func (t *Tree) Origin() string {
	if t.Source == "" {
		return path.Join(t.Root, DefaultOutputName)
	}
	return path.Join(t.Root, t.Source)
}

// Builder produces the page tree of one input root from its normalized
// documents. A nil tree means the root has no navigation.
type Builder interface {
	Build(ctx context.Context, root string, docs []*document.Document) (*Tree, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(ctx context.Context, root string, docs []*document.Document) (*Tree, error)

func (f BuilderFunc) Build(ctx context.Context, root string, docs []*document.Document) (*Tree, error) {
	return f(ctx, root, docs)
}

// Merge joins trees sharing an output name, keeping their nodes in input
// order. The first tree of each group provides its root and source.
func Merge(trees []*Tree) []*Tree {
	var out []*Tree
	byName := map[string]*Tree{}
	for _, tree := range trees {
		if tree == nil {
			continue
		}
		name := tree.OutputName()
		merged, ok := byName[name]
		if !ok {
			merged = &Tree{Root: tree.Root, Source: tree.Source}
			byName[name] = merged
			out = append(out, merged)
		}
		merged.Nodes = append(merged.Nodes, tree.Nodes...)
	}
	return out
}

// Loader finds and decodes page trees on an afero filesystem.
type Loader struct {
	fs     afero.Fs
	schema *jsonschema.Schema
	logger interfaces.Logger
}

// NewLoader compiles the embedded tree schema.
func NewLoader(filesystem afero.Fs, logger interfaces.Logger) (*Loader, error) {
	if filesystem == nil {
		filesystem = afero.NewOsFs()
	}
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	return &Loader{
		fs:     filesystem,
		schema: schema,
		logger: logging.Ensure(logger),
	}, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaSource)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
}

// Load reads the first candidate file under root. It returns nil when the
// root has no page tree.
func (l *Loader) Load(ctx context.Context, root string) (*Tree, error) {
	for _, name := range CandidateFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		full := path.Join(root, name)
		data, err := afero.ReadFile(l.fs, full)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, failures.IO(err, "read", full)
		}

		nodes, err := l.Decode(name, data)
		if err != nil {
			return nil, failures.Parse(err, full)
		}
		l.logger.Debug("navigation.tree.loaded", "source", full, "entries", len(nodes))
		return &Tree{Root: root, Source: name, Nodes: nodes}, nil
	}
	return nil, nil
}

// Build implements Builder with the authored tree file of root. The
// documents are not consulted.
func (l *Loader) Build(ctx context.Context, root string, _ []*document.Document) (*Tree, error) {
	return l.Load(ctx, root)
}

// Decode parses YAML or JSON (chosen by file extension) and validates the
// result against the tree schema.
func (l *Loader) Decode(name string, data []byte) ([]Node, error) {
	var raw any
	switch path.Ext(name) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	}

	doc, err := toJSONValue(markdown.NormalizeValue(raw))
	if err != nil {
		return nil, err
	}
	if err := l.schema.Validate(doc); err != nil {
		return nil, err
	}

	items, _ := doc.([]any)
	return toNodes(items), nil
}

// toJSONValue round trips v through encoding/json so every value has a type
// the schema validator understands. Numbers are kept as json.Number.
func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func toNodes(items []any) []Node {
	nodes := make([]Node, 0, len(items))
	for _, item := range items {
		fields, _ := item.(map[string]any)
		nodes = append(nodes, toNode(fields))
	}
	return nodes
}

func toNode(fields map[string]any) Node {
	node := Node{Extra: map[string]any{}}
	for key, value := range fields {
		switch key {
		case "title":
			node.Title, _ = value.(string)
		case "url":
			node.URL, _ = value.(string)
		case "skip_toc":
			if b, ok := value.(bool); ok {
				node.SkipTOC = &b
			}
		case "pages":
			children, _ := value.([]any)
			node.Pages = toNodes(children)
		default:
			node.Extra[key] = value
		}
	}
	return node
}

// Resolve returns a copy of nodes where each url is prefixed with its
// parent's resolved url. A parent whose url resolves to "" does not prefix
// its children. The input is not modified.
func Resolve(nodes []Node) []Node {
	return resolve("", nodes)
}

func resolve(parentURL string, nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, node := range nodes {
		resolved := node
		if parentURL != "" {
			resolved.URL = parentURL + "/" + node.URL
		}
		if node.SkipTOC != nil {
			skip := *node.SkipTOC
			resolved.SkipTOC = &skip
		}
		resolved.Extra = maps.Clone(node.Extra)
		resolved.Pages = resolve(resolved.URL, node.Pages)
		out[i] = resolved
	}
	return out
}

// ResourceID implements jsonapi.Source.
func (n Node) ResourceID() string { return n.URL }

// Field implements jsonapi.Source.
func (n Node) Field(name string) (any, bool) {
	switch name {
	case "title":
		return n.Title, true
	case "url":
		return n.URL, true
	case "skip_toc":
		if n.SkipTOC == nil {
			return nil, false
		}
		return *n.SkipTOC, true
	case "pages":
		if n.Pages == nil {
			return nil, false
		}
		children := make([]any, 0, len(n.Pages))
		for _, child := range n.Pages {
			children = append(children, child.fields())
		}
		return children, true
	}
	value, ok := n.Extra[name]
	return value, ok
}

func (n Node) fields() map[string]any {
	out := maps.Clone(n.Extra)
	if out == nil {
		out = map[string]any{}
	}
	for _, key := range []string{"title", "url", "skip_toc", "pages"} {
		if value, ok := n.Field(key); ok {
			out[key] = value
		}
	}
	return out
}

// Serialize renders resolved nodes as a pages collection. Every authored key
// of a top level node becomes an attribute.
func Serialize(nodes []Node) ([]jsonapi.Resource, error) {
	attributes := []string{"title", "pages", "skip_toc"}
	for _, node := range nodes {
		for _, key := range slices.Sorted(maps.Keys(node.Extra)) {
			if !slices.Contains(attributes, key) {
				attributes = append(attributes, key)
			}
		}
	}

	serializer, err := jsonapi.NewSerializer(jsonapi.Options{
		Type:       ResourceType,
		Attributes: attributes,
	})
	if err != nil {
		return nil, err
	}

	sources := make([]jsonapi.Source, 0, len(nodes))
	for _, node := range nodes {
		sources = append(sources, node)
	}
	return serializer.Collection(sources), nil
}
