// Package jsonapi renders canonical documents and navigation nodes into the
// JSON:API shaped records written to disk.
package jsonapi

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ettle/strcase"
	"github.com/gertd/go-pluralize"

	"github.com/goliatone/go-sitejson/internal/failures"
)

// DefaultType is the resource type used when none is configured.
const DefaultType = "content"

// Source is anything the serializer can read fields from.
type Source interface {
	ResourceID() string
	Field(name string) (any, bool)
}

// Relationship declares a front matter field serialized as a reference.
// An empty Type defaults to the plural of Name.
type Relationship struct {
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"`
}

// Options configures a Serializer.
type Options struct {
	Type          string
	Attributes    []string
	Relationships []Relationship
}

// Identifier is a resource linkage.
type Identifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// RelationshipData wraps a single Identifier or a list of them.
type RelationshipData struct {
	Data any `json:"data"`
}

// Resource is one serialized record.
type Resource struct {
	Type          string                      `json:"type"`
	ID            string                      `json:"id"`
	Attributes    map[string]any              `json:"attributes"`
	Relationships map[string]RelationshipData `json:"relationships,omitempty"`
}

// Links are the pagination links of a collated chunk. Prev and Next encode
// as null at the ends.
type Links struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// Envelope is the top level JSON document.
type Envelope struct {
	Data  any    `json:"data"`
	Links *Links `json:"links,omitempty"`
}

// Serializer is configured once and reused for every record of a build.
type Serializer struct {
	resourceType  string
	attributes    []string
	relationships []Relationship
}

var pluralizer = pluralize.NewClient()

// NewSerializer validates opts. Relationship names must be unique and
// non-empty.
func NewSerializer(opts Options) (*Serializer, error) {
	typ := strings.TrimSpace(opts.Type)
	if typ == "" {
		typ = DefaultType
	}

	rels := make([]Relationship, 0, len(opts.Relationships))
	seen := map[string]struct{}{}
	for _, rel := range opts.Relationships {
		name := strings.TrimSpace(rel.Name)
		if name == "" {
			return nil, failures.Configuration("relationship name is required")
		}
		if _, dup := seen[name]; dup {
			return nil, failures.Configuration("duplicate relationship: %s", name)
		}
		seen[name] = struct{}{}
		relType := strings.TrimSpace(rel.Type)
		if relType == "" {
			relType = Pluralize(name)
		}
		rels = append(rels, Relationship{Name: name, Type: relType})
	}

	attrs := make([]string, 0, len(opts.Attributes))
	for _, attr := range opts.Attributes {
		if _, isRel := seen[attr]; isRel || slices.Contains(attrs, attr) {
			continue
		}
		attrs = append(attrs, attr)
	}

	return &Serializer{
		resourceType:  Pluralize(typ),
		attributes:    attrs,
		relationships: rels,
	}, nil
}

// Type returns the pluralized resource type.
func (s *Serializer) Type() string { return s.resourceType }

// Resource serializes one source. Missing attributes and relationships are
// omitted.
func (s *Serializer) Resource(src Source) Resource {
	res := Resource{
		Type:       s.resourceType,
		ID:         src.ResourceID(),
		Attributes: make(map[string]any, len(s.attributes)),
	}

	for _, name := range s.attributes {
		value, ok := src.Field(name)
		if !ok {
			continue
		}
		res.Attributes[Key(name)] = KebabKeys(value)
	}

	for _, rel := range s.relationships {
		value, ok := src.Field(rel.Name)
		if !ok || value == nil {
			continue
		}
		if res.Relationships == nil {
			res.Relationships = map[string]RelationshipData{}
		}
		res.Relationships[Key(rel.Name)] = RelationshipData{Data: linkage(rel.Type, value)}
	}

	return res
}

// Collection serializes sources in order.
func (s *Serializer) Collection(sources []Source) []Resource {
	out := make([]Resource, 0, len(sources))
	for _, src := range sources {
		out = append(out, s.Resource(src))
	}
	return out
}

func linkage(typ string, value any) any {
	if list, ok := value.([]any); ok {
		ids := make([]Identifier, 0, len(list))
		for _, item := range list {
			ids = append(ids, Identifier{Type: typ, ID: stringify(item)})
		}
		return ids
	}
	if list, ok := value.([]string); ok {
		ids := make([]Identifier, 0, len(list))
		for _, item := range list {
			ids = append(ids, Identifier{Type: typ, ID: item})
		}
		return ids
	}
	return Identifier{Type: typ, ID: stringify(value)}
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Pluralize returns the plural form of a type name.
func Pluralize(word string) string {
	return pluralizer.Plural(word)
}

// Key renders an attribute or relationship name in kebab case.
func Key(name string) string {
	return strcase.ToKebab(name)
}

// KebabKeys rewrites the keys of nested maps in kebab case. Other values are
// returned unchanged.
func KebabKeys(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[Key(key)] = KebabKeys(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = KebabKeys(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = KebabKeys(item)
		}
		return out
	default:
		return value
	}
}
