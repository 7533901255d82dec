// Package document merges a Markdown source with its rendered output into
// the canonical record that every serialized file is built from.
package document

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-sitejson/pkg/interfaces"
)

// FieldModTime exposes the source modification time. It can be listed under
// attributes like any front matter key.
const FieldModTime = "mtime"

// ErrInvalidID is returned for ids that would be written outside the
// content folder.
var ErrInvalidID = errors.New("document: invalid id")

// Document is the canonical record for one source file.
type Document struct {
	Path string
	ID   string
	// IDOverridden reports whether front matter supplied the id.
	IDOverridden bool
	Content      string
	HTML         string
	TOC          []interfaces.Heading
	Description  string
	FrontMatter  map[string]any
	ModTime      time.Time
	Checksum     []byte

	rendered bool
}

// ResourceID returns the serialized id.
func (d *Document) ResourceID() string { return d.ID }

// OutputPath is the file name the document is written to, relative to the
// content folder.
func (d *Document) OutputPath() string {
	return d.ID + ".json"
}

// Field reads a front matter value or a derived field. Front matter wins for
// every key except id, which is already resolved, and description, which is
// only derived when no authored value exists.
func (d *Document) Field(name string) (any, bool) {
	switch name {
	case "id":
		return d.ID, true
	case "description":
		if d.Description != "" {
			return d.Description, true
		}
	}
	if value, ok := d.FrontMatter[name]; ok {
		return value, true
	}

	switch name {
	case "path":
		return d.Path, true
	case FieldModTime:
		if !d.ModTime.IsZero() {
			return d.ModTime.UTC(), true
		}
	case TypeContent:
		return d.Content, true
	case TypeHTML:
		if d.rendered {
			return d.HTML, true
		}
	case TypeTOC:
		if d.TOC != nil {
			return d.TOC, true
		}
	}
	return nil, false
}

// DefaultID strips the Markdown extension from a slash separated path.
func DefaultID(sourcePath string) string {
	ext := path.Ext(sourcePath)
	switch strings.ToLower(ext) {
	case ".md", ".markdown":
		return strings.TrimSuffix(sourcePath, ext)
	}
	return sourcePath
}

// ValidateID rejects ids that are absolute, empty, not in clean form or that
// contain ".." segments. A valid id always resolves inside the content folder.
func ValidateID(id string) error {
	switch {
	case id == "" || id == ".":
		return fmt.Errorf("%w: %q is empty", ErrInvalidID, id)
	case strings.HasPrefix(id, "/") || strings.Contains(id, `\`):
		return fmt.Errorf("%w: %q must be a relative slash separated path", ErrInvalidID, id)
	case path.Clean(id) != id:
		return fmt.Errorf("%w: %q is not a clean path", ErrInvalidID, id)
	}
	for _, segment := range strings.Split(id, "/") {
		if segment == ".." {
			return fmt.Errorf("%w: %q escapes the content folder", ErrInvalidID, id)
		}
	}
	return nil
}

// stringifyID converts a front matter id scalar into its string form, so
// `id: 1` becomes "1".
func stringifyID(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		v = strings.TrimSpace(v)
		return v, v != ""
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return fmt.Sprint(v), true
	}
}
