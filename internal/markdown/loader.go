package markdown

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/goliatone/go-sitejson/internal/failures"
	"github.com/goliatone/go-sitejson/pkg/interfaces"
)

// DefaultExtensions are the file suffixes treated as Markdown sources.
var DefaultExtensions = []string{".md", ".markdown"}

// LoaderConfig configures how Markdown files are discovered within a root.
type LoaderConfig struct {
	// Extensions overrides DefaultExtensions. Matching is case-insensitive.
	Extensions []string
}

// Source is a Markdown file split into its front matter and body.
type Source struct {
	// Path is slash separated and relative to the input root.
	Path        string
	FrontMatter map[string]any
	Body        []byte
	ModTime     time.Time
	Checksum    []byte
}

// Loader turns files on an afero filesystem into Source records.
type Loader struct {
	fs         afero.Fs
	extensions []string
}

// NewLoader constructs a Loader over filesystem.
func NewLoader(filesystem afero.Fs, cfg LoaderConfig) *Loader {
	if filesystem == nil {
		filesystem = afero.NewOsFs()
	}
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	normalized := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	return &Loader{fs: filesystem, extensions: normalized}
}

// Discover lists the Markdown files below root in lexical order. Returned
// entries carry the raw bytes and a root-relative slash path.
func (l *Loader) Discover(ctx context.Context, root string) ([]interfaces.RawFile, error) {
	root = filepath.Clean(root)
	var files []interfaces.RawFile

	err := afero.Walk(l.fs, root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return failures.IO(walkErr, "walk", path)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if info.IsDir() || !l.matches(path) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return failures.IO(err, "relative path", path)
		}
		data, err := afero.ReadFile(l.fs, path)
		if err != nil {
			return failures.IO(err, "read", path)
		}
		files = append(files, interfaces.RawFile{
			Path:    filepath.ToSlash(rel),
			Body:    data,
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// LoadDirectory discovers and splits every Markdown file below root.
func (l *Loader) LoadDirectory(ctx context.Context, root string) ([]*Source, error) {
	files, err := l.Discover(ctx, root)
	if err != nil {
		return nil, err
	}
	sources := make([]*Source, 0, len(files))
	for _, file := range files {
		source, err := Split(file)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return sources, nil
}

// Split parses the front matter of a discovered file.
func Split(file interfaces.RawFile) (*Source, error) {
	meta, body, err := ParseFrontMatter(file.Body)
	if err != nil {
		return nil, failures.Parse(err, file.Path)
	}
	sum := sha256.Sum256(file.Body)
	return &Source{
		Path:        file.Path,
		FrontMatter: meta,
		Body:        body,
		ModTime:     file.ModTime,
		Checksum:    sum[:],
	}, nil
}

func (l *Loader) matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range l.extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}
