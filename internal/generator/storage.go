package generator

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/afero"

	"github.com/goliatone/go-sitejson/internal/failures"
)

type writeCategory string

const (
	categoryDocument   writeCategory = "document"
	categoryNavigation writeCategory = "navigation"
	categoryCollection writeCategory = "collection"
	categoryManifest   writeCategory = "manifest"
)

// writeFileRequest describes a file write operation routed through the artifact writer.
type writeFileRequest struct {
	Path     string
	Content  []byte
	Root     string
	Category writeCategory
	Checksum string
}

// artifactWriter abstracts the filesystem that receives build outputs.
type artifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req writeFileRequest) error
}

func newArtifactWriter(fs afero.Fs, dryRun bool) artifactWriter {
	if fs == nil || dryRun {
		return noopWriter{}
	}
	return &fsWriter{fs: fs}
}

type fsWriter struct {
	fs afero.Fs
}

func (w *fsWriter) EnsureDir(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" || path == "." {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := w.fs.MkdirAll(path, 0o755); err != nil {
		return failures.IO(err, "mkdir", path)
	}
	return nil
}

func (w *fsWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("generator: write requires path")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := afero.WriteFile(w.fs, req.Path, req.Content, 0o644); err != nil {
		return failures.IO(err, "write", req.Path)
	}
	return nil
}

type noopWriter struct{}

func (noopWriter) EnsureDir(context.Context, string) error { return nil }

func (noopWriter) WriteFile(context.Context, writeFileRequest) error { return nil }
