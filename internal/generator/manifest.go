package generator

import (
	"encoding/json"
	"sort"
	"time"
)

const (
	manifestFileName    = "manifest.json"
	manifestFileVersion = 1
)

// buildManifest lists every file a build emitted with its checksum.
type buildManifest struct {
	Version     int            `json:"version"`
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Files       []manifestFile `json:"files"`
}

type manifestFile struct {
	Path     string `json:"path"`
	Root     string `json:"root"`
	Category string `json:"category"`
	Checksum string `json:"checksum"`
	Size     int    `json:"size"`
}

func newBuildManifest(runID string, generatedAt time.Time) *buildManifest {
	return &buildManifest{
		Version:     manifestFileVersion,
		RunID:       runID,
		GeneratedAt: generatedAt,
		Files:       []manifestFile{},
	}
}

func (m *buildManifest) add(req writeFileRequest, rel string) {
	if m == nil {
		return
	}
	m.Files = append(m.Files, manifestFile{
		Path:     rel,
		Root:     req.Root,
		Category: string(req.Category),
		Checksum: req.Checksum,
		Size:     len(req.Content),
	})
}

func (m *buildManifest) marshal() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	cloned := *m
	cloned.Files = append([]manifestFile(nil), m.Files...)
	// Stable ordering for deterministic output.
	sort.Slice(cloned.Files, func(i, j int) bool {
		return cloned.Files[i].Path < cloned.Files[j].Path
	})
	if cloned.Files == nil {
		cloned.Files = []manifestFile{}
	}
	return json.MarshalIndent(cloned, "", "  ")
}
