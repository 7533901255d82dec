// Package collate groups documents into one listing file and, when
// pagination is enabled, into fixed size chunks linked to each other.
package collate

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/goliatone/go-sitejson/internal/failures"
	"github.com/goliatone/go-sitejson/internal/jsonapi"
)

const (
	DefaultFileName = "all.json"
	DefaultPageSize = 10
)

// Config controls collation for one build.
type Config[T any] struct {
	Enabled  bool
	FileName string
	Paginate bool
	PageSize int
	// Less orders documents before chunking. Nil keeps discovery order.
	Less func(a, b T) bool
}

// Validate rejects pagination without collation and non positive page sizes.
func (c Config[T]) Validate() error {
	if c.Paginate && !c.Enabled {
		return failures.Configuration("paginate requires collate to be enabled")
	}
	if c.Paginate && c.PageSize < 1 {
		return failures.Configuration("pageSize must be at least 1, got %d", c.PageSize)
	}
	return nil
}

func (c Config[T]) withDefaults() Config[T] {
	if strings.TrimSpace(c.FileName) == "" {
		c.FileName = DefaultFileName
	}
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	return c
}

// Output is one collated file: its name relative to the content folder,
// the documents it lists and the pagination links when paginated.
type Output[T any] struct {
	Name  string
	Items []T
	Links *jsonapi.Links
}

// Plan computes every collated file for items. It returns nil when
// collation is disabled. A zero PageSize means DefaultPageSize. The input
// slice is not reordered.
func Plan[T any](cfg Config[T], contentFolder string, items []T) ([]Output[T], error) {
	if !cfg.Enabled {
		return nil, nil
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !cfg.Paginate {
		return []Output[T]{{Name: cfg.FileName, Items: slices.Clone(items)}}, nil
	}

	chunks := Paginate(items, cfg.PageSize, cfg.Less)
	outputs := make([]Output[T], 0, len(chunks)+1)
	for i, chunk := range chunks {
		links := Links(contentFolder, cfg.FileName, i, len(chunks))
		outputs = append(outputs, Output[T]{
			Name:  ChunkName(cfg.FileName, i),
			Items: chunk,
			Links: &links,
		})
		if i == 0 {
			outputs = append(outputs, Output[T]{
				Name:  cfg.FileName,
				Items: chunk,
				Links: &links,
			})
		}
	}
	return outputs, nil
}

// Paginate optionally sorts items (stably) and splits them into chunks of
// size. The final chunk may be shorter. An empty input yields one empty
// chunk so the first page always exists.
func Paginate[T any](items []T, size int, less func(a, b T) bool) [][]T {
	if size < 1 {
		size = DefaultPageSize
	}
	ordered := slices.Clone(items)
	if less != nil {
		slices.SortStableFunc(ordered, func(a, b T) int {
			switch {
			case less(a, b):
				return -1
			case less(b, a):
				return 1
			default:
				return 0
			}
		})
	}

	if len(ordered) == 0 {
		return [][]T{{}}
	}
	chunks := make([][]T, 0, (len(ordered)+size-1)/size)
	for start := 0; start < len(ordered); start += size {
		end := min(start+size, len(ordered))
		chunks = append(chunks, ordered[start:end:end])
	}
	return chunks
}

// ChunkName inserts "-<index>" before a ".json" suffix, or appends it when
// the base name has no such suffix.
func ChunkName(fileName string, index int) string {
	if base, ok := strings.CutSuffix(fileName, ".json"); ok {
		return fmt.Sprintf("%s-%d.json", base, index)
	}
	return fmt.Sprintf("%s-%d", fileName, index)
}

// Links computes the navigation links of chunk index out of total.
func Links(contentFolder, fileName string, index, total int) jsonapi.Links {
	link := func(i int) string {
		return "/" + path.Join(contentFolder, ChunkName(fileName, i))
	}
	links := jsonapi.Links{
		First: link(0),
		Last:  link(total - 1),
	}
	if index > 0 {
		prev := link(index - 1)
		links.Prev = &prev
	}
	if index < total-1 {
		next := link(index + 1)
		links.Next = &next
	}
	return links
}
