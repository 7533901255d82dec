package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/goliatone/go-sitejson/internal/document"
	"github.com/goliatone/go-sitejson/internal/failures"
	"github.com/goliatone/go-sitejson/internal/jsonapi"
	"github.com/goliatone/go-sitejson/internal/navigation"
	"github.com/goliatone/go-sitejson/internal/runtimeconfig"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Links *struct {
		First string  `json:"first"`
		Last  string  `json:"last"`
		Prev  *string `json:"prev"`
		Next  *string `json:"next"`
	} `json:"links"`
}

type resource struct {
	Type          string                     `json:"type"`
	ID            string                     `json:"id"`
	Attributes    map[string]any             `json:"attributes"`
	Relationships map[string]json.RawMessage `json:"relationships"`
}

func testConfig(mutate func(*runtimeconfig.Config)) Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Workers = 4
	if mutate != nil {
		mutate(&cfg)
	}
	return Config{Config: cfg}
}

func newTestService(t *testing.T, fs afero.Fs, cfg Config, metrics Metrics) *service {
	t.Helper()
	return newTestServiceWith(t, cfg, Dependencies{FS: fs, Metrics: metrics})
}

func newTestServiceWith(t *testing.T, cfg Config, deps Dependencies) *service {
	t.Helper()
	svc, err := NewService(cfg, deps)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	impl := svc.(*service)
	impl.now = func() time.Time { return time.Date(2024, 2, 5, 14, 30, 0, 0, time.UTC) }
	impl.newRunID = func() string { return "run-1" }
	return impl
}

func writeFile(t *testing.T, fs afero.Fs, name, body string) {
	t.Helper()
	if err := afero.WriteFile(fs, name, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func readEnvelope(t *testing.T, fs afero.Fs, name string) envelope {
	t.Helper()
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("decode %s: %v", name, err)
	}
	return env
}

func readResource(t *testing.T, fs afero.Fs, name string) resource {
	t.Helper()
	var res resource
	if err := json.Unmarshal(readEnvelope(t, fs, name).Data, &res); err != nil {
		t.Fatalf("decode resource %s: %v", name, err)
	}
	return res
}

func readCollection(t *testing.T, fs afero.Fs, name string) ([]resource, envelope) {
	t.Helper()
	env := readEnvelope(t, fs, name)
	var items []resource
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("decode collection %s: %v", name, err)
	}
	return items, env
}

func TestBuildEmitsDocuments(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "docs/intro.md", "---\ntitle: Intro\nauthor: sam\n---\n# Hello world\n\nBody *text*.")
	writeFile(t, fs, "docs/guides/setup.md", "---\nid: 1\ntitle: Setup\n---\nSteps")

	svc := newTestService(t, fs, testConfig(func(cfg *runtimeconfig.Config) {
		cfg.Attributes = []string{"title"}
		cfg.References = []jsonapi.Relationship{{Name: "author"}}
	}), nil)

	result, err := svc.Build(context.Background(), []string{"docs"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.RunID != "run-1" || result.Documents != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(result.Files) != 2 {
		t.Fatalf("expected 2 files, got %v", result.Files)
	}

	intro := readResource(t, fs, "dist/content/intro.json")
	if intro.Type != "content" {
		t.Fatalf("unexpected type %q", intro.Type)
	}
	if intro.ID != "intro" {
		t.Fatalf("expected id intro, got %q", intro.ID)
	}
	if intro.Attributes["title"] != "Intro" {
		t.Fatalf("expected title attribute, got %#v", intro.Attributes)
	}
	if _, ok := intro.Attributes["author"]; ok {
		t.Fatalf("relationship must not be duplicated as attribute")
	}
	if string(intro.Relationships["author"]) != `{"data":{"type":"authors","id":"sam"}}` {
		t.Fatalf("unexpected relationship %s", intro.Relationships["author"])
	}

	raw, err := afero.ReadFile(fs, "dist/content/intro.json")
	if err != nil {
		t.Fatalf("read intro: %v", err)
	}
	if !strings.Contains(string(raw), `<h1 id=\"helloworld\">Hello world</h1>`) || !strings.Contains(string(raw), "<em>text</em>") {
		t.Fatalf("expected unescaped html in output, got %s", raw)
	}

	setup := readResource(t, fs, "dist/content/1.json")
	if setup.ID != "1" {
		t.Fatalf("expected overridden id 1, got %q", setup.ID)
	}
	if ok, _ := afero.Exists(fs, "dist/content/guides/setup.json"); ok {
		t.Fatalf("overridden id must not be written at the mirrored path")
	}
}

func TestBuildPaginates(t *testing.T) {
	fs := afero.NewMemMapFs()
	for i := 0; i < 12; i++ {
		writeFile(t, fs, fmt.Sprintf("docs/post-%02d.md", i), fmt.Sprintf("---\ntitle: Post %d\n---\nbody", i))
	}

	svc := newTestService(t, fs, testConfig(func(cfg *runtimeconfig.Config) {
		cfg.Collate = true
		cfg.Paginate = true
		cfg.PageSize = 10
	}), nil)

	result, err := svc.Build(context.Background(), []string{"docs"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Chunks != 2 {
		t.Fatalf("expected 2 chunks, got %d", result.Chunks)
	}

	first, env := readCollection(t, fs, "dist/content/all-0.json")
	if len(first) != 10 {
		t.Fatalf("expected 10 items in first chunk, got %d", len(first))
	}
	if first[0].ID != "post-00" || first[9].ID != "post-09" {
		t.Fatalf("chunk order not preserved: %s..%s", first[0].ID, first[9].ID)
	}
	if env.Links == nil || env.Links.Prev != nil || env.Links.Next == nil || *env.Links.Next != "/content/all-1.json" {
		t.Fatalf("unexpected first links %+v", env.Links)
	}
	if env.Links.First != "/content/all-0.json" || env.Links.Last != "/content/all-1.json" {
		t.Fatalf("unexpected first/last %+v", env.Links)
	}

	second, env := readCollection(t, fs, "dist/content/all-1.json")
	if len(second) != 2 {
		t.Fatalf("expected 2 items in last chunk, got %d", len(second))
	}
	if env.Links.Next != nil || env.Links.Prev == nil || *env.Links.Prev != "/content/all-0.json" {
		t.Fatalf("unexpected last links %+v", env.Links)
	}

	chunk0, err := afero.ReadFile(fs, "dist/content/all-0.json")
	if err != nil {
		t.Fatalf("read chunk: %v", err)
	}
	canonical, err := afero.ReadFile(fs, "dist/content/all.json")
	if err != nil {
		t.Fatalf("read canonical: %v", err)
	}
	if string(chunk0) != string(canonical) {
		t.Fatalf("canonical file must equal chunk 0")
	}
}

func TestBuildCollatesWithSortField(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "docs/a.md", "---\norder: 2\n---\na")
	writeFile(t, fs, "docs/b.md", "---\norder: 1\n---\nb")
	writeFile(t, fs, "docs/c.md", "c")

	svc := newTestService(t, fs, testConfig(func(cfg *runtimeconfig.Config) {
		cfg.Collate = true
		cfg.CollationFileName = "index.json"
		cfg.PaginateSortBy = "order"
	}), nil)

	if _, err := svc.Build(context.Background(), []string{"docs"}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	items, env := readCollection(t, fs, "dist/content/index.json")
	if env.Links != nil {
		t.Fatalf("unpaginated collation must not carry links")
	}
	var ids []string
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	if strings.Join(ids, ",") != "a,b,c" {
		t.Fatalf("unpaginated collation keeps discovery order, got %v", ids)
	}
}

func TestBuildWritesNavigation(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "docs/index.md", "home")
	writeFile(t, fs, "docs/toc.yml", "- title: Guides\n  url: guides\n  pages:\n    - title: Setup\n      url: setup\n")

	svc := newTestService(t, fs, testConfig(nil), nil)
	result, err := svc.Build(context.Background(), []string{"docs"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Pages != 1 {
		t.Fatalf("expected 1 navigation entry, got %d", result.Pages)
	}

	items, _ := readCollection(t, fs, "dist/content/toc.json")
	if len(items) != 1 || items[0].Type != "page" || items[0].ID != "guides" {
		t.Fatalf("unexpected navigation %+v", items)
	}
	pages, ok := items[0].Attributes["pages"].([]any)
	if !ok || len(pages) != 1 {
		t.Fatalf("expected nested pages, got %#v", items[0].Attributes["pages"])
	}
	child := pages[0].(map[string]any)
	if child["url"] != "guides/setup" {
		t.Fatalf("expected resolved child url, got %#v", child["url"])
	}
}

func TestBuildSkipsMissingRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	metrics := &recordingMetrics{}
	svc := newTestService(t, fs, testConfig(nil), metrics)

	result, err := svc.Build(context.Background(), []string{"nowhere"})
	if err != nil {
		t.Fatalf("missing root must not fail: %v", err)
	}
	if len(result.Files) != 0 || !result.Roots[0].Skipped {
		t.Fatalf("expected skipped root with no files, got %+v", result)
	}
	if ok, _ := afero.DirExists(fs, "dist"); ok {
		t.Fatalf("missing root must not create output")
	}
	if metrics.skipped != 1 || metrics.builds != 1 {
		t.Fatalf("unexpected metrics %+v", metrics)
	}
}

func TestNewServiceRejectsUnknownContentType(t *testing.T) {
	_, err := NewService(testConfig(func(cfg *runtimeconfig.Config) {
		cfg.ContentTypes = []string{"html", "bogus"}
	}), Dependencies{FS: afero.NewMemMapFs()})
	if err == nil {
		t.Fatalf("expected configuration error")
	}
	if !failures.IsConfiguration(err) || !strings.Contains(err.Error(), "bogus") {
		t.Fatalf("expected configuration error naming bogus, got %v", err)
	}
}

func TestBuildRejectsDuplicateIDs(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "docs/a.md", "---\nid: same\n---\na")
	writeFile(t, fs, "docs/b.md", "---\nid: same\n---\nb")

	svc := newTestService(t, fs, testConfig(nil), nil)
	_, err := svc.Build(context.Background(), []string{"docs"})
	if !errors.Is(err, ErrDuplicateID) || !failures.IsConflict(err) {
		t.Fatalf("expected duplicate id conflict, got %v", err)
	}
	if ok, _ := afero.DirExists(fs, "dist"); ok {
		t.Fatalf("conflicting root must not emit output")
	}
}

func TestBuildRejectsCollisionsAcrossRoots(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "one/page.md", "one")
	writeFile(t, fs, "two/page.md", "two")

	svc := newTestService(t, fs, testConfig(nil), nil)
	_, err := svc.Build(context.Background(), []string{"one", "two"})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected duplicate id across roots, got %v", err)
	}
}

func TestBuildParseErrorLeavesNoOutput(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "docs/a.md", "fine")
	writeFile(t, fs, "docs/b.md", "---\ntitle: [unclosed\n---\nbody")

	svc := newTestService(t, fs, testConfig(nil), nil)
	_, err := svc.Build(context.Background(), []string{"docs"})
	if !failures.IsParse(err) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if ok, _ := afero.Exists(fs, "dist/content/a.json"); ok {
		t.Fatalf("no output may be written for a failing root")
	}
}

func TestBuildDryRunAndManifest(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "docs/a.md", "a")

	dry := testConfig(func(cfg *runtimeconfig.Config) { cfg.Manifest = true })
	dry.DryRun = true
	result, err := newTestService(t, fs, dry, nil).Build(context.Background(), []string{"docs"})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !result.DryRun || len(result.Files) != 2 {
		t.Fatalf("dry run should still report files, got %+v", result)
	}
	if ok, _ := afero.DirExists(fs, "dist"); ok {
		t.Fatalf("dry run must not write")
	}

	live := testConfig(func(cfg *runtimeconfig.Config) { cfg.Manifest = true })
	if _, err := newTestService(t, fs, live, nil).Build(context.Background(), []string{"docs"}); err != nil {
		t.Fatalf("build: %v", err)
	}
	data, err := afero.ReadFile(fs, "dist/manifest.json")
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var manifest buildManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if manifest.RunID != "run-1" || len(manifest.Files) != 1 {
		t.Fatalf("unexpected manifest %+v", manifest)
	}
	entry := manifest.Files[0]
	if entry.Path != "content/a.json" || entry.Category != "document" || entry.Root != "docs" || len(entry.Checksum) != 64 {
		t.Fatalf("unexpected manifest entry %+v", entry)
	}
}

func resourceIDs(items []resource) string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return strings.Join(ids, ",")
}

func TestBuildCollatesAcrossRoots(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "one/a.md", "a")
	writeFile(t, fs, "one/c.md", "c")
	writeFile(t, fs, "two/b.md", "b")

	svc := newTestService(t, fs, testConfig(func(cfg *runtimeconfig.Config) {
		cfg.Collate = true
	}), nil)
	result, err := svc.Build(context.Background(), []string{"one", "two"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	items, _ := readCollection(t, fs, "dist/content/all.json")
	if got := resourceIDs(items); got != "a,c,b" {
		t.Fatalf("expected documents of every root in root order, got %s", got)
	}
	if result.Documents != 3 || len(result.Files) != 4 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(result.Roots[0].Files) != 2 || len(result.Roots[1].Files) != 1 {
		t.Fatalf("expected per root document files, got %+v", result.Roots)
	}
}

func TestBuildPaginatesAcrossRoots(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "one/a.md", "a")
	writeFile(t, fs, "two/b.md", "b")
	writeFile(t, fs, "two/c.md", "c")

	svc := newTestService(t, fs, testConfig(func(cfg *runtimeconfig.Config) {
		cfg.Collate = true
		cfg.Paginate = true
		cfg.PageSize = 2
	}), nil)
	result, err := svc.Build(context.Background(), []string{"one", "two"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Chunks != 2 {
		t.Fatalf("expected 2 chunks, got %d", result.Chunks)
	}
	first, env := readCollection(t, fs, "dist/content/all-0.json")
	if got := resourceIDs(first); got != "a,b" {
		t.Fatalf("unexpected first chunk %s", got)
	}
	if env.Links == nil || env.Links.Last != "/content/all-1.json" {
		t.Fatalf("unexpected links %+v", env.Links)
	}
	second, _ := readCollection(t, fs, "dist/content/all-1.json")
	if got := resourceIDs(second); got != "c" {
		t.Fatalf("unexpected second chunk %s", got)
	}
}

func TestBuildMergesNavigationAcrossRoots(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "one/pages.yml", "- title: One\n  url: one\n")
	writeFile(t, fs, "two/pages.json", `[{"title": "Two", "url": "two"}]`)
	writeFile(t, fs, "three/toc.yml", "- title: Three\n  url: three\n")

	svc := newTestService(t, fs, testConfig(nil), nil)
	result, err := svc.Build(context.Background(), []string{"one", "two", "three"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Pages != 3 {
		t.Fatalf("expected 3 navigation entries, got %d", result.Pages)
	}
	pages, _ := readCollection(t, fs, "dist/content/pages.json")
	if got := resourceIDs(pages); got != "one,two" {
		t.Fatalf("expected merged pages in root order, got %s", got)
	}
	toc, _ := readCollection(t, fs, "dist/content/toc.json")
	if got := resourceIDs(toc); got != "three" {
		t.Fatalf("unexpected toc %s", got)
	}
	if result.Roots[0].Pages != 1 || result.Roots[2].Pages != 1 {
		t.Fatalf("unexpected per root pages %+v", result.Roots)
	}
}

func TestBuildFailureWritesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "one/a.md", "a")
	writeFile(t, fs, "two/b.md", "---\ntitle: [unclosed\n---\nbody")

	svc := newTestService(t, fs, testConfig(nil), nil)
	if _, err := svc.Build(context.Background(), []string{"one", "two"}); !failures.IsParse(err) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if ok, _ := afero.DirExists(fs, "dist"); ok {
		t.Fatalf("a failing root must keep earlier roots from being written")
	}
}

func TestBuildRejectsIDsOutsideContentFolder(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "docs/a.md", "---\nid: ../../escaped\n---\nbody")

	svc := newTestService(t, fs, testConfig(nil), nil)
	_, err := svc.Build(context.Background(), []string{"docs"})
	if !errors.Is(err, document.ErrInvalidID) || !failures.IsParse(err) {
		t.Fatalf("expected invalid id parse error, got %v", err)
	}
	if !strings.Contains(err.Error(), "a.md") {
		t.Fatalf("expected error to name the source, got %v", err)
	}
	for _, name := range []string{"escaped.json", "dist/escaped.json", "dist/content/escaped.json"} {
		if ok, _ := afero.Exists(fs, name); ok {
			t.Fatalf("unexpected output %s", name)
		}
	}
}

func TestBuildAppliesDocumentHooks(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "docs/a.md", "---\ntitle: draft\n---\nbody")
	writeFile(t, fs, "docs/b.md", "---\ntitle: other\n---\nbody")

	cfg := testConfig(func(cfg *runtimeconfig.Config) {
		cfg.Attributes = []string{"title"}
		cfg.Collate = true
	})
	svc := newTestServiceWith(t, cfg, Dependencies{
		FS: fs,
		DocumentHooks: []DocumentHook{
			func(doc *document.Document) error {
				doc.FrontMatter["title"] = strings.ToUpper(doc.FrontMatter["title"].(string))
				return nil
			},
			func(doc *document.Document) error {
				doc.ID = "posts/" + doc.ID
				return nil
			},
		},
	})
	if _, err := svc.Build(context.Background(), []string{"docs"}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	res := readResource(t, fs, "dist/content/posts/a.json")
	if res.ID != "posts/a" || res.Attributes["title"] != "DRAFT" {
		t.Fatalf("expected hooks to rewrite the document, got %+v", res)
	}
	items, _ := readCollection(t, fs, "dist/content/all.json")
	if got := resourceIDs(items); got != "posts/a,posts/b" {
		t.Fatalf("expected collation to see rewritten documents, got %s", got)
	}
}

func TestBuildDocumentHookFailures(t *testing.T) {
	errRejected := errors.New("rejected")
	cases := map[string]struct {
		hook DocumentHook
		want error
	}{
		"hook error": {
			hook: func(*document.Document) error { return errRejected },
			want: errRejected,
		},
		"escaping id": {
			hook: func(doc *document.Document) error {
				doc.ID = "../" + doc.ID
				return nil
			},
			want: document.ErrInvalidID,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeFile(t, fs, "docs/a.md", "body")

			svc := newTestServiceWith(t, testConfig(nil), Dependencies{FS: fs, DocumentHooks: []DocumentHook{tc.hook}})
			_, err := svc.Build(context.Background(), []string{"docs"})
			if !errors.Is(err, tc.want) || !failures.IsParse(err) {
				t.Fatalf("expected parse error wrapping %v, got %v", tc.want, err)
			}
			if !strings.Contains(err.Error(), "docs/a.md") {
				t.Fatalf("expected error to name the source, got %v", err)
			}
			if ok, _ := afero.DirExists(fs, "dist"); ok {
				t.Fatalf("failed hook must not emit output")
			}
		})
	}
}

func TestBuildUsesNavigationBuilder(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "docs/a.md", "---\ntitle: Alpha\n---\nbody")
	writeFile(t, fs, "docs/b.md", "---\ntitle: Beta\n---\nbody")
	writeFile(t, fs, "docs/pages.yml", "- title: Ignored\n  url: ignored\n")

	builder := navigation.BuilderFunc(func(_ context.Context, root string, docs []*document.Document) (*navigation.Tree, error) {
		tree := &navigation.Tree{}
		for _, doc := range docs {
			title, _ := doc.Field("title")
			tree.Nodes = append(tree.Nodes, navigation.Node{Title: title.(string), URL: doc.ID})
		}
		return tree, nil
	})
	svc := newTestServiceWith(t, testConfig(nil), Dependencies{FS: fs, Navigation: builder})

	result, err := svc.Build(context.Background(), []string{"docs"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Pages != 2 {
		t.Fatalf("expected 2 entries, got %d", result.Pages)
	}
	pages, _ := readCollection(t, fs, "dist/content/pages.json")
	if got := resourceIDs(pages); got != "a,b" {
		t.Fatalf("expected builder tree, got %s", got)
	}
	if pages[0].Attributes["title"] != "Alpha" {
		t.Fatalf("unexpected attributes %+v", pages[0].Attributes)
	}
}

func TestBuildNavigationBuilderError(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "docs/a.md", "body")
	errTree := errors.New("tree unavailable")

	builder := navigation.BuilderFunc(func(context.Context, string, []*document.Document) (*navigation.Tree, error) {
		return nil, errTree
	})
	svc := newTestServiceWith(t, testConfig(nil), Dependencies{FS: fs, Navigation: builder})
	if _, err := svc.Build(context.Background(), []string{"docs"}); !errors.Is(err, errTree) {
		t.Fatalf("expected builder error, got %v", err)
	}
	if ok, _ := afero.DirExists(fs, "dist"); ok {
		t.Fatalf("builder failure must not emit output")
	}
}

type recordingMetrics struct {
	mu        sync.Mutex
	documents int
	files     int
	skipped   int
	builds    int
}

func (m *recordingMetrics) DocumentProcessed(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents++
}

func (m *recordingMetrics) FileWritten(string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files++
}

func (m *recordingMetrics) RootSkipped(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skipped++
}

func (m *recordingMetrics) BuildCompleted(time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.builds++
}

func TestBuildReportsMetrics(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "docs/a.md", "a")
	writeFile(t, fs, "docs/b.md", "b")
	metrics := &recordingMetrics{}

	if _, err := newTestService(t, fs, testConfig(nil), metrics).Build(context.Background(), []string{"docs"}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if metrics.documents != 2 || metrics.files != 2 || metrics.builds != 1 {
		t.Fatalf("unexpected metrics %+v", metrics)
	}
}
