package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-sitejson/internal/collate"
	"github.com/goliatone/go-sitejson/internal/document"
	"github.com/goliatone/go-sitejson/internal/failures"
	"github.com/goliatone/go-sitejson/internal/jsonapi"
	"github.com/goliatone/go-sitejson/internal/logging"
	"github.com/goliatone/go-sitejson/internal/markdown"
	"github.com/goliatone/go-sitejson/internal/navigation"
	"github.com/goliatone/go-sitejson/internal/runtimeconfig"
	"github.com/goliatone/go-sitejson/pkg/interfaces"
)

// ErrDuplicateID is returned when two outputs of one build resolve to the
// same file.
var ErrDuplicateID = errors.New("generator: duplicate output id")

// Service describes the build pipeline contract.
type Service interface {
	Build(ctx context.Context, roots []string) (*BuildResult, error)
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	runtimeconfig.Config
	// DryRun runs every step but writes nothing.
	DryRun bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	RunID     string
	Roots     []RootResult
	Documents int
	Files     []string
	Pages     int
	Chunks    int
	Duration  time.Duration
	DryRun    bool
}

// RootResult describes the outcome for one input root.
type RootResult struct {
	Root      string
	Skipped   bool
	Documents int

	// Pages counts the top level entries of the root's own page tree.
	Pages int
	// Files lists the document files of the root. Navigation and collation
	// files span all roots and are only listed on BuildResult.
	Files []string
}

// Metrics receives build events. Implementations must be safe for
// concurrent use.
type Metrics interface {
	DocumentProcessed(root string)
	FileWritten(category string, size int)
	RootSkipped(root string)
	BuildCompleted(duration time.Duration, err error)
}

// DocumentHook rewrites a normalized document before it is serialized and
// collated. Hooks run concurrently across documents.
type DocumentHook func(doc *document.Document) error

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	// FS holds both the input roots and the output directory.
	FS      afero.Fs
	Parser  interfaces.MarkdownParser
	Logger  interfaces.Logger
	Metrics Metrics

	// DocumentHooks run in order on every document.
	DocumentHooks []DocumentHook
	// Navigation replaces the tree file loader.
	Navigation    navigation.Builder
}

type service struct {
	cfg        Config
	fs         afero.Fs
	markdown   *markdown.Service
	normalizer *document.Normalizer
	serializer *jsonapi.Serializer
	navigation navigation.Builder
	hooks      []DocumentHook
	collation  collate.Config[*document.Document]
	logger     interfaces.Logger
	metrics    Metrics
	now        func() time.Time
	newRunID   func() string
}

// NewService validates cfg and wires the pipeline. Every configuration
// error is reported here, before any input is read.
func NewService(cfg Config, deps Dependencies) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	filesystem := deps.FS
	if filesystem == nil {
		filesystem = afero.NewOsFs()
	}
	logger := logging.Ensure(deps.Logger)

	md, err := markdown.NewService(filesystem, markdown.Config{Parser: cfg.Markdown}, deps.Parser, logger)
	if err != nil {
		return nil, err
	}
	normalizer, err := document.NewNormalizer(document.Config{ContentTypes: cfg.ContentTypes}, md)
	if err != nil {
		return nil, err
	}

	rels := append([]jsonapi.Relationship(nil), cfg.References...)
	relNames := make([]string, 0, len(rels))
	for _, rel := range rels {
		relNames = append(relNames, rel.Name)
	}
	serializer, err := jsonapi.NewSerializer(jsonapi.Options{
		Type:          cfg.Type,
		Attributes:    document.AttributeNames(normalizer.ContentTypes(), cfg.Attributes, relNames),
		Relationships: rels,
	})
	if err != nil {
		return nil, err
	}

	nav := deps.Navigation
	if nav == nil {
		loader, err := navigation.NewLoader(filesystem, logger)
		if err != nil {
			return nil, fmt.Errorf("generator: navigation schema: %w", err)
		}
		nav = loader
	}

	collation := cfg.CollateConfig()
	if err := collation.Validate(); err != nil {
		return nil, err
	}

	metrics := deps.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}

	hooks := make([]DocumentHook, 0, len(deps.DocumentHooks))
	for _, hook := range deps.DocumentHooks {
		if hook != nil {
			hooks = append(hooks, hook)
		}
	}

	return &service{
		cfg:        cfg,
		fs:         filesystem,
		markdown:   md,
		normalizer: normalizer,
		serializer: serializer,
		navigation: nav,
		hooks:      hooks,
		collation:  collation,
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
		newRunID:   uuid.NewString,
	}, nil
}

// Build stages every root, then the navigation and collation files that span
// all roots. Nothing is written unless every step succeeded.
func (s *service) Build(ctx context.Context, roots []string) (result *BuildResult, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := s.now()
	result = &BuildResult{
		RunID:  s.newRunID(),
		DryRun: s.cfg.DryRun,
		Roots:  make([]RootResult, 0, len(roots)),
	}
	logger := logging.WithFields(s.logger, map[string]any{"run_id": result.RunID})
	defer func() {
		result.Duration = s.now().Sub(start)
		s.metrics.BuildCompleted(result.Duration, err)
	}()

	stage := &stager{claimed: map[string]string{}}
	var docs []*document.Document
	var trees []*navigation.Tree

	for _, root := range roots {
		built, err := s.buildRoot(ctx, logger, root, stage)
		if err != nil {
			logger.Error("generator.root.failed", "root", root, "error", err)
			return result, err
		}
		result.Roots = append(result.Roots, built.result)
		result.Documents += built.result.Documents
		docs = append(docs, built.docs...)
		if built.tree != nil {
			trees = append(trees, built.tree)
		}
	}

	if result.Pages, err = s.stageNavigation(stage, trees); err != nil {
		logger.Error("generator.navigation.failed", "error", err)
		return result, err
	}
	if result.Chunks, err = s.stageCollation(stage, docs); err != nil {
		logger.Error("generator.collation.failed", "error", err)
		return result, err
	}

	writer := newArtifactWriter(s.fs, s.cfg.DryRun)
	manifest := newBuildManifest(result.RunID, start.UTC())
	dirCache := map[string]struct{}{}
	rootIndex := map[string]int{}
	for i, rootResult := range result.Roots {
		if _, ok := rootIndex[rootResult.Root]; !ok {
			rootIndex[rootResult.Root] = i
		}
	}

	for _, req := range stage.requests {
		if err := s.flush(ctx, writer, dirCache, req); err != nil {
			return result, err
		}
		manifest.add(req, s.relativeOutput(req.Path))
		result.Files = append(result.Files, req.Path)
		if i, ok := rootIndex[req.Root]; ok && req.Root != "" {
			result.Roots[i].Files = append(result.Roots[i].Files, req.Path)
		}
	}

	if s.cfg.Manifest {
		data, err := manifest.marshal()
		if err != nil {
			return result, err
		}
		target := joinOutputPath(s.cfg.OutputDir, manifestFileName)
		req := writeFileRequest{
			Path:     target,
			Content:  data,
			Category: categoryManifest,
			Checksum: computeHash(data),
		}
		if err := s.flush(ctx, writer, dirCache, req); err != nil {
			return result, err
		}
		result.Files = append(result.Files, target)
	}

	logger.Info("generator.build.completed",
		"roots", len(result.Roots),
		"documents", result.Documents,
		"files", len(result.Files),
	)
	return result, nil
}

type rootBuild struct {
	result RootResult
	docs   []*document.Document
	tree   *navigation.Tree
}

// buildRoot reads, normalizes and stages the documents of one root and
// builds its page tree. Nothing is written.
func (s *service) buildRoot(ctx context.Context, logger interfaces.Logger, root string, stage *stager) (rootBuild, error) {
	built := rootBuild{result: RootResult{Root: root}}

	info, err := s.fs.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("generator.root.skipped", "root", root, "reason", "missing")
		s.metrics.RootSkipped(root)
		built.result.Skipped = true
		return built, nil
	}
	if err != nil {
		return built, failures.IO(err, "stat", root)
	}
	if !info.IsDir() {
		return built, failures.IO(fmt.Errorf("not a directory"), "stat", root)
	}

	sources, err := s.markdown.Load(ctx, root)
	if err != nil {
		return built, err
	}
	docs, err := s.normalize(ctx, logger, root, sources)
	if err != nil {
		return built, err
	}
	built.docs = docs
	built.result.Documents = len(docs)

	for _, doc := range docs {
		if err := stage.json(s.contentPath(doc.OutputPath()), categoryDocument, root, path.Join(root, doc.Path), jsonapi.Envelope{
			Data: s.serializer.Resource(doc),
		}); err != nil {
			return built, err
		}
	}

	tree, err := s.navigation.Build(ctx, root, docs)
	if err != nil {
		return built, err
	}
	if tree != nil {
		if tree.Root == "" {
			tree.Root = root
		}
		built.tree = tree
		built.result.Pages = len(tree.Nodes)
	}

	logger.Debug("generator.root.staged",
		"root", root,
		"documents", len(docs),
		"pages", built.result.Pages,
	)
	return built, nil
}

// stageNavigation writes one file per tree output name. Trees of several
// roots sharing a name are joined in root order.
func (s *service) stageNavigation(stage *stager, trees []*navigation.Tree) (int, error) {
	pages := 0
	for _, tree := range navigation.Merge(trees) {
		resources, err := navigation.Serialize(navigation.Resolve(tree.Nodes))
		if err != nil {
			return pages, err
		}
		if err := stage.json(s.contentPath(tree.OutputName()), categoryNavigation, "", tree.Origin(), jsonapi.Envelope{
			Data: resources,
		}); err != nil {
			return pages, err
		}
		pages += len(resources)
	}
	return pages, nil
}

// stageCollation plans the collation over the documents of every root, in
// root order, and returns the number of chunks.
func (s *service) stageCollation(stage *stager, docs []*document.Document) (int, error) {
	outputs, err := collate.Plan(s.collation, s.cfg.ContentFolder, docs)
	if err != nil {
		return 0, err
	}
	chunks := 0
	for _, output := range outputs {
		sources := make([]jsonapi.Source, 0, len(output.Items))
		for _, doc := range output.Items {
			sources = append(sources, doc)
		}
		if err := stage.json(s.contentPath(output.Name), categoryCollection, "", "collation "+output.Name, jsonapi.Envelope{
			Data:  s.serializer.Collection(sources),
			Links: output.Links,
		}); err != nil {
			return chunks, err
		}
		if output.Links != nil {
			chunks++
		}
	}
	if chunks > 0 {
		// The canonical copy of the first chunk is not a chunk of its own.
		chunks--
	}
	return chunks, nil
}

func (s *service) normalize(ctx context.Context, logger interfaces.Logger, root string, sources []*markdown.Source) ([]*document.Document, error) {
	docs := make([]*document.Document, len(sources))
	group, gctx := errgroup.WithContext(ctx)
	if s.cfg.Workers > 0 {
		group.SetLimit(s.cfg.Workers)
	}
	for i, source := range sources {
		group.Go(func() error {
			doc, err := s.normalizer.Normalize(gctx, source)
			if err != nil {
				return err
			}
			if err := s.applyHooks(doc); err != nil {
				return failures.Parse(err, path.Join(root, source.Path))
			}
			logging.WithDocumentContext(logger, root, doc.Path, doc.ID).Debug("generator.document.normalized")
			s.metrics.DocumentProcessed(root)
			docs[i] = doc
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// applyHooks runs the document hooks and checks the id again since a hook
// may rewrite it.
func (s *service) applyHooks(doc *document.Document) error {
	if len(s.hooks) == 0 {
		return nil
	}
	for _, hook := range s.hooks {
		if err := hook(doc); err != nil {
			return fmt.Errorf("document hook: %w", err)
		}
	}
	return document.ValidateID(doc.ID)
}

func (s *service) flush(ctx context.Context, writer artifactWriter, dirCache map[string]struct{}, req writeFileRequest) error {
	if err := ensureDir(ctx, writer, dirCache, path.Dir(req.Path)); err != nil {
		return err
	}
	if err := writer.WriteFile(ctx, req); err != nil {
		return err
	}
	s.metrics.FileWritten(string(req.Category), len(req.Content))
	return nil
}

func (s *service) contentPath(name string) string {
	return joinOutputPath(s.cfg.OutputDir, path.Join(s.cfg.ContentFolder, name))
}

func (s *service) relativeOutput(target string) string {
	base := strings.TrimSuffix(s.cfg.OutputDir, "/") + "/"
	return strings.TrimPrefix(target, base)
}

// stager collects the files of a build and claims their paths so no two
// outputs write the same file.
type stager struct {
	claimed  map[string]string
	requests []writeFileRequest
}

func (st *stager) json(target string, category writeCategory, root, origin string, payload any) error {
	if previous, ok := st.claimed[target]; ok {
		return failures.Conflict(
			fmt.Errorf("%w: %s", ErrDuplicateID, target),
			fmt.Sprintf("%s and %s both write %s", previous, origin, target),
		)
	}
	data, err := encodeJSON(payload)
	if err != nil {
		return fmt.Errorf("generator: encode %s: %w", target, err)
	}
	st.claimed[target] = origin
	st.requests = append(st.requests, writeFileRequest{
		Path:     target,
		Content:  data,
		Root:     root,
		Category: category,
		Checksum: computeHash(data),
	})
	return nil
}

type noopMetrics struct{}

func (noopMetrics) DocumentProcessed(string)            {}
func (noopMetrics) FileWritten(string, int)             {}
func (noopMetrics) RootSkipped(string)                  {}
func (noopMetrics) BuildCompleted(time.Duration, error) {}
