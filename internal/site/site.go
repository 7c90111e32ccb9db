// Package site generates a static HTML snapshot of the dashboard: an index
// page with the aggregate extension table and one detail page per extension
// with its build records.
package site

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/flavioheleno/php-ext-web/internal/buildcache"
	"github.com/flavioheleno/php-ext-web/internal/catalog"
	"github.com/flavioheleno/php-ext-web/internal/filter"
	"github.com/flavioheleno/php-ext-web/internal/project"
	"github.com/flavioheleno/php-ext-web/internal/results"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed assets/style.css
var assetsFS embed.FS

// Generator orchestrates the static snapshot generation
type Generator struct {
	loader *catalog.Loader
	cache  *buildcache.Cache
	logger *slog.Logger
	now    func() time.Time
}

// NewGenerator creates a new Generator over the given loader and build cache
func NewGenerator(loader *catalog.Loader, cache *buildcache.Cache, logger *slog.Logger) *Generator {
	return &Generator{
		loader: loader,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// Options contains options for snapshot generation
type Options struct {
	OutputDir string
	DryRun    bool
}

// indexModel is the template model of the root index page
type indexModel struct {
	GeneratedAt string
	Stats       filter.Stats
	Extensions  []results.ExtensionView
}

// extensionModel is the template model of one extension detail page
type extensionModel struct {
	GeneratedAt string
	Extension   results.ExtensionView
}

// Generate renders the complete snapshot into the output directory. Detail
// records are fetched per extension; a fetch failure skips that extension's
// detail page but keeps it on the index.
func (g *Generator) Generate(ctx context.Context, opts Options) error {
	if opts.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}

	g.logger.Info("starting snapshot generation", "output_dir", opts.OutputDir, "dry_run", opts.DryRun)

	latest, err := g.loader.Latest(ctx)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	for name, agg := range latest {
		if _, err := g.cache.LoadBuilds(ctx, agg.Path); err != nil {
			g.logger.Warn("build detail fetch failed", "extension", name, "error", err)
		}
	}

	views := project.Extensions(latest, g.cache)
	g.logger.Info("projected extensions", "count", len(views))

	if opts.DryRun {
		g.logger.Info("dry-run mode: skipping file writes")
		return nil
	}

	tmpl, err := loadTemplates()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	if err := g.writeAssets(opts.OutputDir); err != nil {
		return fmt.Errorf("failed to write assets: %w", err)
	}

	generatedAt := g.now().UTC().Format(time.RFC3339)

	if err := g.renderIndex(tmpl, views, generatedAt, opts.OutputDir); err != nil {
		return fmt.Errorf("failed to render index: %w", err)
	}

	for _, view := range views {
		if view.Builds == nil {
			continue
		}
		if err := g.renderExtension(tmpl, view, generatedAt, opts.OutputDir); err != nil {
			return fmt.Errorf("failed to render extension %s: %w", view.Name, err)
		}
	}

	g.logger.Info("snapshot generation completed")
	return nil
}

// loadTemplates loads the embedded HTML templates
func loadTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.tmpl")
}

func (g *Generator) writeAssets(outDir string) error {
	data, err := assetsFS.ReadFile("assets/style.css")
	if err != nil {
		return fmt.Errorf("failed to read embedded style.css: %w", err)
	}
	return g.writeFileIfChanged(filepath.Join(outDir, "assets", "style.css"), data)
}

func (g *Generator) renderIndex(tmpl *template.Template, views []results.ExtensionView, generatedAt, outDir string) error {
	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "index.tmpl", indexModel{
		GeneratedAt: generatedAt,
		Stats:       filter.Summarize(views),
		Extensions:  views,
	})
	if err != nil {
		return fmt.Errorf("failed to execute index template: %w", err)
	}

	return g.writeFileIfChanged(filepath.Join(outDir, "index.html"), buf.Bytes())
}

func (g *Generator) renderExtension(tmpl *template.Template, view results.ExtensionView, generatedAt, outDir string) error {
	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "extension.tmpl", extensionModel{
		GeneratedAt: generatedAt,
		Extension:   view,
	})
	if err != nil {
		return fmt.Errorf("failed to execute extension template: %w", err)
	}

	return g.writeFileIfChanged(filepath.Join(outDir, view.Name, "index.html"), buf.Bytes())
}

// writeFileIfChanged writes content only if it differs from what is on disk,
// so regenerating with the same data produces no changes.
func (g *Generator) writeFileIfChanged(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, content) {
		g.logger.Debug("file unchanged, skipping", "path", path)
		return nil
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	g.logger.Debug("file written", "path", path)
	return nil
}
