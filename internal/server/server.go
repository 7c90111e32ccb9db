// Package server exposes the dashboard over HTTP: a JSON API whose query
// parameters are the dashboard's shareable URL state, plus static serving of
// the dashboard assets.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/flavioheleno/php-ext-web/internal/buildcache"
	"github.com/flavioheleno/php-ext-web/internal/catalog"
	"github.com/flavioheleno/php-ext-web/internal/filter"
	"github.com/flavioheleno/php-ext-web/internal/lifecycle"
	"github.com/flavioheleno/php-ext-web/internal/project"
	"github.com/flavioheleno/php-ext-web/internal/results"
)

// detailFetchWorkers bounds concurrent build-record fetches when a detail
// filter forces loading every extension's records.
const detailFetchWorkers = 8

// Server wires the loader, the build cache and the filter engine behind the
// HTTP API.
type Server struct {
	loader    *catalog.Loader
	cache     *buildcache.Cache
	lifecycle lifecycle.Client
	staticDir string
	logger    *slog.Logger
}

// New creates a server over the given loader and build cache.
// lc may be nil to skip PHP lifecycle annotation; staticDir may be empty to
// disable static serving.
func New(loader *catalog.Loader, cache *buildcache.Cache, lc lifecycle.Client, staticDir string, logger *slog.Logger) *Server {
	return &Server{
		loader:    loader,
		cache:     cache,
		lifecycle: lc,
		staticDir: staticDir,
		logger:    logger,
	}
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.healthz)

	api := r.Group("/api")
	api.GET("/metadata", s.getMetadata)
	api.GET("/extensions", s.listExtensions)
	api.GET("/extensions/:name/builds", s.getBuilds)

	if s.staticDir != "" {
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.staticDir))))
	}

	return r
}

// Run starts the HTTP server on the given address and blocks
func (s *Server) Run(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	return s.Router().Run(addr)
}

// extensionsResponse is the payload of GET /api/extensions
type extensionsResponse struct {
	Extensions []results.ExtensionView `json:"extensions"`
	Stats      filter.Stats            `json:"stats"`
	State      string                  `json:"state"`
}

// metadataResponse is the payload of GET /api/metadata
type metadataResponse struct {
	OS            catalog.OsCatalog            `json:"os"`
	PHP           catalog.PhpCatalog           `json:"php"`
	PHPSupport    map[string]lifecycle.Support `json:"php_support,omitempty"`
	Architectures []string                     `json:"architectures"`
	Registry      string                       `json:"registry"`
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getMetadata(c *gin.Context) {
	meta, err := s.loader.Metadata(c.Request.Context())
	if err != nil {
		s.logger.Error("metadata load failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	resp := metadataResponse{
		OS:            meta.OS,
		PHP:           meta.PHP,
		Architectures: meta.Index.Architectures,
		Registry:      meta.Index.BaseImageRegistry,
	}

	if s.lifecycle != nil {
		support, err := s.lifecycle.PHPSupport(c.Request.Context())
		if err != nil {
			// The catalog itself is intact, so the annotation is skipped
			// rather than failing the response.
			s.logger.Warn("php lifecycle lookup failed", "error", err)
		} else {
			resp.PHPSupport = support
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) listExtensions(c *gin.Context) {
	ctx := c.Request.Context()

	meta, err := s.loader.Metadata(ctx)
	if err != nil {
		s.logger.Error("metadata load failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	latest, err := s.loader.Latest(ctx)
	if err != nil {
		s.logger.Error("latest load failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	state := filter.DecodeQuery(c.Request.URL.Query())
	state = state.Canonicalize(knownFacets(meta, latest))

	if state.NeedsBuilds() {
		// Facet filtering on OS/PHP/arch is only exact at build-record
		// granularity, so every listed extension's records are needed.
		s.ensureBuilds(ctx, latest)
	}

	views := project.Extensions(latest, s.cache)
	visible := filter.Apply(state, views)

	c.JSON(http.StatusOK, extensionsResponse{
		Extensions: visible,
		Stats:      filter.Summarize(visible),
		State:      state.EncodeQuery().Encode(),
	})
}

func (s *Server) getBuilds(c *gin.Context) {
	ctx := c.Request.Context()
	name := c.Param("name")

	latest, err := s.loader.Latest(ctx)
	if err != nil {
		s.logger.Error("latest load failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	agg, ok := latest[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown extension: " + name})
		return
	}

	records, err := s.cache.LoadBuilds(ctx, agg.Path)
	if err != nil {
		s.logger.Warn("build detail fetch failed", "extension", name, "path", agg.Path, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if records == nil {
		records = []results.BuildRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"extension": name, "builds": records})
}

// ensureBuilds loads detail records for every extension that does not have
// them cached yet. Individual failures degrade to missing records; the
// filtered view stays coarse for those extensions until a retry succeeds.
func (s *Server) ensureBuilds(ctx context.Context, latest catalog.LatestData) {
	sem := make(chan struct{}, detailFetchWorkers)
	var wg sync.WaitGroup

	for _, agg := range latest {
		if _, ok := s.cache.Get(agg.Path); ok {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }()

			if _, err := s.cache.LoadBuilds(ctx, path); err != nil {
				s.logger.Warn("build detail fetch failed", "path", path, "error", err)
			}
		}(agg.Path)
	}

	wg.Wait()
}

// knownFacets derives the facet universes from the catalog snapshot
func knownFacets(meta *catalog.Metadata, latest catalog.LatestData) filter.Known {
	names := make([]string, 0, len(latest))
	for name := range latest {
		names = append(names, name)
	}

	return filter.Known{
		OS:         meta.OS.PairKeys(),
		PHP:        meta.PHP.Labels(),
		Arch:       meta.Index.Architectures,
		Extensions: names,
	}
}
