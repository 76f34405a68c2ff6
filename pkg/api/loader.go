package api

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/models"
	"github.com/thegioirubik/lubestation-service/pkg/cache"
	"github.com/thegioirubik/lubestation-service/pkg/catalog"
)

// ProductCache holds the normalized catalog between invocations.
type ProductCache interface {
	Products(ctx context.Context) ([]models.Product, error)
	StoreProducts(ctx context.Context, products []models.Product) error
}

// RowSource yields the most recently imported pricelist rows.
type RowSource interface {
	Source(ctx context.Context) (catalog.Source, error)
}

// CatalogLoader builds the catalog from the cache when warm, else from the
// imported rows (or the bundled pricelist) and refreshes the cache.
type CatalogLoader struct {
	cache ProductCache
	rows  RowSource
	base  catalog.Source
	log   *zap.Logger

	// populating tracks background cache writes.
	populating sync.WaitGroup
}

// NewCatalogLoader wires a loader. cache and rows may be nil.
func NewCatalogLoader(base catalog.Source, cache ProductCache, rows RowSource, log *zap.Logger) *CatalogLoader {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogLoader{cache: cache, rows: rows, base: base, log: log}
}

// Load never fails: every backing store error degrades to the bundled pricelist.
func (l *CatalogLoader) Load(ctx context.Context) *catalog.Catalog {
	if l.cache != nil {
		products, err := l.cache.Products(ctx)
		if err == nil {
			l.log.Debug("catalog served from cache", zap.Int("products", len(products)))
			return catalog.New(products, l.base.Brands)
		}
		if !errors.Is(err, cache.ErrMiss) {
			l.log.Warn("catalog cache unavailable, normalizing pricelist", zap.Error(err))
		}
	}

	return l.rebuild(ctx)
}

// rebuild normalizes the imported rows, or the bundled pricelist, and
// refreshes the cache off the request path.
func (l *CatalogLoader) rebuild(ctx context.Context) *catalog.Catalog {
	src := l.base
	if l.rows != nil {
		rows, err := l.rows.Source(ctx)
		switch {
		case err == nil:
			src = l.base.WithRows(rows)
		case errors.Is(err, cache.ErrMiss):
		default:
			l.log.Warn("imported pricelist unavailable, using bundled rows", zap.Error(err))
		}
	}

	products := catalog.Normalize(src)
	if l.cache != nil {
		// Populate off the request path.
		l.populating.Add(1)
		go func() {
			defer l.populating.Done()
			if err := l.cache.StoreProducts(context.Background(), products); err != nil {
				l.log.Warn("failed to populate catalog cache", zap.Error(err))
			}
		}()
	}
	return catalog.New(products, src.Brands)
}

// Wait blocks until background cache writes finish.
func (l *CatalogLoader) Wait() {
	l.populating.Wait()
}

// VersionSource reports the generation of the imported pricelist.
type VersionSource interface {
	Version(ctx context.Context) (int64, error)
}

// LiveCatalog serves variant lookups from a catalog built at cold start and
// rebuilds it when a newer pricelist import is seen. It keeps warm quote and
// order functions pricing against the same rows the listing shows.
type LiveCatalog struct {
	loader   *CatalogLoader
	versions VersionSource

	mu      sync.RWMutex
	current *catalog.Catalog
	version int64
}

// NewLiveCatalog builds the initial catalog. versions may be nil, in which
// case Refresh is a no-op.
func NewLiveCatalog(ctx context.Context, loader *CatalogLoader, versions VersionSource) *LiveCatalog {
	lc := &LiveCatalog{loader: loader, versions: versions}
	// Read the version first so an import racing the build triggers another refresh.
	lc.version, _ = lc.readVersion(ctx)
	lc.current = loader.rebuild(ctx)
	return lc
}

// Variant resolves id against the catalog currently served.
func (lc *LiveCatalog) Variant(id int) (string, models.ProductVariant, bool) {
	return lc.Catalog().Variant(id)
}

// Catalog returns the catalog currently served.
func (lc *LiveCatalog) Catalog() *catalog.Catalog {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return lc.current
}

// Refresh rebuilds the catalog when the import version moved. On any error
// the current catalog stays in service.
func (lc *LiveCatalog) Refresh(ctx context.Context) {
	v, err := lc.readVersion(ctx)
	if err != nil {
		lc.loader.log.Warn("catalog version unavailable, keeping current catalog", zap.Error(err))
		return
	}
	lc.mu.RLock()
	same := v == lc.version
	lc.mu.RUnlock()
	if same {
		return
	}

	c := lc.loader.rebuild(ctx)
	lc.mu.Lock()
	lc.current, lc.version = c, v
	lc.mu.Unlock()
	lc.loader.log.Info("catalog rebuilt after pricelist import", zap.Int64("version", v))
}

func (lc *LiveCatalog) readVersion(ctx context.Context) (int64, error) {
	if lc.versions == nil {
		return 0, nil
	}
	return lc.versions.Version(ctx)
}
