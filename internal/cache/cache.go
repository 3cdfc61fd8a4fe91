// Package cache holds parsed source documents so a file referenced by many
// dataset rows is read and parsed once.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/maypok86/otter"
	"golang.org/x/sync/singleflight"

	"github.com/mvp-joe/funcloc/internal/cst"
	"github.com/mvp-joe/funcloc/internal/source"
)

// ErrInvalidCapacity indicates a non-positive cache capacity.
var ErrInvalidCapacity = errors.New("cache capacity must be positive")

// Parser turns a loaded source file into a syntax tree.
type Parser interface {
	Parse(ctx context.Context, file *source.File) (*cst.Tree, error)
}

// Document is a loaded file and its syntax tree. Documents are immutable once
// cached and may be shared between goroutines.
type Document struct {
	File *source.File
	Tree *cst.Tree
}

// Stats is a snapshot of cache effectiveness.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int
}

// Cache is a bounded read-through cache of documents keyed by absolute path.
// Concurrent misses on the same path share a single load.
type Cache struct {
	docs   otter.Cache[string, *Document]
	group  singleflight.Group
	parser Parser
	logger *slog.Logger
}

// New creates a cache holding at most capacity documents.
func New(parser Parser, capacity int, logger *slog.Logger) (*Cache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	if logger == nil {
		logger = slog.Default()
	}

	docs, err := otter.MustBuilder[string, *Document](capacity).
		CollectStats().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build document cache: %w", err)
	}

	return &Cache{
		docs:   docs,
		parser: parser,
		logger: logger,
	}, nil
}

// Get returns the document for path, loading and parsing it on a miss.
// Load and parse failures are returned and never cached.
func (c *Cache) Get(ctx context.Context, path string) (*Document, error) {
	key := cacheKey(path)
	if doc, ok := c.docs.Get(key); ok {
		return doc, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if doc, ok := c.docs.Get(key); ok {
			return doc, nil
		}

		file, err := source.Load(path)
		if err != nil {
			return nil, err
		}
		tree, err := c.parser.Parse(ctx, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		doc := &Document{File: file, Tree: tree}
		c.docs.Set(key, doc)
		c.logger.Debug("parsed source file",
			"path", path,
			"language", tree.Language,
			"lines", file.LineCount(),
			"syntax_errors", tree.HasError)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Document), nil
}

// Stats returns hit/miss counters and the current entry count.
func (c *Cache) Stats() Stats {
	s := c.docs.Stats()
	return Stats{
		Hits:   s.Hits(),
		Misses: s.Misses(),
		Size:   c.docs.Size(),
	}
}

// Close releases the cache's background resources.
func (c *Cache) Close() {
	c.docs.Close()
}

func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
