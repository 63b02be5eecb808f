// Package retriever runs hybrid lexical and sparse-vector retrieval against
// the chunk index.
package retriever

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/scrapbox-rag/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

type Embedder interface {
	Embed(ctx context.Context, text string) (entity.SparseVector, error)
}

type Engine interface {
	Search(ctx context.Context, query *entity.EngineQuery) ([]entity.EngineHit, error)
}

type Retriever struct {
	embedder Embedder
	engine   Engine
	vectors  *cache.Cache
}

// New returns a Retriever. Query vectors are cached for cacheTTL; a
// non-positive TTL disables the cache.
func New(embedder Embedder, engine Engine, cacheTTL time.Duration) *Retriever {
	r := &Retriever{
		embedder: embedder,
		engine:   engine,
	}
	if cacheTTL > 0 {
		r.vectors = cache.New(cacheTTL, 2*cacheTTL)
	}
	return r
}

// Search embeds text, runs the combined query and returns at most topK
// results by descending score.
func (r *Retriever) Search(ctx context.Context, text string, topK int) ([]entity.SearchResult, error) {
	vector, err := r.vector(ctx, text)
	if err != nil {
		return nil, err
	}

	hits, err := r.engine.Search(ctx, BuildQuery(text, vector, topK))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrSearchFailure, err)
	}

	results := MapResults(hits)
	ctxzap.Info(ctx, "search completed",
		zap.Int("vector_size", len(vector)),
		zap.Int("result_count", len(results)),
	)

	return results, nil
}

func (r *Retriever) vector(ctx context.Context, text string) (entity.SparseVector, error) {
	if r.vectors != nil {
		if v, ok := r.vectors.Get(text); ok {
			ctxzap.Debug(ctx, "query vector cache hit")
			return v.(entity.SparseVector), nil
		}
	}

	vector, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if r.vectors != nil {
		r.vectors.Set(text, vector, cache.DefaultExpiration)
	}
	return vector, nil
}
