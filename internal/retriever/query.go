package retriever

import (
	"strconv"

	"github.com/futig/scrapbox-rag/internal/entity"
)

// Stored document fields addressed by queries.
const (
	FieldContent   = "content"
	FieldPageTitle = "page_title"
	FieldVector    = "vector"
)

// BuildQuery returns a bool query whose should clauses are one lexical
// multi_match over the text fields plus one rank_feature clause per vector
// entry, boosted by the entry's weight. Each sparse dimension is addressed as
// its own vector.<index> sub-field. The engine sums matching should clauses,
// so a hit scores BM25 + Σ weight·feature. A topK below 1 falls back to
// entity.DefaultTopK.
func BuildQuery(text string, vector entity.SparseVector, topK int) *entity.EngineQuery {
	if topK < 1 {
		topK = entity.DefaultTopK
	}

	should := make([]entity.QueryClause, 0, len(vector)+1)
	should = append(should, entity.QueryClause{
		MultiMatch: &entity.MultiMatchClause{
			Query:  text,
			Fields: []string{FieldContent, FieldPageTitle},
		},
	})

	for _, e := range vector {
		should = append(should, entity.QueryClause{
			RankFeature: &entity.RankFeatureClause{
				Field: FieldVector + "." + strconv.Itoa(e.Index),
				Boost: e.Weight,
			},
		})
	}

	return &entity.EngineQuery{
		Size:   topK,
		Query:  entity.BoolQuery{Bool: entity.ShouldClauses{Should: should}},
		Source: &entity.SourceFilter{Excludes: []string{FieldVector}},
	}
}
