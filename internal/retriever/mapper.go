package retriever

import "github.com/futig/scrapbox-rag/internal/entity"

// MapResults converts engine hits to search results in the order received.
// The stored vector never reaches the returned chunks.
func MapResults(hits []entity.EngineHit) []entity.SearchResult {
	results := make([]entity.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, entity.SearchResult{
			Chunk: toChunk(hit.ID, &hit.Source),
			Score: hit.Score,
		})
	}
	return results
}

func toChunk(id string, doc *entity.StoredDocument) entity.Chunk {
	return entity.Chunk{
		ID:          id,
		ProjectName: doc.ProjectName,
		PageTitle:   doc.PageTitle,
		Content:     doc.Content,
		URL:         doc.URL,
		UpdatedAt:   doc.UpdatedAt,
		IndentLevel: doc.IndentLevel,
	}
}

// ToDocument builds the stored form of chunk. Non-positive weights are
// dropped since rank_features only accepts positive values.
func ToDocument(chunk *entity.Chunk, vector entity.SparseVector) *entity.StoredDocument {
	features := make(map[string]float64, len(vector))
	for k, w := range vector.Features() {
		if w > 0 {
			features[k] = w
		}
	}

	return &entity.StoredDocument{
		ProjectName: chunk.ProjectName,
		PageTitle:   chunk.PageTitle,
		Content:     chunk.Content,
		URL:         chunk.URL,
		UpdatedAt:   chunk.UpdatedAt.UTC(),
		IndentLevel: chunk.IndentLevel,
		Vector:      features,
	}
}
