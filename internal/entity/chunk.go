package entity

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Chunk is a retrievable passage of a Scrapbox page with its provenance.
type Chunk struct {
	ID          string    `json:"id" validate:"required"`
	ProjectName string    `json:"project_name" validate:"required"`
	PageTitle   string    `json:"page_title" validate:"required"`
	Content     string    `json:"content" validate:"required"`
	URL         string    `json:"url" validate:"required"`
	UpdatedAt   time.Time `json:"updated_at"`
	IndentLevel int       `json:"indent_level" validate:"gte=0"`
}

// SparseEntry is a single non-zero dimension of a sparse vector.
type SparseEntry struct {
	Index  int
	Weight float64
}

// SparseVector holds the non-zero dimensions of a learned sparse embedding,
// ordered by ascending index. On the wire it is an object keyed by the
// decimal index: {"2054": 0.31, "7592": 1.2}.
type SparseVector []SparseEntry

// NewSparseVector builds a vector from an index->weight map. Entries with a
// non-positive weight are dropped.
func NewSparseVector(weights map[int]float64) SparseVector {
	v := make(SparseVector, 0, len(weights))
	for idx, w := range weights {
		if w <= 0 {
			continue
		}
		v = append(v, SparseEntry{Index: idx, Weight: w})
	}
	sort.Slice(v, func(i, j int) bool { return v[i].Index < v[j].Index })
	return v
}

// Features returns the vector as a feature-name->weight map, the shape the
// storage engine expects for a rank_features field.
func (v SparseVector) Features() map[string]float64 {
	out := make(map[string]float64, len(v))
	for _, e := range v {
		out[strconv.Itoa(e.Index)] = e.Weight
	}
	return out
}

func (v SparseVector) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Features())
}

func (v *SparseVector) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode sparse vector: %w", err)
	}

	weights := make(map[int]float64, len(raw))
	for key, w := range raw {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			return fmt.Errorf("%w: sparse vector index %q", ErrInvalidFormat, key)
		}
		weights[idx] = w
	}

	*v = NewSparseVector(weights)
	return nil
}

// SearchResult pairs a chunk with its relevance score for one query.
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}
