package entity

import "time"

const DefaultTopK = 5

type SearchRequest struct {
	Query string `json:"query" validate:"required"`
	// TopK is optional; nil selects the service default.
	TopK *int `json:"top_k,omitempty" validate:"omitempty,gte=1"`
}

type IndexRequest struct {
	Chunk  Chunk        `json:"chunk" validate:"required"`
	Vector SparseVector `json:"vector"`
}

type IndexResponse struct {
	Result string `json:"result"`
	ID     string `json:"id"`
}

type EmbeddingRequest struct {
	Text string `json:"text"`
}

type EmbeddingResponse struct {
	Vector SparseVector `json:"vector"`
}

// HealthResponse is the body every collaborator health endpoint returns.
// Only Status is required; the remaining fields are informational.
type HealthResponse struct {
	Status        string `json:"status"`
	Elasticsearch string `json:"elasticsearch,omitempty"`
	LLM           string `json:"llm,omitempty"`
	Device        string `json:"device,omitempty"`
	Model         string `json:"model,omitempty"`
}

const (
	HealthStatusOK          = "ok"
	HealthStatusUnavailable = "unavailable"
)

// EngineQuery is the combined lexical + rank-feature query sent to the
// storage engine.
type EngineQuery struct {
	Size   int           `json:"size"`
	Query  BoolQuery     `json:"query"`
	Source *SourceFilter `json:"_source,omitempty"`
}

type BoolQuery struct {
	Bool ShouldClauses `json:"bool"`
}

type ShouldClauses struct {
	Should []QueryClause `json:"should"`
}

// QueryClause holds exactly one of its members.
type QueryClause struct {
	MultiMatch  *MultiMatchClause  `json:"multi_match,omitempty"`
	RankFeature *RankFeatureClause `json:"rank_feature,omitempty"`
}

type MultiMatchClause struct {
	Query  string   `json:"query"`
	Fields []string `json:"fields"`
}

type RankFeatureClause struct {
	Field string  `json:"field"`
	Boost float64 `json:"boost"`
}

type SourceFilter struct {
	Excludes []string `json:"excludes,omitempty"`
}

// EngineSearchResponse is the subset of the engine search response we read.
type EngineSearchResponse struct {
	Hits struct {
		Hits []EngineHit `json:"hits"`
	} `json:"hits"`
}

type EngineHit struct {
	ID     string         `json:"_id"`
	Score  float64        `json:"_score"`
	Source StoredDocument `json:"_source"`
}

// StoredDocument is the document persisted per chunk. Vector is write-only
// payload and never leaves the storage service.
type StoredDocument struct {
	ProjectName string             `json:"project_name"`
	PageTitle   string             `json:"page_title"`
	Content     string             `json:"content"`
	URL         string             `json:"url"`
	UpdatedAt   time.Time          `json:"updated_at"`
	IndentLevel int                `json:"indent_level"`
	Vector      map[string]float64 `json:"vector,omitempty"`
}
