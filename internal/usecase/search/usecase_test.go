package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/futig/scrapbox-rag/internal/config"
	"github.com/futig/scrapbox-rag/internal/entity"
	"github.com/futig/scrapbox-rag/internal/pkg/validator"
)

type fakeRetriever struct {
	text string
	topK int
}

func (f *fakeRetriever) Search(_ context.Context, text string, topK int) ([]entity.SearchResult, error) {
	f.text, f.topK = text, topK
	return []entity.SearchResult{{Chunk: entity.Chunk{ID: "a_0"}, Score: 1}}, nil
}

type fakeStore struct {
	id        string
	doc       *entity.StoredDocument
	indexErr  error
	status    string
	healthErr error
}

func (f *fakeStore) IndexDocument(_ context.Context, id string, doc *entity.StoredDocument) error {
	f.id, f.doc = id, doc
	return f.indexErr
}

func (f *fakeStore) ClusterHealth(context.Context) (string, error) {
	return f.status, f.healthErr
}

type fakeLLM struct{ err error }

func (f *fakeLLM) Health(context.Context) error { return f.err }

func intPtr(v int) *int { return &v }

func newTestUsecase(r Retriever, s DocumentStore, l LLMHealth) *SearchUsecase {
	return NewUsecase(r, s, l, validator.New(), config.SearchConfig{DefaultTopK: 5, MaxTopK: 50}, zap.NewNop())
}

func TestSearch_TopKPolicy(t *testing.T) {
	r := &fakeRetriever{}
	uc := newTestUsecase(r, &fakeStore{}, &fakeLLM{})

	_, err := uc.Search(context.Background(), &entity.SearchRequest{Query: "foo"})
	require.NoError(t, err)
	assert.Equal(t, 5, r.topK)
	assert.Equal(t, "foo", r.text)

	_, err = uc.Search(context.Background(), &entity.SearchRequest{Query: "foo", TopK: intPtr(8)})
	require.NoError(t, err)
	assert.Equal(t, 8, r.topK)

	_, err = uc.Search(context.Background(), &entity.SearchRequest{Query: "foo", TopK: intPtr(500)})
	require.NoError(t, err)
	assert.Equal(t, 50, r.topK)

	_, err = uc.Search(context.Background(), &entity.SearchRequest{Query: "foo", TopK: intPtr(0)})
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestSearch_EmptyQuery(t *testing.T) {
	r := &fakeRetriever{}
	_, err := newTestUsecase(r, &fakeStore{}, &fakeLLM{}).Search(context.Background(), &entity.SearchRequest{Query: " "})

	assert.ErrorIs(t, err, entity.ErrEmptyQuery)
	assert.Empty(t, r.text)
}

func TestIndex(t *testing.T) {
	store := &fakeStore{}
	uc := newTestUsecase(&fakeRetriever{}, store, &fakeLLM{})

	req := &entity.IndexRequest{
		Chunk: entity.Chunk{ID: "p_0", ProjectName: "proj", PageTitle: "T", Content: "c", URL: "u"},
		Vector: entity.SparseVector{{Index: 2, Weight: 0.7}, {Index: 9, Weight: 0}},
	}
	resp, err := uc.Index(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, &entity.IndexResponse{Result: "indexed", ID: "p_0"}, resp)
	assert.Equal(t, "p_0", store.id)
	assert.Equal(t, map[string]float64{"2": 0.7}, store.doc.Vector)
}

func TestIndex_StoreFailure(t *testing.T) {
	store := &fakeStore{indexErr: errors.New("HTTP 400: mapper_parsing_exception")}
	req := &entity.IndexRequest{Chunk: entity.Chunk{ID: "p_0", ProjectName: "proj", PageTitle: "T", Content: "c", URL: "u"}}

	_, err := newTestUsecase(&fakeRetriever{}, store, &fakeLLM{}).Index(context.Background(), req)
	assert.ErrorIs(t, err, entity.ErrIndexFailure)
}

func TestIndex_Invalid(t *testing.T) {
	store := &fakeStore{}
	_, err := newTestUsecase(&fakeRetriever{}, store, &fakeLLM{}).Index(context.Background(), &entity.IndexRequest{})

	assert.ErrorIs(t, err, entity.ErrMissingField)
	assert.Nil(t, store.doc)
}

func TestHealth(t *testing.T) {
	resp, err := newTestUsecase(&fakeRetriever{}, &fakeStore{status: "green"}, &fakeLLM{}).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &entity.HealthResponse{Status: "ok", Elasticsearch: "green", LLM: "connected"}, resp)

	resp, err = newTestUsecase(&fakeRetriever{}, &fakeStore{status: "yellow"}, &fakeLLM{err: errors.New("refused")}).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "disconnected", resp.LLM)

	resp, err = newTestUsecase(&fakeRetriever{}, &fakeStore{healthErr: errors.New("refused")}, &fakeLLM{}).Health(context.Background())
	require.ErrorIs(t, err, entity.ErrServiceNotReady)
	assert.Equal(t, "unavailable", resp.Status)
}
