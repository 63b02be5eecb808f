package answer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/futig/scrapbox-rag/internal/entity"
	"github.com/futig/scrapbox-rag/internal/pkg/validator"
)

type fakeGenerator struct {
	prompt string
	err    error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return "answer", f.err
}

type fakeSearcher struct {
	results []entity.SearchResult
	err     error
}

func (f *fakeSearcher) Search(context.Context, *entity.SearchRequest) ([]entity.SearchResult, error) {
	return f.results, f.err
}

func chunk(id, title, content, url string) entity.Chunk {
	return entity.Chunk{ID: id, ProjectName: "proj", PageTitle: title, Content: content, URL: url}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Goとは？", []entity.Chunk{
		chunk("a_0", "Go", "Go is a language", "u1"),
		chunk("b_0", "Rust", "Rust is a language", "u2"),
	})

	assert.Contains(t, prompt, "--- Source 1: Go ---\nGo is a language\n\n--- Source 2: Rust ---\nRust is a language\n\n")
	assert.Contains(t, prompt, "「わかりません」")
	assert.True(t, strings.HasSuffix(prompt, "### 質問:\nGoとは？\n\n### 回答:"))
	assert.Less(t, strings.Index(prompt, "Source 1"), strings.Index(prompt, "Source 2"))
}

func TestSources(t *testing.T) {
	sources := Sources([]entity.Chunk{
		chunk("b_0", "B", "x", "u2"),
		chunk("a_0", "A", "y", "u1"),
		chunk("b_1", "B", "z", "u2"),
	})
	assert.Equal(t, []string{"u2", "u1"}, sources)
	assert.Empty(t, Sources(nil))
}

func TestGenerate(t *testing.T) {
	gen := &fakeGenerator{}
	uc := NewUsecase(gen, &fakeSearcher{}, validator.New(), zap.NewNop())

	resp, err := uc.Generate(context.Background(), &entity.GenerateRequest{
		Query:   "q",
		Context: []entity.Chunk{chunk("a_0", "A", "body", "u1")},
	})

	require.NoError(t, err)
	assert.Equal(t, "answer", resp.Answer)
	assert.Equal(t, []string{"u1"}, resp.Sources)
	assert.Contains(t, gen.prompt, "--- Source 1: A ---")
}

func TestGenerate_Failure(t *testing.T) {
	gen := &fakeGenerator{err: entity.ErrGenerateFailure}
	_, err := NewUsecase(gen, &fakeSearcher{}, validator.New(), zap.NewNop()).
		Generate(context.Background(), &entity.GenerateRequest{Query: "q"})

	assert.ErrorIs(t, err, entity.ErrGenerateFailure)
}

func TestAsk(t *testing.T) {
	searcher := &fakeSearcher{results: []entity.SearchResult{
		{Chunk: chunk("a_0", "A", "first", "u1"), Score: 3},
		{Chunk: chunk("a_1", "A", "second", "u1"), Score: 2},
	}}
	gen := &fakeGenerator{}

	resp, err := NewUsecase(gen, searcher, validator.New(), zap.NewNop()).
		Ask(context.Background(), &entity.SearchRequest{Query: "q"})

	require.NoError(t, err)
	assert.Equal(t, "answer", resp.Answer)
	assert.Equal(t, []string{"u1"}, resp.Sources)
	assert.Len(t, resp.Results, 2)
	assert.Contains(t, gen.prompt, "--- Source 2: A ---\nsecond")
}

func TestAsk_SearchFailure(t *testing.T) {
	gen := &fakeGenerator{}
	_, err := NewUsecase(gen, &fakeSearcher{err: entity.ErrEmptyQuery}, validator.New(), zap.NewNop()).
		Ask(context.Background(), &entity.SearchRequest{})

	assert.ErrorIs(t, err, entity.ErrEmptyQuery)
	assert.Empty(t, gen.prompt)
}
