package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	answerapi "github.com/futig/scrapbox-rag/internal/api/answer"
	searchapi "github.com/futig/scrapbox-rag/internal/api/search"
	"github.com/futig/scrapbox-rag/internal/entity"
)

type fakeSearchUsecase struct {
	req       *entity.SearchRequest
	err       error
	healthErr error
}

func (f *fakeSearchUsecase) Search(_ context.Context, req *entity.SearchRequest) ([]entity.SearchResult, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return []entity.SearchResult{{Chunk: entity.Chunk{ID: "a_0", URL: "u1"}, Score: 2}}, nil
}

func (f *fakeSearchUsecase) Index(_ context.Context, req *entity.IndexRequest) (*entity.IndexResponse, error) {
	return &entity.IndexResponse{Result: "indexed", ID: req.Chunk.ID}, nil
}

func (f *fakeSearchUsecase) Health(context.Context) (*entity.HealthResponse, error) {
	if f.healthErr != nil {
		return &entity.HealthResponse{Status: entity.HealthStatusUnavailable}, f.healthErr
	}
	return &entity.HealthResponse{Status: entity.HealthStatusOK, Elasticsearch: "green", LLM: "connected"}, nil
}

type fakeAnswerUsecase struct{}

func (fakeAnswerUsecase) Generate(_ context.Context, req *entity.GenerateRequest) (*entity.GenerateResponse, error) {
	return &entity.GenerateResponse{Answer: "a", Sources: []string{"u1"}}, nil
}

func (fakeAnswerUsecase) Ask(context.Context, *entity.SearchRequest) (*entity.AskResponse, error) {
	return nil, entity.ErrGenerateFailure
}

func newTestRouter(s *fakeSearchUsecase) http.Handler {
	return SetupRouter(searchapi.NewHandler(s), answerapi.NewHandler(fakeAnswerUsecase{}), "testdata/missing.yaml", zap.NewNop())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Search(t *testing.T) {
	s := &fakeSearchUsecase{}
	rec := do(t, newTestRouter(s), http.MethodPost, "/search", `{"query":"foo","top_k":3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, s.req.TopK)
	assert.Equal(t, 3, *s.req.TopK)

	var results []entity.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "a_0", results[0].Chunk.ID)
}

func TestRouter_Search_Errors(t *testing.T) {
	rec := do(t, newTestRouter(&fakeSearchUsecase{}), http.MethodPost, "/search", `{"query":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, newTestRouter(&fakeSearchUsecase{err: entity.ErrEmptyQuery}), http.MethodPost, "/search", `{"query":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, newTestRouter(&fakeSearchUsecase{err: entity.ErrSearchFailure}), http.MethodPost, "/search", `{"query":"x"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body entity.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Bad Gateway", body.Error)
}

func TestRouter_Index(t *testing.T) {
	rec := do(t, newTestRouter(&fakeSearchUsecase{}), http.MethodPost, "/index",
		`{"chunk":{"id":"p_0","project_name":"proj","page_title":"T","content":"c","url":"u","updated_at":"2024-01-01T00:00:00Z","indent_level":0},"vector":{"3":0.5}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result":"indexed","id":"p_0"}`, rec.Body.String())
}

func TestRouter_Health(t *testing.T) {
	rec := do(t, newTestRouter(&fakeSearchUsecase{}), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","elasticsearch":"green","llm":"connected"}`, rec.Body.String())

	rec = do(t, newTestRouter(&fakeSearchUsecase{healthErr: entity.ErrServiceNotReady}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}

func TestRouter_Answer(t *testing.T) {
	rec := do(t, newTestRouter(&fakeSearchUsecase{}), http.MethodPost, "/generate", `{"query":"q","context":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"answer":"a","sources":["u1"]}`, rec.Body.String())

	rec = do(t, newTestRouter(&fakeSearchUsecase{}), http.MethodPost, "/ask", `{"query":"q"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	rec := do(t, newTestRouter(&fakeSearchUsecase{}), http.MethodOptions, "/search", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Docs(t *testing.T) {
	h := newTestRouter(&fakeSearchUsecase{})

	rec := do(t, h, http.MethodGet, "/docs", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/docs/index.html", rec.Header().Get("Location"))

	rec = do(t, h, http.MethodGet, "/docs/swagger.yaml", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
