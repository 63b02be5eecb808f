package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/futig/scrapbox-rag/internal/config"
	"github.com/futig/scrapbox-rag/internal/entity"
)

func newTestConnector(url string) *Connector {
	return NewConnector(config.EmbeddingConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{Url: url, RequestTimeout: 5 * time.Second},
		EmbedEndpoint:    "/embed",
		HealthEndpoint:   "/health",
	}, zap.NewNop())
}

func TestConnector_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/embed", r.URL.Path)

		var req entity.EmbeddingRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Text)

		_, _ = w.Write([]byte(`{"vector":{"7":1.2,"3":0.5}}`))
	}))
	defer srv.Close()

	vector, err := newTestConnector(srv.URL).Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, entity.SparseVector{{Index: 3, Weight: 0.5}, {Index: 7, Weight: 1.2}}, vector)
}

func TestConnector_Embed_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestConnector(srv.URL).Embed(context.Background(), "hello")
	require.ErrorIs(t, err, entity.ErrEmbeddingFailure)
}

func TestConnector_Health(t *testing.T) {
	status := entity.HealthStatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_ = json.NewEncoder(w).Encode(entity.HealthResponse{Status: status, Device: "cpu"})
	}))
	defer srv.Close()

	c := newTestConnector(srv.URL)
	require.NoError(t, c.Health(context.Background()))

	status = "loading"
	require.ErrorIs(t, c.Health(context.Background()), entity.ErrServiceNotReady)
}

func TestMockConnector_Embed(t *testing.T) {
	m := NewMockConnector(zap.NewNop())

	a, err := m.Embed(context.Background(), "Go go scrapbox")
	require.NoError(t, err)
	b, err := m.Embed(context.Background(), "go GO scrapbox")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	require.Len(t, a, 2)

	var total float64
	for _, e := range a {
		assert.Less(t, e.Index, vocabularySize)
		total += e.Weight
	}
	assert.Equal(t, 3.0, total)
}
