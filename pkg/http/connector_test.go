package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoBody struct {
	Text string `json:"text"`
}

func TestConnector_DoRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/echo", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "abc", r.Header.Get("X-Request-ID"))

		cookie, err := r.Cookie("connect.sid")
		if assert.NoError(t, err) {
			assert.Equal(t, "sid-value", cookie.Value)
		}

		var in echoBody
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(echoBody{Text: in.Text + "!"})
	}))
	defer srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: srv.URL + "/"},
		WithRequestTimeout(5*time.Second),
		WithRequestLogging(),
		WithAuthToken("secret"),
		WithCookie("connect.sid", "sid-value"),
	)

	var out echoBody
	err := c.DoRequest(context.Background(), http.MethodPost, "/echo", echoBody{Text: "hi"}, &out, WithHeader("X-Request-ID", "abc"))
	require.NoError(t, err)
	assert.Equal(t, "hi!", out.Text)
}

func TestConnector_DoRequest_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: srv.URL})

	err := c.DoRequest(context.Background(), http.MethodGet, "/missing", nil, nil)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	err = c.DoRequest(context.Background(), http.MethodGet, "/broken", nil, nil)
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
}

func TestConnector_DoRequest_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: url})
	err := c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, 0, StatusCode(err))
}

func TestWithCookie_EmptyValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Cookies())
	}))
	defer srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: srv.URL}, WithCookie("connect.sid", ""))
	require.NoError(t, c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil))
}

func TestRedactHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer x")
	h.Set("Cookie", "connect.sid=y")
	h.Set("Accept", "application/json")

	out := redactHeaders(h)
	assert.Equal(t, "[REDACTED]", out.Get("Authorization"))
	assert.Equal(t, "[REDACTED]", out.Get("Cookie"))
	assert.Equal(t, "application/json", out.Get("Accept"))
	assert.Equal(t, "Bearer x", h.Get("Authorization"))
}

func TestWithAuthToken(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
	}))
	defer srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: srv.URL}, WithAuthToken("secret"))
	require.NoError(t, c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil))
	require.NoError(t, c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil, WithHeader("Authorization", "Basic abc")))

	assert.Equal(t, []string{"Bearer secret", "Basic abc"}, got)
}
