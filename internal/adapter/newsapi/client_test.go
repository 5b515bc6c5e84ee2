package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}, zaptest.NewLogger(t))
}

func TestClient_Everything(t *testing.T) {
	var gotPath, gotQuery, gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("apiKey")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","totalResults":2,"articles":[{"title":"a"},{"title":"b"}]}`))
	})

	result, err := client.Everything(context.Background(), "cricket OR politics")
	require.NoError(t, err)

	assert.Equal(t, "/everything", gotPath)
	assert.Equal(t, "cricket OR politics", gotQuery)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, 2, result.TotalResults)
	assert.JSONEq(t, `[{"title":"a"},{"title":"b"}]`, string(result.Articles))
}

func TestClient_TopHeadlines(t *testing.T) {
	var gotPath, gotCountry string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCountry = r.URL.Query().Get("country")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","totalResults":1,"articles":[{"title":"headline"}]}`))
	})

	result, err := client.TopHeadlines(context.Background(), "in")
	require.NoError(t, err)

	assert.Equal(t, "/top-headlines", gotPath)
	assert.Equal(t, "in", gotCountry)
	assert.JSONEq(t, `[{"title":"headline"}]`, string(result.Articles))
}

func TestClient_ErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","code":"apiKeyInvalid"}`))
	})

	_, err := client.Everything(context.Background(), "tech")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_ProviderReportedFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"error","totalResults":0,"articles":null}`))
	})

	_, err := client.TopHeadlines(context.Background(), "in")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"error"`)
}

func TestClient_NetworkFailure(t *testing.T) {
	client := NewClient(Config{
		BaseURL: "http://127.0.0.1:1", // nothing listens here
		APIKey:  "test-key",
		Timeout: time.Second,
	}, zaptest.NewLogger(t))

	_, err := client.Everything(context.Background(), "tech")
	require.Error(t, err)
}
