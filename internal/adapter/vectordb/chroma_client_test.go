package vectordb

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"msme-intel/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChromaClient_Search_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/collections/msme_companies/query", r.URL.Path)

		var req QueryRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)
		assert.Equal(t, []string{"textile exporters"}, req.QueryTexts)
		assert.Equal(t, 3, req.NResults)
		assert.Equal(t, map[string]string{"sector": "Textiles"}, req.Where)

		resp := QueryResponse{
			IDs:       [][]string{{"company-1", "company-2"}},
			Documents: [][]string{{"Sharma Textiles overview", "Tirupur Knits overview"}},
			Metadatas: [][]map[string]string{{
				{"company_name": "Sharma Textiles", "sector": "Textiles"},
				{"company_name": "Tirupur Knits", "sector": "Textiles"},
			}},
			Distances: [][]float32{{0.1, 0.35}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	client := NewChromaClient(server.URL, "", 5*time.Second, logger)

	docs, err := client.Search(context.Background(), "textile exporters", 3, map[string]string{"sector": "Textiles"})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "company-1", docs[0].ID)
	assert.Equal(t, "Sharma Textiles overview", docs[0].Content)
	assert.Equal(t, "Sharma Textiles", docs[0].Metadata["company_name"])
	assert.InDelta(t, 0.9, docs[0].Score, 1e-6)
	assert.Greater(t, docs[0].Score, docs[1].Score)
}

func TestChromaClient_Search_ZeroLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	client := NewChromaClient("http://localhost:8000", "msme_companies", 5*time.Second, logger)

	docs, err := client.Search(context.Background(), "anything", 0, nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestChromaClient_Search_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("collection not found"))
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	client := NewChromaClient(server.URL, "msme_companies", 5*time.Second, logger)

	docs, err := client.Search(context.Background(), "query", 5, nil)
	assert.Nil(t, docs)
	assert.ErrorIs(t, err, domain.ErrRetrievalUnavailable)
}

func TestChromaClient_Search_EmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(QueryResponse{})
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	client := NewChromaClient(server.URL, "msme_companies", 5*time.Second, logger)

	docs, err := client.Search(context.Background(), "query", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestChromaClient_Upsert_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/collections/msme_companies/upsert", r.URL.Path)

		var req UpsertRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)
		assert.Equal(t, []string{"news-1"}, req.IDs)
		assert.Equal(t, []string{"RBI cuts repo rate. Rate cut to support growth"}, req.Documents)
		assert.Equal(t, "news", req.Metadatas[0]["type"])

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	client := NewChromaClient(server.URL, "msme_companies", 5*time.Second, logger)

	err := client.Upsert(context.Background(), []domain.Document{
		{
			ID:       "news-1",
			Content:  "RBI cuts repo rate. Rate cut to support growth",
			Metadata: map[string]string{"type": "news", "source": "NewsData.io"},
		},
	})
	require.NoError(t, err)
}

func TestChromaClient_Upsert_Empty(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	client := NewChromaClient("http://localhost:8000", "msme_companies", 5*time.Second, logger)

	err := client.Upsert(context.Background(), nil)
	assert.NoError(t, err)
}
