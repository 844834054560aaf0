// Package vectordb holds the HTTP client for the Chroma similarity index.
package vectordb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"msme-intel/internal/domain"
)

// QueryRequest is the request payload for the collection query endpoint.
type QueryRequest struct {
	QueryTexts []string          `json:"query_texts"`
	NResults   int               `json:"n_results"`
	Where      map[string]string `json:"where,omitempty"`
	Include    []string          `json:"include"`
}

// QueryResponse mirrors Chroma's nested per-query result arrays. We always
// send a single query text, so only the first inner slice is used.
type QueryResponse struct {
	IDs       [][]string            `json:"ids"`
	Documents [][]string            `json:"documents"`
	Metadatas [][]map[string]string `json:"metadatas"`
	Distances [][]float32           `json:"distances"`
}

// UpsertRequest is the request payload for the collection upsert endpoint.
type UpsertRequest struct {
	IDs       []string            `json:"ids"`
	Documents []string            `json:"documents"`
	Metadatas []map[string]string `json:"metadatas"`
}

// ChromaClient implements domain.DocumentIndex via HTTP calls to a Chroma
// collection endpoint.
type ChromaClient struct {
	BaseURL    string
	Collection string
	Client     *http.Client
	logger     *slog.Logger
}

// NewChromaClient constructs a new ChromaClient.
// baseURL should be the Chroma service URL (e.g., http://chroma:8000).
// If client is nil, a default http.Client is created with the given timeout.
func NewChromaClient(baseURL, collection string, timeout time.Duration, logger *slog.Logger, client ...*http.Client) *ChromaClient {
	var c *http.Client
	if len(client) > 0 && client[0] != nil {
		c = client[0]
	} else {
		c = &http.Client{Timeout: timeout}
	}
	if collection == "" {
		collection = "msme_companies"
	}
	return &ChromaClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Collection: collection,
		Client:     c,
		logger:     logger,
	}
}

// Search runs a similarity query against the collection. Results come back
// ordered by ascending distance; scores are reported as 1-distance so higher
// means closer.
func (c *ChromaClient) Search(ctx context.Context, query string, limit int, filter map[string]string) ([]domain.ScoredDocument, error) {
	if limit <= 0 {
		return []domain.ScoredDocument{}, nil
	}

	startTime := time.Now()

	reqBody := QueryRequest{
		QueryTexts: []string{query},
		NResults:   limit,
		Where:      filter,
		Include:    []string{"documents", "metadatas", "distances"},
	}

	var queryResp QueryResponse
	if err := c.post(ctx, fmt.Sprintf("/api/v1/collections/%s/query", c.Collection), reqBody, &queryResp); err != nil {
		c.logger.Warn("index_query_failed",
			slog.String("error", err.Error()),
			slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))
		return nil, fmt.Errorf("%w: %v", domain.ErrRetrievalUnavailable, err)
	}

	if len(queryResp.IDs) == 0 {
		return []domain.ScoredDocument{}, nil
	}

	ids := queryResp.IDs[0]
	docs := make([]domain.ScoredDocument, 0, len(ids))
	for i, id := range ids {
		doc := domain.ScoredDocument{ID: id}
		if len(queryResp.Documents) > 0 && i < len(queryResp.Documents[0]) {
			doc.Content = queryResp.Documents[0][i]
		}
		if len(queryResp.Metadatas) > 0 && i < len(queryResp.Metadatas[0]) {
			doc.Metadata = queryResp.Metadatas[0][i]
		}
		if len(queryResp.Distances) > 0 && i < len(queryResp.Distances[0]) {
			doc.Score = 1 - queryResp.Distances[0][i]
		}
		docs = append(docs, doc)
	}

	c.logger.Info("index_query_completed",
		slog.Int("result_count", len(docs)),
		slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))

	return docs, nil
}

// Upsert writes documents into the collection, replacing any with the same ID.
func (c *ChromaClient) Upsert(ctx context.Context, documents []domain.Document) error {
	if len(documents) == 0 {
		return nil
	}

	reqBody := UpsertRequest{
		IDs:       make([]string, len(documents)),
		Documents: make([]string, len(documents)),
		Metadatas: make([]map[string]string, len(documents)),
	}
	for i, doc := range documents {
		reqBody.IDs[i] = doc.ID
		reqBody.Documents[i] = doc.Content
		reqBody.Metadatas[i] = doc.Metadata
	}

	if err := c.post(ctx, fmt.Sprintf("/api/v1/collections/%s/upsert", c.Collection), reqBody, nil); err != nil {
		return fmt.Errorf("failed to upsert %d documents: %w", len(documents), err)
	}

	c.logger.Info("index_upsert_completed", slog.Int("document_count", len(documents)))
	return nil
}

func (c *ChromaClient) post(ctx context.Context, path string, payload any, out any) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call index endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("index endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode index response: %w", err)
	}
	return nil
}
