// Package rest exposes the query pipeline and news feed over HTTP.
package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"msme-intel/internal/domain"
	"msme-intel/internal/session"
	"msme-intel/internal/usecase"
)

const historySnapshotTurns = 10

// Handler holds the pieces the HTTP surface depends on.
type Handler struct {
	answerUsecase usecase.AnswerQueryUsecase
	newsFetcher   usecase.NewsFetcher
	sessions      *session.Registry
	version       string
}

func NewHandler(
	answerUsecase usecase.AnswerQueryUsecase,
	newsFetcher usecase.NewsFetcher,
	sessions *session.Registry,
	version string,
) *Handler {
	return &Handler{
		answerUsecase: answerUsecase,
		newsFetcher:   newsFetcher,
		sessions:      sessions,
		version:       version,
	}
}

// RegisterRoutes attaches all endpoints to the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/v1/health", h.Health)
	e.POST("/v1/query", h.AnswerQuery)
	e.GET("/v1/news", h.LatestNews)
	e.GET("/v1/news/sector/:sector", h.SectorNews)
	e.GET("/v1/sessions/:id/history", h.SessionHistory)
	e.DELETE("/v1/sessions/:id/history", h.ClearSessionHistory)
}

// QueryRequest is the body for POST /v1/query.
type QueryRequest struct {
	Query       string `json:"query"`
	SessionID   string `json:"session_id,omitempty"`
	IncludeNews *bool  `json:"include_news,omitempty"`
}

// QueryResponse is the reply for POST /v1/query.
type QueryResponse struct {
	RequestID    string        `json:"request_id"`
	SessionID    string        `json:"session_id"`
	Answer       string        `json:"answer"`
	QueryType    string        `json:"query_type"`
	Sectors      []string      `json:"sectors,omitempty"`
	NewsArticles []ArticleView `json:"news_articles,omitempty"`
	Fallback     bool          `json:"fallback"`
}

// ArticleView is the wire form of an aggregated article.
type ArticleView struct {
	Source      string `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Category    string `json:"category,omitempty"`
	Sentiment   string `json:"sentiment,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// TurnView is the wire form of one conversation turn.
type TurnView struct {
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
	Timestamp time.Time `json:"timestamp"`
}

// Answer a query against the index, news feed, and session history
// (POST /v1/query)
func (h *Handler) AnswerQuery(ctx echo.Context) error {
	var req QueryRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Query == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "query is required"})
	}

	includeNews := true
	if req.IncludeNews != nil {
		includeNews = *req.IncludeNews
	}

	sess := h.sessions.GetOrCreate(req.SessionID)

	output, err := h.answerUsecase.Execute(ctx.Request().Context(), usecase.AnswerQueryInput{
		Query:       req.Query,
		History:     sess.Snapshot(historySnapshotTurns),
		IncludeNews: includeNews,
	})
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	sess.Complete(domain.ConversationTurn{
		User:      req.Query,
		Assistant: output.Answer,
		Timestamp: time.Now(),
	})

	return ctx.JSON(http.StatusOK, QueryResponse{
		RequestID:    output.RequestID,
		SessionID:    sess.ID(),
		Answer:       output.Answer,
		QueryType:    string(output.Intent.Type),
		Sectors:      output.Intent.Sectors,
		NewsArticles: toArticleViews(output.Articles),
		Fallback:     output.Fallback,
	})
}

// Latest aggregated headlines across all providers
// (GET /v1/news)
func (h *Handler) LatestNews(ctx echo.Context) error {
	limit := queryLimit(ctx, 10)
	articles := h.newsFetcher.FetchAll(ctx.Request().Context(), nil, limit)
	return ctx.JSON(http.StatusOK, map[string]any{
		"articles": toArticleViews(articles),
		"count":    len(articles),
	})
}

// Sector-filtered headlines
// (GET /v1/news/sector/:sector)
func (h *Handler) SectorNews(ctx echo.Context) error {
	sector := ctx.Param("sector")
	if sector == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "sector is required"})
	}

	limit := queryLimit(ctx, 5)
	articles := h.newsFetcher.FetchForSector(ctx.Request().Context(), sector, limit)
	return ctx.JSON(http.StatusOK, map[string]any{
		"sector":   sector,
		"articles": toArticleViews(articles),
		"count":    len(articles),
	})
}

// Completed turns for a session, oldest first
// (GET /v1/sessions/:id/history)
func (h *Handler) SessionHistory(ctx echo.Context) error {
	sess := h.sessions.GetOrCreate(ctx.Param("id"))
	turns := sess.Snapshot(historySnapshotTurns)

	views := make([]TurnView, 0, len(turns))
	for _, turn := range turns {
		views = append(views, TurnView{User: turn.User, Assistant: turn.Assistant, Timestamp: turn.Timestamp})
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"session_id": sess.ID(),
		"history":    views,
	})
}

// Drop all turns for a session
// (DELETE /v1/sessions/:id/history)
func (h *Handler) ClearSessionHistory(ctx echo.Context) error {
	sess := h.sessions.GetOrCreate(ctx.Param("id"))
	sess.Clear()
	return ctx.JSON(http.StatusOK, map[string]string{"session_id": sess.ID(), "status": "cleared"})
}

// Liveness probe
// (GET /v1/health)
func (h *Handler) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

func queryLimit(ctx echo.Context, fallback int) int {
	raw := ctx.QueryParam("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

func toArticleViews(articles []domain.Article) []ArticleView {
	views := make([]ArticleView, 0, len(articles))
	for _, article := range articles {
		view := ArticleView{
			Source:      article.Source,
			Title:       article.Title,
			Description: article.Description,
			URL:         article.URL,
			Category:    article.Category,
			Sentiment:   article.Sentiment,
		}
		if article.PublishedAt != nil {
			view.PublishedAt = article.PublishedAt.UTC().Format(time.RFC3339)
		}
		views = append(views, view)
	}
	return views
}
