package worker

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"msme-intel/internal/domain"
	"msme-intel/internal/usecase"
)

const (
	runTimeout     = 2 * time.Minute
	initialBackoff = 1 * time.Minute
	maxBackoff     = 30 * time.Minute
)

// RefreshWorker periodically pulls sector news into the document index so
// retrieval sees recent market context without waiting for a user query.
type RefreshWorker struct {
	ingest   usecase.IngestNewsUsecase
	sectors  []string
	interval time.Duration
	logger   *slog.Logger
	stopChan chan struct{}
	backoff  time.Duration
}

// NewRefreshWorker builds a worker over the given sector keyword table.
// Pass nil to refresh the default sectors.
func NewRefreshWorker(
	ingest usecase.IngestNewsUsecase,
	sectorKeywords map[string][]string,
	interval time.Duration,
	logger *slog.Logger,
) *RefreshWorker {
	if sectorKeywords == nil {
		sectorKeywords = domain.DefaultSectorKeywords()
	}
	sectors := make([]string, 0, len(sectorKeywords))
	for name := range sectorKeywords {
		sectors = append(sectors, name)
	}
	sort.Strings(sectors)

	return &RefreshWorker{
		ingest:   ingest,
		sectors:  sectors,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

func (w *RefreshWorker) Start() {
	w.logger.Info("Starting RefreshWorker",
		slog.Duration("interval", w.interval),
		slog.Int("sector_count", len(w.sectors)))
	go w.run()
}

func (w *RefreshWorker) Stop() {
	w.logger.Info("Stopping RefreshWorker")
	close(w.stopChan)
}

func (w *RefreshWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.refresh()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.refresh()
			if w.backoff > 0 {
				ticker.Reset(w.backoff)
			} else {
				ticker.Reset(w.interval)
			}
		}
	}
}

func (w *RefreshWorker) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	output, err := w.ingest.Execute(ctx, usecase.IngestNewsInput{Sectors: w.sectors})
	if err != nil {
		w.backoff = w.nextBackoff(w.backoff)
		w.logger.Warn("Refresh failed, backing off",
			slog.Duration("backoff", w.backoff),
			slog.String("error", err.Error()))
		return
	}

	w.backoff = 0
	w.logger.Info("Refresh completed",
		slog.Int("fetched", output.Fetched),
		slog.Int("indexed", output.Indexed))
}

func (w *RefreshWorker) nextBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return initialBackoff
	}
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}
