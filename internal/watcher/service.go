package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/storekit/priceindex/pkg/db/models"
	"github.com/storekit/priceindex/pkg/logger"
)

const (
	defaultPollInterval = 30 * time.Second
	defaultDrainLimit   = 10000
)

// ReindexRunner is the partial-reindex entry point the watcher drives.
type ReindexRunner interface {
	ReindexRows(ctx context.Context, entityIDs []uint32) error
}

// ChangelogSource is the changelog surface the watcher consumes.
// *Repository satisfies it; tests substitute stubs.
type ChangelogSource interface {
	PendingEntries(ctx context.Context, limit int) ([]models.ChangelogEntry, error)
	ConsumeThrough(ctx context.Context, version uint64) error
}

// ServiceParams configure the watcher service.
type ServiceParams struct {
	Logger       *logger.Logger
	Changelog    ChangelogSource
	Runner       ReindexRunner
	Lock         Lock
	PollInterval time.Duration
	DrainLimit   int
}

// Service polls the changelog and turns accumulated product changes into
// partial reindex runs. It is the single writer for the live index tables:
// the lock keeps concurrent watcher instances from interleaving row writes.
type Service struct {
	logg       *logger.Logger
	changelog  ChangelogSource
	runner     ReindexRunner
	lock       Lock
	interval   time.Duration
	drainLimit int
}

// NewService builds a watcher service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Changelog == nil {
		return nil, fmt.Errorf("changelog source required")
	}
	if params.Runner == nil {
		return nil, fmt.Errorf("reindex runner required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	interval := params.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	drainLimit := params.DrainLimit
	if drainLimit <= 0 {
		drainLimit = defaultDrainLimit
	}
	return &Service{
		logg:       params.Logger,
		changelog:  params.Changelog,
		runner:     params.Runner,
		lock:       params.Lock,
		interval:   interval,
		drainLimit: drainLimit,
	}, nil
}

// Run starts the poll loop until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.RunCycle(ctx); err != nil {
		s.logg.Error(ctx, "changelog cycle failed", err)
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "watcher context canceled")
			return ctx.Err()
		case <-ticker.C:
			if err := s.RunCycle(ctx); err != nil {
				s.logg.Error(ctx, "changelog cycle failed", err)
			}
		}
	}
}

// RunCycle drains one changelog batch under the writer lock. Entries are only
// consumed after the reindex succeeded, so a failed run retries the same
// batch on the next cycle.
func (s *Service) RunCycle(ctx context.Context) error {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		s.logg.Info(ctx, "another watcher instance holds the lock; skipping this cycle")
		return nil
	}
	defer func() {
		if relErr := s.lock.Release(ctx); relErr != nil {
			s.logg.Error(ctx, "failed to release watcher lock", relErr)
		}
	}()

	entries, err := s.changelog.PendingEntries(ctx, s.drainLimit)
	if err != nil {
		return fmt.Errorf("reading changelog: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	ids, maxVersion := collapse(entries)
	cycleCtx := s.logg.WithEntityCount(ctx, len(ids))
	s.logg.Info(cycleCtx, "draining changelog batch")

	if err := s.runner.ReindexRows(cycleCtx, ids); err != nil {
		return fmt.Errorf("reindexing changed entities: %w", err)
	}
	if err := s.changelog.ConsumeThrough(cycleCtx, maxVersion); err != nil {
		return fmt.Errorf("consuming changelog: %w", err)
	}
	s.logg.Info(cycleCtx, "changelog batch done")
	return nil
}

// collapse dedupes entity ids and finds the highest drained version.
func collapse(entries []models.ChangelogEntry) ([]uint32, uint64) {
	seen := make(map[uint32]struct{}, len(entries))
	ids := make([]uint32, 0, len(entries))
	var maxVersion uint64
	for _, entry := range entries {
		if entry.Version > maxVersion {
			maxVersion = entry.Version
		}
		if _, ok := seen[entry.EntityID]; ok {
			continue
		}
		seen[entry.EntityID] = struct{}{}
		ids = append(ids, entry.EntityID)
	}
	return ids, maxVersion
}
