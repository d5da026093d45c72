package provider

import (
	"context"
	"sync"
	"time"

	"github.com/opsconsole/backend/internal/domain/provider"
	"go.uber.org/zap"
)

// defaultRefreshTimeout bounds a single feed refetch
const defaultRefreshTimeout = 15 * time.Second

// ActivitySynchronizer keeps the cached activity feed consistent with
// confirmed mutations by refetching it wholesale after each one. The refresh
// is best-effort relative to the triggering mutation: a failed refresh is
// logged and the previous feed retained, never surfaced to the caller.
// Refreshes are not coalesced; whichever response arrives last wins.
type ActivitySynchronizer struct {
	gateway provider.Gateway
	store   *Store
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewActivitySynchronizer creates a new ActivitySynchronizer
func NewActivitySynchronizer(gateway provider.Gateway, store *Store, logger *zap.Logger) *ActivitySynchronizer {
	return &ActivitySynchronizer{
		gateway: gateway,
		store:   store,
		logger:  logger,
		timeout: defaultRefreshTimeout,
	}
}

// Refresh schedules a fire-and-forget refetch of the provider's feed
func (s *ActivitySynchronizer) Refresh(providerID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.refresh(providerID)
	}()
}

// RefreshNow refetches the feed synchronously, used by the initial load
func (s *ActivitySynchronizer) RefreshNow(ctx context.Context, providerID string) error {
	page, err := s.gateway.ListActivities(ctx, providerID, provider.ActivityFilter{})
	if err != nil {
		return err
	}
	if partition, ok := s.store.Get(providerID); ok {
		partition.ReplaceActivities(page.Activities)
	}
	return nil
}

// Wait blocks until all scheduled refreshes have finished, used by tests and
// by graceful shutdown
func (s *ActivitySynchronizer) Wait() {
	s.wg.Wait()
}

func (s *ActivitySynchronizer) refresh(providerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.RefreshNow(ctx, providerID); err != nil {
		// Stale-but-valid: keep the previous feed
		s.logger.Warn("activity feed refresh failed",
			zap.String("provider_id", providerID),
			zap.Error(err))
	}
}
