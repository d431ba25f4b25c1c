package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/deliciousroute/deliciousroute-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CityBackfiller resolves missing vendor cities.
type CityBackfiller interface {
	BackfillCities(ctx context.Context) (int, error)
}

// CityBackfillScheduler periodically retries reverse geocoding for vendors
// whose city lookup failed during a location update.
type CityBackfillScheduler struct {
	cron    *cron.Cron
	spec    string
	service CityBackfiller
	timeout time.Duration

	mu      sync.Mutex
	running bool
}

func NewCityBackfillScheduler(service CityBackfiller, spec string) *CityBackfillScheduler {
	return &CityBackfillScheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		spec:    spec,
		service: service,
		timeout: 2 * time.Minute,
	}
}

// Start registers the job and starts the cron runner. An empty spec leaves
// the scheduler disabled.
func (s *CityBackfillScheduler) Start() error {
	if s.spec == "" {
		logger.Info("City backfill scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for city backfill", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	s.cron.Start()
	logger.Info("City backfill scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// RunOnce runs a single backfill pass.
func (s *CityBackfillScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	logger.Debug("Starting scheduled city backfill")
	resolved, err := s.service.BackfillCities(ctx)
	if err != nil {
		logger.Error("City backfill failed", err, map[string]interface{}{
			"resolved": resolved,
		})
		return
	}
	if resolved > 0 {
		logger.Info("City backfill resolved vendors", map[string]interface{}{
			"resolved": resolved,
		})
	}
}

// Stop halts the runner and waits for a running job to finish.
func (s *CityBackfillScheduler) Stop() {
	s.mu.Lock()
	running := s.running
	s.running = false
	s.mu.Unlock()
	if !running {
		return
	}

	logger.Info("Stopping city backfill scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("City backfill scheduler stopped")
}
