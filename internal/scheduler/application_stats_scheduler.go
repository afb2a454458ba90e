package scheduler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tastebase/tastebase-backend/internal/app/service"
	"github.com/tastebase/tastebase-backend/pkg/logger"
)

// ApplicationStatsScheduler periodically snapshots the review queue tallies
// to disk so admins can chart backlog trends without querying the database.
type ApplicationStatsScheduler struct {
	cron               *cron.Cron
	applicationService service.ApplicationService
	schedule           string
	dir                string
}

func NewApplicationStatsScheduler(applicationService service.ApplicationService, schedule, dir string) *ApplicationStatsScheduler {
	return &ApplicationStatsScheduler{
		cron:               cron.New(),
		applicationService: applicationService,
		schedule:           schedule,
		dir:                dir,
	}
}

type statsSnapshot struct {
	TakenAt  time.Time `json:"taken_at"`
	Pending  int64     `json:"pending"`
	Approved int64     `json:"approved"`
	Rejected int64     `json:"rejected"`
}

// Start registers the snapshot job and starts the cron loop
func (s *ApplicationStatsScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.takeSnapshot(); err != nil {
			logger.Error("Failed to snapshot application stats", err, nil)
			return
		}
		logger.Info("Application stats snapshot written", map[string]interface{}{
			"dir": s.dir,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for application stats", err, nil)
		return err
	}

	s.cron.Start()
	logger.Info("Application stats scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})

	return nil
}

func (s *ApplicationStatsScheduler) takeSnapshot() error {
	counts, err := s.applicationService.GetStatusCounts()
	if err != nil {
		return err
	}

	now := time.Now()
	snapshot := statsSnapshot{
		TakenAt:  now,
		Pending:  counts.Pending,
		Approved: counts.Approved,
		Rejected: counts.Rejected,
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(s.dir, fmt.Sprintf("applications-%s.json", now.Format("20060102-150405")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}

	return nil
}

// Stop halts the cron loop
func (s *ApplicationStatsScheduler) Stop() {
	logger.Info("Stopping application stats scheduler...", nil)
	s.cron.Stop()
	logger.Info("Application stats scheduler stopped", nil)
}
