package scheduler

import (
	"context"
	"time"

	"poa_tracker/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ScanRunner is the single operation the scheduler drives.
type ScanRunner interface {
	RunScanOnce(ctx context.Context) (app.ScanReport, error)
}

// ExpiryScheduler owns the recurring expiry check. Constructed once during
// startup and passed explicitly; there is no ambient global job registry.
type ExpiryScheduler struct {
	cronEngine  *cron.Cron
	scanService ScanRunner
	logger      *logrus.Logger
	cronSpec    string
}

func NewExpiryScheduler(scanService ScanRunner, cronSpec string, logger *logrus.Logger) *ExpiryScheduler {
	return &ExpiryScheduler{
		cronEngine:  cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		scanService: scanService,
		logger:      logger,
		cronSpec:    cronSpec,
	}
}

func (s *ExpiryScheduler) Start() {
	s.logger.Info("Starting expiry check scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for daily expiry check.")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		report, err := s.scanService.RunScanOnce(ctx)
		if err != nil {
			s.logger.Errorf("Scheduled expiry check failed: %v", err)
			return
		}
		s.logger.Infof("Scheduled expiry check done. Checked: %d, notified: %d, failed: %d.",
			report.Checked, report.Notified, report.Failed)
	})
	if err != nil {
		s.logger.Fatalf("FATAL: Could not add daily expiry check cron job: %v", err)
	}

	s.cronEngine.Start()
	s.logger.Infof("Expiry check scheduler started with spec %q.", s.cronSpec)
}

func (s *ExpiryScheduler) Stop() {
	s.logger.Info("Stopping expiry check scheduler...")
	ctx := s.cronEngine.Stop() // Waits for a running job to finish.
	<-ctx.Done()
	s.logger.Info("Expiry check scheduler gracefully stopped.")
}
