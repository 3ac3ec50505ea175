// internal/app/expiry_service.go
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"poa_tracker/internal/domain/poa"

	"github.com/sirupsen/logrus"
)

// ScanReport summarizes one completed expiry scan tick.
type ScanReport struct {
	Checked  int
	Notified int
	Failed   int
}

// ExpiryScanService evaluates active power of attorney records against the
// notification threshold set and dispatches reminders for exact matches.
//
// A notification fires when the whole number of days until expiry is an exact
// member of the threshold set (e.g. {7, 3, 1}), not on every day below a
// threshold. The notification_sent flag on a record is observability only: a
// successful 7-day reminder never suppresses the later 3- and 1-day ones.
type ExpiryScanService struct {
	repo       poa.Repository
	notifier   Notifier
	thresholds poa.Thresholds
	logger     *logrus.Logger
	metrics    MetricsRecorder

	// Serializes overlapping invocations so the cron tick and a manual
	// trigger landing together cannot double-send.
	mu sync.Mutex

	// Records already notified during lastScanDay. Thresholds are single
	// calendar days, so one successful send per record per day is enough;
	// a manual trigger right after the cron tick stays a no-op. In-process
	// only: a restart may repeat a send, which keeps delivery best-effort.
	lastScanDay time.Time
	sentToday   map[int64]bool

	// Injectable clock for deterministic tests.
	now func() time.Time
}

func NewExpiryScanService(
	repo poa.Repository,
	notifier Notifier,
	thresholds poa.Thresholds,
	logger *logrus.Logger,
	metrics MetricsRecorder,
) *ExpiryScanService {
	return &ExpiryScanService{
		repo:       repo,
		notifier:   notifier,
		thresholds: thresholds,
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
	}
}

// RunScanOnce performs a single expiry scan tick. The scheduled daily job and
// the manual trigger endpoint both call this exact routine.
//
// Each record is its own unit of work: a failed send or a failed flag update
// is logged and the scan moves on, so one unreachable chat cannot starve the
// rest of the batch. Within one tick a record is evaluated at most once, and
// a failed send is not retried until the next tick.
func (s *ExpiryScanService) RunScanOnce(ctx context.Context) (ScanReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var report ScanReport

	today := poa.Midnight(s.now())
	if !today.Equal(s.lastScanDay) {
		s.lastScanDay = today
		s.sentToday = make(map[int64]bool)
	}

	records, err := s.repo.ListActive(ctx, today)
	if err != nil {
		s.logger.Errorf("Expiry scan aborted, could not list active records: %v", err)
		return report, fmt.Errorf("failed to list active records: %w", err)
	}

	if len(records) == 0 {
		s.logger.Debug("Expiry scan found no active records.")
		s.metrics.RecordScanTick()
		return report, nil
	}

	for _, rec := range records {
		report.Checked++

		daysLeft := rec.DaysRemaining(today)
		if !s.thresholds.Match(daysLeft) {
			continue
		}
		if s.sentToday[rec.ID] {
			continue
		}

		target := ""
		if rec.NotifyTarget.Valid {
			target = rec.NotifyTarget.String
		}

		message := FormatExpiryMessage(rec, daysLeft)
		if !s.notifier.Send(target, message) {
			s.logger.Warnf("Notification for record %d (%s, %d days left) failed. Will not retry this tick.",
				rec.ID, rec.FullName, daysLeft)
			report.Failed++
			continue
		}

		// The flag flips only after a confirmed delivery. A crash between
		// send and mark leaves the flag behind, which is acceptable: the
		// flag is informational and never drives the threshold policy.
		s.sentToday[rec.ID] = true
		if err := s.repo.MarkNotified(ctx, rec.ID); err != nil {
			s.logger.Errorf("Failed to mark record %d as notified: %v", rec.ID, err)
		}
		report.Notified++

		s.logger.Infof("Expiry notification sent for record %d (%s), %d day(s) remaining.",
			rec.ID, rec.FullName, daysLeft)
	}

	s.metrics.RecordScanTick()
	s.logger.Infof("Expiry scan complete. Checked: %d, notified: %d, failed: %d.",
		report.Checked, report.Notified, report.Failed)
	return report, nil
}

// FormatExpiryMessage builds the reminder text for a record.
func FormatExpiryMessage(rec *poa.Record, daysLeft int) string {
	return fmt.Sprintf(
		"⚠️ Истекает срок доверенности!\nФИО: %s\nТип: %s\nДата окончания: %s\nОсталось дней: %d",
		rec.FullName,
		rec.POAType,
		rec.EndDate.Format("02.01.2006"),
		daysLeft,
	)
}
