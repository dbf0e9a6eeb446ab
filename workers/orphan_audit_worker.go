package workers

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"sports-event-platform/services"
)

// OrphanFinder is the read-only integrity scan the audit runs.
type OrphanFinder interface {
	FindOrphans(ctx context.Context) (services.OrphanReport, error)
}

// OrphanAuditWorker periodically scans for rows left behind by an
// interrupted cascade and logs what it finds. It never repairs anything.
type OrphanAuditWorker struct {
	finder   OrphanFinder
	interval time.Duration
	sched    gocron.Scheduler
}

func NewOrphanAuditWorker(finder OrphanFinder, interval time.Duration) *OrphanAuditWorker {
	return &OrphanAuditWorker{finder: finder, interval: interval}
}

// Start schedules the audit until ctx is cancelled.
func (w *OrphanAuditWorker) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	_, err = sched.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() { w.RunOnce(ctx) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return err
	}
	w.sched = sched
	sched.Start()
	zap.L().Info("[AUDIT] orphan audit scheduled", zap.Duration("interval", w.interval))

	go func() {
		<-ctx.Done()
		if err := sched.Shutdown(); err != nil {
			zap.L().Warn("[AUDIT] scheduler shutdown", zap.Error(err))
		}
	}()
	return nil
}

// RunOnce performs a single scan and returns the report.
func (w *OrphanAuditWorker) RunOnce(ctx context.Context) services.OrphanReport {
	report, err := w.finder.FindOrphans(ctx)
	if err != nil {
		zap.L().Error("[AUDIT] orphan scan failed", zap.Error(err))
		return report
	}
	if report.Total() == 0 {
		zap.L().Debug("[AUDIT] no orphans")
		return report
	}
	zap.L().Warn("[AUDIT] orphaned rows found",
		zap.Int64("events", report.Events),
		zap.Int64("games", report.Games),
		zap.Int64("categories", report.Categories),
		zap.Int64("teams", report.Teams),
		zap.Int64("team_members", report.TeamMembers),
		zap.Int64("matches", report.Matches),
		zap.Int64("dangling_match_teams", report.DanglingMatchTeams),
	)
	return report
}
