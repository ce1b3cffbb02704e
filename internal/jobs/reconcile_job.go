package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"equipment-rental/internal/ledger"
)

type auditor interface {
	Audit(ctx context.Context) ([]ledger.Drift, error)
}

// ReconcileJob audits every counter against its status log and reports drift.
// It never writes: repairs go through `ledgerctl reconcile --fix`.
type ReconcileJob struct {
	auditor auditor
	timeout time.Duration
	logger  *zap.Logger
}

func NewReconcileJob(auditor auditor, timeout time.Duration, logger *zap.Logger) *ReconcileJob {
	return &ReconcileJob{auditor: auditor, timeout: timeout, logger: logger}
}

// Run implements cron.Job.
func (j *ReconcileJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if _, err := j.RunOnce(ctx); err != nil {
		j.logger.Error("reconcile audit failed", zap.Error(err))
	}
}

// RunOnce performs a single audit. The service logs each drifting item; the
// job reports the run as a whole.
func (j *ReconcileJob) RunOnce(ctx context.Context) ([]ledger.Drift, error) {
	started := time.Now()
	drifts, err := j.auditor.Audit(ctx)
	if err != nil {
		return nil, err
	}

	if len(drifts) == 0 {
		j.logger.Info("reconcile audit clean", zap.Duration("took", time.Since(started)))
		return drifts, nil
	}
	references := make([]string, 0, len(drifts))
	for _, d := range drifts {
		references = append(references, d.Reference)
	}
	j.logger.Warn("reconcile audit found drift, run `ledgerctl reconcile --fix`",
		zap.Int("drifts", len(drifts)),
		zap.Strings("references", references),
		zap.Duration("took", time.Since(started)),
	)
	return drifts, nil
}

// NewScheduler registers the job on the given cron spec. Overlapping runs are
// skipped. The caller starts and stops the returned scheduler.
func NewScheduler(spec string, job cron.Job, logger *zap.Logger) (*cron.Cron, error) {
	cronLogger := zapCronLogger{logger: logger.Named("cron")}
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	if _, err := c.AddJob(spec, job); err != nil {
		return nil, err
	}
	return c, nil
}

type zapCronLogger struct {
	logger *zap.Logger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
