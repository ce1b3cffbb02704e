package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"equipment-rental/internal/ledger"
)

type stubAuditor struct {
	drifts []ledger.Drift
	err    error
	calls  int
}

func (s *stubAuditor) Audit(context.Context) ([]ledger.Drift, error) {
	s.calls++
	return s.drifts, s.err
}

func TestReconcileJob_LogsEachDrift(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	auditor := &stubAuditor{drifts: []ledger.Drift{
		{EquipmentID: uuid.New(), Reference: "EQ-SON-001", Stored: 7, Replayed: 5, Problems: []string{"status log sums to 5, counter is 7"}},
		{EquipmentID: uuid.New(), Reference: "EQ-LUMI-002", Stored: -1, Replayed: -1, Problems: []string{"available -1 outside [0, 4]"}},
	}}
	job := NewReconcileJob(auditor, time.Second, zap.New(core))

	drifts, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Len(t, drifts, 2)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Equal(t, int64(2), warnings[0].ContextMap()["drifts"])
	assert.Equal(t, []interface{}{"EQ-SON-001", "EQ-LUMI-002"}, warnings[0].ContextMap()["references"])
}

func TestReconcileJob_CleanAudit(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	job := NewReconcileJob(&stubAuditor{}, time.Second, zap.New(core))

	drifts, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, drifts)
	assert.Equal(t, 1, logs.FilterMessage("reconcile audit clean").Len())
}

func TestReconcileJob_RunLogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	auditor := &stubAuditor{err: errors.New("connection refused")}
	job := NewReconcileJob(auditor, time.Second, zap.New(core))

	job.Run()

	assert.Equal(t, 1, auditor.calls)
	assert.Equal(t, 1, logs.FilterMessage("reconcile audit failed").Len())
}

func TestNewScheduler(t *testing.T) {
	job := NewReconcileJob(&stubAuditor{}, time.Second, zap.NewNop())

	c, err := NewScheduler("@every 1h", job, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	_, err = NewScheduler("not a schedule", job, zap.NewNop())
	assert.Error(t, err)
}
