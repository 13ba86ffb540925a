package risk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rmkarlsen/tempus/internal/calendar"
	"github.com/rmkarlsen/tempus/internal/domain"
	"github.com/rmkarlsen/tempus/internal/intelligence"
	"github.com/rmkarlsen/tempus/internal/llm"
	"github.com/rmkarlsen/tempus/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSnapshotRepo is an in-memory SnapshotRepo for assessor unit tests.
type memSnapshotRepo struct {
	snapshots []domain.RiskSnapshot
	createErr error
}

func (m *memSnapshotRepo) Create(_ context.Context, s *domain.RiskSnapshot) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.snapshots = append(m.snapshots, *s)
	return nil
}

func (m *memSnapshotRepo) LatestByTask(_ context.Context, taskID string) (*domain.RiskSnapshot, error) {
	for i := len(m.snapshots) - 1; i >= 0; i-- {
		if m.snapshots[i].TaskID == taskID {
			s := m.snapshots[i]
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memSnapshotRepo) ListByTask(_ context.Context, taskID string) ([]domain.RiskSnapshot, error) {
	var out []domain.RiskSnapshot
	for i := len(m.snapshots) - 1; i >= 0; i-- {
		if m.snapshots[i].TaskID == taskID {
			out = append(out, m.snapshots[i])
		}
	}
	return out, nil
}

// stubNarrator returns a canned narrative or error.
type stubNarrator struct {
	narrative *intelligence.Narrative
	err       error
	calls     int
}

func (s *stubNarrator) Narrate(_ context.Context, _ domain.RiskMetrics, _ string, _ intelligence.EmployeeContext) (*intelligence.Narrative, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.narrative, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Monday 2025-03-17; task window started the previous Friday at 16:00 so
// two business hours have elapsed by Monday 10:00.
var (
	windowStart = time.Date(2025, 3, 14, 16, 0, 0, 0, time.UTC)
	assessedAt  = time.Date(2025, 3, 17, 10, 0, 0, 0, time.UTC)
)

func newTestAssessor(narrator intelligence.NarrativeService, repo repository.SnapshotRepo) *Assessor {
	return NewAssessor(narrator, repo, calendar.DefaultPolicy(), "test-model", fixedClock(assessedAt))
}

func TestAssess_SuccessPersistsNarrative(t *testing.T) {
	repo := &memSnapshotRepo{}
	narrator := &stubNarrator{narrative: &intelligence.Narrative{
		RiskLevel:  domain.RiskMedium,
		Confidence: 82,
		Reasons:    []string{"Half the budget gone"},
		Actions:    []string{"Timebox the remaining work"},
	}}
	a := newTestAssessor(narrator, repo)

	got, err := a.Assess(context.Background(), AssessRequest{
		TaskID:         "task-1",
		Title:          "Billing API",
		WindowStart:    windowStart,
		AllocatedHours: 4,
		ProgressRatio:  0.5,
	})
	require.NoError(t, err)
	assert.False(t, got.Degraded)
	assert.Equal(t, StatePersisted, got.State)
	assert.Equal(t, domain.RiskMedium, got.Snapshot.RiskLevel)
	assert.Equal(t, 82, got.Snapshot.Confidence)
	assert.Equal(t, "test-model", got.Snapshot.Model)
	assert.InDelta(t, 2.0, got.Snapshot.Metrics.ElapsedHours, 0.001)
	assert.True(t, got.Snapshot.ComputedAt.Equal(assessedAt))
	require.Len(t, repo.snapshots, 1)
}

func TestAssess_ParseFailureDegradesToFallback(t *testing.T) {
	repo := &memSnapshotRepo{}
	a := newTestAssessor(&stubNarrator{err: llm.ErrInvalidOutput}, repo)

	got, err := a.Assess(context.Background(), AssessRequest{
		TaskID:         "task-1",
		WindowStart:    windowStart,
		AllocatedHours: 4,
		ProgressRatio:  0.5,
	})
	require.NoError(t, err)
	assert.True(t, got.Degraded)
	assert.Equal(t, got.Snapshot.Metrics.BaseRiskLevel, got.Snapshot.RiskLevel)
	assert.Equal(t, 50, got.Snapshot.Confidence)
	assert.Equal(t, []string{"AI response could not be parsed."}, got.Snapshot.Reasons)
	assert.Equal(t, []string{"Review progress manually."}, got.Snapshot.Actions)
	assert.Empty(t, got.Snapshot.Model)
	require.Len(t, repo.snapshots, 1)
}

func TestAssess_TransportFailureDegradesToFallback(t *testing.T) {
	repo := &memSnapshotRepo{}
	a := newTestAssessor(&stubNarrator{err: llm.ErrUnavailable}, repo)

	got, err := a.Assess(context.Background(), AssessRequest{
		TaskID:         "task-1",
		WindowStart:    windowStart,
		AllocatedHours: 4,
		ProgressRatio:  0,
	})
	require.NoError(t, err)
	assert.True(t, got.Degraded)
	require.Len(t, repo.snapshots, 1)
}

func TestAssess_MissingAPIKeyAborts(t *testing.T) {
	repo := &memSnapshotRepo{}
	a := newTestAssessor(&stubNarrator{err: llm.ErrMissingAPIKey}, repo)

	_, err := a.Assess(context.Background(), AssessRequest{
		TaskID:         "task-1",
		WindowStart:    windowStart,
		AllocatedHours: 4,
	})
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
	assert.Empty(t, repo.snapshots, "configuration errors must not produce snapshots")
}

func TestAssess_InvalidPolicyAbortsBeforeNarration(t *testing.T) {
	repo := &memSnapshotRepo{}
	narrator := &stubNarrator{narrative: &intelligence.Narrative{RiskLevel: domain.RiskLow}}
	policy := calendar.DefaultPolicy()
	policy.WorkdayStart = policy.WorkdayEnd
	a := NewAssessor(narrator, repo, policy, "test-model", fixedClock(assessedAt))

	_, err := a.Assess(context.Background(), AssessRequest{TaskID: "task-1", AllocatedHours: 4})
	assert.ErrorIs(t, err, calendar.ErrInvalidPolicy)
	assert.Zero(t, narrator.calls)
	assert.Empty(t, repo.snapshots)
}

func TestAssess_MissingTaskID(t *testing.T) {
	a := newTestAssessor(&stubNarrator{}, &memSnapshotRepo{})
	_, err := a.Assess(context.Background(), AssessRequest{AllocatedHours: 4})
	assert.Error(t, err)
}

func TestAssess_HistoryIsAppendOnly(t *testing.T) {
	repo := &memSnapshotRepo{}
	narrator := &stubNarrator{narrative: &intelligence.Narrative{RiskLevel: domain.RiskLow, Confidence: 70}}
	a := newTestAssessor(narrator, repo)
	ctx := context.Background()

	req := AssessRequest{TaskID: "task-1", WindowStart: windowStart, AllocatedHours: 4, ProgressRatio: 0.5}
	for i := 0; i < 3; i++ {
		_, err := a.Assess(ctx, req)
		require.NoError(t, err)
	}

	history, err := a.History(ctx, "task-1")
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

// TestAssess_TimeoutThroughRealClient drives the whole chain: a stalled
// provider endpoint, the HTTP client's per-task timeout, the narrative
// service, and the assessor's degradation to the fallback snapshot.
func TestAssess_TimeoutThroughRealClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := llm.DefaultConfig()
	cfg.Endpoint = srv.URL
	cfg.APIKey = "test-key"
	cfg.MaxRetries = 0
	cfg.Tasks[llm.TaskRiskNarrative] = llm.TaskConfig{Temperature: 0.3, MaxTokens: 600, TimeoutMs: 50}
	client, err := llm.NewChatClient(cfg, llm.NoopObserver{})
	require.NoError(t, err)

	repo := &memSnapshotRepo{}
	narrator := intelligence.NewNarrativeService(client, llm.NoopObserver{})
	a := NewAssessor(narrator, repo, calendar.DefaultPolicy(), "test-model", fixedClock(assessedAt))

	// 8 business hours spent on a 4-hour budget: deterministic high.
	start := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	got, err := a.Assess(context.Background(), AssessRequest{
		TaskID:         "task-1",
		Title:          "Billing API",
		WindowStart:    start,
		AllocatedHours: 4,
		ProgressRatio:  0.5,
	})
	require.NoError(t, err)
	assert.True(t, got.Degraded)
	assert.Equal(t, domain.RiskHigh, got.Snapshot.RiskLevel)
	assert.Equal(t, 50, got.Snapshot.Confidence)
	require.Len(t, repo.snapshots, 1)
}
