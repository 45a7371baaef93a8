package briefing

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/briefd/internal/config"
	"github.com/yourusername/briefd/internal/db"
	"github.com/yourusername/briefd/internal/tracker"
)

type stubFetcher struct {
	tickets  []tracker.Ticket
	prs      []tracker.PullRequest
	projects []tracker.Project
}

func (s *stubFetcher) FetchTickets(ctx context.Context) ([]tracker.Ticket, error) {
	return s.tickets, nil
}

func (s *stubFetcher) FetchPullRequests(ctx context.Context) ([]tracker.PullRequest, error) {
	return s.prs, nil
}

func (s *stubFetcher) FetchProjects(ctx context.Context) ([]tracker.Project, error) {
	return s.projects, nil
}

type recordingSink struct {
	started    []string
	completed  []string
	evicted    []string
	overflowed []string
	failed     []string
}

func (r *recordingSink) RunStarted(runID string)                    { r.started = append(r.started, runID) }
func (r *recordingSink) RunCompleted(runID string, evicted []string) { r.completed = append(r.completed, runID) }
func (r *recordingSink) SectionEvicted(runID, section string)       { r.evicted = append(r.evicted, section) }
func (r *recordingSink) Overflow(runID, section string, shortfall int) {
	r.overflowed = append(r.overflowed, section)
}
func (r *recordingSink) RunFailed(reason string) { r.failed = append(r.failed, reason) }

func testService(t *testing.T, fetcher Fetcher, capacity int, sink EventSink) *Service {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.Migrate())

	cfg := &config.Config{BriefingCapacity: capacity, HistoryKeep: 5}
	profile := config.DefaultProfile()
	return NewService(database, fetcher, cfg, profile, Options{
		Events: sink,
		Now:    func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) },
	})
}

func TestRun_GeneratesAndStoresBriefing(t *testing.T) {
	fetcher := &stubFetcher{
		tickets: []tracker.Ticket{
			{ID: 101, Title: "Fix login flow", State: "Active", Priority: 1},
			{ID: 102, Title: "Update docs", State: "New", Priority: 3},
		},
		prs: []tracker.PullRequest{
			{ID: 42, Title: "Add retry logic", Author: "dana", Status: "active", Repository: "org/project/svc"},
		},
		projects: []tracker.Project{
			{Name: "Migration", Phase: "rollout", Status: "on-track"},
		},
	}
	svc := testService(t, fetcher, 2000, nil)

	b, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "morning", b.DayPart)
	assert.Contains(t, b.Document, `<ticket id="101"`)
	assert.Contains(t, b.Document, `<pr id="42"`)
	assert.Contains(t, b.Document, `<project name="Migration"`)
	assert.Equal(t, 3, b.SectionsKept)
	assert.Empty(t, b.Evicted)
	assert.Greater(t, b.TokensUsed, 0)

	stored, err := svc.database.GetBriefing(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Document, stored.Document)
}

func TestRun_TightBudgetEvictsLowerPriority(t *testing.T) {
	var tickets []tracker.Ticket
	for i := 0; i < 20; i++ {
		tickets = append(tickets, tracker.Ticket{
			ID:    100 + i,
			Title: strings.Repeat("long ticket title ", 5),
			State: "Active",
		})
	}
	fetcher := &stubFetcher{
		tickets: tickets,
		prs:     []tracker.PullRequest{{ID: 1, Title: "Tiny", Author: "a", Status: "active", Repository: "r"}},
	}
	sink := &recordingSink{}
	svc := testService(t, fetcher, 120, sink)

	b, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Less(t, b.SectionsKept, 3)
	assert.Len(t, sink.started, 1)
	assert.Len(t, sink.completed, 1)
}

func TestRun_EmptySourcesStillProducesBriefing(t *testing.T) {
	svc := testService(t, &stubFetcher{}, 2000, nil)

	b, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, b.Document, `<tickets count="0" />`)
	assert.Contains(t, b.Document, `<pull_requests count="0" />`)
	assert.Contains(t, b.Document, `<projects count="0" />`)
}
