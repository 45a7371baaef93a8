package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/briefd/internal/tracker"
)

func TestClassify(t *testing.T) {
	day := func(h int) time.Time { return time.Date(2026, 8, 31, h, 0, 0, 0, time.UTC) }

	assert.Equal(t, Morning, Classify(day(8)))
	assert.Equal(t, Midday, Classify(day(12)))
	assert.Equal(t, Afternoon, Classify(day(15)))
	assert.Equal(t, Evening, Classify(day(21)))
	assert.Equal(t, Evening, Classify(day(3)))
}

func TestSectionPriorities(t *testing.T) {
	morning := SectionPriorities(Morning)
	assert.Greater(t, morning["tickets"], morning["pull_requests"])

	afternoon := SectionPriorities(Afternoon)
	assert.Greater(t, afternoon["pull_requests"], afternoon["tickets"])

	// Projects are always the first eviction candidates.
	assert.Equal(t, 1, morning["projects"])
	assert.Equal(t, 1, afternoon["projects"])
}

func TestRankTickets_ByPriorityAndState(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	old := now.Add(-72 * time.Hour)
	tickets := []tracker.Ticket{
		{ID: 1, Title: "low", Priority: 4, State: "New", UpdatedAt: old},
		{ID: 2, Title: "urgent", Priority: 1, State: "Active", UpdatedAt: now},
		{ID: 3, Title: "mid", Priority: 2, State: "New", UpdatedAt: old},
	}

	ranked := RankTickets(tickets, nil, now)
	assert.Equal(t, 2, ranked[0].ID)
	assert.Equal(t, 3, ranked[1].ID)
	assert.Equal(t, 1, ranked[2].ID)
}

func TestRankTickets_PinWins(t *testing.T) {
	now := time.Now()
	tickets := []tracker.Ticket{
		{ID: 1, Priority: 1, State: "Active", UpdatedAt: now},
		{ID: 2, Priority: 4, State: "New", UpdatedAt: now.Add(-48 * time.Hour)},
	}
	boosts := []Boost{{Kind: "ticket", ID: "2", Pinned: true}}

	ranked := RankTickets(tickets, boosts, now)
	assert.Equal(t, 2, ranked[0].ID, "a pinned ticket outranks any heuristic score")
}

func TestRankTickets_DoesNotMutateInput(t *testing.T) {
	now := time.Now()
	tickets := []tracker.Ticket{
		{ID: 1, Priority: 4},
		{ID: 2, Priority: 1},
	}
	_ = RankTickets(tickets, nil, now)
	assert.Equal(t, 1, tickets[0].ID)
}

func TestRankPullRequests_LeastApprovedFirst(t *testing.T) {
	prs := []tracker.PullRequest{
		{ID: 1, Reviewers: []tracker.Reviewer{
			{Required: true, Vote: tracker.VoteApproved},
			{Required: true, Vote: tracker.VoteApproved},
		}},
		{ID: 2, Reviewers: []tracker.Reviewer{
			{Required: true, Vote: tracker.VoteWaiting},
			{Required: true, Vote: tracker.VoteWaiting},
		}},
	}

	ranked := RankPullRequests(prs, nil)
	assert.Equal(t, 2, ranked[0].ID)
}

func TestRankProjects_BlockedFirst(t *testing.T) {
	projects := []tracker.Project{
		{Name: "smooth"},
		{Name: "stuck", Blockers: []string{"infra", "legal"}},
	}
	ranked := RankProjects(projects)
	assert.Equal(t, "stuck", ranked[0].Name)
}
