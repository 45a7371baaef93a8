package compress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/briefd/internal/tracker"
)

func TestCompressTicket(t *testing.T) {
	src := tracker.Ticket{
		ID:          101,
		Title:       "Fix login redirect",
		State:       "Active",
		Priority:    1,
		AssignedTo:  "dana",
		Tags:        []string{"auth", "frontend"},
		Description: "long description that must not survive compression",
		CreatedAt:   time.Now(),
	}

	got := CompressTicket(src)
	assert.Equal(t, 101, got.ID)
	assert.Equal(t, "Fix login redirect", got.Title)
	assert.Equal(t, "Active", got.State)
	assert.Equal(t, 1, got.Priority)
	assert.Equal(t, "dana", got.Assignee)
	assert.Equal(t, []string{"auth", "frontend"}, got.Tags)
}

func TestCompressTicket_OmitsEmptyOptionals(t *testing.T) {
	got := CompressTicket(tracker.Ticket{ID: 7, Title: "Untriaged", State: "New", Priority: 3})
	assert.Empty(t, got.Assignee)
	assert.Nil(t, got.Tags, "empty tag list must be omitted, not an empty marker")
}

func TestCompressPullRequest_ReviewSummary(t *testing.T) {
	pr := tracker.PullRequest{
		ID:         42,
		Title:      "Add retry to webhook dispatcher",
		Author:     "sam",
		Status:     "active",
		Repository: "acme/platform/billing-service",
		Reviewers: []tracker.Reviewer{
			{Name: "a", Required: true, Vote: tracker.VoteApproved},
			{Name: "b", Required: true, Vote: tracker.VoteApprovedWithSuggestions},
			{Name: "c", Required: true, Vote: tracker.VoteWaiting},
			{Name: "d", Required: false, Vote: tracker.VoteApproved}, // optional, not counted
		},
	}

	got := CompressPullRequest(pr)
	assert.Equal(t, "billing-service", got.Repo)
	assert.Equal(t, "2/3 approved", got.Reviews)
	assert.Equal(t, "sam", got.Author)
}

func TestCompressPullRequest_NoReviewers(t *testing.T) {
	got := CompressPullRequest(tracker.PullRequest{ID: 1, Repository: "solo-repo"})
	assert.Equal(t, "0/0 approved", got.Reviews)
	assert.Equal(t, "solo-repo", got.Repo)
}

func TestCompressProject_CapsTasksKeepsBlockers(t *testing.T) {
	p := tracker.Project{
		Name:           "Migration",
		Phase:          "rollout",
		Status:         "on-track",
		RemainingTasks: []string{"t1", "t2", "t3", "t4", "t5"},
		Blockers:       []string{"waiting on infra", "pending approval", "flaky CI", "licence review"},
	}

	got := CompressProject(p)
	assert.Equal(t, []string{"t1", "t2", "t3"}, got.NextTasks)
	assert.Len(t, got.Blockers, 4, "blockers are never truncated")
}

func TestCompressProject_OptionalFields(t *testing.T) {
	got := CompressProject(tracker.Project{Name: "Bare"})
	assert.Equal(t, "Bare", got.Name)
	assert.Empty(t, got.Phase)
	assert.Nil(t, got.NextTasks)
	assert.Nil(t, got.Blockers)
}
