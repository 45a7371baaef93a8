package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/briefd/internal/compress"
)

func TestTickets_Empty(t *testing.T) {
	assert.Equal(t, `<tickets count="0" />`, Tickets(nil, 0))
	assert.Equal(t, `<tickets count="0" />`, Tickets([]compress.Ticket{}, 5))
}

func TestTickets_RendersFields(t *testing.T) {
	out := Tickets([]compress.Ticket{
		{ID: 101, Title: "Fix login", State: "Active", Priority: 1, Assignee: "dana", Tags: []string{"auth", "backend"}},
	}, 0)

	assert.Contains(t, out, `<tickets count="1">`)
	assert.Contains(t, out, `<ticket id="101" priority="P1">`)
	assert.Contains(t, out, "<title>Fix login</title>")
	assert.Contains(t, out, "<state>Active</state>")
	assert.Contains(t, out, "<assigned>dana</assigned>")
	assert.Contains(t, out, "<tags>auth, backend</tags>")
	assert.NotContains(t, out, "total=", "total only appears when maxItems truncates")
}

func TestTickets_OmitsAbsentFields(t *testing.T) {
	out := Tickets([]compress.Ticket{{ID: 5, Title: "Bare", State: "New", Priority: 2}}, 0)
	assert.NotContains(t, out, "<assigned>")
	assert.NotContains(t, out, "<tags>")
}

func TestTickets_MaxItems(t *testing.T) {
	items := []compress.Ticket{
		{ID: 1, Title: "one", State: "New", Priority: 1},
		{ID: 2, Title: "two", State: "New", Priority: 2},
		{ID: 3, Title: "three", State: "New", Priority: 3},
	}
	out := Tickets(items, 2)

	assert.Contains(t, out, `count="2"`)
	assert.Contains(t, out, `total="3"`)
	assert.NotContains(t, out, `id="3"`, "the capped-off item must not appear anywhere")
}

func TestTickets_LongTitleTruncated(t *testing.T) {
	title := strings.Repeat("word ", 30) // 150 chars, spaces throughout
	out := Tickets([]compress.Ticket{{ID: 1, Title: title, State: "New", Priority: 1}}, 0)

	assert.Contains(t, out, "...")
	assert.NotContains(t, out, title)

	start := strings.Index(out, "<title>") + len("<title>")
	end := strings.Index(out, "</title>")
	rendered := out[start:end]
	kept := strings.TrimSuffix(rendered, "...")
	assert.LessOrEqual(t, len(kept), 100)
}

func TestTickets_EscapesMarkup(t *testing.T) {
	out := Tickets([]compress.Ticket{
		{ID: 1, Title: `Fix <script> & "quotes"`, State: "R'n'D", Priority: 1},
	}, 0)

	assert.Contains(t, out, "Fix &lt;script&gt; &amp; &quot;quotes&quot;")
	assert.Contains(t, out, "R&apos;n&apos;D")
}

func TestPullRequests_RendersFields(t *testing.T) {
	out := PullRequests([]compress.PullRequest{
		{ID: 42, Title: "Add retries", Author: "sam", Status: "active", Repo: "billing", Reviews: "1/2 approved"},
	}, 0)

	assert.Contains(t, out, `<pull_requests count="1">`)
	assert.Contains(t, out, `<pr id="42">`)
	assert.Contains(t, out, "<reviews>1/2 approved</reviews>")
	assert.Contains(t, out, "<repo>billing</repo>")
}

func TestPullRequests_Empty(t *testing.T) {
	assert.Equal(t, `<pull_requests count="0" />`, PullRequests(nil, 3))
}

func TestProjects_RendersTasksAndBlockers(t *testing.T) {
	out := Projects([]compress.Project{
		{
			Name:      "Migration & Cleanup",
			Phase:     "rollout",
			NextTasks: []string{"ship schema", "backfill"},
			Blockers:  []string{"infra approval"},
		},
	}, 0)

	assert.Contains(t, out, `<project name="Migration &amp; Cleanup">`)
	assert.Contains(t, out, "<phase>rollout</phase>")
	assert.Contains(t, out, "<next>ship schema</next>")
	assert.Contains(t, out, "<next>backfill</next>")
	assert.Contains(t, out, "<blocker>infra approval</blocker>")
	assert.NotContains(t, out, "<status>")
}

func TestProjects_Empty(t *testing.T) {
	assert.Equal(t, `<projects count="0" />`, Projects(nil, 0))
}
