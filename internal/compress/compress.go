// Package compress reduces full tracker records to minimal, token-frugal
// shapes before rendering. Compression is pure and lossy: dates, full
// repository paths, full reviewer lists, and descriptions are dropped.
package compress

import (
	"fmt"
	"strings"

	"github.com/yourusername/briefd/internal/tracker"
)

// maxProjectTasks caps how many remaining tasks a compressed project keeps.
const maxProjectTasks = 3

// Ticket is the compact projection of a tracker.Ticket.
type Ticket struct {
	ID       int
	Title    string
	State    string
	Priority int
	Assignee string   // empty when unassigned
	Tags     []string // nil when the source has no tags
}

// PullRequest is the compact projection of a tracker.PullRequest.
type PullRequest struct {
	ID      int
	Title   string
	Author  string
	Status  string
	Repo    string // bare name, not the full path
	Reviews string // "approved/required approved", required reviewers only
}

// Project is the compact projection of a tracker.Project.
type Project struct {
	Name      string
	Phase     string
	Status    string
	NextTasks []string // first 3 remaining tasks in source order
	Blockers  []string // carried verbatim, never truncated
}

// CompressTicket maps one ticket to its compact shape.
func CompressTicket(t tracker.Ticket) Ticket {
	c := Ticket{
		ID:       t.ID,
		Title:    t.Title,
		State:    t.State,
		Priority: t.Priority,
		Assignee: t.AssignedTo,
	}
	if len(t.Tags) > 0 {
		c.Tags = t.Tags
	}
	return c
}

// CompressTickets maps a slice of tickets.
func CompressTickets(tickets []tracker.Ticket) []Ticket {
	out := make([]Ticket, len(tickets))
	for i, t := range tickets {
		out[i] = CompressTicket(t)
	}
	return out
}

// CompressPullRequest maps one pull request to its compact shape.
// The reviewer summary counts only required reviewers; a vote of
// "approved with suggestions" counts as approved.
func CompressPullRequest(pr tracker.PullRequest) PullRequest {
	required, approved := 0, 0
	for _, r := range pr.Reviewers {
		if !r.Required {
			continue
		}
		required++
		if r.Vote == tracker.VoteApproved || r.Vote == tracker.VoteApprovedWithSuggestions {
			approved++
		}
	}
	return PullRequest{
		ID:      pr.ID,
		Title:   pr.Title,
		Author:  pr.Author,
		Status:  pr.Status,
		Repo:    repoName(pr.Repository),
		Reviews: fmt.Sprintf("%d/%d approved", approved, required),
	}
}

// CompressPullRequests maps a slice of pull requests.
func CompressPullRequests(prs []tracker.PullRequest) []PullRequest {
	out := make([]PullRequest, len(prs))
	for i, pr := range prs {
		out[i] = CompressPullRequest(pr)
	}
	return out
}

// CompressProject maps one project to its compact shape.
func CompressProject(p tracker.Project) Project {
	c := Project{
		Name:   p.Name,
		Phase:  p.Phase,
		Status: p.Status,
	}
	if len(p.RemainingTasks) > 0 {
		tasks := p.RemainingTasks
		if len(tasks) > maxProjectTasks {
			tasks = tasks[:maxProjectTasks]
		}
		c.NextTasks = tasks
	}
	if len(p.Blockers) > 0 {
		c.Blockers = p.Blockers
	}
	return c
}

// CompressProjects maps a slice of projects.
func CompressProjects(projects []tracker.Project) []Project {
	out := make([]Project, len(projects))
	for i, p := range projects {
		out[i] = CompressProject(p)
	}
	return out
}

// repoName reduces "org/team/repo" to "repo".
func repoName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
