package tracker

import "time"

// Ticket is a work item as returned by the tracker API.
type Ticket struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	State       string    `json:"state"`
	Priority    int       `json:"priority"`
	AssignedTo  string    `json:"assigned_to,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Reviewer vote values as reported by the tracker.
const (
	VoteApproved                = "approved"
	VoteApprovedWithSuggestions = "approvedWithSuggestions"
	VoteWaiting                 = "waiting"
	VoteRejected                = "rejected"
)

// Reviewer is one reviewer entry on a pull request.
type Reviewer struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Vote     string `json:"vote"`
}

// PullRequest is a pull request as returned by the tracker API.
// Repository is the full path ("org/team/repo").
type PullRequest struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	Author       string     `json:"author"`
	Status       string     `json:"status"`
	Repository   string     `json:"repository"`
	Reviewers    []Reviewer `json:"reviewers,omitempty"`
	SourceBranch string     `json:"source_branch,omitempty"`
	TargetBranch string     `json:"target_branch,omitempty"`
	URL          string     `json:"url,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Project is a tracked project as returned by the tracker API.
type Project struct {
	Name           string     `json:"name"`
	Phase          string     `json:"phase,omitempty"`
	Status         string     `json:"status,omitempty"`
	Owner          string     `json:"owner,omitempty"`
	RemainingTasks []string   `json:"remaining_tasks,omitempty"`
	Blockers       []string   `json:"blockers,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
}
