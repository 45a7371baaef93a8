package render

import (
	"fmt"
	"strings"

	"github.com/yourusername/briefd/internal/compress"
)

// No indentation inside blocks: every character of the rendered section is
// charged against the token budget.

// Tickets renders a ticket section. maxItems ≤ 0 means no cap.
func Tickets(items []compress.Ticket, maxItems int) string {
	kept, total := capItems(len(items), maxItems)
	if kept == 0 {
		return emptyMarker("tickets")
	}

	var sb strings.Builder
	openWrapper(&sb, "tickets", kept, total)
	for _, t := range items[:kept] {
		fmt.Fprintf(&sb, "<ticket id=\"%d\" priority=\"P%d\">\n", t.ID, t.Priority)
		element(&sb, "title", Truncate(t.Title, maxTitleLen))
		element(&sb, "state", t.State)
		element(&sb, "assigned", t.Assignee)
		element(&sb, "tags", strings.Join(t.Tags, ", "))
		sb.WriteString("</ticket>\n")
	}
	sb.WriteString("</tickets>")
	return sb.String()
}

// PullRequests renders a pull-request section. maxItems ≤ 0 means no cap.
func PullRequests(items []compress.PullRequest, maxItems int) string {
	kept, total := capItems(len(items), maxItems)
	if kept == 0 {
		return emptyMarker("pull_requests")
	}

	var sb strings.Builder
	openWrapper(&sb, "pull_requests", kept, total)
	for _, pr := range items[:kept] {
		fmt.Fprintf(&sb, "<pr id=\"%d\">\n", pr.ID)
		element(&sb, "title", Truncate(pr.Title, maxTitleLen))
		element(&sb, "author", pr.Author)
		element(&sb, "status", pr.Status)
		element(&sb, "repo", pr.Repo)
		element(&sb, "reviews", pr.Reviews)
		sb.WriteString("</pr>\n")
	}
	sb.WriteString("</pull_requests>")
	return sb.String()
}

// Projects renders a project section. maxItems ≤ 0 means no cap.
func Projects(items []compress.Project, maxItems int) string {
	kept, total := capItems(len(items), maxItems)
	if kept == 0 {
		return emptyMarker("projects")
	}

	var sb strings.Builder
	openWrapper(&sb, "projects", kept, total)
	for _, p := range items[:kept] {
		fmt.Fprintf(&sb, "<project name=\"%s\">\n", Escape(p.Name))
		element(&sb, "phase", p.Phase)
		element(&sb, "status", p.Status)
		for _, task := range p.NextTasks {
			element(&sb, "next", task)
		}
		for _, blocker := range p.Blockers {
			element(&sb, "blocker", blocker)
		}
		sb.WriteString("</project>\n")
	}
	sb.WriteString("</projects>")
	return sb.String()
}

// capItems applies maxItems and reports (kept, original total).
func capItems(n, maxItems int) (int, int) {
	if maxItems > 0 && n > maxItems {
		return maxItems, n
	}
	return n, n
}

// openWrapper writes the wrapper open tag. total is carried only when
// maxItems actually truncated the sequence.
func openWrapper(sb *strings.Builder, tag string, kept, total int) {
	if total > kept {
		fmt.Fprintf(sb, "<%s count=\"%d\" total=\"%d\">\n", tag, kept, total)
	} else {
		fmt.Fprintf(sb, "<%s count=\"%d\">\n", tag, kept)
	}
}

// element writes one sub-element, omitting it entirely when the value is
// empty, never an empty tag.
func element(sb *strings.Builder, tag, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "<%s>%s</%s>\n", tag, Escape(value), tag)
}

func emptyMarker(tag string) string {
	return fmt.Sprintf("<%s count=\"0\" />", tag)
}
