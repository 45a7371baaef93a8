// Package score ranks tracker records and classifies the time of day.
// The briefing service uses it to decide section priorities and item order
// before compression; the allocator itself only ever sees the resulting
// priority integers.
package score

import (
	"sort"
	"strconv"
	"time"

	"github.com/yourusername/briefd/internal/tracker"
)

// DayPart is a coarse time-of-day bucket driving briefing composition.
type DayPart int

const (
	Morning DayPart = iota
	Midday
	Afternoon
	Evening
)

// String returns a human-readable label for the day part.
func (d DayPart) String() string {
	switch d {
	case Morning:
		return "morning"
	case Midday:
		return "midday"
	case Afternoon:
		return "afternoon"
	default:
		return "evening"
	}
}

// Classify buckets a wall-clock time into a DayPart.
func Classify(t time.Time) DayPart {
	switch h := t.Hour(); {
	case h >= 5 && h < 11:
		return Morning
	case h >= 11 && h < 14:
		return Midday
	case h >= 14 && h < 18:
		return Afternoon
	default:
		return Evening
	}
}

// SectionPriorities returns the per-section eviction priority for a day
// part. Higher survives. Mornings lead with tickets, afternoons with pull
// requests (reviews unblock others before end of day); projects are the
// first to go when the budget is tight.
func SectionPriorities(part DayPart) map[string]int {
	switch part {
	case Afternoon, Evening:
		return map[string]int{"pull_requests": 3, "tickets": 2, "projects": 1}
	default:
		return map[string]int{"tickets": 3, "pull_requests": 2, "projects": 1}
	}
}

const pinScore = 1000

// Boost is a persisted per-item adjustment (pin or score delta) applied
// during ranking. Kind is "ticket" or "pr"; ID is the item's tracker ID.
type Boost struct {
	Kind   string
	ID     string
	Delta  int
	Pinned bool
}

type boostKey struct{ kind, id string }

func indexBoosts(boosts []Boost) map[boostKey]Boost {
	m := make(map[boostKey]Boost, len(boosts))
	for _, b := range boosts {
		m[boostKey{b.Kind, b.ID}] = b
	}
	return m
}

// TicketScore computes the heuristic score of a ticket. Lower priority
// tiers score higher; active and recently-updated work floats up.
func TicketScore(t tracker.Ticket, now time.Time) int {
	s := (5 - t.Priority) * 10
	if t.State == "Active" || t.State == "In Progress" {
		s += 15
	}
	if now.Sub(t.UpdatedAt) < 24*time.Hour {
		s += 10
	}
	return s
}

// RankTickets orders tickets by descending score, pinned items first.
// The sort is stable so equal scores keep tracker order.
func RankTickets(tickets []tracker.Ticket, boosts []Boost, now time.Time) []tracker.Ticket {
	idx := indexBoosts(boosts)
	out := make([]tracker.Ticket, len(tickets))
	copy(out, tickets)

	scoreOf := func(t tracker.Ticket) int {
		s := TicketScore(t, now)
		if b, ok := idx[boostKey{"ticket", strconv.Itoa(t.ID)}]; ok {
			s += b.Delta
			if b.Pinned {
				s += pinScore
			}
		}
		return s
	}
	sort.SliceStable(out, func(i, j int) bool { return scoreOf(out[i]) > scoreOf(out[j]) })
	return out
}

// RankPullRequests orders pull requests with the least-approved first,
// pinned items on top.
func RankPullRequests(prs []tracker.PullRequest, boosts []Boost) []tracker.PullRequest {
	idx := indexBoosts(boosts)
	out := make([]tracker.PullRequest, len(prs))
	copy(out, prs)

	scoreOf := func(pr tracker.PullRequest) int {
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
		s := (required - approved) * 10
		if b, ok := idx[boostKey{"pr", strconv.Itoa(pr.ID)}]; ok {
			s += b.Delta
			if b.Pinned {
				s += pinScore
			}
		}
		return s
	}
	sort.SliceStable(out, func(i, j int) bool { return scoreOf(out[i]) > scoreOf(out[j]) })
	return out
}

// RankProjects floats blocked projects to the top; otherwise tracker order.
func RankProjects(projects []tracker.Project) []tracker.Project {
	out := make([]tracker.Project, len(projects))
	copy(out, projects)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Blockers) > len(out[j].Blockers)
	})
	return out
}
