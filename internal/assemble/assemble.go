// Package assemble runs the check → evict → allocate admission sequence
// over rendered briefing sections and produces the final bounded document.
package assemble

import (
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/yourusername/briefd/internal/budget"
)

// CountFunc reports the token cost of a rendered section. Supplied by the
// caller (tokenizer.EstimateTokens in the daemon, a real model tokenizer
// elsewhere).
type CountFunc func(text string) int

// Section is one candidate block of rendered content competing for budget
// capacity. Higher priority survives eviction.
type Section struct {
	Name     string
	Priority int
	Content  string
}

// Result is the outcome of one assembly pass.
type Result struct {
	RunID    string                  `json:"run_id"`
	Document string                  `json:"document"`
	Stats    budget.Stats            `json:"stats"`
	Evicted  []string                `json:"evicted,omitempty"` // admitted earlier, pushed out by higher priority
	Skipped  []*budget.OverflowError `json:"skipped,omitempty"` // never admitted: overflow was fatal
}

// Run assembles sections into a document bounded by capacity tokens.
// Sections are admitted in the given order; when one does not fit, lower
// priority sections already admitted are evicted for it. A section that
// still does not fit after eviction is skipped and reported; anything
// evicted on its behalf stays evicted. Kept sections appear in the
// document in their original order, joined by blank lines.
func Run(sections []Section, capacity int, count CountFunc) *Result {
	b := budget.New(capacity)
	res := &Result{RunID: uuid.NewString()}

	for _, s := range sections {
		tokens := count(s.Content)
		if !b.CanAllocate(tokens) {
			dropped, err := b.HandleOverflow(s.Name, tokens, s.Priority)
			res.Evicted = append(res.Evicted, dropped...)
			if err != nil {
				log.Printf("assemble: section %q skipped: %v", s.Name, err)
				var oe *budget.OverflowError
				if errors.As(err, &oe) {
					res.Skipped = append(res.Skipped, oe)
				}
				continue
			}
		}
		b.Allocate(s.Name, tokens, s.Priority)
	}

	var kept []string
	for _, s := range sections {
		if b.HasAllocation(s.Name) {
			kept = append(kept, s.Content)
		}
	}
	res.Document = strings.Join(kept, "\n\n")
	res.Stats = b.Stats()
	return res
}
