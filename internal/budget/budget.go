// Package budget provides admission control for the briefing token budget.
// A Budget tracks a fixed token capacity shared by named, prioritized
// sections and evicts lower-priority sections when a new one does not fit.
package budget

import (
	"fmt"
	"sort"
	"strings"
)

// Allocation is one named section currently admitted into the budget.
type Allocation struct {
	Tokens   int `json:"tokens"`
	Priority int `json:"priority"`
}

// Budget tracks capacity, usage, and per-section allocations for one
// assembly pass. Create a fresh instance per pass; it is not safe for
// concurrent use and is not meant to be shared.
type Budget struct {
	capacity    int
	used        int
	allocations map[string]Allocation
	order       []string // insertion order, used as the eviction tie-break
}

// New creates a Budget with a fixed capacity.
func New(capacity int) *Budget {
	return &Budget{
		capacity:    capacity,
		allocations: make(map[string]Allocation),
	}
}

// Capacity returns the fixed capacity set at construction.
func (b *Budget) Capacity() int { return b.capacity }

// Used returns the sum of all current allocations' token costs.
func (b *Budget) Used() int { return b.used }

// Remaining returns capacity minus used.
func (b *Budget) Remaining() int { return b.capacity - b.used }

// CanAllocate reports whether tokens would fit without eviction.
// Negative token counts never fit.
func (b *Budget) CanAllocate(tokens int) bool {
	if tokens < 0 {
		return false
	}
	return b.used+tokens <= b.capacity
}

// Allocate records (or replaces) the named allocation unconditionally and
// adjusts used. It does NOT check capacity; call CanAllocate or
// HandleOverflow first. Re-allocating a name subtracts its old cost, so
// usage is never double-counted.
func (b *Budget) Allocate(name string, tokens, priority int) {
	if tokens < 0 {
		panic(fmt.Sprintf("budget.Allocate: negative token count %d for %q", tokens, name))
	}
	if old, ok := b.allocations[name]; ok {
		b.used -= old.Tokens
	} else {
		b.order = append(b.order, name)
	}
	b.allocations[name] = Allocation{Tokens: tokens, Priority: priority}
	b.used += tokens
}

// HasAllocation reports whether the named section is currently admitted.
func (b *Budget) HasAllocation(name string) bool {
	_, ok := b.allocations[name]
	return ok
}

// HandleOverflow evicts sections with strictly lower priority than the
// incoming one, lowest priority first (ties broken by insertion order),
// stopping as soon as the incoming section would fit. It returns the names
// dropped. If every eligible section is evicted and the incoming one still
// does not fit, it returns an *OverflowError; anything dropped along the
// way stays dropped. The caller decides whether to re-admit.
//
// Equal-or-higher-priority sections are never eviction candidates:
// first-admitted wins among equals.
func (b *Budget) HandleOverflow(name string, tokens, priority int) ([]string, error) {
	var candidates []string
	for _, n := range b.order {
		if alloc, ok := b.allocations[n]; ok && alloc.Priority < priority {
			candidates = append(candidates, n)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return b.allocations[candidates[i]].Priority < b.allocations[candidates[j]].Priority
	})

	dropped := []string{}
	freed := 0
	for _, n := range candidates {
		if b.CanAllocate(tokens) {
			break
		}
		alloc := b.allocations[n]
		delete(b.allocations, n)
		b.removeFromOrder(n)
		b.used -= alloc.Tokens
		freed += alloc.Tokens
		dropped = append(dropped, n)
	}

	if !b.CanAllocate(tokens) {
		return dropped, &OverflowError{
			Section:   name,
			Requested: tokens,
			Priority:  priority,
			Dropped:   dropped,
			Freed:     freed,
			Shortfall: tokens - b.Remaining(),
		}
	}
	return dropped, nil
}

func (b *Budget) removeFromOrder(name string) {
	for i, n := range b.order {
		if n == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			return
		}
	}
}

// SectionStat is the per-section breakdown in Stats.
type SectionStat struct {
	Name     string `json:"name"`
	Tokens   int    `json:"tokens"`
	Priority int    `json:"priority"`
}

// Stats is the read-only summary of a finished assembly pass.
type Stats struct {
	Used      int           `json:"used"`
	Remaining int           `json:"remaining"`
	Sections  int           `json:"sections"`
	Breakdown []SectionStat `json:"breakdown"`
}

// Stats returns the current usage summary. The breakdown follows
// admission order.
func (b *Budget) Stats() Stats {
	s := Stats{
		Used:      b.used,
		Remaining: b.Remaining(),
		Sections:  len(b.allocations),
	}
	for _, n := range b.order {
		alloc := b.allocations[n]
		s.Breakdown = append(s.Breakdown, SectionStat{Name: n, Tokens: alloc.Tokens, Priority: alloc.Priority})
	}
	return s
}

// OverflowError reports that a section could not be admitted even after
// evicting every eligible lower-priority section.
type OverflowError struct {
	Section   string   `json:"section"`
	Requested int      `json:"requested"`
	Priority  int      `json:"priority"`
	Dropped   []string `json:"dropped"`
	Freed     int      `json:"freed"`
	Shortfall int      `json:"shortfall"`
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("budget: section %q (%d tokens, priority %d) does not fit: dropped [%s], freed %d, still short %d",
		e.Section, e.Requested, e.Priority, strings.Join(e.Dropped, ", "), e.Freed, e.Shortfall)
}
