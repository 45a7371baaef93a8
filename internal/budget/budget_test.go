package budget

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudget_AllocateAndQuery(t *testing.T) {
	b := New(100)
	assert.Equal(t, 100, b.Remaining())
	assert.Equal(t, 0, b.Used())
	assert.True(t, b.CanAllocate(100))
	assert.False(t, b.CanAllocate(101))

	b.Allocate("tickets", 60, 3)
	assert.Equal(t, 60, b.Used())
	assert.Equal(t, 40, b.Remaining())
	assert.True(t, b.HasAllocation("tickets"))
	assert.False(t, b.HasAllocation("projects"))
}

func TestBudget_ReallocateDoesNotDoubleCount(t *testing.T) {
	b := New(100)
	b.Allocate("tickets", 60, 3)
	b.Allocate("tickets", 30, 3)
	assert.Equal(t, 30, b.Used())
	assert.Equal(t, 70, b.Remaining())
}

func TestBudget_NegativeTokens(t *testing.T) {
	b := New(100)
	assert.False(t, b.CanAllocate(-1))
	assert.Panics(t, func() { b.Allocate("bad", -5, 1) })
	assert.Equal(t, 0, b.Used())
}

// capacity 100; A(60, pri 1); B(70, pri 2) evicts A and fits.
func TestHandleOverflow_EvictsLowerPriority(t *testing.T) {
	b := New(100)
	b.Allocate("A", 60, 1)
	assert.False(t, b.CanAllocate(70))

	dropped, err := b.HandleOverflow("B", 70, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, dropped)
	assert.False(t, b.HasAllocation("A"))
	assert.True(t, b.CanAllocate(70))

	b.Allocate("B", 70, 2)
	assert.Equal(t, 70, b.Used())
	assert.Equal(t, 30, b.Remaining())
}

// capacity 50; A(40, pri 5); B(30, pri 1) has nothing to evict and fails
// with shortfall 20.
func TestHandleOverflow_FailsWithShortfall(t *testing.T) {
	b := New(50)
	b.Allocate("A", 40, 5)

	dropped, err := b.HandleOverflow("B", 30, 1)
	require.Error(t, err)
	assert.Empty(t, dropped)

	var oe *OverflowError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, "B", oe.Section)
	assert.Equal(t, 30, oe.Requested)
	assert.Equal(t, 1, oe.Priority)
	assert.Empty(t, oe.Dropped)
	assert.Equal(t, 0, oe.Freed)
	assert.Equal(t, 20, oe.Shortfall)

	// A survives: equal-or-higher priority is never a candidate.
	assert.True(t, b.HasAllocation("A"))
	assert.Equal(t, 40, b.Used())
}

func TestHandleOverflow_NeverDropsEqualPriority(t *testing.T) {
	b := New(50)
	b.Allocate("A", 40, 2)

	_, err := b.HandleOverflow("B", 30, 2)
	require.Error(t, err)
	assert.True(t, b.HasAllocation("A"), "first-admitted wins among equals")
}

func TestHandleOverflow_StopsAsSoonAsItFits(t *testing.T) {
	b := New(100)
	b.Allocate("low", 30, 1)
	b.Allocate("mid", 30, 2)
	b.Allocate("high", 30, 3)

	// 40 needs 30 more; dropping "low" alone suffices.
	dropped, err := b.HandleOverflow("new", 40, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"low"}, dropped)
	assert.True(t, b.HasAllocation("mid"))
	assert.True(t, b.HasAllocation("high"))
}

func TestHandleOverflow_DropsLowestFirstWithStableTies(t *testing.T) {
	b := New(90)
	b.Allocate("first", 30, 1)
	b.Allocate("second", 30, 1)
	b.Allocate("third", 30, 2)

	// Needs 60 freed: both priority-1 sections go, in admission order.
	dropped, err := b.HandleOverflow("new", 60, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, dropped)
	assert.True(t, b.HasAllocation("third"))
}

// Partial eviction is not rolled back on failure.
func TestHandleOverflow_FailureKeepsPartialEviction(t *testing.T) {
	b := New(100)
	b.Allocate("low", 20, 1)
	b.Allocate("high", 80, 9)

	dropped, err := b.HandleOverflow("new", 50, 5)
	require.Error(t, err)
	assert.Equal(t, []string{"low"}, dropped)
	assert.False(t, b.HasAllocation("low"))
	assert.True(t, b.HasAllocation("high"))

	var oe *OverflowError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, 20, oe.Freed)
	assert.Equal(t, 30, oe.Shortfall) // 50 requested, 20 remaining after drops
}

// used == Σ tokens and used ≤ capacity after every successful operation.
func TestBudget_UsageInvariant(t *testing.T) {
	b := New(200)
	check := func() {
		sum := 0
		for _, st := range b.Stats().Breakdown {
			sum += st.Tokens
		}
		assert.Equal(t, sum, b.Used())
		assert.LessOrEqual(t, b.Used(), b.Capacity())
	}

	b.Allocate("a", 50, 1)
	check()
	b.Allocate("b", 70, 2)
	check()
	b.Allocate("a", 10, 1)
	check()
	_, _ = b.HandleOverflow("c", 150, 5)
	check()
	b.Allocate("c", 150, 5)
	check()
}

func TestBudget_Stats(t *testing.T) {
	b := New(100)
	b.Allocate("tickets", 40, 3)
	b.Allocate("prs", 25, 2)

	s := b.Stats()
	assert.Equal(t, 65, s.Used)
	assert.Equal(t, 35, s.Remaining)
	assert.Equal(t, 2, s.Sections)
	require.Len(t, s.Breakdown, 2)
	assert.Equal(t, SectionStat{Name: "tickets", Tokens: 40, Priority: 3}, s.Breakdown[0])
	assert.Equal(t, SectionStat{Name: "prs", Tokens: 25, Priority: 2}, s.Breakdown[1])
}

func TestOverflowError_Message(t *testing.T) {
	err := &OverflowError{Section: "prs", Requested: 80, Priority: 2, Dropped: []string{"projects"}, Freed: 15, Shortfall: 40}
	assert.Contains(t, err.Error(), `"prs"`)
	assert.Contains(t, err.Error(), "still short 40")
}
