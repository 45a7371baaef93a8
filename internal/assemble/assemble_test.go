package assemble

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countWords charges one token per word, which keeps expected counts obvious.
func countWords(text string) int {
	if text == "" {
		return 0
	}
	return len(strings.Fields(text))
}

func TestRun_AllSectionsFit(t *testing.T) {
	res := Run([]Section{
		{Name: "tickets", Priority: 3, Content: "one two three"},
		{Name: "prs", Priority: 2, Content: "four five"},
	}, 10, countWords)

	assert.Equal(t, "one two three\n\nfour five", res.Document)
	assert.Equal(t, 5, res.Stats.Used)
	assert.Equal(t, 5, res.Stats.Remaining)
	assert.Equal(t, 2, res.Stats.Sections)
	assert.Empty(t, res.Evicted)
	assert.Empty(t, res.Skipped)
	assert.NotEmpty(t, res.RunID)
}

func TestRun_EvictsLowerPriorityForHigher(t *testing.T) {
	low := strings.Repeat("w ", 60)  // 60 tokens
	high := strings.Repeat("w ", 70) // 70 tokens

	res := Run([]Section{
		{Name: "notes", Priority: 1, Content: low},
		{Name: "tickets", Priority: 2, Content: high},
	}, 100, countWords)

	assert.Equal(t, []string{"notes"}, res.Evicted)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, 70, res.Stats.Used)
	assert.Equal(t, 30, res.Stats.Remaining)
	assert.NotContains(t, res.Document, "notes")
	assert.Equal(t, strings.TrimSpace(high), strings.TrimSpace(res.Document))
}

func TestRun_SkipsSectionThatCannotFit(t *testing.T) {
	res := Run([]Section{
		{Name: "tickets", Priority: 5, Content: strings.Repeat("w ", 40)},
		{Name: "notes", Priority: 1, Content: strings.Repeat("w ", 30)},
	}, 50, countWords)

	require.Len(t, res.Skipped, 1)
	oe := res.Skipped[0]
	assert.Equal(t, "notes", oe.Section)
	assert.Equal(t, 20, oe.Shortfall)
	assert.Empty(t, res.Evicted)

	// The higher-priority section is untouched.
	assert.Equal(t, 40, res.Stats.Used)
	assert.Contains(t, res.Document, "w w")
	assert.Equal(t, 1, res.Stats.Sections)
}

func TestRun_DocumentKeepsOriginalOrder(t *testing.T) {
	res := Run([]Section{
		{Name: "projects", Priority: 1, Content: "PROJECTS"},
		{Name: "tickets", Priority: 3, Content: "TICKETS"},
		{Name: "prs", Priority: 2, Content: "PRS"},
	}, 10, countWords)

	assert.Equal(t, "PROJECTS\n\nTICKETS\n\nPRS", res.Document)
}

func TestRun_EvictionRemovesFromDocument(t *testing.T) {
	res := Run([]Section{
		{Name: "a", Priority: 1, Content: strings.Repeat("a ", 30)},
		{Name: "b", Priority: 2, Content: strings.Repeat("b ", 30)},
		{Name: "c", Priority: 3, Content: strings.Repeat("c ", 50)},
	}, 60, countWords)

	// c (50) needs both a and b gone: 30+30 admitted leaves 0 of 60.
	assert.ElementsMatch(t, []string{"a", "b"}, res.Evicted)
	assert.NotContains(t, res.Document, "a ")
	assert.NotContains(t, res.Document, "b ")
	assert.Equal(t, 50, res.Stats.Used)
}

func TestRun_EmptyContentCostsNothing(t *testing.T) {
	res := Run([]Section{{Name: "empty", Priority: 1, Content: ""}}, 5, countWords)
	assert.Equal(t, 0, res.Stats.Used)
	assert.Equal(t, 1, res.Stats.Sections)
}
