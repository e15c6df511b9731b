package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	runID := uuid.New()
	skips := []Skip{
		{SKU: "X", Reason: ReasonNotFoundRemotely},
	}
	outcomes := []Outcome{
		{Mutation: stockMut("A", 1), Status: StatusApplied},
		{Mutation: stockMut("B", 2), Status: StatusFailed, Reason: ReasonRejectedByPlatform, Detail: "archived"},
		{Mutation: priceMut("C", 100), Status: StatusApplied},
		{Mutation: priceMut("D", 200), Status: StatusSkipped, Reason: ReasonRunAborted},
	}

	s := Summarize(runID, "ozon", skips, outcomes)

	assert.Equal(t, runID, s.RunID)
	assert.Equal(t, "ozon", s.Platform)
	assert.Equal(t, 2, s.Applied)

	require.Len(t, s.Failed, 1)
	assert.Equal(t, ItemIssue{SKU: "B", Reason: ReasonRejectedByPlatform, Detail: "archived"}, s.Failed[0])

	require.Len(t, s.Skipped, 2)
	assert.Equal(t, "X", s.Skipped[0].SKU)
	assert.Equal(t, "D", s.Skipped[1].SKU)

	assert.False(t, s.Ok())
}

func TestSummarizeOkWithOnlySkips(t *testing.T) {
	s := Summarize(uuid.New(), "yandex_market",
		[]Skip{{SKU: "A", Reason: ReasonNotFoundLocally}},
		[]Outcome{{Mutation: stockMut("B", 1), Status: StatusApplied}})

	assert.True(t, s.Ok())
	assert.Equal(t, 1, s.Applied)
	assert.Len(t, s.Skipped, 1)
}
