package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func intPtr(i int) *int {
	return &i
}

func TestPollStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := timePtr(now.Add(-time.Hour))
	future := timePtr(now.Add(time.Hour))

	tests := []struct {
		name     string
		poll     Poll
		expected PollStatus
	}{
		{
			name:     "no dates and not closed is open",
			poll:     Poll{},
			expected: StatusOpen,
		},
		{
			name:     "start in past, no end, not closed is open",
			poll:     Poll{StartAt: past},
			expected: StatusOpen,
		},
		{
			name:     "future start is pending",
			poll:     Poll{StartAt: future},
			expected: StatusPending,
		},
		{
			name:     "future start wins over closed flag",
			poll:     Poll{StartAt: future, Closed: true},
			expected: StatusPending,
		},
		{
			name:     "future start wins over elapsed end",
			poll:     Poll{StartAt: future, EndAt: past},
			expected: StatusPending,
		},
		{
			name:     "closed flag closes",
			poll:     Poll{Closed: true},
			expected: StatusClosed,
		},
		{
			name:     "elapsed end closes",
			poll:     Poll{StartAt: past, EndAt: past},
			expected: StatusClosed,
		},
		{
			name:     "end exactly now closes",
			poll:     Poll{EndAt: timePtr(now)},
			expected: StatusClosed,
		},
		{
			name:     "future end stays open",
			poll:     Poll{StartAt: past, EndAt: future},
			expected: StatusOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.poll.Status(now))
		})
	}
}

func TestPollStatusRecomputedFromClock(t *testing.T) {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	poll := Poll{StartAt: &start}

	assert.Equal(t, StatusPending, poll.Status(start.Add(-time.Second)))
	assert.Equal(t, StatusOpen, poll.Status(start))
}

func TestIsOwnedBy(t *testing.T) {
	poll := Poll{CreatorID: 7}

	assert.True(t, poll.IsOwnedBy(7))
	assert.False(t, poll.IsOwnedBy(8))
	assert.False(t, poll.IsOwnedBy(0), "unauthenticated user never owns a poll")
}

func TestSortOptions(t *testing.T) {
	options := []Option{
		{ID: 1, Order: intPtr(2)},
		{ID: 2},
		{ID: 3, Order: intPtr(1)},
	}

	SortOptions(options)

	assert.Equal(t, []int64{3, 1, 2}, []int64{options[0].ID, options[1].ID, options[2].ID})
}

func TestSortOptionsStableForMissingOrders(t *testing.T) {
	options := []Option{
		{ID: 1},
		{ID: 2},
		{ID: 3, Order: intPtr(5)},
	}

	SortOptions(options)

	assert.Equal(t, int64(3), options[0].ID)
	assert.Equal(t, int64(1), options[1].ID, "options without order keep their relative position")
	assert.Equal(t, int64(2), options[2].ID)
}
