package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pollpulse/backend/internal/models"
)

func TestRemainingTime(t *testing.T) {
	now := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)

	t.Run("no start time reads zero", func(t *testing.T) {
		assert.Equal(t, "00:00", remainingTime(nil, now))
	})

	t.Run("budget exhausted clamps to zero", func(t *testing.T) {
		started := now.Add(-31 * time.Minute)
		assert.Equal(t, "00:00", remainingTime(&started, now))
	})

	t.Run("five minutes in leaves twenty five", func(t *testing.T) {
		started := now.Add(-5 * time.Minute)
		assert.Equal(t, "25:00", remainingTime(&started, now))
	})

	t.Run("seconds are zero padded", func(t *testing.T) {
		started := now.Add(-29*time.Minute - 55*time.Second)
		assert.Equal(t, "00:05", remainingTime(&started, now))
	})
}

func TestPriorityFor(t *testing.T) {
	now := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, models.PriorityHigh, priorityFor(now.Add(30*time.Minute), now))
	assert.Equal(t, models.PriorityHigh, priorityFor(now.Add(time.Hour), now))
	assert.Equal(t, models.PriorityMedium, priorityFor(now.Add(5*time.Hour), now))
	assert.Equal(t, models.PriorityMedium, priorityFor(now.Add(24*time.Hour), now))
	assert.Equal(t, models.PriorityLow, priorityFor(now.Add(3*24*time.Hour), now))
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, now.AddDate(0, 0, -7), windowStart("7d", now))
	assert.Equal(t, now.AddDate(0, 0, -30), windowStart("30d", now))
	assert.Equal(t, now.AddDate(0, 0, -90), windowStart("90d", now))

	// Unknown ranges silently fall back to the 30 day window.
	assert.Equal(t, windowStart("30d", now), windowStart("1y", now))
	assert.Equal(t, windowStart("30d", now), windowStart("", now))
}

func TestImprovementOf(t *testing.T) {
	assert.Zero(t, improvementOf(nil))
	assert.Zero(t, improvementOf([]float64{80}))

	// Latest 90 vs mean of prior (50, 60) = 55.
	assert.InDelta(t, 35.0, improvementOf([]float64{50, 60, 90}), 1e-9)

	// A declining trend goes negative.
	assert.InDelta(t, -40.0, improvementOf([]float64{80, 40}), 1e-9)
}

func TestStatisticsFrom(t *testing.T) {
	t.Run("no records means all zeros", func(t *testing.T) {
		assert.Equal(t, models.PollStatistics{}, statisticsFrom(nil))
	})

	t.Run("counts pass through", func(t *testing.T) {
		rows := []pollStatsRow{{Total: 12, Taken: 9, Absent: 2}}
		assert.Equal(t, models.PollStatistics{Total: 12, Taken: 9, Absent: 2}, statisticsFrom(rows))
	})
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Student", displayName(nil))
	assert.Equal(t, "Ada Lovelace", displayName(&models.StudentProfile{FirstName: "Ada", LastName: "Lovelace"}))
}

func TestToPollResult(t *testing.T) {
	completed := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)
	rec := models.StudentPollRecord{
		PollID:      "poll-7",
		PollTitle:   "Fractions Quiz",
		Subject:     "Math",
		Score:       8,
		MaxScore:    10,
		Percentage:  80,
		Status:      models.StatusCompleted,
		CompletedAt: &completed,
	}

	got := toPollResult(rec)
	assert.Equal(t, "poll-7", got.ID)
	assert.Equal(t, "Fractions Quiz", got.Name)
	assert.Equal(t, "Math", got.Subject)
	assert.Equal(t, 8.0, got.Score)
	assert.Equal(t, 10.0, got.MaxScore)
	assert.Equal(t, "Mar 5, 2026", got.Date)
	assert.Equal(t, 80.0, got.Percentage)
}

func TestToActivePoll(t *testing.T) {
	now := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)

	t.Run("in progress is ongoing with countdown", func(t *testing.T) {
		started := now.Add(-10 * time.Minute)
		rec := models.StudentPollRecord{
			PollID:    "poll-1",
			PollTitle: "Live MCQ",
			PollType:  models.PollTypeMCQ,
			Status:    models.StatusInProgress,
			StartedAt: &started,
		}
		got := toActivePoll(rec, now)
		assert.Equal(t, models.ActiveOngoing, got.Status)
		assert.Equal(t, "20:00", got.Timer)
	})

	t.Run("imminent scheduled poll is starting", func(t *testing.T) {
		rec := models.StudentPollRecord{
			PollID:   "poll-2",
			PollType: models.PollTypeWordCloud,
			Status:   models.StatusScheduled,
		}
		got := toActivePoll(rec, now)
		assert.Equal(t, models.ActiveStarting, got.Status)
		assert.Equal(t, "00:00", got.Timer)
	})
}

func TestToUpcomingPoll(t *testing.T) {
	now := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	scheduled := now.Add(30 * time.Minute)
	rec := models.StudentPollRecord{
		PollID:       "poll-3",
		PollTitle:    "Evening Review",
		PollType:     models.PollTypeOpenEnded,
		Status:       models.StatusScheduled,
		ScheduledFor: &scheduled,
	}

	got := toUpcomingPoll(rec, now)
	assert.Equal(t, "poll-3", got.ID)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	assert.Equal(t, "Mar 5, 2026 10:30 AM", got.ScheduledTime)

	// A record missing its schedule still maps without panicking.
	rec.ScheduledFor = nil
	got = toUpcomingPoll(rec, now)
	assert.Empty(t, got.ScheduledTime)
	assert.Equal(t, models.PriorityLow, got.Priority)
}
