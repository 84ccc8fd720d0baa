/*
scheduler_test.go - Fortnight derivation and scheduler lifecycle tests
*/
package api

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// FORTNIGHT DERIVATION TESTS
// =============================================================================

func TestLastCompletedFortnight_EpochAlignment(t *testing.T) {
	// GIVEN the epoch Monday 2026-01-05, the first fortnight runs
	// Jan 5 to Jan 18 and completes at the start of Jan 19
	cases := []struct {
		name      string
		now       time.Time
		wantStart engine.Date
		wantEnd   engine.Date
	}{
		{
			"mid second fortnight pays the first",
			time.Date(2026, time.January, 20, 10, 0, 0, 0, time.UTC),
			engine.NewDate(2026, time.January, 5),
			engine.NewDate(2026, time.January, 18),
		},
		{
			"first day after the fortnight ends counts as completed",
			time.Date(2026, time.January, 19, 0, 0, 0, 0, time.UTC),
			engine.NewDate(2026, time.January, 5),
			engine.NewDate(2026, time.January, 18),
		},
		{
			"last day of a fortnight still pays the previous one",
			time.Date(2026, time.January, 18, 23, 0, 0, 0, time.UTC),
			engine.NewDate(2025, time.December, 22),
			engine.NewDate(2026, time.January, 4),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			period := lastCompletedFortnight(tc.now)
			assert.Equal(t, tc.wantStart, period.Start)
			assert.Equal(t, tc.wantEnd, period.End)
		})
	}
}

func TestLastCompletedFortnight_IsAlwaysFourteenDaysFromMonday(t *testing.T) {
	// Sweep a few months of wall-clock days and check every derived
	// period is a Monday-anchored 14-day window that has ended.
	for day := 0; day < 90; day++ {
		now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, day)
		period := lastCompletedFortnight(now)

		assert.Equal(t, time.Monday, period.Start.Time().Weekday(), "period starting %s", period.Start)
		assert.Equal(t, period.Start.AddDays(13), period.End, "period starting %s", period.Start)
		assert.True(t, period.End.Before(engine.DateOf(now)), "period ending %s must precede %s", period.End, now)
	}
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestScheduler_StartStopIsIdempotent(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	s := NewPayRunScheduler(nil, log, time.Hour)

	// Double start and double stop must not panic or deadlock.
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}

func TestScheduler_DisabledStartIsNoOp(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	s := NewPayRunScheduler(nil, log, time.Hour)
	s.Enabled = false

	s.Start()
	assert.False(t, s.running, "a disabled scheduler must not launch its loop")
	s.Stop()
}
