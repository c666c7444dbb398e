//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"eropoppin-booking/internal/domain/availability"
	"eropoppin-booking/internal/domain/booking"
	"eropoppin-booking/internal/pkg/errs"
	"eropoppin-booking/internal/pkg/lock"
	"eropoppin-booking/internal/usecase/commands"
	"eropoppin-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scheduleFixture struct {
	store    *memStore
	provider *builder.ProviderBuilder
	cmds     commands.AvailabilityCommands
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()

	prov := builder.NewProviderBuilder()
	store := newMemStore()
	reads := &fakeProviderReads{snapshot: prov.BuildSnapshot()}

	return &scheduleFixture{
		store:    store,
		provider: prov,
		cmds:     commands.NewAvailabilityCommands(memUoW{store}, reads, lock.NewKeyed()),
	}
}

func weekdayInput(days ...time.Weekday) []commands.WeeklyWindowInput {
	windows := make([]commands.WeeklyWindowInput, len(days))
	for i, d := range days {
		windows[i] = commands.WeeklyWindowInput{Weekday: int(d), StartMinute: 9 * 60, EndMinute: 18 * 60}
	}
	return windows
}

func TestReplaceSchedule(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the new schedule", func(t *testing.T) {
		f := newScheduleFixture(t)

		err := f.cmds.ReplaceSchedule(ctx, commands.ReplaceScheduleInput{
			ProviderID: f.provider.ID,
			Weekly:     weekdayInput(time.Monday, time.Friday),
			ActorID:    f.provider.ID,
			ActorRole:  "provider",
		})
		require.NoError(t, err)

		sched := f.store.schedules[f.provider.ID]
		require.NotNil(t, sched)

		// Monday is covered, Tuesday is not.
		monday := booking.MustTimeRange(baseDay.Add(10*time.Hour), baseDay.Add(12*time.Hour))
		tuesday := booking.MustTimeRange(baseDay.Add(34*time.Hour), baseDay.Add(36*time.Hour))
		assert.True(t, sched.Covers(monday))
		assert.False(t, sched.Covers(tuesday))
	})

	t.Run("replacement is wholesale, not a merge", func(t *testing.T) {
		f := newScheduleFixture(t)

		in := commands.ReplaceScheduleInput{
			ProviderID: f.provider.ID,
			Weekly:     weekdayInput(time.Monday),
			ActorID:    f.provider.ID,
			ActorRole:  "provider",
		}
		require.NoError(t, f.cmds.ReplaceSchedule(ctx, in))

		in.Weekly = weekdayInput(time.Tuesday)
		require.NoError(t, f.cmds.ReplaceSchedule(ctx, in))

		sched := f.store.schedules[f.provider.ID]
		monday := booking.MustTimeRange(baseDay.Add(10*time.Hour), baseDay.Add(12*time.Hour))
		assert.False(t, sched.Covers(monday), "old windows must not survive a replace")
	})

	t.Run("blackout exceptions are applied in the schedule", func(t *testing.T) {
		f := newScheduleFixture(t)

		err := f.cmds.ReplaceSchedule(ctx, commands.ReplaceScheduleInput{
			ProviderID: f.provider.ID,
			Weekly:     weekdayInput(time.Monday),
			Exceptions: []commands.ExceptionInput{
				{Kind: "blackout", StartTime: baseDay.Add(12 * time.Hour), EndTime: baseDay.Add(14 * time.Hour)},
			},
			ActorID:   f.provider.ID,
			ActorRole: "provider",
		})
		require.NoError(t, err)

		sched := f.store.schedules[f.provider.ID]
		blocked := booking.MustTimeRange(baseDay.Add(12*time.Hour), baseDay.Add(13*time.Hour))
		morning := booking.MustTimeRange(baseDay.Add(9*time.Hour), baseDay.Add(11*time.Hour))
		assert.False(t, sched.Covers(blocked))
		assert.True(t, sched.Covers(morning))
	})

	t.Run("authorization", func(t *testing.T) {
		f := newScheduleFixture(t)
		in := commands.ReplaceScheduleInput{
			ProviderID: f.provider.ID,
			Weekly:     weekdayInput(time.Monday),
		}

		in.ActorID, in.ActorRole = uuid.New(), "provider"
		assert.ErrorIs(t, f.cmds.ReplaceSchedule(ctx, in), errs.ErrForbidden)

		in.ActorID, in.ActorRole = uuid.New(), "client"
		assert.ErrorIs(t, f.cmds.ReplaceSchedule(ctx, in), errs.ErrForbidden)

		in.ActorID, in.ActorRole = uuid.New(), "admin"
		assert.NoError(t, f.cmds.ReplaceSchedule(ctx, in))
	})

	t.Run("unknown provider", func(t *testing.T) {
		f := newScheduleFixture(t)
		otherID := uuid.New()

		err := f.cmds.ReplaceSchedule(ctx, commands.ReplaceScheduleInput{
			ProviderID: otherID,
			Weekly:     weekdayInput(time.Monday),
			ActorID:    otherID,
			ActorRole:  "provider",
		})
		assert.ErrorIs(t, err, errs.ErrProviderNotFound)
	})

	t.Run("invalid definitions are rejected before persisting", func(t *testing.T) {
		f := newScheduleFixture(t)

		tests := []struct {
			name    string
			in      commands.ReplaceScheduleInput
			wantErr error
		}{
			{
				name: "window end before start",
				in: commands.ReplaceScheduleInput{
					Weekly: []commands.WeeklyWindowInput{{Weekday: 1, StartMinute: 600, EndMinute: 540}},
				},
				wantErr: availability.ErrInvalidWindow,
			},
			{
				name: "weekday out of range",
				in: commands.ReplaceScheduleInput{
					Weekly: []commands.WeeklyWindowInput{{Weekday: 7, StartMinute: 0, EndMinute: 60}},
				},
				wantErr: availability.ErrInvalidWeekday,
			},
			{
				name: "exception range inverted",
				in: commands.ReplaceScheduleInput{
					Weekly: weekdayInput(time.Monday),
					Exceptions: []commands.ExceptionInput{
						{Kind: "blackout", StartTime: baseDay.Add(2 * time.Hour), EndTime: baseDay},
					},
				},
				wantErr: booking.ErrInvalidRange,
			},
			{
				name: "unknown exception kind",
				in: commands.ReplaceScheduleInput{
					Weekly: weekdayInput(time.Monday),
					Exceptions: []commands.ExceptionInput{
						{Kind: "holiday", StartTime: baseDay, EndTime: baseDay.Add(2 * time.Hour)},
					},
				},
				wantErr: availability.ErrInvalidWindow,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				tt.in.ProviderID = f.provider.ID
				tt.in.ActorID = f.provider.ID
				tt.in.ActorRole = "provider"

				err := f.cmds.ReplaceSchedule(ctx, tt.in)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, f.store.schedules[f.provider.ID])
			})
		}
	})
}
