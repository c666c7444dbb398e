package writerepo

import (
	"context"
	"time"

	"eropoppin-booking/internal/domain/availability"
	"eropoppin-booking/internal/domain/booking"
	"eropoppin-booking/internal/infra"
	"eropoppin-booking/internal/infra/db"
	"eropoppin-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ScheduleRepository struct{}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{}
}

// Replace swaps the provider's schedule wholesale: delete then insert inside
// the caller's transaction, matching the no-partial-patch contract.
func (r *ScheduleRepository) Replace(ctx context.Context, dbtx db.DBTX, sched *availability.Schedule) error {
	providerID := sched.ProviderID()

	if _, err := dbtx.Exec(ctx, `DELETE FROM schedule_windows WHERE provider_id = $1`, providerID); err != nil {
		return mapPgError("failed to clear schedule windows", err)
	}
	if _, err := dbtx.Exec(ctx, `DELETE FROM schedule_exceptions WHERE provider_id = $1`, providerID); err != nil {
		return mapPgError("failed to clear schedule exceptions", err)
	}

	for _, w := range sched.Weekly() {
		_, err := dbtx.Exec(ctx, `
			INSERT INTO schedule_windows (provider_id, weekday, start_minute, end_minute)
			VALUES ($1, $2, $3, $4)`,
			providerID, int(w.Weekday), w.StartMinute, w.EndMinute,
		)
		if err != nil {
			return mapPgError("failed to insert schedule window", err)
		}
	}

	for _, e := range sched.Exceptions() {
		_, err := dbtx.Exec(ctx, `
			INSERT INTO schedule_exceptions (provider_id, kind, start_time, end_time)
			VALUES ($1, $2, $3, $4)`,
			providerID, string(e.Kind), e.Range.Start(), e.Range.End(),
		)
		if err != nil {
			return mapPgError("failed to insert schedule exception", err)
		}
	}

	return nil
}

// FindByProvider loads the schedule, or nil when the provider has not
// published any availability yet.
func (r *ScheduleRepository) FindByProvider(ctx context.Context, dbtx db.DBTX, providerID uuid.UUID) (*availability.Schedule, error) {
	var timezone string
	err := dbtx.QueryRow(ctx, `SELECT timezone FROM providers WHERE id = $1`, providerID).Scan(&timezone)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("provider not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load provider timezone", err)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}

	weekly, err := r.loadWindows(ctx, dbtx, providerID)
	if err != nil {
		return nil, err
	}
	exceptions, err := r.loadExceptions(ctx, dbtx, providerID)
	if err != nil {
		return nil, err
	}
	if len(weekly) == 0 && len(exceptions) == 0 {
		return nil, nil
	}

	sched, err := availability.NewSchedule(providerID, loc, weekly, exceptions)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt schedule data", err)
	}
	return sched, nil
}

func (r *ScheduleRepository) loadWindows(ctx context.Context, dbtx db.DBTX, providerID uuid.UUID) ([]availability.WeeklyWindow, error) {
	rows, err := dbtx.Query(ctx, `
		SELECT weekday, start_minute, end_minute
		FROM schedule_windows
		WHERE provider_id = $1
		ORDER BY weekday, start_minute`,
		providerID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query schedule windows", err)
	}
	defer rows.Close()

	var weekly []availability.WeeklyWindow
	for rows.Next() {
		var weekday, startMinute, endMinute int
		if err := rows.Scan(&weekday, &startMinute, &endMinute); err != nil {
			return nil, infra.WrapRepoErr("failed to scan schedule window", err)
		}
		weekly = append(weekly, availability.WeeklyWindow{
			Weekday:     time.Weekday(weekday),
			StartMinute: startMinute,
			EndMinute:   endMinute,
		})
	}
	return weekly, rows.Err()
}

func (r *ScheduleRepository) loadExceptions(ctx context.Context, dbtx db.DBTX, providerID uuid.UUID) ([]availability.Exception, error) {
	rows, err := dbtx.Query(ctx, `
		SELECT kind, start_time, end_time
		FROM schedule_exceptions
		WHERE provider_id = $1
		ORDER BY start_time`,
		providerID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query schedule exceptions", err)
	}
	defer rows.Close()

	var exceptions []availability.Exception
	for rows.Next() {
		var (
			kind       string
			start, end time.Time
		)
		if err := rows.Scan(&kind, &start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan schedule exception", err)
		}
		rng, err := booking.NewTimeRange(start, end)
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt schedule exception range", err)
		}
		exceptions = append(exceptions, availability.Exception{
			Kind:  availability.ExceptionKind(kind),
			Range: rng,
		})
	}
	return exceptions, rows.Err()
}
