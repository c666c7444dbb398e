package writerepo

import (
	"context"
	"errors"
	"time"

	"eropoppin-booking/internal/domain/availability"
	"eropoppin-booking/internal/domain/booking"
	"eropoppin-booking/internal/infra"
	"eropoppin-booking/internal/infra/db"
	"eropoppin-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	pgErrCodeUniqueViolation    = "23505"
	pgErrCodeForeignKeyViolated = "23503"
	pgErrCodeExclusionViolation = "23P01"
)

// mapPgError classifies constraint violations so usecases can react without
// parsing Postgres error strings.
func mapPgError(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeExclusionViolation:
			return infra.WrapRepoErr(msg, err, infra.KindConflict)
		case pgErrCodeUniqueViolation:
			return infra.WrapRepoErr(msg, err, infra.KindDuplicateKey)
		case pgErrCodeForeignKeyViolated:
			return infra.WrapRepoErr(msg, err, infra.KindForeignKeyViolated)
		}
	}
	return infra.WrapRepoErr(msg, err)
}

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

// Create inserts the booking and its service snapshot lines. The bookings
// table carries an exclusion constraint over (provider_id, time range) for
// blocking statuses; hitting it maps to KindConflict.
func (r *BookingRepository) Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	payment := b.Payment()
	var depositCents *int64
	depositPaid := false
	if payment.Deposit != nil {
		amount := payment.Deposit.AmountCents
		depositCents = &amount
		depositPaid = payment.Deposit.Paid
	}

	var reasonStr *string
	if b.StatusReason() != nil {
		s := b.StatusReason().String()
		reasonStr = &s
	}
	reason := pgconv.StringPtrToPgtype(reasonStr)

	req := b.Requirements()

	_, err := dbtx.Exec(ctx, `
		INSERT INTO bookings (
			id, provider_id, client_id, start_time, end_time,
			status, status_reason,
			total_cents, currency, deposit_cents, deposit_paid,
			deposit_required, identification_required, screening_required,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		b.ID(), b.ProviderID(), b.ClientID(), b.TimeRange().Start(), b.TimeRange().End(),
		b.Status().String(), reason,
		payment.TotalCents, payment.Currency, depositCents, depositPaid,
		req.DepositRequired, req.IdentificationRequired, req.ScreeningRequired,
		b.CreatedAt(), b.UpdatedAt(),
	)
	if err != nil {
		return uuid.Nil, mapPgError("failed to insert booking", err)
	}

	for _, svc := range b.Services() {
		_, err := dbtx.Exec(ctx, `
			INSERT INTO booking_services (booking_id, service_id, label, duration_min, price_cents)
			VALUES ($1, $2, $3, $4, $5)`,
			b.ID(), svc.ServiceID, svc.Label, int64(svc.Duration/time.Minute), svc.PriceCents,
		)
		if err != nil {
			return uuid.Nil, mapPgError("failed to insert booking service", err)
		}
	}

	return b.ID(), nil
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	row := dbtx.QueryRow(ctx, `
		SELECT id, provider_id, client_id, start_time, end_time,
		       status, status_reason,
		       total_cents, currency, deposit_cents, deposit_paid,
		       deposit_required, identification_required, screening_required,
		       created_at, updated_at
		FROM bookings
		WHERE id = $1
		FOR UPDATE`,
		id,
	)

	entity, err := scanBooking(ctx, dbtx, row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking for update", err)
	}
	return entity, nil
}

func (r *BookingRepository) UpdateState(ctx context.Context, dbtx db.DBTX, b *booking.Booking) error {
	var reasonStr *string
	if b.StatusReason() != nil {
		s := b.StatusReason().String()
		reasonStr = &s
	}
	reason := pgconv.StringPtrToPgtype(reasonStr)
	depositPaid := b.DepositPaid()

	tag, err := dbtx.Exec(ctx, `
		UPDATE bookings
		SET status = $2, status_reason = $3, deposit_paid = $4, updated_at = $5
		WHERE id = $1`,
		b.ID(), b.Status().String(), reason, depositPaid, b.UpdatedAt(),
	)
	if err != nil {
		return mapPgError("failed to update booking state", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) BlockingEntries(ctx context.Context, dbtx db.DBTX, providerID uuid.UUID, from, to time.Time) ([]availability.Entry, error) {
	rows, err := dbtx.Query(ctx, `
		SELECT id, start_time, end_time
		FROM bookings
		WHERE provider_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time`,
		providerID, from, to,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query blocking bookings", err)
	}
	defer rows.Close()

	var entries []availability.Entry
	for rows.Next() {
		var (
			id         uuid.UUID
			start, end time.Time
		)
		if err := rows.Scan(&id, &start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan blocking booking", err)
		}
		rng, err := booking.NewTimeRange(start, end)
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt booking range", err)
		}
		entries = append(entries, availability.Entry{BookingID: id, Range: rng})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate blocking bookings", err)
	}
	return entries, nil
}

func scanBooking(ctx context.Context, dbtx db.DBTX, row pgx.Row) (*booking.Booking, error) {
	var (
		id, providerID, clientID uuid.UUID
		start, end               time.Time
		status                   string
		statusReasonRow          pgtype.Text
		totalCents               int64
		currency                 string
		depositCentsRow          pgtype.Int8
		depositPaid              bool
		depositRequired          bool
		idRequired               bool
		screeningRequired        bool
		createdAt, updatedAt     time.Time
	)
	if err := row.Scan(
		&id, &providerID, &clientID, &start, &end,
		&status, &statusReasonRow,
		&totalCents, &currency, &depositCentsRow, &depositPaid,
		&depositRequired, &idRequired, &screeningRequired,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	statusReason := pgconv.StringPtrFromPgtype(statusReasonRow)
	depositCents := pgconv.Int64PtrFromPgtype(depositCentsRow)

	services, err := loadServices(ctx, dbtx, id)
	if err != nil {
		return nil, err
	}

	rng, err := booking.NewTimeRange(start, end)
	if err != nil {
		return nil, err
	}

	payment := booking.Payment{TotalCents: totalCents, Currency: currency}
	if depositCents != nil {
		payment.Deposit = &booking.Deposit{AmountCents: *depositCents, Paid: depositPaid}
	}

	var reason *booking.Reason
	if statusReason != nil {
		r, err := booking.NewReason(*statusReason)
		if err == nil {
			reason = &r
		}
	}

	return booking.ReconstructBooking(
		id, providerID, clientID,
		rng,
		services,
		booking.Status(status),
		payment,
		booking.Requirements{
			DepositRequired:        depositRequired,
			IdentificationRequired: idRequired,
			ScreeningRequired:      screeningRequired,
		},
		reason,
		createdAt, updatedAt,
	), nil
}

func loadServices(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID) ([]booking.ServiceSnapshot, error) {
	rows, err := dbtx.Query(ctx, `
		SELECT service_id, label, duration_min, price_cents
		FROM booking_services
		WHERE booking_id = $1`,
		bookingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []booking.ServiceSnapshot
	for rows.Next() {
		var (
			serviceID   uuid.UUID
			label       string
			durationMin int64
			priceCents  int64
		)
		if err := rows.Scan(&serviceID, &label, &durationMin, &priceCents); err != nil {
			return nil, err
		}
		services = append(services, booking.ServiceSnapshot{
			ServiceID:  serviceID,
			Label:      label,
			Duration:   time.Duration(durationMin) * time.Minute,
			PriceCents: priceCents,
		})
	}
	return services, rows.Err()
}
