package readstore

import (
	"context"

	"eropoppin-booking/internal/infra"
	"eropoppin-booking/internal/pkg/pgconv"
	"eropoppin-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingReadStore struct {
	pool *pgxpool.Pool
}

func NewBookingReadStore(pool *pgxpool.Pool) *BookingReadStore {
	return &BookingReadStore{pool: pool}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT b.id, b.provider_id, p.display_name, b.client_id,
		       b.start_time, b.end_time, b.status, b.status_reason,
		       b.total_cents, b.currency, b.deposit_cents, b.deposit_paid,
		       b.deposit_required, b.identification_required, b.screening_required,
		       b.created_at, b.updated_at
		FROM bookings b
		JOIN providers p ON p.id = b.provider_id
		WHERE b.id = $1`,
		id,
	)

	var view queries.BookingView
	var statusReason pgtype.Text
	var depositCents pgtype.Int8
	err := row.Scan(
		&view.ID, &view.ProviderID, &view.ProviderName, &view.ClientID,
		&view.StartTime, &view.EndTime, &view.Status, &statusReason,
		&view.TotalCents, &view.Currency, &depositCents, &view.DepositPaid,
		&view.DepositNeeded, &view.IDRequired, &view.ScreeningReq,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by id", err)
	}
	view.StatusReason = pgconv.StringPtrFromPgtype(statusReason)
	view.DepositCents = pgconv.Int64PtrFromPgtype(depositCents)

	services, err := r.loadServiceLines(ctx, id)
	if err != nil {
		return nil, err
	}
	view.Services = services

	return &view, nil
}

func (r *BookingReadStore) FindByClient(ctx context.Context, clientID uuid.UUID) ([]*queries.BookingListItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.id, b.provider_id, p.display_name,
		       b.start_time, b.end_time, b.status,
		       b.total_cents, b.currency, b.created_at
		FROM bookings b
		JOIN providers p ON p.id = b.provider_id
		WHERE b.client_id = $1
		ORDER BY b.start_time DESC`,
		clientID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query client bookings", err)
	}
	defer rows.Close()

	var items []*queries.BookingListItem
	for rows.Next() {
		var item queries.BookingListItem
		if err := rows.Scan(
			&item.ID, &item.ProviderID, &item.ProviderName,
			&item.StartTime, &item.EndTime, &item.Status,
			&item.TotalCents, &item.Currency, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list item", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate client bookings", err)
	}
	return items, nil
}

func (r *BookingReadStore) loadServiceLines(ctx context.Context, bookingID uuid.UUID) ([]queries.ServiceLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT service_id, label, duration_min, price_cents
		FROM booking_services
		WHERE booking_id = $1`,
		bookingID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query booking services", err)
	}
	defer rows.Close()

	var lines []queries.ServiceLine
	for rows.Next() {
		var line queries.ServiceLine
		if err := rows.Scan(&line.ServiceID, &line.Label, &line.DurationMin, &line.PriceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking service", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
