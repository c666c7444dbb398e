package readstore

import (
	"context"

	"eropoppin-booking/internal/infra"
	"eropoppin-booking/internal/pkg/pgconv"
	"eropoppin-booking/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProviderReadStore struct {
	pool *pgxpool.Pool
}

func NewProviderReadStore(pool *pgxpool.Pool) *ProviderReadStore {
	return &ProviderReadStore{pool: pool}
}

func (r *ProviderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*commands.ProviderSnapshot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, display_name, hourly_rate_cents, currency,
		       deposit_required, deposit_cents,
		       identification_required, screening_required, timezone
		FROM providers
		WHERE id = $1`,
		id,
	)

	var snap commands.ProviderSnapshot
	err := row.Scan(
		&snap.ID, &snap.DisplayName, &snap.HourlyRateCents, &snap.Currency,
		&snap.DepositRequired, &snap.DepositCents,
		&snap.IDRequired, &snap.ScreeningReq, &snap.Timezone,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("provider not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find provider by id", err)
	}
	return &snap, nil
}

// ServicesByIDs returns only the services that exist for the provider; the
// caller compares lengths to detect unknown ids.
func (r *ProviderReadStore) ServicesByIDs(ctx context.Context, providerID uuid.UUID, ids []uuid.UUID) ([]commands.ServiceSnapshot, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, label, duration_min, price_cents
		FROM provider_services
		WHERE provider_id = $1 AND id = ANY($2)`,
		providerID, ids,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query provider services", err)
	}
	defer rows.Close()

	var services []commands.ServiceSnapshot
	for rows.Next() {
		var s commands.ServiceSnapshot
		if err := rows.Scan(&s.ServiceID, &s.Label, &s.DurationMin, &s.PriceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan provider service", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *ProviderReadStore) ExtrasByIDs(ctx context.Context, providerID uuid.UUID, ids []uuid.UUID) ([]commands.ExtraSnapshot, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, label, price_cents
		FROM provider_extras
		WHERE provider_id = $1 AND id = ANY($2)`,
		providerID, ids,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query provider extras", err)
	}
	defer rows.Close()

	var extras []commands.ExtraSnapshot
	for rows.Next() {
		var e commands.ExtraSnapshot
		if err := rows.Scan(&e.ExtraID, &e.Label, &e.PriceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan provider extra", err)
		}
		extras = append(extras, e)
	}
	return extras, rows.Err()
}
