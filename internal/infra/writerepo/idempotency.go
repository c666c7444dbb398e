package writerepo

import (
	"context"
	"time"

	"eropoppin-booking/internal/infra"
	"eropoppin-booking/internal/infra/db"
	"eropoppin-booking/internal/pkg/pgconv"
	"eropoppin-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IdempotencyRepository claims and resolves Idempotency-Key headers. Claim
// and lookup run on the pool (outside the booking transaction) so a replayed
// request can be answered without taking the provider lock.
type IdempotencyRepository struct {
	pool *pgxpool.Pool
}

func NewIdempotencyRepository(pool *pgxpool.Pool) *IdempotencyRepository {
	return &IdempotencyRepository{pool: pool}
}

func (r *IdempotencyRepository) TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	// An expired claim from a crashed request may be taken over.
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'processing', $5, now(), now())
		ON CONFLICT (key, user_id) DO UPDATE
		SET request_hash = EXCLUDED.request_hash,
		    status = 'processing',
		    expires_at = EXCLUDED.expires_at,
		    updated_at = now()
		WHERE idempotency_keys.expires_at < now()`,
		key, userID, endpoint, requestHash, pgconv.TimeToPgtype(expiresAt),
	)
	if err != nil {
		return false, mapPgError("failed to claim idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT key, user_id, status, request_hash, result_booking_id, expires_at
		FROM idempotency_keys
		WHERE key = $1 AND user_id = $2`,
		key, userID,
	)

	var record shared.IdempotencyRecord
	var resultBookingID pgtype.UUID
	var expiresAt pgtype.Timestamptz
	err := row.Scan(
		&record.Key, &record.UserID, &record.Status,
		&record.RequestHash, &resultBookingID, &expiresAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load idempotency key", err)
	}
	record.ResultBookingID = pgconv.UUIDPtrFromPgtype(resultBookingID)
	record.ExpiresAt = pgconv.TimeFromPgtype(expiresAt)
	return &record, nil
}

func (r *IdempotencyRepository) Release(ctx context.Context, key, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM idempotency_keys
		WHERE key = $1 AND user_id = $2 AND status = 'processing'`,
		key, userID,
	)
	if err != nil {
		return mapPgError("failed to release idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, resultHash string, bookingID uuid.UUID) error {
	_, err := dbtx.Exec(ctx, `
		UPDATE idempotency_keys
		SET status = 'completed', result_hash = $3, result_booking_id = $4, updated_at = now()
		WHERE key = $1 AND user_id = $2`,
		key, userID, resultHash, pgconv.UUIDToPgtype(bookingID),
	)
	if err != nil {
		return mapPgError("failed to complete idempotency key", err)
	}
	return nil
}
