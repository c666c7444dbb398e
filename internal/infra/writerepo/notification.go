package writerepo

import (
	"context"
	"time"

	"eropoppin-booking/internal/infra/db"

	"github.com/google/uuid"
)

// NotificationRepository enqueues fire-and-forget delivery jobs. A worker
// outside this service drains the table; scheduler correctness never depends
// on delivery.
type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, dbtx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := dbtx.Exec(ctx, `
		INSERT INTO notification_jobs (id, kind, topic, payload, run_at, status, attempts)
		VALUES ($1, $2, $3, $4, $5, 'queued', 0)`,
		uuid.New(), kind, topic, payload, runAt,
	)
	if err != nil {
		return mapPgError("failed to create notification job", err)
	}
	return nil
}
