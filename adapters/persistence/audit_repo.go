package persistence

import (
	"context"

	"github.com/itww/admin-api/internal/domain/audit"
	"github.com/itww/admin-api/pkg/apperror"
)

type postgresAuditRepo struct {
	db DBTX
}

func NewPostgresAuditRepo(db DBTX) audit.Repository {
	return &postgresAuditRepo{db: db}
}

func (r *postgresAuditRepo) Save(ctx context.Context, e *audit.Entry) error {
	query := `
		INSERT INTO audit_log (event_id, event_type, resource, resource_id, actor_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query,
		e.EventID, e.EventType, e.Resource, e.ResourceID, e.ActorID, e.OccurredAt,
	)
	if err != nil {
		return apperror.NewInternal("Failed to save audit entry", err)
	}
	return nil
}
