package postgres

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campuskit/catalog-system/internal/core/domain"
)

// AuditRepository appends mutation events to the audit_log table.
type AuditRepository struct {
	db  Querier
	log zerolog.Logger
}

func NewAuditRepository(db Querier, log zerolog.Logger) *AuditRepository {
	return &AuditRepository{db: db, log: log}
}

func (r *AuditRepository) Insert(ctx context.Context, e *domain.AuditEvent) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO audit_log (kind, record_id, action, actor_id, actor, ts)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.Kind, e.RecordID, string(e.Action), e.ActorID, e.Actor, e.Timestamp,
	)
	if err != nil {
		r.log.Error().Err(err).Str("kind", e.Kind).Int64("record_id", e.RecordID).Msg("insert audit event failed")
		return storageErr("insert audit event", err)
	}
	return nil
}
