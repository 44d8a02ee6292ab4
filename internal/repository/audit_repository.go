package repository

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/printforge/commerce/internal/domain"
	"github.com/printforge/commerce/internal/port"
)

type auditRepository struct {
	db     DBTX
	logger *slog.Logger
}

// NewAudit returns a best-effort audit sink: failed writes are logged and
// never propagated to the caller.
func NewAudit(pool *pgxpool.Pool, logger *slog.Logger) port.AuditSink {
	return &auditRepository{db: pool, logger: logger}
}

func (r *auditRepository) Record(ctx context.Context, entry domain.AuditEntry) {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		r.logger.Error("audit: marshal metadata", "action", entry.Action, "error", err)
		metadata = []byte("{}")
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO audit_log (actor, action, entity, entity_id, ip, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.Actor, entry.Action, entry.Entity, entry.EntityID, entry.IP, metadata)
	if err != nil {
		r.logger.Error("audit: record failed",
			"action", entry.Action, "entity", entry.Entity, "entity_id", entry.EntityID, "error", err)
	}
}
