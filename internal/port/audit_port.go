package port

import (
	"context"

	"github.com/printforge/commerce/internal/domain"
)

// AuditSink records security-relevant transitions. Implementations are
// best-effort: a failed write is logged and never fails the caller.
type AuditSink interface {
	Record(ctx context.Context, entry domain.AuditEntry)
}
