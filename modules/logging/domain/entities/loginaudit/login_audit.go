package loginaudit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LoginAudit records one authentication attempt as reported by the
// gateway: who tried to sign in, from where, and whether it succeeded.
type LoginAudit struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	UserID    *uuid.UUID
	Email     string
	IP        string
	UserAgent string
	Success   bool
	Reason    string
	CreatedAt time.Time
}

type FindParams struct {
	Email   string
	UserID  *uuid.UUID
	Success *bool
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]*LoginAudit, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, entry *LoginAudit) error
}
