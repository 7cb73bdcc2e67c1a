package models

import "time"

type LoginAudit struct {
	ID        string
	TenantID  string
	UserID    *string
	Email     string
	IP        string
	UserAgent string
	Success   bool
	Reason    string
	CreatedAt time.Time
}
