package persistence

import (
	"github.com/google/uuid"

	"github.com/planora/planora/modules/logging/domain/entities/loginaudit"
	"github.com/planora/planora/modules/logging/infrastructure/persistence/models"
)

func toDomainLoginAudit(row *models.LoginAudit) (*loginaudit.LoginAudit, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, err
	}
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return nil, err
	}
	var userID *uuid.UUID
	if row.UserID != nil {
		parsed, err := uuid.Parse(*row.UserID)
		if err != nil {
			return nil, err
		}
		userID = &parsed
	}
	return &loginaudit.LoginAudit{
		ID:        id,
		TenantID:  tenantID,
		UserID:    userID,
		Email:     row.Email,
		IP:        row.IP,
		UserAgent: row.UserAgent,
		Success:   row.Success,
		Reason:    row.Reason,
		CreatedAt: row.CreatedAt,
	}, nil
}
