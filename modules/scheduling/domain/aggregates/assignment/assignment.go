package assignment

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an assignment. Only Active
// assignments participate in overlap checks.
type Status string

const (
	StatusActive    Status = "Active"
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

func ParseStatus(v string) (Status, bool) {
	switch Status(v) {
	case StatusActive, StatusPending, StatusCompleted:
		return Status(v), true
	}
	return "", false
}

// Assignment books a person onto a WBS element for a date range.
type Assignment struct {
	id           uuid.UUID
	tenantID     uuid.UUID
	personID     uuid.UUID
	wbsElementID uuid.UUID
	dateRange    DateRange
	status       Status
	approvedBy   *uuid.UUID
	note         string
	createdAt    time.Time
	updatedAt    time.Time
}

func New(
	tenantID, personID, wbsElementID uuid.UUID,
	dateRange DateRange,
	status Status,
	note string,
) Assignment {
	return Assignment{
		tenantID:     tenantID,
		personID:     personID,
		wbsElementID: wbsElementID,
		dateRange:    dateRange,
		status:       status,
		note:         note,
	}
}

func Hydrate(
	id, tenantID, personID, wbsElementID uuid.UUID,
	dateRange DateRange,
	status Status,
	approvedBy *uuid.UUID,
	note string,
	createdAt, updatedAt time.Time,
) Assignment {
	return Assignment{
		id:           id,
		tenantID:     tenantID,
		personID:     personID,
		wbsElementID: wbsElementID,
		dateRange:    dateRange,
		status:       status,
		approvedBy:   approvedBy,
		note:         note,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (a Assignment) ID() uuid.UUID           { return a.id }
func (a Assignment) TenantID() uuid.UUID     { return a.tenantID }
func (a Assignment) PersonID() uuid.UUID     { return a.personID }
func (a Assignment) WbsElementID() uuid.UUID { return a.wbsElementID }
func (a Assignment) DateRange() DateRange    { return a.dateRange }
func (a Assignment) Status() Status          { return a.status }
func (a Assignment) ApprovedBy() *uuid.UUID  { return a.approvedBy }
func (a Assignment) Note() string            { return a.note }
func (a Assignment) CreatedAt() time.Time    { return a.createdAt }
func (a Assignment) UpdatedAt() time.Time    { return a.updatedAt }

func (a Assignment) IsActive() bool { return a.status == StatusActive }

// WithChanges returns a copy carrying the mutable fields of an update.
func (a Assignment) WithChanges(
	personID, wbsElementID uuid.UUID,
	dateRange DateRange,
	status Status,
	note string,
) Assignment {
	out := a
	out.personID = personID
	out.wbsElementID = wbsElementID
	out.dateRange = dateRange
	out.status = status
	out.note = note
	return out
}

// Approved marks the assignment Active on behalf of the approver.
func (a Assignment) Approved(by uuid.UUID) Assignment {
	out := a
	out.status = StatusActive
	out.approvedBy = &by
	return out
}
