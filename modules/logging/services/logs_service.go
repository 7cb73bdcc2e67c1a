package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	coreservices "github.com/planora/planora/modules/core/services"
	"github.com/planora/planora/modules/logging/domain/entities/loginaudit"
	schedulingservices "github.com/planora/planora/modules/scheduling/services"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/eventbus"
	"github.com/planora/planora/pkg/logging"
	"github.com/planora/planora/pkg/serrors"
)

var ErrUnknownLogLevel = serrors.NewValidation("LOG_LEVEL_UNKNOWN", "unknown log level")

// LogsService exposes login audit queries and the runtime log level. The
// level lives in process-wide logging state; this service is the only
// path business code uses to read or change it.
type LogsService struct {
	audits loginaudit.Repository
	log    *logrus.Logger
}

func NewLogsService(audits loginaudit.Repository, log *logrus.Logger) *LogsService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogsService{audits: audits, log: log}
}

// RegisterEventHandlers hooks the audit trail into lifecycle events
// published by other modules. Handlers run synchronously on the
// publishing goroutine.
func (s *LogsService) RegisterEventHandlers(bus eventbus.EventBus) {
	bus.Subscribe(s.onUserDeactivated)
	bus.Subscribe(s.onAssignmentApproved)
}

func (s *LogsService) onUserDeactivated(e coreservices.UserDeactivatedEvent) {
	s.log.WithFields(map[string]any{
		"userId":              e.UserID,
		"byUserId":            e.ByUserID,
		"membershipsDisabled": e.MembershipsDisabled,
	}).Info("account deactivation recorded")
}

func (s *LogsService) onAssignmentApproved(e schedulingservices.AssignmentApprovedEvent) {
	s.log.WithFields(map[string]any{
		"assignmentId": e.Result.ID(),
		"approvedBy":   e.ApprovedBy,
	}).Info("assignment approval recorded")
}

func (s *LogsService) ListLoginAudits(
	ctx context.Context,
	params *loginaudit.FindParams,
) ([]*loginaudit.LoginAudit, int64, error) {
	if params == nil {
		params = &loginaudit.FindParams{}
	}

	entries, err := s.audits.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.audits.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}

func (s *LogsService) RecordLogin(ctx context.Context, entry *loginaudit.LoginAudit) error {
	if entry == nil {
		return errors.New("login audit payload is required")
	}
	return composables.InTx(ctx, func(txCtx context.Context) error {
		return s.audits.Create(txCtx, entry)
	})
}

// Level reports the current minimum log severity.
func (s *LogsService) Level() string {
	return logging.LevelName(logging.Level())
}

// SetLevel changes the minimum log severity for the whole process. The
// change is audit-logged with the acting user.
func (s *LogsService) SetLevel(ctx context.Context, name string, actingUserID uuid.UUID) (string, error) {
	level, ok := logging.ParseLevel(name)
	if !ok {
		return "", ErrUnknownLogLevel
	}

	previous := logging.LevelName(logging.Level())
	logging.SetLevel(level)

	composables.UseLogger(ctx).WithFields(map[string]any{
		"userId":        actingUserID,
		"previousLevel": previous,
		"newLevel":      logging.LevelName(level),
	}).Warn("log level changed")

	return logging.LevelName(level), nil
}
