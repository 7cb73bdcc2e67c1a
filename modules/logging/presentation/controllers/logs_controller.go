package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/planora/planora/modules/core/services"
	"github.com/planora/planora/modules/logging/domain/entities/loginaudit"
	logservices "github.com/planora/planora/modules/logging/services"
	"github.com/planora/planora/pkg/application"
	"github.com/planora/planora/pkg/authz"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/httpapi"
	"github.com/planora/planora/pkg/middleware"
	"github.com/planora/planora/pkg/serrors"
	"github.com/planora/planora/pkg/shared"
)

var (
	auditsAuthzObject = authz.ObjectName("logging", "audits")
	levelAuthzObject  = authz.ObjectName("logging", "level")
)

type LogsController struct {
	app      application.Application
	logs     *logservices.LogsService
	access   *services.AccessService
	basePath string
}

func NewLogsController(app application.Application) application.Controller {
	return &LogsController{
		app:      app,
		logs:     app.Service(logservices.LogsService{}).(*logservices.LogsService),
		access:   app.Service(services.AccessService{}).(*services.AccessService),
		basePath: "/api/login-audits",
	}
}

func (c *LogsController) Key() string {
	return c.basePath
}

func (c *LogsController) Register(r *mux.Router) {
	audits := r.PathPrefix(c.basePath).Subrouter()
	audits.Use(middleware.RequirePermission(c.access, auditsAuthzObject, "read"))
	audits.HandleFunc("", c.ListLoginAudits).Methods(http.MethodGet)

	record := r.PathPrefix(c.basePath).Subrouter()
	record.Use(middleware.RequirePermission(c.access, auditsAuthzObject, "write"))
	record.HandleFunc("", c.RecordLogin).Methods(http.MethodPost)

	level := r.PathPrefix("/api/logs/level").Subrouter()
	level.Use(middleware.RequirePermission(c.access, levelAuthzObject, "manage"))
	level.HandleFunc("", c.GetLevel).Methods(http.MethodGet)
	level.HandleFunc("", c.SetLevel).Methods(http.MethodPut)
}

type loginAuditResponse struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"userId,omitempty"`
	Email     string    `json:"email"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	Success   bool      `json:"success"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toLoginAuditResponse(entry *loginaudit.LoginAudit) loginAuditResponse {
	resp := loginAuditResponse{
		ID:        entry.ID.String(),
		Email:     entry.Email,
		IP:        entry.IP,
		UserAgent: entry.UserAgent,
		Success:   entry.Success,
		Reason:    entry.Reason,
		CreatedAt: entry.CreatedAt,
	}
	if entry.UserID != nil {
		s := entry.UserID.String()
		resp.UserID = &s
	}
	return resp
}

func (c *LogsController) ListLoginAudits(w http.ResponseWriter, r *http.Request) {
	pagination := composables.UsePaginated(r)
	params, err := buildLoginAuditFilters(r, pagination.Limit, pagination.Offset)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}

	entries, total, err := c.logs.ListLoginAudits(r.Context(), params)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}

	items := make([]loginAuditResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toLoginAuditResponse(entry))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"items":    items,
		"total":    total,
		"page":     pagination.Page,
		"pageSize": pagination.Limit,
	})
}

type recordLoginRequest struct {
	UserID  *uuid.UUID `json:"userId"`
	Email   string     `json:"email"`
	Success bool       `json:"success"`
	Reason  string     `json:"reason"`
}

func (c *LogsController) RecordLogin(w http.ResponseWriter, r *http.Request) {
	var req recordLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
		return
	}

	entry := &loginaudit.LoginAudit{
		UserID:  req.UserID,
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Success: req.Success,
		Reason:  req.Reason,
	}
	if ip, ok := composables.UseIP(r.Context()); ok {
		entry.IP = ip
	}
	if ua, ok := composables.UseUserAgent(r.Context()); ok {
		entry.UserAgent = ua
	}

	if err := c.logs.RecordLogin(r.Context(), entry); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toLoginAuditResponse(entry))
}

type logLevelResponse struct {
	Level string `json:"level"`
}

func (c *LogsController) GetLevel(w http.ResponseWriter, r *http.Request) {
	_ = httpapi.WriteJSON(w, http.StatusOK, logLevelResponse{Level: c.logs.Level()})
}

func (c *LogsController) SetLevel(w http.ResponseWriter, r *http.Request) {
	var req logLevelResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
		return
	}
	identity, err := composables.UseIdentity(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	level, err := c.logs.SetLevel(r.Context(), req.Level, identity.UserID)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, logLevelResponse{Level: level})
}

type loginAuditQuery struct {
	Email   string    `query:"email"`
	UserID  uuid.UUID `query:"userId"`
	Success *bool     `query:"success"`
	From    time.Time `query:"from"`
	To      time.Time `query:"to"`
}

func buildLoginAuditFilters(r *http.Request, limit, offset int) (*loginaudit.FindParams, error) {
	q, err := composables.UseQuery(&loginAuditQuery{}, r)
	if err != nil {
		if field := shared.DecodeErrorField(err); field != "" {
			return nil, loginAuditFilterError(field)
		}
		return nil, serrors.NewValidation("FILTER_INVALID", "invalid filter value")
	}

	params := &loginaudit.FindParams{
		Email:   strings.TrimSpace(q.Email),
		Success: q.Success,
		Limit:   limit,
		Offset:  offset,
	}
	if q.UserID != uuid.Nil {
		id := q.UserID
		params.UserID = &id
	}
	if !q.From.IsZero() {
		from := q.From
		params.From = &from
	}
	if !q.To.IsZero() {
		to := q.To
		params.To = &to
	}
	return params, nil
}

func loginAuditFilterError(field string) error {
	return serrors.NewValidation("FILTER_INVALID", field+" filter is invalid")
}
