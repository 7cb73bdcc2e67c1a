package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/planora/planora/modules/core/domain/aggregates/user"
	"github.com/planora/planora/modules/core/presentation/mappers"
	"github.com/planora/planora/modules/core/presentation/viewmodels"
	"github.com/planora/planora/modules/core/services"
	"github.com/planora/planora/pkg/application"
	"github.com/planora/planora/pkg/authz"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/httpapi"
	"github.com/planora/planora/pkg/middleware"
)

var usersAuthzObject = authz.ObjectName("core", "users")

type UsersController struct {
	app      application.Application
	users    *services.UserService
	access   *services.AccessService
	basePath string
}

func NewUsersController(app application.Application) application.Controller {
	return &UsersController{
		app:      app,
		users:    app.Service(services.UserService{}).(*services.UserService),
		access:   app.Service(services.AccessService{}).(*services.AccessService),
		basePath: "/api/users",
	}
}

func (c *UsersController) Key() string {
	return c.basePath
}

func (c *UsersController) Register(r *mux.Router) {
	read := r.PathPrefix(c.basePath).Subrouter()
	read.Use(middleware.RequirePermission(c.access, usersAuthzObject, "read"))
	read.HandleFunc("", c.List).Methods(http.MethodGet)
	read.HandleFunc("/{id}", c.GetByID).Methods(http.MethodGet)

	write := r.PathPrefix(c.basePath).Subrouter()
	write.Use(middleware.RequirePermission(c.access, usersAuthzObject, "write"))
	write.HandleFunc("", c.Create).Methods(http.MethodPost)
	write.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	write.HandleFunc("/{id}/deactivate", c.Deactivate).Methods(http.MethodPost)
	write.HandleFunc("/{id}/reactivate", c.Reactivate).Methods(http.MethodPost)
	write.HandleFunc("/{id}/memberships", c.AddMembership).Methods(http.MethodPost)

	memberships := r.PathPrefix("/api/memberships").Subrouter()
	memberships.Use(middleware.RequirePermission(c.access, usersAuthzObject, "write"))
	memberships.HandleFunc("/{id}/active", c.SetMembershipActive).Methods(http.MethodPut)
}

type usersQuery struct {
	Q string `query:"q"`
}

func (c *UsersController) List(w http.ResponseWriter, r *http.Request) {
	pagination := composables.UsePaginated(r)
	q, err := composables.UseQuery(&usersQuery{}, r)
	if err != nil {
		httpapi.WriteFilterError(w, r, err)
		return
	}
	params := &user.FindParams{
		Q:      q.Q,
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	}

	found, total, err := c.users.GetPaginated(r.Context(), params)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}

	items := make([]viewmodels.User, 0, len(found))
	for _, u := range found {
		items = append(items, mappers.UserToViewModel(u))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.Paginated[viewmodels.User]{
		Items:    items,
		Total:    total,
		Page:     pagination.Page,
		PageSize: pagination.Limit,
	})
}

func (c *UsersController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := c.users.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.UserToViewModel(u))
}

func (c *UsersController) Create(w http.ResponseWriter, r *http.Request) {
	dto := &user.CreateDTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
		return
	}
	created, err := c.users.Create(r.Context(), dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.UserToViewModel(created))
}

func (c *UsersController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	dto := &user.UpdateDTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
		return
	}
	updated, err := c.users.Update(r.Context(), id, dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.UserToViewModel(updated))
}

func (c *UsersController) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	identity, err := composables.UseIdentity(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}
	deactivated, err := c.users.Deactivate(r.Context(), id, identity.UserID)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.UserToViewModel(deactivated))
}

func (c *UsersController) Reactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	restored, err := c.users.Reactivate(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.UserToViewModel(restored))
}

type addMembershipRequest struct {
	TenantID uuid.UUID `json:"tenantId"`
	Roles    []string  `json:"roles"`
}

func (c *UsersController) AddMembership(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req addMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
		return
	}
	if req.TenantID == uuid.Nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "FIELD_REQUIRED", "tenantId is required")
		return
	}
	roles := make([]user.Role, 0, len(req.Roles))
	for _, name := range req.Roles {
		role, ok := user.ParseRole(name)
		if !ok {
			_ = httpapi.WriteError(w, r, http.StatusBadRequest, "ROLE_UNKNOWN", "unknown role: "+name)
			return
		}
		roles = append(roles, role)
	}

	created, err := c.users.AddMembership(r.Context(), id, req.TenantID, roles)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.MembershipToViewModel(created))
}

type setMembershipActiveRequest struct {
	Active bool `json:"active"`
}

func (c *UsersController) SetMembershipActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req setMembershipActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
		return
	}
	if err := c.users.SetMembershipActive(r.Context(), id, req.Active); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_ID", "id is not a valid uuid")
		return uuid.Nil, false
	}
	return id, true
}
