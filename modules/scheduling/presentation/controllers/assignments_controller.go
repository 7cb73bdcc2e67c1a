package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	corevms "github.com/planora/planora/modules/core/presentation/viewmodels"
	coreservices "github.com/planora/planora/modules/core/services"
	"github.com/planora/planora/modules/scheduling/domain/aggregates/assignment"
	"github.com/planora/planora/modules/scheduling/presentation/mappers"
	"github.com/planora/planora/modules/scheduling/presentation/viewmodels"
	"github.com/planora/planora/modules/scheduling/services"
	"github.com/planora/planora/pkg/application"
	"github.com/planora/planora/pkg/authz"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/httpapi"
	"github.com/planora/planora/pkg/middleware"
)

var assignmentsAuthzObject = authz.ObjectName("scheduling", "assignments")

type AssignmentsController struct {
	app         application.Application
	assignments *services.AssignmentService
	access      *coreservices.AccessService
	basePath    string
}

func NewAssignmentsController(app application.Application) application.Controller {
	return &AssignmentsController{
		app:         app,
		assignments: app.Service(services.AssignmentService{}).(*services.AssignmentService),
		access:      app.Service(coreservices.AccessService{}).(*coreservices.AccessService),
		basePath:    "/api/assignments",
	}
}

func (c *AssignmentsController) Key() string {
	return c.basePath
}

func (c *AssignmentsController) Register(r *mux.Router) {
	read := r.PathPrefix(c.basePath).Subrouter()
	read.Use(middleware.RequirePermission(c.access, assignmentsAuthzObject, "read"))
	read.HandleFunc("", c.List).Methods(http.MethodGet)
	read.HandleFunc("/{id}", c.GetByID).Methods(http.MethodGet)

	write := r.PathPrefix(c.basePath).Subrouter()
	write.Use(middleware.RequirePermission(c.access, assignmentsAuthzObject, "write"))
	write.HandleFunc("", c.Create).Methods(http.MethodPost)
	write.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	write.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)

	approve := r.PathPrefix(c.basePath).Subrouter()
	approve.Use(middleware.RequirePermission(c.access, assignmentsAuthzObject, "approve"))
	approve.HandleFunc("/{id}/approve", c.Approve).Methods(http.MethodPost)
}

type assignmentsQuery struct {
	PersonID  uuid.UUID `query:"personId"`
	ProjectID uuid.UUID `query:"projectId"`
	Status    string    `query:"status"`
}

func (c *AssignmentsController) List(w http.ResponseWriter, r *http.Request) {
	pagination := composables.UsePaginated(r)
	q, err := composables.UseQuery(&assignmentsQuery{}, r)
	if err != nil {
		httpapi.WriteFilterError(w, r, err)
		return
	}

	params := &assignment.FindParams{
		PersonID:     q.PersonID,
		WbsElementID: q.ProjectID,
		Limit:        pagination.Limit,
		Offset:       pagination.Offset,
	}
	if q.Status != "" {
		status, ok := assignment.ParseStatus(q.Status)
		if !ok {
			_ = httpapi.WriteError(w, r, http.StatusBadRequest, "FILTER_INVALID", "unknown status: "+q.Status)
			return
		}
		params.Status = status
	}

	found, total, err := c.assignments.GetPaginated(r.Context(), params)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}

	items := make([]viewmodels.Assignment, 0, len(found))
	for _, a := range found {
		items = append(items, mappers.AssignmentToViewModel(a))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, corevms.Paginated[viewmodels.Assignment]{
		Items:    items,
		Total:    total,
		Page:     pagination.Page,
		PageSize: pagination.Limit,
	})
}

func (c *AssignmentsController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := c.assignments.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.AssignmentToViewModel(a))
}

func (c *AssignmentsController) Create(w http.ResponseWriter, r *http.Request) {
	dto := &assignment.CreateDTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
		return
	}
	created, err := c.assignments.Create(r.Context(), dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.AssignmentToViewModel(created))
}

func (c *AssignmentsController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	dto := &assignment.UpdateDTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
		return
	}
	updated, err := c.assignments.Update(r.Context(), id, dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.AssignmentToViewModel(updated))
}

func (c *AssignmentsController) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	identity, err := composables.UseIdentity(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}
	approved, err := c.assignments.Approve(r.Context(), id, identity.UserID)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.AssignmentToViewModel(approved))
}

func (c *AssignmentsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.assignments.Delete(r.Context(), id); err != nil {
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
