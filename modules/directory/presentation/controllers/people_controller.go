package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	coreviewmodels "github.com/planora/planora/modules/core/presentation/viewmodels"
	coreservices "github.com/planora/planora/modules/core/services"
	"github.com/planora/planora/modules/directory/domain/entities/person"
	"github.com/planora/planora/modules/directory/presentation/mappers"
	"github.com/planora/planora/modules/directory/presentation/viewmodels"
	"github.com/planora/planora/modules/directory/services"
	"github.com/planora/planora/pkg/application"
	"github.com/planora/planora/pkg/authz"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/httpapi"
	"github.com/planora/planora/pkg/middleware"
)

var peopleAuthzObject = authz.ObjectName("directory", "people")

type PeopleController struct {
	app      application.Application
	people   *services.PersonService
	access   *coreservices.AccessService
	basePath string
}

func NewPeopleController(app application.Application) application.Controller {
	return &PeopleController{
		app:      app,
		people:   app.Service(services.PersonService{}).(*services.PersonService),
		access:   app.Service(coreservices.AccessService{}).(*coreservices.AccessService),
		basePath: "/api/people",
	}
}

func (c *PeopleController) Key() string {
	return c.basePath
}

func (c *PeopleController) Register(r *mux.Router) {
	read := r.PathPrefix(c.basePath).Subrouter()
	read.Use(middleware.RequirePermission(c.access, peopleAuthzObject, "read"))
	read.HandleFunc("", c.List).Methods(http.MethodGet)
	read.HandleFunc("/{id}", c.GetByID).Methods(http.MethodGet)

	write := r.PathPrefix(c.basePath).Subrouter()
	write.Use(middleware.RequirePermission(c.access, peopleAuthzObject, "write"))
	write.HandleFunc("", c.Create).Methods(http.MethodPost)
	write.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	write.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

type peopleQuery struct {
	Q        string    `query:"q"`
	OfficeID uuid.UUID `query:"officeId"`
	Status   string    `query:"status"`
}

func (c *PeopleController) List(w http.ResponseWriter, r *http.Request) {
	pagination := composables.UsePaginated(r)
	q, err := composables.UseQuery(&peopleQuery{}, r)
	if err != nil {
		httpapi.WriteFilterError(w, r, err)
		return
	}

	params := &person.FindParams{
		Q:        q.Q,
		OfficeID: q.OfficeID,
		Limit:    pagination.Limit,
		Offset:   pagination.Offset,
	}
	if q.Status != "" {
		status, ok := person.ParseStatus(q.Status)
		if !ok {
			_ = httpapi.WriteError(w, r, http.StatusBadRequest, "FILTER_INVALID", "unknown status: "+q.Status)
			return
		}
		params.Status = status
	}

	found, total, err := c.people.GetPaginated(r.Context(), params)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}

	items := make([]viewmodels.Person, 0, len(found))
	for _, p := range found {
		items = append(items, mappers.PersonToViewModel(p))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, coreviewmodels.Paginated[viewmodels.Person]{
		Items:    items,
		Total:    total,
		Page:     pagination.Page,
		PageSize: pagination.Limit,
	})
}

func (c *PeopleController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := c.people.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.PersonToViewModel(p))
}

func (c *PeopleController) Create(w http.ResponseWriter, r *http.Request) {
	dto := &person.CreateDTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
		return
	}
	created, err := c.people.Create(r.Context(), dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.PersonToViewModel(created))
}

func (c *PeopleController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	dto := &person.UpdateDTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
		return
	}
	updated, err := c.people.Update(r.Context(), id, dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.PersonToViewModel(updated))
}

func (c *PeopleController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.people.Delete(r.Context(), id); err != nil {
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
