package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	coreservices "github.com/planora/planora/modules/core/services"
	"github.com/planora/planora/modules/directory/domain/entities/office"
	"github.com/planora/planora/modules/directory/presentation/mappers"
	"github.com/planora/planora/modules/directory/presentation/viewmodels"
	"github.com/planora/planora/modules/directory/services"
	"github.com/planora/planora/pkg/application"
	"github.com/planora/planora/pkg/authz"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/httpapi"
	"github.com/planora/planora/pkg/middleware"
)

var officesAuthzObject = authz.ObjectName("directory", "offices")

type OfficesController struct {
	app      application.Application
	offices  *services.OfficeService
	access   *coreservices.AccessService
	basePath string
}

func NewOfficesController(app application.Application) application.Controller {
	return &OfficesController{
		app:      app,
		offices:  app.Service(services.OfficeService{}).(*services.OfficeService),
		access:   app.Service(coreservices.AccessService{}).(*coreservices.AccessService),
		basePath: "/api/offices",
	}
}

func (c *OfficesController) Key() string {
	return c.basePath
}

func (c *OfficesController) Register(r *mux.Router) {
	read := r.PathPrefix(c.basePath).Subrouter()
	read.Use(tenantFromQuery, middleware.RequirePermission(c.access, officesAuthzObject, "read"))
	read.HandleFunc("", c.List).Methods(http.MethodGet)
	read.HandleFunc("/{id}", c.GetByID).Methods(http.MethodGet)
	read.HandleFunc("/{id}/spaces", c.ListSpaces).Methods(http.MethodGet)

	write := r.PathPrefix(c.basePath).Subrouter()
	write.Use(tenantFromQuery, middleware.RequirePermission(c.access, officesAuthzObject, "write"))
	write.HandleFunc("", c.Create).Methods(http.MethodPost)
	write.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	write.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
	write.HandleFunc("/{id}/spaces", c.AddSpace).Methods(http.MethodPost)
	write.HandleFunc("/spaces/{id}", c.RemoveSpace).Methods(http.MethodDelete)
}

// tenantFromQuery lets callers pin the tenant with a tenantId query
// parameter. The value goes through the same claim validation as the
// tenant header, so naming a foreign tenant falls back to the caller's
// own claims.
func tenantFromQuery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("tenantId")
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		identity, err := composables.UseIdentity(r.Context())
		if err != nil {
			_ = httpapi.WriteError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}
		tenantID, err := middleware.ResolveTenant(raw, identity)
		if err != nil {
			httpapi.WriteServiceError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(composables.WithTenantID(r.Context(), tenantID)))
	})
}

func (c *OfficesController) List(w http.ResponseWriter, r *http.Request) {
	found, err := c.offices.GetAll(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	items := make([]viewmodels.Office, 0, len(found))
	for _, o := range found {
		items = append(items, mappers.OfficeToViewModel(o))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, items)
}

func (c *OfficesController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	o, err := c.offices.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.OfficeToViewModel(o))
}

func (c *OfficesController) Create(w http.ResponseWriter, r *http.Request) {
	dto := &office.OfficeDTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
		return
	}
	created, err := c.offices.Create(r.Context(), dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.OfficeToViewModel(created))
}

func (c *OfficesController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	dto := &office.OfficeDTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
		return
	}
	updated, err := c.offices.Update(r.Context(), id, dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.OfficeToViewModel(updated))
}

func (c *OfficesController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.offices.Delete(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *OfficesController) ListSpaces(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	found, err := c.offices.ListSpaces(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	items := make([]viewmodels.Space, 0, len(found))
	for _, s := range found {
		items = append(items, mappers.SpaceToViewModel(s))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, items)
}

func (c *OfficesController) AddSpace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	dto := &office.SpaceDTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
		return
	}
	created, err := c.offices.AddSpace(r.Context(), id, dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.SpaceToViewModel(created))
}

func (c *OfficesController) RemoveSpace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.offices.RemoveSpace(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
