package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/planora/planora/modules/core/presentation/mappers"
	"github.com/planora/planora/modules/core/presentation/viewmodels"
	"github.com/planora/planora/modules/core/services"
	"github.com/planora/planora/pkg/application"
	"github.com/planora/planora/pkg/authz"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/httpapi"
	"github.com/planora/planora/pkg/middleware"
)

var tenantsAuthzObject = authz.ObjectName("core", "tenants")

type TenantsController struct {
	app      application.Application
	tenants  *services.TenantService
	access   *services.AccessService
	basePath string
}

func NewTenantsController(app application.Application) application.Controller {
	return &TenantsController{
		app:      app,
		tenants:  app.Service(services.TenantService{}).(*services.TenantService),
		access:   app.Service(services.AccessService{}).(*services.AccessService),
		basePath: "/api/tenants",
	}
}

func (c *TenantsController) Key() string {
	return c.basePath
}

func (c *TenantsController) Register(r *mux.Router) {
	// Any member may ask which tenant their requests resolved to. The
	// full directory is an administrative view.
	read := r.PathPrefix(c.basePath).Subrouter()
	read.Use(middleware.RequirePermission(c.access, tenantsAuthzObject, "read"))
	read.HandleFunc("/current", c.Current).Methods(http.MethodGet)

	manage := r.PathPrefix(c.basePath).Subrouter()
	manage.Use(middleware.RequirePermission(c.access, tenantsAuthzObject, "manage"))
	manage.HandleFunc("", c.List).Methods(http.MethodGet)
}

func (c *TenantsController) Current(w http.ResponseWriter, r *http.Request) {
	tenantID, err := composables.UseTenantID(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	t, err := c.tenants.GetByID(r.Context(), tenantID)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.TenantToViewModel(t))
}

func (c *TenantsController) List(w http.ResponseWriter, r *http.Request) {
	found, err := c.tenants.GetAll(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	items := make([]viewmodels.Tenant, 0, len(found))
	for _, t := range found {
		items = append(items, mappers.TenantToViewModel(t))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, items)
}
