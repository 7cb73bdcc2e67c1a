package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	coreviewmodels "github.com/planora/planora/modules/core/presentation/viewmodels"
	coreservices "github.com/planora/planora/modules/core/services"
	"github.com/planora/planora/modules/salesops/domain/entities/account"
	"github.com/planora/planora/modules/salesops/domain/entities/stage"
	"github.com/planora/planora/modules/salesops/presentation/mappers"
	"github.com/planora/planora/modules/salesops/presentation/viewmodels"
	"github.com/planora/planora/modules/salesops/services"
	"github.com/planora/planora/pkg/application"
	"github.com/planora/planora/pkg/authz"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/httpapi"
	"github.com/planora/planora/pkg/middleware"
)

var (
	accountsAuthzObject = authz.ObjectName("salesops", "accounts")
	stagesAuthzObject   = authz.ObjectName("salesops", "stages")
)

type SalesOpsController struct {
	app      application.Application
	sales    *services.SalesService
	access   *coreservices.AccessService
	basePath string
}

func NewSalesOpsController(app application.Application) application.Controller {
	return &SalesOpsController{
		app:      app,
		sales:    app.Service(services.SalesService{}).(*services.SalesService),
		access:   app.Service(coreservices.AccessService{}).(*coreservices.AccessService),
		basePath: "/api/salesops",
	}
}

func (c *SalesOpsController) Key() string {
	return c.basePath
}

func (c *SalesOpsController) Register(r *mux.Router) {
	accountsRead := r.PathPrefix(c.basePath + "/accounts").Subrouter()
	accountsRead.Use(middleware.RequirePermission(c.access, accountsAuthzObject, "read"))
	accountsRead.HandleFunc("", c.ListAccounts).Methods(http.MethodGet)
	accountsRead.HandleFunc("/{id}", c.GetAccount).Methods(http.MethodGet)

	accountsWrite := r.PathPrefix(c.basePath + "/accounts").Subrouter()
	accountsWrite.Use(middleware.RequirePermission(c.access, accountsAuthzObject, "write"))
	accountsWrite.HandleFunc("", c.CreateAccount).Methods(http.MethodPost)
	accountsWrite.HandleFunc("/{id}", c.UpdateAccount).Methods(http.MethodPut)
	accountsWrite.HandleFunc("/{id}", c.DeleteAccount).Methods(http.MethodDelete)

	stagesRead := r.PathPrefix(c.basePath + "/stages").Subrouter()
	stagesRead.Use(middleware.RequirePermission(c.access, stagesAuthzObject, "read"))
	stagesRead.HandleFunc("", c.ListStages).Methods(http.MethodGet)
	stagesRead.HandleFunc("/{id}", c.GetStage).Methods(http.MethodGet)

	stagesWrite := r.PathPrefix(c.basePath + "/stages").Subrouter()
	stagesWrite.Use(middleware.RequirePermission(c.access, stagesAuthzObject, "write"))
	stagesWrite.HandleFunc("", c.CreateStage).Methods(http.MethodPost)
	stagesWrite.HandleFunc("/{id}", c.UpdateStage).Methods(http.MethodPut)
	stagesWrite.HandleFunc("/{id}", c.DeleteStage).Methods(http.MethodDelete)
}

type accountsQuery struct {
	Q       string    `query:"q"`
	StageID uuid.UUID `query:"stageId"`
}

func (c *SalesOpsController) ListAccounts(w http.ResponseWriter, r *http.Request) {
	pagination := composables.UsePaginated(r)
	q, err := composables.UseQuery(&accountsQuery{}, r)
	if err != nil {
		httpapi.WriteFilterError(w, r, err)
		return
	}

	params := &account.FindParams{
		Q:       q.Q,
		StageID: q.StageID,
		Limit:   pagination.Limit,
		Offset:  pagination.Offset,
	}

	found, total, err := c.sales.GetAccounts(r.Context(), params)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}

	items := make([]viewmodels.Account, 0, len(found))
	for _, a := range found {
		items = append(items, mappers.AccountToViewModel(a))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, coreviewmodels.Paginated[viewmodels.Account]{
		Items:    items,
		Total:    total,
		Page:     pagination.Page,
		PageSize: pagination.Limit,
	})
}

func (c *SalesOpsController) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := c.sales.GetAccount(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.AccountToViewModel(a))
}

func (c *SalesOpsController) CreateAccount(w http.ResponseWriter, r *http.Request) {
	dto := &account.DTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
		return
	}
	created, err := c.sales.CreateAccount(r.Context(), dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.AccountToViewModel(created))
}

func (c *SalesOpsController) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	dto := &account.DTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
		return
	}
	updated, err := c.sales.UpdateAccount(r.Context(), id, dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.AccountToViewModel(updated))
}

func (c *SalesOpsController) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.sales.DeleteAccount(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *SalesOpsController) ListStages(w http.ResponseWriter, r *http.Request) {
	found, err := c.sales.GetStages(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	items := make([]viewmodels.Stage, 0, len(found))
	for _, s := range found {
		items = append(items, mappers.StageToViewModel(s))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, items)
}

func (c *SalesOpsController) GetStage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s, err := c.sales.GetStage(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.StageToViewModel(s))
}

func (c *SalesOpsController) CreateStage(w http.ResponseWriter, r *http.Request) {
	dto := &stage.DTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
		return
	}
	created, err := c.sales.CreateStage(r.Context(), dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.StageToViewModel(created))
}

func (c *SalesOpsController) UpdateStage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	dto := &stage.DTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
		return
	}
	updated, err := c.sales.UpdateStage(r.Context(), id, dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.StageToViewModel(updated))
}

func (c *SalesOpsController) DeleteStage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.sales.DeleteStage(r.Context(), id); err != nil {
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
