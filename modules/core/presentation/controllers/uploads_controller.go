package controllers

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/planora/planora/modules/core/domain/entities/upload"
	"github.com/planora/planora/modules/core/presentation/mappers"
	"github.com/planora/planora/modules/core/presentation/viewmodels"
	"github.com/planora/planora/modules/core/services"
	"github.com/planora/planora/pkg/application"
	"github.com/planora/planora/pkg/authz"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/configuration"
	"github.com/planora/planora/pkg/httpapi"
	"github.com/planora/planora/pkg/middleware"
)

var uploadsAuthzObject = authz.ObjectName("core", "uploads")

type UploadsController struct {
	app      application.Application
	uploads  *services.UploadService
	access   *services.AccessService
	basePath string
}

func NewUploadsController(app application.Application) application.Controller {
	return &UploadsController{
		app:      app,
		uploads:  app.Service(services.UploadService{}).(*services.UploadService),
		access:   app.Service(services.AccessService{}).(*services.AccessService),
		basePath: "/api/uploads",
	}
}

func (c *UploadsController) Key() string {
	return c.basePath
}

func (c *UploadsController) Register(r *mux.Router) {
	read := r.PathPrefix(c.basePath).Subrouter()
	read.Use(middleware.RequirePermission(c.access, uploadsAuthzObject, "read"))
	read.HandleFunc("", c.List).Methods(http.MethodGet)
	read.HandleFunc("/{id}", c.GetByID).Methods(http.MethodGet)

	write := r.PathPrefix(c.basePath).Subrouter()
	write.Use(middleware.RequirePermission(c.access, uploadsAuthzObject, "write"))
	write.HandleFunc("", c.Create).Methods(http.MethodPost)
	write.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

func (c *UploadsController) List(w http.ResponseWriter, r *http.Request) {
	pagination := composables.UsePaginated(r)
	found, total, err := c.uploads.GetPaginated(r.Context(), &upload.FindParams{
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	})
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	items := make([]viewmodels.Upload, 0, len(found))
	for _, u := range found {
		items = append(items, mappers.UploadToViewModel(u))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.Paginated[viewmodels.Upload]{
		Items:    items,
		Total:    total,
		Page:     pagination.Page,
		PageSize: pagination.Limit,
	})
}

func (c *UploadsController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := c.uploads.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.UploadToViewModel(u))
}

func (c *UploadsController) Create(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	if err := r.ParseMultipartForm(conf.MaxUploadSize); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpapi.WriteServiceError(w, r, upload.ErrNoFile)
		return
	}
	defer func() { _ = file.Close() }()

	payload, err := io.ReadAll(io.LimitReader(file, conf.MaxUploadSize+1))
	if err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_BODY", "failed to read file")
		return
	}

	created, err := c.uploads.Create(r.Context(), header.Filename, payload)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.UploadToViewModel(created))
}

func (c *UploadsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := c.uploads.Delete(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.UploadToViewModel(deleted))
}
