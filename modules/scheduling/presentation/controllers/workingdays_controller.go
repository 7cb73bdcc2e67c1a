package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	coreservices "github.com/planora/planora/modules/core/services"
	"github.com/planora/planora/modules/scheduling/domain/entities/holiday"
	"github.com/planora/planora/modules/scheduling/presentation/mappers"
	"github.com/planora/planora/modules/scheduling/presentation/viewmodels"
	"github.com/planora/planora/modules/scheduling/services"
	"github.com/planora/planora/pkg/application"
	"github.com/planora/planora/pkg/authz"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/httpapi"
	"github.com/planora/planora/pkg/middleware"
)

var calendarAuthzObject = authz.ObjectName("scheduling", "calendar")

type WorkingDaysController struct {
	app         application.Application
	workingDays *services.WorkingDaysService
	access      *coreservices.AccessService
	basePath    string
}

func NewWorkingDaysController(app application.Application) application.Controller {
	return &WorkingDaysController{
		app:         app,
		workingDays: app.Service(services.WorkingDaysService{}).(*services.WorkingDaysService),
		access:      app.Service(coreservices.AccessService{}).(*coreservices.AccessService),
		basePath:    "/api/working-days",
	}
}

func (c *WorkingDaysController) Key() string {
	return c.basePath
}

func (c *WorkingDaysController) Register(r *mux.Router) {
	read := r.PathPrefix(c.basePath).Subrouter()
	read.Use(middleware.RequirePermission(c.access, calendarAuthzObject, "read"))
	// Static paths before the {year}/{month} catch-all.
	read.HandleFunc("/range", c.Range).Methods(http.MethodGet)
	read.HandleFunc("/hours", c.Hours).Methods(http.MethodGet)
	read.HandleFunc("/forecast-hours", c.ForecastHours).Methods(http.MethodGet)
	read.HandleFunc("/{year}/{month}", c.Month).Methods(http.MethodGet)

	holidays := r.PathPrefix("/api/holidays").Subrouter()
	holidays.Use(middleware.RequirePermission(c.access, calendarAuthzObject, "write"))
	holidays.HandleFunc("", c.AddHoliday).Methods(http.MethodPost)
	holidays.HandleFunc("/{id}", c.DeleteHoliday).Methods(http.MethodDelete)
}

func (c *WorkingDaysController) Month(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	year, errYear := strconv.Atoi(vars["year"])
	month, errMonth := strconv.Atoi(vars["month"])
	if errYear != nil || errMonth != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "FIELD_INVALID", "year and month must be integers")
		return
	}
	days, err := c.workingDays.WorkingDays(r.Context(), year, month)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.WorkingDays{
		Year:        year,
		Month:       month,
		WorkingDays: days,
	})
}

func (c *WorkingDaysController) Range(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, errFrom := time.Parse(time.DateOnly, query.Get("from"))
	to, errTo := time.Parse(time.DateOnly, query.Get("to"))
	if errFrom != nil || errTo != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "FIELD_INVALID_DATE", "from and to must be dates in YYYY-MM-DD form")
		return
	}
	days, err := c.workingDays.Range(r.Context(), from, to)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.WorkingDays{WorkingDays: days})
}

func (c *WorkingDaysController) Hours(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	year, errYear := strconv.Atoi(query.Get("year"))
	month, errMonth := strconv.Atoi(query.Get("month"))
	if errYear != nil || errMonth != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "FIELD_INVALID", "year and month must be integers")
		return
	}
	hoursPerDay := 8.0
	if raw := query.Get("hoursPerDay"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			_ = httpapi.WriteError(w, r, http.StatusBadRequest, "FIELD_INVALID", "hoursPerDay must be a number")
			return
		}
		hoursPerDay = parsed
	}

	hours, err := c.workingDays.Hours(r.Context(), year, month, hoursPerDay)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	days, err := c.workingDays.WorkingDays(r.Context(), year, month)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.WorkingHours{
		Year:        year,
		Month:       month,
		WorkingDays: days,
		Hours:       hours,
	})
}

func (c *WorkingDaysController) ForecastHours(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	year, errYear := strconv.Atoi(query.Get("year"))
	month, errMonth := strconv.Atoi(query.Get("month"))
	monthCount, errCount := strconv.Atoi(query.Get("monthCount"))
	if errYear != nil || errMonth != nil || errCount != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "FIELD_INVALID", "year, month and monthCount must be integers")
		return
	}
	utilization, err := strconv.ParseFloat(query.Get("utilization"), 64)
	if err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "FIELD_INVALID", "utilization must be a number")
		return
	}
	hoursPerDay := 8.0
	if raw := query.Get("hoursPerDay"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			_ = httpapi.WriteError(w, r, http.StatusBadRequest, "FIELD_INVALID", "hoursPerDay must be a number")
			return
		}
		hoursPerDay = parsed
	}

	forecast, err := c.workingDays.ForecastHours(r.Context(), year, month, monthCount, utilization, hoursPerDay)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, forecast)
}

type addHolidayRequest struct {
	Day  string `json:"day"`
	Name string `json:"name"`
}

func (c *WorkingDaysController) AddHoliday(w http.ResponseWriter, r *http.Request) {
	var req addHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
		return
	}
	day, err := time.Parse(time.DateOnly, req.Day)
	if err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "FIELD_INVALID_DATE", "day must be a date in YYYY-MM-DD form")
		return
	}
	tenantID, err := composables.UseTenantID(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}

	created, err := c.workingDays.AddHoliday(r.Context(), holiday.Holiday{
		TenantID: tenantID,
		Day:      day,
		Name:     req.Name,
	})
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.HolidayToViewModel(created))
}

func (c *WorkingDaysController) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.workingDays.RemoveHoliday(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
