package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/timetracking-api/internal/middleware"
	"github.com/timetracking-api/internal/repository"
	"github.com/timetracking-api/pkg/token"
)

// Router настраивает маршруты API
type Router struct {
	logger          *slog.Logger
	tokens          *token.Manager
	personRepo      repository.PersonRepository
	authHandler     *AuthHandler
	hoursHandler    *HoursHandler
	reportHandler   *ReportHandler
	employeeHandler *EmployeeHandler
	deptHandler     *DepartmentHandler
	channelHandler  *ChannelHandler
}

// NewRouter создаёт новый роутер
func NewRouter(
	logger *slog.Logger,
	tokens *token.Manager,
	personRepo repository.PersonRepository,
	authHandler *AuthHandler,
	hoursHandler *HoursHandler,
	reportHandler *ReportHandler,
	employeeHandler *EmployeeHandler,
	deptHandler *DepartmentHandler,
	channelHandler *ChannelHandler,
) *Router {
	return &Router{
		logger:          logger,
		tokens:          tokens,
		personRepo:      personRepo,
		authHandler:     authHandler,
		hoursHandler:    hoursHandler,
		reportHandler:   reportHandler,
		employeeHandler: employeeHandler,
		deptHandler:     deptHandler,
		channelHandler:  channelHandler,
	}
}

// Setup настраивает все маршруты
func (r *Router) Setup() http.Handler {
	// Маршруты, требующие аутентификации
	api := http.NewServeMux()
	api.HandleFunc("/hours/", r.hoursRouter)
	api.HandleFunc("/reports/", r.reportsRouter)
	api.HandleFunc("/employees/", r.employeesRouter)
	api.HandleFunc("/departments/", r.departmentsRouter)
	api.HandleFunc("/channels/", r.channelsRouter)

	authenticated := middleware.Auth(r.tokens, r.personRepo, r.logger)(api)

	root := http.NewServeMux()
	root.HandleFunc("/auth/login", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
			return
		}
		r.authHandler.Login(w, req)
	})

	// Health check
	root.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	root.Handle("/metrics", promhttp.Handler())
	root.Handle("/", authenticated)

	// Применяем middleware
	handler := middleware.ContentType(root)
	handler = middleware.Metrics(handler)
	handler = middleware.Logger(r.logger)(handler)
	handler = middleware.Recoverer(r.logger)(handler)

	return handler
}

// hoursRouter обрабатывает все запросы к /hours/
func (r *Router) hoursRouter(w http.ResponseWriter, req *http.Request) {
	path := strings.Trim(strings.TrimPrefix(req.URL.Path, "/hours"), "/")

	if path == "" {
		switch req.Method {
		case http.MethodPost:
			r.hoursHandler.Create(w, req)
		case http.MethodGet:
			r.hoursHandler.List(w, req)
		default:
			http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		}
		return
	}

	// /hours/{id}
	switch req.Method {
	case http.MethodPatch:
		r.hoursHandler.Update(w, req)
	case http.MethodDelete:
		r.hoursHandler.Delete(w, req)
	default:
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
	}
}

// reportsRouter обрабатывает все запросы к /reports/
func (r *Router) reportsRouter(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	switch strings.Trim(strings.TrimPrefix(req.URL.Path, "/reports"), "/") {
	case "channels":
		r.reportHandler.Channels(w, req)
	case "departments":
		r.reportHandler.Departments(w, req)
	case "employees":
		r.reportHandler.Employees(w, req)
	default:
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}
}

// employeesRouter обрабатывает все запросы к /employees/
func (r *Router) employeesRouter(w http.ResponseWriter, req *http.Request) {
	path := strings.Trim(strings.TrimPrefix(req.URL.Path, "/employees"), "/")

	if path == "" {
		switch req.Method {
		case http.MethodPost:
			r.employeeHandler.Create(w, req)
		case http.MethodGet:
			r.employeeHandler.List(w, req)
		default:
			http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		}
		return
	}

	// /employees/{id}
	switch req.Method {
	case http.MethodPatch:
		r.employeeHandler.Update(w, req)
	case http.MethodDelete:
		r.employeeHandler.Deactivate(w, req)
	default:
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
	}
}

// departmentsRouter обрабатывает все запросы к /departments/
func (r *Router) departmentsRouter(w http.ResponseWriter, req *http.Request) {
	if strings.Trim(strings.TrimPrefix(req.URL.Path, "/departments"), "/") != "" {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	switch req.Method {
	case http.MethodPost:
		r.deptHandler.Create(w, req)
	case http.MethodGet:
		r.deptHandler.List(w, req)
	default:
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
	}
}

// channelsRouter обрабатывает все запросы к /channels/
func (r *Router) channelsRouter(w http.ResponseWriter, req *http.Request) {
	if strings.Trim(strings.TrimPrefix(req.URL.Path, "/channels"), "/") != "" {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	switch req.Method {
	case http.MethodPost:
		r.channelHandler.Create(w, req)
	case http.MethodGet:
		r.channelHandler.List(w, req)
	default:
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
	}
}
