package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/itsatony/irrigador/api/middleware"
	"github.com/itsatony/irrigador/api/resources"
	"github.com/itsatony/irrigador/internal/monitoring"
	"github.com/itsatony/irrigador/internal/service"
)

type Router struct {
	router    *mux.Router
	auth      *middleware.TokenMiddleware
	resources *resources.Resources
}

func NewRouter(svc *service.Service, mon *monitoring.Service, auth *middleware.TokenMiddleware) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      auth,
		resources: resources.NewResources(svc, mon),
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// Public routes
	r.router.HandleFunc("/health", r.resources.System.HealthCheck).Methods(http.MethodGet)
	r.router.HandleFunc("/metrics", r.resources.System.Metrics).Methods(http.MethodGet)

	// Protected routes
	protected := r.router.PathPrefix("").Subrouter()
	protected.Use(r.auth.Authenticate)

	protected.HandleFunc("/snapshot/{deviceId}", r.resources.Snapshots.GetLatestSnapshot).Methods(http.MethodGet)
	// A missing id matches here so the caller gets the validation error instead of a bare 404.
	protected.HandleFunc("/snapshot/", r.resources.Snapshots.GetLatestSnapshot).Methods(http.MethodGet)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
