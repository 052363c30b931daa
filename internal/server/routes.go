package server

import (
	"log/slog"
	"net/http"

	"travian-planner/internal/middleware"
	"travian-planner/internal/planner"
	plannerHandlers "travian-planner/internal/planner/handlers"
	serverHandlers "travian-planner/internal/server/handlers"
	"travian-planner/internal/shared/database"
	"travian-planner/internal/shared/redis"
	travelHandlers "travian-planner/internal/travel/handlers"
	"travian-planner/internal/village"
	villageHandlers "travian-planner/internal/village/handlers"
)

type Routes struct {
	db             *database.DB
	redis          *redis.Client
	plannerService *planner.Service
	villageService *village.Service
	jwtSecret      string
	logger         *slog.Logger
}

// NewRoutes wires the HTTP handlers. db and rdb may be nil when the
// corresponding backend is disabled.
func NewRoutes(db *database.DB, rdb *redis.Client, plannerService *planner.Service, villageService *village.Service, jwtSecret string, logger *slog.Logger) *Routes {
	return &Routes{
		db:             db,
		redis:          rdb,
		plannerService: plannerService,
		villageService: villageService,
		jwtSecret:      jwtSecret,
		logger:         logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := r.logger.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db, r.redis, r.villageService)
	travelHandler := travelHandlers.NewTravelHandler()
	planHandler := plannerHandlers.NewPlanHandler(r.plannerService)
	villageHandler := villageHandlers.NewVillageHandler(r.villageService)

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)
	mux.HandleFunc("/api/units", travelHandler.Units)
	mux.HandleFunc("/api/travel/distance", travelHandler.Distance)
	mux.HandleFunc("/api/plans", planHandler.Compute)
	mux.HandleFunc("/api/plans/export", planHandler.Export)
	mux.HandleFunc("/api/villages", villageHandler.Search)

	// Admin-only endpoints (authenticated + admin role)
	mux.Handle("/api/villages/import", middleware.RequireAdmin(r.jwtSecret, http.HandlerFunc(villageHandler.Import)))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/units", "/api/travel/distance", "/api/plans", "/api/plans/export", "/api/villages"},
		"admin_endpoints", []string{"/api/villages/import"},
		"admin_enabled", r.jwtSecret != "",
	)

	return mux
}
