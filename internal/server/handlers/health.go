package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"travian-planner/internal/shared/database"
	"travian-planner/internal/shared/redis"
	"travian-planner/internal/shared/response"
	"travian-planner/internal/village"
)

const (
	statusConnected    = "connected"
	statusDisconnected = "disconnected"
	statusDisabled     = "disabled"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Redis     string `json:"redis"`
	Villages  int    `json:"villages"`
}

type HealthHandler struct {
	db       *database.DB
	redis    *redis.Client
	villages *village.Service
}

func NewHealthHandler(db *database.DB, rdb *redis.Client, villages *village.Service) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb, villages: villages}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbStatus := statusDisabled
	if h.db != nil {
		dbStatus = statusConnected
		if err := h.db.PingContext(ctx); err != nil {
			dbStatus = statusDisconnected
			logger.Warn("Database ping failed", "error", err)
		}
	}

	redisStatus := statusDisabled
	if h.redis != nil {
		redisStatus = statusConnected
		if err := h.redis.Ping(ctx).Err(); err != nil {
			redisStatus = statusDisconnected
			logger.Warn("Redis ping failed", "error", err)
		}
	}

	villages, err := h.villages.Count(ctx)
	if err != nil {
		logger.Warn("Village count failed", "error", err)
	}

	status := "healthy"
	if dbStatus == statusDisconnected || redisStatus == statusDisconnected {
		status = "degraded"
	}

	resp := HealthResponse{
		Status:    status,
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  dbStatus,
		Redis:     redisStatus,
		Villages:  villages,
	}

	response.Success(w, http.StatusOK, resp)
}
