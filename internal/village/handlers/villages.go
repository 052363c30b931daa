package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"travian-planner/internal/shared/errors"
	"travian-planner/internal/shared/response"
	"travian-planner/internal/village"
)

const maxImportBytes = 10 << 20 // 10 MB

type VillageHandler struct {
	service *village.Service
}

func NewVillageHandler(service *village.Service) *VillageHandler {
	return &VillageHandler{service: service}
}

// Search handles GET /api/villages?q=&limit=
func (h *VillageHandler) Search(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "search_villages")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			response.Error(w, r, logger, errors.Validation("limit must be a positive integer"))
			return
		}
	}

	villages, err := h.service.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, villages)
}

// Import handles POST /api/villages/import - Admin only. The body is the raw
// map dump text.
func (h *VillageHandler) Import(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "import_villages")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	result, err := h.service.Import(r.Context(), r.Body)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}
