package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"travian-planner/internal/shared/errors"
	"travian-planner/internal/shared/response"
	"travian-planner/internal/travel"
)

type DistanceResponse struct {
	From     travel.Coordinate `json:"from"`
	To       travel.Coordinate `json:"to"`
	Distance float64           `json:"distance"`
}

type TravelHandler struct{}

func NewTravelHandler() *TravelHandler {
	return &TravelHandler{}
}

// Units handles GET /api/units
func (h *TravelHandler) Units(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "units")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	units, err := travel.Units()
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to load unit catalog", err))
		return
	}

	response.Success(w, http.StatusOK, units)
}

// Distance handles GET /api/travel/distance?x1=&y1=&x2=&y2=
func (h *TravelHandler) Distance(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "distance")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	query := r.URL.Query()
	var coords [4]int
	for i, name := range []string{"x1", "y1", "x2", "y2"} {
		value, err := strconv.Atoi(query.Get(name))
		if err != nil {
			response.Error(w, r, logger, errors.WrapValidation("parameter "+name+" must be an integer", err))
			return
		}
		if !travel.InBounds(value) {
			response.Error(w, r, logger, errors.Validationf("parameter %s must be within [%d, %d]", name, travel.MinCoord, travel.MaxCoord))
			return
		}
		coords[i] = value
	}

	from := travel.Coordinate{X: coords[0], Y: coords[1]}
	to := travel.Coordinate{X: coords[2], Y: coords[3]}

	response.Success(w, http.StatusOK, DistanceResponse{
		From:     from,
		To:       to,
		Distance: travel.DistanceBetween(from, to),
	})
}
