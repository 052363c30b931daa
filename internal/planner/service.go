package planner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"travian-planner/internal/shared/errors"
	"travian-planner/internal/travel"
	"travian-planner/internal/village"

	"golang.org/x/sync/errgroup"
)

type Options struct {
	Location *time.Location
	Workers  int
	MaxPairs int
}

type Service struct {
	cache    Cache
	location *time.Location
	workers  int
	maxPairs int
	now      func() time.Time
	logger   *slog.Logger
}

func NewService(cache Cache, opts Options, logger *slog.Logger) *Service {
	logger.Debug("Initializing planner service",
		"workers", opts.Workers,
		"max_pairs", opts.MaxPairs,
		"location", opts.Location.String(),
	)

	return &Service{
		cache:    cache,
		location: opts.Location,
		workers:  max(opts.Workers, 1),
		maxPairs: opts.MaxPairs,
		now:      time.Now,
		logger:   logger,
	}
}

type movement struct {
	Village         village.Village `json:"village"`
	Speed           float64         `json:"speed"`
	TournamentLevel int             `json:"tournament_level"`
}

type destination struct {
	Village village.Village `json:"village"`
	Arrival travel.Clock    `json:"arrival"`
}

// normalized is a request after validation, unit resolution, clamping and
// arrival parsing. It is also what the cache key is derived from.
type normalized struct {
	Date         string        `json:"date"`
	Movements    []movement    `json:"movements"`
	Destinations []destination `json:"destinations"`

	day time.Time
}

// Compute returns one row per (start, target) pair, start-major.
func (s *Service) Compute(ctx context.Context, req Request) (*Plan, error) {
	logger := s.logger.With(
		"component", "planner_service",
		"operation", "compute",
		"starts", len(req.Starts),
		"targets", len(req.Targets),
	)

	input, warnings, err := s.normalize(req)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		ReferenceDate: input.Date,
		Warnings:      warnings,
	}

	key, err := cacheKey(input)
	if err != nil {
		return nil, errors.WrapInternal("failed to derive plan cache key", err)
	}

	if rows, ok := s.cached(ctx, logger, key); ok {
		logger.Debug("Plan served from cache", "rows", len(rows))
		plan.Rows = rows
		return plan, nil
	}

	rows, err := s.computeRows(ctx, input)
	if err != nil {
		return nil, err
	}
	plan.Rows = rows

	s.store(ctx, logger, key, rows)

	logger.Info("Plan computed", "rows", len(rows), "warnings", len(warnings))
	return plan, nil
}

func (s *Service) normalize(req Request) (*normalized, []string, error) {
	if len(req.Starts) == 0 {
		return nil, nil, errors.Validation("at least one start village is required")
	}
	if len(req.Targets) == 0 {
		return nil, nil, errors.Validation("at least one target village is required")
	}
	if pairs := len(req.Starts) * len(req.Targets); pairs > s.maxPairs {
		return nil, nil, errors.Validationf("%d start/target pairs requested, at most %d allowed", pairs, s.maxPairs)
	}

	day, err := s.referenceDay(req.Date)
	if err != nil {
		return nil, nil, err
	}

	input := &normalized{
		Date:         day.Format(DateLayout),
		Movements:    make([]movement, 0, len(req.Starts)),
		Destinations: make([]destination, 0, len(req.Targets)),
		day:          day,
	}
	var warnings []string

	for i, start := range req.Starts {
		if !start.Coordinate().Valid() {
			return nil, nil, errors.Validationf("start #%d: coordinates (%d|%d) outside the map [%d, %d]",
				i+1, start.X, start.Y, travel.MinCoord, travel.MaxCoord)
		}

		speed, err := resolveSpeed(start)
		if err != nil {
			return nil, nil, errors.WrapValidation(fmt.Sprintf("start #%d", i+1), err)
		}

		level := travel.ClampTournamentLevel(start.TournamentLevel)
		if level != start.TournamentLevel {
			warnings = append(warnings, fmt.Sprintf("start #%d: tournament level %d clamped to %d",
				i+1, start.TournamentLevel, level))
		}

		input.Movements = append(input.Movements, movement{
			Village:         start.Village,
			Speed:           speed,
			TournamentLevel: level,
		})
	}

	for i, target := range req.Targets {
		if !target.Coordinate().Valid() {
			return nil, nil, errors.Validationf("target #%d: coordinates (%d|%d) outside the map [%d, %d]",
				i+1, target.X, target.Y, travel.MinCoord, travel.MaxCoord)
		}

		arrival, err := travel.ParseArrival(target.Arrival)
		if err != nil {
			arrival = travel.DefaultArrival
			warnings = append(warnings, fmt.Sprintf("target #%d: invalid arrival time %q, using %s",
				i+1, target.Arrival, travel.DefaultArrival))
		}

		input.Destinations = append(input.Destinations, destination{
			Village: target.Village,
			Arrival: arrival,
		})
	}

	return input, warnings, nil
}

func (s *Service) referenceDay(date string) (time.Time, error) {
	if date == "" {
		now := s.now().In(s.location)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location), nil
	}

	day, err := time.ParseInLocation(DateLayout, date, s.location)
	if err != nil {
		return time.Time{}, errors.WrapValidation("date must be YYYY-MM-DD", err)
	}
	return day, nil
}

func resolveSpeed(start Start) (float64, error) {
	if start.UnitSpeed < 0 {
		return 0, fmt.Errorf("unit speed must be positive, got %v", start.UnitSpeed)
	}
	if start.UnitSpeed > 0 {
		if start.UnitSpeed < travel.MinUnitSpeed {
			return 0, fmt.Errorf("unit speed %v is below the minimum of %.6g fields per hour", start.UnitSpeed, travel.MinUnitSpeed)
		}
		return start.UnitSpeed, nil
	}
	if start.Unit == "" {
		return 0, fmt.Errorf("unit speed or unit name is required")
	}
	unit, ok := travel.LookupUnit(start.Unit)
	if !ok {
		return 0, fmt.Errorf("unknown or ambiguous unit %q", start.Unit)
	}
	return unit.Speed, nil
}

func (s *Service) computeRows(ctx context.Context, input *normalized) ([]Row, error) {
	targets := len(input.Destinations)
	rows := make([]Row, len(input.Movements)*targets)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, mv := range input.Movements {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for j, dest := range input.Destinations {
				rows[i*targets+j] = computeRow(input.day, mv, dest)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.WrapInternal("plan computation cancelled", err)
	}
	return rows, nil
}

func computeRow(day time.Time, mv movement, dest destination) Row {
	distance := travel.DistanceBetween(mv.Village.Coordinate(), dest.Village.Coordinate())
	duration := travel.TravelTime(distance, mv.Speed, mv.TournamentLevel)

	arrivalAt := dest.Arrival.On(day)
	departureAt := travel.Departure(arrivalAt, duration)

	return Row{
		Start:           mv.Village,
		Target:          dest.Village,
		Distance:        distance,
		TravelSeconds:   int64(duration / time.Second),
		Travel:          travel.FormatDuration(duration),
		Arrival:         arrivalAt.Format(travel.ClockLayout),
		Departure:       departureAt.Format(travel.ClockLayout),
		ArrivalAt:       arrivalAt,
		DepartureAt:     departureAt,
		PreviousDay:     departureAt.Before(day),
		UnitSpeed:       mv.Speed,
		TournamentLevel: mv.TournamentLevel,
	}
}

func cacheKey(input *normalized) (string, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return "plan:" + hex.EncodeToString(sum[:]), nil
}

func (s *Service) cached(ctx context.Context, logger *slog.Logger, key string) ([]Row, bool) {
	if s.cache == nil {
		return nil, false
	}

	payload, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("Plan cache lookup failed", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var rows []Row
	if err := json.Unmarshal(payload, &rows); err != nil {
		logger.Warn("Discarding unreadable cached plan", "error", err)
		return nil, false
	}
	return rows, true
}

func (s *Service) store(ctx context.Context, logger *slog.Logger, key string, rows []Row) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(rows)
	if err != nil {
		logger.Warn("Failed to encode plan for cache", "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, payload); err != nil {
		logger.Warn("Plan cache store failed", "error", err)
	}
}
