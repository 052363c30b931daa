package village

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"

	"travian-planner/internal/mapdump"
	"travian-planner/internal/shared/errors"

	"github.com/agnivade/levenshtein"
)

const (
	DefaultSearchLimit = 25
	MaxSearchLimit     = 200

	// maxReportedRowErrors caps the rejected-row messages returned to clients.
	maxReportedRowErrors = 20
)

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	logger.Debug("Initializing village service")

	return &Service{
		store:  store,
		logger: logger,
	}
}

type ImportResult struct {
	Schema   string   `json:"schema"`
	Imported int      `json:"imported"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors"`
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// Load replaces the directory with already validated villages.
func (s *Service) Load(ctx context.Context, villages []Village) error {
	if err := s.store.ReplaceAll(ctx, villages); err != nil {
		return errors.WrapInternal("failed to store villages", err)
	}
	return nil
}

// Import parses a map dump and replaces the directory with its villages.
// Malformed rows are rejected and reported; a dump without any valid
// village leaves the directory untouched.
func (s *Service) Import(ctx context.Context, dump io.Reader) (*ImportResult, error) {
	logger := s.logger.With("component", "village_service", "operation", "import")

	parsed, err := mapdump.Parse(dump)
	if err != nil {
		return nil, errors.WrapValidation("invalid map dump", err)
	}

	if len(parsed.Records) == 0 {
		return nil, errors.Validationf("map dump contains no valid villages (%d rows rejected)", len(parsed.Errors))
	}

	villages := FromRecords(parsed.Records)

	if err := s.Load(ctx, villages); err != nil {
		return nil, err
	}

	result := &ImportResult{
		Schema:   parsed.Schema,
		Imported: len(villages),
		Rejected: len(parsed.Errors),
		Errors:   []string{},
	}
	for i, rowErr := range parsed.Errors {
		if i == maxReportedRowErrors {
			break
		}
		result.Errors = append(result.Errors, rowErr.Error())
	}

	logger.Info("Village directory imported",
		"schema", parsed.Schema,
		"imported", result.Imported,
		"rejected", result.Rejected)
	return result, nil
}

// Search matches query against "VillageName (PlayerName)" ignoring case.
// When no label contains the query, village and player names within a small
// edit distance are returned, closest first.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Village, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	limit = min(limit, MaxSearchLimit)

	all, err := s.store.List(ctx)
	if err != nil {
		return nil, errors.WrapInternal("failed to list villages", err)
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		sortByLabel(all)
		return truncate(all, limit), nil
	}

	var matches []Village
	for _, v := range all {
		if strings.Contains(strings.ToLower(v.Label()), needle) {
			matches = append(matches, v)
		}
	}
	if len(matches) > 0 {
		sortByLabel(matches)
		return truncate(matches, limit), nil
	}

	return truncate(fuzzyMatches(all, needle), limit), nil
}

type scored struct {
	village  Village
	distance int
}

func fuzzyMatches(all []Village, needle string) []Village {
	maxDistance := levenshteinLimit(len(needle))

	var candidates []scored
	for _, v := range all {
		best := -1
		for _, name := range []string{v.VillageName, v.PlayerName} {
			d := levenshtein.ComputeDistance(needle, strings.ToLower(name))
			if best < 0 || d < best {
				best = d
			}
		}
		if best <= maxDistance {
			candidates = append(candidates, scored{village: v, distance: best})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].distance == candidates[j].distance {
			return candidates[i].village.Label() < candidates[j].village.Label()
		}
		return candidates[i].distance < candidates[j].distance
	})

	out := make([]Village, len(candidates))
	for i, c := range candidates {
		out[i] = c.village
	}
	return out
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func sortByLabel(villages []Village) {
	sort.SliceStable(villages, func(i, j int) bool {
		return villages[i].Label() < villages[j].Label()
	})
}

func truncate(villages []Village, limit int) []Village {
	if villages == nil {
		return []Village{}
	}
	if len(villages) > limit {
		return villages[:limit]
	}
	return villages
}
