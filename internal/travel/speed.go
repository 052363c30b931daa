package travel

import (
	"math"
	"time"
)

const (
	MinTournamentLevel = 0
	MaxTournamentLevel = 20

	// TournamentThreshold is the number of fields always travelled at base speed.
	TournamentThreshold = 20.0

	tournamentBonusPerLevel = 0.20
)

const (
	// MaxDistance is the longest toroidal distance on the map, corner to
	// opposite corner across both seams.
	MaxDistance = MapRadius * math.Sqrt2

	// MaxTravelTime is the longest whole-second duration time.Duration holds.
	MaxTravelTime = time.Duration(math.MaxInt64/int64(time.Second)) * time.Second

	maxTravelHours   = float64(math.MaxInt64 / int64(time.Hour))
	maxTravelSeconds = float64(math.MaxInt64 / int64(time.Second))

	// MinUnitSpeed is the slowest speed for which any trip on the map still
	// fits in a time.Duration.
	MinUnitSpeed = MaxDistance / maxTravelHours
)

// ClampTournamentLevel forces a tournament square level into [0, 20].
func ClampTournamentLevel(level int) int {
	return max(MinTournamentLevel, min(level, MaxTournamentLevel))
}

// TournamentBonus returns the extra speed fraction granted beyond the first
// 20 fields: 0.20 per level, so level 20 gives +400%.
func TournamentBonus(level int) float64 {
	return float64(ClampTournamentLevel(level)) * tournamentBonusPerLevel
}

// TravelTime returns how long a unit moving at unitSpeed fields per hour
// needs to cover distance fields with the given tournament square level.
// The first 20 fields use the base speed and the rest the boosted speed.
// The result is rounded to the nearest whole second, ties to even, and capped
// at MaxTravelTime.
//
// unitSpeed must be at least MinUnitSpeed; callers validate it.
func TravelTime(distance, unitSpeed float64, tournamentLevel int) time.Duration {
	bonus := TournamentBonus(tournamentLevel)

	baseDistance := math.Min(distance, TournamentThreshold)
	baseTime := baseDistance / unitSpeed

	bonusDistance := math.Max(distance-TournamentThreshold, 0)
	bonusTime := bonusDistance / (unitSpeed * (1 + bonus))

	totalHours := baseTime + bonusTime
	seconds := math.RoundToEven(totalHours * 3600)
	if !(seconds < maxTravelSeconds) {
		return MaxTravelTime
	}
	return time.Duration(seconds) * time.Second
}
