package travel

import "math"

const (
	// MapRadius is the largest coordinate magnitude on either axis. The map
	// wraps past it, so +200 and -200 sit next to each other.
	MapRadius = 200

	MinCoord = -MapRadius
	MaxCoord = MapRadius
)

type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coordinate) Valid() bool {
	return InBounds(c.X) && InBounds(c.Y)
}

// InBounds reports whether a single axis value lies on the map.
func InBounds(v int) bool {
	return v >= MinCoord && v <= MaxCoord
}

// ShortestAxisDistance returns the shorter of the direct path and the path
// that wraps past the map edge on one axis. The wrap path counts one extra
// field for the seam between +200 and -200.
func ShortestAxisDistance(a, b int) int {
	direct := abs(b - a)
	viaBorder := (MapRadius - abs(a)) + (MapRadius - abs(b) + 1)
	return min(direct, viaBorder)
}

// Distance is the Euclidean norm of the per-axis wrapped distances.
func Distance(x1, y1, x2, y2 int) float64 {
	dx := float64(ShortestAxisDistance(x1, x2))
	dy := float64(ShortestAxisDistance(y1, y2))
	return math.Sqrt(dx*dx + dy*dy)
}

func DistanceBetween(from, to Coordinate) float64 {
	return Distance(from.X, from.Y, to.X, to.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
