package planner

import (
	"time"

	"travian-planner/internal/village"
)

const DateLayout = "2006-01-02"

// Start is a departing village with the movement profile of its slowest unit.
// UnitSpeed wins over Unit when both are set.
type Start struct {
	village.Village
	UnitSpeed       float64 `json:"unit_speed"`
	Unit            string  `json:"unit,omitempty"`
	TournamentLevel int     `json:"tournament_level"`
}

// Target is a destination village and the wanted arrival time of day.
type Target struct {
	village.Village
	Arrival string `json:"arrival"`
}

// Request is the full input of one calculation. Date is optional and
// defaults to today in the configured time zone.
type Request struct {
	Date    string   `json:"date,omitempty"`
	Starts  []Start  `json:"starts"`
	Targets []Target `json:"targets"`
}

// Row is the result for one (start, target) pair.
type Row struct {
	Start           village.Village `json:"start"`
	Target          village.Village `json:"target"`
	Distance        float64         `json:"distance"`
	TravelSeconds   int64           `json:"travel_seconds"`
	Travel          string          `json:"travel"`
	Arrival         string          `json:"arrival"`
	Departure       string          `json:"departure"`
	ArrivalAt       time.Time       `json:"arrival_at"`
	DepartureAt     time.Time       `json:"departure_at"`
	PreviousDay     bool            `json:"previous_day"`
	UnitSpeed       float64         `json:"unit_speed"`
	TournamentLevel int             `json:"tournament_level"`
}

type Plan struct {
	ReferenceDate string   `json:"reference_date"`
	Rows          []Row    `json:"rows"`
	Warnings      []string `json:"warnings"`
}
