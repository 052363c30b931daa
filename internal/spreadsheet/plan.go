package spreadsheet

import (
	"io"
	"math"

	"travian-planner/internal/planner"
)

const PlanSheet = "Travian"

var planHeader = []interface{}{
	"Start Player", "Start Village", "Start X", "Start Y",
	"Target Player", "Target Village", "Target X", "Target Y",
	"Distance", "Arrival", "Departure", "Departure Date", "Travel Time",
	"Unit Speed", "Tournament Level",
}

// WritePlan renders plan rows as a single-sheet workbook. Distances are
// rounded to two decimals.
func WritePlan(w io.Writer, plan *planner.Plan) error {
	return writeSheet(w, PlanSheet, planHeader, len(plan.Rows), func(i int) []interface{} {
		r := plan.Rows[i]
		return []interface{}{
			r.Start.PlayerName, r.Start.VillageName, r.Start.X, r.Start.Y,
			r.Target.PlayerName, r.Target.VillageName, r.Target.X, r.Target.Y,
			math.Round(r.Distance*100) / 100,
			r.Arrival,
			r.Departure,
			r.DepartureAt.Format(planner.DateLayout),
			r.Travel,
			r.UnitSpeed,
			r.TournamentLevel,
		}
	})
}
