package village

import (
	"fmt"
	"time"

	"travian-planner/internal/mapdump"
	"travian-planner/internal/travel"
)

// Village is a directory entry. Player and village names are display
// metadata only.
type Village struct {
	ID          int       `json:"id,omitempty"`
	PlayerID    int       `json:"player_id,omitempty"`
	PlayerName  string    `json:"player_name"`
	VillageName string    `json:"village_name"`
	X           int       `json:"x"`
	Y           int       `json:"y"`
	ImportedAt  time.Time `json:"imported_at,omitzero"`
}

func (v Village) Coordinate() travel.Coordinate {
	return travel.Coordinate{X: v.X, Y: v.Y}
}

// Label is the selection-list text, e.g. "Capital (Alice)".
func (v Village) Label() string {
	return fmt.Sprintf("%s (%s)", v.VillageName, v.PlayerName)
}

// FromRecords converts parsed map dump entries into directory villages.
func FromRecords(records []mapdump.Record) []Village {
	villages := make([]Village, 0, len(records))
	for _, rec := range records {
		villages = append(villages, Village{
			PlayerID:    rec.PlayerID,
			PlayerName:  rec.PlayerName,
			VillageName: rec.VillageName,
			X:           rec.X,
			Y:           rec.Y,
		})
	}
	return villages
}
