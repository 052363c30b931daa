// Package mapdump reads the player/village array that the alliance
// "GetterMap" page embeds as `var p = [...]`.
package mapdump

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"travian-planner/internal/travel"
)

const (
	SchemaV1 = "getter-map/v1"

	// Fields of one player record in SchemaV1.
	v1PlayerFields = 9
	// Fields of one village entry in SchemaV1.
	v1VillageFields = 3
)

// Record is one village of the dump with its owner.
type Record struct {
	PlayerID    int    `json:"player_id"`
	PlayerName  string `json:"player_name"`
	VillageName string `json:"village_name"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
}

// RowError reports a rejected player record, or a single rejected village
// when Village is not negative.
type RowError struct {
	Player  int
	Village int
	Reason  string
}

func (e RowError) Error() string {
	if e.Village < 0 {
		return fmt.Sprintf("player record %d: %s", e.Player, e.Reason)
	}
	return fmt.Sprintf("player record %d, village %d: %s", e.Player, e.Village, e.Reason)
}

type Result struct {
	Schema  string
	Records []Record
	Errors  []RowError
}

type decodeFunc func(records []json.RawMessage) ([]Record, []RowError)

var schemas = map[string]decodeFunc{
	SchemaV1: decodeV1,
}

// Parse reads a dump with the current schema. Malformed rows are left out of
// Records and listed in Errors; only an unreadable document is an error.
func Parse(r io.Reader) (*Result, error) {
	return ParseVersion(r, SchemaV1)
}

// ParseStrict fails on the first malformed row.
func ParseStrict(r io.Reader) (*Result, error) {
	res, err := Parse(r)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("%d malformed rows, first: %w", len(res.Errors), res.Errors[0])
	}
	return res, nil
}

func ParseVersion(r io.Reader, schema string) (*Result, error) {
	decode, ok := schemas[schema]
	if !ok {
		return nil, fmt.Errorf("unsupported map dump schema %q", schema)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read map dump: %w", err)
	}

	payload := normalize(raw)
	if len(payload) == 0 {
		return nil, fmt.Errorf("map dump is empty")
	}

	var records []json.RawMessage
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("map dump is not a player array: %w", err)
	}

	villages, rowErrors := decode(records)
	return &Result{Schema: schema, Records: villages, Errors: rowErrors}, nil
}

// normalize strips the JavaScript assignment around the array and turns
// the empty-slot markers into JSON nulls.
func normalize(raw []byte) []byte {
	s := strings.TrimPrefix(string(raw), "\ufeff")
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "var p"); ok {
		s = strings.TrimSpace(rest)
		s = strings.TrimPrefix(s, "=")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ";")
	s = strings.ReplaceAll(s, "/**/", "null")
	return bytes.TrimSpace([]byte(s))
}

// decodeV1 expects every player record to be
//
//	[id, name, color, url, ?, ?, alliance, ?, [[x, y, villageName], ...]]
//
// Only id, name and the village list are used; the other slots may hold any
// JSON value.
func decodeV1(records []json.RawMessage) ([]Record, []RowError) {
	var out []Record
	var rowErrors []RowError

	for i, rawRecord := range records {
		var fields []json.RawMessage
		if err := strictUnmarshal(rawRecord, &fields); err != nil {
			rowErrors = append(rowErrors, RowError{Player: i, Village: -1, Reason: "record is not an array"})
			continue
		}
		if len(fields) != v1PlayerFields {
			rowErrors = append(rowErrors, RowError{Player: i, Village: -1,
				Reason: fmt.Sprintf("expected %d fields, got %d", v1PlayerFields, len(fields))})
			continue
		}

		var playerID int
		if err := strictUnmarshal(fields[0], &playerID); err != nil {
			rowErrors = append(rowErrors, RowError{Player: i, Village: -1, Reason: "player id is not an integer"})
			continue
		}

		var playerName string
		if err := strictUnmarshal(fields[1], &playerName); err != nil || strings.TrimSpace(playerName) == "" {
			rowErrors = append(rowErrors, RowError{Player: i, Village: -1, Reason: "player name is missing"})
			continue
		}

		var villages []json.RawMessage
		if err := strictUnmarshal(fields[8], &villages); err != nil {
			rowErrors = append(rowErrors, RowError{Player: i, Village: -1, Reason: "village list is not an array"})
			continue
		}

		for j, rawVillage := range villages {
			rec, reason := decodeVillageV1(rawVillage)
			if reason != "" {
				rowErrors = append(rowErrors, RowError{Player: i, Village: j, Reason: reason})
				continue
			}
			rec.PlayerID = playerID
			rec.PlayerName = playerName
			out = append(out, rec)
		}
	}

	return out, rowErrors
}

func decodeVillageV1(raw json.RawMessage) (Record, string) {
	var fields []json.RawMessage
	if err := strictUnmarshal(raw, &fields); err != nil {
		return Record{}, "village is not an array"
	}
	if len(fields) != v1VillageFields {
		return Record{}, fmt.Sprintf("expected %d fields, got %d", v1VillageFields, len(fields))
	}

	var rec Record
	if err := strictUnmarshal(fields[0], &rec.X); err != nil {
		return Record{}, "x is not an integer"
	}
	if err := strictUnmarshal(fields[1], &rec.Y); err != nil {
		return Record{}, "y is not an integer"
	}
	if err := strictUnmarshal(fields[2], &rec.VillageName); err != nil {
		return Record{}, "village name is not a string"
	}
	if !travel.InBounds(rec.X) || !travel.InBounds(rec.Y) {
		return Record{}, fmt.Sprintf("coordinates (%d|%d) outside the map", rec.X, rec.Y)
	}
	return rec, ""
}

// strictUnmarshal rejects null, which encoding/json would otherwise accept
// as a no-op for every target type.
func strictUnmarshal(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return fmt.Errorf("value is null")
	}
	return json.Unmarshal(raw, v)
}
