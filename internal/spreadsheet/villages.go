package spreadsheet

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"travian-planner/internal/village"

	"github.com/xuri/excelize/v2"
)

const (
	colPlayerID    = "PlayerID"
	colPlayerName  = "PlayerName"
	colVillageName = "VillageName"
	colX           = "X"
	colY           = "Y"

	DirectorySheet = "Villages"
)

var requiredDirectoryColumns = []string{colPlayerName, colVillageName, colX, colY}

// RowError describes a directory row that was skipped.
type RowError struct {
	Row    int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// ReadVillagesFile opens a directory workbook from disk.
func ReadVillagesFile(path string) ([]village.Village, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	return ReadVillages(f)
}

// ReadVillages reads the first sheet of a directory workbook. The header row
// must contain PlayerName, VillageName, X and Y; PlayerID is optional and
// header names are trimmed. Rows with a missing or non-integer value in a
// required column, or with coordinates off the map, are skipped and
// reported.
func ReadVillages(r io.Reader) ([]village.Village, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredDirectoryColumns {
		if _, ok := columns[name]; !ok {
			return nil, nil, fmt.Errorf("missing column %q, required: %s", name, strings.Join(requiredDirectoryColumns, ", "))
		}
	}

	var villages []village.Village
	var skipped []RowError

	for i, row := range rows[1:] {
		rowNum := i + 2
		cell := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		if isBlank(row) {
			continue
		}

		v := village.Village{
			PlayerName:  cell(colPlayerName),
			VillageName: cell(colVillageName),
		}
		if v.PlayerName == "" || v.VillageName == "" {
			skipped = append(skipped, RowError{Row: rowNum, Reason: "missing player or village name"})
			continue
		}

		if v.X, err = parseInt(cell(colX)); err != nil {
			skipped = append(skipped, RowError{Row: rowNum, Reason: "X: " + err.Error()})
			continue
		}
		if v.Y, err = parseInt(cell(colY)); err != nil {
			skipped = append(skipped, RowError{Row: rowNum, Reason: "Y: " + err.Error()})
			continue
		}
		if !v.Coordinate().Valid() {
			skipped = append(skipped, RowError{Row: rowNum, Reason: fmt.Sprintf("coordinates (%d|%d) outside the map", v.X, v.Y)})
			continue
		}

		if id := cell(colPlayerID); id != "" {
			if v.PlayerID, err = parseInt(id); err != nil {
				skipped = append(skipped, RowError{Row: rowNum, Reason: "PlayerID: " + err.Error()})
				continue
			}
		}

		villages = append(villages, v)
	}

	return villages, skipped, nil
}

// WriteVillages writes a directory workbook in the layout ReadVillages reads.
func WriteVillages(w io.Writer, villages []village.Village) error {
	header := []interface{}{colPlayerID, colPlayerName, colVillageName, colX, colY}

	return writeSheet(w, DirectorySheet, header, len(villages), func(i int) []interface{} {
		v := villages[i]
		return []interface{}{v.PlayerID, v.PlayerName, v.VillageName, v.X, v.Y}
	})
}

func writeSheet(w io.Writer, sheet string, header []interface{}, n int, row func(i int) []interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := 0; i < n; i++ {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cellName, row(i)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	// Spreadsheet tools often store whole numbers as floats.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > float64(math.MaxInt32) {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return int(f), nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

