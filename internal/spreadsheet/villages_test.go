package spreadsheet

import (
	"bytes"
	"testing"

	"travian-planner/internal/village"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

func TestReadVillages(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{" PlayerName ", "VillageName", "X", "Y"},
		{"Alice", "Capital", 12, -40},
		{"Bob", "Outpost", 200, -200},
	})

	villages, skipped, err := ReadVillages(buf)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, villages, 2)

	assert.Equal(t, village.Village{PlayerName: "Alice", VillageName: "Capital", X: 12, Y: -40}, villages[0])
	assert.Equal(t, 200, villages[1].X)
}

func TestReadVillagesSkipsBadRows(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"PlayerID", "PlayerName", "VillageName", "X", "Y"},
		{7, "Alice", "Capital", 1, 2},
		{8, "", "Nameless", 1, 2},
		{9, "Carol", "Farm", "abc", 2},
		{10, "Dave", "Edge", 250, 0},
		{11, "Eve", "Float", 3.0, 4},
		{12, "Frank", "Half", 3.5, 4},
	})

	villages, skipped, err := ReadVillages(buf)
	require.NoError(t, err)

	require.Len(t, villages, 2)
	assert.Equal(t, 7, villages[0].PlayerID)
	assert.Equal(t, "Float", villages[1].VillageName)
	assert.Equal(t, 3, villages[1].X)

	rows := make([]int, 0, len(skipped))
	for _, s := range skipped {
		rows = append(rows, s.Row)
	}
	assert.Equal(t, []int{3, 4, 5, 7}, rows)
}

func TestReadVillagesMissingColumn(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"PlayerName", "VillageName", "X"},
		{"Alice", "Capital", 1},
	})

	_, _, err := ReadVillages(buf)
	assert.ErrorContains(t, err, `"Y"`)
}

func TestReadVillagesNotAWorkbook(t *testing.T) {
	_, _, err := ReadVillages(bytes.NewBufferString("PlayerName,VillageName,X,Y\n"))
	assert.Error(t, err)
}

func TestWriteVillagesReadable(t *testing.T) {
	in := []village.Village{
		{PlayerID: 3, PlayerName: "Alice", VillageName: "Capital", X: -17, Y: 99},
		{PlayerID: 4, PlayerName: "Bob", VillageName: "Mine", X: 0, Y: 0},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteVillages(&buf, in))

	out, skipped, err := ReadVillages(&buf)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, in, out)
}
