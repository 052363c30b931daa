package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"travian-planner/internal/spreadsheet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dump = `var p = [
[1,"Alice","#f00","/a",/**/,3,/**/,0,[[10,20,"Capital"],[-200,200,"Corner"]]],
[2,"Bob","#0f0","/b",/**/,1,/**/,0,[[999,0,"Nowhere"]]]
];`

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConvertSkipsBadRows(t *testing.T) {
	villages, err := convert(strings.NewReader(dump), false, discard())
	require.NoError(t, err)
	require.Len(t, villages, 2)
	assert.Equal(t, "Capital", villages[0].VillageName)
	assert.Equal(t, 1, villages[1].PlayerID)
}

func TestConvertStrict(t *testing.T) {
	_, err := convert(strings.NewReader(dump), true, discard())
	assert.Error(t, err)
}

func TestRunWritesWorkbook(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "rbl_alliance.txt")
	out := filepath.Join(dir, "travian_alliance.xlsx")
	require.NoError(t, os.WriteFile(in, []byte(dump), 0o644))

	require.NoError(t, run(in, out, false, discard()))

	villages, skipped, err := spreadsheet.ReadVillagesFile(out)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, villages, 2)
	assert.Equal(t, -200, villages[1].X)
	assert.Equal(t, "Alice", villages[1].PlayerName)
}
