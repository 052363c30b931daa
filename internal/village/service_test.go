package village

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"travian-planner/internal/mapdump"
	"travian-planner/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, logger), store
}

func seed(t *testing.T, svc *Service) {
	t.Helper()
	require.NoError(t, svc.Load(context.Background(), []Village{
		{PlayerName: "Alice", VillageName: "Capital", X: 1, Y: 1},
		{PlayerName: "Alice", VillageName: "Farm 1", X: 2, Y: 2},
		{PlayerName: "Bob", VillageName: "Bastion", X: -10, Y: 40},
		{PlayerName: "Charlie", VillageName: "Harbor", X: 199, Y: -199},
	}))
}

func TestSearchSubstring(t *testing.T) {
	svc, _ := newTestService(t)
	seed(t, svc)

	got, err := svc.Search(context.Background(), "alice", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Capital (Alice)", got[0].Label())
	assert.Equal(t, "Farm 1 (Alice)", got[1].Label())
}

func TestSearchEmptyQueryListsAll(t *testing.T) {
	svc, _ := newTestService(t)
	seed(t, svc)

	got, err := svc.Search(context.Background(), "  ", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Bastion", got[0].VillageName)
}

func TestSearchFuzzy(t *testing.T) {
	svc, _ := newTestService(t)
	seed(t, svc)

	got, err := svc.Search(context.Background(), "harbour", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Harbor", got[0].VillageName)

	got, err = svc.Search(context.Background(), "zzzzzz", 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestImportReplacesDirectory(t *testing.T) {
	svc, store := newTestService(t)
	seed(t, svc)

	dump := `var p = [
[7,"Dora",null,null,null,null,null,null,[[5,6,"Outpost"],[900,0,"Broken"]]],
[8]
];`

	res, err := svc.Import(context.Background(), strings.NewReader(dump))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 2, res.Rejected)
	assert.Len(t, res.Errors, 2)

	all, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 7, all[0].PlayerID)
	assert.Equal(t, "Outpost", all[0].VillageName)
	assert.False(t, all[0].ImportedAt.IsZero())
}

func TestImportWithoutValidVillagesKeepsDirectory(t *testing.T) {
	svc, store := newTestService(t)
	seed(t, svc)

	_, err := svc.Import(context.Background(), strings.NewReader(`[[1]]`))
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))

	_, err = svc.Import(context.Background(), strings.NewReader(`not a dump`))
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestMemoryStoreAssignsIDs(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.ReplaceAll(context.Background(), []Village{{VillageName: "a"}, {VillageName: "b"}}))

	all, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, all[0].ID)
	assert.Equal(t, 2, all[1].ID)

	all[0].VillageName = "changed"
	again, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", again[0].VillageName)
}

func TestFromRecords(t *testing.T) {
	villages := FromRecords([]mapdump.Record{
		{PlayerID: 7, PlayerName: "Carol", VillageName: "North", X: 10, Y: -10},
	})

	require.Len(t, villages, 1)
	assert.Equal(t, Village{PlayerID: 7, PlayerName: "Carol", VillageName: "North", X: 10, Y: -10}, villages[0])
	assert.Empty(t, FromRecords(nil))
}
