package mapdump

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDump = `var p = [
[101,"Alice","#ff0000","/profile/101",/**/,3,"RBL",7,[[12,-40,"Capital"],[13,-41,"Farm 1"]]],
[102,"Bob","#00ff00","/profile/102",0,/**/,"RBL",/**/,[[-200,200,"Corner"]]]
];`

func TestParse(t *testing.T) {
	res, err := Parse(strings.NewReader(sampleDump))
	require.NoError(t, err)

	assert.Equal(t, SchemaV1, res.Schema)
	assert.Empty(t, res.Errors)
	assert.Equal(t, []Record{
		{PlayerID: 101, PlayerName: "Alice", VillageName: "Capital", X: 12, Y: -40},
		{PlayerID: 101, PlayerName: "Alice", VillageName: "Farm 1", X: 13, Y: -41},
		{PlayerID: 102, PlayerName: "Bob", VillageName: "Corner", X: -200, Y: 200},
	}, res.Records)
}

func TestParseWithoutAssignment(t *testing.T) {
	res, err := Parse(strings.NewReader(`[[1,"A",null,null,null,null,null,null,[[0,0,"Home"]]]]`))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Home", res.Records[0].VillageName)
}

func TestParseRejectsMalformedRows(t *testing.T) {
	dump := `var p = [
[1,"Short row",null],
["x","String id",null,null,null,null,null,null,[]],
[3,/**/,null,null,null,null,null,null,[[1,1,"No owner"]]],
[4,"Dana",null,null,null,null,null,null,[[1,2,"Good"],[1,"2","Bad y"],[500,0,"Off map"],[1,2]]],
[5,"Eve",null,null,null,null,null,null,"nope"]
]`

	res, err := Parse(strings.NewReader(dump))
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Equal(t, "Good", res.Records[0].VillageName)
	assert.Equal(t, "Dana", res.Records[0].PlayerName)

	require.Len(t, res.Errors, 7)
	assert.Equal(t, RowError{Player: 0, Village: -1, Reason: "expected 9 fields, got 3"}, res.Errors[0])
	assert.Equal(t, 1, res.Errors[1].Player)
	assert.Equal(t, "player name is missing", res.Errors[2].Reason)
	assert.Equal(t, RowError{Player: 3, Village: 1, Reason: "y is not an integer"}, res.Errors[3])
	assert.Equal(t, 2, res.Errors[4].Village)
	assert.Equal(t, 3, res.Errors[5].Village)
	assert.Equal(t, "village list is not an array", res.Errors[6].Reason)
}

func TestParseStrict(t *testing.T) {
	_, err := ParseStrict(strings.NewReader(`[[1,"A",null,null,null,null,null,null,[[1,2.5,"Half"]]]]`))
	assert.ErrorContains(t, err, "village 0")

	res, err := ParseStrict(strings.NewReader(sampleDump))
	require.NoError(t, err)
	assert.Len(t, res.Records, 3)
}

func TestParseDocumentErrors(t *testing.T) {
	for _, input := range []string{"", "var p = ;", "var p = {\"a\":1};", "[[1,,2]]", "[['a']]"} {
		_, err := Parse(strings.NewReader(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestParseUnknownSchema(t *testing.T) {
	_, err := ParseVersion(strings.NewReader(sampleDump), "getter-map/v9")
	assert.ErrorContains(t, err, "unsupported")
}

func TestRowErrorMessage(t *testing.T) {
	assert.Equal(t, "player record 2: bad", RowError{Player: 2, Village: -1, Reason: "bad"}.Error())
	assert.Equal(t, "player record 2, village 0: bad", RowError{Player: 2, Village: 0, Reason: "bad"}.Error())
}
