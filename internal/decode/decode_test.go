package decode

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/retro-events/internal/event"
	"github.com/pfrederiksen/retro-events/internal/record"
	"github.com/pfrederiksen/retro-events/internal/schema"
	"github.com/pfrederiksen/retro-events/internal/state"
)

const widePlay = "play,1,0,0,player01,L,player02,R,?,?,?,?,?,?,?,?,?,player03,player04,player05,player06,player07,player08,player09,,,,,,4/F78,,,,,,"

func input(t *testing.T, line string, st *state.State) *Input {
	t.Helper()
	pt, err := SplitPlay(record.Parse(1, line))
	require.NoError(t, err)
	require.NoError(t, Carry(pt, st))
	st.Plays++
	p := event.Parse(pt.Event)
	return &Input{Tokens: pt, State: st, Play: p, Dest: st.Resolve(p)}
}

func TestSplitPlayStandard(t *testing.T) {
	pt, err := SplitPlay(record.Parse(1, "play,3,1,jeted001,32,CBFBB,S8.1-3"))
	require.NoError(t, err)
	assert.False(t, pt.Wide)
	assert.Equal(t, "3", pt.Inning)
	assert.Equal(t, "1", pt.Side)
	assert.Equal(t, "jeted001", pt.Batter)
	assert.Equal(t, "32", pt.Count)
	assert.Equal(t, "CBFBB", pt.Pitches)
	assert.Equal(t, "S8.1-3", pt.Event)
}

func TestSplitPlayWide(t *testing.T) {
	pt, err := SplitPlay(record.Parse(1, widePlay))
	require.NoError(t, err)
	assert.True(t, pt.Wide)
	assert.Equal(t, "0", pt.Outs)
	assert.Equal(t, "player01", pt.Batter)
	assert.Equal(t, "L", pt.BatterHand)
	assert.Equal(t, "player02", pt.Pitcher)
	assert.Equal(t, "R", pt.PitcherHand)
	assert.Equal(t, [2]string{"?", "?"}, pt.Scores)
	assert.Equal(t, "player04", pt.Fielders[2])
	assert.Equal(t, "player09", pt.Fielders[7])
	assert.Equal(t, "", pt.Fielders[9])
	assert.Equal(t, "4/F78", pt.Event)
}

func TestSplitPlayTooShort(t *testing.T) {
	_, err := SplitPlay(record.Parse(4, "play,1,0,abc"))
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, -1, fe.Field)
}

func TestDecodeRowWide(t *testing.T) {
	st := state.New("TEST202300010")
	row, err := DecodeRow(input(t, widePlay, st))
	require.NoError(t, err)
	require.Len(t, row, schema.Count)

	assertValue := func(idx int, want any) {
		t.Helper()
		assert.Equal(t, want, row[idx].Interface(), "column %s", schema.MustLookup(idx).Header)
	}
	assertValue(schema.GameID, "TEST202300010")
	assertValue(schema.Inning, 1)
	assertValue(schema.BatHome, 0)
	assertValue(schema.Outs, 0)
	assertValue(schema.BatterID, "player01")
	assertValue(schema.BatterHand, "L")
	assertValue(schema.PitcherID, "player02")
	assertValue(schema.PitcherHand, "R")
	assertValue(schema.Pos2Fielder, "player04")
	assertValue(schema.EventText, "4/F78")
	assertValue(schema.EventCode, int(event.CodeGenericOut))
	assertValue(schema.EventOuts, 1)
	assertValue(schema.BatterDest, event.Out)
	assertValue(schema.GameNew, true)
	assertValue(schema.EventID, 1)
}

func TestDecodeRowUnsupportedColumns(t *testing.T) {
	st := state.New("G1")
	row, err := DecodeRow(input(t, "play,1,0,jeted001,??,,W", st))
	require.NoError(t, err)

	for _, e := range schema.Entries() {
		assert.Equal(t, e.Implemented, row[e.Index].Supported(), "column %s", e.Header)
		if !e.Implemented {
			assert.Equal(t, UnsupportedMarker, row[e.Index].String())
		}
	}
}

func TestDecodeRowFlags(t *testing.T) {
	st := state.New("G1")
	st.StartHalf(2, 1)
	st.Runners[1] = "runr0001"
	row, err := DecodeRow(input(t, "play,2,1,jeted001,12,BCX,6(1)3/BGDP", st))
	require.NoError(t, err)

	assert.Equal(t, 1, row[schema.Balls].Interface())
	assert.Equal(t, 2, row[schema.Strikes].Interface())
	assert.Equal(t, true, row[schema.DoublePlay].Interface())
	assert.Equal(t, true, row[schema.Bunt].Interface())
	assert.Equal(t, false, row[schema.SacFly].Interface())
	assert.Equal(t, 2, row[schema.EventOuts].Interface())
	assert.Equal(t, event.Out, row[schema.Runner1Dest].Interface())
	assert.Equal(t, "runr0001", row[schema.Base1Runner].Interface())
}

func TestDecodeRowErrors(t *testing.T) {
	st := state.New("G1")
	row, err := DecodeRow(input(t, "play,1,0,jeted001,3x,,S8", st))
	assert.Nil(t, row)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, schema.Strikes, fe.Field)
	assert.Equal(t, "3x", fe.Token)
	assert.Contains(t, fe.Error(), "STRIKES_CT")
}

func TestCarryErrors(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		field int
	}{
		{"non-digit inning", "play,x,0,jeted001,00,,S8", schema.Inning},
		{"bad side", "play,1,2,jeted001,00,,S8", schema.BatHome},
		{"non-digit outs", "play,1,0,o,player01,L,player02,R", schema.Outs},
		{"too many outs", "play,1,0,3,player01,L,player02,R", schema.Outs},
		{"bad fielder", "play,1,0,0,player01,L,player02,R,,,,,,,,,,,bad", schema.Pos2Fielder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt, err := SplitPlay(record.Parse(1, tt.line))
			require.NoError(t, err)
			err = Carry(pt, state.New("G1"))
			var fe *FormatError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestCarryKeepsStateOnBlank(t *testing.T) {
	st := state.New("G1")
	st.StartHalf(4, 1)
	st.Outs = 1
	st.Score = [2]int{3, 2}

	pt, err := SplitPlay(record.Parse(1, "play,4,1,,player01,R,player02,L,,5"))
	require.NoError(t, err)
	require.NoError(t, Carry(pt, st))

	assert.Equal(t, 1, st.Outs)
	assert.Equal(t, [2]int{3, 5}, st.Score)
}

func TestDecodeLineup(t *testing.T) {
	lu, err := DecodeLineup(record.Parse(1, `start,jeted001,"Derek Jeter",0,1,6`))
	require.NoError(t, err)
	assert.Equal(t, Lineup{Player: "jeted001", Name: "Derek Jeter", Team: 0, Order: 1, Position: 6}, lu)

	for _, line := range []string{
		`start,jeted01,"Short Id",0,1,6`,
		`start,jeted001,"Bad Team",2,1,6`,
		`start,jeted001,"Bad Order",0,10,6`,
		`start,jeted001,"Bad Position",0,1,13`,
		`sub,jeted001,"Too Few"`,
	} {
		_, err := DecodeLineup(record.Parse(1, line))
		var fe *FormatError
		assert.ErrorAs(t, err, &fe, line)
	}
}

func TestGameID(t *testing.T) {
	id, err := GameID(record.Parse(1, "id,TEST202300010"))
	require.NoError(t, err)
	assert.Equal(t, "TEST202300010", id)

	_, err = GameID(record.Parse(1, "id,BAD-ID"))
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, schema.GameID, fe.Field)
}

func TestValue(t *testing.T) {
	assert.Equal(t, "NA", Unsupported.String())
	assert.False(t, Unsupported.Supported())
	assert.True(t, Str("").Supported())
	assert.Equal(t, "T", Bool(true).String())
	assert.Equal(t, "second", Dest(event.Second).String())

	n, ok := Int(7).AsInt()
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	data, err := json.Marshal(Row{Str("x"), Int(2), Unsupported, Dest(event.Home)})
	require.NoError(t, err)
	assert.JSONEq(t, `["x", 2, "NA", "home"]`, string(data))
}

func TestFormatErrorMessage(t *testing.T) {
	err := &FormatError{File: "2023NYA.EVA", Line: 12, Field: schema.Outs, Token: "x", Reason: "count is not a non-negative integer"}
	assert.Equal(t, `2023NYA.EVA:12: field 4 (OUTS_CT): invalid token "x": count is not a non-negative integer`, err.Error())

	err = &FormatError{Field: -1, Token: "q", Reason: "bad"}
	assert.Equal(t, `invalid token "q": bad`, err.Error())
}
