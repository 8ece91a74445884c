package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/retro-events/internal/decode"
	"github.com/pfrederiksen/retro-events/internal/event"
	"github.com/pfrederiksen/retro-events/internal/logger"
	"github.com/pfrederiksen/retro-events/internal/record"
	"github.com/pfrederiksen/retro-events/internal/schema"
	"github.com/pfrederiksen/retro-events/internal/table"
)

func run(t *testing.T, opts []Option, lines ...string) (*table.Table, *Assembler, error) {
	t.Helper()
	out := table.New()
	a := New("TEST.EVA", out, append([]Option{WithLogger(logger.Discard())}, opts...)...)
	for i, s := range lines {
		if err := a.Feed(record.Parse(i+1, s)); err != nil {
			return out, a, err
		}
	}
	a.Finish()
	return out, a, nil
}

// wide builds a positional play line from column index to token.
func wide(cols map[int]string) string {
	tokens := make([]string, 36)
	tokens[0] = "play"
	for i, v := range cols {
		tokens[i] = v
	}
	return strings.Join(tokens, ",")
}

func value(t *testing.T, tb *table.Table, rowIdx, col int) any {
	t.Helper()
	require.Greater(t, tb.Len(), rowIdx)
	return tb.Row(rowIdx)[col].Interface()
}

func TestScenarioWidePlay(t *testing.T) {
	tb, _, err := run(t, nil,
		"id,TEST202300010",
		"play,1,0,0,player01,L,player02,R,?,?,?,?,?,?,?,?,?,player03,player04,player05,player06,player07,player08,player09,,,,,,4/F78,,,,,,",
	)
	require.NoError(t, err)
	require.Equal(t, 1, tb.Len())

	assert.Equal(t, "TEST202300010", value(t, tb, 0, schema.GameID))
	assert.Equal(t, 1, value(t, tb, 0, schema.Inning))
	assert.Equal(t, 0, value(t, tb, 0, schema.BatHome))
	assert.Equal(t, 0, value(t, tb, 0, schema.Outs))
	assert.Equal(t, "player01", value(t, tb, 0, schema.BatterID))
	assert.Equal(t, "L", value(t, tb, 0, schema.BatterHand))
	assert.Equal(t, "player02", value(t, tb, 0, schema.PitcherID))
	assert.Equal(t, "R", value(t, tb, 0, schema.PitcherHand))
	assert.Equal(t, "4/F78", value(t, tb, 0, schema.EventText))
}

func TestScenarioCatcherFromLineup(t *testing.T) {
	tb, _, err := run(t, nil,
		"id,BOS202304010",
		`start,catc0001,"Home Catcher",1,9,2`,
		`start,pitc0001,"Home Pitcher",1,0,1`,
		`start,vcat0001,"Visiting Catcher",0,8,2`,
		"play,1,0,batr0001,00,,S8",
	)
	require.NoError(t, err)
	require.Equal(t, 1, tb.Len())
	assert.Equal(t, "catc0001", value(t, tb, 0, schema.Pos2Fielder))
	assert.Equal(t, "pitc0001", value(t, tb, 0, schema.PitcherID))
}

func TestScenarioBlankOutsCarryForward(t *testing.T) {
	tb, _, err := run(t, nil,
		"id,G1",
		wide(map[int]string{1: "1", 2: "0", 3: "1", 4: "player01", 5: "L", 6: "player02", 7: "R", 29: "S8"}),
		wide(map[int]string{1: "1", 2: "0", 3: "", 4: "player03", 5: "R", 6: "player02", 7: "R", 29: "K"}),
	)
	require.NoError(t, err)
	require.Equal(t, 2, tb.Len())
	assert.Equal(t, 1, value(t, tb, 0, schema.Outs))
	assert.Equal(t, 1, value(t, tb, 1, schema.Outs))
	assert.Equal(t, "player01", value(t, tb, 1, schema.Base1Runner))
}

func TestScenarioConsecutiveIDs(t *testing.T) {
	tb, a, err := run(t, nil,
		"id,GAME1",
		"info,visteam,NYA",
		`start,catc0001,"Catcher",1,9,2`,
		"id,GAME2",
	)
	require.NoError(t, err)
	assert.Equal(t, 0, tb.Len())
	assert.Equal(t, 2, a.Games())
	assert.Nil(t, a.State())
}

func TestNewGameDiscardsState(t *testing.T) {
	tb, _, err := run(t, nil,
		"id,GAME1",
		"info,visteam,NYA",
		`start,catc0001,"Catcher",1,9,2`,
		"id,GAME2",
		"play,1,0,batr0001,00,,S8",
	)
	require.NoError(t, err)
	require.Equal(t, 1, tb.Len())
	assert.Equal(t, "GAME2", value(t, tb, 0, schema.GameID))
	assert.Equal(t, "", value(t, tb, 0, schema.AwayTeamID))
	assert.Equal(t, "", value(t, tb, 0, schema.Pos2Fielder))
	assert.Equal(t, true, value(t, tb, 0, schema.GameNew))
}

func TestOutsAndScores(t *testing.T) {
	tb, _, err := run(t, nil,
		"id,NYA202304010",
		"info,visteam,BOS",
		"info,hometeam,NYA",
		"play,1,0,bat00001,00,,K",
		"play,1,0,bat00002,00,,HR/F7",
		"play,1,0,bat00003,10,B,W",
		"play,1,0,bat00004,00,,43",
		"play,1,0,bat00005,00,,D7.1-H",
		"play,1,0,bat00006,00,,8",
		"play,1,1,hom00001,00,,S8",
	)
	require.NoError(t, err)
	require.Equal(t, 7, tb.Len())

	wantOuts := []int{0, 1, 1, 1, 2, 2, 0}
	wantAway := []int{0, 0, 1, 1, 1, 2, 2}
	for i := range wantOuts {
		assert.Equal(t, wantOuts[i], value(t, tb, i, schema.Outs), "row %d outs", i)
		assert.Equal(t, wantAway[i], value(t, tb, i, schema.AwayScore), "row %d away score", i)
		assert.Equal(t, "BOS", value(t, tb, i, schema.AwayTeamID))
		assert.Equal(t, i+1, value(t, tb, i, schema.EventID))
	}
	assert.Equal(t, 1, value(t, tb, 2, schema.Balls))
	assert.Equal(t, "bat00003", value(t, tb, 4, schema.Base1Runner))
	assert.Equal(t, event.Home, value(t, tb, 4, schema.Runner1Dest))
	assert.Equal(t, 1, value(t, tb, 6, schema.BatHome))
	assert.Equal(t, "", value(t, tb, 6, schema.Base1Runner+1))
}

func TestUnsupportedColumnsInEveryRow(t *testing.T) {
	tb, _, err := run(t, nil,
		"id,G1",
		"play,1,0,bat00001,00,,S8",
		"play,1,0,bat00002,00,,64(1)3/GDP",
	)
	require.NoError(t, err)
	for _, row := range tb.Rows() {
		require.Len(t, row, schema.Count)
		for _, e := range schema.Entries() {
			assert.Equal(t, e.Implemented, row[e.Index].Supported(), e.Header)
		}
	}
}

func TestRecordBeforeGame(t *testing.T) {
	for _, line := range []string{
		"play,1,0,bat00001,00,,S8",
		`start,catc0001,"Catcher",1,9,2`,
	} {
		t.Run(line, func(t *testing.T) {
			_, _, err := run(t, nil, "com,\"header\"", line)
			var fe *decode.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "TEST.EVA", fe.File)
			assert.Equal(t, 2, fe.Line)
		})
	}
}

func TestFailureDropsOnlyCurrentGame(t *testing.T) {
	out := table.New()
	a := New("TEST.EVA", out, WithLogger(logger.Discard()))
	lines := []string{
		"id,G1",
		"play,1,0,bat00001,00,,S8",
		"id,G2",
		"play,1,0,bat00002,00,,S8",
		"play,1,0,bat00003,3x,,S8",
	}
	var err error
	for i, s := range lines {
		if err = a.Feed(record.Parse(i+1, s)); err != nil {
			break
		}
	}

	var fe *decode.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 5, fe.Line)
	assert.Equal(t, schema.Strikes, fe.Field)
	assert.Equal(t, AwaitingGame, a.Phase())

	require.Equal(t, 1, out.Len())
	assert.Equal(t, "G1", value(t, out, 0, schema.GameID))
}

func TestSkipsCommentsAndUnknown(t *testing.T) {
	tb, a, err := run(t, nil,
		"id,G1",
		`com,"rain delay"`,
		"data,er,pitc0001,2",
		"badj,bat00001,R",
		"",
		"play,1,0,bat00001,00,,S8",
	)
	require.NoError(t, err)
	assert.Equal(t, 1, tb.Len())
	assert.Equal(t, 4, a.Skipped())
}

type fakeHands map[string][2]string

func (f fakeHands) Bats(id string) string   { return f[id][0] }
func (f fakeHands) Throws(id string) string { return f[id][1] }

func TestHandsFromRoster(t *testing.T) {
	hands := fakeHands{
		"pitc0001": {"R", "L"},
		"swit0001": {"B", "R"},
		"lefty001": {"L", "L"},
	}
	tb, _, err := run(t, []Option{WithHands(hands)},
		"id,G1",
		`start,pitc0001,"Pitcher",1,0,1`,
		"play,1,0,swit0001,00,,S8",
		"play,1,0,lefty001,00,,S8",
		"play,1,0,unkn0001,00,,S8",
	)
	require.NoError(t, err)
	require.Equal(t, 3, tb.Len())
	assert.Equal(t, "L", value(t, tb, 0, schema.PitcherHand))
	assert.Equal(t, "R", value(t, tb, 0, schema.BatterHand), "switch hitter faces a lefty from the right")
	assert.Equal(t, "L", value(t, tb, 1, schema.BatterHand))
	assert.Equal(t, "?", value(t, tb, 2, schema.BatterHand))
}

func TestPinchHitterAndRunnerFlags(t *testing.T) {
	tb, _, err := run(t, nil,
		"id,G1",
		`start,bat00001,"Regular",0,1,8`,
		`sub,phit0001,"Pinch Hitter",0,1,11`,
		"play,1,0,phit0001,00,,S8",
		`sub,prun0001,"Pinch Runner",0,1,12`,
		"play,1,0,bat00002,00,,K",
	)
	require.NoError(t, err)
	require.Equal(t, 2, tb.Len())
	assert.Equal(t, true, value(t, tb, 0, schema.PinchHit))
	assert.Equal(t, 11, value(t, tb, 0, schema.BatFieldPos))
	assert.Equal(t, 1, value(t, tb, 0, schema.BatLineup))
	assert.Equal(t, "prun0001", value(t, tb, 1, schema.Base1Runner))
	assert.Equal(t, true, value(t, tb, 1, schema.PinchRun1))
}

func TestDeterministic(t *testing.T) {
	lines := []string{
		"id,G1",
		`start,catc0001,"Catcher",1,9,2`,
		"play,1,0,bat00001,21,BBCX,S8",
		"play,1,0,bat00002,00,,64(1)3/GDP",
	}
	a, _, err := run(t, nil, lines...)
	require.NoError(t, err)
	b, _, err := run(t, nil, lines...)
	require.NoError(t, err)
	assert.Equal(t, a.Rows(), b.Rows())
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}
