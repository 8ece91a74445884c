package parser

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/retro-events/internal/decode"
	"github.com/pfrederiksen/retro-events/internal/logger"
	"github.com/pfrederiksen/retro-events/internal/schema"
)

var quiet = Options{Logger: logger.Discard()}

func gameLines(id string, plays int) []string {
	lines := []string{"id," + id, "info,visteam,BOS", "info,hometeam,NYA", `com,"sunny"`}
	for i := 0; i < plays; i++ {
		lines = append(lines, fmt.Sprintf("play,1,0,bat%05d,00,,S8", i))
	}
	return lines
}

func gameIDs(t *testing.T, col []decode.Value) []string {
	t.Helper()
	out := make([]string, len(col))
	for i, v := range col {
		s, ok := v.AsString()
		require.True(t, ok)
		out[i] = s
	}
	return out
}

func TestParseFile(t *testing.T) {
	lines := append(gameLines("NYA202304010", 2), gameLines("NYA202304020", 3)...)

	tb, err := ParseFile("2023NYA.EVA", lines, quiet)
	require.NoError(t, err)
	assert.Equal(t, 5, tb.Len())
	assert.Equal(t, schema.Headers(), tb.Headers())

	ids, err := tb.Column("GAME_ID")
	require.NoError(t, err)
	assert.Equal(t, []string{"NYA202304010", "NYA202304010", "NYA202304020", "NYA202304020", "NYA202304020"}, gameIDs(t, ids))
}

func TestParseFileKeepsCompletedGames(t *testing.T) {
	lines := append(gameLines("G1", 2), "id,G2", "play,1,0,bat00001,00,,S8", "play,x,0,bat00002,00,,S8")

	tb, err := ParseFile("2023NYA.EVA", lines, quiet)

	var fe *decode.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "2023NYA.EVA", fe.File)
	assert.Equal(t, len(lines), fe.Line)
	assert.Equal(t, schema.Inning, fe.Field)
	assert.Equal(t, 2, tb.Len())
}

func TestParseFileEmpty(t *testing.T) {
	tb, err := ParseFile("EMPTY.EVA", nil, quiet)
	require.NoError(t, err)
	assert.Equal(t, 0, tb.Len())
}

func TestParseFileIdempotent(t *testing.T) {
	lines := gameLines("G1", 4)
	a, err := ParseFile("A.EVA", lines, quiet)
	require.NoError(t, err)
	b, err := ParseFile("A.EVA", lines, quiet)
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestParseAllOrderIndependentOfWorkers(t *testing.T) {
	var files []File
	for i := 0; i < 12; i++ {
		files = append(files, File{
			Name:  fmt.Sprintf("F%02d.EVA", i),
			Lines: gameLines(fmt.Sprintf("GAME%02d", i), i%3+1),
		})
	}

	serial, _, err := ParseAll(context.Background(), files, Options{Logger: logger.Discard(), Workers: 1})
	require.NoError(t, err)
	parallel, results, err := ParseAll(context.Background(), files, Options{Logger: logger.Discard(), Workers: 4})
	require.NoError(t, err)

	assert.Equal(t, serial.Fingerprint(), parallel.Fingerprint())
	require.Len(t, results, len(files))
	total := 0
	for i, r := range results {
		assert.Equal(t, files[i].Name, r.Name)
		assert.Equal(t, 1, r.Games)
		assert.Equal(t, i%3+1, r.Rows)
		assert.Equal(t, 1, r.Skipped)
		total += r.Rows
	}
	assert.Equal(t, total, parallel.Len())

	ids, err := parallel.Column("GAME_ID")
	require.NoError(t, err)
	assert.Equal(t, "GAME00", gameIDs(t, ids)[0])
	assert.Equal(t, "GAME11", gameIDs(t, ids)[total-1])
}

func TestParseAllIsolatesFailures(t *testing.T) {
	files := []File{
		{Name: "A.EVA", Lines: gameLines("GA", 2)},
		{Name: "B.EVA", Lines: []string{"play,1,0,bat00001,00,,S8"}},
		{Name: "C.EVA", Lines: gameLines("GC", 1)},
	}

	tb, results, err := ParseAll(context.Background(), files, Options{Logger: logger.Discard(), Workers: 3})
	require.Error(t, err)

	var fe *decode.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "B.EVA", fe.File)

	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 3, tb.Len())
}

func TestParseAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := []File{{Name: "A.EVA", Lines: gameLines("GA", 1)}}
	tb, results, err := ParseAll(ctx, files, quiet)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
	assert.Equal(t, 0, tb.Len())
}
