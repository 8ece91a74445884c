package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRecordAndLastRun(t *testing.T) {
	ctx := context.Background()
	c := openTemp(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	first, err := c.Record(ctx, Run{File: "2023NYA.EVA", InputDigest: 1, TableDigest: ^uint64(0), Rows: 10, Games: 1, ParsedAt: base})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := c.Record(ctx, Run{File: "2023NYA.EVA", InputDigest: 2, TableDigest: 3, Rows: 12, Games: 2, ParsedAt: base.Add(time.Minute)})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	_, err = c.Record(ctx, Run{File: "2023BOS.EVA", Rows: 1})
	require.NoError(t, err)

	last, err := c.LastRun(ctx, "2023NYA.EVA")
	require.NoError(t, err)
	assert.Equal(t, second.ID, last.ID)
	assert.Equal(t, uint64(2), last.InputDigest)
	assert.Equal(t, uint64(3), last.TableDigest)
	assert.Equal(t, 12, last.Rows)
	assert.Equal(t, 2, last.Games)
	assert.True(t, last.ParsedAt.Equal(base.Add(time.Minute)))

	runs, err := c.Runs(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestLargeDigestRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := openTemp(t)

	_, err := c.Record(ctx, Run{File: "f", TableDigest: ^uint64(0)})
	require.NoError(t, err)
	last, err := c.LastRun(ctx, "f")
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), last.TableDigest)
}

func TestLastRunMissing(t *testing.T) {
	c := openTemp(t)
	_, err := c.LastRun(context.Background(), "never.EVA")
	assert.ErrorIs(t, err, ErrNoRun)
}

func TestReopenKeepsRuns(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	c, err := Open(path)
	require.NoError(t, err)
	_, err = c.Record(ctx, Run{File: "2023NYA.EVA", Rows: 5})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c, err = Open(path)
	require.NoError(t, err)
	defer c.Close() // nolint:errcheck

	last, err := c.LastRun(ctx, "2023NYA.EVA")
	require.NoError(t, err)
	assert.Equal(t, 5, last.Rows)
}

func TestInputDigest(t *testing.T) {
	a := InputDigest([]string{"id,G1", "play,1,0,x,00,,S8"})
	b := InputDigest([]string{"id,G1", "play,1,0,x,00,,S8"})
	c := InputDigest([]string{"id,G1", "play,1,0,x,00,,S7"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
