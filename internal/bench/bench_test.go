package bench

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeamy/golomb/pkg/golomb"
)

func TestSweepProducesOneRowPerN(t *testing.T) {
	opts := golomb.DefaultOptions()
	opts.Config.Threads = 2
	rows, err := Sweep(context.Background(), []int{4, 7}, 100, opts)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 6, rows[0].Length)
	assert.Equal(t, 25, rows[1].Length)
	assert.Positive(t, rows[0].Explored)
}

func TestVerifyAcceptsCorrectRow(t *testing.T) {
	row := Row{N: 7, MaxLen: 100, Length: 25, Marks: []int{0, 1, 4, 10, 18, 23, 25}}
	assert.NoError(t, Verify(row))
}

func TestVerifyRejectsWrongLength(t *testing.T) {
	row := Row{N: 7, MaxLen: 100, Length: 24, Marks: []int{0, 1, 4, 10, 18, 23, 24}}
	assert.Error(t, Verify(row))
}

func TestVerifyRejectsDuplicateDifference(t *testing.T) {
	row := Row{N: 4, MaxLen: 100, Length: 3, Marks: []int{0, 1, 2, 3}}
	assert.Error(t, Verify(row))
}

func TestVerifyAcceptsEmptyRulerWhenNoOptimumTabulated(t *testing.T) {
	row := Row{N: 20, MaxLen: 5, Length: 0, Marks: nil}
	assert.NoError(t, Verify(row))
}

func TestVerifyRejectsEmptyRulerWhenOptimumIsTabulated(t *testing.T) {
	row := Row{N: 7, MaxLen: 5, Length: 0, Marks: nil}
	assert.Error(t, Verify(row))
}

func TestWriteCSVGzCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.csv.gz")
	rows := []Row{{N: 4, MaxLen: 100, Length: 6, ElapsedMillis: 5, Explored: 42, StatesPerSec: 8.4}}
	require.NoError(t, WriteCSVGz(path, rows))

	require.FileExists(t, path)
}

func TestWriteSQLiteCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.db")
	rows := []Row{{N: 4, MaxLen: 100, Length: 6, ElapsedMillis: 5, Explored: 42, StatesPerSec: 8.4}}
	require.NoError(t, WriteSQLite(path, rows))

	require.FileExists(t, path)
}
