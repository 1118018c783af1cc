package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyFileRotatesOnDateChange(t *testing.T) {
	dir := t.TempDir()
	clock := time.Date(2026, time.October, 14, 23, 59, 0, 0, time.Local)

	d, err := OpenDailyFile(dir, 7)
	require.NoError(t, err)
	defer d.Close()
	d.now = func() time.Time { return clock }

	_, err = d.Write([]byte("before midnight\n"))
	require.NoError(t, err)
	clock = clock.Add(2 * time.Minute)
	_, err = d.Write([]byte("after midnight\n"))
	require.NoError(t, err)

	body, err := os.ReadFile(filepath.Join(dir, "kaizen-2026-10-15.log"))
	require.NoError(t, err)
	assert.Equal(t, "after midnight\n", string(body))
	body, err = os.ReadFile(filepath.Join(dir, "kaizen-2026-10-14.log"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "before midnight\n")
}

func TestPruneKeepsRetentionWindow(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"kaizen-2026-10-01.log",
		"kaizen-2026-10-08.log",
		"kaizen-2026-10-14.log",
		"kaizen-notadate.log",
		"other-2026-09-01.log",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	prune(dir, 7, time.Date(2026, time.October, 14, 12, 0, 0, 0, time.Local))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := []string{}
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	assert.ElementsMatch(t, []string{
		"kaizen-2026-10-08.log",
		"kaizen-2026-10-14.log",
		"kaizen-notadate.log",
		"other-2026-09-01.log",
	}, names)
}

func TestOpenDailyFileClampsRetention(t *testing.T) {
	d, err := OpenDailyFile(t.TempDir(), 30)
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, MaxRetentionDays, d.retention)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
}
