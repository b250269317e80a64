package history_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyreview/pyreview/internal/adapters/outbound/history"
	"github.com/pyreview/pyreview/internal/domain"
)

func entry(id, hash string, score, attempt int, at time.Time) domain.ReviewEntry {
	return domain.ReviewEntry{
		ID:         id,
		Timestamp:  at,
		SourceHash: hash,
		StyleScore: score,
		IssueCount: (100 - score) / 3,
		PassRate:   100,
		Attempt:    attempt,
	}
}

func TestStore_SaveAndLast(t *testing.T) {
	store, err := history.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	now := time.Now()
	require.NoError(t, store.Save(entry("a", "hash1", 91, 1, now)))
	require.NoError(t, store.Save(entry("b", "hash2", 97, 2, now.Add(time.Second))))

	last, err := store.Last("")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "b", last.ID)
	assert.Equal(t, 97, last.StyleScore)
	assert.Equal(t, 2, last.Attempt)
}

func TestStore_LastFiltersBySourceHash(t *testing.T) {
	store, err := history.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	now := time.Now()
	require.NoError(t, store.Save(entry("a", "hash1", 91, 1, now)))
	require.NoError(t, store.Save(entry("b", "hash2", 97, 2, now.Add(time.Second))))

	last, err := store.Last("hash1")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "a", last.ID)
}

func TestStore_LastOnEmptyStore(t *testing.T) {
	store, err := history.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	last, err := store.Last("")
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestStore_RecentNewestFirst(t *testing.T) {
	store, err := history.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	now := time.Now()
	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		require.NoError(t, store.Save(entry(id, "hash", 90+i, i+1, now.Add(time.Duration(i)*time.Second))))
	}

	entries, err := store.Recent(3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "e", entries[0].ID)
	assert.Equal(t, "d", entries[1].ID)
	assert.Equal(t, "c", entries[2].ID)
}

func TestStore_RoundTripsFields(t *testing.T) {
	store, err := history.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	in := domain.ReviewEntry{
		ID:         "round",
		Timestamp:  time.Now().UTC().Truncate(time.Millisecond),
		SourceHash: "abc123",
		CommitHash: "deadbeef",
		StyleScore: 85,
		IssueCount: 5,
		PassRate:   66.7,
		Attempt:    3,
		ReportJSON: `{"id":"round"}`,
	}
	require.NoError(t, store.Save(in))

	out, err := store.Last("")
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.SourceHash, out.SourceHash)
	assert.Equal(t, in.CommitHash, out.CommitHash)
	assert.Equal(t, in.StyleScore, out.StyleScore)
	assert.Equal(t, in.IssueCount, out.IssueCount)
	assert.InDelta(t, in.PassRate, out.PassRate, 0.001)
	assert.Equal(t, in.Attempt, out.Attempt)
	assert.Equal(t, in.ReportJSON, out.ReportJSON)
	assert.True(t, out.Timestamp.Equal(in.Timestamp))
}
