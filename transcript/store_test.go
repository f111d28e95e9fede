package transcript

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wicaksana/tanya/dialogue"
)

func TestOpenAppliesSchemaIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.db")

	store, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening must not fail
	store, err = Open(path, nil)
	require.NoError(t, err)
	defer store.Close()

	var tables int
	err = store.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='transcripts'",
	).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 1, tables)
}

func TestRecordAndRecentBySession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.db")
	store, err := Open(path, nil)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	score := 0.12
	require.NoError(t, store.Record(ctx, dialogue.Record{
		SessionID: "s1",
		Utterance: "bagaimana cuaca di jakarta",
		Answer:    "Cerah",
		Source:    dialogue.SourceQA,
		Language:  "id",
		Intent:    "weather",
		Score:     &score,
	}))
	require.NoError(t, store.Record(ctx, dialogue.Record{
		SessionID: "s1",
		Utterance: "zzz",
		Answer:    "Maaf",
		Source:    dialogue.SourceDefault,
		Language:  "id",
	}))
	require.NoError(t, store.Record(ctx, dialogue.Record{
		SessionID: "other",
		Utterance: "halo",
		Answer:    "Halo!",
		Source:    dialogue.SourceQA,
		Language:  "id",
	}))

	entries, err := store.RecentBySession(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "s1", e.SessionID)
		assert.NotEmpty(t, e.ID)
	}

	entries, err = store.RecentBySession(ctx, "absent", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordWrapsDatabaseErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO transcripts").
		WithArgs(sqlmock.AnyArg(), "s1", "halo", "Halo!", dialogue.SourceQA, "id", "greeting", nil).
		WillReturnError(assert.AnError)

	store := NewStore(db, nil)
	err = store.Record(context.Background(), dialogue.Record{
		SessionID: "s1",
		Utterance: "halo",
		Answer:    "Halo!",
		Source:    dialogue.SourceQA,
		Language:  "id",
		Intent:    "greeting",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert transcript row")
	assert.NoError(t, mock.ExpectationsWereMet())
}
