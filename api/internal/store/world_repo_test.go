package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*WorldRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWorldRepo(db), mock
}

func TestUpsert(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec("insert into worlds_cache").
		WithArgs("w_1", int64(42), "Harbor", "a foggy harbor", "Marble 0.1-mini",
			"https://marble.worldlabs.ai/world/w_1", "https://cdn/thumb.jpg").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), WorldRecord{
		WorldID:      "w_1",
		ChatID:       42,
		DisplayName:  "Harbor",
		PromptText:   "a foggy harbor",
		Model:        "Marble 0.1-mini",
		MarbleURL:    "https://marble.worldlabs.ai/world/w_1",
		ThumbnailURL: "https://cdn/thumb.jpg",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecent(t *testing.T) {
	repo, mock := newRepo(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"world_id", "chat_id", "display_name", "prompt_text", "model", "marble_url", "thumbnail_url", "created_at",
	}).
		AddRow("w_2", int64(42), "B", "p2", "m", "u2", "", now).
		AddRow("w_1", int64(42), "A", "p1", "m", "u1", "", now.Add(-time.Hour))

	mock.ExpectQuery("select .+ from worlds_cache").
		WithArgs(int64(42), 5).
		WillReturnRows(rows)

	recs, err := repo.Recent(context.Background(), 42, 5)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "w_2", recs[0].WorldID)
	assert.Equal(t, "w_1", recs[1].WorldID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentDefaultLimit(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("select .+ from worlds_cache").
		WithArgs(int64(7), 10).
		WillReturnRows(sqlmock.NewRows([]string{
			"world_id", "chat_id", "display_name", "prompt_text", "model", "marble_url", "thumbnail_url", "created_at",
		}))

	recs, err := repo.Recent(context.Background(), 7, 0)
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindMissing(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("select .+ from worlds_cache").
		WithArgs("w_missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), "w_missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
