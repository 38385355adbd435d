package downloads

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/softgatehq/softgate/internal/agent/models"
	"github.com/softgatehq/softgate/internal/common"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE pending_downloads (
  local_id TEXT PRIMARY KEY,
  file_name TEXT NOT NULL,
  file_size_bytes INTEGER NOT NULL DEFAULT 0,
  source_url TEXT NOT NULL DEFAULT '',
  download_source TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending',
  server_request_id TEXT NOT NULL DEFAULT '',
  team_id TEXT NOT NULL DEFAULT '',
  last_error TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func sample(id string) *models.PendingDownload {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.PendingDownload{
		LocalID:        id,
		FileName:       "7zip-24.exe",
		FileSizeBytes:  4096,
		SourceURL:      "https://mirror.example/7zip-24.exe",
		DownloadSource: "7-zip.org",
		Status:         models.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestInsertAndGetByID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	d := sample("id1")
	require.NoError(t, r.Insert(ctx, d))

	got, err := r.GetByID(ctx, "id1")
	require.NoError(t, err)
	assert.Equal(t, d.FileName, got.FileName)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Empty(t, got.ServerRequestID)
}

func TestGetByID_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdate(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	d := sample("id1")
	require.NoError(t, r.Insert(ctx, d))

	d.Status = models.StatusSent
	d.ServerRequestID = "srv-9"
	d.TeamID = "t1"
	d.UpdatedAt = time.Now().UTC()
	require.NoError(t, r.Update(ctx, d))

	got, err := r.GetByID(ctx, "id1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSent, got.Status)
	assert.Equal(t, "srv-9", got.ServerRequestID)
	assert.Equal(t, "t1", got.TeamID)
}

func TestUpdate_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	d := sample("ghost")
	err := r.Update(context.Background(), d)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInvariants(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	t.Run("pending with server id rejected", func(t *testing.T) {
		d := sample("bad1")
		d.ServerRequestID = "srv-1"
		err := r.Insert(ctx, d)
		assert.ErrorIs(t, err, common.ErrorValidation)
	})

	t.Run("sent without server id rejected", func(t *testing.T) {
		d := sample("bad2")
		d.Status = models.StatusSent
		err := r.Insert(ctx, d)
		assert.ErrorIs(t, err, common.ErrorValidation)
	})
}

func TestGetAll_NewestFirst(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	older := sample("id1")
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	require.NoError(t, r.Insert(ctx, older))
	require.NoError(t, r.Insert(ctx, sample("id2")))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "id2", all[0].LocalID)
	assert.Equal(t, "id1", all[1].LocalID)
}

func TestDeleteByID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, sample("id1")))
	require.NoError(t, r.DeleteByID(ctx, "id1"))

	_, err := r.GetByID(ctx, "id1")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, r.DeleteByID(ctx, "id1"), common.ErrorNotFound)
}
