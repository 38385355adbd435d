package downloads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/softgatehq/softgate/internal/agent/models"
	"github.com/softgatehq/softgate/internal/common"
	"github.com/softgatehq/softgate/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// checkInvariants rejects rows that violate the lifecycle rules before they
// reach the database.
func checkInvariants(d *models.PendingDownload) error {
	if d.ServerRequestID != "" && d.Status == models.StatusPending {
		return fmt.Errorf("%w: pending record cannot carry a server request id", common.ErrorValidation)
	}
	if d.Status == models.StatusSent && d.ServerRequestID == "" {
		return fmt.Errorf("%w: sent record requires a server request id", common.ErrorValidation)
	}
	return nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, d *models.PendingDownload) error {
	if err := checkInvariants(d); err != nil {
		return err
	}

	query := ` INSERT INTO pending_downloads
			(local_id, file_name, file_size_bytes, source_url, download_source,
			 status, server_request_id, team_id, last_error, created_at, updated_at)
			values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		d.LocalID, d.FileName, d.FileSizeBytes, d.SourceURL, d.DownloadSource,
		d.Status, d.ServerRequestID, d.TeamID, d.LastError, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert download: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, localID string) (*models.PendingDownload, error) {
	query := `select local_id, file_name, file_size_bytes, source_url, download_source,
			status, server_request_id, team_id, last_error, created_at, updated_at
			from pending_downloads where local_id=?`
	row := r.db.QueryRowContext(ctx, query, localID)

	d := &models.PendingDownload{}
	err := row.Scan(&d.LocalID, &d.FileName, &d.FileSizeBytes, &d.SourceURL, &d.DownloadSource,
		&d.Status, &d.ServerRequestID, &d.TeamID, &d.LastError, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return d, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.PendingDownload, error) {
	query := `select local_id, file_name, file_size_bytes, source_url, download_source,
			status, server_request_id, team_id, last_error, created_at, updated_at
			from pending_downloads order by created_at desc`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select downloads: %w", err)
	}
	defer rows.Close()

	var result []*models.PendingDownload
	for rows.Next() {
		d := &models.PendingDownload{}
		if err := rows.Scan(&d.LocalID, &d.FileName, &d.FileSizeBytes, &d.SourceURL, &d.DownloadSource,
			&d.Status, &d.ServerRequestID, &d.TeamID, &d.LastError, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, d *models.PendingDownload) error {
	if err := checkInvariants(d); err != nil {
		return err
	}

	query := `update pending_downloads set
			status=?, server_request_id=?, team_id=?, last_error=?, updated_at=?
			where local_id=?`
	res, err := r.db.ExecContext(ctx, query,
		d.Status, d.ServerRequestID, d.TeamID, d.LastError, d.UpdatedAt, d.LocalID)
	if err != nil {
		return fmt.Errorf("failed to update download: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, localID string) error {
	res, err := r.db.ExecContext(ctx, `delete from pending_downloads where local_id=?`, localID)
	if err != nil {
		return fmt.Errorf("failed to delete download: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}
