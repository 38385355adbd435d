package requests

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/softgatehq/softgate/internal/common"
	"github.com/softgatehq/softgate/internal/dbx"
	"github.com/softgatehq/softgate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const columns = `id, team_id, requested_by, software_name, version, download_source,
	file_url, file_size_bytes, sha256, md5, notes, status, answers, risk_analysis,
	created_at, approval_date, denied_date`

func (r *PostgresRepository) Create(ctx context.Context, req *models.SoftwareRequest) (*models.SoftwareRequest, error) {
	answers, err := marshalAnswers(req.Answers)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO software_requests
		 (id, team_id, requested_by, software_name, version, download_source,
		  file_url, file_size_bytes, sha256, md5, notes, status, answers, risk_analysis)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING created_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		req.ID, req.TeamID, req.RequestedBy, req.SoftwareName, req.Version,
		req.DownloadSource, req.FileURL, req.FileSizeBytes, req.SHA256, req.MD5,
		req.Notes, req.Status, answers, req.RiskAnalysis).Scan(&req.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return req, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, teamID, id string) (*models.SoftwareRequest, error) {
	query := `SELECT ` + columns + ` FROM software_requests WHERE team_id = $1 AND id = $2`

	row := r.db.QueryRowContext(ctx, query, teamID, id)
	req, err := scanRequest(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return req, nil
}

func (r *PostgresRepository) ListByStatus(ctx context.Context, teamID string, status models.Status) ([]*models.SoftwareRequest, error) {
	query := `SELECT ` + columns + ` FROM software_requests
		 WHERE team_id = $1 AND status = $2
		 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, teamID, status)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.SoftwareRequest
	for rows.Next() {
		req, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) ApplyDecision(ctx context.Context, id string, status models.Status, answers models.AnswerSet, narrative string, decidedAt time.Time) error {
	encoded, err := marshalAnswers(answers)
	if err != nil {
		return err
	}

	// The status guard makes the terminal transition single-shot; the CASE
	// expressions keep approval_date/denied_date mutually exclusive.
	query :=
		`UPDATE software_requests
		 SET status = $2,
		     answers = $3,
		     risk_analysis = $4,
		     approval_date = CASE WHEN $2 = 'approved' THEN $5 END,
		     denied_date = CASE WHEN $2 = 'denied' THEN $5 END
		 WHERE id = $1 AND status = 'pending'
		 `

	res, err := r.db.ExecContext(ctx, query, id, status, encoded, narrative, decidedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if ra == 0 {
		return common.ErrTerminalState
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, teamID, id string) error {
	query := `DELETE FROM software_requests WHERE team_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, query, teamID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func marshalAnswers(answers models.AnswerSet) ([]byte, error) {
	if answers == nil {
		answers = models.AnswerSet{}
	}
	b, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}
	return b, nil
}

func scanRequest(scan func(dest ...any) error) (*models.SoftwareRequest, error) {
	req := &models.SoftwareRequest{}
	var answers []byte

	err := scan(
		&req.ID, &req.TeamID, &req.RequestedBy, &req.SoftwareName, &req.Version,
		&req.DownloadSource, &req.FileURL, &req.FileSizeBytes, &req.SHA256, &req.MD5,
		&req.Notes, &req.Status, &answers, &req.RiskAnalysis,
		&req.CreatedAt, &req.ApprovalDate, &req.DeniedDate)
	if err != nil {
		return nil, err
	}

	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &req.Answers); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
	}
	return req, nil
}
