package apikeys

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/softgatehq/softgate/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const selectQuery = `(?s)^SELECT\s+id,\s*team_id,\s*hashed_key,\s*owner_email,\s*owner_role,\s*expires_at,\s*last_used_at,\s*created_at\s+FROM\s+api_keys\s+WHERE\s+hashed_key\s*=\s*\$1\s*$`

func TestGetByHash_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "team_id", "hashed_key", "owner_email", "owner_role", "expires_at", "last_used_at", "created_at"}).
		AddRow("k1", "t1", "abc123", "alice@acme.io", "admin", nil, nil, now)
	mock.ExpectQuery(selectQuery).WithArgs("abc123").WillReturnRows(rows)

	key, err := repo.GetByHash(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("GetByHash error: %v", err)
	}
	if key.ID != "k1" || key.TeamID != "t1" || key.OwnerRole != "admin" {
		t.Fatalf("unexpected key: %+v", key)
	}
	if key.ExpiresAt != nil {
		t.Fatalf("expected nil ExpiresAt, got %v", key.ExpiresAt)
	}
}

func TestGetByHash_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQuery).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByHash(context.Background(), "nope")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestTouchLastUsed(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(`(?s)^UPDATE\s+api_keys\s+SET\s+last_used_at\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s*$`).
		WithArgs("k1", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.TouchLastUsed(context.Background(), "k1", now); err != nil {
		t.Fatalf("TouchLastUsed error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
