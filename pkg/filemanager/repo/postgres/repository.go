package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-files/pkg/filemanager"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements filemanager.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if pgErr.ConstraintName == "users_email_key" {
				return filemanager.ErrUserExists
			}
			return fmt.Errorf("duplicate entry in %s", operation)
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

const fileColumns = `id, owner_id, name, kind, parent_id, is_public, content_locator, created_at, updated_at`

func scanFile(row pgx.Row) (*filemanager.File, error) {
	var file filemanager.File
	err := row.Scan(
		&file.ID, &file.OwnerID, &file.Name, &file.Kind, &file.ParentID,
		&file.IsPublic, &file.ContentLocator, &file.CreatedAt, &file.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// File operations

func (r *Repository) CreateFile(ctx context.Context, file *filemanager.File) error {
	query := `
		INSERT INTO files (
			id, owner_id, name, kind, parent_id, is_public,
			content_locator, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		file.ID, file.OwnerID, file.Name, file.Kind, file.ParentID, file.IsPublic,
		file.ContentLocator, file.CreatedAt, file.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create file", err)
	}
	return nil
}

func (r *Repository) GetFile(ctx context.Context, id uuid.UUID) (*filemanager.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`

	file, err := scanFile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, filemanager.ErrFileNotFound
		}
		return nil, r.handlePostgresError("get file", err)
	}
	return file, nil
}

func (r *Repository) GetOwnedFile(ctx context.Context, ownerID, id uuid.UUID) (*filemanager.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1 AND owner_id = $2`

	file, err := scanFile(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, filemanager.ErrFileNotFound
		}
		return nil, r.handlePostgresError("get owned file", err)
	}
	return file, nil
}

func (r *Repository) ListFiles(ctx context.Context, ownerID, parentID uuid.UUID, offset, limit int) ([]*filemanager.File, error) {
	query := `
		SELECT ` + fileColumns + `
		FROM files
		WHERE owner_id = $1 AND parent_id = $2
		ORDER BY seq
		OFFSET $3 LIMIT $4`

	rows, err := r.db.Query(ctx, query, ownerID, parentID, offset, limit)
	if err != nil {
		return nil, r.handlePostgresError("list files", err)
	}
	defer rows.Close()

	files := []*filemanager.File{}
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, r.handlePostgresError("scan file", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list files", err)
	}
	return files, nil
}

func (r *Repository) SetFileVisibility(ctx context.Context, ownerID, id uuid.UUID, isPublic bool) (*filemanager.File, error) {
	query := `
		UPDATE files SET is_public = $3, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + fileColumns

	file, err := scanFile(r.db.QueryRow(ctx, query, id, ownerID, isPublic))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, filemanager.ErrFileNotFound
		}
		return nil, r.handlePostgresError("set file visibility", err)
	}
	return file, nil
}

func (r *Repository) CountFiles(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM files`).Scan(&n); err != nil {
		return 0, r.handlePostgresError("count files", err)
	}
	return n, nil
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *filemanager.User) error {
	query := `INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return r.handlePostgresError("create user", err)
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*filemanager.User, error) {
	query := `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`

	var user filemanager.User
	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, filemanager.ErrUserNotFound
		}
		return nil, r.handlePostgresError("get user", err)
	}
	return &user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*filemanager.User, error) {
	query := `SELECT id, email, password_hash, created_at FROM users WHERE lower(email) = lower($1)`

	var user filemanager.User
	err := r.db.QueryRow(ctx, query, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, filemanager.ErrUserNotFound
		}
		return nil, r.handlePostgresError("get user by email", err)
	}
	return &user, nil
}

func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, r.handlePostgresError("count users", err)
	}
	return n, nil
}

// Ping checks that the database answers.
func (r *Repository) Ping(ctx context.Context) error {
	var one int
	return r.db.QueryRow(ctx, `SELECT 1`).Scan(&one)
}
