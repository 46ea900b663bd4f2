package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/registrylabs/content-registry/pkg/registry"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements registry.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) registry.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) registry.Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "email") {
				return &registry.DuplicateError{Field: "Email"}
			}
			if strings.Contains(pgErr.ConstraintName, "username") {
				return &registry.DuplicateError{Field: "Username"}
			}
			return fmt.Errorf("duplicate entry in %s", operation)
		case "23503": // foreign_key_violation
			return registry.ErrUserNotFound
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

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *registry.User) error {
	query := `
		INSERT INTO users (id, email, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return r.handlePostgresError("create user", err)
	}

	return nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*registry.User, error) {
	query := `
		SELECT id, email, username, password_hash, created_at
		FROM users WHERE id = $1`

	user, err := r.scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registry.ErrUserNotFound
		}
		return nil, r.handlePostgresError("get user", err)
	}

	return user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*registry.User, error) {
	query := `
		SELECT id, email, username, password_hash, created_at
		FROM users WHERE lower(email) = lower($1)`

	user, err := r.scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registry.ErrUserNotFound
		}
		return nil, r.handlePostgresError("get user by email", err)
	}

	return user, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*registry.User, error) {
	query := `
		SELECT id, email, username, password_hash, created_at
		FROM users WHERE username = $1`

	user, err := r.scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registry.ErrUserNotFound
		}
		return nil, r.handlePostgresError("get user by username", err)
	}

	return user, nil
}

func (r *Repository) scanUser(row pgx.Row) (*registry.User, error) {
	var user registry.User
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Content operations

func (r *Repository) CreateContent(ctx context.Context, content *registry.Content) error {
	query := `
		INSERT INTO content (
			id, owner_id, content_type, title, body,
			file_key, file_url, file_name, file_mime, file_size,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(ctx, query,
		content.ID, content.OwnerID, content.Type, content.Title, content.Body,
		content.FileKey, content.FileURL, content.FileName, content.FileMime, content.FileSize,
		content.CreatedAt, content.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create content", err)
	}

	return nil
}

const contentColumns = `
		id, owner_id, content_type, title, body,
		file_key, file_url, file_name, file_mime, file_size,
		created_at, updated_at`

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*registry.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM content WHERE id = $1`

	content, err := r.scanContent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registry.ErrContentNotFound
		}
		return nil, r.handlePostgresError("get content", err)
	}

	return content, nil
}

func (r *Repository) UpdateContent(ctx context.Context, content *registry.Content) error {
	query := `
		UPDATE content SET
			title = $2, body = $3,
			file_key = $4, file_url = $5, file_name = $6, file_mime = $7, file_size = $8,
			updated_at = $9
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		content.ID, content.Title, content.Body,
		content.FileKey, content.FileURL, content.FileName, content.FileMime, content.FileSize,
		content.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update content", err)
	}
	if tag.RowsAffected() == 0 {
		return registry.ErrContentNotFound
	}

	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM content WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete content", err)
	}
	if tag.RowsAffected() == 0 {
		return registry.ErrContentNotFound
	}

	return nil
}

func (r *Repository) ListContentByOwner(ctx context.Context, ownerID uuid.UUID) ([]*registry.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM content WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, r.handlePostgresError("list content by owner", err)
	}
	defer rows.Close()

	var result []*registry.Content
	for rows.Next() {
		content, err := r.scanContent(rows)
		if err != nil {
			return nil, r.handlePostgresError("list content by owner", err)
		}
		result = append(result, content)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list content by owner", err)
	}

	return result, nil
}

func (r *Repository) scanContent(row pgx.Row) (*registry.Content, error) {
	var content registry.Content
	err := row.Scan(
		&content.ID, &content.OwnerID, &content.Type, &content.Title, &content.Body,
		&content.FileKey, &content.FileURL, &content.FileName, &content.FileMime, &content.FileSize,
		&content.CreatedAt, &content.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &content, nil
}
