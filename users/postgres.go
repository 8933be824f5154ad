package users

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository on top of a pgx connection pool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `username, password, firstname, lastname, email, filename, word_count`

// scanUser scans one row of userColumns into a User, converting the nullable
// filename and word_count columns to pointers.
func scanUser(row interface{ Scan(dest ...any) error }) (*User, error) {
	var user User
	var filename sql.NullString
	var wordCount sql.NullInt64

	err := row.Scan(
		&user.Username,
		&user.Password,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&filename,
		&wordCount,
	)
	if err != nil {
		return nil, err
	}

	if filename.Valid {
		user.Filename = &filename.String
	}
	if wordCount.Valid {
		wc := int(wordCount.Int64)
		user.WordCount = &wc
	}
	return &user, nil
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1
	`
	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) FindByCredentials(ctx context.Context, username, password string) (*User, error) {
	// Exact-match comparison against the stored cleartext password. This
	// preserves the source system's authentication contract; see DESIGN.md
	// before hardening.
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1 AND password = $2
	`
	user, err := scanUser(r.db.QueryRow(ctx, query, username, password))
	if err != nil {
		return nil, fmt.Errorf("find user by credentials: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (username, password, firstname, lastname, email)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		user.Username, user.Password, user.FirstName, user.LastName, user.Email)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateUpload(ctx context.Context, username, filename string, wordCount int) error {
	query := `
		UPDATE users
		SET filename = $1, word_count = $2
		WHERE username = $3
	`
	_, err := r.db.Exec(ctx, query, filename, wordCount, username)
	if err != nil {
		return fmt.Errorf("update user upload: %w", err)
	}
	return nil
}
