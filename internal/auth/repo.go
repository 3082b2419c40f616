package auth

import (
	"context"
	"database/sql"
	"fmt"

	"raidrelay/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) CreateUser(ctx context.Context, u models.User) error {
	var linked any
	if u.LinkedUserID != "" {
		linked = u.LinkedUserID
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, linked_user_id)
		VALUES (?, ?, ?, ?)
	`, u.ID, u.Username, u.PasswordHash, linked)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *Repo) getBy(ctx context.Context, column, value string) (*models.User, error) {
	row := r.DB.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, username, password_hash, COALESCE(linked_user_id, '')
		FROM users
		WHERE %s = ?
	`, column), value)

	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.LinkedUserID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
