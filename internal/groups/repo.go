package groups

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

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Group, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(slug, ''), COALESCE(legacy_name, ''), created_at
		FROM groups
		WHERE id = ?
	`, id)

	var g models.Group
	if err := row.Scan(&g.ID, &g.Name, &g.Slug, &g.LegacyName, &g.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan group: %w", err)
	}
	return &g, nil
}

// findIDsBy runs one equality lookup against a single attribute. column is
// always one of the fixed names below, never caller input.
func (r *Repo) findIDsBy(ctx context.Context, column, token string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		fmt.Sprintf(`SELECT id FROM groups WHERE LOWER(%s) = LOWER(?)`, column), token)
	if err != nil {
		return nil, fmt.Errorf("lookup by %s: %w", column, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s lookup: %w", column, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return ids, nil
}

// Strategies returns the ordered lookup attributes for token resolution.
// slug is the preferred modern attribute; name and legacy_name cover the
// historical token shapes. A deployment missing one of the columns makes
// that strategy error, which the resolver tolerates.
func (r *Repo) Strategies() []Strategy {
	attr := func(column string) Strategy {
		return Strategy{
			Name: "by_" + column,
			Find: func(ctx context.Context, token string) ([]string, error) {
				return r.findIDsBy(ctx, column, token)
			},
		}
	}
	return []Strategy{attr("slug"), attr("name"), attr("legacy_name")}
}
