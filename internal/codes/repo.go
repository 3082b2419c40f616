package codes

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

func (r *Repo) Create(ctx context.Context, rc models.RaidCode) error {
	var user any
	if rc.UserID != "" {
		user = rc.UserID
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO raid_codes (id, group_id, user_id, poster_name, boss_name, battle_name, code, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rc.ID, rc.GroupID, user, rc.PosterName, rc.BossName, rc.BattleName, rc.Code, rc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert raid code: %w", err)
	}
	return nil
}

func (r *Repo) ListRecent(ctx context.Context, groupID string, limit int) ([]models.RaidCode, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, group_id, COALESCE(user_id, ''), COALESCE(poster_name, ''),
		       COALESCE(boss_name, ''), COALESCE(battle_name, ''), code, created_at
		FROM raid_codes
		WHERE group_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, groupID, limit)
	if err != nil {
		return nil, fmt.Errorf("list codes query: %w", err)
	}
	defer rows.Close()

	out := make([]models.RaidCode, 0, limit)
	for rows.Next() {
		var rc models.RaidCode
		if err := rows.Scan(
			&rc.ID, &rc.GroupID, &rc.UserID, &rc.PosterName,
			&rc.BossName, &rc.BattleName, &rc.Code, &rc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("list codes scan: %w", err)
		}
		out = append(out, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
