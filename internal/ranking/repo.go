package ranking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"raidrelay/internal/timewindow"
)

// Repo issues the store-side aggregation queries. The store returns rows
// already grouped by raw account id (or raw label); the aggregator re-merges
// them regardless, so partial upstream aggregation is harmless.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// TopPosters fetches poster counts for a group inside a window, grouped by
// raw account. Anonymous rows group by their own row id so they stay
// separate all the way through.
func (r *Repo) TopPosters(ctx context.Context, groupID string, w timewindow.Window, fetch int) ([]PosterRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT
			COALESCE(rc.user_id, ''),
			COALESCE(u.linked_user_id, ''),
			COALESCE(u.username, rc.poster_name, ''),
			COUNT(*) AS cnt,
			MAX(rc.created_at)
		FROM raid_codes rc
		LEFT JOIN users u ON u.id = rc.user_id
		WHERE rc.group_id = ? AND rc.created_at >= ? AND rc.created_at < ?
		GROUP BY COALESCE(rc.user_id, rc.id)
		ORDER BY cnt DESC
		LIMIT ?
	`, groupID, w.Start, w.End, fetch)
	if err != nil {
		return nil, fmt.Errorf("top posters query: %w", err)
	}
	defer rows.Close()

	var out []PosterRow
	for rows.Next() {
		var (
			row  PosterRow
			last sql.NullString
		)
		if err := rows.Scan(&row.UserID, &row.MergedID, &row.DisplayName, &row.Count, &last); err != nil {
			return nil, fmt.Errorf("top posters scan: %w", err)
		}
		// MAX() loses the column's declared type, so the driver hands the
		// timestamp back as text.
		if last.Valid {
			row.LastActivity = parseStoredTime(last.String)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

var storedTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

func parseStoredTime(s string) time.Time {
	for _, layout := range storedTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// TopBattles fetches battle counts for a group inside a window, grouped by
// raw label pair. Label canonicalization happens in the aggregator, not in
// SQL.
func (r *Repo) TopBattles(ctx context.Context, groupID string, w timewindow.Window, fetch int) ([]BattleRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT
			COALESCE(rc.battle_name, ''),
			COALESCE(rc.boss_name, ''),
			COUNT(*) AS cnt
		FROM raid_codes rc
		WHERE rc.group_id = ? AND rc.created_at >= ? AND rc.created_at < ?
		GROUP BY COALESCE(rc.battle_name, ''), COALESCE(rc.boss_name, '')
		ORDER BY cnt DESC
		LIMIT ?
	`, groupID, w.Start, w.End, fetch)
	if err != nil {
		return nil, fmt.Errorf("top battles query: %w", err)
	}
	defer rows.Close()

	var out []BattleRow
	for rows.Next() {
		var row BattleRow
		if err := rows.Scan(&row.BattleLabel, &row.BossLabel, &row.Count); err != nil {
			return nil, fmt.Errorf("top battles scan: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
