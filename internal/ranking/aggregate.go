// Package ranking merges and re-ranks leaderboard rows. Upstream sources
// pre-aggregate by raw account id while the UI shows linked-account
// identities, so rows for the same logical poster can arrive split; naive
// sort-then-truncate at the raw stage would permanently drop a poster who
// only ranks top-N after their rows merge. This package always merges first
// and truncates last.
package ranking

import (
	"fmt"
	"sort"
	"time"

	"raidrelay/internal/textnorm"
)

// Over-fetch bounds. Requesting limit*overFetchFactor raw rows (clamped)
// leaves enough material for correct post-merge ranking. Heuristic, not a
// proof: a pathological merge pattern can still fall just outside the
// window.
const (
	overFetchFactor = 5
	overFetchFloor  = 50
	overFetchCeil   = 500
)

// FetchLimit converts a caller-requested result size into the row count to
// request upstream.
func FetchLimit(limit int) int {
	n := limit * overFetchFactor
	if n < overFetchFloor {
		n = overFetchFloor
	}
	if n > overFetchCeil {
		n = overFetchCeil
	}
	return n
}

// UnknownBattle is the sentinel identity for rows with neither a battle nor
// a boss label. Unlike anonymous posters, unknown battles do merge.
const UnknownBattle = "(unknown)"

// PosterRow is one raw or store-aggregated poster row. MergedID is the
// linked-account identity when known; an empty UserID marks an anonymous
// legacy row.
type PosterRow struct {
	UserID       string
	MergedID     string
	DisplayName  string
	Count        int
	LastActivity time.Time
}

// PosterRank is one merged leaderboard entry.
type PosterRank struct {
	Identity     string     `json:"identity"`
	DisplayName  string     `json:"display_name"`
	Count        int        `json:"count"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
}

// BattleRow is one raw or store-aggregated battle row.
type BattleRow struct {
	BattleLabel string
	BossLabel   string
	Count       int
}

// BattleRank is one merged battle leaderboard entry.
type BattleRank struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// AggregatePosters merges rows by logical identity, restores deterministic
// ordering and truncates to limit. Rows with a negative count are dropped
// (the count of dropped rows is returned for logging, never an error).
// Anonymous rows each keep a distinct per-row key so separate anonymous
// posts never collapse into one inflated entry.
func AggregatePosters(rows []PosterRow, limit int) ([]PosterRank, int) {
	merged := make(map[string]*PosterRank, len(rows))
	var order []string
	dropped := 0

	for i, row := range rows {
		if row.Count < 0 {
			dropped++
			continue
		}

		identity := row.MergedID
		if identity == "" {
			identity = row.UserID
		}
		if identity == "" {
			identity = fmt.Sprintf("anon:%s#%d", row.DisplayName, i)
		}

		e, ok := merged[identity]
		if !ok {
			e = &PosterRank{Identity: identity, DisplayName: row.DisplayName}
			merged[identity] = e
			order = append(order, identity)
		}
		e.Count += row.Count
		if e.DisplayName == "" {
			e.DisplayName = row.DisplayName
		}
		if !row.LastActivity.IsZero() {
			if e.LastActivity == nil || row.LastActivity.After(*e.LastActivity) {
				ts := row.LastActivity
				e.LastActivity = &ts
			}
		}
	}

	out := make([]PosterRank, 0, len(order))
	for _, id := range order {
		out = append(out, *merged[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		li, lj := out[i].LastActivity, out[j].LastActivity
		switch {
		case li == nil:
			return false
		case lj == nil:
			return true
		default:
			return li.After(*lj)
		}
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, dropped
}

// LabelResolver renders a display label for a battle identity; the name
// dictionary satisfies it. A nil resolver falls back to the normalized key.
type LabelResolver interface {
	Resolve(raw string) string
}

// AggregateBattles merges rows by the normalized battle identity (battle
// label preferred over boss label, both blank collapsing to the unknown
// sentinel), sorts by count descending with first-seen tie order, truncates
// to limit and renders labels through resolve.
func AggregateBattles(rows []BattleRow, limit int, resolve LabelResolver) ([]BattleRank, int) {
	merged := make(map[string]*BattleRank, len(rows))
	var order []string
	dropped := 0

	for _, row := range rows {
		if row.Count < 0 {
			dropped++
			continue
		}

		label := row.BattleLabel
		if label == "" {
			label = row.BossLabel
		}

		key := textnorm.Normalize(label)
		if key == "" {
			key = UnknownBattle
		}

		e, ok := merged[key]
		if !ok {
			e = &BattleRank{Key: key}
			if key == UnknownBattle {
				e.Label = UnknownBattle
			} else if resolve != nil {
				e.Label = resolve.Resolve(label)
			} else {
				e.Label = key
			}
			merged[key] = e
			order = append(order, key)
		}
		e.Count += row.Count
	}

	out := make([]BattleRank, 0, len(order))
	for _, key := range order {
		out = append(out, *merged[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, dropped
}
