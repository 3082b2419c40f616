package models

import "time"

// RaidCode is one posted join code. UserID is empty for legacy anonymous
// rows imported from the old relay; PosterName is the display name shown
// either way.
type RaidCode struct {
	ID         string    `json:"id"`
	GroupID    string    `json:"group_id"`
	UserID     string    `json:"user_id,omitempty"`
	PosterName string    `json:"poster_name"`
	BossName   string    `json:"boss_name,omitempty"`
	BattleName string    `json:"battle_name,omitempty"`
	Code       string    `json:"code"`
	CreatedAt  time.Time `json:"created_at"`
}
