package models

import "time"

// Group is a private raid group. Slug and LegacyName exist because group
// tokens still arrive in several historical shapes; resolution handles the
// fan-out.
type Group struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug,omitempty"`
	LegacyName string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
