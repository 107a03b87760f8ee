package models

import (
	"time"

	"challengehub/internal/badges"
)

// User is an account that writes missions and earns badges.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// MissionStatus is the lifecycle state of a mission.
type MissionStatus string

const (
	MissionInProgress MissionStatus = "IN_PROGRESS"
	MissionCompleted  MissionStatus = "COMPLETED"
)

// Mission is a challenge a user set for themselves, or accepted from the
// AI suggester.
type Mission struct {
	ID          int64         `json:"id" db:"id"`
	WriterID    int64         `json:"writer_id" db:"writer_id"`
	Content     string        `json:"content" db:"content"`
	Level       int           `json:"level" db:"level"`
	IsPrivate   bool          `json:"is_private" db:"is_private"`
	AIGenerated bool          `json:"ai_generated" db:"ai_generated"`
	Status      MissionStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// Opinion is a reflection recorded after performing a mission.
type Opinion struct {
	ID         int64     `json:"id" db:"id"`
	MissionID  int64     `json:"mission_id" db:"mission_id"`
	Difficulty string    `json:"difficulty" db:"difficulty"`
	Impression string    `json:"impression" db:"impression"`
	Reaction   string    `json:"reaction" db:"reaction"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// BadgeGrant is the persisted fact that a user earned a badge. At most one
// grant exists per (user, badge); the badges table enforces it with a
// unique constraint, which doubles as the backstop against concurrent
// evaluations granting twice.
type BadgeGrant struct {
	ID        int64          `json:"id" db:"id"`
	UserID    int64          `json:"user_id" db:"user_id"`
	BadgeID   badges.BadgeID `json:"badge_id" db:"type"`
	GrantedAt time.Time      `json:"granted_at" db:"granted_at"`
}

// OwnedBadge is one entry of the owned-badges listing.
type OwnedBadge struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	GrantedAt   time.Time `json:"granted_at"`
}

// BadgeProgress is one entry of the all-badges progress listing. GrantedAt
// stays nil until the badge is earned.
type BadgeProgress struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Progress    int        `json:"progress"`
	Achieved    bool       `json:"achieved"`
	GrantedAt   *time.Time `json:"granted_at,omitempty"`
}

// MissionSuggestion is one AI-proposed mission.
type MissionSuggestion struct {
	Content string `json:"content"`
	Level   int    `json:"level"`
}
