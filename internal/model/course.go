package model

import "time"

// Course levels offered by instructors. The UI is French-first, so the enum
// values are the display strings themselves.
const (
	LevelAll          = "Tous niveaux"
	LevelBeginner     = "Débutant"
	LevelIntermediate = "Intermédiaire"
	LevelAdvanced     = "Avancé"
)

// ValidLevel reports whether s is one of the accepted course levels.
func ValidLevel(s string) bool {
	switch s {
	case LevelAll, LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Course represents a listing published by an instructor. It is owned by
// exactly one user; only the owner may mutate or delete it. Sessions hang
// off the course and cascade away with it.
type Course struct {
	ID              uint64    `json:"id"`
	OwnerID         uint64    `json:"owner_id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description,omitempty"`
	Category        *string   `json:"category,omitempty"`
	Level           string    `json:"level"`
	PricePerHour    float64   `json:"price_per_hour"`
	MaxParticipants uint32    `json:"max_participants"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
