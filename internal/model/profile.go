package model

import "time"

// Profile user types as displayed in the UI.
const (
	UserTypeInstructor = "Professeur"
	UserTypeStudent    = "Etudiant"
)

// Profile is the typed per-user profile record backing the 'user_profiles'
// table. The original data lived as an open metadata bag on the identity
// provider; here every field is explicit so unvalidated keys cannot
// accumulate. All fields except UserID are optional.
//
// Updates use merge semantics: only fields present in the request overwrite
// stored values, everything else is preserved.
type Profile struct {
	UserID     uint64    `json:"user_id"`
	Name       *string   `json:"name,omitempty"`
	Surname    *string   `json:"surname,omitempty"`
	UserType   *string   `json:"user_type,omitempty"` // Professeur | Etudiant
	Address    *string   `json:"address,omitempty"`
	City       *string   `json:"city,omitempty"`
	Country    *string   `json:"country,omitempty"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	PostalCode *string   `json:"postal_code,omitempty"`
	Interests  []string  `json:"interests,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
