package user

import (
	"github.com/google/uuid"
)

// Account is the identity reference the messaging domain works with.
// Accounts are created and owned by the identity service.
type Account struct {
	ID             uuid.UUID  `json:"id"`
	UserName       string     `json:"user_name"`
	ProfileImageID *uuid.UUID `json:"profile_image_id,omitempty"`
}

// IDs returns the ids of accounts in order.
func IDs(accounts []Account) []uuid.UUID {
	ids := make([]uuid.UUID, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}
	return ids
}

// Contains reports whether accounts holds id.
func Contains(accounts []Account, id uuid.UUID) bool {
	return IndexOf(accounts, id) >= 0
}

// IndexOf returns the position of id in accounts or -1.
func IndexOf(accounts []Account, id uuid.UUID) int {
	for i, a := range accounts {
		if a.ID == id {
			return i
		}
	}
	return -1
}
