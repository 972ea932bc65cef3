package models

import "time"

// CreditCard represents a row in the users_credit_cards table. The card
// payload is stored as an encrypted blob and decrypted only at read time.
type CreditCard struct {
	UserID    int64
	Sealed    []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}
