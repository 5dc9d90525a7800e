package models

import "time"

// User is an identity record. School accounts are keyed by NPSN (the
// registration code doubles as the document id); the operator account is
// keyed by its opaque account id.
type User struct {
	ID           string `bson:"_id" json:"id"`
	Username     string `bson:"username" json:"username"`
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`
	Role         string `bson:"role" json:"role"` // "admin" | "school"
	Name         string `bson:"name" json:"name"`
	NPSN         string `bson:"npsn,omitempty" json:"npsn,omitempty"`
	PhotoURL     string `bson:"photo_url,omitempty" json:"photo_url,omitempty"`

	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
