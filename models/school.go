package models

import "time"

type School struct {
	// ID is the store document id. Upserts prefer the NPSN as id, but
	// legacy records may carry an auto-generated id, so both lookup
	// paths (by id, by NPSN) are supported.
	ID          string `bson:"_id" json:"id"`
	NPSN        string `bson:"npsn" json:"npsn"`
	Name        string `bson:"name" json:"name"`
	Address     string `bson:"address" json:"address"`
	Kecamatan   string `bson:"kecamatan" json:"kecamatan"`
	PhoneNumber string `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	PhotoURL    string `bson:"photo_url,omitempty" json:"photo_url,omitempty"`

	// Extra carries fields outside the documented schema. Populated and
	// written back only at the store boundary, never interpreted.
	Extra map[string]any `bson:"extra,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
