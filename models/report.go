package models

import "time"

type Report struct {
	ID   string `bson:"_id" json:"id"`
	NPSN string `bson:"npsn" json:"npsn"`
	// SchoolName is a denormalized cache captured at submission time.
	// It can go stale; display paths re-resolve it against the live
	// School record.
	SchoolName string `bson:"school_name" json:"school_name"`
	Month      string `bson:"month" json:"month"`
	Year       string `bson:"year" json:"year"`
	Type       string `bson:"type" json:"type"`
	Link       string `bson:"link" json:"link"`
	Status     string `bson:"status" json:"status"`
	// Date is the submission date, YYYY-MM-DD.
	Date string `bson:"date" json:"date"`
	// Notes is non-empty only when the report was rejected or
	// re-evaluated.
	Notes string `bson:"notes" json:"notes"`

	Extra map[string]any `bson:"extra,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// SubmittedAt returns the best-known submission instant: CreatedAt when
// present, otherwise the parsed Date. Records imported from the legacy
// sheet lack CreatedAt.
func (r Report) SubmittedAt() time.Time {
	if !r.CreatedAt.IsZero() {
		return r.CreatedAt
	}
	t, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// PeriodKey groups reports of one school for one month of one year.
func (r Report) PeriodKey() string {
	return r.NPSN + "|" + r.Month + "|" + r.Year
}
