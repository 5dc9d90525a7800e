// Package storage defines the record-store client consumed by the core
// services. The store holds three collections — schools, reports and
// users (identity records) — keyed by opaque string ids. Implementations
// translate their native errors into the apperr taxonomy: missing
// records become apperr.ErrNotFound, exceeded context deadlines become
// apperr.ErrTimeout, anything else apperr.ErrUpstream.
package storage

import (
	"context"

	"github.com/ristinalapbulan-create/sipandusd/models"
)

// ReportFilter narrows ListReports. The zero value lists everything.
type ReportFilter struct {
	NPSN string
}

type Store interface {
	ListSchools(ctx context.Context) ([]models.School, error)
	GetSchool(ctx context.Context, id string) (models.School, error)
	GetSchoolByNPSN(ctx context.Context, npsn string) (models.School, error)
	// UpsertSchool creates or updates a school, preferring the NPSN as
	// document id on create, and returns the effective id.
	UpsertSchool(ctx context.Context, s models.School) (string, error)
	DeleteSchool(ctx context.Context, id string) error

	ListReports(ctx context.Context, f ReportFilter) ([]models.Report, error)
	GetReport(ctx context.Context, id string) (models.Report, error)
	CreateReport(ctx context.Context, r models.Report) (string, error)
	// UpdateReport applies a partial update; keys are document field
	// names ("status", "notes", "link", ...).
	UpdateReport(ctx context.Context, id string, fields map[string]any) error
	// RestoreReport writes a full report document under its existing id,
	// creating it if absent. Used by backup restore.
	RestoreReport(ctx context.Context, r models.Report) error
	DeleteReport(ctx context.Context, id string) error

	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	UpsertUser(ctx context.Context, u models.User) error
	DeleteUser(ctx context.Context, id string) error
}
