// Package mongodb implements storage.Store over the Mongo collections
// prepared by the database package.
package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ristinalapbulan-create/sipandusd/apperr"
	"github.com/ristinalapbulan-create/sipandusd/database/command"
	"github.com/ristinalapbulan-create/sipandusd/database/query"
	"github.com/ristinalapbulan-create/sipandusd/models"
	"github.com/ristinalapbulan-create/sipandusd/storage"
)

type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) schools() *mongo.Collection { return s.db.Collection("schools") }
func (s *Store) reports() *mongo.Collection { return s.db.Collection("reports") }
func (s *Store) users() *mongo.Collection   { return s.db.Collection("users") }

// mapErr folds driver errors into the shared taxonomy.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperr.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return apperr.Timeout(err)
	default:
		return apperr.Upstream(err)
	}
}

/* ------------------------- schools ------------------------- */

func (s *Store) ListSchools(ctx context.Context) ([]models.School, error) {
	var out []models.School
	if err := query.FindMany(ctx, s.schools(), bson.M{}, &out); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (s *Store) GetSchool(ctx context.Context, id string) (models.School, error) {
	var sc models.School
	if err := query.FindByID(ctx, s.schools(), id, &sc); err != nil {
		return models.School{}, mapErr(err)
	}
	return sc, nil
}

func (s *Store) GetSchoolByNPSN(ctx context.Context, npsn string) (models.School, error) {
	var sc models.School
	if err := query.FindOne(ctx, s.schools(), bson.M{"npsn": npsn}, &sc); err != nil {
		return models.School{}, mapErr(err)
	}
	return sc, nil
}

func (s *Store) UpsertSchool(ctx context.Context, sc models.School) (string, error) {
	id := sc.ID
	if id == "" {
		id = sc.NPSN
	}
	if id == "" {
		id = primitive.NewObjectID().Hex()
	}
	sc.ID = id
	sc.UpdatedAt = time.Now()
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = sc.UpdatedAt
	}
	if _, err := command.ReplaceByID(ctx, s.schools(), id, sc); err != nil {
		return "", mapErr(err)
	}
	return id, nil
}

func (s *Store) DeleteSchool(ctx context.Context, id string) error {
	_, err := command.DeleteByID(ctx, s.schools(), id)
	return mapErr(err)
}

/* ------------------------- reports ------------------------- */

func (s *Store) ListReports(ctx context.Context, f storage.ReportFilter) ([]models.Report, error) {
	filter := bson.M{}
	if f.NPSN != "" {
		filter["npsn"] = f.NPSN
	}
	var out []models.Report
	if err := query.FindMany(ctx, s.reports(), filter, &out); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (s *Store) GetReport(ctx context.Context, id string) (models.Report, error) {
	var r models.Report
	if err := query.FindByID(ctx, s.reports(), id, &r); err != nil {
		return models.Report{}, mapErr(err)
	}
	return r, nil
}

func (s *Store) CreateReport(ctx context.Context, r models.Report) (string, error) {
	if r.ID == "" {
		r.ID = primitive.NewObjectID().Hex()
	}
	if _, err := command.InsertOne(ctx, s.reports(), r); err != nil {
		return "", mapErr(err)
	}
	return r.ID, nil
}

func (s *Store) UpdateReport(ctx context.Context, id string, fields map[string]any) error {
	b := command.NewUpdateBuilder()
	for k, v := range fields {
		b.Set(k, v)
	}
	b.Set("updated_at", time.Now())
	res, err := command.UpdateByID(ctx, s.reports(), id, b.Build())
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("report %s", id)
	}
	return nil
}

func (s *Store) RestoreReport(ctx context.Context, r models.Report) error {
	if r.ID == "" {
		return apperr.InvalidArgument("report id missing for restore")
	}
	_, err := command.ReplaceByID(ctx, s.reports(), r.ID, r)
	return mapErr(err)
}

func (s *Store) DeleteReport(ctx context.Context, id string) error {
	_, err := command.DeleteByID(ctx, s.reports(), id)
	return mapErr(err)
}

/* ------------------------- users ------------------------- */

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	var u models.User
	if err := query.FindByID(ctx, s.users(), id, &u); err != nil {
		return models.User{}, mapErr(err)
	}
	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	if err := query.FindOne(ctx, s.users(), bson.M{"username": username}, &u); err != nil {
		return models.User{}, mapErr(err)
	}
	return u, nil
}

func (s *Store) UpsertUser(ctx context.Context, u models.User) error {
	if u.ID == "" {
		return apperr.InvalidArgument("user id missing")
	}
	u.UpdatedAt = time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = u.UpdatedAt
	}
	_, err := command.ReplaceByID(ctx, s.users(), u.ID, u)
	return mapErr(err)
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	_, err := command.DeleteByID(ctx, s.users(), id)
	return mapErr(err)
}

var _ storage.Store = (*Store)(nil)
