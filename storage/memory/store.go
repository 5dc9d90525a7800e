// Package memory is an in-memory storage.Store used by tests and local
// development without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ristinalapbulan-create/sipandusd/apperr"
	"github.com/ristinalapbulan-create/sipandusd/models"
	"github.com/ristinalapbulan-create/sipandusd/storage"
)

type Store struct {
	mu      sync.Mutex
	schools map[string]models.School
	reports map[string]models.Report
	users   map[string]models.User

	// Latency is applied before every operation; combined with a short
	// context deadline it exercises the timeout fallbacks.
	Latency time.Duration
	// FailOps maps an operation name ("DeleteReport", "GetUser", ...)
	// to an error every call of that operation returns.
	FailOps map[string]error
}

func New() *Store {
	return &Store{
		schools: map[string]models.School{},
		reports: map[string]models.Report{},
		users:   map[string]models.User{},
		FailOps: map[string]error{},
	}
}

// begin simulates store latency and checks the injected failure table.
func (s *Store) begin(ctx context.Context, op string) error {
	if s.Latency > 0 {
		select {
		case <-time.After(s.Latency):
		case <-ctx.Done():
			return apperr.Timeout(ctx.Err())
		}
	} else if err := ctx.Err(); err != nil {
		return apperr.Timeout(err)
	}
	if err := s.FailOps[op]; err != nil {
		return err
	}
	return nil
}

/* ------------------------- schools ------------------------- */

func (s *Store) ListSchools(ctx context.Context) ([]models.School, error) {
	if err := s.begin(ctx, "ListSchools"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.School, 0, len(s.schools))
	for _, sc := range s.schools {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NPSN < out[j].NPSN })
	return out, nil
}

func (s *Store) GetSchool(ctx context.Context, id string) (models.School, error) {
	if err := s.begin(ctx, "GetSchool"); err != nil {
		return models.School{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.schools[id]
	if !ok {
		return models.School{}, apperr.NotFound("school %s", id)
	}
	return sc, nil
}

func (s *Store) GetSchoolByNPSN(ctx context.Context, npsn string) (models.School, error) {
	if err := s.begin(ctx, "GetSchoolByNPSN"); err != nil {
		return models.School{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sc := range s.schools {
		if sc.NPSN == npsn {
			return sc, nil
		}
	}
	return models.School{}, apperr.NotFound("school npsn %s", npsn)
}

func (s *Store) UpsertSchool(ctx context.Context, sc models.School) (string, error) {
	if err := s.begin(ctx, "UpsertSchool"); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sc.ID == "" {
		sc.ID = sc.NPSN
	}
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	sc.UpdatedAt = time.Now()
	if prev, ok := s.schools[sc.ID]; ok && !prev.CreatedAt.IsZero() {
		sc.CreatedAt = prev.CreatedAt
	} else if sc.CreatedAt.IsZero() {
		sc.CreatedAt = sc.UpdatedAt
	}
	s.schools[sc.ID] = sc
	return sc.ID, nil
}

func (s *Store) DeleteSchool(ctx context.Context, id string) error {
	if err := s.begin(ctx, "DeleteSchool"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.schools, id)
	return nil
}

/* ------------------------- reports ------------------------- */

func (s *Store) ListReports(ctx context.Context, f storage.ReportFilter) ([]models.Report, error) {
	if err := s.begin(ctx, "ListReports"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Report, 0, len(s.reports))
	for _, r := range s.reports {
		if f.NPSN != "" && r.NPSN != f.NPSN {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetReport(ctx context.Context, id string) (models.Report, error) {
	if err := s.begin(ctx, "GetReport"); err != nil {
		return models.Report{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return models.Report{}, apperr.NotFound("report %s", id)
	}
	return r, nil
}

func (s *Store) CreateReport(ctx context.Context, r models.Report) (string, error) {
	if err := s.begin(ctx, "CreateReport"); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	s.reports[r.ID] = r
	return r.ID, nil
}

func (s *Store) UpdateReport(ctx context.Context, id string, fields map[string]any) error {
	if err := s.begin(ctx, "UpdateReport"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return apperr.NotFound("report %s", id)
	}
	for k, v := range fields {
		switch k {
		case "status":
			r.Status, _ = v.(string)
		case "notes":
			r.Notes, _ = v.(string)
		case "link":
			r.Link, _ = v.(string)
		case "school_name":
			r.SchoolName, _ = v.(string)
		case "month":
			r.Month, _ = v.(string)
		case "year":
			r.Year, _ = v.(string)
		case "date":
			r.Date, _ = v.(string)
		}
	}
	r.UpdatedAt = time.Now()
	s.reports[id] = r
	return nil
}

func (s *Store) RestoreReport(ctx context.Context, r models.Report) error {
	if err := s.begin(ctx, "RestoreReport"); err != nil {
		return err
	}
	if r.ID == "" {
		return apperr.InvalidArgument("report id missing for restore")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = r
	return nil
}

func (s *Store) DeleteReport(ctx context.Context, id string) error {
	if err := s.begin(ctx, "DeleteReport"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reports, id)
	return nil
}

/* ------------------------- users ------------------------- */

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	if err := s.begin(ctx, "GetUser"); err != nil {
		return models.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, apperr.NotFound("user %s", id)
	}
	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	if err := s.begin(ctx, "GetUserByUsername"); err != nil {
		return models.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return models.User{}, apperr.NotFound("user %s", username)
}

func (s *Store) UpsertUser(ctx context.Context, u models.User) error {
	if err := s.begin(ctx, "UpsertUser"); err != nil {
		return err
	}
	if u.ID == "" {
		return apperr.InvalidArgument("user id missing")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u.UpdatedAt = time.Now()
	if prev, ok := s.users[u.ID]; ok && !prev.CreatedAt.IsZero() {
		u.CreatedAt = prev.CreatedAt
	} else if u.CreatedAt.IsZero() {
		u.CreatedAt = u.UpdatedAt
	}
	s.users[u.ID] = u
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if err := s.begin(ctx, "DeleteUser"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

var _ storage.Store = (*Store)(nil)
