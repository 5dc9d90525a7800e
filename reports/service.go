// Package reports mengelola siklus hidup laporan bulanan sekolah.
package reports

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ristinalapbulan-create/sipandusd/apperr"
	"github.com/ristinalapbulan-create/sipandusd/models"
	"github.com/ristinalapbulan-create/sipandusd/storage"
)

type Service struct {
	store storage.Store
}

func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// SubmitInput is what a school sends when filing its monthly report.
type SubmitInput struct {
	NPSN       string
	SchoolName string
	Month      string
	Year       string
	Link       string
}

func (in SubmitInput) validate() error {
	if in.NPSN == "" {
		return apperr.InvalidArgument("npsn is required")
	}
	if !models.IsMonth(in.Month) {
		return apperr.InvalidArgument("unknown month %q", in.Month)
	}
	if in.Year == "" {
		return apperr.InvalidArgument("year is required")
	}
	if strings.TrimSpace(in.Link) == "" {
		return apperr.InvalidArgument("report link is required")
	}
	return nil
}

// Submit files a new report. A school may only hold one report per
// month and year, whatever its status, so an existing one is a conflict
// and the school must resubmit instead.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (models.Report, error) {
	if err := in.validate(); err != nil {
		return models.Report{}, err
	}
	existing, err := s.store.ListReports(ctx, storage.ReportFilter{NPSN: in.NPSN})
	if err != nil {
		return models.Report{}, err
	}
	for _, r := range existing {
		if r.Month == in.Month && r.Year == in.Year {
			return models.Report{}, apperr.Conflict("laporan %s %s sudah ada", in.Month, in.Year)
		}
	}

	now := time.Now()
	r := models.Report{
		NPSN:       in.NPSN,
		SchoolName: in.SchoolName,
		Month:      in.Month,
		Year:       in.Year,
		Type:       models.ReportTypeMonthly,
		Link:       strings.TrimSpace(in.Link),
		Status:     models.StatusPending,
		Date:       now.Format("2006-01-02"),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	id, err := s.store.CreateReport(ctx, r)
	if err != nil {
		return models.Report{}, err
	}
	r.ID = id
	return r, nil
}

// Approve moves a pending report to approved and clears reviewer notes.
func (s *Service) Approve(ctx context.Context, id string) error {
	r, err := s.store.GetReport(ctx, id)
	if err != nil {
		return err
	}
	if r.Status != models.StatusPending {
		return apperr.Conflict("report %s is %s, only pending reports can be approved", id, r.Status)
	}
	return s.store.UpdateReport(ctx, id, map[string]any{
		"status": models.StatusApproved,
		"notes":  "",
	})
}

// Reject moves a pending report to rejected. The reviewer must say why.
func (s *Service) Reject(ctx context.Context, id, note string) error {
	if strings.TrimSpace(note) == "" {
		return apperr.InvalidArgument("rejection note is required")
	}
	r, err := s.store.GetReport(ctx, id)
	if err != nil {
		return err
	}
	if r.Status != models.StatusPending {
		return apperr.Conflict("report %s is %s, only pending reports can be rejected", id, r.Status)
	}
	return s.store.UpdateReport(ctx, id, map[string]any{
		"status": models.StatusRejected,
		"notes":  note,
	})
}

// Resubmit lets a school replace the link of a rejected report. The
// report goes back to pending and the old rejection note is cleared.
func (s *Service) Resubmit(ctx context.Context, id, npsn, link string) error {
	if strings.TrimSpace(link) == "" {
		return apperr.InvalidArgument("report link is required")
	}
	r, err := s.store.GetReport(ctx, id)
	if err != nil {
		return err
	}
	if npsn != "" && r.NPSN != npsn {
		return apperr.NotFound("report %s", id)
	}
	if r.Status != models.StatusRejected {
		return apperr.Conflict("report %s is %s, only rejected reports can be resubmitted", id, r.Status)
	}
	return s.store.UpdateReport(ctx, id, map[string]any{
		"status": models.StatusPending,
		"link":   strings.TrimSpace(link),
		"notes":  "",
	})
}

// Reevaluate reopens a report in any state: the note gets a marker
// prefix and the report is pushed to rejected so the school acts on it.
func (s *Service) Reevaluate(ctx context.Context, id, note string) error {
	if strings.TrimSpace(note) == "" {
		return apperr.InvalidArgument("re-evaluation note is required")
	}
	if _, err := s.store.GetReport(ctx, id); err != nil {
		return err
	}
	return s.store.UpdateReport(ctx, id, map[string]any{
		"status": models.StatusRejected,
		"notes":  models.ReevalPrefix + note,
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.store.GetReport(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteReport(ctx, id)
}

// CleanupResult describes one duplicate-cleanup run.
type CleanupResult struct {
	Groups   int      `json:"groups"`
	Deleted  int      `json:"deleted"`
	Failures []string `json:"failures,omitempty"`
}

// CleanupDuplicates keeps the newest report of every (npsn, month,
// year) group and deletes the rest. A failed delete is recorded and the
// run continues; running on a clean store is a no-op.
func (s *Service) CleanupDuplicates(ctx context.Context) (CleanupResult, error) {
	all, err := s.store.ListReports(ctx, storage.ReportFilter{})
	if err != nil {
		return CleanupResult{}, err
	}

	groups := map[string][]models.Report{}
	for _, r := range all {
		k := r.PeriodKey()
		groups[k] = append(groups[k], r)
	}

	var res CleanupResult
	for _, g := range groups {
		if len(g) < 2 {
			continue
		}
		res.Groups++
		sort.Slice(g, func(i, j int) bool {
			return g[i].SubmittedAt().After(g[j].SubmittedAt())
		})
		for _, r := range g[1:] {
			if err := s.store.DeleteReport(ctx, r.ID); err != nil {
				res.Failures = append(res.Failures, fmt.Sprintf("%s: %v", r.ID, err))
				continue
			}
			res.Deleted++
		}
	}
	return res, nil
}
