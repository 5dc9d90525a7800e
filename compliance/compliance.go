// Package compliance menghitung tingkat kepatuhan pelaporan bulanan
// per kecamatan dan peringkatnya.
package compliance

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ristinalapbulan-create/sipandusd/apperr"
	"github.com/ristinalapbulan-create/sipandusd/models"
)

// Period selects the reports being aggregated. An empty Month switches
// to yearly mode, where every school is expected to file twelve reports.
type Period struct {
	Year  string
	Month string
}

func (p Period) Yearly() bool { return p.Month == "" }

func (p Period) Validate() error {
	if p.Year == "" {
		return apperr.InvalidArgument("year is required")
	}
	if p.Month != "" && !models.IsMonth(p.Month) {
		return apperr.InvalidArgument("unknown month %q", p.Month)
	}
	return nil
}

// FilterReports keeps the reports that fall inside the period,
// regardless of status.
func FilterReports(reports []models.Report, p Period) []models.Report {
	out := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if r.Year != p.Year {
			continue
		}
		if !p.Yearly() && r.Month != p.Month {
			continue
		}
		out = append(out, r)
	}
	return out
}

// DistrictStat is one leaderboard row. Besides the counters it carries
// the district's schools split by whether they have a matching entry in
// the period, so a drill-down needs no second pass.
type DistrictStat struct {
	District string    `json:"district"`
	Schools  int       `json:"schools"`
	Reported int       `json:"reported"`
	Target   int       `json:"target"`
	Rate     float64   `json:"rate"`
	Latest   time.Time `json:"latest,omitempty"`

	ReportedSchools   []models.School `json:"reported_schools"`
	UnreportedSchools []models.School `json:"unreported_schools"`
}

// Rate converts reported/target into a percentage. Rates show as whole
// percents except between 0 and 1, where a single decimal is kept so a
// barely-started district is not rendered as zero.
func Rate(reported, target int) float64 {
	if target <= 0 {
		return 0
	}
	r := float64(reported) / float64(target) * 100
	if r > 100 {
		r = 100
	}
	if r > 0 && r < 1 {
		// never render a started district as zero, however big the target
		if r = math.Round(r*10) / 10; r < 0.1 {
			r = 0.1
		}
		return r
	}
	return math.Round(r)
}

// DistrictStats aggregates one row per district in models.Districts.
// Districts with no schools keep a zero rate.
func DistrictStats(schools []models.School, reports []models.Report, p Period) []DistrictStat {
	reports = FilterReports(reports, p)

	schoolDistrict := make(map[string]string, len(schools))
	byDistrict := make(map[string][]models.School, len(models.Districts))
	for _, sc := range schools {
		schoolDistrict[sc.NPSN] = sc.Kecamatan
		byDistrict[sc.Kecamatan] = append(byDistrict[sc.Kecamatan], sc)
	}

	// numerator keys: npsn for monthly, npsn|month for yearly
	seen := map[string]map[string]bool{}
	hasReport := map[string]bool{}
	latest := map[string]time.Time{}
	for _, r := range reports {
		d, ok := schoolDistrict[r.NPSN]
		if !ok {
			continue
		}
		key := r.NPSN
		if p.Yearly() {
			key = r.NPSN + "|" + r.Month
		}
		if seen[d] == nil {
			seen[d] = map[string]bool{}
		}
		seen[d][key] = true
		hasReport[r.NPSN] = true
		if at := r.SubmittedAt(); at.After(latest[d]) {
			latest[d] = at
		}
	}

	out := make([]DistrictStat, 0, len(models.Districts))
	for _, d := range models.Districts {
		n := len(seen[d])
		target := len(byDistrict[d])
		if p.Yearly() {
			target *= 12
		}
		st := DistrictStat{
			District:          d,
			Schools:           len(byDistrict[d]),
			Reported:          n,
			Target:            target,
			Rate:              Rate(n, target),
			ReportedSchools:   []models.School{},
			UnreportedSchools: []models.School{},
		}
		for _, sc := range byDistrict[d] {
			if hasReport[sc.NPSN] {
				st.ReportedSchools = append(st.ReportedSchools, sc)
			} else {
				st.UnreportedSchools = append(st.UnreportedSchools, sc)
			}
		}
		if st.Rate == 100 {
			st.Latest = latest[d]
		}
		out = append(out, st)
	}
	return out
}

// districtSortName strips the administrative prefix so "Kec. Haruai"
// sorts under H, not K.
func districtSortName(d string) string {
	return strings.TrimPrefix(d, "Kec. ")
}

// RankDistricts orders stats for the leaderboard: highest rate first;
// two fully compliant districts are split by whoever finished earlier;
// everything else falls back to district name.
func RankDistricts(stats []DistrictStat) []DistrictStat {
	out := make([]DistrictStat, len(stats))
	copy(out, stats)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Rate != b.Rate {
			return a.Rate > b.Rate
		}
		if a.Rate == 100 && b.Rate == 100 && !a.Latest.Equal(b.Latest) {
			if a.Latest.IsZero() || b.Latest.IsZero() {
				return b.Latest.IsZero()
			}
			return a.Latest.Before(b.Latest)
		}
		return districtSortName(a.District) < districtSortName(b.District)
	})
	return out
}

// Overview summarizes report statuses inside a period.
type Overview struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

func StatusBreakdown(reports []models.Report, p Period) Overview {
	var ov Overview
	for _, r := range FilterReports(reports, p) {
		ov.Total++
		switch r.Status {
		case models.StatusPending:
			ov.Pending++
		case models.StatusApproved:
			ov.Approved++
		case models.StatusRejected:
			ov.Rejected++
		}
	}
	return ov
}

// FastestEntry is one row of the fastest-school ranking.
type FastestEntry struct {
	NPSN       string    `json:"npsn"`
	SchoolName string    `json:"school_name"`
	Kecamatan  string    `json:"kecamatan"`
	Submitted  time.Time `json:"submitted"`
}

// FastestReports ranks schools by their earliest submission inside the
// period and keeps the first limit rows.
func FastestReports(schools []models.School, reports []models.Report, p Period, limit int) []FastestEntry {
	byNPSN := make(map[string]models.School, len(schools))
	for _, sc := range schools {
		byNPSN[sc.NPSN] = sc
	}
	earliest := map[string]time.Time{}
	for _, r := range FilterReports(reports, p) {
		at := r.SubmittedAt()
		if at.IsZero() {
			continue
		}
		if cur, ok := earliest[r.NPSN]; !ok || at.Before(cur) {
			earliest[r.NPSN] = at
		}
	}
	out := make([]FastestEntry, 0, len(earliest))
	for npsn, at := range earliest {
		sc := byNPSN[npsn]
		name := sc.Name
		if name == "" {
			name = npsn
		}
		out = append(out, FastestEntry{NPSN: npsn, SchoolName: name, Kecamatan: sc.Kecamatan, Submitted: at})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Submitted.Equal(out[j].Submitted) {
			return out[i].Submitted.Before(out[j].Submitted)
		}
		return out[i].NPSN < out[j].NPSN
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// UnreportedSchools lists schools with no report at all in the period.
func UnreportedSchools(schools []models.School, reports []models.Report, p Period) []models.School {
	has := map[string]bool{}
	for _, r := range FilterReports(reports, p) {
		has[r.NPSN] = true
	}
	out := make([]models.School, 0)
	for _, sc := range schools {
		if !has[sc.NPSN] {
			out = append(out, sc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
