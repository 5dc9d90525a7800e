package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ristinalapbulan-create/sipandusd/models"
)

func school(npsn, district string) models.School {
	return models.School{ID: npsn, NPSN: npsn, Name: "SDN " + npsn, Kecamatan: district}
}

func report(npsn, month, year string, at time.Time) models.Report {
	return models.Report{
		ID: npsn + "-" + month + "-" + year, NPSN: npsn,
		Month: month, Year: year, Status: models.StatusApproved,
		CreatedAt: at,
	}
}

func statFor(t *testing.T, stats []DistrictStat, district string) DistrictStat {
	t.Helper()
	for _, st := range stats {
		if st.District == district {
			return st
		}
	}
	t.Fatalf("district %s missing from stats", district)
	return DistrictStat{}
}

func TestMonthlyRate(t *testing.T) {
	schools := []models.School{
		school("101", "Kec. Haruai"),
		school("102", "Kec. Haruai"),
		school("103", "Kec. Haruai"),
	}
	now := time.Now()
	reports := []models.Report{
		report("101", "Januari", "2026", now),
		report("102", "Januari", "2026", now),
		// second report by the same school counts once
		report("101", "Januari", "2026", now.Add(time.Hour)),
		// other month does not count
		report("103", "Februari", "2026", now),
	}

	stats := DistrictStats(schools, reports, Period{Year: "2026", Month: "Januari"})
	st := statFor(t, stats, "Kec. Haruai")
	assert.Equal(t, 2, st.Reported)
	assert.Equal(t, 3, st.Target)
	assert.Equal(t, float64(67), st.Rate)
	assert.True(t, st.Latest.IsZero(), "latest only tracked at full compliance")

	// each row splits its schools into reporting and silent ones
	reported := make([]string, 0, len(st.ReportedSchools))
	for _, sc := range st.ReportedSchools {
		reported = append(reported, sc.NPSN)
	}
	assert.ElementsMatch(t, []string{"101", "102"}, reported)
	require.Len(t, st.UnreportedSchools, 1)
	assert.Equal(t, "103", st.UnreportedSchools[0].NPSN)

	// empty districts carry empty lists, not nils
	empty := statFor(t, stats, "Kec. Upau")
	assert.NotNil(t, empty.ReportedSchools)
	assert.Empty(t, empty.ReportedSchools)
	assert.Empty(t, empty.UnreportedSchools)
}

func TestYearlyRate(t *testing.T) {
	schools := []models.School{school("101", "Kec. Jaro")}
	now := time.Now()
	reports := []models.Report{
		report("101", "Januari", "2026", now),
		report("101", "Februari", "2026", now),
		report("101", "Maret", "2026", now),
		// duplicate month counts once
		report("101", "Maret", "2026", now.Add(time.Hour)),
		// other year ignored
		report("101", "April", "2025", now),
	}

	stats := DistrictStats(schools, reports, Period{Year: "2026"})
	st := statFor(t, stats, "Kec. Jaro")
	assert.Equal(t, 3, st.Reported)
	assert.Equal(t, 12, st.Target)
	assert.Equal(t, float64(25), st.Rate)
}

func TestRateEdges(t *testing.T) {
	assert.Equal(t, float64(0), Rate(0, 0))
	assert.Equal(t, float64(0), Rate(5, 0))
	assert.Equal(t, float64(0), Rate(0, 10))
	assert.Equal(t, float64(100), Rate(10, 10))
	assert.Equal(t, float64(100), Rate(11, 10))
	// below one percent keeps a decimal
	assert.Equal(t, 0.4, Rate(1, 240))
	assert.Equal(t, float64(1), Rate(1, 100))
	// a started district never shows as zero, whatever the target
	assert.Equal(t, 0.1, Rate(1, 3000))
}

func TestRankDistrictsTieBreaks(t *testing.T) {
	early := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	late := time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC)
	stats := []DistrictStat{
		{District: "Kec. Tanta", Rate: 100, Latest: late},
		{District: "Kec. Haruai", Rate: 100, Latest: early},
		{District: "Kec. Upau", Rate: 50},
		{District: "Kec. Banua Lawas", Rate: 50},
		{District: "Kec. Jaro", Rate: 75},
	}

	ranked := RankDistricts(stats)
	require.Len(t, ranked, 5)
	// full compliance first, earliest finisher on top
	assert.Equal(t, "Kec. Haruai", ranked[0].District)
	assert.Equal(t, "Kec. Tanta", ranked[1].District)
	assert.Equal(t, "Kec. Jaro", ranked[2].District)
	// equal partial rates resolved by name without the prefix
	assert.Equal(t, "Kec. Banua Lawas", ranked[3].District)
	assert.Equal(t, "Kec. Upau", ranked[4].District)

	// ranking an already ranked slice changes nothing
	again := RankDistricts(ranked)
	assert.Equal(t, ranked, again)
}

func TestStatusBreakdown(t *testing.T) {
	now := time.Now()
	rs := []models.Report{
		report("101", "Januari", "2026", now),
		report("102", "Januari", "2026", now),
		report("103", "Januari", "2026", now),
	}
	rs[1].Status = models.StatusPending
	rs[2].Status = models.StatusRejected

	ov := StatusBreakdown(rs, Period{Year: "2026", Month: "Januari"})
	assert.Equal(t, Overview{Total: 3, Pending: 1, Approved: 1, Rejected: 1}, ov)
}

func TestFastestReports(t *testing.T) {
	schools := []models.School{
		school("101", "Kec. Haruai"),
		school("102", "Kec. Jaro"),
		school("103", "Kec. Tanta"),
	}
	base := time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
	reports := []models.Report{
		report("102", "Januari", "2026", base),
		report("101", "Januari", "2026", base.Add(time.Hour)),
		// later report by the same school does not move its rank
		report("102", "Januari", "2026", base.Add(48*time.Hour)),
		report("103", "Januari", "2026", base.Add(2*time.Hour)),
	}

	top := FastestReports(schools, reports, Period{Year: "2026", Month: "Januari"}, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "102", top[0].NPSN)
	assert.Equal(t, "101", top[1].NPSN)
}

func TestUnreportedSchools(t *testing.T) {
	schools := []models.School{
		school("101", "Kec. Haruai"),
		school("102", "Kec. Jaro"),
	}
	reports := []models.Report{report("101", "Januari", "2026", time.Now())}

	missing := UnreportedSchools(schools, reports, Period{Year: "2026", Month: "Januari"})
	require.Len(t, missing, 1)
	assert.Equal(t, "102", missing[0].NPSN)
}

func TestPeriodValidate(t *testing.T) {
	assert.Error(t, Period{}.Validate())
	assert.Error(t, Period{Year: "2026", Month: "January"}.Validate())
	assert.NoError(t, Period{Year: "2026"}.Validate())
	assert.NoError(t, Period{Year: "2026", Month: "Desember"}.Validate())
}
