package models

// Months of the reporting calendar, in order. Report.Month always holds
// one of these values.
var Months = []string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// Districts is the closed list of kecamatan under the authority. Not a
// stored entity; School.Kecamatan must be one of these.
var Districts = []string{
	"Kec. Banua Lawas",
	"Kec. Bintang Ara",
	"Kec. Haruai",
	"Kec. Jaro",
	"Kec. Kelua",
	"Kec. Muara Harus",
	"Kec. Muara Uya",
	"Kec. Murung Pudak",
	"Kec. Pugaan",
	"Kec. Tanjung",
	"Kec. Tanta",
	"Kec. Upau",
}

// Report lifecycle states.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Session roles.
const (
	RoleAdmin  = "admin"
	RoleSchool = "school"
)

// ReportTypeMonthly is the only report type the system currently carries.
const ReportTypeMonthly = "Laporan Bulanan"

// ReevalPrefix marks a note written by an admin re-evaluation, as opposed
// to an original rejection note.
const ReevalPrefix = "[Re-evaluasi] "

// IsMonth reports whether m is a valid month name.
func IsMonth(m string) bool {
	for _, v := range Months {
		if v == m {
			return true
		}
	}
	return false
}

// IsDistrict reports whether k is one of the known kecamatan.
func IsDistrict(k string) bool {
	for _, v := range Districts {
		if v == k {
			return true
		}
	}
	return false
}

// IsStatus reports whether s is a valid report status.
func IsStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}
