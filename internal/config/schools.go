package config

import "ecdash/pkg/contracts/domain"

// schools is the static experiment roster: four sites, each assigned a
// distinct EC setpoint. This table is the single source of truth for school
// identity, shared by the loaders and the summarizer; the EC targets are
// experimental constants, never derived from the data.
var schools = []domain.SchoolConfig{
	{Name: "송도고", ECTarget: 1.0, SourceFile: "송도고_환경데이터.csv", Color: "#AB63FA"},
	{Name: "하늘고", ECTarget: 2.0, SourceFile: "하늘고_환경데이터.csv", Color: "#EF553B"},
	{Name: "아라고", ECTarget: 4.0, SourceFile: "아라고_환경데이터.csv", Color: "#00CC96"},
	{Name: "동산고", ECTarget: 8.0, SourceFile: "동산고_환경데이터.csv", Color: "#636EFA"},
}

// Schools returns the experiment roster in its fixed declaration order.
// Callers must not mutate the returned slice.
func Schools() []domain.SchoolConfig {
	return schools
}

// SchoolByName looks up a school config by name. The lookup key is
// NFC-normalized first so names read from sheet titles or filenames match
// regardless of their on-disk normalization form.
func SchoolByName(name string) (domain.SchoolConfig, bool) {
	normalized := domain.NormalizeSchool(name)
	for _, s := range schools {
		if s.Name == normalized {
			return s, true
		}
	}
	return domain.SchoolConfig{}, false
}
