package domain

import "golang.org/x/text/unicode/norm"

// School identifies one of the four experimental sites. The value is the
// school's Korean display name, NFC-normalized.
type School string

// NormalizeSchool converts a raw school name (a sheet name or a config key)
// to its canonical NFC form. Names read from macOS-written files arrive in
// decomposed form and would otherwise fail exact comparison.
func NormalizeSchool(name string) School {
	return School(norm.NFC.String(name))
}

// SchoolConfig describes one experimental unit: the school, its assigned EC
// setpoint, the environmental data file it produces, and the color the
// dashboard draws it with. Exactly one config exists per school and the
// values are constants for the lifetime of a run.
type SchoolConfig struct {
	Name       School  `json:"name" validate:"required"`
	ECTarget   float64 `json:"ec_target" validate:"required,gt=0"`
	SourceFile string  `json:"source_file" validate:"required"`
	Color      string  `json:"color"`
}
