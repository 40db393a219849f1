package domain

// Canonical growth spreadsheet headers. The source sheets use Korean column
// names with embedded units; these constants are the single spelling the rest
// of the code matches against and exports with.
const (
	ColFreshWeight = "생중량(g)"
	ColLeafCount   = "잎 수(장)"
	ColShootLength = "지상부 길이(mm)"
)

// GrowthRecord is one measured plant specimen. School is the NFC-normalized
// name of the sheet the row came from. Numeric columns beyond the three
// canonical measurements pass through untouched in Extra.
type GrowthRecord struct {
	School        School             `json:"school"`
	FreshWeightG  float64            `json:"fresh_weight_g"`
	LeafCount     float64            `json:"leaf_count"`
	ShootLengthMM float64            `json:"shoot_length_mm"`
	Extra         map[string]float64 `json:"extra,omitempty"`
}
