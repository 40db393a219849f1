package domain

// SchoolSummary is the per-school aggregate of growth measurements, widened
// with the school's configured EC target. It is derived from the growth
// table and recomputed whenever the dataset reloads; it is never persisted.
type SchoolSummary struct {
	School            School             `json:"school"`
	ECTarget          float64            `json:"ec_target"`
	Specimens         int                `json:"specimens"`
	MeanFreshWeightG  float64            `json:"mean_fresh_weight_g"`
	MeanLeafCount     float64            `json:"mean_leaf_count"`
	MeanShootLengthMM float64            `json:"mean_shoot_length_mm"`
	MeanExtra         map[string]float64 `json:"mean_extra,omitempty"`
}

// BestSchool returns the summary row with the highest mean fresh weight.
// This is a descriptive ranking only; no significance testing is applied.
// The second return is false when the slice is empty.
func BestSchool(summaries []SchoolSummary) (SchoolSummary, bool) {
	if len(summaries) == 0 {
		return SchoolSummary{}, false
	}
	best := summaries[0]
	for _, s := range summaries[1:] {
		if s.MeanFreshWeightG > best.MeanFreshWeightG {
			best = s
		}
	}
	return best, true
}
