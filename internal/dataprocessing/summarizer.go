package dataprocessing

import (
	"ecdash/internal/config"
	"ecdash/pkg/contracts/domain"
)

// Summarize groups growth records by school and computes the arithmetic mean
// of every numeric attribute, joined with each school's configured EC
// target. Groups without a roster entry are dropped; an empty group
// contributes no row. Output rows follow group-encounter order, so the
// result is deterministic for a fixed input regardless of how the files were
// enumerated. Sorting (e.g. by EC target for chart axes) is the caller's
// concern.
func Summarize(records []domain.GrowthRecord) []domain.SchoolSummary {
	type acc struct {
		n           int
		freshWeight float64
		leafCount   float64
		shootLength float64
		extraSum    map[string]float64
		extraN      map[string]int
	}

	var order []domain.School
	groups := make(map[domain.School]*acc)

	for _, r := range records {
		g, ok := groups[r.School]
		if !ok {
			g = &acc{extraSum: make(map[string]float64), extraN: make(map[string]int)}
			groups[r.School] = g
			order = append(order, r.School)
		}
		g.n++
		g.freshWeight += r.FreshWeightG
		g.leafCount += r.LeafCount
		g.shootLength += r.ShootLengthMM
		for col, v := range r.Extra {
			g.extraSum[col] += v
			g.extraN[col]++
		}
	}

	summaries := make([]domain.SchoolSummary, 0, len(order))
	for _, school := range order {
		cfg, ok := config.SchoolByName(string(school))
		if !ok {
			// No school in this domain lacks a config, but the join stays
			// explicit rather than assumed.
			continue
		}
		g := groups[school]
		s := domain.SchoolSummary{
			School:            school,
			ECTarget:          cfg.ECTarget,
			Specimens:         g.n,
			MeanFreshWeightG:  g.freshWeight / float64(g.n),
			MeanLeafCount:     g.leafCount / float64(g.n),
			MeanShootLengthMM: g.shootLength / float64(g.n),
		}
		if len(g.extraSum) > 0 {
			s.MeanExtra = make(map[string]float64, len(g.extraSum))
			for col, sum := range g.extraSum {
				s.MeanExtra[col] = sum / float64(g.extraN[col])
			}
		}
		summaries = append(summaries, s)
	}

	return summaries
}

// SummarizeEnvironment computes per-school means of the environmental
// measurements, in group-encounter order. TargetEC comes from the records
// themselves (denormalized at load time from the roster).
func SummarizeEnvironment(records []domain.EnvironmentRecord) []domain.EnvironmentSummary {
	type acc struct {
		n           int
		temperature float64
		humidity    float64
		ph          float64
		ec          float64
		target      float64
	}

	var order []domain.School
	groups := make(map[domain.School]*acc)

	for _, r := range records {
		g, ok := groups[r.School]
		if !ok {
			g = &acc{target: r.TargetEC}
			groups[r.School] = g
			order = append(order, r.School)
		}
		g.n++
		g.temperature += r.Temperature
		g.humidity += r.Humidity
		g.ph += r.PH
		g.ec += r.EC
	}

	summaries := make([]domain.EnvironmentSummary, 0, len(order))
	for _, school := range order {
		g := groups[school]
		summaries = append(summaries, domain.EnvironmentSummary{
			School:          school,
			MeanTemperature: g.temperature / float64(g.n),
			MeanHumidity:    g.humidity / float64(g.n),
			MeanPH:          g.ph / float64(g.n),
			MeanEC:          g.ec / float64(g.n),
			TargetEC:        g.target,
			Readings:        g.n,
		})
	}

	return summaries
}
