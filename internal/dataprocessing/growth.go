package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"

	"ecdash/pkg/contracts/domain"
)

// GrowthTable is the unified growth dataset: one row per measured specimen
// across every sheet of the workbook, plus the pass-through extra column
// names in first-encounter order.
type GrowthTable struct {
	Records      []domain.GrowthRecord
	ExtraColumns []string
}

// ParseGrowthWorkbook reads the multi-sheet growth spreadsheet. One sheet is
// one school: the sheet name, NFC-normalized, becomes the school tag for
// every row parsed from it. Each sheet is assumed to carry the same column
// set; numeric columns beyond the three canonical measurements pass through
// in Extra.
func ParseGrowthWorkbook(path string) (*GrowthTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open growth workbook: %w", err)
	}
	defer f.Close()

	table := &GrowthTable{}
	seenExtra := make(map[string]bool)

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		if len(rows) < 2 {
			continue
		}

		school := domain.NormalizeSchool(sheet)
		cols, extras := mapGrowthColumns(rows[0])
		if err := cols.validate(sheet); err != nil {
			return nil, err
		}

		for _, col := range extras {
			if !seenExtra[col.name] {
				seenExtra[col.name] = true
				table.ExtraColumns = append(table.ExtraColumns, col.name)
			}
		}

		for i, row := range rows[1:] {
			if rowEmpty(row) {
				continue
			}
			rec := domain.GrowthRecord{School: school}
			if rec.FreshWeightG, err = parseGrowthCell(row, cols.freshWeight, sheet, i+2, domain.ColFreshWeight); err != nil {
				return nil, err
			}
			if rec.LeafCount, err = parseGrowthCell(row, cols.leafCount, sheet, i+2, domain.ColLeafCount); err != nil {
				return nil, err
			}
			if rec.ShootLengthMM, err = parseGrowthCell(row, cols.shootLength, sheet, i+2, domain.ColShootLength); err != nil {
				return nil, err
			}
			for _, col := range extras {
				if col.index >= len(row) {
					continue
				}
				v, err := strconv.ParseFloat(strings.TrimSpace(row[col.index]), 64)
				if err != nil {
					continue // non-numeric extras are not carried
				}
				if rec.Extra == nil {
					rec.Extra = make(map[string]float64, len(extras))
				}
				rec.Extra[col.name] = v
			}
			table.Records = append(table.Records, rec)
		}
	}

	return table, nil
}

type growthColumns struct {
	freshWeight int
	leafCount   int
	shootLength int
}

type extraColumn struct {
	name  string
	index int
}

// mapGrowthColumns matches the Korean measurement headers by their leading
// term so unit suffixes ("생중량(g)" vs "생중량 (g)") do not matter.
func mapGrowthColumns(header []string) (growthColumns, []extraColumn) {
	cols := growthColumns{freshWeight: -1, leafCount: -1, shootLength: -1}
	var extras []extraColumn

	for i, h := range header {
		name := norm.NFC.String(strings.TrimSpace(h))
		switch {
		case strings.Contains(name, "생중량"):
			cols.freshWeight = i
		case strings.Contains(name, "잎"):
			cols.leafCount = i
		case strings.Contains(name, "지상부"):
			cols.shootLength = i
		case name != "":
			extras = append(extras, extraColumn{name: name, index: i})
		}
	}
	return cols, extras
}

func (c growthColumns) validate(sheet string) error {
	missing := ""
	switch {
	case c.freshWeight == -1:
		missing = domain.ColFreshWeight
	case c.leafCount == -1:
		missing = domain.ColLeafCount
	case c.shootLength == -1:
		missing = domain.ColShootLength
	}
	if missing != "" {
		return fmt.Errorf("sheet %q is missing required column %q", sheet, missing)
	}
	return nil
}

func parseGrowthCell(row []string, idx int, sheet string, line int, name string) (float64, error) {
	if idx >= len(row) {
		return 0, fmt.Errorf("sheet %q row %d has no %q column", sheet, line, name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
	if err != nil {
		return 0, fmt.Errorf("sheet %q row %d: invalid %q value %q: %w", sheet, line, name, row[idx], err)
	}
	return v, nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
