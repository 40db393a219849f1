package exporter

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"ecdash/pkg/contracts/domain"
)

// GrowthSheetName is the sheet the growth export is written to.
const GrowthSheetName = "Growth_Data"

// BuildGrowthXLSX renders the (possibly filtered) growth table as a
// single-sheet workbook carrying the same column set as the input:
// the three canonical measurements plus any pass-through extras, with the
// school tag first. Numeric cells are written as numbers so a re-parse
// yields the same values.
func BuildGrowthXLSX(records []domain.GrowthRecord, extraColumns []string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", GrowthSheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := append([]string{"school", domain.ColFreshWeight, domain.ColLeafCount, domain.ColShootLength}, extraColumns...)
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(GrowthSheetName, cell, name); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, r := range records {
		row := i + 2
		values := []interface{}{string(r.School), r.FreshWeightG, r.LeafCount, r.ShootLengthMM}
		for _, col := range extraColumns {
			if v, ok := r.Extra[col]; ok {
				values = append(values, v)
			} else {
				values = append(values, nil)
			}
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := f.SetCellValue(GrowthSheetName, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
