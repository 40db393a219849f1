package dataprocessing

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"

	"ecdash/pkg/contracts/domain"
)

// sheetFixture is one school's sheet: a header row plus data rows.
type sheetFixture struct {
	name string
	rows [][]interface{}
}

var growthHeader = []interface{}{domain.ColFreshWeight, domain.ColLeafCount, domain.ColShootLength}

func writeWorkbook(t *testing.T, sheets []sheetFixture) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet.name))
		} else {
			_, err := f.NewSheet(sheet.name)
			require.NoError(t, err)
		}
		for r, row := range sheet.rows {
			for c, v := range row {
				if v == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(sheet.name, cell, v))
			}
		}
	}

	path := filepath.Join(t.TempDir(), "growth.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseGrowthWorkbook(t *testing.T) {
	path := writeWorkbook(t, []sheetFixture{
		{
			name: "송도고",
			rows: [][]interface{}{
				growthHeader,
				{105.2, 12.0, 210.5},
				{98.7, 11.0, 198.0},
			},
		},
		{
			name: "하늘고",
			rows: [][]interface{}{
				growthHeader,
				{150.1, 14.0, 230.0},
			},
		},
	})

	table, err := ParseGrowthWorkbook(path)
	require.NoError(t, err)
	require.Len(t, table.Records, 3)
	assert.Empty(t, table.ExtraColumns)

	assert.Equal(t, domain.School("송도고"), table.Records[0].School)
	assert.Equal(t, 105.2, table.Records[0].FreshWeightG)
	assert.Equal(t, 12.0, table.Records[0].LeafCount)
	assert.Equal(t, 210.5, table.Records[0].ShootLengthMM)

	assert.Equal(t, domain.School("하늘고"), table.Records[2].School)
	assert.Equal(t, 150.1, table.Records[2].FreshWeightG)
}

func TestParseGrowthWorkbookDecomposedSheetName(t *testing.T) {
	path := writeWorkbook(t, []sheetFixture{
		{
			name: norm.NFD.String("아라고"),
			rows: [][]interface{}{
				growthHeader,
				{120.0, 13.0, 215.0},
			},
		},
	})

	table, err := ParseGrowthWorkbook(path)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, domain.School("아라고"), table.Records[0].School)
}

func TestParseGrowthWorkbookExtraColumns(t *testing.T) {
	header := append(append([]interface{}{}, growthHeader...), "근장(mm)", "비고")
	path := writeWorkbook(t, []sheetFixture{
		{
			name: "송도고",
			rows: [][]interface{}{
				header,
				{105.2, 12.0, 210.5, 85.0, "정상"},
				{98.7, 11.0, 198.0, nil, nil},
			},
		},
	})

	table, err := ParseGrowthWorkbook(path)
	require.NoError(t, err)
	require.Len(t, table.Records, 2)
	assert.Equal(t, []string{"근장(mm)", "비고"}, table.ExtraColumns)

	// Numeric extras carry through; textual cells do not.
	require.NotNil(t, table.Records[0].Extra)
	assert.Equal(t, 85.0, table.Records[0].Extra["근장(mm)"])
	_, hasRemark := table.Records[0].Extra["비고"]
	assert.False(t, hasRemark)
	assert.Nil(t, table.Records[1].Extra)
}

func TestParseGrowthWorkbookSkipsEmptyRows(t *testing.T) {
	path := writeWorkbook(t, []sheetFixture{
		{
			name: "송도고",
			rows: [][]interface{}{
				growthHeader,
				{105.2, 12.0, 210.5},
				{nil, nil, nil},
				{98.7, 11.0, 198.0},
			},
		},
	})

	table, err := ParseGrowthWorkbook(path)
	require.NoError(t, err)
	assert.Len(t, table.Records, 2)
}

func TestParseGrowthWorkbookErrors(t *testing.T) {
	t.Run("missing canonical column", func(t *testing.T) {
		path := writeWorkbook(t, []sheetFixture{
			{
				name: "송도고",
				rows: [][]interface{}{
					{domain.ColFreshWeight, domain.ColLeafCount},
					{105.2, 12.0},
				},
			},
		})
		_, err := ParseGrowthWorkbook(path)
		assert.Error(t, err)
	})

	t.Run("malformed canonical cell", func(t *testing.T) {
		path := writeWorkbook(t, []sheetFixture{
			{
				name: "송도고",
				rows: [][]interface{}{
					growthHeader,
					{"측정불가", 12.0, 210.5},
				},
			},
		})
		_, err := ParseGrowthWorkbook(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ParseGrowthWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"))
		assert.Error(t, err)
	})
}

func TestParseGrowthWorkbookHeaderOnlySheetSkipped(t *testing.T) {
	path := writeWorkbook(t, []sheetFixture{
		{
			name: "송도고",
			rows: [][]interface{}{growthHeader},
		},
		{
			name: "하늘고",
			rows: [][]interface{}{
				growthHeader,
				{150.1, 14.0, 230.0},
			},
		},
	})

	table, err := ParseGrowthWorkbook(path)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, domain.School("하늘고"), table.Records[0].School)
}
