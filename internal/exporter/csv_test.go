package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecdash/pkg/contracts/domain"
)

func TestWriteEnvironmentCSV(t *testing.T) {
	records := []domain.EnvironmentRecord{
		{Time: "2021-11-01 09:00", Temperature: 21.5, Humidity: 65.0, PH: 6.1, EC: 1.02, School: "송도고", TargetEC: 1.0},
		{Time: "2021-11-01 09:00", Temperature: 23.0, Humidity: 60.0, PH: 5.9, EC: 2.05, School: "하늘고", TargetEC: 2.0},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteEnvironmentCSV(&buf, records))

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, utf8BOM), "export must start with a UTF-8 BOM")

	rows, err := csv.NewReader(bytes.NewReader(out[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, environmentHeader, rows[0])
	assert.Equal(t, []string{"2021-11-01 09:00", "21.5", "65", "6.1", "1.02", "송도고", "1"}, rows[1])
	assert.Equal(t, "하늘고", rows[2][5])
}

func TestWriteEnvironmentCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEnvironmentCSV(&buf, nil))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}

func TestWriteSummaryCSV(t *testing.T) {
	summaries := []domain.SchoolSummary{
		{School: "송도고", ECTarget: 1.0, Specimens: 3, MeanFreshWeightG: 20.0, MeanLeafCount: 12.0, MeanShootLengthMM: 110.0},
		{School: "동산고", ECTarget: 8.0, Specimens: 2, MeanFreshWeightG: 15.5, MeanLeafCount: 10.5, MeanShootLengthMM: 95.25},
	}

	path := filepath.Join(t.TempDir(), "reports", "summary.csv")
	require.NoError(t, WriteSummaryCSV(path, summaries))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, utf8BOM))

	rows, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"송도고", "1", "3", "20", "12", "110"}, rows[1])
	assert.Equal(t, []string{"동산고", "8", "2", "15.5", "10.5", "95.25"}, rows[2])
}
