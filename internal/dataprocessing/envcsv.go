package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"ecdash/pkg/contracts/domain"
)

// ParseEnvironmentCSV reads one school's environmental sensor file and tags
// every row with the school name and its configured EC target. The file is
// expected to carry a time-like column plus temperature, humidity, ph and ec;
// a malformed numeric cell fails the whole file, which the caller treats the
// same as an unresolvable file (school skipped).
func ParseEnvironmentCSV(path string, school domain.SchoolConfig) ([]domain.EnvironmentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open environment file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols, err := mapEnvironmentColumns(header)
	if err != nil {
		return nil, err
	}

	var records []domain.EnvironmentRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		rec := domain.EnvironmentRecord{
			Time:     strings.TrimSpace(row[cols.time]),
			School:   school.Name,
			TargetEC: school.ECTarget,
		}
		if rec.Temperature, err = parseCell(row, cols.temperature, line, "temperature"); err != nil {
			return nil, err
		}
		if rec.Humidity, err = parseCell(row, cols.humidity, line, "humidity"); err != nil {
			return nil, err
		}
		if rec.PH, err = parseCell(row, cols.ph, line, "ph"); err != nil {
			return nil, err
		}
		if rec.EC, err = parseCell(row, cols.ec, line, "ec"); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

type envColumns struct {
	time        int
	temperature int
	humidity    int
	ph          int
	ec          int
}

// mapEnvironmentColumns maps header positions by name. The time column
// accepts any header containing "time" or "date" so variants like
// "timestamp" and "측정일" fall back to position 0 only when nothing matches.
func mapEnvironmentColumns(header []string) (envColumns, error) {
	cols := envColumns{time: -1, temperature: -1, humidity: -1, ph: -1, ec: -1}

	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(name, "time") || strings.Contains(name, "date"):
			if cols.time == -1 {
				cols.time = i
			}
		case strings.Contains(name, "temp"):
			cols.temperature = i
		case strings.Contains(name, "hum"):
			cols.humidity = i
		case name == "ph":
			cols.ph = i
		case name == "ec":
			cols.ec = i
		}
	}

	if cols.time == -1 {
		cols.time = 0
	}
	for name, idx := range map[string]int{
		"temperature": cols.temperature,
		"humidity":    cols.humidity,
		"ph":          cols.ph,
		"ec":          cols.ec,
	} {
		if idx == -1 {
			return cols, fmt.Errorf("missing required column %q in header %v", name, header)
		}
	}
	return cols, nil
}

func parseCell(row []string, idx, line int, name string) (float64, error) {
	if idx >= len(row) {
		return 0, fmt.Errorf("row %d has no %s column", line, name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: invalid %s value %q: %w", line, name, row[idx], err)
	}
	return v, nil
}
