package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads a candle series from a CSV file with columns
// timestamp,open,high,low,close,volume. The timestamp is Unix seconds. A
// header row is skipped when the first field is not numeric.
func LoadCSV(path string) ([]Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open candle file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var candles []Candle
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		line++

		if len(record) < 5 {
			return nil, fmt.Errorf("%s line %d: expected at least 5 columns, got %d", path, line, len(record))
		}
		if line == 1 {
			if _, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64); err != nil {
				continue // header row
			}
		}

		c, err := parseCandle(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		candles = append(candles, c)
	}

	if err := ValidateSeries(candles); err != nil {
		return nil, fmt.Errorf("invalid series in %s: %w", path, err)
	}
	return candles, nil
}

func parseCandle(record []string) (Candle, error) {
	ts, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
	if err != nil {
		return Candle{}, fmt.Errorf("bad timestamp %q: %w", record[0], err)
	}

	fields := make([]float64, 0, 5)
	for i := 1; i < len(record) && i < 6; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
		if err != nil {
			return Candle{}, fmt.Errorf("bad value %q: %w", record[i], err)
		}
		fields = append(fields, v)
	}

	c := Candle{
		Timestamp: ts,
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
	}
	if len(fields) > 4 {
		c.Volume = fields[4]
	}
	if err := c.Validate(); err != nil {
		return Candle{}, err
	}
	return c, nil
}
