package curve

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// LoadCSV reads an IBR curve file: no header, ';' separated, days in the
// first column and the rate as a decimal fraction in the second.
func LoadCSV(path string) (*Curve, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open curve file: %w", err)
	}
	defer f.Close()

	c, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("curve file %s: %w", path, err)
	}
	return c, nil
}

// ParseCSV skips rows that do not parse or carry a negative tenor. If nothing
// survives, ErrEmptyCurve is returned.
func ParseCSV(r io.Reader) (*Curve, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	points := make(map[int]decimal.Decimal)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read curve: %w", err)
		}
		if len(rec) < 2 {
			continue
		}

		days, err := strconv.Atoi(clean(rec[0]))
		if err != nil || days < 0 {
			continue
		}
		rate, err := decimal.NewFromString(clean(rec[1]))
		if err != nil {
			continue
		}
		points[days] = rate
	}
	return New(points)
}

func clean(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
}
