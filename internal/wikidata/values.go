package wikidata

import (
	"strconv"
	"time"

	"github.com/roach88/nlquery/internal/ir"
)

// timeLayouts are the lexical forms of TimeValue labels, most specific
// first.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// rowValue converts the ?valLabel of a row into a typed value, using ?type
// to recognize dates and quantities.
func rowValue(row Row) ir.Value {
	value := row[string(varVal.Label())].Value

	switch row[string(varType)].Value {
	case TypeTimeValue:
		if t, ok := parseTime(value); ok {
			return ir.NewDate(t)
		}
		return ir.Text(value)
	case TypeQuantityValue:
		if isDigits(value) {
			n, err := strconv.ParseFloat(value, 64)
			if err == nil {
				return ir.Number(n)
			}
		}
		return ir.Text(value)
	default:
		return ir.Text(value)
	}
}

// rowValues converts every row, preserving result order.
func rowValues(rows []Row) ir.List {
	values := make(ir.List, 0, len(rows))
	for _, row := range rows {
		values = append(values, rowValue(row))
	}
	return values
}

// countValue reads ?count of the first row; nil when absent.
func countValue(rows []Row) ir.Value {
	if len(rows) == 0 {
		return nil
	}
	term, ok := rows[0][string(varCount)]
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(term.Value, 10, 64)
	if err != nil {
		return ir.Text(term.Value)
	}
	return ir.Int(n)
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// yearInstant renders "in <year>" as an xsd:dateTime lexical form: the
// given year on the reference date's month and day, at midnight.
func yearInstant(year string, ref time.Time) (string, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return "", false
	}
	t := time.Date(y, ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	return t.Format("2006-01-02T15:04:05"), true
}

// yearsBetween returns the number of whole years from birth to now.
func yearsBetween(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}
