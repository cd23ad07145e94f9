package ir

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the plain-text rendering of Date values ("August 04, 1961").
const DateLayout = "January 02, 2006"

// Value is a sealed interface representing typed answer data.
// Only Text, Number, Int, Date and List implement this.
type Value interface {
	irValue() // Sealed - only these types implement it

	// String renders the value for plain-text answers.
	String() string
}

// Text is a plain string value (labels, descriptions, unparsed quantities).
type Text string

func (Text) irValue() {}

func (t Text) String() string { return string(t) }

// Number is a floating-point quantity parsed from a purely numeric binding.
type Number float64

func (Number) irValue() {}

// String renders the shortest decimal form, never scientific notation.
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// MarshalJSON keeps numbers numeric in raw responses.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

// Int is an integer value (aggregate counts, ages in years).
type Int int64

func (Int) irValue() {}

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Date is a timezone-naive calendar date.
// The wrapped time is always UTC with the zone information discarded.
type Date struct {
	time.Time
}

func (Date) irValue() {}

// NewDate drops the location of t, keeping the wall-clock fields.
func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)}
}

func (d Date) String() string { return d.Format(DateLayout) }

// MarshalJSON renders the date in ISO form without a zone designator.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format("2006-01-02T15:04:05"))
}

// List is an ordered sequence of values (multi-row result sets).
type List []Value

func (List) irValue() {}

// String joins the element renderings with ", " preserving order.
func (l List) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = Render(v)
	}
	return strings.Join(parts, ", ")
}

// Render converts any Value (including nil) to its plain-text form.
// A nil value renders as the empty string.
func Render(v Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}

// IsEmpty reports whether v carries no data: nil, an empty Text
// or an empty List.
func IsEmpty(v Value) bool {
	switch val := v.(type) {
	case nil:
		return true
	case Text:
		return val == ""
	case List:
		return len(val) == 0
	default:
		return false
	}
}
