package punctuality

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Value is a series value. It decodes leniently: JSON numbers and numeric
// strings keep their value, anything else (null, booleans, junk) becomes 0.
type Value float64

// Float returns v as a float64, mapping NaN and infinities to 0.
func (v Value) Float() float64 {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// MarshalJSON encodes non-finite values as 0 so a bad stored value never
// breaks a response.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Float())
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		*v = 0
		return nil
	}

	switch x := raw.(type) {
	case float64:
		*v = Value(x)
	case string:
		*v = ParseValue(x)
	default:
		*v = 0
	}
	return nil
}

// ParseValue converts a textual number. Unparseable text yields 0.
func ParseValue(s string) Value {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Value(f)
}

// Values converts plain floats.
func Values(fs ...float64) []Value {
	out := make([]Value, len(fs))
	for i, f := range fs {
		out[i] = Value(f)
	}
	return out
}

const dateLayout = "2006-01-02"

// Date is a calendar date. It accepts both "2006-01-02" and RFC 3339
// timestamps on input and always encodes as "2006-01-02".
type Date struct {
	time.Time
}

// NewDate truncates t to its UTC calendar day.
func NewDate(t time.Time) Date {
	t = t.UTC()
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses "2006-01-02" or an RFC 3339 timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t), nil
}

// MustDate is ParseDate for literals; it panics on bad input.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
