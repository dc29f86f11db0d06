package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// BodyweightMarker is how a bodyweight load is written in a weight field.
const BodyweightMarker = "BW"

// Amount is one user-entered quantity from a set form. Forms are frequently
// left blank mid-session, so an Amount may be absent, a number, the bodyweight
// marker, or free text that reads as zero. It never fails to decode.
type Amount struct {
	value      float64
	present    bool
	bodyweight bool
}

// Num returns a present numeric Amount.
func Num(v float64) Amount {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return Amount{value: v, present: true}
}

// Bodyweight returns a present Amount holding the "BW" marker.
func Bodyweight() Amount {
	return Amount{present: true, bodyweight: true}
}

// ParseAmount interprets form input. Empty input is absent, "BW" is the
// bodyweight marker, anything else is parsed as a number and degrades to 0.
// The whole input must be numeric: "12kg" reads as 0, not 12.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}
	}
	if strings.EqualFold(s, BodyweightMarker) {
		return Bodyweight()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Amount{present: true}
	}
	return Num(v)
}

// Present reports whether anything was entered.
func (a Amount) Present() bool { return a.present }

// IsBodyweight reports whether the amount is the "BW" marker.
func (a Amount) IsBodyweight() bool { return a.bodyweight }

// IsZero lets encoding/json omit absent amounts.
func (a Amount) IsZero() bool { return !a.present }

// Float returns the numeric value; absent, bodyweight and invalid input are 0.
func (a Amount) Float() float64 {
	if !a.present || a.bodyweight {
		return 0
	}
	return a.value
}

// Int returns the value truncated toward zero.
func (a Amount) Int() int {
	return int(math.Trunc(a.Float()))
}

// Or returns a if present, otherwise fallback.
func (a Amount) Or(fallback Amount) Amount {
	if a.present {
		return a
	}
	return fallback
}

// String renders the amount the way it would be typed into a form.
func (a Amount) String() string {
	switch {
	case !a.present:
		return ""
	case a.bodyweight:
		return BodyweightMarker
	default:
		return strconv.FormatFloat(a.value, 'f', -1, 64)
	}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	switch {
	case !a.present:
		return []byte("null"), nil
	case a.bodyweight:
		return json.Marshal(BodyweightMarker)
	default:
		return json.Marshal(a.value)
	}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*a = Amount{present: true}
			return nil
		}
		*a = ParseAmount(s)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*a = Amount{present: true}
		return nil
	}
	*a = Num(v)
	return nil
}

// Measure pairs the planned target with what was actually logged.
type Measure struct {
	Planned Amount `json:"planned,omitzero"`
	Actual  Amount `json:"actual,omitzero"`
}

// Planned returns a Measure with only a planned value.
func Planned(a Amount) Measure { return Measure{Planned: a} }

// Effective returns the actual value if one was logged, else the plan.
func (m Measure) Effective() Amount {
	return m.Actual.Or(m.Planned)
}

// IsZero lets encoding/json omit empty measures.
func (m Measure) IsZero() bool {
	return !m.Planned.present && !m.Actual.present
}
