package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Questionnaire positions. Position is the only binding between an answer and its meaning.
const (
	PosID = iota
	PosGender
	PosAge
	PosCity
	PosProfession
	PosAcademicPressure
	PosWorkPressure
	PosCGPA
	PosStudySatisfaction
	PosJobSatisfaction
	PosSleepDuration
	PosDietaryHabits
	PosDegree
	PosSuicidalThoughts
	PosWorkStudyHours
	PosFinancialStress
	PosFamilyHistory

	QuestionCount
)

// QuestionKeys maps an object-shaped submission onto positions.
var QuestionKeys = [QuestionCount]string{
	"id", "Gender", "Age", "City", "Profession",
	"AcademicPressure", "WorkPressure", "CGPA",
	"StudySatisfaction", "JobSatisfaction", "SleepDuration",
	"DietaryHabits", "Degree", "SuicidalThoughts",
	"WorkStudyHours", "FinancialStress", "FamilyHistory",
}

// ValueKind tags a RawValue
type ValueKind int

const (
	KindMissing ValueKind = iota
	KindString
	KindNumber
	KindBool
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "missing"
	}
}

// RawValue is one questionnaire answer as the client sent it.
// Numbers keep their literal text so encoded column names stay stable.
type RawValue struct {
	kind ValueKind
	text string
	num  float64
	b    bool
}

// Missing returns an absent answer.
func Missing() RawValue { return RawValue{} }

// String returns a text answer.
func String(s string) RawValue { return RawValue{kind: KindString, text: s} }

// Number returns a numeric answer.
func Number(f float64) RawValue {
	return RawValue{kind: KindNumber, num: f, text: strconv.FormatFloat(f, 'f', -1, 64)}
}

// Bool returns a boolean answer.
func Bool(b bool) RawValue { return RawValue{kind: KindBool, b: b} }

// Kind reports the value's tag.
func (v RawValue) Kind() ValueKind { return v.kind }

// IsMissing reports whether the answer was absent or null.
func (v RawValue) IsMissing() bool { return v.kind == KindMissing }

// Float returns the value when it was sent as a JSON number.
func (v RawValue) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Number reads JSON numbers as-is and booleans as 1 or 0. Strings are not
// numbers here, even when they parse.
func (v RawValue) Number() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Text is the value's string form. Booleans render as True/False.
func (v RawValue) Text() string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "True"
		}
		return "False"
	case KindMissing:
		return ""
	default:
		return v.text
	}
}

// Interface converts the value back to a plain Go value for storage.
func (v RawValue) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.text
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	default:
		return nil
	}
}

func (v RawValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return []byte(v.text), nil
	default:
		return json.Marshal(v.Interface())
	}
}

func (v *RawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Missing()
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case '{', '[':
		// nested values are kept verbatim and treated as text
		*v = String(string(data))
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", data, err)
		}
		*v = RawValue{kind: KindNumber, num: f, text: string(data)}
	}
	return nil
}

// RawResponses is the ordered answer vector. It may be shorter than QuestionCount.
type RawResponses []RawValue

// At returns the answer at pos, or Missing when the vector is too short.
func (r RawResponses) At(pos int) RawValue {
	if pos < 0 || pos >= len(r) {
		return Missing()
	}
	return r[pos]
}

// Values converts the vector to plain Go values.
func (r RawResponses) Values() []interface{} {
	out := make([]interface{}, len(r))
	for i, v := range r {
		out[i] = v.Interface()
	}
	return out
}

// UnmarshalJSON accepts either an array or an object keyed by QuestionKeys.
func (r *RawResponses) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = nil
		return nil
	}

	if data[0] == '{' {
		var obj map[string]RawValue
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		out := make(RawResponses, QuestionCount)
		for i, key := range QuestionKeys {
			out[i] = obj[key]
		}
		*r = out
		return nil
	}

	var arr []RawValue
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	*r = arr
	return nil
}

// String renders the vector for log lines.
func (r RawResponses) String() string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = v.Text()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
