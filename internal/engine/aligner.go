package engine

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"mindscreen/internal/model"
)

var errNotFinite = errors.New("value is not a finite number")

// FeatureVector is a numeric row in FeatureSchema order
type FeatureVector []float64

// Column is one derived feature before schema alignment
type Column struct {
	Name  string
	Value float64
}

// FeatureRow holds the columns derived from one questionnaire, in questionnaire order
type FeatureRow []Column

// Aligner turns raw positional answers into schema-aligned feature vectors
type Aligner struct{}

// NewAligner creates a new feature aligner
func NewAligner() *Aligner {
	return &Aligner{}
}

// Row builds the named raw-field mapping and encodes categorical fields.
// The identifier is never encoded.
func (a *Aligner) Row(raw model.RawResponses) (FeatureRow, error) {
	row := make(FeatureRow, 0, len(questionnaire))

	for pos, field := range questionnaire {
		v := resolve(raw.At(pos), field.Default)

		switch field.Kind {
		case fieldIdentifier:
			continue

		case fieldNumeric:
			f, err := parseNumeric(v)
			if err != nil {
				return nil, &PreprocessingError{Field: field.Column, Value: v.Text(), Err: err}
			}
			row = append(row, Column{Name: field.Column, Value: f})

		case fieldOrdinal:
			level := dietaryUnknown
			if v.Kind() == model.KindString {
				if l, ok := dietaryLevels[v.Text()]; ok {
					level = l
				}
			}
			row = append(row, Column{Name: field.Column, Value: level})

		case fieldCategorical:
			switch v.Kind() {
			case model.KindNumber, model.KindBool:
				// non-text answers keep the bare column, like the training frame did
				f, _ := parseNumeric(v)
				row = append(row, Column{Name: field.Column, Value: f})
			default:
				row = append(row, Column{Name: field.Column + "_" + v.Text(), Value: 1})
			}
		}
	}

	return row, nil
}

// Project writes row into a vector of exactly schema.Len() entries.
// Schema columns the row never produced stay zero; row columns outside the schema are dropped.
func (a *Aligner) Project(row FeatureRow, schema *FeatureSchema) FeatureVector {
	vec := make(FeatureVector, schema.Len())
	for _, c := range row {
		if i, ok := schema.Index(c.Name); ok {
			vec[i] = c.Value
		}
	}
	return vec
}

// Align runs Row then Project.
func (a *Aligner) Align(raw model.RawResponses, schema *FeatureSchema) (FeatureVector, error) {
	row, err := a.Row(raw)
	if err != nil {
		return nil, err
	}
	return a.Project(row, schema), nil
}

func resolve(v, def model.RawValue) model.RawValue {
	if v.IsMissing() || strings.TrimSpace(v.Text()) == "" {
		return def
	}
	return v
}

func parseNumeric(v model.RawValue) (float64, error) {
	switch v.Kind() {
	case model.KindNumber:
		f, _ := v.Float()
		return f, nil
	case model.KindBool:
		if v.Text() == "True" {
			return 1, nil
		}
		return 0, nil
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(v.Text()), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}
