package engine

import "mindscreen/internal/model"

type fieldKind int

const (
	fieldIdentifier fieldKind = iota
	fieldCategorical
	fieldNumeric
	fieldOrdinal
)

// fieldSpec binds a questionnaire position to its training column
type fieldSpec struct {
	Column  string
	Kind    fieldKind
	Default model.RawValue
}

// Column names match the training data exactly.
const (
	ColAge               = "Age"
	ColAcademicPressure  = "Academic Pressure"
	ColWorkPressure      = "Work Pressure"
	ColCGPA              = "CGPA"
	ColStudySatisfaction = "Study Satisfaction"
	ColJobSatisfaction   = "Job Satisfaction"
	ColSleepDuration     = "Sleep Duration"
	ColDietaryHabits     = "Dietary Habits"
	ColWorkStudyHours    = "Work/Study Hours"
	ColGender            = "Gender"
	ColCity              = "City"
	ColProfession        = "Profession"
	ColDegree            = "Degree"
	ColSuicidalThoughts  = "Have you ever had suicidal thoughts ?"
	ColFinancialStress   = "Financial Stress"
	ColFamilyHistory     = "Family History of Mental Illness"
)

var questionnaire = [model.QuestionCount]fieldSpec{
	model.PosID:                {Column: "id", Kind: fieldIdentifier, Default: model.String("student123")},
	model.PosGender:            {Column: ColGender, Kind: fieldCategorical, Default: model.String("Male")},
	model.PosAge:               {Column: ColAge, Kind: fieldNumeric, Default: model.Number(20)},
	model.PosCity:              {Column: ColCity, Kind: fieldCategorical, Default: model.String("Unknown")},
	model.PosProfession:        {Column: ColProfession, Kind: fieldCategorical, Default: model.String("Student")},
	model.PosAcademicPressure:  {Column: ColAcademicPressure, Kind: fieldNumeric, Default: model.Number(1)},
	model.PosWorkPressure:      {Column: ColWorkPressure, Kind: fieldNumeric, Default: model.Number(1)},
	model.PosCGPA:              {Column: ColCGPA, Kind: fieldNumeric, Default: model.Number(3)},
	model.PosStudySatisfaction: {Column: ColStudySatisfaction, Kind: fieldNumeric, Default: model.Number(2)},
	model.PosJobSatisfaction:   {Column: ColJobSatisfaction, Kind: fieldNumeric, Default: model.Number(2)},
	model.PosSleepDuration:     {Column: ColSleepDuration, Kind: fieldNumeric, Default: model.Number(7)},
	model.PosDietaryHabits:     {Column: ColDietaryHabits, Kind: fieldOrdinal, Default: model.String("Average")},
	model.PosDegree:            {Column: ColDegree, Kind: fieldCategorical, Default: model.String("Bachelor")},
	model.PosSuicidalThoughts:  {Column: ColSuicidalThoughts, Kind: fieldCategorical, Default: model.String("No")},
	model.PosWorkStudyHours:    {Column: ColWorkStudyHours, Kind: fieldNumeric, Default: model.Number(8)},
	model.PosFinancialStress:   {Column: ColFinancialStress, Kind: fieldCategorical, Default: model.String("No")},
	model.PosFamilyHistory:     {Column: ColFamilyHistory, Kind: fieldCategorical, Default: model.String("No")},
}

var dietaryLevels = map[string]float64{
	"Healthy":   2,
	"Average":   1,
	"Unhealthy": 0,
}

const dietaryUnknown = 1.0
