package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindscreen/internal/model"
)

func baseResponses() model.RawResponses {
	return model.RawResponses{
		model.String("student-42"),
		model.String("Female"),
		model.Number(21),
		model.String("Delhi"),
		model.String("Student"),
		model.Number(2),
		model.Number(1),
		model.Number(7.5),
		model.Number(3),
		model.Number(2),
		model.Number(8),
		model.String("Healthy"),
		model.String("BSc"),
		model.String("No"),
		model.Number(6),
		model.String("No"),
		model.String("No"),
	}
}

func TestEngine_SuicidalIdeationOverrides(t *testing.T) {
	clf := &fakeClassifier{label: 0, prob: 0.05}
	e := New(NewModelContext(clf, nil, testSchema(), ModelInfo{}), nil)

	for _, answer := range []string{"yes", "YES", "true", "1", "y", " Y "} {
		t.Run(answer, func(t *testing.T) {
			raw := baseResponses()
			raw[model.PosSuicidalThoughts] = model.String(answer)

			res, err := e.Assess(raw)
			require.NoError(t, err)
			assert.True(t, res.SafetyOverride)
			assert.Equal(t, 1, res.Prediction)
			assert.Equal(t, 0.95, res.Probability)
			assert.Equal(t, model.TierCritical, res.Analysis.RiskLevel)
			assert.Equal(t, []string{ReasonSuicidalIdeation}, res.Analysis.OverrideReasons)
			assert.False(t, res.FallbackUsed)
		})
	}
	assert.Zero(t, clf.calls, "classifier is skipped on override")
}

func TestEngine_OverrideWinsOverMalformedField(t *testing.T) {
	raw := baseResponses()
	raw[model.PosAge] = model.String("not a number")
	raw[model.PosSuicidalThoughts] = model.String("yes")

	res, err := New(nil, nil).Assess(raw)
	require.NoError(t, err)
	assert.True(t, res.SafetyOverride)
	assert.Equal(t, model.TierCritical, res.Analysis.RiskLevel)
}

func TestEngine_PreprocessingError(t *testing.T) {
	raw := baseResponses()
	raw[model.PosCGPA] = model.String("three")

	for name, ctx := range map[string]*ModelContext{
		"degraded": DegradedContext(),
		"model":    NewModelContext(&fakeClassifier{}, nil, testSchema(), ModelInfo{}),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := New(ctx, nil).Assess(raw)
			var perr *PreprocessingError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, ColCGPA, perr.Field)
		})
	}
}

func TestEngine_ShortVectors(t *testing.T) {
	e := New(NewModelContext(&fakeClassifier{label: 0, prob: 0.1}, nil, testSchema(), ModelInfo{}), nil)
	full := baseResponses()

	for n := 0; n < len(full); n++ {
		res, err := e.Assess(full[:n])
		require.NoError(t, err, "length %d", n)
		assert.False(t, res.SafetyOverride)
		assert.Equal(t, 0.1, res.Probability, "missing sleep defaults to 7h, no floor at length %d", n)
	}
}

func TestEngine_ScenarioA_ExtremePressureNoModel(t *testing.T) {
	raw := baseResponses()
	raw[model.PosAcademicPressure] = model.Number(5)
	raw[model.PosWorkPressure] = model.Number(5)
	raw[model.PosSleepDuration] = model.Number(8)

	res, err := New(DegradedContext(), nil).Assess(raw)
	require.NoError(t, err)
	assert.True(t, res.FallbackUsed)
	assert.False(t, res.SafetyOverride)
	assert.False(t, res.Analysis.OverrideActive)
	assert.GreaterOrEqual(t, res.Probability, 0.4)
}

func TestEngine_ScenarioA_ReasonsFloorModelResult(t *testing.T) {
	raw := baseResponses()
	raw[model.PosAcademicPressure] = model.Number(5)
	raw[model.PosWorkPressure] = model.Number(5)

	clf := &fakeClassifier{label: 0, prob: 0.2}
	res, err := New(NewModelContext(clf, nil, testSchema(), ModelInfo{}), nil).Assess(raw)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Prediction)
	assert.Equal(t, 0.4, res.Probability)
	assert.Equal(t, model.TierLow, res.Analysis.RiskLevel)
}

func TestEngine_ScenarioB_SleepDeprivation(t *testing.T) {
	raw := make(model.RawResponses, model.QuestionCount)
	for i := 0; i < 10; i++ {
		raw[i] = model.Number(0)
	}
	raw[model.PosSleepDuration] = model.Number(3)
	raw[model.PosSuicidalThoughts] = model.String("No")

	res, err := New(nil, nil).Assess(raw)
	require.NoError(t, err)
	assert.False(t, res.SafetyOverride)
	assert.Equal(t, 0, res.Prediction)
	assert.Equal(t, 0.4, res.Probability)
	assert.True(t, res.FallbackUsed)
}

func TestEngine_ScenarioC_ClassifierFailure(t *testing.T) {
	clf := &fakeClassifier{panicMsg: "shape mismatch"}
	e := New(NewModelContext(clf, nil, testSchema(), ModelInfo{}), nil)

	var res *model.AssessmentResult
	var err error
	require.NotPanics(t, func() {
		res, err = e.Assess(baseResponses())
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Prediction)
	assert.Equal(t, 0.3, res.Probability)
	assert.True(t, res.FallbackUsed)
	assert.Equal(t, model.TierLow, res.Analysis.RiskLevel)
}

func TestEngine_FeedsAlignedVector(t *testing.T) {
	clf := &fakeClassifier{label: 1, prob: 0.62}
	e := New(NewModelContext(clf, nil, testSchema(), ModelInfo{}), nil)

	res, err := e.Assess(baseResponses())
	require.NoError(t, err)
	assert.Equal(t, []float64{21, 2, 8, 1}, clf.lastX)
	assert.Equal(t, 1, res.Prediction)
	assert.Equal(t, 0.62, res.Probability)
	assert.False(t, res.FallbackUsed)
}

func TestEngine_Idempotent(t *testing.T) {
	clf := &fakeClassifier{label: 0, prob: 0.27}
	e := New(NewModelContext(clf, doublingScaler{}, testSchema(), ModelInfo{}), nil)
	raw := baseResponses()
	raw[model.PosSleepDuration] = model.Number(2)

	first, err := e.Assess(raw)
	require.NoError(t, err)
	second, err := e.Assess(raw)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEngine_Status(t *testing.T) {
	assert.False(t, New(nil, nil).Status().ModelLoaded)
	e := New(NewModelContext(&fakeClassifier{}, nil, testSchema(), ModelInfo{Type: "logistic_regression"}), nil)
	assert.True(t, e.Status().ModelLoaded)
	assert.Equal(t, "logistic_regression", e.Status().ModelType)
}
