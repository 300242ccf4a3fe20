package engine

import (
	"bytes"
	"errors"
	"log/slog"
)

type fakeClassifier struct {
	label    int
	prob     float64
	err      error
	panicMsg string
	calls    int
	lastX    []float64
}

func (f *fakeClassifier) Predict(x []float64) (int, error) {
	f.calls++
	f.lastX = x
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.err != nil {
		return 0, f.err
	}
	return f.label, nil
}

func (f *fakeClassifier) PredictProbability(_ []float64) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.prob, nil
}

type doublingScaler struct {
	err error
}

func (s doublingScaler) Transform(x []float64) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v * 2
	}
	return out, nil
}

var errBoom = errors.New("boom")

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func testSchema() *FeatureSchema {
	return NewFeatureSchema([]string{
		ColAge, ColAcademicPressure, ColSleepDuration, "Gender_Female",
	})
}
