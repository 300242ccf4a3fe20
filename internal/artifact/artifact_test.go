package artifact

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const logisticDoc = `{
  "features": ["Age", "Sleep Duration"],
  "scaler": {"mean": [20, 7], "scale": [2, 0]},
  "model": {"type": "logistic_regression", "coefficients": [1, 0], "intercept": 0},
  "info": {"name": "lr-v1", "accuracy": 0.84}
}`

const forestDoc = `{
  "features": ["Academic Pressure", "Gender_Male"],
  "model": {
    "type": "random_forest",
    "trees": [
      {"nodes": [
        {"feature": 0, "threshold": 2.5, "left": 1, "right": 2},
        {"left": -1, "right": -1, "value": [3, 1]},
        {"left": -1, "right": -1, "value": [1, 3]}
      ]},
      {"nodes": [
        {"left": -1, "right": -1, "value": [1, 1]}
      ]}
    ]
  }
}`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParse_LogisticRegression(t *testing.T) {
	a, err := Parse([]byte(logisticDoc))
	require.NoError(t, err)
	assert.Equal(t, []string{"Age", "Sleep Duration"}, a.Features)
	assert.Equal(t, TypeLogisticRegression, a.Info.Type)
	require.NotNil(t, a.Info.Accuracy)
	assert.InDelta(t, 0.84, *a.Info.Accuracy, 1e-9)

	p, err := a.Classifier.PredictProbability([]float64{0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-9)

	label, err := a.Classifier.Predict([]float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, label, "0.5 is not above the cutoff")

	label, err = a.Classifier.Predict([]float64{2, 0})
	require.NoError(t, err)
	assert.Equal(t, 1, label)
}

func TestParse_RandomForest(t *testing.T) {
	a, err := Parse([]byte(forestDoc))
	require.NoError(t, err)
	assert.Nil(t, a.Scaler)

	tests := []struct {
		name string
		x    []float64
		want float64
	}{
		{"left branch", []float64{2.5, 0}, (0.25 + 0.5) / 2},
		{"right branch", []float64{4, 1}, (0.75 + 0.5) / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := a.Classifier.PredictProbability(tt.x)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, p, 1e-9)
		})
	}

	_, err = a.Classifier.PredictProbability([]float64{1})
	assert.Error(t, err)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"features":`},
		{"missing model", `{"features": ["Age"]}`},
		{"empty features", `{"features": [], "model": {"type": "logistic_regression", "coefficients": [], "intercept": 0}}`},
		{"unknown type", `{"features": ["Age"], "model": {"type": "svm"}}`},
		{"lr without coefficients", `{"features": ["Age"], "model": {"type": "logistic_regression"}}`},
		{"coefficient mismatch", `{"features": ["Age", "CGPA"], "model": {"type": "logistic_regression", "coefficients": [1], "intercept": 0}}`},
		{"scaler mismatch", `{"features": ["Age"], "scaler": {"mean": [1, 2], "scale": [1, 1]}, "model": {"type": "logistic_regression", "coefficients": [1], "intercept": 0}}`},
		{"forest without trees", `{"features": ["Age"], "model": {"type": "random_forest", "trees": []}}`},
		{"split feature out of range", `{"features": ["Age"], "model": {"type": "random_forest", "trees": [{"nodes": [
			{"feature": 3, "threshold": 1, "left": 1, "right": 2},
			{"left": -1, "right": -1, "value": [1, 0]},
			{"left": -1, "right": -1, "value": [0, 1]}]}]}}`},
		{"backward child", `{"features": ["Age"], "model": {"type": "random_forest", "trees": [{"nodes": [
			{"feature": 0, "threshold": 1, "left": 0, "right": 1},
			{"left": -1, "right": -1, "value": [0, 1]}]}]}}`},
		{"short leaf", `{"features": ["Age"], "model": {"type": "random_forest", "trees": [{"nodes": [
			{"left": -1, "right": -1, "value": [1]}]}]}}`},
		{"accuracy out of range", `{"features": ["Age"], "model": {"type": "logistic_regression", "coefficients": [1], "intercept": 0}, "info": {"accuracy": 84}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
		})
	}
}

func TestStandardScaler(t *testing.T) {
	s := &StandardScaler{mean: []float64{20, 7}, scale: []float64{2, 0}}

	out, err := s.Transform([]float64{24, 9})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2}, out, "zero scale divides by one")

	_, err = s.Transform([]float64{1})
	assert.Error(t, err)
}

func TestArtifact_ModelContext(t *testing.T) {
	a, err := Parse([]byte(logisticDoc))
	require.NoError(t, err)

	st := a.ModelContext().Status()
	assert.True(t, st.ModelLoaded)
	assert.True(t, st.ScalerLoaded)
	assert.Equal(t, 2, st.FeaturesCount)
	assert.Equal(t, TypeLogisticRegression, st.ModelType)
	assert.Equal(t, "lr-v1", st.ModelName)

	f, err := Parse([]byte(forestDoc))
	require.NoError(t, err)
	assert.False(t, f.ModelContext().Status().ScalerLoaded)
}

func TestLoader_LocalFile(t *testing.T) {
	a, err := NewLoader().Load(context.Background(), writeTemp(t, forestDoc))
	require.NoError(t, err)
	assert.Equal(t, TypeRandomForest, a.Info.Type)
}

func TestLoader_Errors(t *testing.T) {
	l := NewLoader()

	_, err := l.Load(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyLocation)

	_, err = l.Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = l.Load(context.Background(), writeTemp(t, `{"features": []}`))
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

type fakeGetter struct {
	body   string
	err    error
	bucket string
	key    string
}

func (f *fakeGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = *in.Bucket
	f.key = *in.Key
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestLoader_S3(t *testing.T) {
	getter := &fakeGetter{body: logisticDoc}
	l := NewLoader(WithObjectGetter(getter), WithRegion("eu-west-1"))

	a, err := l.Load(context.Background(), "s3://models/screening/lr.json")
	require.NoError(t, err)
	assert.Equal(t, "models", getter.bucket)
	assert.Equal(t, "screening/lr.json", getter.key)
	assert.Equal(t, "lr-v1", a.Info.Name)
}

func TestLoader_S3Errors(t *testing.T) {
	boom := errors.New("access denied")
	l := NewLoader(WithObjectGetter(&fakeGetter{err: boom}))

	_, err := l.Load(context.Background(), "s3://models/lr.json")
	assert.ErrorIs(t, err, boom)

	for _, loc := range []string{"s3://", "s3://bucket", "s3://bucket/", "s3:///key"} {
		_, err := l.Load(context.Background(), loc)
		assert.Error(t, err, loc)
	}
}
