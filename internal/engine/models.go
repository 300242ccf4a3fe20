package engine

// Classifier is a trained binary classifier
type Classifier interface {
	Predict(x []float64) (int, error)
	PredictProbability(x []float64) (float64, error)
}

// Scaler is a fitted feature transform applied before the classifier
type Scaler interface {
	Transform(x []float64) ([]float64, error)
}

// ModelInfo describes the loaded artifact for status reporting
type ModelInfo struct {
	Name     string
	Type     string
	Accuracy *float64
}

// ModelContext holds the process-lifetime model artifacts.
// All fields are optional and never change after construction, so one value
// is safely shared by concurrent requests.
type ModelContext struct {
	classifier Classifier
	scaler     Scaler
	schema     *FeatureSchema
	info       ModelInfo
}

// NewModelContext builds a context from loaded artifacts. A classifier without a
// schema cannot be fed, so it is dropped and the context runs degraded.
func NewModelContext(classifier Classifier, scaler Scaler, schema *FeatureSchema, info ModelInfo) *ModelContext {
	if schema.Len() == 0 {
		classifier = nil
	}
	return &ModelContext{
		classifier: classifier,
		scaler:     scaler,
		schema:     schema,
		info:       info,
	}
}

// DegradedContext is a context with no artifacts; the heuristic scorer is used.
func DegradedContext() *ModelContext {
	return &ModelContext{}
}

// Classifier returns the trained classifier, if any.
func (m *ModelContext) Classifier() (Classifier, bool) {
	if m == nil || m.classifier == nil {
		return nil, false
	}
	return m.classifier, true
}

// Scaler returns the feature transform, if any.
func (m *ModelContext) Scaler() (Scaler, bool) {
	if m == nil || m.scaler == nil {
		return nil, false
	}
	return m.scaler, true
}

// Schema returns the feature schema; nil when none was loaded.
func (m *ModelContext) Schema() *FeatureSchema {
	if m == nil {
		return nil
	}
	return m.schema
}

// Status is the observational view served by the health endpoint
type Status struct {
	ModelLoaded   bool     `json:"model_loaded"`
	ScalerLoaded  bool     `json:"scaler_loaded"`
	FeaturesCount int      `json:"features_count"`
	ModelType     string   `json:"model_type"`
	ModelName     string   `json:"model_name,omitempty"`
	ModelAccuracy *float64 `json:"model_accuracy,omitempty"`
}

// Status reports which artifacts are active.
func (m *ModelContext) Status() Status {
	_, hasModel := m.Classifier()
	_, hasScaler := m.Scaler()
	st := Status{
		ModelLoaded:   hasModel,
		ScalerLoaded:  hasScaler,
		FeaturesCount: m.Schema().Len(),
		ModelType:     "None",
	}
	if hasModel {
		st.ModelType = m.info.Type
		st.ModelName = m.info.Name
		st.ModelAccuracy = m.info.Accuracy
	}
	return st
}
