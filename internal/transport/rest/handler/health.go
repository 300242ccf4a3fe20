package handler

import (
	"net/http"

	"mindscreen/internal/service"
)

// HealthHandler reports service and model status
type HealthHandler struct {
	svc *service.AssessmentService
}

func NewHealthHandler(svc *service.AssessmentService) *HealthHandler {
	return &HealthHandler{svc: svc}
}

type healthResponse struct {
	Status          string   `json:"status"`
	ModelLoaded     bool     `json:"model_loaded"`
	ScalerLoaded    bool     `json:"scaler_loaded"`
	FeaturesCount   int      `json:"features_count"`
	ModelType       string   `json:"model_type"`
	ModelName       string   `json:"model_name,omitempty"`
	ModelAccuracy   *float64 `json:"model_accuracy,omitempty"`
	SafetyOverrides string   `json:"safety_overrides"`
	Database        string   `json:"database"`
	Cache           string   `json:"cache"`
	Message         string   `json:"message,omitempty"`
}

func connection(ok bool) string {
	if ok {
		return "connected"
	}
	return "disconnected"
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Status()
	resp := healthResponse{
		Status:          "healthy",
		ModelLoaded:     st.ModelLoaded,
		ScalerLoaded:    st.ScalerLoaded,
		FeaturesCount:   st.FeaturesCount,
		ModelType:       st.ModelType,
		ModelName:       st.ModelName,
		ModelAccuracy:   st.ModelAccuracy,
		SafetyOverrides: "enabled",
		Database:        connection(h.svc.StorageConnected()),
		Cache:           connection(h.svc.CacheConnected()),
	}
	if !st.ModelLoaded {
		resp.Status = "degraded"
		resp.Message = "Model not loaded - using fallback predictions"
	}

	writeJSON(w, http.StatusOK, resp)
}

// Root handles GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	modelStatus := "fallback"
	if h.svc.Status().ModelLoaded {
		modelStatus = "loaded"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":         "Student Mental Health Assessment API",
		"status":          "running",
		"model_status":    modelStatus,
		"safety_features": "Critical risk override enabled",
	})
}
