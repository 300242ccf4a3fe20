package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"mindscreen/internal/engine"
	"mindscreen/internal/model"
	"mindscreen/internal/service"
	"mindscreen/internal/transport/rest/middleware"
)

const maxListLimit = 500

// AssessmentHandler handles questionnaire endpoints
type AssessmentHandler struct {
	svc    *service.AssessmentService
	logger *slog.Logger
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(svc *service.AssessmentService, logger *slog.Logger) *AssessmentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssessmentHandler{svc: svc, logger: logger}
}

type listResponse struct {
	Success bool                      `json:"success"`
	Data    []*model.AssessmentRecord `json:"data"`
	Count   int                       `json:"count"`
	Message string                    `json:"message,omitempty"`
}

type dataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

// PredictRequest is the request body for a stateless prediction
type PredictRequest struct {
	Responses model.RawResponses `json:"responses"`
}

// Submit handles POST /v1/assessments
func (h *AssessmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeErrorDetails(w, http.StatusBadRequest, "Invalid responses data", err.Error())
		return
	}

	resp, err := h.svc.Submit(r.Context(), &req)
	if err != nil {
		h.writeAssessError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Predict handles POST /v1/predict
func (h *AssessmentHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeErrorDetails(w, http.StatusBadRequest, "Invalid responses data", err.Error())
		return
	}

	res, err := h.svc.Predict(req.Responses)
	if err != nil {
		h.writeAssessError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *AssessmentHandler) writeAssessError(w http.ResponseWriter, err error) {
	var perr *engine.PreprocessingError
	switch {
	case errors.Is(err, service.ErrNoResponses):
		writeErrorDetails(w, http.StatusBadRequest, "Invalid responses data", err.Error())
	case errors.As(err, &perr):
		writeErrorDetails(w, http.StatusBadRequest, "Error processing responses", perr.Error())
	default:
		h.logger.Error("assessment failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// History handles GET /v1/history/{userId}
func (h *AssessmentHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	records, err := h.svc.History(r.Context(), userID)
	h.writeList(w, records, err)
}

// Latest handles GET /v1/history/{userId}/latest
func (h *AssessmentHandler) Latest(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	record, err := h.svc.Latest(r.Context(), userID)
	if errors.Is(err, service.ErrStorageUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "Database not connected")
		return
	}
	if err != nil {
		h.logger.Error("latest lookup failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "no assessments for user")
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: record})
}

// List handles GET /v1/assessments (admin)
func (h *AssessmentHandler) List(w http.ResponseWriter, r *http.Request) {
	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			writeErrorDetails(w, http.StatusBadRequest, "invalid limit", raw)
			return
		}
		limit = min(n, maxListLimit)
	}

	h.logger.Debug("admin listing assessments", "admin_id", middleware.GetAdminID(r.Context()), "limit", limit)
	records, err := h.svc.List(r.Context(), limit)
	h.writeList(w, records, err)
}

// Get handles GET /v1/assessments/{id} (admin)
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	h.logger.Debug("admin fetching assessment", "admin_id", middleware.GetAdminID(r.Context()), "assessment_id", id)

	record, err := h.svc.Get(r.Context(), id)
	if errors.Is(err, service.ErrStorageUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "Database not connected")
		return
	}
	if err != nil {
		h.logger.Error("assessment lookup failed", "assessment_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch assessment")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "assessment not found")
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: record})
}

// Stats handles GET /v1/stats (admin)
func (h *AssessmentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("admin reading stats", "admin_id", middleware.GetAdminID(r.Context()))
	stats, err := h.svc.Stats(r.Context())
	if errors.Is(err, service.ErrStorageUnavailable) {
		writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: stats, Message: "Database not connected"})
		return
	}
	if err != nil {
		h.logger.Error("stats lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: stats})
}

// writeList renders list results; missing storage is not an error for readers.
func (h *AssessmentHandler) writeList(w http.ResponseWriter, records []*model.AssessmentRecord, err error) {
	if errors.Is(err, service.ErrStorageUnavailable) {
		writeJSON(w, http.StatusOK, listResponse{
			Success: true,
			Data:    []*model.AssessmentRecord{},
			Message: "Database not connected",
		})
		return
	}
	if err != nil {
		h.logger.Error("list assessments failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Success: true, Data: records, Count: len(records)})
}
