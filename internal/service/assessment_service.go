package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"mindscreen/internal/cache"
	"mindscreen/internal/engine"
	"mindscreen/internal/model"
	"mindscreen/internal/repository"
)

const (
	anonymousUser = "anonymous"
	historyLimit  = 100

	// MsgCrisisAlert is the realtime message type sent when the override fires
	MsgCrisisAlert = "crisis_alert"
)

var (
	ErrNoResponses        = errors.New("responses are required")
	ErrStorageUnavailable = errors.New("database not connected")
)

// Assessor scores one questionnaire
type Assessor interface {
	Assess(raw model.RawResponses) (*model.AssessmentResult, error)
	Status() engine.Status
}

// AssessmentService runs submissions through the engine and records them
type AssessmentService struct {
	assessor    Assessor
	repo        repository.AssessmentRepo
	cache       cache.AssessmentCache
	broadcaster Broadcaster
	logger      *slog.Logger
	now         func() time.Time
}

// NewAssessmentService creates a new assessment service. repo and cache may
// be nil; submissions still succeed without storage.
func NewAssessmentService(assessor Assessor, repo repository.AssessmentRepo, c cache.AssessmentCache, logger *slog.Logger) *AssessmentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssessmentService{
		assessor: assessor,
		repo:     repo,
		cache:    c,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetBroadcaster sets the broadcaster for crisis alerts
func (s *AssessmentService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// StorageConnected reports whether submissions are being persisted.
func (s *AssessmentService) StorageConnected() bool { return s.repo != nil }

// CacheConnected reports whether counters and latest results are cached.
func (s *AssessmentService) CacheConnected() bool { return s.cache != nil }

// Predict scores responses without recording anything.
func (s *AssessmentService) Predict(responses model.RawResponses) (*model.AssessmentResult, error) {
	if len(responses) == 0 {
		return nil, ErrNoResponses
	}
	return s.assessor.Assess(responses)
}

// Submit scores a questionnaire and records it. Storage failures are logged
// and never fail the submission; the user always gets their result.
func (s *AssessmentService) Submit(ctx context.Context, req *model.SubmitRequest) (*model.SubmitResponse, error) {
	if req == nil || len(req.Responses) == 0 {
		return nil, ErrNoResponses
	}

	result, err := s.assessor.Assess(req.Responses)
	if err != nil {
		return nil, err
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = anonymousUser
	}

	record := &model.AssessmentRecord{
		ID:             uuid.New().String(),
		UserID:         userID,
		Responses:      req.Responses.Values(),
		Prediction:     result.Prediction,
		Probability:    result.Probability,
		Analysis:       result.Analysis,
		SafetyOverride: result.SafetyOverride,
		FallbackUsed:   result.FallbackUsed,
		CreatedAt:      s.now(),
	}

	s.persist(ctx, record)

	if result.SafetyOverride && s.broadcaster != nil {
		s.broadcaster.BroadcastToAdmins(MsgCrisisAlert, &model.CrisisAlert{
			AssessmentID: record.ID,
			UserID:       record.UserID,
			Reasons:      result.Analysis.OverrideReasons,
			Timestamp:    record.CreatedAt,
		})
	}

	s.logger.Info("assessment completed",
		"assessment_id", record.ID,
		"risk_level", result.Analysis.RiskLevel,
		"safety_override", result.SafetyOverride,
		"fallback_used", result.FallbackUsed)

	return &model.SubmitResponse{
		Success:          true,
		AssessmentID:     record.ID,
		Timestamp:        record.CreatedAt,
		AssessmentResult: *result,
	}, nil
}

func (s *AssessmentService) persist(ctx context.Context, record *model.AssessmentRecord) {
	if s.repo != nil {
		if err := s.repo.Create(ctx, record); err != nil {
			s.logger.Error("failed to store assessment", "assessment_id", record.ID, "error", err)
		}
	}
	if s.cache != nil {
		if err := s.cache.RecordTier(ctx, record.Analysis.RiskLevel, record.SafetyOverride); err != nil {
			s.logger.Warn("failed to update tier counters", "error", err)
		}
		if err := s.cache.SetLatest(ctx, record.UserID, record); err != nil {
			s.logger.Warn("failed to cache latest assessment", "user_id", record.UserID, "error", err)
		}
	}
}

// History returns a user's assessments, newest first.
func (s *AssessmentService) History(ctx context.Context, userID string) ([]*model.AssessmentRecord, error) {
	if s.repo == nil {
		return []*model.AssessmentRecord{}, ErrStorageUnavailable
	}
	records, err := s.repo.ListByUser(ctx, userID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return records, nil
}

// List returns the most recent assessments across all users.
func (s *AssessmentService) List(ctx context.Context, limit int64) ([]*model.AssessmentRecord, error) {
	if s.repo == nil {
		return []*model.AssessmentRecord{}, ErrStorageUnavailable
	}
	records, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return records, nil
}

// Get returns one assessment by id, or nil when it does not exist.
func (s *AssessmentService) Get(ctx context.Context, id string) (*model.AssessmentRecord, error) {
	if s.repo == nil {
		return nil, ErrStorageUnavailable
	}
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	return record, nil
}

// Latest returns the user's most recent assessment, from the cache when
// possible. A nil record means the user has none.
func (s *AssessmentService) Latest(ctx context.Context, userID string) (*model.AssessmentRecord, error) {
	if s.cache != nil {
		record, err := s.cache.GetLatest(ctx, userID)
		if err != nil {
			s.logger.Warn("latest cache lookup failed", "user_id", userID, "error", err)
		} else if record != nil {
			return record, nil
		}
	}

	if s.repo == nil {
		return nil, ErrStorageUnavailable
	}
	records, err := s.repo.ListByUser(ctx, userID, 1)
	if err != nil {
		return nil, fmt.Errorf("latest assessment: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// Stats returns the tier counters, from the cache when available and
// aggregated from storage otherwise. Empty cache counters are seeded from
// storage.
func (s *AssessmentService) Stats(ctx context.Context) (*model.TierStats, error) {
	cached := false
	if s.cache != nil {
		stats, err := s.cache.Stats(ctx)
		switch {
		case err != nil:
			s.logger.Warn("tier counter lookup failed", "error", err)
		case stats.Total > 0 || s.repo == nil:
			return stats, nil
		default:
			cached = true
		}
	}
	if s.repo == nil {
		return model.NewTierStats(), ErrStorageUnavailable
	}
	stats, err := s.repo.CountByTier(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by tier: %w", err)
	}

	// empty counters after a flush are rebuilt from storage
	if cached && stats.Total > 0 {
		if err := s.cache.Seed(ctx, stats); err != nil {
			s.logger.Warn("failed to seed tier counters", "error", err)
		}
	}
	return stats, nil
}

// Status reports which model artifacts are active.
func (s *AssessmentService) Status() engine.Status {
	return s.assessor.Status()
}
