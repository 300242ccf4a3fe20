package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"mindscreen/internal/engine"
	"mindscreen/internal/model"
)

var errStore = errors.New("store down")

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeRepo struct {
	mu      sync.Mutex
	records []*model.AssessmentRecord
	err     error
	stats   *model.TierStats
}

func (r *fakeRepo) Create(_ context.Context, record *model.AssessmentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, record)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*model.AssessmentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, r.err
}

// newest first, like the Mongo sort on createdAt
func (r *fakeRepo) filter(match func(*model.AssessmentRecord) bool, limit int64) ([]*model.AssessmentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := []*model.AssessmentRecord{}
	for i := len(r.records) - 1; i >= 0; i-- {
		if match(r.records[i]) {
			out = append(out, r.records[i])
		}
		if limit > 0 && int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByUser(_ context.Context, userID string, limit int64) ([]*model.AssessmentRecord, error) {
	return r.filter(func(rec *model.AssessmentRecord) bool { return rec.UserID == userID }, limit)
}

func (r *fakeRepo) List(_ context.Context, limit int64) ([]*model.AssessmentRecord, error) {
	return r.filter(func(*model.AssessmentRecord) bool { return true }, limit)
}

func (r *fakeRepo) CountByTier(context.Context) (*model.TierStats, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.stats, nil
}

type fakeCache struct {
	tiers     map[model.RiskTier]int64
	overrides int64
	latest    map[string]*model.AssessmentRecord
	seeded    *model.TierStats
	err       error
}

func newFakeCache() *fakeCache {
	return &fakeCache{tiers: map[model.RiskTier]int64{}, latest: map[string]*model.AssessmentRecord{}}
}

func (c *fakeCache) RecordTier(_ context.Context, tier model.RiskTier, override bool) error {
	if c.err != nil {
		return c.err
	}
	c.tiers[tier]++
	if override {
		c.overrides++
	}
	return nil
}

func (c *fakeCache) Stats(context.Context) (*model.TierStats, error) {
	if c.err != nil {
		return nil, c.err
	}
	s := model.NewTierStats()
	for t, n := range c.tiers {
		s.ByTier[t] = n
		s.Total += n
	}
	s.Overrides = c.overrides
	return s, nil
}

func (c *fakeCache) Seed(_ context.Context, stats *model.TierStats) error {
	if c.err != nil {
		return c.err
	}
	c.seeded = stats
	for t, n := range stats.ByTier {
		c.tiers[t] = n
	}
	c.overrides = stats.Overrides
	return nil
}

func (c *fakeCache) SetLatest(_ context.Context, userID string, record *model.AssessmentRecord) error {
	if c.err != nil {
		return c.err
	}
	c.latest[userID] = record
	return nil
}

func (c *fakeCache) GetLatest(_ context.Context, userID string) (*model.AssessmentRecord, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.latest[userID], nil
}

type sentMessage struct {
	msgType string
	payload interface{}
}

type fakeBroadcaster struct {
	sent []sentMessage
}

func (b *fakeBroadcaster) BroadcastToAdmins(msgType string, payload interface{}) {
	b.sent = append(b.sent, sentMessage{msgType, payload})
}

func degradedEngine() *engine.Engine {
	return engine.New(nil, quietLogger())
}

func calmResponses() model.RawResponses {
	return model.RawResponses{
		model.String("u1"), model.String("Male"), model.Number(22), model.String("Pune"),
		model.String("Student"), model.Number(1), model.Number(0), model.Number(8),
		model.Number(4), model.Number(0), model.Number(8), model.String("Healthy"),
		model.String("BTech"), model.String("No"), model.Number(4), model.String("No"),
		model.String("No"),
	}
}

func crisisResponses() model.RawResponses {
	raw := calmResponses()
	raw[model.PosSuicidalThoughts] = model.String("Yes")
	return raw
}
