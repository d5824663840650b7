package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"daily-steps-service/internal/model"
	"daily-steps-service/internal/repository"
	"daily-steps-service/internal/store"
)

// State is a stage of one refresh session.
type State int

const (
	StateIdle State = iota
	StateWindowPlanned
	StateHistoryFetched
	StateHistoryMerged
	StateTotalFetched
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWindowPlanned:
		return "window_planned"
	case StateHistoryFetched:
		return "history_fetched"
	case StateHistoryMerged:
		return "history_merged"
	case StateTotalFetched:
		return "total_fetched"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Status describes the most recently started refresh.
type Status struct {
	State       State
	SessionID   string
	Err         error
	Descending  bool
	RefreshedAt time.Time
}

// Snapshot pairs a status with the entries it describes.
type Snapshot struct {
	Status  Status
	Entries []model.DailyStepCount
}

// RefreshListener is told when a refresh finishes.
type RefreshListener interface {
	RefreshReady(status Status)
	RefreshFailed(status Status)
}

type AggregationPipeline interface {
	// Refresh runs a full fetch-and-merge session. Only the most recently
	// started session may change the store; older ones return ErrStaleRefresh.
	Refresh(ctx context.Context) error

	// ToggleOrder flips the sort direction without fetching. Only accepted
	// while Ready.
	ToggleOrder() (bool, error)

	Entries() []model.DailyStepCount
	Status() Status

	// Snapshot reads the status and the entries under one lock, so the
	// reported order always matches the order of the rows.
	Snapshot() Snapshot
}

// PipelineOptions tunes an aggregation pipeline.
type PipelineOptions struct {
	// FetchTimeout bounds each call to the step repository.
	FetchTimeout time.Duration
	Policy       ReductionPolicy
}

type pipeline struct {
	repo     repository.StepRepository
	store    *store.DailyStepStore
	listener RefreshListener
	log      logrus.FieldLogger
	now      func() time.Time
	opts     PipelineOptions

	mu          sync.Mutex
	generation  uint64
	state       State
	sessionID   string
	lastErr     error
	refreshedAt time.Time
}

// NewAggregationPipeline wires a pipeline that owns st for its lifetime.
func NewAggregationPipeline(repo repository.StepRepository, st *store.DailyStepStore, listener RefreshListener, log logrus.FieldLogger, opts PipelineOptions) AggregationPipeline {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 30 * time.Second
	}
	if opts.Policy == "" {
		opts.Policy = LastFieldWins
	}
	if listener == nil {
		listener = LogListener{Log: log}
	}
	return &pipeline{
		repo:     repo,
		store:    st,
		listener: listener,
		log:      log,
		now:      time.Now,
		opts:     opts,
		state:    StateIdle,
	}
}

func (p *pipeline) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.sessionID = uuid.NewString()
	p.lastErr = nil
	descending := p.store.IsDescending()
	now := p.now()
	window := model.PlanWindow(now)
	p.state = StateWindowPlanned
	log := p.log.WithField("session_id", p.sessionID)
	p.mu.Unlock()

	log.WithFields(logrus.Fields{
		"start": window.Start.Format(time.RFC3339),
		"end":   window.End.Format(time.RFC3339),
	}).Debug("window planned")

	buckets, err := p.readHistory(ctx, window)

	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		log.Debug("discarding stale history result")
		return ErrStaleRefresh
	}
	if err != nil {
		p.store.Clear()
		return p.failLocked(log, fmt.Errorf("%w: %w", ErrHistoryFetch, err))
	}
	p.state = StateHistoryFetched

	p.store.Clear()
	dropped := 0
	for _, b := range buckets {
		if b.Start.IsZero() {
			dropped++
			continue
		}
		p.store.Put(model.Normalize(b.Start), p.opts.Policy.Reduce(b.DataSets))
	}
	p.state = StateHistoryMerged
	p.mu.Unlock()

	log.WithFields(logrus.Fields{
		"buckets": len(buckets),
		"dropped": dropped,
	}).Debug("history merged")

	total, err := p.readDailyTotal(ctx, now)

	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		log.Debug("discarding stale total result")
		return ErrStaleRefresh
	}
	if err != nil {
		return p.failLocked(log, fmt.Errorf("%w: %w", ErrTotalFetch, err))
	}
	p.state = StateTotalFetched

	p.store.Put(model.Normalize(now), p.opts.Policy.Reduce([]model.DataSet{total}))
	p.store.SetOrder(descending)
	p.state = StateReady
	p.refreshedAt = p.now()
	status := p.statusLocked()
	p.mu.Unlock()

	log.WithField("days", p.store.Len()).Info("refresh ready")
	p.listener.RefreshReady(status)
	return nil
}

// failLocked records err, releases the lock and signals the listener.
func (p *pipeline) failLocked(log logrus.FieldLogger, err error) error {
	p.state = StateFailed
	p.lastErr = err
	p.refreshedAt = p.now()
	status := p.statusLocked()
	p.mu.Unlock()

	log.WithError(err).Warn("refresh failed")
	p.listener.RefreshFailed(status)
	return err
}

func (p *pipeline) readHistory(ctx context.Context, window model.Window) ([]model.Bucket, error) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.FetchTimeout)
	defer cancel()
	return p.repo.ReadHistory(ctx, window)
}

func (p *pipeline) readDailyTotal(ctx context.Context, asOf time.Time) (model.DataSet, error) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.FetchTimeout)
	defer cancel()
	return p.repo.ReadDailyTotal(ctx, asOf)
}

func (p *pipeline) ToggleOrder() (bool, error) {
	p.mu.Lock()
	if p.state != StateReady {
		state := p.state
		p.mu.Unlock()
		return false, fmt.Errorf("%w: state is %s", ErrNotReady, state)
	}
	descending := !p.store.IsDescending()
	p.store.SetOrder(descending)
	status := p.statusLocked()
	p.mu.Unlock()

	p.listener.RefreshReady(status)
	return descending, nil
}

func (p *pipeline) Entries() []model.DailyStepCount {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Entries()
}

func (p *pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.statusLocked()
}

func (p *pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{Status: p.statusLocked(), Entries: p.store.Entries()}
}

func (p *pipeline) statusLocked() Status {
	return Status{
		State:       p.state,
		SessionID:   p.sessionID,
		Err:         p.lastErr,
		Descending:  p.store.IsDescending(),
		RefreshedAt: p.refreshedAt,
	}
}

// LogListener reports refresh outcomes to a logger.
type LogListener struct {
	Log logrus.FieldLogger
}

func (l LogListener) RefreshReady(status Status) {
	l.Log.WithFields(logrus.Fields{
		"session_id": status.SessionID,
		"order":      model.OrderName(status.Descending),
	}).Debug("step table refreshed")
}

func (l LogListener) RefreshFailed(status Status) {
	l.Log.WithFields(logrus.Fields{
		"session_id": status.SessionID,
		"state":      status.State.String(),
	}).WithError(status.Err).Error("step table refresh failed")
}
