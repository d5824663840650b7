package store

import (
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"daily-steps-service/internal/model"
)

// DailyStepStore maps each calendar day to one step count.
// Iteration order is derived from the keys and the descending flag on every
// read; nothing about insertion order is kept.
type DailyStepStore struct {
	mu         sync.RWMutex
	counts     map[model.DayKey]uint64
	descending bool
}

// NewDailyStepStore creates an empty store with the given initial order.
func NewDailyStepStore(descending bool) *DailyStepStore {
	return &DailyStepStore{
		counts:     make(map[model.DayKey]uint64),
		descending: descending,
	}
}

// Put stores value for key, replacing any previous value.
// Invalid keys are ignored. Empty, unparsable or negative values store zero.
func (s *DailyStepStore) Put(key model.DayKey, value string) {
	if !key.Valid() {
		return
	}
	count := ParseMetricValue(value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key] = count
}

// Clear removes every entry. The order flag is kept.
func (s *DailyStepStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.counts)
}

// Len returns the number of stored days.
func (s *DailyStepStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.counts)
}

// Get returns the count stored for key.
func (s *DailyStepStore) Get(key model.DayKey) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.counts[key]
	return v, ok
}

// Entries returns all rows ordered by day in the current direction.
func (s *DailyStepStore) Entries() []model.DailyStepCount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]model.DailyStepCount, 0, len(s.counts))
	for day, steps := range s.counts {
		rows = append(rows, model.DailyStepCount{Day: day, Steps: steps})
	}

	desc := s.descending
	slices.SortFunc(rows, func(a, b model.DailyStepCount) int {
		if desc {
			return strings.Compare(string(b.Day), string(a.Day))
		}
		return strings.Compare(string(a.Day), string(b.Day))
	})
	return rows
}

// SetOrder selects the direction used by later Entries calls.
func (s *DailyStepStore) SetOrder(descending bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.descending = descending
}

// IsDescending reports the current direction.
func (s *DailyStepStore) IsDescending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.descending
}

var maxCount = decimal.NewFromUint64(math.MaxUint64)

// ParseMetricValue converts a reported reading to a count.
// Fractional readings are truncated, readings past the uint64 range are
// capped at math.MaxUint64, and anything unusable becomes zero.
func ParseMetricValue(raw string) uint64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return 0
	}
	d = d.Truncate(0)
	if d.GreaterThan(maxCount) {
		return math.MaxUint64
	}
	return d.BigInt().Uint64()
}

// AddCounts adds b to a, saturating at math.MaxUint64.
func AddCounts(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
