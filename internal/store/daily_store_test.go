package store

import (
	"math"
	"testing"

	"daily-steps-service/internal/model"

	"github.com/stretchr/testify/suite"
)

type DailyStepStoreTestSuite struct {
	suite.Suite
	store *DailyStepStore
}

func TestDailyStepStoreSuite(t *testing.T) {
	suite.Run(t, new(DailyStepStoreTestSuite))
}

func (s *DailyStepStoreTestSuite) SetupTest() {
	s.store = NewDailyStepStore(false)
}

func (s *DailyStepStoreTestSuite) populate() {
	// Deliberately out of order.
	s.store.Put("2024-03-14", "150")
	s.store.Put("2024-03-12", "100")
	s.store.Put("2024-03-13", "200")
}

func days(rows []model.DailyStepCount) []model.DayKey {
	out := make([]model.DayKey, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Day)
	}
	return out
}

func (s *DailyStepStoreTestSuite) TestEntries_AscendingByDay() {
	s.populate()

	rows := s.store.Entries()

	s.Equal([]model.DailyStepCount{
		{Day: "2024-03-12", Steps: 100},
		{Day: "2024-03-13", Steps: 200},
		{Day: "2024-03-14", Steps: 150},
	}, rows)
}

func (s *DailyStepStoreTestSuite) TestEntries_Descending() {
	s.populate()

	s.store.SetOrder(true)

	s.True(s.store.IsDescending())
	s.Equal([]model.DayKey{"2024-03-14", "2024-03-13", "2024-03-12"}, days(s.store.Entries()))
}

func (s *DailyStepStoreTestSuite) TestEntries_Restartable() {
	s.populate()

	first := s.store.Entries()
	second := s.store.Entries()

	s.Equal(first, second)
}

func (s *DailyStepStoreTestSuite) TestSetOrder_RoundTripIsLossless() {
	s.populate()
	before := s.store.Entries()

	s.store.SetOrder(true)
	s.store.SetOrder(false)

	s.Equal(before, s.store.Entries())
}

func (s *DailyStepStoreTestSuite) TestSetOrder_Idempotent() {
	s.populate()

	s.store.SetOrder(true)
	once := s.store.Entries()
	s.store.SetOrder(true)

	s.Equal(once, s.store.Entries())
}

func (s *DailyStepStoreTestSuite) TestPut_OverwritesSameDay() {
	s.store.Put("2024-03-15", "500")
	s.store.Put("2024-03-15", "520")

	v, ok := s.store.Get("2024-03-15")
	s.True(ok)
	s.Equal(uint64(520), v)
	s.Equal(1, s.store.Len())
}

func (s *DailyStepStoreTestSuite) TestPut_NoDuplicateKeys() {
	for i := 0; i < 5; i++ {
		s.store.Put("2024-03-15", "1")
		s.store.Put("2024-03-14", "2")
	}

	rows := s.store.Entries()

	s.Len(rows, 2)
	seen := map[model.DayKey]bool{}
	for _, r := range rows {
		s.False(seen[r.Day], "duplicate day %s", r.Day)
		seen[r.Day] = true
	}
}

func (s *DailyStepStoreTestSuite) TestPut_InvalidKeyIgnored() {
	s.populate()
	before := s.store.Entries()

	s.store.Put("", "999")
	s.store.Put("not-a-day", "999")
	s.store.Put("2024-02-30", "999")

	s.Equal(before, s.store.Entries())
}

func (s *DailyStepStoreTestSuite) TestPut_EmptyValueStoresZero() {
	s.store.Put("2024-03-15", "")

	v, ok := s.store.Get("2024-03-15")
	s.True(ok)
	s.Equal(uint64(0), v)
}

func (s *DailyStepStoreTestSuite) TestClear_KeepsOrder() {
	s.populate()
	s.store.SetOrder(true)

	s.store.Clear()

	s.Empty(s.store.Entries())
	s.True(s.store.IsDescending())
}

func (s *DailyStepStoreTestSuite) TestParseMetricValue() {
	tests := []struct {
		raw  string
		want uint64
	}{
		{"", 0},
		{"   ", 0},
		{"5234", 5234},
		{" 42 ", 42},
		{"5234.9", 5234},
		{"1.2e3", 1200},
		{"-15", 0},
		{"abc", 0},
		{"9223372036854775808", 9223372036854775808},
		{"18446744073709551615", math.MaxUint64},
		{"18446744073709551617", math.MaxUint64},
		{"1e30", math.MaxUint64},
	}

	for _, tt := range tests {
		s.Run(tt.raw, func() {
			s.Equal(tt.want, ParseMetricValue(tt.raw))
		})
	}
}

func (s *DailyStepStoreTestSuite) TestAddCounts_Saturates() {
	s.Equal(uint64(5), AddCounts(2, 3))
	s.Equal(uint64(math.MaxUint64), AddCounts(math.MaxUint64-1, 1))
	s.Equal(uint64(math.MaxUint64), AddCounts(math.MaxUint64, math.MaxUint64))
}
