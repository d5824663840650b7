package service

import (
	"fmt"
	"strconv"

	"daily-steps-service/internal/model"
	"daily-steps-service/internal/store"
)

// ReductionPolicy turns the readings of one bucket into a single value.
type ReductionPolicy string

const (
	// LastFieldWins keeps the last field value met while walking every data
	// set, point and field in order. A bucket carrying several distinct
	// fields therefore reports only the last one.
	LastFieldWins ReductionPolicy = "last_field"

	// SumPoints adds up the first field of every point, saturating at the
	// largest count.
	SumPoints ReductionPolicy = "sum_points"
)

// ParseReductionPolicy validates a configured policy name.
func ParseReductionPolicy(name string) (ReductionPolicy, error) {
	switch p := ReductionPolicy(name); p {
	case LastFieldWins, SumPoints:
		return p, nil
	case "":
		return LastFieldWins, nil
	default:
		return "", fmt.Errorf("unsupported reduction policy %q", name)
	}
}

// Reduce returns the textual value to store. No readings reduce to "0".
func (p ReductionPolicy) Reduce(sets []model.DataSet) string {
	if p == SumPoints {
		var sum uint64
		for _, set := range sets {
			for _, point := range set.Points {
				if len(point.Fields) > 0 {
					sum = store.AddCounts(sum, store.ParseMetricValue(point.Fields[0].Value))
				}
			}
		}
		return strconv.FormatUint(sum, 10)
	}

	value := "0"
	for _, set := range sets {
		for _, point := range set.Points {
			for _, field := range point.Fields {
				value = field.Value
			}
		}
	}
	return value
}
