package model

import "time"

// FieldValue is one named scalar carried by a data point, kept in the
// textual form the source reported it in.
type FieldValue struct {
	Name  string
	Value string
}

// DataPoint is a single reading reported by a fitness source.
type DataPoint struct {
	Start  time.Time
	End    time.Time
	Fields []FieldValue
}

// DataSet groups the points of one data type.
type DataSet struct {
	DataType string
	Points   []DataPoint
}

// Bucket is one time slice [Start, End) of a history response.
type Bucket struct {
	Start    time.Time
	End      time.Time
	DataSets []DataSet
}
