package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"daily-steps-service/internal/model"
)

const dayMillis = int64(24 * time.Hour / time.Millisecond)

// GoogleFitOptions configures the Fitness REST client.
type GoogleFitOptions struct {
	BaseURL      string
	AccessToken  string
	DataSourceID string
	// Timeout applies when the request context carries no deadline.
	Timeout time.Duration
}

type googleFitRepository struct {
	client *fasthttp.Client
	opts   GoogleFitOptions
}

// NewGoogleFitRepository creates a StepRepository backed by the Fitness
// REST aggregate endpoint.
func NewGoogleFitRepository(client *fasthttp.Client, opts GoogleFitOptions) StepRepository {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &googleFitRepository{client: client, opts: opts}
}

type aggregateRequest struct {
	AggregateBy     []aggregateBy `json:"aggregateBy"`
	BucketByTime    bucketByTime  `json:"bucketByTime"`
	StartTimeMillis int64         `json:"startTimeMillis"`
	EndTimeMillis   int64         `json:"endTimeMillis"`
}

type aggregateBy struct {
	DataTypeName string `json:"dataTypeName"`
	DataSourceID string `json:"dataSourceId,omitempty"`
}

type bucketByTime struct {
	DurationMillis int64 `json:"durationMillis"`
}

type aggregateResponse struct {
	Bucket []fitBucket `json:"bucket"`
}

type fitBucket struct {
	StartTimeMillis string       `json:"startTimeMillis"`
	EndTimeMillis   string       `json:"endTimeMillis"`
	Dataset         []fitDataset `json:"dataset"`
}

type fitDataset struct {
	DataSourceID string     `json:"dataSourceId"`
	Point        []fitPoint `json:"point"`
}

type fitPoint struct {
	StartTimeNanos string     `json:"startTimeNanos"`
	EndTimeNanos   string     `json:"endTimeNanos"`
	DataTypeName   string     `json:"dataTypeName"`
	Value          []fitValue `json:"value"`
}

type fitValue struct {
	IntVal    *int64   `json:"intVal,omitempty"`
	FpVal     *float64 `json:"fpVal,omitempty"`
	StringVal *string  `json:"stringVal,omitempty"`
}

func (r *googleFitRepository) ReadHistory(ctx context.Context, window model.Window) ([]model.Bucket, error) {
	resp, err := r.aggregate(ctx, window.Start, window.End, dayMillis)
	if err != nil {
		return nil, err
	}

	buckets := make([]model.Bucket, 0, len(resp.Bucket))
	for _, b := range resp.Bucket {
		buckets = append(buckets, model.Bucket{
			Start:    parseMillis(b.StartTimeMillis),
			End:      parseMillis(b.EndTimeMillis),
			DataSets: convertDatasets(b.Dataset),
		})
	}
	return buckets, nil
}

// ReadDailyTotal aggregates [midnight, asOf) into a single bucket and
// flattens its points into one data set.
func (r *googleFitRepository) ReadDailyTotal(ctx context.Context, asOf time.Time) (model.DataSet, error) {
	start := model.StartOfDay(asOf)

	duration := asOf.Sub(start).Milliseconds()
	if duration <= 0 {
		duration = 1
	}

	resp, err := r.aggregate(ctx, start, asOf, duration)
	if err != nil {
		return model.DataSet{}, err
	}

	total := model.DataSet{DataType: StepDataType}
	for _, b := range resp.Bucket {
		for _, ds := range convertDatasets(b.Dataset) {
			total.Points = append(total.Points, ds.Points...)
		}
	}
	return total, nil
}

func (r *googleFitRepository) aggregate(ctx context.Context, start, end time.Time, bucketMillis int64) (*aggregateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(aggregateRequest{
		AggregateBy:     []aggregateBy{{DataTypeName: StepDataType, DataSourceID: r.opts.DataSourceID}},
		BucketByTime:    bucketByTime{DurationMillis: bucketMillis},
		StartTimeMillis: start.UnixMilli(),
		EndTimeMillis:   end.UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal aggregate request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	res := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(res)

	req.SetRequestURI(r.opts.BaseURL + "/users/me/dataset:aggregate")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+r.opts.AccessToken)
	req.SetBody(body)

	if deadline, ok := ctx.Deadline(); ok {
		err = r.client.DoDeadline(req, res, deadline)
	} else {
		err = r.client.DoTimeout(req, res, r.opts.Timeout)
	}
	if err != nil {
		return nil, fmt.Errorf("aggregate request: %w", err)
	}

	if code := res.StatusCode(); code < 200 || code >= 300 {
		return nil, fmt.Errorf("aggregate request: unexpected status %d", code)
	}

	var out aggregateResponse
	if err := json.Unmarshal(res.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode aggregate response: %w", err)
	}
	return &out, nil
}

func convertDatasets(in []fitDataset) []model.DataSet {
	out := make([]model.DataSet, 0, len(in))
	for _, ds := range in {
		set := model.DataSet{DataType: StepDataType}
		for _, p := range ds.Point {
			if p.DataTypeName != "" {
				set.DataType = p.DataTypeName
			}
			point := model.DataPoint{
				Start: parseNanos(p.StartTimeNanos),
				End:   parseNanos(p.EndTimeNanos),
			}
			for i, v := range p.Value {
				point.Fields = append(point.Fields, model.FieldValue{
					Name:  fieldName(p.DataTypeName, i),
					Value: v.String(),
				})
			}
			set.Points = append(set.Points, point)
		}
		out = append(out, set)
	}
	return out
}

func (v fitValue) String() string {
	switch {
	case v.IntVal != nil:
		return strconv.FormatInt(*v.IntVal, 10)
	case v.FpVal != nil:
		return strconv.FormatFloat(*v.FpVal, 'f', -1, 64)
	case v.StringVal != nil:
		return *v.StringVal
	default:
		return ""
	}
}

func fieldName(dataType string, i int) string {
	if dataType == StepDataType && i == 0 {
		return "steps"
	}
	return "field" + strconv.Itoa(i)
}

// parseMillis returns the zero time for malformed input.
func parseMillis(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func parseNanos(s string) time.Time {
	ns, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ns <= 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}
