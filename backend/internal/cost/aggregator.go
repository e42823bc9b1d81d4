package cost

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"samvad-relay/backend/pkg/logger"
)

// Source fetches the cost of one billed service over a date range
type Source interface {
	Cost(ctx context.Context, service, start, end string) (float64, error)
}

// ServiceCost is one line of the cost report
type ServiceCost struct {
	Cost     float64 `json:"cost"`
	Currency string  `json:"currency"`
}

// Period is the reported date range
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Report is the aggregated cost breakdown
type Report struct {
	Period    Period                 `json:"period"`
	Services  map[string]ServiceCost `json:"services"`
	TotalCost float64                `json:"total_cost"`
	Currency  string                 `json:"currency"`
}

type entry struct {
	key     string
	service string
	source  Source
}

// Aggregator fans out to the cloud billing sources and sums a fixed service
// set. Every lookup fails open to 0.0 so a broken billing export never breaks
// the report.
type Aggregator struct {
	entries []entry
	logger  *zap.Logger
}

// NewAggregator creates an aggregator over the AWS and GCP billing sources
func NewAggregator(aws, gcp Source) *Aggregator {
	return &Aggregator{
		entries: []entry{
			{key: "aws_bedrock", service: "Amazon Bedrock", source: aws},
			{key: "aws_marketplace", service: "AWS Marketplace", source: aws},
			{key: "gcp_firestore", service: "Cloud Firestore", source: gcp},
			{key: "gcp_cloud_functions", service: "Cloud Functions", source: gcp},
			{key: "gcp_translation_api", service: "Cloud Translation API", source: gcp},
		},
		logger: logger.Get(),
	}
}

// GetAllCosts fetches every configured service cost concurrently. Dates are
// YYYY-MM-DD; the range defaults to the current month.
func (a *Aggregator) GetAllCosts(ctx context.Context, start, end string) *Report {
	now := time.Now()
	if start == "" {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	}
	if end == "" {
		end = now.Format("2006-01-02")
	}

	a.logger.Info("Fetching costs",
		zap.String("start", start),
		zap.String("end", end),
	)

	costs := make([]float64, len(a.entries))
	g, gctx := errgroup.WithContext(ctx)
	for i, e := range a.entries {
		i, e := i, e
		g.Go(func() error {
			if e.source == nil {
				a.logger.Warn("No billing source configured", zap.String("service", e.key))
				return nil
			}
			value, err := e.source.Cost(gctx, e.service, start, end)
			if err != nil {
				a.logger.Error("Failed to fetch service cost",
					zap.String("service", e.key),
					zap.Error(err),
				)
				return nil // fail open to 0.0
			}
			costs[i] = value
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	report := &Report{
		Period:   Period{Start: start, End: end},
		Services: make(map[string]ServiceCost, len(a.entries)),
		Currency: "USD",
	}

	var total float64
	for i, e := range a.entries {
		report.Services[e.key] = ServiceCost{Cost: round2(costs[i]), Currency: "USD"}
		total += costs[i]
	}
	report.TotalCost = round2(total)

	return report
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
