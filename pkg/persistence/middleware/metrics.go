package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/heddle/pkg/domain"
	"github.com/aretw0/heddle/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics counts and times document store calls.
type StoreMetrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewStoreMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "heddle_store_operations_total",
				Help: "Total number of workspace store operations",
			},
			[]string{"op", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "heddle_store_duration_seconds",
				Help:    "Duration of workspace store operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Operations, m.Duration)
	}
	return m
}

// Instrument records every call in m. A missing workspace counts as outcome
// "not_found" rather than "error".
func Instrument(m *StoreMetrics) Middleware {
	return func(next ports.DocumentStore) ports.DocumentStore {
		return &instrumented{next: next, m: m}
	}
}

type instrumented struct {
	next ports.DocumentStore
	m    *StoreMetrics
}

func (s *instrumented) observe(op string, start time.Time, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, domain.ErrWorkspaceNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	s.m.Operations.WithLabelValues(op, outcome).Inc()
	s.m.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (s *instrumented) Save(ctx context.Context, id string, doc *domain.Document) (err error) {
	defer func(start time.Time) { s.observe("save", start, err) }(time.Now())
	return s.next.Save(ctx, id, doc)
}

func (s *instrumented) Load(ctx context.Context, id string) (doc *domain.Document, err error) {
	defer func(start time.Time) { s.observe("load", start, err) }(time.Now())
	return s.next.Load(ctx, id)
}

func (s *instrumented) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { s.observe("delete", start, err) }(time.Now())
	return s.next.Delete(ctx, id)
}

func (s *instrumented) List(ctx context.Context) (ids []string, err error) {
	defer func(start time.Time) { s.observe("list", start, err) }(time.Now())
	return s.next.List(ctx)
}
