package repository

import (
	"context"
	"errors"
	"time"

	"github.com/okian/touchline/pkg/metrics"
)

// instrumented records latency and failures of every call to the wrapped
// store. A missing key on Load is not a failure.
type instrumented struct {
	next Store
}

// Instrument wraps s with Prometheus persistence metrics.
func Instrument(s Store) Store {
	return &instrumented{next: s}
}

func (s *instrumented) Save(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.next.Save(ctx, key, value)
	metrics.RecordPersistence("save", time.Since(start), err)
	return err
}

func (s *instrumented) SaveAll(ctx context.Context, values map[string][]byte) error {
	start := time.Now()
	err := s.next.SaveAll(ctx, values)
	metrics.RecordPersistence("save_all", time.Since(start), err)
	return err
}

func (s *instrumented) Load(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	v, err := s.next.Load(ctx, key)
	observed := err
	if errors.Is(err, ErrNotFound) {
		observed = nil
	}
	metrics.RecordPersistence("load", time.Since(start), observed)
	return v, err
}

func (s *instrumented) Clear(ctx context.Context) error {
	start := time.Now()
	err := s.next.Clear(ctx)
	metrics.RecordPersistence("clear", time.Since(start), err)
	return err
}

func (s *instrumented) Close() error {
	return s.next.Close()
}
