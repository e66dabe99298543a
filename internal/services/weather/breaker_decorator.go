package weather

import (
	"context"
	"errors"
	"time"

	"github.com/shakeeb2001/Weather-App/internal/models"
	"github.com/sony/gobreaker"
)

const (
	timeInterval = time.Duration(30) * time.Second
	timeTimeOut  = time.Duration(15) * time.Second

	repeatNumber = 5
)

type fetcher interface {
	Fetch(ctx context.Context, location string) (models.Snapshot, error)
}

// BreakerClient fails fast once the provider has failed several times in a
// row. An open breaker is just another fetch error to the pipeline; nothing
// is retried.
type BreakerClient struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped fetcher
}

func NewBreakerClient(name string, wrapped fetcher) *BreakerClient {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    timeInterval,
		Timeout:     timeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= repeatNumber
		},
	}
	return &BreakerClient{
		name:    name,
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *BreakerClient) Fetch(ctx context.Context, location string) (models.Snapshot, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.Fetch(ctx, location)
	})
	if err != nil {
		return models.Snapshot{},
			errors.New(b.name + " unavailable: " + err.Error())
	}
	res, ok := result.(models.Snapshot)
	if !ok {
		return models.Snapshot{},
			errors.New(b.name + " unavailable: ")
	}
	return res, nil
}
