package rating

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"homecrew/internal/domain"
)

// Store folds one rating into a worker's statistics in a single atomic write.
type Store interface {
	ApplyRating(ctx context.Context, workerID string, rating int) (*domain.Worker, error)
}

const (
	MinRating = 1
	MaxRating = 5
)

// Aggregator keeps each worker's mean rating. It does not know which booking
// a rating came from; the booking ledger guarantees one rating per booking.
type Aggregator struct {
	store  Store
	logger *zap.Logger
}

func NewAggregator(store Store, logger *zap.Logger) *Aggregator {
	return &Aggregator{store: store, logger: logger}
}

// ApplyRating adds rating to the worker's running mean and increments the
// rating count by one. The stored mean is rounded half up to one decimal.
func (a *Aggregator) ApplyRating(ctx context.Context, workerID string, rating int) (*domain.Worker, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, fmt.Errorf("%w: rating %d out of range %d-%d", domain.ErrValidation, rating, MinRating, MaxRating)
	}

	w, err := a.store.ApplyRating(ctx, workerID, rating)
	if err != nil {
		return nil, err
	}

	a.logger.Info("worker rating updated",
		zap.String("worker_id", workerID),
		zap.Int("rating", rating),
		zap.String("mean", w.RatingString()),
		zap.Int64("total_ratings", w.TotalRatings),
	)
	return w, nil
}
