package rating

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"homecrew/internal/database"
	"homecrew/internal/domain"
	"homecrew/internal/repository"
)

func setup(t *testing.T) (*Aggregator, *repository.WorkerRepository) {
	t.Helper()
	db, err := database.ConnectInMemory()
	require.NoError(t, err)
	workers := repository.NewWorkerRepository(db, time.Second)
	return NewAggregator(workers, zap.NewNop()), workers
}

func freshWorker(t *testing.T, workers *repository.WorkerRepository) *domain.Worker {
	t.Helper()
	w := &domain.Worker{Name: "W", Phone: "1", Skill: domain.SkillPlumber, City: "Mumbai", Available: true}
	require.NoError(t, workers.Create(context.Background(), w))
	return w
}

// roundHalfUp1 rounds to one decimal place with halves rounded up.
func roundHalfUp1(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

func TestApplyRating_MeanOfSequence(t *testing.T) {
	agg, workers := setup(t)
	ctx := context.Background()

	sequences := [][]int{
		{5},
		{4, 5},
		{1, 2},
		{5, 4, 4},
		{3, 3, 4, 4, 4, 5},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 2},
	}
	for _, seq := range sequences {
		w := freshWorker(t, workers)

		var got *domain.Worker
		var err error
		sum := 0
		for _, r := range seq {
			got, err = agg.ApplyRating(ctx, w.ID, r)
			require.NoError(t, err)
			sum += r
		}

		want := roundHalfUp1(float64(sum) / float64(len(seq)))
		assert.InDelta(t, want, got.Rating(), 1e-9, "%v", seq)
		assert.Equal(t, int64(len(seq)), got.TotalRatings)
	}
}

func TestApplyRating_RandomSequences(t *testing.T) {
	agg, workers := setup(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 5; i++ {
		w := freshWorker(t, workers)
		n := 1 + rng.Intn(40)
		sum := 0
		var got *domain.Worker
		var err error
		for j := 0; j < n; j++ {
			r := 1 + rng.Intn(5)
			sum += r
			got, err = agg.ApplyRating(ctx, w.ID, r)
			require.NoError(t, err)
		}
		assert.Equal(t, domain.MeanTenths(int64(sum), int64(n)), got.RatingTenths)
		assert.Equal(t, int64(n), got.TotalRatings)
	}
}

func TestApplyRating_OutOfRange(t *testing.T) {
	agg, workers := setup(t)
	w := freshWorker(t, workers)

	for _, r := range []int{0, 6, -1} {
		_, err := agg.ApplyRating(context.Background(), w.ID, r)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}

	got, err := workers.GetByID(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.TotalRatings)
}

func TestApplyRating_RemovedWorker(t *testing.T) {
	agg, workers := setup(t)
	w := freshWorker(t, workers)
	require.NoError(t, workers.Delete(context.Background(), w.ID))

	_, err := agg.ApplyRating(context.Background(), w.ID, 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyRating_ConcurrentUpdatesAllCounted(t *testing.T) {
	agg, workers := setup(t)
	w := freshWorker(t, workers)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := agg.ApplyRating(context.Background(), w.ID, 5)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := agg.ApplyRating(context.Background(), w.ID, 2)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := workers.GetByID(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), got.TotalRatings)
	assert.Equal(t, int64(70), got.RatingSum)
	assert.Equal(t, "3.5", got.RatingString())
}
