package directory

import (
	"context"

	"homecrew/internal/domain"
)

// WorkerRepository is the durable store behind the directory.
type WorkerRepository interface {
	Create(ctx context.Context, w *domain.Worker) error
	GetByID(ctx context.Context, id string) (*domain.Worker, error)
	Delete(ctx context.Context, id string) error
	SetAvailability(ctx context.Context, id string, available bool) (*domain.Worker, error)
	ListAvailable(ctx context.Context, city string, skill domain.Skill) ([]domain.Worker, error)
	List(ctx context.Context) ([]domain.Worker, error)
}
