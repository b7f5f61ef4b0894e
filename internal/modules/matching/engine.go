package matching

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"homecrew/internal/domain"
)

// Directory is the subset of the worker directory the engine reads.
type Directory interface {
	Get(ctx context.Context, id string) (*domain.Worker, error)
	ListByCityAndSkill(ctx context.Context, city string, skill domain.Skill) ([]domain.Worker, error)
}

type Request struct {
	City              string
	Skill             domain.Skill
	PreferredWorkerID string
}

// Engine assigns a worker to a booking request.
//
// The algorithm is first-eligible-wins: the directory returns eligible workers
// ordered by id and the first one is taken. There is no load balancing and no
// ranking by rating or distance. Matching reads the directory without holding
// a reservation, so two concurrent requests may receive the same worker.
type Engine struct {
	directory Directory
	logger    *zap.Logger
}

func NewEngine(directory Directory, logger *zap.Logger) *Engine {
	return &Engine{directory: directory, logger: logger}
}

// Assign returns the worker for req. A preferred worker is returned as-is,
// without checking availability, city or skill.
func (e *Engine) Assign(ctx context.Context, req Request) (*domain.Worker, error) {
	if req.PreferredWorkerID != "" {
		w, err := e.directory.Get(ctx, req.PreferredWorkerID)
		if err != nil {
			return nil, fmt.Errorf("preferred worker %s: %w", req.PreferredWorkerID, err)
		}
		return w, nil
	}

	eligible, err := e.directory.ListByCityAndSkill(ctx, req.City, req.Skill)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		e.logger.Info("no eligible worker",
			zap.String("city", req.City),
			zap.String("skill", string(req.Skill)),
		)
		return nil, fmt.Errorf("%w: %s in %s", domain.ErrNoMatch, req.Skill, req.City)
	}

	w := eligible[0]
	return &w, nil
}
