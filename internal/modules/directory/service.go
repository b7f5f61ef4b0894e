package directory

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"homecrew/internal/domain"
	"homecrew/internal/pkg/validator"
)

// Service is the worker directory: profiles, availability and the eligibility
// query used by matching.
type Service struct {
	workers WorkerRepository
	logger  *zap.Logger
}

func NewService(workers WorkerRepository, logger *zap.Logger) *Service {
	return &Service{workers: workers, logger: logger}
}

// AddWorker creates a worker with an empty rating.
func (s *Service) AddWorker(ctx context.Context, req AddWorkerRequest) (*domain.Worker, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.City = strings.TrimSpace(req.City)
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	w := &domain.Worker{
		Name:      req.Name,
		Phone:     req.Phone,
		Photo:     req.Photo,
		Skill:     domain.Skill(req.Skill),
		City:      req.City,
		Available: available,
	}
	if err := s.workers.Create(ctx, w); err != nil {
		return nil, err
	}

	s.logger.Info("worker added",
		zap.String("worker_id", w.ID),
		zap.String("skill", string(w.Skill)),
		zap.String("city", w.City),
	)
	return w, nil
}

// RemoveWorker deletes the worker. Bookings keep their copied worker fields.
func (s *Service) RemoveWorker(ctx context.Context, id string) error {
	if err := s.workers.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("worker removed", zap.String("worker_id", id))
	return nil
}

func (s *Service) SetAvailability(ctx context.Context, id string, available bool) (*domain.Worker, error) {
	return s.workers.SetAvailability(ctx, id, available)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Worker, error) {
	return s.workers.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Worker, error) {
	return s.workers.List(ctx)
}

// ListByCityAndSkill returns available workers in city, restricted to skill
// when it is non-empty. Results are ordered by id so the first eligible worker
// is reproducible.
func (s *Service) ListByCityAndSkill(ctx context.Context, city string, skill domain.Skill) ([]domain.Worker, error) {
	if skill != "" && !skill.Valid() {
		return nil, fmt.Errorf("%w: unknown skill %q", domain.ErrValidation, skill)
	}
	return s.workers.ListAvailable(ctx, city, skill)
}
