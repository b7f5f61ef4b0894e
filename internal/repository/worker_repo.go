package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"homecrew/internal/domain"
)

type WorkerRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewWorkerRepository(db *gorm.DB, timeout time.Duration) *WorkerRepository {
	return &WorkerRepository{db: db, timeout: timeout}
}

type workerModel struct {
	ID           string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	Name         string    `gorm:"column:name;not null"`
	Phone        string    `gorm:"column:phone;not null"`
	Photo        *string   `gorm:"column:photo"`
	Skill        string    `gorm:"column:skill;not null;index:idx_workers_city_skill"`
	City         string    `gorm:"column:city;not null;index:idx_workers_city_skill"`
	Available    bool      `gorm:"column:available;not null"`
	RatingSum    int64     `gorm:"column:rating_sum;not null;default:0"`
	TotalRatings int64     `gorm:"column:total_ratings;not null;default:0"`
	RatingTenths int64     `gorm:"column:rating_tenths;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (workerModel) TableName() string { return "workers" }

func toDomainWorker(m workerModel) *domain.Worker {
	var photo string
	if m.Photo != nil {
		photo = *m.Photo
	}
	return &domain.Worker{
		ID:           m.ID,
		Name:         m.Name,
		Phone:        m.Phone,
		Photo:        photo,
		Skill:        domain.Skill(m.Skill),
		City:         m.City,
		Available:    m.Available,
		RatingSum:    m.RatingSum,
		TotalRatings: m.TotalRatings,
		RatingTenths: m.RatingTenths,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toWorkerModel(w *domain.Worker) workerModel {
	var photo *string
	if w.Photo != "" {
		v := w.Photo
		photo = &v
	}
	return workerModel{
		ID:           w.ID,
		Name:         w.Name,
		Phone:        w.Phone,
		Photo:        photo,
		Skill:        string(w.Skill),
		City:         w.City,
		Available:    w.Available,
		RatingSum:    w.RatingSum,
		TotalRatings: w.TotalRatings,
		RatingTenths: domain.MeanTenths(w.RatingSum, w.TotalRatings),
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}

// Create inserts the worker, assigning a fresh id when it has none.
func (r *WorkerRepository) Create(ctx context.Context, w *domain.Worker) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if w.ID == "" {
		w.ID = newID()
	}
	m := toWorkerModel(w)
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return storeErr("create worker "+w.ID, err)
	}
	*w = *toDomainWorker(m)
	return nil
}

func (r *WorkerRepository) GetByID(ctx context.Context, id string) (*domain.Worker, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var m workerModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, storeErr("worker "+id, err)
	}
	return toDomainWorker(m), nil
}

func (r *WorkerRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tx := conn(ctx, r.db).Where("id = ?", id).Delete(&workerModel{})
	if tx.Error != nil {
		return storeErr("delete worker "+id, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("%w: worker %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *WorkerRepository) SetAvailability(ctx context.Context, id string, available bool) (*domain.Worker, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tx := conn(ctx, r.db).Model(&workerModel{}).Where("id = ?", id).Update("available", available)
	if tx.Error != nil {
		return nil, storeErr("set availability "+id, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: worker %s", domain.ErrNotFound, id)
	}

	var m workerModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, storeErr("worker "+id, err)
	}
	return toDomainWorker(m), nil
}

// ListAvailable returns available workers in the city, filtered by skill when
// skill is non-empty, ordered by id.
func (r *WorkerRepository) ListAvailable(ctx context.Context, city string, skill domain.Skill) ([]domain.Worker, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	q := conn(ctx, r.db).Where("city = ? AND available = ?", city, true)
	if skill != "" {
		q = q.Where("skill = ?", string(skill))
	}

	var rows []workerModel
	if err := q.Order("id asc").Find(&rows).Error; err != nil {
		return nil, storeErr("list available workers", err)
	}
	return toDomainWorkers(rows), nil
}

func (r *WorkerRepository) List(ctx context.Context) ([]domain.Worker, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var rows []workerModel
	if err := conn(ctx, r.db).Order("id asc").Find(&rows).Error; err != nil {
		return nil, storeErr("list workers", err)
	}
	return toDomainWorkers(rows), nil
}

// ApplyRating folds one rating into the worker's aggregate in a single UPDATE.
// The SET expressions read the pre-update row, so concurrent ratings never
// overwrite each other.
func (r *WorkerRepository) ApplyRating(ctx context.Context, id string, rating int) (*domain.Worker, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tx := conn(ctx, r.db).Model(&workerModel{}).Where("id = ?", id).Updates(map[string]any{
		"rating_sum":    gorm.Expr("rating_sum + ?", rating),
		"total_ratings": gorm.Expr("total_ratings + 1"),
		"rating_tenths": gorm.Expr("((rating_sum + ?) * 20 + total_ratings + 1) / ((total_ratings + 1) * 2)", rating),
	})
	if tx.Error != nil {
		return nil, storeErr("apply rating "+id, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: worker %s", domain.ErrNotFound, id)
	}

	var m workerModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, storeErr("worker "+id, err)
	}
	return toDomainWorker(m), nil
}

func toDomainWorkers(rows []workerModel) []domain.Worker {
	out := make([]domain.Worker, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainWorker(m))
	}
	return out
}
