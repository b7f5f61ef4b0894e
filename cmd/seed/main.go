package main

import (
	"context"
	"errors"
	"log"
	"math"

	"go.uber.org/zap"

	"homecrew/internal/config"
	"homecrew/internal/database"
	"homecrew/internal/domain"
	"homecrew/internal/modules/auth"
	jwtsvc "homecrew/internal/pkg/jwt"
	"homecrew/internal/pkg/logger"
	"homecrew/internal/repository"
)

type seedWorker struct {
	id        string
	name      string
	phone     string
	skill     domain.Skill
	city      string
	available bool
	rating    float64
	count     int64
}

// Seed ids are UUIDv7 values with a zero timestamp, so they sort ahead of
// every worker registered later.
var workers = []seedWorker{
	{"00000000-0000-7000-8000-000000000001", "Rajesh Kumar", "+91-9876543210", domain.SkillCarpenter, "Mumbai", true, 4.5, 23},
	{"00000000-0000-7000-8000-000000000002", "Suresh Sharma", "+91-9876543211", domain.SkillPlumber, "Delhi", true, 4.2, 18},
	{"00000000-0000-7000-8000-000000000003", "Amit Patel", "+91-9876543212", domain.SkillElectrician, "Bangalore", false, 4.8, 31},
	{"00000000-0000-7000-8000-000000000004", "Vikram Singh", "+91-9876543213", domain.SkillCarpenter, "Chennai", true, 4.0, 12},
}

// worker stores a rating sum chosen so the mean reproduces the listed rating.
func (s seedWorker) worker() *domain.Worker {
	return &domain.Worker{
		ID:           s.id,
		Name:         s.name,
		Phone:        s.phone,
		Skill:        s.skill,
		City:         s.city,
		Available:    s.available,
		RatingSum:    int64(math.Round(s.rating * float64(s.count))),
		TotalRatings: s.count,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	lg, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, lg)
	if err != nil {
		lg.Fatal("database connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		lg.Fatal("database migrate failed", zap.Error(err))
	}

	ctx := context.Background()
	repo := repository.NewWorkerRepository(db, cfg.StoreTimeout)

	for _, s := range workers {
		if _, err := repo.GetByID(ctx, s.id); err == nil {
			lg.Info("worker exists, skipping", zap.String("id", s.id))
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			lg.Fatal("worker lookup failed", zap.String("id", s.id), zap.Error(err))
		}

		w := s.worker()
		if err := repo.Create(ctx, w); err != nil {
			lg.Fatal("worker create failed", zap.String("id", s.id), zap.Error(err))
		}
		lg.Info("worker seeded", zap.String("id", w.ID), zap.String("rating", w.RatingString()))
	}

	users := repository.NewUserRepository(db, cfg.StoreTimeout)
	authService := auth.NewService(
		users,
		auth.NewMemoryCodeStore(cfg.VerifyCodeTTL),
		jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL),
		nil,
		cfg.VerificationCodePepper,
		lg,
	)
	admin, err := authService.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		lg.Fatal("admin setup failed", zap.Error(err))
	}

	lg.Info("seed complete", zap.Int("workers", len(workers)), zap.String("admin", admin.Email))
}
