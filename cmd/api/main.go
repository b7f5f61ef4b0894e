package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"homecrew/internal/config"
	"homecrew/internal/database"
	"homecrew/internal/middleware"
	"homecrew/internal/modules/auth"
	"homecrew/internal/modules/booking"
	"homecrew/internal/modules/catalog"
	"homecrew/internal/modules/coordinator"
	"homecrew/internal/modules/directory"
	"homecrew/internal/modules/events"
	"homecrew/internal/modules/matching"
	"homecrew/internal/modules/rating"
	"homecrew/internal/notification"
	jwtsvc "homecrew/internal/pkg/jwt"
	"homecrew/internal/pkg/logger"
	"homecrew/internal/pkg/response"
	"homecrew/internal/repository"
)

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

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, lg)
	if err != nil {
		lg.Fatal("database connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		lg.Fatal("database migrate failed", zap.Error(err))
	}

	workerRepo := repository.NewWorkerRepository(db, cfg.StoreTimeout)
	bookingRepo := repository.NewBookingRepository(db, cfg.StoreTimeout)
	userRepo := repository.NewUserRepository(db, cfg.StoreTimeout)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	var (
		sink        notification.Sink = notification.NewLogSink(lg)
		codes       auth.CodeStore    = auth.NewMemoryCodeStore(cfg.VerifyCodeTTL)
		emailWorker *notification.Worker
		queue       *asynq.Client
	)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			lg.Fatal("redis ping failed", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
		codes = auth.NewRedisCodeStore(rdb, cfg.VerifyCodeTTL)

		redisOpt := asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
		queue = asynq.NewClient(redisOpt)
		sink = notification.NewQueueSink(queue, lg)

		var mailer notification.Mailer = notification.NewLogSink(lg)
		if cfg.SMTPHost != "" {
			mailer = notification.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
		}
		emailWorker = notification.NewWorker(redisOpt, mailer, cfg.EmailConcurrency, lg)
		if err := emailWorker.Start(); err != nil {
			lg.Fatal("email worker start failed", zap.Error(err))
		}
	} else {
		lg.Warn("REDIS_ADDR not set: verification codes kept in memory and emails only logged")
	}

	dirService := directory.NewService(workerRepo, lg)
	engine := matching.NewEngine(dirService, lg)
	aggregator := rating.NewAggregator(workerRepo, lg)
	ledger := booking.NewService(bookingRepo, engine, aggregator, repository.NewTransactor(db, cfg.StoreTimeout), lg)

	hub := events.NewHub(lg)
	coordService := coordinator.NewService(ledger, dirService, userRepo, sink, hub, lg)

	authService := auth.NewService(userRepo, codes, j, sink, cfg.VerificationCodePepper, lg)
	if _, err := authService.EnsureAdmin(context.Background(), cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		lg.Fatal("admin account setup failed", zap.Error(err))
	}

	authHandler := auth.NewHandler(authService)
	catalogHandler := catalog.NewHandler(catalog.NewService())
	coordHandler := coordinator.NewHandler(coordService)
	eventsHandler := events.NewHandler(hub, j, originChecker(cfg), lg)

	r := gin.New()
	r.Use(middleware.RequestLogger(lg))
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.NewRateLimiter(cfg.RateLimitPerMin).Middleware())

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "UNHEALTHY", "database unreachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok", "ws_clients": hub.Count()})
	})

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))

		company := protected.Group("/")
		company.Use(middleware.CompanyOnly())

		authHandler.RegisterRoutes(v1, protected)
		catalogHandler.RegisterRoutes(v1)
		coordHandler.RegisterRoutes(v1, protected, company)
		eventsHandler.RegisterRoutes(v1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Info("api listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	lg.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Error("server shutdown", zap.Error(err))
	}
	if emailWorker != nil {
		emailWorker.Shutdown()
	}
	if queue != nil {
		_ = queue.Close()
	}
}

// originChecker restricts websocket origins to the configured CORS origins in
// production. Other environments accept any origin.
func originChecker(cfg *config.Config) func(*http.Request) bool {
	if !cfg.IsProdLike() {
		return nil
	}
	allowed := make(map[string]bool)
	for _, o := range cfg.AllowedOrigins() {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		return allowed[r.Header.Get("Origin")]
	}
}
