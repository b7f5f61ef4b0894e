package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Mailer delivers one message synchronously.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Worker drains the email queue.
type Worker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewWorker(redis asynq.RedisClientOpt, mailer Mailer, concurrency int, logger *zap.Logger) *Worker {
	if concurrency <= 0 {
		concurrency = 5
	}
	srv := asynq.NewServer(redis, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{"default": 1},
		Logger:      logger.Sugar().Named("asynq"),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailSend, HandleEmailTask(mailer, logger))

	return &Worker{srv: srv, mux: mux, logger: logger}
}

// Start begins processing in the background.
func (w *Worker) Start() error {
	w.logger.Info("email worker starting")
	return w.srv.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
	w.logger.Info("email worker stopped")
}

// HandleEmailTask decodes an email task and passes it to mailer. Undecodable
// payloads are not retried.
func HandleEmailTask(mailer Mailer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var msg Message
		if err := json.Unmarshal(task.Payload(), &msg); err != nil {
			logger.Error("invalid email payload", zap.Error(err))
			return fmt.Errorf("decode email payload: %v: %w", err, asynq.SkipRetry)
		}
		if msg.To == "" {
			return fmt.Errorf("email without recipient: %w", asynq.SkipRetry)
		}

		if err := mailer.Send(ctx, msg); err != nil {
			logger.Warn("email delivery failed", zap.String("to", msg.To), zap.Error(err))
			return err
		}
		logger.Info("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
		return nil
	}
}
