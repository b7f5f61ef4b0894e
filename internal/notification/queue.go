package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeEmailSend = "email:send"

func NewEmailTask(msg Message) (*asynq.Task, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEmailSend, payload, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}

// Enqueuer is the part of *asynq.Client the queue sink uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueSink hands messages to the asynq queue; a Worker delivers them.
type QueueSink struct {
	client Enqueuer
	logger *zap.Logger
}

func NewQueueSink(client Enqueuer, logger *zap.Logger) *QueueSink {
	return &QueueSink{client: client, logger: logger}
}

func (s *QueueSink) Send(ctx context.Context, msg Message) error {
	task, err := NewEmailTask(msg)
	if err != nil {
		return fmt.Errorf("build email task: %w", err)
	}
	info, err := s.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue email to %s: %w", msg.To, err)
	}
	s.logger.Debug("email queued",
		zap.String("task_id", info.ID),
		zap.String("queue", info.Queue),
		zap.String("to", msg.To),
	)
	return nil
}
