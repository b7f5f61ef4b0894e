package notification

import (
	"context"

	"go.uber.org/zap"
)

// Message is a single email-style notification.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Sink accepts messages for delivery. Callers treat delivery as best effort:
// an error is logged, never propagated into the operation that caused it.
type Sink interface {
	Send(ctx context.Context, msg Message) error
}

// LogSink only logs messages. Used when no queue is configured.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Send(_ context.Context, msg Message) error {
	s.logger.Info("notification",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
