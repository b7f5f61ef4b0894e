package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"homecrew/internal/domain"
)

// DefaultTimeout bounds every store call when the caller passes zero.
const DefaultTimeout = 5 * time.Second

// ErrDuplicate is returned when an insert hits a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

// Models lists the gorm models to migrate.
func Models() []any {
	return []any{&workerModel{}, &bookingModel{}, &userModel{}}
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(ctx, d)
}

// storeErr maps driver errors onto the domain taxonomy.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, op)
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrDuplicate, op)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrStorage, op, err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
