package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("teststrip-marketplace/usecase")

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// storeError wraps gateway failures with ErrStoreUnavailable unless they
// already carry a domain sentinel the caller reacts to.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, domain.ErrAccessDenied),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrAbsentField),
		errors.Is(err, domain.ErrInvalidInput):
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, op, err)
}

// publish sends an event when a publisher is wired. Failures are logged only.
func publish(ctx context.Context, events domain.EventPublisher, log *logger.Logger, subject string, data interface{}) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, subject, data); err != nil {
		log.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
