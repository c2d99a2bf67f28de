package services

import (
	"context"
	"errors"
	"strings"

	dataagg "github.com/yungbote/applytrack-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/applytrack-backend/internal/domain/aggregates"
	"github.com/yungbote/applytrack-backend/internal/platform/agent"
	"github.com/yungbote/applytrack-backend/internal/platform/ctxutil"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
)

// Services report failures with the aggregate error codes so every layer
// maps to HTTP the same way.

func notFound(op, entity string) error { return domainagg.NotFound(op, entity) }

func invalid(op, msg string) error { return domainagg.Validation(op, msg) }

func conflict(op, msg string) error {
	return domainagg.NewError(domainagg.CodeConflict, op, msg, nil)
}

func invariant(op, msg string) error {
	return domainagg.NewError(domainagg.CodeInvariantViolation, op, msg, nil)
}

// storeErr classifies a repository failure.
func storeErr(op string, err error) error { return dataagg.MapError(op, err) }

func agentErr(op string, err error) error {
	if errors.Is(err, agent.ErrDisabled) {
		return domainagg.NewError(domainagg.CodeInternal, op, "Agent is not configured", err)
	}
	return domainagg.NewError(domainagg.CodeInternal, op, "Agent request failed", err)
}

func bg(ctx context.Context) dbctx.Context { return dbctx.Background(ctx) }

func requestUser(op string, ctx context.Context) (uint, error) {
	id := ctxutil.UserID(ctx)
	if id == 0 {
		return 0, invalid(op, "user context is missing")
	}
	return id, nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// setIf copies a non-nil patch value into updates under column.
func setIf[T any](updates map[string]any, column string, v *T) {
	if v != nil {
		updates[column] = *v
	}
}
