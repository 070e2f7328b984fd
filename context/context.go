package context

import (
	"context"
	"event-manager-backend/model"
	"time"
)

const (
	ContextKeyCorrelationID ContextKey = "Correlation-Id"
	ContextKeyActor         ContextKey = "Actor"
	DefaultHttpTimeout                 = 30 * time.Second
)

type ContextKey string

func NewContextWithTimeOut(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func NewContext(correlationID string) context.Context {
	return context.WithValue(context.Background(), ContextKeyCorrelationID, correlationID)
}

func SetContextWithValue(ctx context.Context, key ContextKey, value string) context.Context {
	return context.WithValue(ctx, key, value)
}

func GetContextValue(ctx context.Context, key ContextKey) string {
	reqID := ctx.Value(key)
	if reqID != nil {
		if ret, ok := reqID.(string); ok {
			return ret
		}
	}
	return ""
}

// WithActor stores the authenticated actor of the request.
func WithActor(ctx context.Context, actor *model.Actor) context.Context {
	return context.WithValue(ctx, ContextKeyActor, actor)
}

// Actor returns the request actor. Anonymous requests get an actor with a zero ID.
func Actor(ctx context.Context) *model.Actor {
	if a, ok := ctx.Value(ContextKeyActor).(*model.Actor); ok && a != nil {
		return a
	}
	return &model.Actor{}
}
