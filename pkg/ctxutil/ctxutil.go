package ctxutil

import (
	"context"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
)

type ctxKey string

const (
	actorKey      ctxKey = "actor"
	requestIDKey  ctxKey = "request_id"
	clientInfoKey ctxKey = "client_info"
)

// Actor identifies the authenticated caller of a core operation.
// The identity provider (auth middleware) resolves it once per request;
// core services trust it and never re-authenticate.
type Actor struct {
	ID   uuid.UUID
	Role domain.UserRole
}

// ClientInfo carries request metadata recorded in the audit trail.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// WithActor stores the authenticated actor in the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromCtx extracts the actor from the context.
// Returns false if the value is missing, has a nil ID, or the wrong type.
func ActorFromCtx(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	if !ok || actor.ID == uuid.Nil {
		return Actor{}, false
	}
	return actor, true
}

// IsAdminCtx reports whether the context actor holds an admin role.
func IsAdminCtx(ctx context.Context) bool {
	actor, ok := ActorFromCtx(ctx)
	return ok && actor.Role.IsAdmin()
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithClientInfo stores request IP and user agent in the context.
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey, info)
}

// ClientInfoFromCtx extracts client info from the context.
// Returns a zero value if absent.
func ClientInfoFromCtx(ctx context.Context) ClientInfo {
	info, _ := ctx.Value(clientInfoKey).(ClientInfo)
	return info
}
