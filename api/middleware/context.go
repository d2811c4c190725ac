package middleware

import (
	"context"

	"github.com/angelmondragon/articles-api/pkg/enums"
)

type contextKey string

const (
	ctxMemberID  contextKey = "member_id"
	ctxUsername  contextKey = "username"
	ctxRole      contextKey = "actor_role"
	ctxRequestID contextKey = "request_id"
)

// MemberIDFromContext returns the authenticated member id, or 0 for anonymous requests.
func MemberIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxMemberID).(int64); ok {
		return v
	}
	return 0
}

func UsernameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUsername).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) enums.MemberRole {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.MemberRole); ok {
		return v
	}
	return ""
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRequestID).(string); ok {
		return v
	}
	return ""
}

// WithMember injects the authenticated member into the context.
func WithMember(ctx context.Context, memberID int64, username string, role enums.MemberRole) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxMemberID, memberID)
	ctx = context.WithValue(ctx, ctxUsername, username)
	return context.WithValue(ctx, ctxRole, role)
}
