package auth

import (
	"context"

	"github.com/danielhkuo/fieldsurvey/models"
)

type userKey struct{}
type tokenKey struct{}

// WithUser stores the resolved user (nil allowed) on the context
func WithUser(ctx context.Context, user *models.AuthenticatedUser) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFrom returns the user stored by WithUser, or nil
func UserFrom(ctx context.Context) *models.AuthenticatedUser {
	user, _ := ctx.Value(userKey{}).(*models.AuthenticatedUser)
	return user
}

// WithToken stores the caller's raw session token so outgoing backend
// calls can forward it
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}
