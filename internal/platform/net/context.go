// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const keyUser ctxKey = "user"

// User is the signed-in principal resolved by the session gate
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// WithRequest annotates context with the request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID != "" {
		// chimw.GetReqID reads this key
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	return ctx
}

// WithUser annotates context with the authenticated user
func WithUser(ctx context.Context, u User) context.Context {
	if u.ID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyUser, u)
}

// UserFrom returns the authenticated user, if any
func UserFrom(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(keyUser).(User)
	return u, ok
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// UserID returns the user id on the context if present
func UserID(ctx context.Context) string {
	u, _ := UserFrom(ctx)
	return u.ID
}
