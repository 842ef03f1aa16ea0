// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"inkwell/internal/auth"
)

// TokenCookie is the name of the cookie carrying the JWT. The same token is
// also accepted as an Authorization bearer header; the header wins when both
// are present.
const TokenCookie = "token"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const actorKey contextKey = "actor"

// Authenticate verifies the request token, if any, and stores the decoded
// actor in the request context. It does NOT enforce authentication — an
// absent or invalid token just leaves the request anonymous.
func Authenticate(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				if c, err := r.Cookie(TokenCookie); err == nil {
					tokenString = c.Value
				}
			}
			if tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}

			actor, err := tokens.Verify(tokenString)
			if err != nil {
				// Invalid token: treat as unauthenticated rather than 401,
				// so public routes keep working with a stale cookie.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests without an authenticated actor.
// Must be applied after Authenticate in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ActorFromCtx(r.Context()); !ok {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ActorFromCtx extracts the authenticated actor from the request context.
func ActorFromCtx(ctx context.Context) (auth.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(auth.Actor)
	return actor, ok
}

// WithActor returns a context carrying the given actor. Used by tests and
// by the login flow after issuing a fresh token.
func WithActor(ctx context.Context, actor auth.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// bearerToken extracts a token from the Authorization header, if present.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}

// writeJSONError emits the API's error envelope. Mirrors handlers.Error
// without importing the handlers package.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	payload, _ := json.Marshal(map[string]any{"message": message, "status": status})
	fmt.Fprintln(w, string(payload))
}
