package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"popcorn/proj/internal/domain/models"
	"popcorn/proj/internal/services/auth"
)

func (app *Application) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil && err != http.ErrAbortHandler {
				app.Http.ServerError(w, r, err.(error), "")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *Application) RateLimiter(next http.Handler) http.Handler {
	const op = "middlewares.RateLimiter"
	log := app.log.With("op", op)
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}
	clients := make(map[string]*client)
	var mu sync.Mutex
	go func() {
		for {
			mu.Lock()
			for ip, client := range clients {
				if time.Since(client.lastSeen) > 5*time.Minute {
					delete(clients, ip)
				}
			}
			mu.Unlock()
			time.Sleep(5 * time.Minute)
		}
	}()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.cfg.Limiter.Enabled {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				app.Http.ServerError(w, r, err, "")
				return
			}
			mu.Lock()
			c, ok := clients[ip]
			if !ok {
				c = &client{
					limiter: rate.NewLimiter(rate.Limit(app.cfg.Limiter.Rps), app.cfg.Limiter.Burst),
				}
				clients[ip] = c
			}
			c.lastSeen = time.Now()
			mu.Unlock()
			log.Debug("rate limiting", "ip", ip, "Available requests", c.limiter.Tokens())
			if !c.limiter.Allow() {
				log.Warn("rate limit exceeded", "ip", ip)
				app.Http.Response(
					w, r,
					envelop{"error": "rate limit exceeded"},
					"Can't process request see an error below.",
					http.StatusTooManyRequests,
				)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

type CtxKey string

const CtxKeyUser CtxKey = "user"

// Authenticate resolves the caller's identity from the Authorization header.
// Requests without a header pass through as the anonymous user; a present
// but invalid or expired artifact is rejected outright.
func (app *Application) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := models.AnonymousUser

		authHeader := r.Header.Get("Authorization")
		if authHeader != "" {
			const bearerLength = len("Bearer ")
			if !strings.HasPrefix(authHeader, "Bearer ") || len(authHeader) < bearerLength+1 {
				app.log.Warn("Invalid auth header", "header", authHeader)
				app.Http.BadRequest(w, r, "Invalid Authorization header, should be 'Bearer <token>'")
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")
			sessionUser, err := app.Services.Auth.ParseSession(token)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidSession) {
					app.log.Warn("Invalid or expired token")
					app.Http.Unauthorized(w, r, "Invalid or expired token")
					return
				}
				app.Http.ServerError(w, r, err, "")
				return
			}
			user = sessionUser
		}
		r = r.WithContext(context.WithValue(r.Context(), CtxKeyUser, user))
		next.ServeHTTP(w, r)
	})
}

func (app *Application) requireAuthenticatedUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := app.sessionUser(r)
		if user.IsAnonymous() {
			app.Http.Unauthorized(w, r, "You must be authenticated to access this resource")
			return
		}
		next.ServeHTTP(w, r)
	})
}
