package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/Pawe2l37/todo-api/internal/model"
	"github.com/Pawe2l37/todo-api/internal/service"
	"github.com/Pawe2l37/todo-api/pkg/respond"
)

type contextKey struct{}

var userKey contextKey

// RequireAuth проверяет Bearer-токен и кладёт пользователя в контекст запроса
func RequireAuth(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				w.Header().Set("WWW-Authenticate", "Bearer")
				respond.Error(w, r, http.StatusUnauthorized, "missing bearer token")
				return
			}

			user, err := auth.VerifyToken(r.Context(), token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				respond.Error(w, r, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser достаёт пользователя, положенного RequireAuth.
// Вызов вне защищённого маршрута - ошибка программиста.
func CurrentUser(ctx context.Context) model.User {
	u, _ := ctx.Value(userKey).(model.User)
	return u
}

// WithUser используется в тестах хэндлеров вместо полного middleware
func WithUser(ctx context.Context, u model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}
