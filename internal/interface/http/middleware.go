package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var (
	ctxUserKey         = struct{}{}
	errUnauthenticated = errors.New("unauthenticated")
)

type authUser struct {
	UserID int64
	Email  string
	Name   string
	Phone  string
}

func (a *API) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			respondError(w, http.StatusUnauthorized, errUnauthenticated)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := a.tokenSvc.ParseToken(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, errUnauthenticated)
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserKey, &authUser{
			UserID: claims.UserID,
			Email:  claims.Email,
			Name:   claims.Name,
			Phone:  claims.Phone,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getAuthUser(ctx context.Context) *authUser {
	val := ctx.Value(ctxUserKey)
	if user, ok := val.(*authUser); ok {
		return user
	}
	return nil
}
