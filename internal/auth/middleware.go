package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const (
	CtxUserID        ctxKey = "usuarioID"
	CtxOrganizacaoID ctxKey = "organizacaoID"
)

func MiddlewareAutenticacao(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "Token ausente", http.StatusUnauthorized)
			return
		}
		raw := strings.TrimPrefix(h, "Bearer ")
		claims, err := ValidarToken(raw)
		if err != nil {
			http.Error(w, "Token inválido", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), CtxUserID, claims.UserID)
		ctx = context.WithValue(ctx, CtxOrganizacaoID, claims.OrganizacaoID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OrganizacaoDoContexto devolve a organização autenticada da requisição.
func OrganizacaoDoContexto(r *http.Request) (uint, bool) {
	v, ok := r.Context().Value(CtxOrganizacaoID).(uint)
	return v, ok
}
