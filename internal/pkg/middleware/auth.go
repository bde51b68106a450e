package middleware

import (
	"encoding/json"
	"net/http"

	"gocatalog/internal/domain"
	"gocatalog/internal/pkg/basicauth"
	"gocatalog/internal/pkg/logger"
)

// NewBasicAuthMiddleware protege a rota com credenciais Basic.
// Sem cabeçalho (ou outro esquema) responde 401; credenciais erradas, 403.
func NewBasicAuthMiddleware(creds basicauth.Credentials, log logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch creds.Check(r.Header.Get("Authorization")) {
			case basicauth.Allowed:
				next.ServeHTTP(w, r)
			case basicauth.Denied:
				log.Warn("Credenciais Basic recusadas.", map[string]interface{}{"path": r.URL.Path})
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden")
			default:
				w.Header().Set("WWW-Authenticate", `Basic realm="import"`)
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
			}
		})
	}
}

func writeError(w http.ResponseWriter, status int, category, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{Code: status, Category: category, Message: message})
}
