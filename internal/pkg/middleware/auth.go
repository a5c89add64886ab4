package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"blogescola/internal/domain"
	"blogescola/internal/pkg/token"
)

// ContextKey é o tipo da chave usada para armazenar as claims do
// usuário no contexto. Um tipo próprio evita colisão com chaves string
// de outros pacotes.
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
)

// UserClaims representa os dados do usuário extraídos do token JWT,
// que serão anexados ao contexto da requisição.
type UserClaims struct {
	ID    string
	Email string
	Nome  string
	Role  domain.UserRole
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// writeError padroniza o corpo JSON de erro dos middlewares.
func writeError(w http.ResponseWriter, status int, category, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	})
}

// NewAuthMiddleware cria uma função de middleware que valida um JWT e
// anexa as claims (id, email, nome e role) ao contexto da requisição.
// A ausência de token e o token inválido são falhas distintas, ambas 401.
func NewAuthMiddleware(tokenSvc TokenService) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			// 1. Extrair o Token do Header Authorization: Bearer <token>
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Token não fornecido.")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == "" {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Token não fornecido.")
				return
			}

			// 2. Validar o Token (assinatura e expiração)
			claims, err := tokenSvc.ValidateToken(tokenString)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Token inválido.")
				return
			}

			// 3. Anexar Claims ao Contexto
			userClaims := UserClaims{
				ID:    claims.UserID,
				Email: claims.Email,
				Nome:  claims.Nome,
				Role:  domain.UserRole(claims.Role),
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, userClaims)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetUserClaimsFromContext é uma função utilitária para extrair as claims no handler.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// PermissionMiddleware restringe a rota às roles informadas. É a guarda
// usada pelos recursos administrativos (/professores e /alunos), que
// respondem 403 para papel insuficiente. O recurso de posts NÃO passa
// por aqui: lá a checagem de papel vive no serviço e responde 401.
func PermissionMiddleware(requiredRoles ...domain.UserRole) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			claims, ok := GetUserClaimsFromContext(r.Context())
			if !ok {
				// AuthMiddleware não rodou ou falhou em anexar as claims.
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Token não fornecido.")
				return
			}

			for _, requiredRole := range requiredRoles {
				if claims.Role == requiredRole {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeError(w, http.StatusForbidden, "FORBIDDEN", "Acesso restrito a professores.")
		}
	}
}
