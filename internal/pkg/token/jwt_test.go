package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"blogescola/internal/domain"
	"blogescola/internal/pkg/token"
)

func resumo() domain.UsuarioResumo {
	return domain.UsuarioResumo{
		ID:    "prof-1",
		Email: "ana@escola.com",
		Nome:  "Ana Souza",
		Role:  domain.RoleProfessor,
	}
}

func TestGenerateValidate_RoundTrip(t *testing.T) {
	svc := token.NewService("chave-de-teste", 24*time.Hour)

	tokenString, err := svc.GenerateToken(resumo())
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := svc.ValidateToken(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, "prof-1", claims.UserID)
	assert.Equal(t, "ana@escola.com", claims.Email)
	assert.Equal(t, "Ana Souza", claims.Nome)
	assert.Equal(t, "professor", claims.Role)
	assert.Equal(t, 24*time.Hour, claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time))
}

func TestValidate_ChaveErrada(t *testing.T) {
	svc := token.NewService("chave-de-teste", 24*time.Hour)
	outro := token.NewService("outra-chave", 24*time.Hour)

	tokenString, err := svc.GenerateToken(resumo())
	assert.NoError(t, err)

	// Token adulterado/assinado com outra chave falha como inválido.
	_, err = outro.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestValidate_Expirado(t *testing.T) {
	svc := token.NewService("chave-de-teste", -time.Minute)

	tokenString, err := svc.GenerateToken(resumo())
	assert.NoError(t, err)

	_, err = svc.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestValidate_Malformado(t *testing.T) {
	svc := token.NewService("chave-de-teste", 24*time.Hour)

	_, err := svc.ValidateToken("nao-e-um-jwt")
	assert.Error(t, err)
}
