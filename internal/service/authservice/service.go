package authservice

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"blogescola/internal/domain"
	apperror "blogescola/internal/errors"
	"blogescola/internal/pkg/logger"
)

// UsuarioRepository define o contrato mínimo que o autenticador espera
// de cada coleção de credenciais.
type UsuarioRepository interface {
	FindByEmail(ctx context.Context, email string) (domain.Usuario, error)
}

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(user domain.UsuarioResumo) (string, error)
}

// Service implementa o fluxo de autenticação: palavra-passe → resolução
// do principal → usuário ativo → senha → emissão do token.
type Service struct {
	ProfessorRepo UsuarioRepository
	AlunoRepo     UsuarioRepository
	TokenSvc      TokenService
	proofHash     string
	logger        logger.Logger
}

// NewService cria o serviço de autenticação. palavraPasse é a constante
// compartilhada do servidor; o serviço guarda apenas o seu digest.
func NewService(professorRepo, alunoRepo UsuarioRepository, tokenSvc TokenService, palavraPasse string, log logger.Logger) *Service {
	digest := sha256.Sum256([]byte(palavraPasse))
	return &Service{
		ProfessorRepo: professorRepo,
		AlunoRepo:     alunoRepo,
		TokenSvc:      tokenSvc,
		proofHash:     hex.EncodeToString(digest[:]),
		logger:        log,
	}
}

// LoginResult é o retorno do login: o token assinado e o resumo do
// usuário autenticado (nunca o hash da senha).
type LoginResult struct {
	Token   string
	Usuario domain.UsuarioResumo
}

// Login autentica um usuário contra as duas coleções e emite um JWT.
//
// A ordem das checagens é comportamento observável e não deve mudar:
//  1. palavra-passe, antes de qualquer acesso ao banco;
//  2. resolução do email, professores primeiro, depois alunos;
//  3. flag ativo, antes da comparação de senha ("Usuário inativo."
//     é distinto da mensagem genérica);
//  4. bcrypt da senha, com a mesma mensagem genérica do email ausente.
func (s *Service) Login(ctx context.Context, email, senha, palavraPasse string) (LoginResult, error) {
	// 1. Gate da palavra-passe compartilhada
	supplied := sha256.Sum256([]byte(palavraPasse))
	if subtle.ConstantTimeCompare([]byte(hex.EncodeToString(supplied[:])), []byte(s.proofHash)) != 1 {
		return LoginResult{}, apperror.NewUnauthorizedError("Palavra-passe incorreta.")
	}

	// 2. Resolução do principal: professores têm precedência.
	email = strings.ToLower(strings.TrimSpace(email))
	usuario, err := s.resolve(ctx, email)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			// Mensagem genérica: não revelar qual campo falhou.
			return LoginResult{}, apperror.NewUnauthorizedError("Email ou senha incorretos.")
		}
		return LoginResult{}, err
	}

	// 3. Usuário inativo falha antes da senha.
	if !usuario.Ativo {
		return LoginResult{}, apperror.NewUnauthorizedError("Usuário inativo.")
	}

	// 4. Comparação da senha com o hash armazenado.
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.SenhaHash), []byte(senha)); err != nil {
		return LoginResult{}, apperror.NewUnauthorizedError("Email ou senha incorretos.")
	}

	// 5. Emissão do token (24h).
	resumo := usuario.Resumo()
	tokenString, err := s.TokenSvc.GenerateToken(resumo)
	if err != nil {
		s.logger.Error("Falha ao gerar token de autenticação.", err)
		return LoginResult{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	s.logger.Info("Login realizado.", map[string]interface{}{"user_id": resumo.ID, "role": resumo.Role})
	return LoginResult{Token: tokenString, Usuario: resumo}, nil
}

// resolve procura o email nas duas coleções, na ordem professores →
// alunos, parando no primeiro match.
func (s *Service) resolve(ctx context.Context, email string) (domain.Usuario, error) {
	usuario, err := s.ProfessorRepo.FindByEmail(ctx, email)
	if err == nil {
		return usuario, nil
	}

	var notFound *apperror.NotFoundError
	if !errors.As(err, &notFound) {
		return domain.Usuario{}, err
	}

	return s.AlunoRepo.FindByEmail(ctx, email)
}
