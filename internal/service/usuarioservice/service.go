package usuarioservice

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"blogescola/internal/domain"
	apperror "blogescola/internal/errors"
	"blogescola/internal/pkg/logger"
)

// UsuarioRepository define o contrato que este serviço espera da camada
// de persistência da sua própria coleção.
type UsuarioRepository interface {
	Save(ctx context.Context, usuario domain.Usuario) (domain.Usuario, error)
	FindByEmail(ctx context.Context, email string) (domain.Usuario, error)
	FindByID(ctx context.Context, id string) (domain.Usuario, error)
	FindAll(ctx context.Context) ([]domain.Usuario, error)
	Update(ctx context.Context, usuario domain.Usuario) (domain.Usuario, error)
	Delete(ctx context.Context, id string) error
}

// EmailLookup é o contrato mínimo sobre a outra coleção, usado apenas
// para a checagem de unicidade global de email na criação.
type EmailLookup interface {
	FindByEmail(ctx context.Context, email string) (domain.Usuario, error)
}

// Service implementa o CRUD administrativo de uma coleção de usuários
// (professores ou alunos). É instanciado duas vezes no main, cada
// instância apontando para a sua coleção e enxergando a outra só para
// a unicidade de email.
type Service struct {
	Repo      UsuarioRepository
	OutraRepo EmailLookup
	logger    logger.Logger
}

// NewService cria uma nova instância do serviço de usuários.
func NewService(repo UsuarioRepository, outraRepo EmailLookup, log logger.Logger) *Service {
	return &Service{
		Repo:      repo,
		OutraRepo: outraRepo,
		logger:    log,
	}
}

// Criar registra um novo usuário na coleção. O email é normalizado para
// minúsculas e precisa ser inédito nas DUAS coleções - um professor não
// pode nascer com o email de um aluno, nem o contrário.
func (s *Service) Criar(ctx context.Context, registro domain.UsuarioRegistro) (domain.Usuario, error) {
	if registro.Nome == "" || registro.Email == "" || registro.Senha == "" {
		return domain.Usuario{}, apperror.NewValidationError("Nome, email e senha são obrigatórios.")
	}

	email := strings.ToLower(strings.TrimSpace(registro.Email))

	// Unicidade global de email, nas duas coleções.
	if err := s.verificarEmailLivre(ctx, email); err != nil {
		return domain.Usuario{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(registro.Senha), bcrypt.DefaultCost)
	if err != nil {
		return domain.Usuario{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	novo := domain.Usuario{
		Nome:      registro.Nome,
		Email:     email,
		SenhaHash: string(hash),
		Ativo:     true,
	}

	criado, err := s.Repo.Save(ctx, novo)
	if err != nil {
		return domain.Usuario{}, err
	}

	s.logger.Info("Usuário criado.", map[string]interface{}{"user_id": criado.ID, "role": criado.Role})
	return criado, nil
}

// verificarEmailLivre falha com erro de validação se o email já existir
// em qualquer uma das coleções.
func (s *Service) verificarEmailLivre(ctx context.Context, email string) error {
	for _, repo := range []EmailLookup{s.Repo, s.OutraRepo} {
		_, err := repo.FindByEmail(ctx, email)
		if err == nil {
			return apperror.NewValidationError("Email já cadastrado.")
		}
		var notFound *apperror.NotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

// BuscarPorID devolve um usuário da coleção.
func (s *Service) BuscarPorID(ctx context.Context, id string) (domain.Usuario, error) {
	return s.Repo.FindByID(ctx, id)
}

// Listar devolve todos os usuários da coleção.
func (s *Service) Listar(ctx context.Context) ([]domain.Usuario, error) {
	return s.Repo.FindAll(ctx)
}

// Atualizar aplica nome, senha (re-hash) e flag ativo. O email nunca
// muda - o payload de atualização nem carrega o campo.
func (s *Service) Atualizar(ctx context.Context, id string, mudancas domain.UsuarioAtualizacao) (domain.Usuario, error) {
	usuario, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return domain.Usuario{}, err
	}

	if mudancas.Nome != nil {
		if *mudancas.Nome == "" {
			return domain.Usuario{}, apperror.NewValidationError("O nome não pode ser vazio.")
		}
		usuario.Nome = *mudancas.Nome
	}

	if mudancas.Senha != nil {
		if *mudancas.Senha == "" {
			return domain.Usuario{}, apperror.NewValidationError("A senha não pode ser vazia.")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*mudancas.Senha), bcrypt.DefaultCost)
		if err != nil {
			return domain.Usuario{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
		}
		usuario.SenhaHash = string(hash)
	}

	if mudancas.Ativo != nil {
		usuario.Ativo = *mudancas.Ativo
	}

	atualizado, err := s.Repo.Update(ctx, usuario)
	if err != nil {
		return domain.Usuario{}, err
	}

	s.logger.Info("Usuário atualizado.", map[string]interface{}{"user_id": atualizado.ID})
	return atualizado, nil
}

// Deletar remove um usuário da coleção.
func (s *Service) Deletar(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Usuário deletado.", map[string]interface{}{"user_id": id})
	return nil
}
