package postservice

import (
	"context"
	"time"

	"github.com/google/uuid"

	"blogescola/internal/domain"
	apperror "blogescola/internal/errors"
	"blogescola/internal/pkg/logger"
)

// PostRepository define o contrato que este serviço espera da camada de
// persistência.
type PostRepository interface {
	Save(ctx context.Context, post domain.Post) (domain.Post, error)
	FindByID(ctx context.Context, id string) (domain.Post, error)
	FindAll(ctx context.Context, somenteAtivos bool) ([]domain.Post, error)
	Search(ctx context.Context, termo string, somenteAtivos bool) ([]domain.Post, error)
	Update(ctx context.Context, post domain.Post) (domain.Post, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa a lógica de negócio dos posts: guarda de papel
// para as escritas e filtro de visibilidade para as leituras.
//
// Nota histórica preservada de propósito: a escrita de posts rejeita
// não-professores com 401, enquanto os recursos de professores/alunos
// respondem 403 para a mesma condição. Clientes existentes dependem
// dos dois códigos.
type Service struct {
	repo   PostRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do serviço de posts.
func NewService(repo PostRepository, log logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

// exigirProfessor é a guarda das operações de escrita de posts.
func exigirProfessor(role domain.UserRole) error {
	if role != domain.RoleProfessor {
		return apperror.NewUnauthorizedError("Acesso restrito a professores.")
	}
	return nil
}

// Criar cria um novo post. Somente professores.
func (s *Service) Criar(ctx context.Context, role domain.UserRole, input domain.PostInput) (domain.Post, error) {
	if err := exigirProfessor(role); err != nil {
		return domain.Post{}, err
	}

	if input.Titulo == "" || input.Conteudo == "" {
		return domain.Post{}, apperror.NewValidationError("Título e conteúdo são obrigatórios.")
	}

	ativo := true
	if input.Ativo != nil {
		ativo = *input.Ativo
	}

	now := time.Now().UTC()
	post := domain.Post{
		ID:          uuid.NewString(),
		Titulo:      input.Titulo,
		Conteudo:    input.Conteudo,
		Autor:       input.Autor,
		Descricao:   input.Descricao,
		Ativo:       ativo,
		Comentarios: []domain.Comentario{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	criado, err := s.repo.Save(ctx, post)
	if err != nil {
		return domain.Post{}, err
	}

	s.logger.Info("Post criado.", map[string]interface{}{"post_id": criado.ID})
	return criado, nil
}

// Listar devolve os posts visíveis para o papel do chamador: professor
// enxerga todos, os demais apenas os ativos.
func (s *Service) Listar(ctx context.Context, role domain.UserRole) ([]domain.Post, error) {
	return s.repo.FindAll(ctx, role != domain.RoleProfessor)
}

// BuscarPorID devolve um post. Post inativo para não-professor responde
// 404, não 403 - a existência do post é deliberadamente oculta.
func (s *Service) BuscarPorID(ctx context.Context, role domain.UserRole, id string) (domain.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}

	if !post.Ativo && role != domain.RoleProfessor {
		return domain.Post{}, apperror.NewNotFoundError("Post não encontrado.")
	}

	return post, nil
}

// Buscar procura posts por substring de título ou descrição, sem
// diferenciar maiúsculas. Aberto a professores e alunos; alunos só
// enxergam posts ativos, como na listagem.
func (s *Service) Buscar(ctx context.Context, role domain.UserRole, termo string) ([]domain.Post, error) {
	return s.repo.Search(ctx, termo, role != domain.RoleProfessor)
}

// Atualizar altera os campos próprios do post. Somente professores.
// A lista de comentários enviada no payload é IGNORADA: a atualização
// genérica de post nunca toca no agregado de comentários.
func (s *Service) Atualizar(ctx context.Context, role domain.UserRole, id string, input domain.PostInput) (domain.Post, error) {
	if err := exigirProfessor(role); err != nil {
		return domain.Post{}, err
	}

	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}

	if input.Titulo != "" {
		post.Titulo = input.Titulo
	}
	if input.Conteudo != "" {
		post.Conteudo = input.Conteudo
	}
	if input.Autor != "" {
		post.Autor = input.Autor
	}
	if input.Descricao != "" {
		post.Descricao = input.Descricao
	}
	if input.Ativo != nil {
		post.Ativo = *input.Ativo
	}
	// input.Comentarios descartado: o repositório tampouco escreve a coluna.

	atualizado, err := s.repo.Update(ctx, post)
	if err != nil {
		return domain.Post{}, err
	}

	s.logger.Info("Post atualizado.", map[string]interface{}{"post_id": atualizado.ID})
	return atualizado, nil
}

// Deletar remove um post. Somente professores.
func (s *Service) Deletar(ctx context.Context, role domain.UserRole, id string) error {
	if err := exigirProfessor(role); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Post deletado.", map[string]interface{}{"post_id": id})
	return nil
}
