package comentarioservice

import (
	"context"
	"time"

	"github.com/google/uuid"

	"blogescola/internal/domain"
	apperror "blogescola/internal/errors"
	"blogescola/internal/pkg/logger"
)

// PostRepository é o contrato de persistência do agregado. O motor de
// comentários só precisa ler o post e reescrever a lista inteira.
type PostRepository interface {
	FindByID(ctx context.Context, id string) (domain.Post, error)
	UpdateComentarios(ctx context.Context, postID string, comentarios []domain.Comentario) error
}

// Autor identifica quem executa a operação. Nome e role vêm SEMPRE das
// claims do token - é esse par que as regras de propriedade comparam
// com o par gravado no comentário na criação.
type Autor struct {
	Nome string
	Role domain.UserRole
}

// Service implementa o ciclo de vida dos comentários embutidos num
// Post: adicionar, atualizar e deletar, com as regras de propriedade.
type Service struct {
	repo   PostRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do serviço de comentários.
func NewService(repo PostRepository, log logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

// Adicionar anexa um comentário ao final da lista do post. Qualquer
// papel autenticado pode comentar; autor e role são capturados do
// token no momento da criação e não mudam mais.
func (s *Service) Adicionar(ctx context.Context, postID string, autor Autor, texto string) (domain.Post, error) {
	if texto == "" {
		return domain.Post{}, apperror.NewValidationError("O comentário não pode ser vazio.")
	}

	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return domain.Post{}, err
	}

	comentario := domain.Comentario{
		ID:        uuid.NewString(),
		Autor:     autor.Nome,
		Role:      autor.Role,
		Texto:     texto,
		CreatedAt: time.Now().UTC(),
	}

	post.Comentarios = append(post.Comentarios, comentario)
	if err := s.repo.UpdateComentarios(ctx, post.ID, post.Comentarios); err != nil {
		return domain.Post{}, err
	}

	s.logger.Info("Comentário adicionado.", map[string]interface{}{"post_id": post.ID, "comentario_id": comentario.ID})
	return post, nil
}

// Atualizar troca o texto de um comentário. Apenas o par exato
// (autor, role) que criou o comentário pode editá-lo - não existe
// exceção para professores aqui. Autor, role e created_at ficam
// intocados.
func (s *Service) Atualizar(ctx context.Context, postID, comentarioID string, autor Autor, texto string) (domain.Post, error) {
	if texto == "" {
		return domain.Post{}, apperror.NewValidationError("O comentário não pode ser vazio.")
	}

	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return domain.Post{}, err
	}

	idx := localizar(post.Comentarios, comentarioID)
	if idx < 0 {
		return domain.Post{}, apperror.NewNotFoundError("Comentário não encontrado.")
	}

	comentario := post.Comentarios[idx]
	if comentario.Autor != autor.Nome || comentario.Role != autor.Role {
		return domain.Post{}, apperror.NewForbiddenError("Você só pode atualizar seus próprios comentários.")
	}

	post.Comentarios[idx].Texto = texto
	if err := s.repo.UpdateComentarios(ctx, post.ID, post.Comentarios); err != nil {
		return domain.Post{}, err
	}

	s.logger.Info("Comentário atualizado.", map[string]interface{}{"post_id": post.ID, "comentario_id": comentarioID})
	return post, nil
}

// Deletar remove um comentário da lista, preservando a ordem dos
// demais. Permitido para o próprio autor (par exato autor+role) e para
// professores sobre comentários de alunos. Um professor não deleta o
// comentário de outro professor.
func (s *Service) Deletar(ctx context.Context, postID, comentarioID string, autor Autor) (domain.Post, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return domain.Post{}, err
	}

	idx := localizar(post.Comentarios, comentarioID)
	if idx < 0 {
		return domain.Post{}, apperror.NewNotFoundError("Comentário não encontrado.")
	}

	if !podeDeletar(post.Comentarios[idx], autor) {
		return domain.Post{}, apperror.NewForbiddenError("Você não tem permissão para deletar este comentário.")
	}

	post.Comentarios = append(post.Comentarios[:idx], post.Comentarios[idx+1:]...)
	if err := s.repo.UpdateComentarios(ctx, post.ID, post.Comentarios); err != nil {
		return domain.Post{}, err
	}

	s.logger.Info("Comentário deletado.", map[string]interface{}{"post_id": post.ID, "comentario_id": comentarioID})
	return post, nil
}

// localizar devolve o índice do comentário na lista, ou -1.
func localizar(comentarios []domain.Comentario, id string) int {
	for i := range comentarios {
		if comentarios[i].ID == id {
			return i
		}
	}
	return -1
}

// podeDeletar avalia as regras de propriedade da remoção:
//   - o próprio autor (nome e role idênticos aos gravados);
//   - professor sobre comentário gravado com role de aluno.
func podeDeletar(c domain.Comentario, autor Autor) bool {
	if c.Autor == autor.Nome && c.Role == autor.Role {
		return true
	}
	if autor.Role == domain.RoleProfessor && c.Role == domain.RoleAluno {
		return true
	}
	return false
}
