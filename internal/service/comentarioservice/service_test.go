package comentarioservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"blogescola/internal/domain"
	apperror "blogescola/internal/errors"
	"blogescola/internal/pkg/logger"
	"blogescola/internal/service/comentarioservice"
)

// MockPostRepository é uma implementação mock da interface PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) FindByID(ctx context.Context, id string) (domain.Post, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Post), args.Error(1)
}

func (m *MockPostRepository) UpdateComentarios(ctx context.Context, postID string, comentarios []domain.Comentario) error {
	args := m.Called(ctx, postID, comentarios)
	return args.Error(0)
}

func newTestLogger() logger.Logger {
	return logger.NewLogger("error")
}

var (
	professorA = comentarioservice.Autor{Nome: "Ana Souza", Role: domain.RoleProfessor}
	professorB = comentarioservice.Autor{Nome: "Bruno Lima", Role: domain.RoleProfessor}
	alunoJoao  = comentarioservice.Autor{Nome: "João Pedro", Role: domain.RoleAluno}
)

func novoComentario(autor comentarioservice.Autor, texto string) domain.Comentario {
	return domain.Comentario{
		ID:        uuid.NewString(),
		Autor:     autor.Nome,
		Role:      autor.Role,
		Texto:     texto,
		CreatedAt: time.Now().UTC(),
	}
}

func postCom(comentarios ...domain.Comentario) domain.Post {
	return domain.Post{
		ID:          "post-1",
		Titulo:      "Node Rocks",
		Conteudo:    "conteúdo",
		Ativo:       true,
		Comentarios: comentarios,
	}
}

// --- Adicionar ---

func TestAdicionar_Success(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := comentarioservice.NewService(mockRepo, newTestLogger())

	mockRepo.On("FindByID", mock.Anything, "post-1").Return(postCom(), nil)
	mockRepo.On("UpdateComentarios", mock.Anything, "post-1", mock.MatchedBy(func(cs []domain.Comentario) bool {
		return len(cs) == 1 &&
			cs[0].Autor == "João Pedro" &&
			cs[0].Role == domain.RoleAluno &&
			cs[0].Texto == "Ótimo post!" &&
			cs[0].ID != ""
	})).Return(nil)

	post, err := svc.Adicionar(context.Background(), "post-1", alunoJoao, "Ótimo post!")

	assert.NoError(t, err)
	assert.Len(t, post.Comentarios, 1)
	// Autor e role vêm do token do principal, nunca do payload.
	assert.Equal(t, "João Pedro", post.Comentarios[0].Autor)
	assert.Equal(t, domain.RoleAluno, post.Comentarios[0].Role)
	mockRepo.AssertExpectations(t)
}

func TestAdicionar_PreservaOrdem(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := comentarioservice.NewService(mockRepo, newTestLogger())

	c1 := novoComentario(professorA, "primeiro")
	c2 := novoComentario(alunoJoao, "segundo")
	mockRepo.On("FindByID", mock.Anything, "post-1").Return(postCom(c1, c2), nil)
	mockRepo.On("UpdateComentarios", mock.Anything, "post-1", mock.Anything).Return(nil)

	post, err := svc.Adicionar(context.Background(), "post-1", professorB, "terceiro")

	assert.NoError(t, err)
	assert.Len(t, post.Comentarios, 3)
	assert.Equal(t, c1.ID, post.Comentarios[0].ID)
	assert.Equal(t, c2.ID, post.Comentarios[1].ID)
	assert.Equal(t, "terceiro", post.Comentarios[2].Texto)
}

func TestAdicionar_Fail_PostNaoEncontrado(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := comentarioservice.NewService(mockRepo, newTestLogger())

	mockRepo.On("FindByID", mock.Anything, "nao-existe").Return(domain.Post{}, apperror.NewNotFoundError("Post não encontrado."))

	_, err := svc.Adicionar(context.Background(), "nao-existe", alunoJoao, "texto")

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertNotCalled(t, "UpdateComentarios")
}

// --- Atualizar ---

func TestAtualizar_Success_ProprioAutor(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := comentarioservice.NewService(mockRepo, newTestLogger())

	c := novoComentario(alunoJoao, "texto antigo")
	mockRepo.On("FindByID", mock.Anything, "post-1").Return(postCom(c), nil)
	mockRepo.On("UpdateComentarios", mock.Anything, "post-1", mock.MatchedBy(func(cs []domain.Comentario) bool {
		// Apenas o texto muda; autor, role e created_at ficam intocados.
		return len(cs) == 1 &&
			cs[0].ID == c.ID &&
			cs[0].Texto == "texto novo" &&
			cs[0].Autor == c.Autor &&
			cs[0].Role == c.Role &&
			cs[0].CreatedAt.Equal(c.CreatedAt)
	})).Return(nil)

	post, err := svc.Atualizar(context.Background(), "post-1", c.ID, alunoJoao, "texto novo")

	assert.NoError(t, err)
	assert.Equal(t, "texto novo", post.Comentarios[0].Texto)
	mockRepo.AssertExpectations(t)
}

func TestAtualizar_Fail_OutroAutor(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := comentarioservice.NewService(mockRepo, newTestLogger())

	c := novoComentario(alunoJoao, "texto")
	mockRepo.On("FindByID", mock.Anything, "post-1").Return(postCom(c), nil)

	_, err := svc.Atualizar(context.Background(), "post-1", c.ID, professorA, "invasão")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ForbiddenError{}, err)
	assert.Equal(t, "Você só pode atualizar seus próprios comentários.", err.Error())
	mockRepo.AssertNotCalled(t, "UpdateComentarios")
}

func TestAtualizar_Fail_MesmoNomeRoleDiferente(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := comentarioservice.NewService(mockRepo, newTestLogger())

	// O par (autor, role) precisa bater exatamente: mesmo nome com
	// role diferente não é o mesmo principal.
	c := novoComentario(comentarioservice.Autor{Nome: "Ana Souza", Role: domain.RoleAluno}, "texto")
	mockRepo.On("FindByID", mock.Anything, "post-1").Return(postCom(c), nil)

	_, err := svc.Atualizar(context.Background(), "post-1", c.ID, professorA, "novo")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ForbiddenError{}, err)
}

func TestAtualizar_Fail_ComentarioNaoEncontrado(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := comentarioservice.NewService(mockRepo, newTestLogger())

	mockRepo.On("FindByID", mock.Anything, "post-1").Return(postCom(), nil)

	_, err := svc.Atualizar(context.Background(), "post-1", "cid-fantasma", alunoJoao, "texto")

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	assert.Equal(t, "Comentário não encontrado.", err.Error())
}

// --- Deletar ---

func TestDeletar_Success_ProprioAutor_PreservaOrdem(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := comentarioservice.NewService(mockRepo, newTestLogger())

	c1 := novoComentario(professorA, "primeiro")
	c2 := novoComentario(professorA, "segundo")
	c3 := novoComentario(alunoJoao, "terceiro")
	mockRepo.On("FindByID", mock.Anything, "post-1").Return(postCom(c1, c2, c3), nil)
	mockRepo.On("UpdateComentarios", mock.Anything, "post-1", mock.MatchedBy(func(cs []domain.Comentario) bool {
		// Remoção do meio mantém a ordem dos restantes.
		return len(cs) == 2 && cs[0].ID == c1.ID && cs[1].ID == c3.ID
	})).Return(nil)

	post, err := svc.Deletar(context.Background(), "post-1", c2.ID, professorA)

	assert.NoError(t, err)
	assert.Len(t, post.Comentarios, 2)
	mockRepo.AssertExpectations(t)
}

func TestDeletar_Success_ProfessorSobreAluno(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := comentarioservice.NewService(mockRepo, newTestLogger())

	c := novoComentario(alunoJoao, "comentário de aluno")
	mockRepo.On("FindByID", mock.Anything, "post-1").Return(postCom(c), nil)
	mockRepo.On("UpdateComentarios", mock.Anything, "post-1", mock.MatchedBy(func(cs []domain.Comentario) bool {
		return len(cs) == 0
	})).Return(nil)

	post, err := svc.Deletar(context.Background(), "post-1", c.ID, professorA)

	assert.NoError(t, err)
	assert.Empty(t, post.Comentarios)
}

func TestDeletar_Fail_ProfessorSobreOutroProfessor(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := comentarioservice.NewService(mockRepo, newTestLogger())

	c := novoComentario(professorA, "comentário da professora A")
	mockRepo.On("FindByID", mock.Anything, "post-1").Return(postCom(c), nil)

	_, err := svc.Deletar(context.Background(), "post-1", c.ID, professorB)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ForbiddenError{}, err)
	assert.Equal(t, "Você não tem permissão para deletar este comentário.", err.Error())
	mockRepo.AssertNotCalled(t, "UpdateComentarios")
}

func TestDeletar_Fail_AlunoSobreOutroAutor(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := comentarioservice.NewService(mockRepo, newTestLogger())

	c := novoComentario(professorA, "comentário de professor")
	mockRepo.On("FindByID", mock.Anything, "post-1").Return(postCom(c), nil)

	_, err := svc.Deletar(context.Background(), "post-1", c.ID, alunoJoao)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ForbiddenError{}, err)
}

func TestDeletar_Fail_ComentarioNaoEncontrado_Idempotente(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := comentarioservice.NewService(mockRepo, newTestLogger())

	mockRepo.On("FindByID", mock.Anything, "post-1").Return(postCom(), nil)

	// Repetir a chamada devolve 404 de novo, sem mudança de estado.
	for i := 0; i < 2; i++ {
		_, err := svc.Deletar(context.Background(), "post-1", "cid-fantasma", professorA)
		assert.Error(t, err)
		assert.IsType(t, &apperror.NotFoundError{}, err)
	}
	mockRepo.AssertNotCalled(t, "UpdateComentarios")
}
