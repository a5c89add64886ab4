package usuario

import (
	"context"
	"encoding/json"
	"net/http"

	"blogescola/internal/api/respond"
	"blogescola/internal/domain"
	apperror "blogescola/internal/errors"
	"blogescola/internal/pkg/logger"
)

// UsuarioService define o contrato que o Handler espera do CRUD
// administrativo de uma coleção (professores ou alunos).
type UsuarioService interface {
	Criar(ctx context.Context, registro domain.UsuarioRegistro) (domain.Usuario, error)
	BuscarPorID(ctx context.Context, id string) (domain.Usuario, error)
	Listar(ctx context.Context) ([]domain.Usuario, error)
	Atualizar(ctx context.Context, id string, mudancas domain.UsuarioAtualizacao) (domain.Usuario, error)
	Deletar(ctx context.Context, id string) error
}

// MessageResponse é o corpo das respostas que só carregam uma mensagem.
type MessageResponse struct {
	Message string `json:"message"`
}

// Handler agrupa os métodos de Handler de uma coleção de usuários.
// É instanciado duas vezes no main: uma para /professores, outra para
// /alunos, cada uma com o serviço da sua coleção.
type Handler struct {
	Service UsuarioService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UsuarioService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// CreateHandler lida com POST /professores e POST /alunos.
// @Summary Cria um novo usuário na coleção
// @Description Operação administrativa, restrita a professores. O email precisa ser inédito nas duas coleções.
// @Tags usuarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param usuario body domain.UsuarioRegistro true "Dados do usuário (nome, email e senha)"
// @Success 201 {object} domain.Usuario "Usuário criado (sem o hash da senha)"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /professores [post]
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var registro domain.UsuarioRegistro
	if err := json.NewDecoder(r.Body).Decode(&registro); err != nil {
		respond.Handle(w, r, h.Logger, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusCreated)
		return
	}

	usuario, err := h.Service.Criar(r.Context(), registro)
	respond.Handle(w, r, h.Logger, usuario, err, http.StatusCreated)
}

// ListHandler lida com GET /professores e GET /alunos.
// @Summary Lista os usuários da coleção
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Usuario
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Router /professores [get]
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	usuarios, err := h.Service.Listar(r.Context())
	respond.Handle(w, r, h.Logger, usuarios, err, http.StatusOK)
}

// GetByIDHandler lida com GET /professores/{id} e GET /alunos/{id}.
// @Summary Busca um usuário pelo ID
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do usuário"
// @Success 200 {object} domain.Usuario
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /professores/{id} [get]
func (h *Handler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	usuario, err := h.Service.BuscarPorID(r.Context(), r.PathValue("id"))
	respond.Handle(w, r, h.Logger, usuario, err, http.StatusOK)
}

// UpdateHandler lida com PUT /professores/{id} e PUT /alunos/{id}.
// @Summary Atualiza nome, senha ou flag ativo de um usuário
// @Description O email é imutável após a criação.
// @Tags usuarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do usuário"
// @Param mudancas body domain.UsuarioAtualizacao true "Campos a atualizar"
// @Success 200 {object} domain.Usuario
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /professores/{id} [put]
func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	var mudancas domain.UsuarioAtualizacao
	if err := json.NewDecoder(r.Body).Decode(&mudancas); err != nil {
		respond.Handle(w, r, h.Logger, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	usuario, err := h.Service.Atualizar(r.Context(), r.PathValue("id"), mudancas)
	respond.Handle(w, r, h.Logger, usuario, err, http.StatusOK)
}

// DeleteHandler lida com DELETE /professores/{id} e DELETE /alunos/{id}.
// @Summary Deleta um usuário
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do usuário"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /professores/{id} [delete]
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Deletar(r.Context(), r.PathValue("id")); err != nil {
		respond.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	respond.Handle(w, r, h.Logger, MessageResponse{Message: "Usuário deletado com sucesso."}, nil, http.StatusOK)
}
