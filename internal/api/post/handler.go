package post

import (
	"context"
	"encoding/json"
	"net/http"

	"blogescola/internal/api/respond"
	"blogescola/internal/domain"
	apperror "blogescola/internal/errors"
	"blogescola/internal/pkg/logger"
	"blogescola/internal/pkg/middleware"
)

// PostService define o contrato que o Handler espera da camada de Serviço.
type PostService interface {
	Criar(ctx context.Context, role domain.UserRole, input domain.PostInput) (domain.Post, error)
	Listar(ctx context.Context, role domain.UserRole) ([]domain.Post, error)
	BuscarPorID(ctx context.Context, role domain.UserRole, id string) (domain.Post, error)
	Buscar(ctx context.Context, role domain.UserRole, termo string) ([]domain.Post, error)
	Atualizar(ctx context.Context, role domain.UserRole, id string, input domain.PostInput) (domain.Post, error)
	Deletar(ctx context.Context, role domain.UserRole, id string) error
}

// MessageResponse é o corpo das respostas que só carregam uma mensagem.
type MessageResponse struct {
	Message string `json:"message"`
}

// Handler agrupa os métodos de Handler dos posts.
type Handler struct {
	Service PostService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc PostService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// claims extrai as claims anexadas pelo AuthMiddleware. Todas as rotas
// de posts passam pelo middleware, então a ausência indica rota mal
// montada - tratada como token não processado.
func (h *Handler) claims(w http.ResponseWriter, r *http.Request) (middleware.UserClaims, bool) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		respond.Handle(w, r, h.Logger, nil, apperror.NewUnauthorizedError("Token não fornecido."), http.StatusOK)
	}
	return claims, ok
}

// ListHandler lida com GET /posts.
// @Summary Lista os posts visíveis para o papel do chamador
// @Description Professores enxergam todos os posts; os demais papéis, apenas os ativos.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Post
// @Failure 401 {object} domain.ErrorResponse
// @Router /posts [get]
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	posts, err := h.Service.Listar(r.Context(), claims.Role)
	respond.Handle(w, r, h.Logger, posts, err, http.StatusOK)
}

// GetByIDHandler lida com GET /posts/{id}.
// @Summary Busca um post pelo ID
// @Description Post inativo responde 404 para papéis não-professor.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do post"
// @Success 200 {object} domain.Post
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /posts/{id} [get]
func (h *Handler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	post, err := h.Service.BuscarPorID(r.Context(), claims.Role, r.PathValue("id"))
	respond.Handle(w, r, h.Logger, post, err, http.StatusOK)
}

// SearchHandler lida com GET /posts/search?q=.
// @Summary Busca posts por título ou descrição
// @Description Busca por substring sem diferenciar maiúsculas. Aberta a professores e alunos; alunos só enxergam posts ativos.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param q query string true "Termo de busca"
// @Success 200 {array} domain.Post
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /posts/search [get]
func (h *Handler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	termo := r.URL.Query().Get("q")
	posts, err := h.Service.Buscar(r.Context(), claims.Role, termo)
	respond.Handle(w, r, h.Logger, posts, err, http.StatusOK)
}

// CreateHandler lida com POST /posts.
// @Summary Cria um novo post
// @Description Restrito a professores (papel insuficiente responde 401 neste recurso).
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post body domain.PostInput true "Dados do post"
// @Success 201 {object} domain.Post
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /posts [post]
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	var input domain.PostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Handle(w, r, h.Logger, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusCreated)
		return
	}

	post, err := h.Service.Criar(r.Context(), claims.Role, input)
	respond.Handle(w, r, h.Logger, post, err, http.StatusCreated)
}

// UpdateHandler lida com PUT /posts/{id}.
// @Summary Atualiza os campos próprios de um post
// @Description Restrito a professores. Um array de comentários enviado no payload é ignorado - comentários têm endpoints próprios.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do post"
// @Param post body domain.PostInput true "Campos a atualizar"
// @Success 200 {object} domain.Post
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /posts/{id} [put]
func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	var input domain.PostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Handle(w, r, h.Logger, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	post, err := h.Service.Atualizar(r.Context(), claims.Role, r.PathValue("id"), input)
	respond.Handle(w, r, h.Logger, post, err, http.StatusOK)
}

// DeleteHandler lida com DELETE /posts/{id}.
// @Summary Deleta um post
// @Description Restrito a professores.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do post"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /posts/{id} [delete]
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	err := h.Service.Deletar(r.Context(), claims.Role, r.PathValue("id"))
	if err != nil {
		respond.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	respond.Handle(w, r, h.Logger, MessageResponse{Message: "Post deletado com sucesso."}, nil, http.StatusOK)
}
