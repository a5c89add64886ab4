package comentario

import (
	"context"
	"encoding/json"
	"net/http"

	"blogescola/internal/api/respond"
	"blogescola/internal/domain"
	apperror "blogescola/internal/errors"
	"blogescola/internal/pkg/logger"
	"blogescola/internal/pkg/middleware"
	"blogescola/internal/service/comentarioservice"
)

// ComentarioService define o contrato que o Handler espera do motor de
// comentários.
type ComentarioService interface {
	Adicionar(ctx context.Context, postID string, autor comentarioservice.Autor, texto string) (domain.Post, error)
	Atualizar(ctx context.Context, postID, comentarioID string, autor comentarioservice.Autor, texto string) (domain.Post, error)
	Deletar(ctx context.Context, postID, comentarioID string, autor comentarioservice.Autor) (domain.Post, error)
}

// DeleteResponse é o corpo de sucesso da remoção de comentário:
// confirmação mais o post já sem o comentário.
type DeleteResponse struct {
	Message string      `json:"message"`
	Post    domain.Post `json:"post"`
}

// Handler agrupa os métodos de Handler dos comentários.
type Handler struct {
	Service ComentarioService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ComentarioService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// autor monta o Autor da operação a partir das claims do token. Nome e
// role nunca vêm do corpo da requisição.
func (h *Handler) autor(w http.ResponseWriter, r *http.Request) (comentarioservice.Autor, bool) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		respond.Handle(w, r, h.Logger, nil, apperror.NewUnauthorizedError("Token não fornecido."), http.StatusOK)
		return comentarioservice.Autor{}, false
	}
	return comentarioservice.Autor{Nome: claims.Nome, Role: claims.Role}, true
}

// decodeTexto decodifica o payload {"comentario": "..."} dos endpoints
// de escrita.
func (h *Handler) decodeTexto(w http.ResponseWriter, r *http.Request, successStatus int) (string, bool) {
	var input domain.ComentarioInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Handle(w, r, h.Logger, nil, apperror.NewValidationError("Payload JSON inválido."), successStatus)
		return "", false
	}
	return input.Texto, true
}

// AddHandler lida com POST /posts/{id}/comentarios.
// @Summary Adiciona um comentário a um post
// @Description Anexa o comentário ao final da lista. Autor e role são copiados das claims do token.
// @Tags comentarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do post"
// @Param comentario body domain.ComentarioInput true "Texto do comentário"
// @Success 201 {object} domain.Post
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /posts/{id}/comentarios [post]
func (h *Handler) AddHandler(w http.ResponseWriter, r *http.Request) {
	autor, ok := h.autor(w, r)
	if !ok {
		return
	}

	texto, ok := h.decodeTexto(w, r, http.StatusCreated)
	if !ok {
		return
	}

	post, err := h.Service.Adicionar(r.Context(), r.PathValue("id"), autor, texto)
	respond.Handle(w, r, h.Logger, post, err, http.StatusCreated)
}

// UpdateHandler lida com PUT /posts/{id}/comentarios/{cid}.
// @Summary Atualiza o texto de um comentário
// @Description Permitido apenas ao par exato (autor, role) que criou o comentário.
// @Tags comentarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do post"
// @Param cid path string true "ID do comentário"
// @Param comentario body domain.ComentarioInput true "Novo texto"
// @Success 200 {object} domain.Post
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /posts/{id}/comentarios/{cid} [put]
func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	autor, ok := h.autor(w, r)
	if !ok {
		return
	}

	texto, ok := h.decodeTexto(w, r, http.StatusOK)
	if !ok {
		return
	}

	post, err := h.Service.Atualizar(r.Context(), r.PathValue("id"), r.PathValue("cid"), autor, texto)
	respond.Handle(w, r, h.Logger, post, err, http.StatusOK)
}

// DeleteHandler lida com DELETE /posts/{id}/comentarios/{cid}.
// @Summary Deleta um comentário
// @Description Permitido ao próprio autor ou a um professor sobre comentário de aluno. Professor não deleta comentário de outro professor.
// @Tags comentarios
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do post"
// @Param cid path string true "ID do comentário"
// @Success 200 {object} DeleteResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /posts/{id}/comentarios/{cid} [delete]
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	autor, ok := h.autor(w, r)
	if !ok {
		return
	}

	post, err := h.Service.Deletar(r.Context(), r.PathValue("id"), r.PathValue("cid"), autor)
	if err != nil {
		respond.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	respond.Handle(w, r, h.Logger, DeleteResponse{
		Message: "Comentário deletado com sucesso.",
		Post:    post,
	}, nil, http.StatusOK)
}
