package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"blogescola/internal/api/respond"
	"blogescola/internal/domain"
	apperror "blogescola/internal/errors"
	"blogescola/internal/pkg/logger"
	"blogescola/internal/service/authservice"
)

// AuthService define o contrato que o Handler espera do autenticador.
type AuthService interface {
	Login(ctx context.Context, email, senha, palavraPasse string) (authservice.LoginResult, error)
}

// LoginRequest representa o payload de entrada do login. Além das
// credenciais, o cliente precisa apresentar a palavra-passe
// compartilhada - um segundo fator fixo checado antes de qualquer
// consulta ao banco.
type LoginRequest struct {
	Email        string `json:"email"`
	Senha        string `json:"senha"`
	PalavraPasse string `json:"palavra-passe"`
}

// LoginResponse é o corpo de sucesso do login.
type LoginResponse struct {
	Message string               `json:"message"`
	Token   string               `json:"token"`
	User    domain.UsuarioResumo `json:"user"`
}

// Handler agrupa os métodos de Handler da autenticação.
type Handler struct {
	Service AuthService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc AuthService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// LoginHandler lida com a requisição POST /login.
// @Summary Autentica um usuário e retorna um JWT
// @Description Valida a palavra-passe compartilhada e as credenciais contra as coleções de professores e alunos, nessa ordem, e emite um token com validade de 24 horas.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Credenciais (email, senha e palavra-passe)"
// @Success 200 {object} LoginResponse "Token JWT emitido"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Palavra-passe ou credenciais inválidas, ou usuário inativo"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /login [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Handle(w, r, h.Logger, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	if req.Email == "" || req.Senha == "" || req.PalavraPasse == "" {
		respond.Handle(w, r, h.Logger, nil, apperror.NewValidationError("Email, senha e palavra-passe são obrigatórios."), http.StatusOK)
		return
	}

	result, err := h.Service.Login(ctx, req.Email, req.Senha, req.PalavraPasse)
	if err != nil {
		respond.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	respond.Handle(w, r, h.Logger, LoginResponse{
		Message: "Login realizado com sucesso.",
		Token:   result.Token,
		User:    result.Usuario,
	}, nil, http.StatusOK)
}
