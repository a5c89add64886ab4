package router

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"blogescola/config"
	"blogescola/internal/api/auth"
	"blogescola/internal/api/comentario"
	"blogescola/internal/api/post"
	"blogescola/internal/api/usuario"
	"blogescola/internal/domain"
	"blogescola/internal/pkg/cache"
	"blogescola/internal/pkg/middleware"
)

// Handlers agrupa os handlers já inicializados por injeção de dependências.
type Handlers struct {
	Auth       *auth.Handler
	Post       *post.Handler
	Comentario *comentario.Handler
	Professor  *usuario.Handler
	Aluno      *usuario.Handler
}

// NewRouter configura e retorna o roteador HTTP principal.
//
// Camadas de autorização, na ordem de avaliação:
//  1. authMw - valida o bearer token em toda rota protegida (401);
//  2. profMw - guarda de papel dos recursos administrativos (403);
//     as rotas de posts não a usam: lá a checagem vive no serviço e
//     responde 401, comportamento herdado que os clientes esperam.
func NewRouter(h Handlers, tokenSvc middleware.TokenService, cacheClient cache.Client, cfg *config.Config) http.Handler {

	// Usamos o ServeMux padrão do net/http com patterns de método.
	mux := http.NewServeMux()

	authMw := middleware.NewAuthMiddleware(tokenSvc)
	profMw := middleware.PermissionMiddleware(domain.RoleProfessor)
	rateLimit := middleware.RateLimiter(cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)

	// --- 1. Health Check e documentação ---
	mux.HandleFunc("GET /ping", PingHandler)
	mux.Handle("GET /swagger/", httpSwagger.Handler())

	// --- 2. Autenticação ---
	mux.HandleFunc("POST /login", rateLimit(h.Auth.LoginHandler))

	// --- 3. Posts (token obrigatório; papel checado no serviço) ---
	mux.HandleFunc("GET /posts", authMw(h.Post.ListHandler))
	mux.HandleFunc("POST /posts", authMw(h.Post.CreateHandler))
	mux.HandleFunc("GET /posts/search", authMw(h.Post.SearchHandler))
	mux.HandleFunc("GET /posts/{id}", authMw(h.Post.GetByIDHandler))
	mux.HandleFunc("PUT /posts/{id}", authMw(h.Post.UpdateHandler))
	mux.HandleFunc("DELETE /posts/{id}", authMw(h.Post.DeleteHandler))

	// --- 4. Comentários (sub-recurso do post) ---
	mux.HandleFunc("POST /posts/{id}/comentarios", authMw(h.Comentario.AddHandler))
	mux.HandleFunc("PUT /posts/{id}/comentarios/{cid}", authMw(h.Comentario.UpdateHandler))
	mux.HandleFunc("DELETE /posts/{id}/comentarios/{cid}", authMw(h.Comentario.DeleteHandler))

	// --- 5. Administração de usuários (token + guarda de professor) ---
	registrarUsuarios(mux, "/professores", h.Professor, authMw, profMw)
	registrarUsuarios(mux, "/alunos", h.Aluno, authMw, profMw)

	return mux
}

// registrarUsuarios monta o CRUD de uma coleção de usuários sob o
// prefixo informado, sempre atrás da cadeia token → professor.
func registrarUsuarios(mux *http.ServeMux, prefixo string, h *usuario.Handler, authMw, profMw func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("POST "+prefixo, authMw(profMw(h.CreateHandler)))
	mux.HandleFunc("GET "+prefixo, authMw(profMw(h.ListHandler)))
	mux.HandleFunc("GET "+prefixo+"/{id}", authMw(profMw(h.GetByIDHandler)))
	mux.HandleFunc("PUT "+prefixo+"/{id}", authMw(profMw(h.UpdateHandler)))
	mux.HandleFunc("DELETE "+prefixo+"/{id}", authMw(profMw(h.DeleteHandler)))
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
