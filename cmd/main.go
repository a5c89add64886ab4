package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Pacotes de infraestrutura e utilitários
	"blogescola/config"
	"blogescola/internal/pkg/cache"
	"blogescola/internal/pkg/database"
	"blogescola/internal/pkg/logger"
	"blogescola/internal/pkg/token"

	// Camadas da aplicação para Injeção de Dependências
	"blogescola/internal/api/auth"
	"blogescola/internal/api/comentario"
	"blogescola/internal/api/post"
	"blogescola/internal/api/router"
	"blogescola/internal/api/usuario"
	"blogescola/internal/repository/postrepo"
	"blogescola/internal/repository/usuariorepo"
	"blogescola/internal/service/authservice"
	"blogescola/internal/service/comentarioservice"
	"blogescola/internal/service/postservice"
	"blogescola/internal/service/usuarioservice"
)

func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando API BlogEscola...")

	// O godotenv.Load() procura por um arquivo .env na raiz. Se não
	// existir, seguimos com as variáveis do ambiente do sistema.
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	appLog := logger.NewLogger(cfg.LogLevel)
	appLog.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	appLog.Info("Conexão Redis estabelecida.", nil)

	// C. Serviço de Tokens (JWT, validade de 24h por padrão)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	// 3. Injeção de Dependências (Repository -> Service -> Handler)

	// A. Repositórios: uma instância por coleção de credenciais
	professorRepo := usuariorepo.NewProfessorRepository(db, cfg.DBTimeout, appLog)
	alunoRepo := usuariorepo.NewAlunoRepository(db, cfg.DBTimeout, appLog)
	postRepo := postrepo.NewPostRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, appLog)
	appLog.Debug("Repositórios inicializados.", nil)

	// B. Serviços
	authSvc := authservice.NewService(professorRepo, alunoRepo, tokenSvc, cfg.PalavraPasse, appLog)
	professorSvc := usuarioservice.NewService(professorRepo, alunoRepo, appLog)
	alunoSvc := usuarioservice.NewService(alunoRepo, professorRepo, appLog)
	postSvc := postservice.NewService(postRepo, appLog)
	comentarioSvc := comentarioservice.NewService(postRepo, appLog)
	appLog.Debug("Serviços inicializados.", nil)

	// C. Handlers
	handlers := router.Handlers{
		Auth:       auth.NewHandler(authSvc, appLog),
		Post:       post.NewHandler(postSvc, appLog),
		Comentario: comentario.NewHandler(comentarioSvc, appLog),
		Professor:  usuario.NewHandler(professorSvc, appLog),
		Aluno:      usuario.NewHandler(alunoSvc, appLog),
	}
	appLog.Debug("Handlers inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(handlers, tokenSvc, cacheClient, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Servidor BlogEscola ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}
