package postrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"blogescola/internal/domain"
	apperror "blogescola/internal/errors"
	"blogescola/internal/pkg/cache"
	"blogescola/internal/pkg/logger"
)

// Chave de cache para posts individuais.
const postCacheKey = "post:%s"

// Repository implementa a persistência de posts. Os comentários são
// armazenados como coluna JSONB do próprio post - o agregado inteiro é
// lido e reescrito a cada mutação de comentário, sem identidade
// independente no banco.
type Repository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewPostRepository cria e retorna uma nova instância do Repositório,
// injetando as dependências de infraestrutura (DB e Cache).
func NewPostRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, log logger.Logger) *Repository {
	return &Repository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    log,
	}
}

// scanPost mapeia uma linha de posts, desserializando a coluna JSONB
// de comentários.
func scanPost(scanner interface{ Scan(...interface{}) error }) (domain.Post, error) {
	var post domain.Post
	var comentariosJSON []byte

	err := scanner.Scan(
		&post.ID,
		&post.Titulo,
		&post.Conteudo,
		&post.Autor,
		&post.Descricao,
		&post.Ativo,
		&comentariosJSON,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return domain.Post{}, err
	}

	post.Comentarios = []domain.Comentario{}
	if len(comentariosJSON) > 0 {
		if err := json.Unmarshal(comentariosJSON, &post.Comentarios); err != nil {
			return domain.Post{}, err
		}
	}

	return post, nil
}

// Save persiste um novo Post (e sua lista inicial de comentários, em
// geral vazia) no banco de dados.
func (r *Repository) Save(ctx context.Context, post domain.Post) (domain.Post, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if post.Comentarios == nil {
		post.Comentarios = []domain.Comentario{}
	}
	comentariosJSON, err := json.Marshal(post.Comentarios)
	if err != nil {
		return domain.Post{}, apperror.NewInternalError("Falha ao serializar comentários.", err)
	}

	const insertSQL = `INSERT INTO posts (id, titulo, conteudo, autor, descricao, ativo, comentarios, created_at, updated_at)
	                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.DB.ExecContext(ctxTimeout, insertSQL,
		post.ID,
		post.Titulo,
		post.Conteudo,
		post.Autor,
		post.Descricao,
		post.Ativo,
		comentariosJSON,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir post no DB.", err)
		return domain.Post{}, apperror.NewDBError("Falha ao inserir post.", err)
	}

	return post, nil
}

// FindByID busca um post pelo ID, utilizando a estratégia Cache-Aside.
func (r *Repository) FindByID(ctx context.Context, id string) (domain.Post, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(postCacheKey, id)

	// 1. Tentar obter do Cache (Redis)
	cachedData, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		var post domain.Post
		if json.Unmarshal([]byte(cachedData), &post) == nil {
			return post, nil
		}
		// Desserialização falhou: segue para o DB
	} else if err != cache.ErrCacheMiss {
		// Erro real de cache (ex: conexão perdida): logar e seguir para o DB
		r.logger.Warn("Falha ao ler post do cache.", map[string]interface{}{"post_id": id, "erro": err.Error()})
	}

	// 2. Busca no Banco de Dados (PostgreSQL)
	const query = `SELECT id, titulo, conteudo, autor, descricao, ativo, comentarios, created_at, updated_at
	               FROM posts WHERE id = $1`

	post, err := scanPost(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, apperror.NewNotFoundError("Post não encontrado.")
		}
		r.logger.Error("Falha ao buscar post no DB.", err)
		return domain.Post{}, apperror.NewDBError("Falha ao buscar post.", err)
	}

	// 3. Popular o cache para futuras leituras
	if postJSON, marshalErr := json.Marshal(post); marshalErr == nil {
		r.Cache.Set(ctxTimeout, key, postJSON, r.CacheTTL)
	}

	return post, nil
}

// FindAll lista os posts, mais recentes primeiro. Com somenteAtivos o
// filtro de visibilidade de papéis não-professor é aplicado na query.
func (r *Repository) FindAll(ctx context.Context, somenteAtivos bool) ([]domain.Post, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT id, titulo, conteudo, autor, descricao, ativo, comentarios, created_at, updated_at
	          FROM posts`
	if somenteAtivos {
		query += ` WHERE ativo = true`
	}
	query += ` ORDER BY created_at DESC`

	return r.queryPosts(ctxTimeout, query)
}

// Search busca posts por substring de título ou descrição, sem
// diferenciar maiúsculas de minúsculas (ILIKE).
func (r *Repository) Search(ctx context.Context, termo string, somenteAtivos bool) ([]domain.Post, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT id, titulo, conteudo, autor, descricao, ativo, comentarios, created_at, updated_at
	          FROM posts WHERE (titulo ILIKE '%' || $1 || '%' OR descricao ILIKE '%' || $1 || '%')`
	if somenteAtivos {
		query += ` AND ativo = true`
	}
	query += ` ORDER BY created_at DESC`

	return r.queryPosts(ctxTimeout, query, termo)
}

func (r *Repository) queryPosts(ctx context.Context, query string, args ...interface{}) ([]domain.Post, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar posts no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar posts.", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao mapear post.", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar posts.", err)
	}

	return posts, nil
}

// Update persiste apenas os campos próprios do post. A coluna de
// comentários fica fora do SET de propósito: a mutação de comentários
// tem seus próprios endpoints e passa por UpdateComentarios.
func (r *Repository) Update(ctx context.Context, post domain.Post) (domain.Post, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	post.UpdatedAt = time.Now().UTC()

	const updateSQL = `UPDATE posts SET titulo = $2, conteudo = $3, autor = $4, descricao = $5, ativo = $6, updated_at = $7
	                   WHERE id = $1`

	result, err := r.DB.ExecContext(ctxTimeout, updateSQL,
		post.ID,
		post.Titulo,
		post.Conteudo,
		post.Autor,
		post.Descricao,
		post.Ativo,
		post.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar post no DB.", err)
		return domain.Post{}, apperror.NewDBError("Falha ao atualizar post.", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Post{}, apperror.NewDBError("Falha ao verificar linhas afetadas.", err)
	}
	if affected == 0 {
		return domain.Post{}, apperror.NewNotFoundError("Post não encontrado.")
	}

	r.invalidate(ctxTimeout, post.ID)
	return post, nil
}

// UpdateComentarios reescreve a lista inteira de comentários do post.
// É o único caminho de escrita da coluna JSONB.
func (r *Repository) UpdateComentarios(ctx context.Context, postID string, comentarios []domain.Comentario) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if comentarios == nil {
		comentarios = []domain.Comentario{}
	}
	comentariosJSON, err := json.Marshal(comentarios)
	if err != nil {
		return apperror.NewInternalError("Falha ao serializar comentários.", err)
	}

	const updateSQL = `UPDATE posts SET comentarios = $2, updated_at = $3 WHERE id = $1`

	result, err := r.DB.ExecContext(ctxTimeout, updateSQL, postID, comentariosJSON, time.Now().UTC())
	if err != nil {
		r.logger.Error("Falha ao atualizar comentários no DB.", err)
		return apperror.NewDBError("Falha ao atualizar comentários.", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas.", err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError("Post não encontrado.")
	}

	r.invalidate(ctxTimeout, postID)
	return nil
}

// Delete remove um post (e, com ele, todos os comentários embutidos).
func (r *Repository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const deleteSQL = `DELETE FROM posts WHERE id = $1`

	result, err := r.DB.ExecContext(ctxTimeout, deleteSQL, id)
	if err != nil {
		r.logger.Error("Falha ao deletar post no DB.", err)
		return apperror.NewDBError("Falha ao deletar post.", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas.", err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError("Post não encontrado.")
	}

	r.invalidate(ctxTimeout, id)
	return nil
}

// invalidate remove a entrada de cache do post após qualquer escrita.
func (r *Repository) invalidate(ctx context.Context, id string) {
	key := fmt.Sprintf(postCacheKey, id)
	if err := r.Cache.Delete(ctx, key); err != nil {
		r.logger.Warn("Falha ao invalidar cache do post.", map[string]interface{}{"post_id": id, "erro": err.Error()})
	}
}
