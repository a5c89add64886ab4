package usuariorepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"blogescola/internal/domain"
	apperror "blogescola/internal/errors"
	"blogescola/internal/pkg/logger"
)

// Repository implementa a persistência de usuários sobre uma tabela
// específica (professores ou alunos). As duas coleções têm o mesmo
// formato, então uma única implementação é instanciada duas vezes no
// main, cada uma com a tabela e a role fixas - a role vem sempre da
// coleção de origem, nunca de dados do cliente.
type Repository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	table     string
	role      domain.UserRole
	logger    logger.Logger
}

// NewProfessorRepository cria o repositório da coleção de professores.
func NewProfessorRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *Repository {
	return &Repository{DB: db, DBTimeout: dbTimeout, table: "professores", role: domain.RoleProfessor, logger: log}
}

// NewAlunoRepository cria o repositório da coleção de alunos.
func NewAlunoRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *Repository {
	return &Repository{DB: db, DBTimeout: dbTimeout, table: "alunos", role: domain.RoleAluno, logger: log}
}

// Role devolve a role fixa da coleção deste repositório.
func (r *Repository) Role() domain.UserRole {
	return r.role
}

// Save insere um novo usuário na coleção.
func (r *Repository) Save(ctx context.Context, usuario domain.Usuario) (domain.Usuario, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	usuario.ID = uuid.NewString()
	usuario.Role = r.role
	now := time.Now().UTC()
	usuario.CreatedAt = now
	usuario.UpdatedAt = now

	insertSQL := fmt.Sprintf(`INSERT INTO %s (id, nome, email, senha_hash, role, ativo, created_at, updated_at)
                  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, r.table)

	_, err := r.DB.ExecContext(
		ctxTimeout,
		insertSQL,
		usuario.ID,
		usuario.Nome,
		usuario.Email,
		usuario.SenhaHash,
		usuario.Role,
		usuario.Ativo,
		usuario.CreatedAt,
		usuario.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.Usuario{}, apperror.NewDBError("Falha ao inserir usuário.", err)
	}

	r.logger.Info("Usuário salvo no repositório.", map[string]interface{}{"user_id": usuario.ID, "tabela": r.table})
	return usuario, nil
}

// FindByEmail busca um usuário pelo endereço de e-mail.
func (r *Repository) FindByEmail(ctx context.Context, email string) (domain.Usuario, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT id, nome, email, senha_hash, role, ativo, created_at, updated_at
	          FROM %s WHERE email = $1`, r.table)

	row := r.DB.QueryRowContext(ctxTimeout, query, email)

	var usuario domain.Usuario
	err := row.Scan(
		&usuario.ID,
		&usuario.Nome,
		&usuario.Email,
		&usuario.SenhaHash,
		&usuario.Role,
		&usuario.Ativo,
		&usuario.CreatedAt,
		&usuario.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Usuario{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com email '%s' não encontrado.", email))
		}
		r.logger.Error("Falha ao buscar usuário por email no DB.", err)
		return domain.Usuario{}, apperror.NewDBError("Falha ao buscar usuário por email.", err)
	}

	return usuario, nil
}

// FindByID busca um usuário pelo identificador.
func (r *Repository) FindByID(ctx context.Context, id string) (domain.Usuario, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT id, nome, email, senha_hash, role, ativo, created_at, updated_at
	          FROM %s WHERE id = $1`, r.table)

	row := r.DB.QueryRowContext(ctxTimeout, query, id)

	var usuario domain.Usuario
	err := row.Scan(
		&usuario.ID,
		&usuario.Nome,
		&usuario.Email,
		&usuario.SenhaHash,
		&usuario.Role,
		&usuario.Ativo,
		&usuario.CreatedAt,
		&usuario.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Usuario{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não encontrado.", id))
		}
		r.logger.Error("Falha ao buscar usuário por ID no DB.", err)
		return domain.Usuario{}, apperror.NewDBError("Falha ao buscar usuário por ID.", err)
	}

	return usuario, nil
}

// FindAll lista todos os usuários da coleção, mais recentes primeiro.
func (r *Repository) FindAll(ctx context.Context) ([]domain.Usuario, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT id, nome, email, senha_hash, role, ativo, created_at, updated_at
	          FROM %s ORDER BY created_at DESC`, r.table)

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao listar usuários no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar usuários.", err)
	}
	defer rows.Close()

	usuarios := []domain.Usuario{}
	for rows.Next() {
		var usuario domain.Usuario
		if err := rows.Scan(
			&usuario.ID,
			&usuario.Nome,
			&usuario.Email,
			&usuario.SenhaHash,
			&usuario.Role,
			&usuario.Ativo,
			&usuario.CreatedAt,
			&usuario.UpdatedAt,
		); err != nil {
			return nil, apperror.NewDBError("Falha ao mapear usuário.", err)
		}
		usuarios = append(usuarios, usuario)
	}

	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar usuários.", err)
	}

	return usuarios, nil
}

// Update persiste nome, hash de senha e flag ativo. O email é imutável
// após a criação e fica fora do UPDATE de propósito.
func (r *Repository) Update(ctx context.Context, usuario domain.Usuario) (domain.Usuario, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	usuario.UpdatedAt = time.Now().UTC()

	updateSQL := fmt.Sprintf(`UPDATE %s SET nome = $2, senha_hash = $3, ativo = $4, updated_at = $5
	             WHERE id = $1`, r.table)

	result, err := r.DB.ExecContext(
		ctxTimeout,
		updateSQL,
		usuario.ID,
		usuario.Nome,
		usuario.SenhaHash,
		usuario.Ativo,
		usuario.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar usuário no DB.", err)
		return domain.Usuario{}, apperror.NewDBError("Falha ao atualizar usuário.", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Usuario{}, apperror.NewDBError("Falha ao verificar linhas afetadas.", err)
	}
	if affected == 0 {
		return domain.Usuario{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não encontrado.", usuario.ID))
	}

	return usuario, nil
}

// Delete remove um usuário pelo identificador. Não há soft-delete.
func (r *Repository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	deleteSQL := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)

	result, err := r.DB.ExecContext(ctxTimeout, deleteSQL, id)
	if err != nil {
		r.logger.Error("Falha ao deletar usuário no DB.", err)
		return apperror.NewDBError("Falha ao deletar usuário.", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas.", err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não encontrado.", id))
	}

	return nil
}
