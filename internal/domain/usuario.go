package domain

import "time"

// Usuario representa um principal autenticável do sistema.
// Professores e alunos compartilham o mesmo formato, mas vivem em
// coleções (tabelas) separadas; a Role é fixada pela coleção de origem,
// nunca pelo payload do cliente.
type Usuario struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Email     string    `json:"email"`
	SenhaHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role      UserRole  `json:"role"`
	Ativo     bool      `json:"ativo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

// Papéis possíveis. Cada coleção carrega exatamente um deles.
const (
	RoleProfessor UserRole = "professor"
	RoleAluno     UserRole = "aluno"
)

// UsuarioResumo é a projeção do usuário devolvida no login e embutida
// nas claims do token. Nunca carrega o hash da senha.
type UsuarioResumo struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Nome  string   `json:"nome"`
	Role  UserRole `json:"role"`
}

// Resumo devolve a projeção pública do usuário.
func (u Usuario) Resumo() UsuarioResumo {
	return UsuarioResumo{
		ID:    u.ID,
		Email: u.Email,
		Nome:  u.Nome,
		Role:  u.Role,
	}
}

// UsuarioRegistro representa o payload de entrada para criação de um
// professor ou aluno (operação administrativa, restrita a professores).
type UsuarioRegistro struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// UsuarioAtualizacao representa o payload de atualização. Campos nil
// permanecem inalterados. O email é imutável após a criação e por isso
// não aparece aqui.
type UsuarioAtualizacao struct {
	Nome  *string `json:"nome"`
	Senha *string `json:"senha"`
	Ativo *bool   `json:"ativo"`
}
