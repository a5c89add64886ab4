package domain

import "time"

// Post representa uma publicação do blog. Os comentários são um
// agregado embutido: vivem dentro do Post, em ordem de inserção, e não
// têm identidade fora dele. Toda mutação de comentário reescreve a
// lista inteira no repositório.
type Post struct {
	ID          string       `json:"id"`
	Titulo      string       `json:"titulo"`
	Conteudo    string       `json:"conteudo"`
	Autor       string       `json:"autor"` // Nome de exibição livre, não é chave estrangeira
	Descricao   string       `json:"descricao"`
	Ativo       bool         `json:"ativo"`
	Comentarios []Comentario `json:"comentarios"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Comentario é um valor embutido no Post. Autor e Role são copiados
// das claims do token no momento da criação e nunca mudam depois -
// é esse par que as regras de propriedade comparam.
type Comentario struct {
	ID        string    `json:"id"`
	Autor     string    `json:"autor"`
	Role      UserRole  `json:"role"`
	Texto     string    `json:"comentario"`
	CreatedAt time.Time `json:"created_at"`
}

// PostInput representa o payload de criação/atualização de um post.
// O campo Comentarios é aceito no JSON por compatibilidade, mas a
// atualização genérica de post NUNCA toca na lista de comentários -
// ela tem endpoints próprios.
type PostInput struct {
	Titulo      string       `json:"titulo"`
	Conteudo    string       `json:"conteudo"`
	Autor       string       `json:"autor"`
	Descricao   string       `json:"descricao"`
	Ativo       *bool        `json:"ativo"`
	Comentarios []Comentario `json:"comentarios"`
}

// ComentarioInput representa o payload dos endpoints de comentário.
// Autor e role vêm sempre do token, nunca do corpo da requisição.
type ComentarioInput struct {
	Texto string `json:"comentario"`
}
