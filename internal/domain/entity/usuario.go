package entity

import "time"

// Papéis válidos para Usuario.
const (
	RoleAdmin    = "admin"
	RoleGerente  = "gerente"
	RoleOperador = "operador"
)

// Usuario representa um usuário do sistema (pertence a um cliente/empresa).
type Usuario struct {
	ID           string
	ClienteID    string
	EmpresaID    string
	Email        string
	PasswordHash string // hash bcrypt
	Nome         string
	Role         string
	Ativo        bool
	CriadoEm     time.Time
}

// Tenant devolve o tenant do usuário.
func (u *Usuario) Tenant() Tenant {
	return Tenant{ClienteID: u.ClienteID, EmpresaID: u.EmpresaID}
}
