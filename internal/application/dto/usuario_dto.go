package dto

// LoginRequest credenciais de login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UsuarioResponse dados públicos do usuário autenticado.
type UsuarioResponse struct {
	ID        string `json:"id"`
	ClienteID string `json:"cliente_id"`
	EmpresaID string `json:"empresa_id"`
	Email     string `json:"email"`
	Nome      string `json:"nome"`
	Role      string `json:"role"`
}

// LoginResponse token + usuário.
type LoginResponse struct {
	Token   string          `json:"token"`
	Usuario UsuarioResponse `json:"usuario"`
}
