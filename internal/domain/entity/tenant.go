package entity

// Tenant identifica o cliente (conta) e a empresa donos de um registro.
// Toda consulta filtra pelos dois campos.
type Tenant struct {
	ClienteID string
	EmpresaID string
}

// Valid indica se os dois identificadores estão presentes.
func (t Tenant) Valid() bool {
	return t.ClienteID != "" && t.EmpresaID != ""
}
