package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Erros de domínio (sem dependências de infraestrutura).
var (
	ErrNotFound          = errors.New("registro não encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("registro duplicado")
	ErrUnauthorized      = errors.New("não autorizado")
	ErrForbidden         = errors.New("acesso negado")
	ErrConflict          = errors.New("conflito com o estado atual")
	ErrInsufficientStock = errors.New("estoque insuficiente")
	ErrInvalidTransition = errors.New("transição de status inválida")
)

// ValidationError carrega uma mensagem pronta para exibição ao usuário.
// errors.Is(err, ErrInvalidInput) é verdadeiro.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError formata uma ValidationError.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError indica que a operação viola uma regra de integridade (referência em uso,
// status terminal, etc.). errors.Is(err, ErrConflict) é verdadeiro.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// NewConflictError formata uma ConflictError.
func NewConflictError(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// DuplicateError indica violação de nome único. errors.Is(err, ErrDuplicate) é verdadeiro.
type DuplicateError struct {
	Msg string
}

func (e *DuplicateError) Error() string { return e.Msg }

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// InsufficientStockError descreve qual insumo não tem saldo para a quantidade pedida.
type InsufficientStockError struct {
	Insumo     string
	Disponivel decimal.Decimal
	Necessario decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Estoque insuficiente para o insumo %s. Disponível: %s kg, necessário: %s kg, falta: %s kg",
		e.Insumo, e.Disponivel.StringFixed(2), e.Necessario.StringFixed(2), e.Falta().StringFixed(2))
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// Falta devolve quanto falta em kg para atender a quantidade necessária.
func (e *InsufficientStockError) Falta() decimal.Decimal {
	return e.Necessario.Sub(e.Disponivel)
}
