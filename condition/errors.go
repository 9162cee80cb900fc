package condition

import (
	"errors"
	"fmt"
)

// ErrEmptyFilter é retornado quando o filtro não tem nenhuma condição além
// da chave de projeção.
var ErrEmptyFilter = errors.New("condition: no conditions in filter")

// ErrEmptyProjection é retornado quando a chave de projeção está presente
// mas não lista nenhum atributo.
var ErrEmptyProjection = errors.New("condition: projection lists no attributes")

// ErrInvalidProjection é retornado quando a chave de projeção não é um
// texto nem uma lista de textos.
var ErrInvalidProjection = errors.New("condition: invalid projection")

// InvalidOperatorError é retornado quando o sufixo `__<operador>` da chave
// não é um dos operadores conhecidos.
type InvalidOperatorError struct {
	// Operator é o nome recebido (pode ser vazio se a chave não tem `__`).
	Operator string
}

func (e *InvalidOperatorError) Error() string {
	return fmt.Sprintf("condition: invalid operator %q", e.Operator)
}

// InvalidOperandError é retornado quando o valor associado a uma chave não
// combina com a aridade ou o tipo esperado pelo operador.
type InvalidOperandError struct {
	// Key é a chave original do filtro ou o caminho do atributo.
	Key string
	// Operator é o operador que rejeitou o valor.
	Operator Operator
	// Reason descreve o formato esperado.
	Reason string
}

func (e *InvalidOperandError) Error() string {
	return fmt.Sprintf("condition: invalid operand for %s on %q: %s", e.Operator, e.Key, e.Reason)
}
