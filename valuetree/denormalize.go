package valuetree

import (
	"fmt"
	"strconv"
	"strings"
)

// MarkerError é retornado quando uma string tem o formato `Float(...)` mas
// o conteúdo não é um número válido.
type MarkerError struct {
	// Value é a string marcadora completa encontrada na árvore.
	Value string
	// Err é o erro original do strconv.
	Err error
}

func (e *MarkerError) Error() string {
	return fmt.Sprintf("valuetree: malformed float marker %q: %v", e.Value, e.Err)
}

func (e *MarkerError) Unwrap() error {
	return e.Err
}

// Denormalize desfaz a marcação de floats feita por Normalize.
//
// Chaves de mapas nunca são alteradas. Um marcador malformado interrompe a
// conversão e é devolvido como *MarkerError.
func Denormalize(v any) (any, error) {
	switch t := v.(type) {
	case string:
		return denormalizeString(t)
	case Set:
		out := make(Set, 0, len(t))
		for _, e := range t {
			d, err := Denormalize(e)
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
		return out, nil
	case []any:
		out := make([]any, 0, len(t))
		for _, e := range t {
			d, err := Denormalize(e)
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
		return out, nil
	case map[string]any:
		return DenormalizeMap(t)
	default:
		return v, nil
	}
}

// DenormalizeMap é a versão de Denormalize para itens completos.
func DenormalizeMap(m map[string]any) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[string]any, len(m))
	for k, e := range m {
		d, err := Denormalize(e)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		out[k] = d
	}
	return out, nil
}

// MustDenormalize é similar ao Denormalize, mas panic em caso de erro
func MustDenormalize(v any) any {
	d, err := Denormalize(v)
	if err != nil {
		panic(err)
	}
	return d
}

// IsMarker reporta se s tem o formato de um marcador de float.
func IsMarker(s string) bool {
	return len(s) >= len(markerPrefix)+len(markerSuffix) &&
		strings.HasPrefix(s, markerPrefix) &&
		strings.HasSuffix(s, markerSuffix)
}

func denormalizeString(s string) (any, error) {
	if !IsMarker(s) {
		return s, nil
	}
	body := s[len(markerPrefix) : len(s)-len(markerSuffix)]
	f, err := strconv.ParseFloat(body, 64)
	if err != nil {
		return nil, &MarkerError{Value: s, Err: err}
	}
	return f, nil
}
