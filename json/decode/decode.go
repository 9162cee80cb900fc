// Package decode lê JSON vindo da CLI e da API REST preservando a distinção
// entre inteiros e floats, que o adapter trata de forma diferente.
package decode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotObject é retornado por Object quando o documento não é um objeto.
var ErrNotObject = errors.New("decode: json document is not an object")

// Value decodifica um único documento JSON. Números sem parte fracionária
// viram int64, os demais float64.
func Value(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode: invalid json: %w", err)
	}
	if dec.More() {
		return nil, errors.New("decode: invalid json: trailing data")
	}
	return convertNumbers(v), nil
}

// Object decodifica um objeto JSON.
func Object(raw []byte) (map[string]any, error) {
	v, err := Value(raw)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return m, nil
}

// ValueOrString tenta decodificar como JSON e, se falhar, devolve o texto
// original. Usado em termos de filtro como `name__eq=Ana`.
func ValueOrString(raw string) any {
	v, err := Value([]byte(raw))
	if err != nil {
		return raw
	}
	return v
}

func convertNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		for i, e := range t {
			t[i] = convertNumbers(e)
		}
		return t
	case map[string]any:
		for k, e := range t {
			t[k] = convertNumbers(e)
		}
		return t
	default:
		return v
	}
}
