package valuetree

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifica a variante de um nó da árvore.
type Kind int

const (
	KindOther Kind = iota // nil, bool, inteiros, json.Number
	KindFloat
	KindString // string e []byte
	KindSequence
	KindSet
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindSet:
		return "set"
	case KindMapping:
		return "mapping"
	default:
		return "other"
	}
}

// Set é um conjunto não ordenado de elementos únicos.
//
// A ordem dos elementos não tem significado; ela é preservada apenas para
// que a conversão para os tipos de conjunto do DynamoDB (SS, NS, BS) seja
// determinística.
type Set []any

// NewSet cria um Set descartando elementos repetidos.
func NewSet(elems ...any) Set {
	seen := make(map[string]struct{}, len(elems))
	out := make(Set, 0, len(elems))
	for _, e := range elems {
		k := setKey(e)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}

func setKey(e any) string {
	switch v := e.(type) {
	case string:
		return "s:" + v
	case []byte:
		return "b:" + string(v)
	case float64:
		return "n:" + strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return "n:" + strconv.FormatFloat(float64(v), 'g', -1, 32)
	case json.Number:
		return "n:" + v.String()
	default:
		return fmt.Sprintf("%T:%v", e, e)
	}
}

// KindOf classifica v em uma das variantes suportadas.
func KindOf(v any) Kind {
	switch v.(type) {
	case float64, float32:
		return KindFloat
	case string, []byte:
		return KindString
	case []any:
		return KindSequence
	case Set:
		return KindSet
	case map[string]any:
		return KindMapping
	default:
		return KindOther
	}
}

// Len devolve o tamanho de valores que possuem tamanho (strings, bytes e
// contêineres). ok é false para os demais.
func Len(v any) (n int, ok bool) {
	switch t := v.(type) {
	case string:
		return len(t), true
	case []byte:
		return len(t), true
	case []any:
		return len(t), true
	case Set:
		return len(t), true
	case map[string]any:
		return len(t), true
	default:
		return 0, false
	}
}

// IsFalsy reporta se v deve ser descartado por um contêiner pai: nil,
// vazios e zeros numéricos. false não entra nessa regra.
func IsFalsy(v any) bool {
	if v == nil {
		return true
	}
	if n, ok := Len(v); ok {
		return n == 0
	}
	switch t := v.(type) {
	case int:
		return t == 0
	case int8:
		return t == 0
	case int16:
		return t == 0
	case int32:
		return t == 0
	case int64:
		return t == 0
	case uint:
		return t == 0
	case uint8:
		return t == 0
	case uint16:
		return t == 0
	case uint32:
		return t == 0
	case uint64:
		return t == 0
	case float64:
		return t == 0
	case float32:
		return t == 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	}
	return false
}
