package valuetree

import "strconv"

const (
	markerPrefix = "Float("
	markerSuffix = ")"
)

// Normalize devolve uma cópia limpa de v, pronta para ser persistida.
//
// Floats viram `Float(<repr>)`. Mapas e listas perdem os filhos que, depois
// de normalizados, são vazios, zero ou nil. Conjuntos perdem apenas os
// elementos de tamanho zero e seus elementos não são normalizados. Um escalar
// de tamanho zero no topo resulta em nil.
func Normalize(v any) any {
	switch t := v.(type) {
	case float64:
		return FloatMarker(t)
	case float32:
		return markerPrefix + strconv.FormatFloat(float64(t), 'g', -1, 32) + markerSuffix
	case Set:
		return normalizeSet(t)
	case []any:
		return normalizeSequence(t)
	case map[string]any:
		return normalizeMapping(t)
	}

	if n, ok := Len(v); ok && n == 0 {
		return nil
	}
	return v
}

// FloatMarker codifica f no formato `Float(<repr>)`.
func FloatMarker(f float64) string {
	return markerPrefix + strconv.FormatFloat(f, 'g', -1, 64) + markerSuffix
}

func normalizeSet(s Set) Set {
	out := make(Set, 0, len(s))
	for _, e := range s {
		if n, ok := Len(e); ok && n == 0 {
			continue
		}
		out = append(out, e)
	}
	return out
}

func normalizeSequence(seq []any) []any {
	out := make([]any, 0, len(seq))
	for _, e := range seq {
		clean := Normalize(e)
		if IsFalsy(clean) {
			continue
		}
		out = append(out, clean)
	}
	return out
}

func normalizeMapping(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, e := range m {
		clean := Normalize(e)
		if IsFalsy(clean) {
			continue
		}
		out[k] = clean
	}
	return out
}
