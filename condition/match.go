package condition

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/raywall/dynadapter/valuetree"
)

// Match avalia a árvore contra um item já carregado em memória, seguindo a
// semântica das FilterExpressions do DynamoDB. Um predicado nil aceita tudo.
func Match(p Predicate, item map[string]any) bool {
	switch n := p.(type) {
	case nil:
		return true
	case *Or:
		return Match(n.Left, item) || Match(n.Right, item)
	case *Comparison:
		return matchComparison(n, item)
	default:
		return false
	}
}

func matchComparison(c *Comparison, item map[string]any) bool {
	if len(c.Args) != c.Operator.Arity() {
		return false
	}

	v, found := Lookup(item, c.Path)

	switch c.Operator {
	case Exists:
		return found
	case NotExists:
		return !found
	case Ne:
		return !found || !equal(v, c.Args[0])
	}

	if !found {
		return false
	}

	switch c.Operator {
	case Eq:
		return equal(v, c.Args[0])
	case Lt:
		cmp, ok := compare(v, c.Args[0])
		return ok && cmp < 0
	case Lte:
		cmp, ok := compare(v, c.Args[0])
		return ok && cmp <= 0
	case Gt:
		cmp, ok := compare(v, c.Args[0])
		return ok && cmp > 0
	case Gte:
		cmp, ok := compare(v, c.Args[0])
		return ok && cmp >= 0
	case Between:
		lo, okLo := compare(v, c.Args[0])
		hi, okHi := compare(v, c.Args[1])
		return okLo && okHi && lo >= 0 && hi <= 0
	case BeginsWith:
		switch t := v.(type) {
		case string:
			prefix, ok := c.Args[0].(string)
			return ok && strings.HasPrefix(t, prefix)
		case []byte:
			prefix, ok := c.Args[0].([]byte)
			return ok && bytes.HasPrefix(t, prefix)
		}
		return false
	case Contains:
		return contains(v, c.Args[0])
	case IsIn:
		values, ok := asSequence(c.Args[0])
		if !ok {
			return false
		}
		for _, candidate := range values {
			if equal(v, candidate) {
				return true
			}
		}
		return false
	case Size:
		n, ok := valuetree.Len(v)
		return ok && n > 0
	}
	return false
}

// Lookup resolve um caminho como "a.b[0].c" dentro do item.
func Lookup(item map[string]any, path string) (any, bool) {
	var cur any = item
	for _, seg := range strings.Split(path, ".") {
		name, indexes, ok := splitIndexes(seg)
		if !ok {
			return nil, false
		}
		m, isMap := cur.(map[string]any)
		if !isMap {
			return nil, false
		}
		if cur, ok = m[name]; !ok {
			return nil, false
		}
		for _, i := range indexes {
			list, isList := cur.([]any)
			if !isList || i < 0 || i >= len(list) {
				return nil, false
			}
			cur = list[i]
		}
	}
	return cur, true
}

// Project devolve um novo item contendo apenas os caminhos pedidos.
func Project(item map[string]any, paths []string) map[string]any {
	out := make(map[string]any)
	for _, p := range paths {
		v, ok := Lookup(item, p)
		if !ok {
			continue
		}
		place(out, strings.Split(p, "."), v)
	}
	return out
}

func place(dst map[string]any, segs []string, v any) {
	name, indexes, _ := splitIndexes(segs[0])
	if len(indexes) > 0 {
		// elementos de lista projetados são devolvidos em sequência
		list, _ := dst[name].([]any)
		if len(segs) == 1 {
			dst[name] = append(list, v)
			return
		}
		child := make(map[string]any)
		place(child, segs[1:], v)
		dst[name] = append(list, child)
		return
	}
	if len(segs) == 1 {
		dst[name] = v
		return
	}
	child, ok := dst[name].(map[string]any)
	if !ok {
		child = make(map[string]any)
		dst[name] = child
	}
	place(child, segs[1:], v)
}

func splitIndexes(seg string) (string, []int, bool) {
	open := strings.IndexByte(seg, '[')
	if open < 0 {
		return seg, nil, seg != ""
	}
	name, rest := seg[:open], seg[open:]
	var indexes []int
	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end < 0 {
			return "", nil, false
		}
		i, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, i)
		rest = rest[end+1:]
	}
	return name, indexes, name != ""
}

func contains(v, arg any) bool {
	switch t := v.(type) {
	case string:
		s, ok := arg.(string)
		return ok && strings.Contains(t, s)
	case []byte:
		b, ok := arg.([]byte)
		return ok && bytes.Contains(t, b)
	case []any:
		for _, e := range t {
			if equal(e, arg) {
				return true
			}
		}
	case valuetree.Set:
		for _, e := range t {
			if equal(e, arg) {
				return true
			}
		}
	}
	return false
}

func equal(a, b any) bool {
	if cmp, ok := compare(a, b); ok {
		return cmp == 0
	}
	return reflect.DeepEqual(a, b)
}

// compare ordena números entre si, strings entre si e bytes entre si.
func compare(a, b any) (int, bool) {
	if ai, ok := integer(a); ok {
		if bi, ok := integer(b); ok {
			switch {
			case ai < bi:
				return -1, true
			case ai > bi:
				return 1, true
			}
			return 0, true
		}
	}
	if af, ok := number(a); ok {
		if bf, ok := number(b); ok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			}
			return 0, true
		}
		return 0, false
	}
	switch at := a.(type) {
	case string:
		if bt, ok := b.(string); ok {
			return strings.Compare(at, bt), true
		}
	case []byte:
		if bt, ok := b.([]byte); ok {
			return bytes.Compare(at, bt), true
		}
	}
	return 0, false
}

func integer(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case json.Number:
		i, err := t.Int64()
		return i, err == nil
	}
	return 0, false
}

func number(v any) (float64, bool) {
	if i, ok := integer(v); ok {
		return float64(i), true
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}
	return 0, false
}
