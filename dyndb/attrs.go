package dyndb

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/raywall/dynadapter/valuetree"
)

// ToAttributeMap converte um item em AttributeValues.
func ToAttributeMap(item map[string]any) (map[string]types.AttributeValue, error) {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		av, err := ToAttribute(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		out[k] = av
	}
	return out, nil
}

// ToAttribute converte um valor da árvore em AttributeValue. Sets viram
// SS, NS ou BS conforme o tipo dos elementos; tipos desconhecidos caem no
// marshaller do SDK.
func ToAttribute(v any) (types.AttributeValue, error) {
	switch t := v.(type) {
	case nil:
		return &types.AttributeValueMemberNULL{Value: true}, nil
	case bool:
		return &types.AttributeValueMemberBOOL{Value: t}, nil
	case string:
		return &types.AttributeValueMemberS{Value: t}, nil
	case []byte:
		return &types.AttributeValueMemberB{Value: t}, nil
	case float64:
		return &types.AttributeValueMemberN{Value: strconv.FormatFloat(t, 'g', -1, 64)}, nil
	case float32:
		return &types.AttributeValueMemberN{Value: strconv.FormatFloat(float64(t), 'g', -1, 32)}, nil
	case json.Number:
		return &types.AttributeValueMemberN{Value: t.String()}, nil
	case []any:
		list := make([]types.AttributeValue, 0, len(t))
		for i, e := range t {
			av, err := ToAttribute(e)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			list = append(list, av)
		}
		return &types.AttributeValueMemberL{Value: list}, nil
	case map[string]any:
		m, err := ToAttributeMap(t)
		if err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberM{Value: m}, nil
	case valuetree.Set:
		return setAttribute(t)
	}

	if n, ok := integerString(v); ok {
		return &types.AttributeValueMemberN{Value: n}, nil
	}
	return attributevalue.Marshal(v)
}

func setAttribute(set valuetree.Set) (types.AttributeValue, error) {
	if len(set) == 0 {
		return nil, fmt.Errorf("dyndb: empty sets cannot be stored")
	}

	switch set[0].(type) {
	case string:
		ss := make([]string, 0, len(set))
		for _, e := range set {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("dyndb: mixed set element %T", e)
			}
			ss = append(ss, s)
		}
		return &types.AttributeValueMemberSS{Value: ss}, nil
	case []byte:
		bs := make([][]byte, 0, len(set))
		for _, e := range set {
			b, ok := e.([]byte)
			if !ok {
				return nil, fmt.Errorf("dyndb: mixed set element %T", e)
			}
			bs = append(bs, b)
		}
		return &types.AttributeValueMemberBS{Value: bs}, nil
	}

	ns := make([]string, 0, len(set))
	for _, e := range set {
		av, err := ToAttribute(e)
		if err != nil {
			return nil, err
		}
		n, ok := av.(*types.AttributeValueMemberN)
		if !ok {
			return nil, fmt.Errorf("dyndb: unsupported set element %T", e)
		}
		ns = append(ns, n.Value)
	}
	return &types.AttributeValueMemberNS{Value: ns}, nil
}

func integerString(v any) (string, bool) {
	switch t := v.(type) {
	case int:
		return strconv.FormatInt(int64(t), 10), true
	case int8:
		return strconv.FormatInt(int64(t), 10), true
	case int16:
		return strconv.FormatInt(int64(t), 10), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint:
		return strconv.FormatUint(uint64(t), 10), true
	case uint8:
		return strconv.FormatUint(uint64(t), 10), true
	case uint16:
		return strconv.FormatUint(uint64(t), 10), true
	case uint32:
		return strconv.FormatUint(uint64(t), 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	}
	return "", false
}

// FromAttributeMap converte um item do DynamoDB de volta para a árvore.
func FromAttributeMap(item map[string]types.AttributeValue) (map[string]any, error) {
	out := make(map[string]any, len(item))
	for k, av := range item {
		v, err := FromAttribute(av)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

// FromAttribute converte um AttributeValue em valor da árvore. Números
// inteiros viram int64 e os demais float64; SS, NS e BS viram valuetree.Set.
func FromAttribute(av types.AttributeValue) (any, error) {
	switch t := av.(type) {
	case *types.AttributeValueMemberNULL:
		return nil, nil
	case *types.AttributeValueMemberBOOL:
		return t.Value, nil
	case *types.AttributeValueMemberS:
		return t.Value, nil
	case *types.AttributeValueMemberB:
		return t.Value, nil
	case *types.AttributeValueMemberN:
		return parseNumber(t.Value)
	case *types.AttributeValueMemberL:
		list := make([]any, 0, len(t.Value))
		for _, e := range t.Value {
			v, err := FromAttribute(e)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case *types.AttributeValueMemberM:
		return FromAttributeMap(t.Value)
	case *types.AttributeValueMemberSS:
		set := make(valuetree.Set, 0, len(t.Value))
		for _, s := range t.Value {
			set = append(set, s)
		}
		return set, nil
	case *types.AttributeValueMemberNS:
		set := make(valuetree.Set, 0, len(t.Value))
		for _, s := range t.Value {
			n, err := parseNumber(s)
			if err != nil {
				return nil, err
			}
			set = append(set, n)
		}
		return set, nil
	case *types.AttributeValueMemberBS:
		set := make(valuetree.Set, 0, len(t.Value))
		for _, b := range t.Value {
			set = append(set, b)
		}
		return set, nil
	default:
		return nil, fmt.Errorf("dyndb: unsupported attribute value %T", av)
	}
}

func parseNumber(s string) (any, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("dyndb: invalid number %q: %w", s, err)
	}
	return f, nil
}
