package dyndb

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
)

// StructCodec converte structs com tags `dynamodbav` de e para itens,
// usando o marshaller do SDK. Satisfaz adapter.Codec[*E].
type StructCodec[E any] struct{}

func (StructCodec[E]) Encode(e *E) (map[string]any, error) {
	if e == nil {
		return nil, fmt.Errorf("dyndb: cannot encode nil %T", e)
	}
	av, err := attributevalue.MarshalMap(e)
	if err != nil {
		return nil, fmt.Errorf("dyndb: marshal failed: %w", err)
	}
	return FromAttributeMap(av)
}

func (StructCodec[E]) Decode(item map[string]any) (*E, error) {
	av, err := ToAttributeMap(item)
	if err != nil {
		return nil, err
	}

	e := new(E)
	if err := attributevalue.UnmarshalMap(av, e); err != nil {
		return nil, fmt.Errorf("dyndb: unmarshal failed: %w", err)
	}
	return e, nil
}
