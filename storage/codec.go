// storage/codec.go
package storage

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"

	"github.com/raywall/dynadapter/condition"
	"github.com/raywall/dynadapter/valuetree"
)

func init() {
	gob.Register(map[string]any{})
	gob.Register([]any{})
	gob.Register(valuetree.Set{})
	gob.Register(json.Number(""))
}

// EncodeItem serializa o item em gob para backends que guardam bytes
// opacos (LevelDB, Redis, Postgres). Sets e a distinção int/float sobrevivem
// à ida e volta.
func EncodeItem(item Item) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(item); err != nil {
		return nil, fmt.Errorf("storage: encode item: %w", err)
	}
	return buf.Bytes(), nil
}

func DecodeItem(raw []byte) (Item, error) {
	var item map[string]any
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&item); err != nil {
		return nil, fmt.Errorf("storage: decode item: %w", err)
	}
	return item, nil
}

// ItemID lê a chave do item, que precisa ser uma string não vazia.
func ItemID(item Item, keyAttribute string) (string, error) {
	id, ok := item[keyAttribute].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("storage: item has no string %q attribute", keyAttribute)
	}
	return id, nil
}

// Select aplica filtro e projeção em memória, para backends sem suporte
// nativo a FilterExpression.
func Select(item Item, where condition.Predicate, projection []string) (Item, bool) {
	if !condition.Match(where, item) {
		return nil, false
	}
	if len(projection) > 0 {
		return condition.Project(item, projection), true
	}
	return item, true
}
