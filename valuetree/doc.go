// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package valuetree prepara árvores de valores não tipadas (mapas, listas,
// conjuntos e escalares) para serem gravadas em um store chave-valor com
// baixa fidelidade para números de ponto flutuante, e desfaz essa preparação
// na leitura.
//
// Visão Geral:
// `Normalize` percorre a árvore recursivamente e:
//   - troca cada float por uma string marcadora `Float(<repr>)`, onde <repr> é
//     a representação mais curta que `strconv.ParseFloat` lê de volta sem perda;
//   - remove contêineres vazios, strings vazias, zeros e nulos de mapas e listas
//     em qualquer nível.
//
// `Denormalize` converte de volta toda string no formato exato `Float(<x>)`.
// A remoção de vazios não é reversível.
//
// Exemplo de Uso:
//
//	item := map[string]any{"price": 3.3333333333, "tags": []any{"", "a"}}
//	clean := valuetree.Normalize(item)
//	// map[string]any{"price": "Float(3.3333333333)", "tags": []any{"a"}}
//
//	back, err := valuetree.Denormalize(clean)
//	// map[string]any{"price": 3.3333333333, "tags": []any{"a"}}
package valuetree
