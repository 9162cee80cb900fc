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

// Package dyndb implementa storage.Store sobre o AWS DynamoDB Go SDK (v2).
//
// Visão Geral:
// O `Store` trabalha com uma tabela de hash key string única e converte os
// itens da árvore de valores (`map[string]any`) para AttributeValues e de
// volta, sem que o adapter precise conhecer os tipos de baixo nível do SDK.
//
// Funcionalidades Principais:
//   - Criação da tabela: `CreateTable` com capacidade provisionada (ou
//     on-demand) e espera pelo status ACTIVE com `TableExistsWaiter`.
//   - Leituras consistentes: `GetItem` usa `ConsistentRead`.
//   - Scan filtrado: a árvore de `condition` vira FilterExpression e a
//     projeção vira ProjectionExpression.
//   - Erros do serviço: `smithy.APIError` é traduzido para `*storage.Error`.
//   - `StructCodec[E]`: mapeia structs com tags `dynamodbav`.
//
// Exemplo de Uso:
//
//	client, err := dyndb.NewClient(ctx, "us-east-1", "")
//	if err != nil { /* ... */ }
//
//	store := dyndb.New(client, dyndb.DefaultTableConfig("users"))
//	item, err := store.GetItem(ctx, "u1")
//	if item == nil { /* não encontrado */ }
package dyndb
