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

// Package dynadapter persiste entidades Go em uma tabela chave-valor com
// filtros declarativos no estilo do DynamoDB.
//
// Sub-Pacotes Principais:
//
// 1. adapter:
//   - Adapter[T] com Save, GetByID, ListAll, Delete e Filter.
//   - Ids gerados quando o item não traz a chave, validação e métricas por operação.
//
// 2. condition:
//   - Chaves `<campo>__<operador>` viram uma árvore de predicados combinada por OU.
//   - A mesma árvore gera a FilterExpression do DynamoDB ou é avaliada em memória.
//
// 3. valuetree:
//   - Normalização de números, conjuntos e binários antes da gravação e o caminho inverso na leitura.
//
// 4. storage, dyndb, localdb, redisdb e pgdb:
//   - Um contrato de Store e suas implementações em DynamoDB, LevelDB, Redis e PostgreSQL.
//
// 5. pkg/engine, pkg/transport e pkg/graphql:
//   - Montagem a partir do YAML (arquivo, S3, SSM, Secrets Manager ou DynamoDB)
//     e exposição por REST, GraphQL ou Lambda.
//
// Exemplo de Início Rápido:
//
//	client, err := dyndb.NewClient(ctx, "us-east-1", "")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	store := dyndb.New(client, dyndb.DefaultTableConfig("users"))
//	users, err := adapter.New[map[string]any](ctx, store, adapter.MapCodec{})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	id, _ := users.Save(ctx, map[string]any{"name": "Ana", "age": 30})
//	res, _ := users.Filter(ctx, condition.Spec{"age__gte": 18, "name__begins_with": "A"})
//	log.Println(id, len(res.Entities))
package dynadapter
