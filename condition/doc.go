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

// Package condition constrói filtros de Scan a partir de chaves no formato
// `<campo>__<operador>`.
//
// Visão Geral:
// `Build` recebe um `Spec` (mapa de chave para operando), valida cada
// operador contra a tabela de aridade e combina todas as comparações com OU
// lógico em uma árvore de `Predicate`. O token `_dot_` no nome do campo vira
// um ponto, permitindo filtrar atributos aninhados.
//
// Operadores e aridade:
//
//	begins_with(1) between(2) contains(1) eq(1) exists(0) gt(1) gte(1)
//	is_in(1) lt(1) lte(1) ne(1) not_exists(0) size(0)
//
// A árvore é independente do store: `Expression` gera o ConditionBuilder do
// SDK do DynamoDB e `Match` avalia a mesma árvore em memória.
//
// Exemplo de Uso:
//
//	f, err := condition.Build(condition.Spec{
//		"email__eq":          "nome@dom.com",
//		"profile_dot_age__gt": 30,
//		"ProjectionExpression": "email, profile.age",
//	})
//	if errors.Is(err, condition.ErrEmptyFilter) { /* ... */ }
//
//	cond, err := condition.Expression(f.Where)
package condition
