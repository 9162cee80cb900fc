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

// Package adapter persiste entidades de domínio em uma tabela chave-valor.
//
// Visão Geral:
// `Adapter[T]` orquestra o `storage.Store`, o pipeline de normalização de
// `valuetree` e o construtor de filtros de `condition`. A conversão entre a
// entidade e o item fica a cargo de um `Codec[T]`; entidades que implementam
// `Binder` recebem o adapter que as carregou.
//
// Funcionalidades Principais:
//   - Save: gera o id (uuid) quando ausente, normaliza floats e remove vazios.
//   - GetByID e ListAll: desnormalizam, decodificam e vinculam a entidade.
//   - Delete: falhas do backend são logadas e viram ErrNotFound.
//   - Filter: chaves `<campo>__<operador>` combinadas com OR.
//
// Exemplo de Uso:
//
//	store := localdb.New(db, "users", "")
//	users, err := adapter.New(ctx, store, dyndb.StructCodec[User]{},
//		adapter.WithLogger(log))
//
//	id, err := users.SaveEntity(ctx, &User{Name: "Ana", Score: 9.5})
//	u, err := users.GetByID(ctx, id)
//	if errors.Is(err, adapter.ErrNotFound) { /* ... */ }
//
//	res, err := users.Filter(ctx, condition.Spec{"score__gt": 9})
package adapter
