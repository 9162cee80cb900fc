// dyndb/store.go
package dyndb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/raywall/dynadapter/condition"
	"github.com/raywall/dynadapter/storage"
)

// Store implementa storage.Store sobre uma tabela DynamoDB com hash key
// string única.
type Store struct {
	client DynamoDBClient
	cfg    TableConfig
}

var _ storage.Store = (*Store)(nil)

// New cria um store reutilizável
func New(client DynamoDBClient, cfg TableConfig) *Store {
	if cfg.KeyAttribute == "" {
		cfg.KeyAttribute = DefaultKeyAttribute
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = 2 * time.Minute
	}

	return &Store{
		client: client,
		cfg:    cfg,
	}
}

func (s *Store) KeyAttribute() string { return s.cfg.KeyAttribute }

// TableExists consulta DescribeTable; ResourceNotFoundException significa
// tabela ausente.
func (s *Store) TableExists(ctx context.Context) (bool, error) {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.cfg.TableName),
	})
	if err == nil {
		return true, nil
	}

	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, storeError("describe table", err)
}

// CreateTable cria a tabela e aguarda o status ACTIVE. Uma tabela já
// existente não é erro.
func (s *Store) CreateTable(ctx context.Context) error {
	input := &dynamodb.CreateTableInput{
		TableName: aws.String(s.cfg.TableName),
		AttributeDefinitions: []types.AttributeDefinition{{
			AttributeName: aws.String(s.cfg.KeyAttribute),
			AttributeType: types.ScalarAttributeTypeS,
		}},
		KeySchema: []types.KeySchemaElement{{
			AttributeName: aws.String(s.cfg.KeyAttribute),
			KeyType:       types.KeyTypeHash,
		}},
	}
	if s.cfg.ReadCapacity > 0 || s.cfg.WriteCapacity > 0 {
		input.BillingMode = types.BillingModeProvisioned
		input.ProvisionedThroughput = &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(s.cfg.ReadCapacity),
			WriteCapacityUnits: aws.Int64(s.cfg.WriteCapacity),
		}
	} else {
		input.BillingMode = types.BillingModePayPerRequest
	}

	if _, err := s.client.CreateTable(ctx, input); err != nil {
		var inUse *types.ResourceInUseException
		if !errors.As(err, &inUse) {
			return storeError("create table", err)
		}
	}

	waiter := dynamodb.NewTableExistsWaiter(s.client)
	err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.cfg.TableName),
	}, s.cfg.WaitTimeout)
	if err != nil {
		return fmt.Errorf("dyndb: wait for table %s: %w", s.cfg.TableName, err)
	}
	return nil
}

// GetItem lê o item com leitura consistente.
func (s *Store) GetItem(ctx context.Context, id string) (storage.Item, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.cfg.TableName),
		Key:            s.key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, storeError("get", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	item, err := FromAttributeMap(out.Item)
	if err != nil {
		return nil, fmt.Errorf("dyndb: unmarshal failed: %w", err)
	}
	return item, nil
}

// PutItem grava o item (upsert).
func (s *Store) PutItem(ctx context.Context, item storage.Item) error {
	av, err := ToAttributeMap(item)
	if err != nil {
		return fmt.Errorf("dyndb: marshal failed: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.cfg.TableName),
		Item:      av,
	})
	if err != nil {
		return storeError("put", err)
	}
	return nil
}

// DeleteItem remove o item.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.cfg.TableName),
		Key:       s.key(id),
	})
	if err != nil {
		return storeError("delete", err)
	}
	return nil
}

// Scan executa uma única chamada Scan com o filtro e a projeção pedidos.
// Sem projeção todos os atributos são pedidos (Select ALL_ATTRIBUTES).
func (s *Store) Scan(ctx context.Context, where condition.Predicate, projection []string) ([]storage.Item, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.cfg.TableName),
	}

	if where != nil || len(projection) > 0 {
		builder := expression.NewBuilder()
		if where != nil {
			cond, err := condition.Expression(where)
			if err != nil {
				return nil, err
			}
			builder = builder.WithFilter(cond)
		}
		if len(projection) > 0 {
			proj, err := condition.Projection(projection)
			if err != nil {
				return nil, err
			}
			builder = builder.WithProjection(proj)
		}

		expr, err := builder.Build()
		if err != nil {
			return nil, fmt.Errorf("dyndb: build expression: %w", err)
		}
		input.FilterExpression = expr.Filter()
		input.ProjectionExpression = expr.Projection()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	if len(projection) > 0 {
		input.Select = types.SelectSpecificAttributes
	} else {
		input.Select = types.SelectAllAttributes
	}

	out, err := s.client.Scan(ctx, input)
	if err != nil {
		return nil, storeError("scan", err)
	}

	items := make([]storage.Item, 0, len(out.Items))
	for _, raw := range out.Items {
		item, err := FromAttributeMap(raw)
		if err != nil {
			return nil, fmt.Errorf("dyndb: unmarshal failed: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Store) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		s.cfg.KeyAttribute: &types.AttributeValueMemberS{Value: id},
	}
}

// storeError traduz erros de API do serviço para *storage.Error. Falhas
// locais (rede, credenciais) seguem apenas embrulhadas.
func storeError(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &storage.Error{
			Op:      op,
			Code:    apiErr.ErrorCode(),
			Message: apiErr.ErrorMessage(),
			Err:     err,
		}
	}
	return fmt.Errorf("dyndb: %s failed: %w", op, err)
}
