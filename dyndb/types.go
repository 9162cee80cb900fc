package dyndb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DefaultKeyAttribute é a hash key usada quando TableConfig não define outra.
const DefaultKeyAttribute = "entity_id"

// DynamoDBClient interface para abstrair o cliente DynamoDB
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// TableConfig — configuração da tabela
type TableConfig struct {
	TableName    string
	KeyAttribute string // opcional, default entity_id

	// Capacidade provisionada usada na criação da tabela. Com as duas em zero
	// a tabela é criada em modo on-demand (PAY_PER_REQUEST).
	ReadCapacity  int64
	WriteCapacity int64

	// WaitTimeout limita a espera pela tabela ficar ACTIVE após a criação.
	WaitTimeout time.Duration
}

// DefaultTableConfig devolve a configuração padrão: chave entity_id,
// capacidade 5/5 e espera de até dois minutos.
func DefaultTableConfig(tableName string) TableConfig {
	return TableConfig{
		TableName:     tableName,
		KeyAttribute:  DefaultKeyAttribute,
		ReadCapacity:  5,
		WriteCapacity: 5,
		WaitTimeout:   2 * time.Minute,
	}
}
