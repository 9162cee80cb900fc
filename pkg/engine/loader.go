// pkg/engine/loader.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/raywall/dynadapter/pkg/config"
)

// --- Interfaces para Mocking ---

type S3Downloader interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type SecretGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type DynamoGetter interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// ErrConfigNotFound indica que a fonte remota não tem conteúdo para a chave.
var ErrConfigNotFound = errors.New("engine: config source returned no content")

// Loader lê o YAML de configuração de uma das fontes suportadas:
//
//	config.yaml | file://config.yaml
//	s3://bucket/caminho/config.yaml
//	ssm:///dynadapter/config
//	secretsmanager://dynadapter-config
//	dynamodb://tabela/chave?col=config&pk=id
//
// Clientes nil são criados sob demanda com a configuração padrão da AWS.
type Loader struct {
	S3      S3Downloader
	SSM     ParameterGetter
	Secrets SecretGetter
	Dynamo  DynamoGetter
}

// NewLoader cria um Loader que usa os clientes reais da AWS.
func NewLoader() *Loader {
	return &Loader{}
}

// Load busca o conteúdo da fonte e aplica defaults, ambiente e validação.
// Uma fonte vazia usa apenas defaults e variáveis de ambiente.
func (l *Loader) Load(ctx context.Context, source string) (*config.Config, error) {
	if source == "" {
		return config.FromBytes(nil)
	}

	data, err := l.fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("engine: load config (%s): %w", source, err)
	}
	return config.FromBytes(data)
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, "s3://"):
		if l.S3 == nil {
			cfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				return nil, err
			}
			l.S3 = s3.NewFromConfig(cfg)
		}
		return l.fromS3(ctx, source)

	case strings.HasPrefix(source, "ssm://"):
		if l.SSM == nil {
			cfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				return nil, err
			}
			l.SSM = ssm.NewFromConfig(cfg)
		}
		return l.fromSSM(ctx, strings.TrimPrefix(source, "ssm://"))

	case strings.HasPrefix(source, "secretsmanager://"):
		if l.Secrets == nil {
			cfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				return nil, err
			}
			l.Secrets = secretsmanager.NewFromConfig(cfg)
		}
		return l.fromSecretsManager(ctx, strings.TrimPrefix(source, "secretsmanager://"))

	case strings.HasPrefix(source, "dynamodb://"):
		if l.Dynamo == nil {
			cfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				return nil, err
			}
			l.Dynamo = dynamodb.NewFromConfig(cfg)
		}
		return l.fromDynamoDB(ctx, source)

	default:
		// Suporta tanto "file://config.yaml" quanto apenas "config.yaml"
		return os.ReadFile(strings.TrimPrefix(source, "file://"))
	}
}

func (l *Loader) fromS3(ctx context.Context, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid s3 uri: %w", err)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")

	out, err := l.S3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

func (l *Loader) fromSSM(ctx context.Context, name string) ([]byte, error) {
	decrypt := true
	out, err := l.SSM.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &name,
		WithDecryption: &decrypt,
	})
	if err != nil {
		return nil, err
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return nil, ErrConfigNotFound
	}
	return []byte(*out.Parameter.Value), nil
}

func (l *Loader) fromSecretsManager(ctx context.Context, secretID string) ([]byte, error) {
	out, err := l.Secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &secretID,
	})
	if err != nil {
		return nil, err
	}

	switch {
	case out.SecretString != nil:
		return []byte(*out.SecretString), nil
	case len(out.SecretBinary) > 0:
		return out.SecretBinary, nil
	}
	return nil, ErrConfigNotFound
}

func (l *Loader) fromDynamoDB(ctx context.Context, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid dynamodb uri: %w", err)
	}

	tableName := u.Host
	pkValue := strings.TrimPrefix(u.Path, "/")

	colName := u.Query().Get("col")
	if colName == "" {
		colName = "config"
	}
	pkName := u.Query().Get("pk")
	if pkName == "" {
		pkName = "id"
	}

	consistent := true
	out, err := l.Dynamo.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &tableName,
		Key:            map[string]types.AttributeValue{pkName: &types.AttributeValueMemberS{Value: pkValue}},
		ConsistentRead: &consistent,
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrConfigNotFound
	}

	content, ok := out.Item[colName].(*types.AttributeValueMemberS)
	if !ok || content.Value == "" {
		return nil, fmt.Errorf("attribute %q is missing or not a string", colName)
	}
	return []byte(content.Value), nil
}
