package config

import "time"

const (
	BackendDynamoDB = "dynamodb"
	BackendLevelDB  = "leveldb"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config representa a estrutura raiz do arquivo YAML do dynadapter.
type Config struct {
	Backend  string       `yaml:"backend" env:"DYNADAPTER_BACKEND" envDefault:"dynamodb" validate:"required,oneof=dynamodb leveldb redis postgres"`
	Table    TableConf    `yaml:"table"`
	DynamoDB DynamoDBConf `yaml:"dynamodb"`
	LevelDB  LevelDBConf  `yaml:"leveldb"`
	Redis    RedisConf    `yaml:"redis"`
	Postgres PostgresConf `yaml:"postgres"`
	Logging  LoggingConf  `yaml:"logging"`
	Server   ServerConf   `yaml:"server"`
	Metrics  MetricsConf  `yaml:"metrics"`
	Rules    []RuleConf   `yaml:"rules" validate:"dive"`
}

type TableConf struct {
	Name         string `yaml:"name" env:"DYNADAPTER_TABLE" validate:"required"`
	KeyAttribute string `yaml:"key_attribute" env:"DYNADAPTER_KEY_ATTRIBUTE" envDefault:"entity_id" validate:"required"`
}

// DynamoDBConf agrupa a conexão e os parâmetros de criação da tabela.
// Capacidades em zero criam a tabela em modo on-demand.
type DynamoDBConf struct {
	Region        string        `yaml:"region" env:"AWS_REGION" envDefault:"us-east-1"`
	Endpoint      string        `yaml:"endpoint" env:"DYNAMODB_ENDPOINT" validate:"omitempty,url"`
	ReadCapacity  int64         `yaml:"read_capacity" env:"DYNAMODB_READ_CAPACITY" envDefault:"5" validate:"gte=0"`
	WriteCapacity int64         `yaml:"write_capacity" env:"DYNAMODB_WRITE_CAPACITY" envDefault:"5" validate:"gte=0"`
	WaitTimeout   time.Duration `yaml:"wait_timeout" env:"DYNAMODB_WAIT_TIMEOUT" envDefault:"2m" validate:"gt=0"`
}

type LevelDBConf struct {
	Path string `yaml:"path" env:"LEVELDB_PATH" envDefault:"./data"`
}

type RedisConf struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" validate:"gte=0"`
	Prefix   string `yaml:"prefix" env:"REDIS_PREFIX" envDefault:"dynadapter"`
}

// PostgresConf aceita DSN em formato URL ou chave=valor do lib/pq.
type PostgresConf struct {
	DSN string `yaml:"dsn" env:"POSTGRES_DSN"`
}

type LoggingConf struct {
	Enabled bool   `yaml:"enabled" env:"LOG_ENABLED" envDefault:"true"`
	Level   string `yaml:"level" env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format  string `yaml:"format" env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json console"`
}

// RuleConf é uma expressão CEL avaliada sobre `item` antes de cada gravação.
// A gravação é rejeitada quando alguma regra resulta em false.
type RuleConf struct {
	Name       string `yaml:"name" validate:"required"`
	Expression string `yaml:"expression" validate:"required"`
	Message    string `yaml:"message"`
}

// ServerConf configura a API REST do cmd/server. Runtime `lambda` atende
// eventos do API Gateway em vez de abrir uma porta. Com ReloadQueue, cada
// mensagem na fila SQS recarrega as regras a partir da mesma origem.
type ServerConf struct {
	Runtime string        `yaml:"runtime" env:"DYNADAPTER_RUNTIME" envDefault:"http" validate:"oneof=http lambda"`
	Addr    string        `yaml:"addr" env:"DYNADAPTER_ADDR" envDefault:":8080" validate:"required"`
	Timeout time.Duration `yaml:"timeout" env:"DYNADAPTER_REQUEST_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	ReloadQueue string        `yaml:"reload_queue" env:"DYNADAPTER_RELOAD_QUEUE"`
}

type MetricsConf struct {
	Datadog DatadogConf `yaml:"datadog"`
}

// DatadogConf aponta para o agente DogStatsD. Desabilitado por padrão.
type DatadogConf struct {
	Enabled   bool   `yaml:"enabled" env:"DD_METRICS_ENABLED"`
	Addr      string `yaml:"addr" env:"DD_AGENT_ADDR" envDefault:"localhost:8125"`
	Namespace string `yaml:"namespace" env:"DD_METRICS_NAMESPACE" envDefault:"dynadapter."`
}
