package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ConfigValidator struct {
	validate *validator.Validate
}

// NewValidator cria uma nova instância do validador
func NewValidator() *ConfigValidator {
	return &ConfigValidator{
		validate: validator.New(),
	}
}

// Validate realiza validações estruturais (tags) e semânticas (lógica)
func (cv *ConfigValidator) Validate(cfg *Config) error {
	if err := cv.validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errMsgs := make([]string, 0, len(validationErrors))
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, fmt.Sprintf("Campo '%s' falhou na regra '%s'", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("erros de validação estrutural:\n- %s", strings.Join(errMsgs, "\n- "))
		}
		return fmt.Errorf("erro de validação estrutural: %w", err)
	}

	if err := cv.validateSemantics(cfg); err != nil {
		return fmt.Errorf("erro de validação semântica: %w", err)
	}
	return nil
}

func (cv *ConfigValidator) validateSemantics(cfg *Config) error {
	switch cfg.Backend {
	case BackendDynamoDB:
		// capacidade provisionada exige leitura e escrita, on-demand exige zero nas duas
		r, w := cfg.DynamoDB.ReadCapacity, cfg.DynamoDB.WriteCapacity
		if (r == 0) != (w == 0) {
			return fmt.Errorf("dynamodb: read_capacity e write_capacity devem ser ambas zero ou ambas positivas (recebido %d/%d)", r, w)
		}
	case BackendLevelDB:
		if strings.TrimSpace(cfg.LevelDB.Path) == "" {
			return fmt.Errorf("leveldb: 'path' é obrigatório quando backend é leveldb")
		}
	case BackendRedis:
		if strings.TrimSpace(cfg.Redis.Addr) == "" {
			return fmt.Errorf("redis: 'addr' é obrigatório quando backend é redis")
		}
	case BackendPostgres:
		if strings.TrimSpace(cfg.Postgres.DSN) == "" {
			return fmt.Errorf("postgres: 'dsn' é obrigatório quando backend é postgres")
		}
	}

	if cfg.Metrics.Datadog.Enabled && strings.TrimSpace(cfg.Metrics.Datadog.Addr) == "" {
		return fmt.Errorf("metrics: 'datadog.addr' é obrigatório quando datadog está habilitado")
	}
	return nil
}
