// Package engine liga configuração, backend, logging e métricas em um
// adapter pronto para uso pela CLI e pelo servidor.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/raywall/dynadapter/adapter"
	"github.com/raywall/dynadapter/dyndb"
	"github.com/raywall/dynadapter/localdb"
	"github.com/raywall/dynadapter/pgdb"
	"github.com/raywall/dynadapter/pkg/config"
	"github.com/raywall/dynadapter/pkg/logger"
	"github.com/raywall/dynadapter/pkg/metrics"
	"github.com/raywall/dynadapter/pkg/rules"
	"github.com/raywall/dynadapter/redisdb"
	"github.com/raywall/dynadapter/storage"
	"github.com/rs/zerolog"
)

// Service agrupa as dependências montadas a partir de um Config.
type Service struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Metrics metrics.Provider
	Items   *adapter.Adapter[map[string]any]
	Rules   *rules.Set

	// Source e Loader são usados por Reload. Loader nil usa NewLoader.
	Source string
	Loader *Loader

	closers []func() error
}

// New abre o backend configurado e cria o adapter, o que garante que a
// tabela existe.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	log := logger.Configure(cfg.Logging)

	var validator *rules.Validator
	if len(cfg.Rules) > 0 {
		v, err := rules.NewValidator(cfg.Rules)
		if err != nil {
			return nil, err
		}
		validator = v
	}

	provider, err := metrics.Setup(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	svc := &Service{Config: cfg, Logger: log, Metrics: provider, Rules: rules.NewSet(validator)}
	if c, ok := provider.(io.Closer); ok {
		svc.closers = append(svc.closers, c.Close)
	}

	store, err := svc.openStore(ctx)
	if err != nil {
		_ = svc.Close()
		return nil, err
	}

	opts := []adapter.Option{
		adapter.WithLogger(log.With().Str("table", cfg.Table.Name).Logger()),
		adapter.WithMetrics(provider),
		adapter.WithValidator(svc.Rules),
	}

	svc.Items, err = adapter.New[map[string]any](ctx, store, adapter.MapCodec{}, opts...)
	if err != nil {
		_ = svc.Close()
		return nil, err
	}

	log.Debug().Str("backend", cfg.Backend).Str("table", cfg.Table.Name).Msg("service ready")
	return svc, nil
}

func (s *Service) openStore(ctx context.Context) (storage.Store, error) {
	cfg := s.Config

	switch cfg.Backend {
	case config.BackendLevelDB:
		store, err := localdb.Open(cfg.LevelDB.Path, cfg.Table.Name, cfg.Table.KeyAttribute)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, store.Close)
		return store, nil

	case config.BackendDynamoDB:
		client, err := dyndb.NewClient(ctx, cfg.DynamoDB.Region, cfg.DynamoDB.Endpoint)
		if err != nil {
			return nil, err
		}
		return dyndb.New(client, dyndb.TableConfig{
			TableName:     cfg.Table.Name,
			KeyAttribute:  cfg.Table.KeyAttribute,
			ReadCapacity:  cfg.DynamoDB.ReadCapacity,
			WriteCapacity: cfg.DynamoDB.WriteCapacity,
			WaitTimeout:   cfg.DynamoDB.WaitTimeout,
		}), nil

	case config.BackendRedis:
		client := redisdb.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		s.closers = append(s.closers, client.Close)
		return redisdb.New(client, cfg.Redis.Prefix, cfg.Table.Name, cfg.Table.KeyAttribute), nil

	case config.BackendPostgres:
		store, err := pgdb.Open(ctx, cfg.Postgres.DSN, cfg.Table.Name, cfg.Table.KeyAttribute)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, store.Close)
		return store, nil
	}
	return nil, fmt.Errorf("engine: unknown backend %q", cfg.Backend)
}

// Reload relê a configuração de Source e troca as regras de validação.
// Backend e tabela não mudam; uma configuração inválida mantém as regras
// atuais.
func (s *Service) Reload(ctx context.Context) error {
	loader := s.Loader
	if loader == nil {
		loader = NewLoader()
	}

	cfg, err := loader.Load(ctx, s.Source)
	if err != nil {
		return fmt.Errorf("engine: reload: %w", err)
	}

	var validator *rules.Validator
	if len(cfg.Rules) > 0 {
		if validator, err = rules.NewValidator(cfg.Rules); err != nil {
			return fmt.Errorf("engine: reload: %w", err)
		}
	}
	s.Rules.Swap(validator)

	s.Logger.Info().Int("rules", s.Rules.Len()).Str("source", s.Source).Msg("rules reloaded")
	return nil
}

// Close libera o backend e descarrega as métricas pendentes.
func (s *Service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
