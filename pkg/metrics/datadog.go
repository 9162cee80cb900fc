package metrics

import (
	"fmt"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/raywall/dynadapter/pkg/config"
)

// DatadogProvider adapta o cliente DogStatsD oficial para Provider.
type DatadogProvider struct {
	client statsd.ClientInterface
}

// NewDatadogProvider embrulha um cliente já criado.
func NewDatadogProvider(client statsd.ClientInterface) *DatadogProvider {
	return &DatadogProvider{client: client}
}

func (d *DatadogProvider) Count(name string, value float64, tags []string) error {
	return d.client.Count(name, int64(value), tags, 1)
}

func (d *DatadogProvider) Gauge(name string, value float64, tags []string) error {
	return d.client.Gauge(name, value, tags, 1)
}

func (d *DatadogProvider) Histogram(name string, value float64, tags []string) error {
	return d.client.Histogram(name, value, tags, 1)
}

// Close descarrega o buffer e fecha a conexão com o agente.
func (d *DatadogProvider) Close() error {
	return d.client.Close()
}

// Setup inicializa o provider correto a partir da configuração.
func Setup(cfg config.MetricsConf) (Provider, error) {
	if !cfg.Datadog.Enabled {
		return NoopProvider{}, nil
	}

	opts := []statsd.Option{
		statsd.WithNamespace(cfg.Datadog.Namespace),
		statsd.WithoutTelemetry(),
	}

	client, err := statsd.New(cfg.Datadog.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("metrics: connect to datadog statsd: %w", err)
	}
	return NewDatadogProvider(client), nil
}
