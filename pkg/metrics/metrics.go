// Package metrics publica contadores, gauges e histogramas das operações do
// adapter. O envio é best effort: falhas do provider nunca interrompem a
// operação que está sendo medida.
package metrics

import "time"

// Provider define o contrato para envio de métricas.
type Provider interface {
	Count(name string, value float64, tags []string) error
	Gauge(name string, value float64, tags []string) error
	Histogram(name string, value float64, tags []string) error
}

// Nomes das métricas emitidas pelo adapter.
const (
	MetricOperations = "adapter.operations"
	MetricLatency    = "adapter.latency_ms"
	MetricScanItems  = "adapter.scan.items"
)

// Status de uma operação, enviado na tag `status`.
const (
	StatusOK       = "ok"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

// NoopProvider descarta tudo; é o padrão quando métricas estão desabilitadas.
type NoopProvider struct{}

func (NoopProvider) Count(string, float64, []string) error     { return nil }
func (NoopProvider) Gauge(string, float64, []string) error     { return nil }
func (NoopProvider) Histogram(string, float64, []string) error { return nil }

// RecordOperation conta a operação e registra sua latência em milissegundos.
func RecordOperation(p Provider, op, status string, took time.Duration) {
	tags := []string{"op:" + op, "status:" + status}
	_ = p.Count(MetricOperations, 1, tags)
	_ = p.Histogram(MetricLatency, float64(took.Milliseconds()), tags)
}

// RecordScan registra quantos itens um Scan devolveu.
func RecordScan(p Provider, op string, items int) {
	_ = p.Gauge(MetricScanItems, float64(items), []string{"op:" + op})
}
