package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	documentsAllocated  metric.Int64Counter
	allocationConflicts metric.Int64Counter
	allocationRetries   metric.Int64Counter
	documentVersions    metric.Int64Counter
	lineItemsPriced     metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "mjestimate"
	}
	meter := provider.Meter(name)

	documentsAllocated, err := meter.Int64Counter("mjestimate_documents_allocated_total")
	if err != nil {
		return nil, err
	}
	allocationConflicts, err := meter.Int64Counter("mjestimate_allocation_conflicts_total")
	if err != nil {
		return nil, err
	}
	allocationRetries, err := meter.Int64Counter("mjestimate_allocation_retries_total")
	if err != nil {
		return nil, err
	}
	documentVersions, err := meter.Int64Counter("mjestimate_document_versions_total")
	if err != nil {
		return nil, err
	}
	lineItemsPriced, err := meter.Int64Counter("mjestimate_line_items_priced_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		documentsAllocated:  documentsAllocated,
		allocationConflicts: allocationConflicts,
		allocationRetries:   allocationRetries,
		documentVersions:    documentVersions,
		lineItemsPriced:     lineItemsPriced,
	}, nil
}

// RecordDocumentAllocated counts a successful number allocation.
func (m *Metrics) RecordDocumentAllocated(ctx context.Context, docType string) {
	if m == nil {
		return
	}
	m.documentsAllocated.Add(ctx, 1, metric.WithAttributes(
		attribute.String("document_type", strings.TrimSpace(docType)),
	))
}

// RecordAllocationConflict counts an allocation that exhausted its retries.
func (m *Metrics) RecordAllocationConflict(ctx context.Context, docType string) {
	if m == nil {
		return
	}
	m.allocationConflicts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("document_type", strings.TrimSpace(docType)),
	))
}

// RecordAllocationRetry counts a single retry of the allocation loop.
func (m *Metrics) RecordAllocationRetry(ctx context.Context, docType string) {
	if m == nil {
		return
	}
	m.allocationRetries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("document_type", strings.TrimSpace(docType)),
	))
}

// RecordDocumentVersion counts a version-chain revision.
func (m *Metrics) RecordDocumentVersion(ctx context.Context, docType string) {
	if m == nil {
		return
	}
	m.documentVersions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("document_type", strings.TrimSpace(docType)),
	))
}

// RecordLineItemPriced counts a line-item pricing computation.
func (m *Metrics) RecordLineItemPriced(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.lineItemsPriced.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", strings.TrimSpace(kind)),
	))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "", "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http", "http/protobuf":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp metric protocol %q", protocol)
	}
}
