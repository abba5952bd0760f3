package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tripflow/tripflow/internal/app/observability/metrics"
	"github.com/tripflow/tripflow/internal/app/observability/tracer"
)

// ObservabilityShutdownFunc is returned by InitObservability.
type ObservabilityShutdownFunc func(context.Context) error

// InitObservability initializes OpenTelemetry and the application metrics.
func InitObservability(serviceName, metricsAddr string, logger *zap.Logger) (ObservabilityShutdownFunc, error) {
	otelShutdown, err := tracer.InitOtelProviders(serviceName, metricsAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics.InitAppMetrics()
	logger.Info("Observability initialized", zap.String("metrics_endpoint", metricsAddr+"/metrics"))

	return otelShutdown, nil
}
