package logger

import (
	"context"

	"github.com/NataliPereb/sales-bonus/internal/domain/sales"
	"go.uber.org/zap"
)

// ZapAnomalySink writes one warning per anomaly
type ZapAnomalySink struct {
	logger *zap.Logger
}

// NewZapAnomalySink creates a sink backed by logger. A nil logger discards anomalies.
func NewZapAnomalySink(logger *zap.Logger) *ZapAnomalySink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapAnomalySink{logger: logger.Named("anomaly")}
}

// ReportAnomaly logs the anomaly with run and trace correlation from ctx
func (s *ZapAnomalySink) ReportAnomaly(ctx context.Context, anomaly sales.Anomaly) {
	l := WithTraceContext(ctx, s.logger)
	if runID := GetRunID(ctx); runID != "" {
		l = l.With(zap.String("run_id", runID))
	}

	fields := []zap.Field{
		zap.String("kind", string(anomaly.Kind)),
		zap.String("receipt_id", anomaly.ReceiptID),
	}
	if anomaly.SellerID != "" {
		fields = append(fields, zap.String("seller_id", anomaly.SellerID))
	}
	if anomaly.SKU != "" {
		fields = append(fields, zap.String("sku", anomaly.SKU))
	}
	l.Warn(anomaly.Message(), fields...)
}
