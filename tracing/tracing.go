// Package tracing 为定价计算提供基于 OpenTelemetry 的链路追踪.
package tracing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wyfcoding/pricing/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/wyfcoding/pricing"

// 定价 span 上使用的属性键.
const (
	EngineKey  = attribute.Key("pricing.engine")
	OutcomeKey = attribute.Key("pricing.outcome")
)

// InitTracer 初始化全局 TracerProvider. 未启用时返回空操作的 shutdown.
func InitTracer(cfg config.TracingConfig, version string) (shutdown func(context.Context) error, err error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	ctx := context.Background()

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create otlp exporter: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(resourceAttributes(cfg, version)...))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(samplerRatio(cfg.SamplerRatio)))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	slog.Info("tracer provider initialized", "service", cfg.ServiceName, "endpoint", cfg.OTLPEndpoint)

	return tp.Shutdown, nil
}

func resourceAttributes(cfg config.TracingConfig, version string) []attribute.KeyValue {
	service := cfg.ServiceName
	if service == "" {
		service = "pricing"
	}
	attrs := []attribute.KeyValue{
		semconv.ServiceNameKey.String(service),
		attribute.String("exporter", "otlp"),
	}
	if version != "" {
		attrs = append(attrs, semconv.ServiceVersionKey.String(version))
	}
	return attrs
}

// samplerRatio 未配置或越界时全量采样.
func samplerRatio(r float64) float64 {
	if r <= 0 || r > 1 {
		return 1.0
	}
	return r
}

// StartCalculation 为一次引擎计算开启 span，并标注引擎名. 调用者负责调用 span.End().
//
//nolint:spancheck
func StartCalculation(ctx context.Context, engine string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "pricing."+engine+".calculate",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(EngineKey.String(engine)),
	)
}

// FinishCalculation 记录计算结果：成功标注 ok，失败记录错误并将状态置为 codes.Error.
func FinishCalculation(ctx context.Context, err error) {
	if err != nil {
		SetError(ctx, err)
		AddTag(ctx, string(OutcomeKey), "error")
		return
	}
	AddTag(ctx, string(OutcomeKey), "ok")
}

// AddTag 为当前活动的 Span 注入属性标签.
func AddTag(ctx context.Context, key string, value any) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	switch v := value.(type) {
	case string:
		span.SetAttributes(attribute.String(key, v))
	case int:
		span.SetAttributes(attribute.Int(key, v))
	case bool:
		span.SetAttributes(attribute.Bool(key, v))
	case float64:
		span.SetAttributes(attribute.Float64(key, v))
	default:
		span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// SetError 将错误记录到当前 Span.
func SetError(ctx context.Context, err error) {
	if err == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
