package infra

import (
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"text-signing-service/config"
)

func TestInitTracer_Disabled(t *testing.T) {
	tp, err := InitTracer(context.Background(), &config.Config{OtelEnabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tp != nil {
		t.Error("want nil provider when tracing is disabled")
	}
}

func TestInitTracer_Enabled(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		OtelEnabled:      true,
		OtelEndpoint:     "localhost:4317",
		OtelServiceName:  "text-signing-service-test",
		OtelSamplingRate: 0.5,
	}

	// gRPCの接続は遅延されるため、コレクタがなくても生成できる
	tp, err := InitTracer(ctx, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tp == nil {
		t.Fatal("want provider when tracing is enabled")
	}
	shutdownCtx, cancel := context.WithCancel(ctx)
	cancel()
	_ = tp.Shutdown(shutdownCtx)
}

func TestIsLoopbackEndpoint(t *testing.T) {
	tests := map[string]bool{
		"localhost:4317":                true,
		"127.0.0.1:4317":                true,
		"[::1]:4317":                    true,
		"localhost":                     true,
		"otel-collector:4317":           false,
		"cloudtrace.googleapis.com:443": false,
		"10.0.0.5:4317":                 false,
	}
	for endpoint, want := range tests {
		if got := isLoopbackEndpoint(endpoint); got != want {
			t.Errorf("isLoopbackEndpoint(%q): want %v, got %v", endpoint, want, got)
		}
	}
}

func TestExporterOptions(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want int
	}{
		{"remote uses tls", config.Config{OtelEndpoint: "collector.example.com:4317"}, 1},
		{"remote insecure opt-in", config.Config{OtelEndpoint: "collector.example.com:4317", OtelInsecure: true}, 2},
		{"loopback is insecure", config.Config{OtelEndpoint: "localhost:4317"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(exporterOptions(&tt.cfg)); got != tt.want {
				t.Errorf("want %d options, got %d", tt.want, got)
			}
		})
	}
}

func TestNewSampler(t *testing.T) {
	tests := map[float64]string{
		1:    "AlwaysOnSampler",
		2:    "AlwaysOnSampler",
		0:    "AlwaysOffSampler",
		0.25: "TraceIDRatioBased{0.25}",
	}
	for rate, want := range tests {
		desc := newSampler(rate).Description()
		if !strings.HasPrefix(desc, "ParentBased{root:"+want) {
			t.Errorf("newSampler(%v): want root %s, got %s", rate, want, desc)
		}
	}
}

func TestNewResource_GoogleCloudProject(t *testing.T) {
	cfg := &config.Config{OtelServiceName: "signer", GoogleCloudProject: "proj-1"}

	res, err := newResource(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := map[attribute.Key]string{}
	for _, kv := range res.Attributes() {
		got[kv.Key] = kv.Value.Emit()
	}
	if got[semconv.ServiceNameKey] != "signer" {
		t.Errorf("want service.name signer, got %q", got[semconv.ServiceNameKey])
	}
	if got[semconv.CloudAccountIDKey] != "proj-1" {
		t.Errorf("want cloud.account.id proj-1, got %q", got[semconv.CloudAccountIDKey])
	}
	if got[semconv.CloudProviderKey] != "gcp" {
		t.Errorf("want cloud.provider gcp, got %q", got[semconv.CloudProviderKey])
	}
}
