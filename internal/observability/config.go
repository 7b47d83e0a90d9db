// Package observability wires OpenTelemetry tracing and metrics export
// for the retriever. When disabled it installs no-op providers so
// instrumented code paths never need to check a flag.
package observability

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/docustack/retriever/internal/types"
)

const (
	defaultServiceName     = "retriever"
	protocolHTTPProtobuf   = "http/protobuf"
	protocolGRPC           = "grpc"
	resourceServiceNameKey = "service.name"
)

// Config holds the OpenTelemetry runtime settings resolved from the
// root configuration.
type Config struct {
	Enabled              bool
	ServiceName          string
	ExporterEndpoint     string
	ExporterProtocol     string
	ResourceAttributes   map[string]string
	TracesSampler        string
	TracesSamplerArg     float64
	MetricExportInterval time.Duration
}

// LoadConfig extracts and validates the observability settings from the
// root configuration.
func LoadConfig(cfg *types.Config) (*Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("observability: nil root configuration")
	}

	attrs, err := parseResourceAttributes(cfg.OTelResourceAttributes)
	if err != nil {
		return nil, fmt.Errorf("observability: parsing resource attributes: %w", err)
	}

	c := &Config{
		Enabled:              cfg.OTelEnabled,
		ServiceName:          strings.TrimSpace(cfg.OTelServiceName),
		ExporterEndpoint:     strings.TrimSpace(cfg.OTelExporterEndpoint),
		ExporterProtocol:     strings.ToLower(strings.TrimSpace(cfg.OTelExporterProtocol)),
		ResourceAttributes:   attrs,
		TracesSampler:        strings.TrimSpace(cfg.OTelTracesSampler),
		TracesSamplerArg:     cfg.OTelTracesSamplerArg,
		MetricExportInterval: cfg.OTelMetricExportInterval,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate normalizes defaults and checks endpoint/protocol consistency.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		c.ServiceName = defaultServiceName
	}
	if c.ExporterProtocol == "" {
		c.ExporterProtocol = protocolHTTPProtobuf
	}
	if c.TracesSampler == "" {
		c.TracesSampler = "always_on"
	}
	if c.MetricExportInterval <= 0 {
		c.MetricExportInterval = 60 * time.Second
	}
	if c.ResourceAttributes == nil {
		c.ResourceAttributes = make(map[string]string)
	}
	if _, ok := c.ResourceAttributes[resourceServiceNameKey]; !ok {
		c.ResourceAttributes[resourceServiceNameKey] = c.ServiceName
	}

	if !c.Enabled {
		return nil
	}

	if c.ExporterEndpoint == "" {
		return fmt.Errorf("observability: OTLP endpoint is required when export is enabled")
	}

	switch c.ExporterProtocol {
	case protocolHTTPProtobuf:
		parsed, err := url.Parse(c.ExporterEndpoint)
		if err != nil {
			return fmt.Errorf("observability: invalid OTLP endpoint: %w", err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("observability: OTLP endpoint must use http or https with the %s protocol", protocolHTTPProtobuf)
		}
		if parsed.Host == "" {
			return fmt.Errorf("observability: OTLP endpoint must include a host")
		}
	case protocolGRPC:
		if !strings.Contains(c.ExporterEndpoint, "://") && !strings.Contains(c.ExporterEndpoint, ":") {
			return fmt.Errorf("observability: OTLP gRPC endpoint should be host:port")
		}
	default:
		return fmt.Errorf("observability: unsupported OTLP protocol %q", c.ExporterProtocol)
	}

	if strings.EqualFold(c.TracesSampler, "traceidratio") {
		if c.TracesSamplerArg <= 0 || c.TracesSamplerArg > 1 {
			return fmt.Errorf("observability: traceidratio sampler argument must be in (0, 1]")
		}
	}
	return nil
}

func parseResourceAttributes(input string) (map[string]string, error) {
	attrs := make(map[string]string)
	for _, pair := range strings.Split(input, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 || strings.TrimSpace(kv[0]) == "" {
			return nil, fmt.Errorf("invalid resource attribute %q", pair)
		}
		attrs[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return attrs, nil
}
