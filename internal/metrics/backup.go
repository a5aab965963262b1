package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BackupMetrics records credential cache behavior and attachment state query
// outcomes. It satisfies the metric recorder interfaces of the credentials
// and attachment usecases.
type BackupMetrics interface {
	CredentialCacheHit(ctx context.Context, kind string)
	CredentialCacheMiss(ctx context.Context, kind string)
	CredentialFetch(ctx context.Context, kind string, success bool)
	QueueLookupFailure(ctx context.Context)
	PartialFacet(ctx context.Context, facet string)
}

type backupMetrics struct {
	cacheCounter        metric.Int64Counter
	fetchCounter        metric.Int64Counter
	queueFailureCounter metric.Int64Counter
	partialFacetCounter metric.Int64Counter
}

// NewBackupMetrics creates a BackupMetrics implementation on the provided
// meter provider. The namespace prefixes every metric name.
func NewBackupMetrics(meterProvider metric.MeterProvider, namespace string) (BackupMetrics, error) {
	meter := meterProvider.Meter(namespace)

	cacheCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_credential_cache_total", namespace),
		metric.WithDescription("Credential cache lookups by kind and result"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache counter: %w", err)
	}

	fetchCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_credential_fetch_total", namespace),
		metric.WithDescription("Credential fetches by kind and status"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch counter: %w", err)
	}

	queueFailureCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_download_queue_lookup_failures_total", namespace),
		metric.WithDescription("Download queue lookups that failed and degraded to no download state"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create queue failure counter: %w", err)
	}

	partialFacetCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_partial_facets_total", namespace),
		metric.WithDescription("Attachment facets found partially populated and treated as absent"),
		metric.WithUnit("{facet}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create partial facet counter: %w", err)
	}

	return &backupMetrics{
		cacheCounter:        cacheCounter,
		fetchCounter:        fetchCounter,
		queueFailureCounter: queueFailureCounter,
		partialFacetCounter: partialFacetCounter,
	}, nil
}

func (b *backupMetrics) CredentialCacheHit(ctx context.Context, kind string) {
	b.cacheCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("result", "hit"),
	))
}

func (b *backupMetrics) CredentialCacheMiss(ctx context.Context, kind string) {
	b.cacheCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("result", "miss"),
	))
}

func (b *backupMetrics) CredentialFetch(ctx context.Context, kind string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	b.fetchCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", status),
	))
}

func (b *backupMetrics) QueueLookupFailure(ctx context.Context) {
	b.queueFailureCounter.Add(ctx, 1)
}

func (b *backupMetrics) PartialFacet(ctx context.Context, facet string) {
	b.partialFacetCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("facet", facet),
	))
}

// NoOpBackupMetrics is used when metrics are disabled.
type NoOpBackupMetrics struct{}

// NewNoOpBackupMetrics creates a no-op BackupMetrics implementation.
func NewNoOpBackupMetrics() BackupMetrics {
	return &NoOpBackupMetrics{}
}

func (n *NoOpBackupMetrics) CredentialCacheHit(ctx context.Context, kind string) {}

func (n *NoOpBackupMetrics) CredentialCacheMiss(ctx context.Context, kind string) {}

func (n *NoOpBackupMetrics) CredentialFetch(ctx context.Context, kind string, ok bool) {}

func (n *NoOpBackupMetrics) QueueLookupFailure(ctx context.Context) {}

func (n *NoOpBackupMetrics) PartialFacet(ctx context.Context, facet string) {}
