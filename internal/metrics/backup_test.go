package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("mediavault")
	require.NoError(t, err)
	assert.NotNil(t, provider.MeterProvider())
	assert.NotNil(t, provider.Handler())
	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestBackupMetrics(t *testing.T) {
	provider, err := NewProvider("mediavault")
	require.NoError(t, err)

	bm, err := NewBackupMetrics(provider.MeterProvider(), "mediavault")
	require.NoError(t, err)

	ctx := context.Background()
	bm.CredentialCacheHit(ctx, "cdn_read")
	bm.CredentialCacheMiss(ctx, "cdn_read")
	bm.CredentialFetch(ctx, "cdn_read", true)
	bm.CredentialFetch(ctx, "backup_info", false)
	bm.QueueLookupFailure(ctx)
	bm.PartialFacet(ctx, "transit_tier")

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)

	output := string(body)
	assert.Contains(t, output, "mediavault_credential_cache_total")
	assert.Contains(t, output, "mediavault_credential_fetch_total")
	assert.Contains(t, output, "mediavault_download_queue_lookup_failures_total")
	assert.Contains(t, output, "mediavault_partial_facets_total")
}

func TestNoOpBackupMetrics(t *testing.T) {
	bm := NewNoOpBackupMetrics()
	ctx := context.Background()

	// Must be safe without a provider.
	bm.CredentialCacheHit(ctx, "cdn_read")
	bm.CredentialCacheMiss(ctx, "cdn_read")
	bm.CredentialFetch(ctx, "cdn_read", false)
	bm.QueueLookupFailure(ctx)
	bm.PartialFacet(ctx, "stream")
}
