package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	attachmentDomain "github.com/allisson/mediavault/internal/attachment/domain"
	attachmentHTTP "github.com/allisson/mediavault/internal/attachment/http"
	attachmentUsecase "github.com/allisson/mediavault/internal/attachment/usecase"
	"github.com/allisson/mediavault/internal/config"
	credentialsHTTP "github.com/allisson/mediavault/internal/credentials/http"
	credentialsRepository "github.com/allisson/mediavault/internal/credentials/repository"
	credentialsUsecase "github.com/allisson/mediavault/internal/credentials/usecase"
	apperrors "github.com/allisson/mediavault/internal/errors"
	keysDomain "github.com/allisson/mediavault/internal/keys/domain"
	keysService "github.com/allisson/mediavault/internal/keys/service"
	"github.com/allisson/mediavault/internal/metrics"
	"github.com/allisson/mediavault/internal/testutil"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func ptr[T any](v T) *T { return &v }

type fakeAttachmentRepo struct {
	records map[int64]*attachmentDomain.Record
}

func (f *fakeAttachmentRepo) Create(_ context.Context, record *attachmentDomain.Record) error {
	f.records[record.ID] = record
	return nil
}

func (f *fakeAttachmentRepo) Get(_ context.Context, id int64) (*attachmentDomain.Record, error) {
	record, ok := f.records[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return record, nil
}

func (f *fakeAttachmentRepo) Delete(_ context.Context, id int64) error {
	delete(f.records, id)
	return nil
}

type fakeQueueRepo struct {
	entries map[int64]*attachmentUsecase.QueueEntry
}

func (f *fakeQueueRepo) Enqueue(_ context.Context, entry *attachmentUsecase.QueueEntry) error {
	f.entries[entry.AttachmentID] = entry
	return nil
}

func (f *fakeQueueRepo) Get(_ context.Context, attachmentID int64) (*attachmentUsecase.QueueEntry, error) {
	return f.entries[attachmentID], nil
}

func (f *fakeQueueRepo) Delete(_ context.Context, attachmentID int64) error {
	delete(f.entries, attachmentID)
	return nil
}

type emptyRootKeys struct{}

func (emptyRootKeys) Get(_ context.Context, _ keysDomain.Purpose) (*keysDomain.RootKey, error) {
	return nil, apperrors.ErrNotFound
}

func createTestServer(t *testing.T) (*Server, *fakeAttachmentRepo, *fakeQueueRepo) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	noopMetrics := metrics.NewNoOpBackupMetrics()

	attachments := &fakeAttachmentRepo{records: map[int64]*attachmentDomain.Record{}}
	queue := &fakeQueueRepo{entries: map[int64]*attachmentUsecase.QueueEntry{}}
	attachmentService := attachmentUsecase.NewAttachmentService(
		attachments, queue, noopMetrics, logger, nil, 24*time.Hour)

	cache := credentialsRepository.NewCache(testutil.NewMemoryStore(), logger, nil)
	manager := credentialsUsecase.NewManager(
		emptyRootKeys{},
		keysService.NewDerivationService(),
		cache,
		nil,
		noopMetrics,
		logger,
		nil,
		credentialsUsecase.ManagerConfig{AccountID: "aci:test", AppVersion: "test"},
	)

	cfg := &config.Config{
		ServerHost:       "localhost",
		ServerPort:       8080,
		LogLevel:         "info",
		MetricsNamespace: "mediavault",
	}

	server := NewServer(
		cfg,
		logger,
		attachmentHTTP.NewAttachmentHandler(attachmentService, logger),
		credentialsHTTP.NewBackupInfoHandler(manager, logger),
		nil,
	)
	return server, attachments, queue
}

func TestHealthz(t *testing.T) {
	server, _, _ := createTestServer(t)

	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestAttachmentRoutes(t *testing.T) {
	now := time.Now().UTC()

	t.Run("get attachment", func(t *testing.T) {
		server, attachments, _ := createTestServer(t)
		attachments.records[1] = &attachmentDomain.Record{
			ID:                        1,
			MIMEType:                  "image/jpeg",
			EncryptionKey:             []byte("encryption-key"),
			TransitCDNNumber:          ptr(uint32(2)),
			TransitCDNKey:             ptr("transit-cdn-key"),
			TransitUploadTimestamp:    ptr(now),
			TransitEncryptionKey:      []byte("transit-key"),
			TransitEncryptedByteCount: ptr(uint32(2048)),
			TransitDigest:             []byte("digest"),
		}

		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/attachments/1", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, true, response["is_uploaded_to_transit_tier"])
		assert.Equal(t, false, response["has_stream"])
	})

	t.Run("unknown attachment", func(t *testing.T) {
		server, _, _ := createTestServer(t)

		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/attachments/99", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		server, _, _ := createTestServer(t)

		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/attachments/abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("download lifecycle", func(t *testing.T) {
		server, attachments, queue := createTestServer(t)
		attachments.records[1] = &attachmentDomain.Record{
			ID:                        1,
			MIMEType:                  "image/jpeg",
			EncryptionKey:             []byte("encryption-key"),
			TransitCDNNumber:          ptr(uint32(2)),
			TransitCDNKey:             ptr("transit-cdn-key"),
			TransitUploadTimestamp:    ptr(now),
			TransitEncryptionKey:      []byte("transit-key"),
			TransitEncryptedByteCount: ptr(uint32(2048)),
			TransitDigest:             []byte("digest"),
		}

		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/attachments/1/downloads", nil))
		require.Equal(t, http.StatusNoContent, w.Code)
		require.NotNil(t, queue.entries[1])

		w = httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/attachments/1/download-state", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "enqueued_or_downloading")

		w = httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/attachments/1/downloads", nil))
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/attachments/1/download-state", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "none")
	})

	t.Run("upload strategy", func(t *testing.T) {
		server, attachments, _ := createTestServer(t)
		attachments.records[1] = &attachmentDomain.Record{
			ID:            1,
			MIMEType:      "image/jpeg",
			EncryptionKey: []byte("encryption-key"),
		}

		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/attachments/1/upload-strategy", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "cannot_upload")
	})
}

func TestBackupInfoRoutes(t *testing.T) {
	t.Run("backups disabled", func(t *testing.T) {
		server, _, _ := createTestServer(t)

		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/backup-info/media", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "backups_disabled")
	})

	t.Run("invalid purpose", func(t *testing.T) {
		server, _, _ := createTestServer(t)

		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/backup-info/bogus", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(RateLimitMiddleware(1, 1, logger))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		parseOrigins(" https://a.example, https://b.example "))
}
